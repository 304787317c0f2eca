package sizing

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
)

var errOverflow = errors.New("overflow")

func TestToInt64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		size    uint64
		want    int64
		wantErr bool
	}{
		{name: "zero", size: 0, want: 0},
		{name: "max int64", size: math.MaxInt64, want: math.MaxInt64},
		{name: "one past max int64", size: math.MaxInt64 + 1, wantErr: true},
		{name: "max uint64", size: math.MaxUint64, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ToInt64(tt.size, errOverflow)
			if tt.wantErr {
				if !errors.Is(err, errOverflow) {
					t.Errorf("ToInt64() error = %v, want %v", err, errOverflow)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToInt64() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ToInt64() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAddUint64(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b uint64
		want uint64
		ok   bool
	}{
		{name: "small values", a: 1, b: 2, want: 3, ok: true},
		{name: "zero", a: 0, b: 0, want: 0, ok: true},
		{name: "at limit", a: math.MaxUint64 - 1, b: 1, want: math.MaxUint64, ok: true},
		{name: "overflow", a: math.MaxUint64, b: 1, ok: false},
		{name: "both huge", a: math.MaxUint64, b: math.MaxUint64, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := AddUint64(tt.a, tt.b)
			if ok != tt.ok {
				t.Fatalf("AddUint64() ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("AddUint64() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReadAllWithLimit(t *testing.T) {
	t.Parallel()

	t.Run("under limit", func(t *testing.T) {
		t.Parallel()
		data, err := ReadAllWithLimit(strings.NewReader("hello"), 10, errOverflow)
		if err != nil {
			t.Fatalf("ReadAllWithLimit() unexpected error: %v", err)
		}
		if !bytes.Equal(data, []byte("hello")) {
			t.Errorf("ReadAllWithLimit() = %q, want %q", data, "hello")
		}
	})

	t.Run("exactly at limit", func(t *testing.T) {
		t.Parallel()
		data, err := ReadAllWithLimit(strings.NewReader("exact"), 5, errOverflow)
		if err != nil {
			t.Fatalf("ReadAllWithLimit() unexpected error: %v", err)
		}
		if len(data) != 5 {
			t.Errorf("ReadAllWithLimit() read %d bytes, want 5", len(data))
		}
	})

	t.Run("over limit", func(t *testing.T) {
		t.Parallel()
		_, err := ReadAllWithLimit(strings.NewReader("too many bytes"), 5, errOverflow)
		if !errors.Is(err, errOverflow) {
			t.Errorf("ReadAllWithLimit() error = %v, want %v", err, errOverflow)
		}
	})
}
