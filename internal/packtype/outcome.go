package packtype

// Status classifies the result of processing one resolved file.
// The zero value is invalid; it marks entries a canceled run never reached.
type Status uint8

const (
	// StatusWritten indicates the file was extracted and committed to disk.
	StatusWritten Status = iota + 1

	// StatusListed indicates a dry run validated the file without writing it.
	StatusListed

	// StatusVerified indicates the file's content was decoded and its
	// checksum confirmed without writing anything.
	StatusVerified

	// StatusFailed indicates the file could not be processed.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusWritten:
		return "written"
	case StatusListed:
		return "listed"
	case StatusVerified:
		return "verified"
	case StatusFailed:
		return "failed"
	default:
		return "invalid"
	}
}

// Outcome reports the result of processing a single resolved file.
// A failed outcome never aborts the surrounding run.
type Outcome struct {
	// Path is the logical path of the file.
	Path string

	// Status classifies the result.
	Status Status

	// Bytes is the uncompressed payload length in bytes.
	Bytes uint64

	// Err holds the failure cause when Status is StatusFailed, nil otherwise.
	Err error
}

// Summary aggregates the outcomes of one run.
type Summary struct {
	// Outcomes holds one entry per processed file, in selection order.
	Outcomes []Outcome

	// Written, Listed, Verified, and Failed count outcomes by status.
	Written  int
	Listed   int
	Verified int
	Failed   int
}

// Add appends an outcome and updates the status counters.
func (s *Summary) Add(o Outcome) {
	s.Outcomes = append(s.Outcomes, o)
	switch o.Status {
	case StatusWritten:
		s.Written++
	case StatusListed:
		s.Listed++
	case StatusVerified:
		s.Verified++
	case StatusFailed:
		s.Failed++
	}
}

// Ok reports whether every processed file succeeded.
func (s *Summary) Ok() bool {
	return s.Failed == 0
}
