package extract

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Committer receives one file's decoded bytes and either publishes or
// abandons them.
type Committer interface {
	io.Writer

	// Commit publishes the written content at its final path.
	Commit() error

	// Discard abandons the written content and cleans up.
	Discard() error
}

// fileCommitter stages content in a temporary file next to its destination
// and renames it into place on Commit, so partially written files are never
// visible at the final path. An existing file at the destination is
// replaced by the rename.
type fileCommitter struct {
	root     *os.Root
	destRel  string
	tempFile *os.File
	tempRel  string
}

// newFileCommitter creates the destination's parent directories inside root
// and opens a temporary file beside it.
func newFileCommitter(root *os.Root, logicalPath string) (*fileCommitter, error) {
	destRel := filepath.FromSlash(logicalPath)
	dir := filepath.Dir(destRel)
	if err := root.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}
	tempFile, tempRel, err := createTempFile(root, dir, ".packset-")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	return &fileCommitter{
		root:     root,
		destRel:  destRel,
		tempFile: tempFile,
		tempRel:  tempRel,
	}, nil
}

// Write implements io.Writer.
func (c *fileCommitter) Write(p []byte) (int, error) {
	return c.tempFile.Write(p)
}

// Commit closes the temp file and renames it to the final path.
func (c *fileCommitter) Commit() error {
	if err := c.tempFile.Close(); err != nil {
		_ = c.root.Remove(c.tempRel) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := c.root.Rename(c.tempRel, c.destRel); err != nil {
		_ = c.root.Remove(c.tempRel) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("rename to %s: %w", c.destRel, err)
	}
	return nil
}

// Discard closes and removes the temp file.
func (c *fileCommitter) Discard() error {
	_ = c.tempFile.Close() //nolint:errcheck // we're cleaning up
	return c.root.Remove(c.tempRel)
}

func createTempFile(root *os.Root, dir, prefix string) (*os.File, string, error) {
	const attempts = 10
	for range attempts {
		name, err := randomSuffix()
		if err != nil {
			return nil, "", err
		}
		relPath := filepath.Join(dir, prefix+name)
		f, err := root.OpenFile(relPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			return f, relPath, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", err
		}
	}
	return nil, "", errors.New("create temp file: exhausted retries")
}

func randomSuffix() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
