package output

import (
	"fmt"
	"io"
	"os"
)

// FileSink writes records to one file. The first Write truncates or
// creates the file and later writes append. The file is opened and closed
// around every record, so a failed export leaves the records written so
// far in place.
type FileSink struct {
	Path string
	Perm os.FileMode

	started bool
}

// NewFileSink returns a sink for path. Nothing touches the file until the
// first Write.
func NewFileSink(path string) *FileSink {
	return &FileSink{Path: path, Perm: 0o644}
}

// Write appends record followed by a newline.
func (s *FileSink) Write(record string) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_APPEND
	if !s.started {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	perm := s.Perm
	if perm == 0 {
		perm = 0o644
	}
	f, err := os.OpenFile(s.Path, flags, perm)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	s.started = true
	if _, err := io.WriteString(f, record+"\n"); err != nil {
		f.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

// DisplaySink prints each record followed by a blank line.
type DisplaySink struct {
	W io.Writer
}

func NewDisplaySink(w io.Writer) *DisplaySink { return &DisplaySink{W: w} }

func (s *DisplaySink) Write(record string) error {
	_, err := io.WriteString(s.W, record+"\n\n")
	return err
}
