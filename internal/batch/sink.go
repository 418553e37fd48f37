package batch

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Sink writes lines to an output file. It is safe for concurrent use.
// With atomic output the lines go to "<path>.tmp", which replaces path only
// on Commit.
type Sink struct {
	mu      sync.Mutex
	path    string
	tmpPath string
	file    *os.File
	w       *bufio.Writer
	lines   int
	closed  bool
}

// CreateSink creates the output file, or its temporary stand-in.
func CreateSink(path string, atomic bool) (*Sink, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	target := path
	tmpPath := ""
	if atomic {
		tmpPath = path + ".tmp"
		target = tmpPath
	}

	file, err := os.Create(target)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return &Sink{
		path:    path,
		tmpPath: tmpPath,
		file:    file,
		w:       bufio.NewWriter(file),
	}, nil
}

// WriteLines appends lines, each followed by a newline, without
// interleaving with other callers.
func (s *Sink) WriteLines(lines []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("write to closed output %s", s.path)
	}
	for _, line := range lines {
		if _, err := s.w.WriteString(line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := s.w.WriteByte('\n'); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		s.lines++
	}
	return nil
}

// Lines returns the number of lines written so far.
func (s *Sink) Lines() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lines
}

// Commit flushes and closes the output and, for atomic output, moves it
// into place.
func (s *Sink) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.close(); err != nil {
		return err
	}
	if s.tmpPath != "" {
		if err := os.Rename(s.tmpPath, s.path); err != nil {
			return fmt.Errorf("failed to move output into place: %w", err)
		}
	}
	return nil
}

// Abort flushes and closes the output. Atomic output is discarded, plain
// output keeps whatever was written.
func (s *Sink) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.close()
	if s.tmpPath != "" {
		os.Remove(s.tmpPath) //nolint:errcheck
	}
	return err
}

func (s *Sink) close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	flushErr := s.w.Flush()
	closeErr := s.file.Close()
	if flushErr != nil {
		return fmt.Errorf("failed to flush output: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close output: %w", closeErr)
	}
	return nil
}
