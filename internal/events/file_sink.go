package events

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"
)

// FileSink appends one line per event to a local log, standing in for a broker in development.
// Each line is "<RFC3339 time> - <json>".
type FileSink struct {
	mu   sync.Mutex
	file *os.File
	now  func() time.Time
}

func NewFileSink(path string) (*FileSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open event log %s: %w", path, err)
	}
	return &FileSink{file: f, now: time.Now}, nil
}

func (s *FileSink) Write(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line := fmt.Sprintf("%s - %s\n", s.now().UTC().Format(time.RFC3339), msg.Value)
	if _, err := s.file.WriteString(line); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
