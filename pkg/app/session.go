package app

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// RedirectMode selects where inbound serial bytes are routed
type RedirectMode int

const (
	// ToShell routes inbound bytes to the display
	ToShell RedirectMode = iota
	// ToFile routes inbound bytes to the active sink file
	ToFile
)

// String returns the string representation of RedirectMode
func (m RedirectMode) String() string {
	switch m {
	case ToShell:
		return "shell"
	case ToFile:
		return "file"
	default:
		return "unknown"
	}
}

// Session owns the redirect state shared by the two activities: the current
// mode and the sink file that is present exactly when the mode is ToFile.
// Mode switches close the previous sink before activating the next one, so
// at most one sink is ever open.
type Session struct {
	mu   sync.Mutex
	mode RedirectMode
	sink *os.File
}

// NewSession creates a session in the default shell-routing mode
func NewSession() *Session {
	return &Session{mode: ToShell}
}

// RedirectToShell routes inbound bytes back to the display, closing any
// open sink.
func (s *Session) RedirectToShell() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sink != nil {
		s.sink.Close()
		s.sink = nil
	}
	s.mode = ToShell
}

// RedirectToFile creates or truncates the file at path and routes inbound
// bytes to it. On failure the previous mode and sink are left untouched.
func (s *Session) RedirectToFile(path string) error {
	sink, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open sink file %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sink != nil {
		s.sink.Close()
	}
	s.sink = sink
	s.mode = ToFile
	return nil
}

// Route returns a snapshot of the current routing decision for one inbound
// chunk. The sink is non-nil exactly when the mode is ToFile.
func (s *Session) Route() (RedirectMode, io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == ToFile {
		return ToFile, s.sink
	}
	return ToShell, nil
}

// Mode returns the current redirect mode
func (s *Session) Mode() RedirectMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Close releases the sink and resets the session to its canonical
// shell-routing state. Safe to call repeatedly.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.sink != nil {
		err = s.sink.Close()
		s.sink = nil
	}
	s.mode = ToShell
	return err
}
