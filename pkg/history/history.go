// Package history provides the session transcript recorder
package history

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Direction represents the direction of data flow
type Direction int

const (
	DirectionSent Direction = iota
	DirectionReceived
)

// String returns the string representation of Direction
func (d Direction) String() string {
	switch d {
	case DirectionSent:
		return "sent"
	case DirectionReceived:
		return "received"
	default:
		return "unknown"
	}
}

// FileFormat represents transcript export formats
type FileFormat int

const (
	FormatPlainText FileFormat = iota
	FormatTimestamped
)

// Entry represents a single recorded chunk of session traffic
type Entry struct {
	Timestamp time.Time
	Direction Direction
	Data      []byte
}

// Stats summarizes a session's traffic
type Stats struct {
	BytesSent     int64
	BytesReceived int64
	Entries       int
}

// Recorder is the contract the session uses to log traffic. Recording is
// observational: a failing recorder never affects the session itself.
type Recorder interface {
	Record(data []byte, direction Direction) error
	GetStats() Stats
	SaveToFile(filename string, format FileFormat) error
}

// MemoryRecorder keeps the transcript in memory. It is safe for concurrent
// use; both session activities record through it.
type MemoryRecorder struct {
	mu       sync.Mutex
	entries  []Entry
	maxBytes int
	size     int
	stats    Stats
}

// NewMemoryRecorder creates a transcript recorder holding at most maxBytes
// of data. Older entries are dropped once the limit is exceeded; running
// byte totals still cover the whole session.
func NewMemoryRecorder(maxBytes int) *MemoryRecorder {
	if maxBytes <= 0 {
		maxBytes = 10 * 1024 * 1024
	}
	return &MemoryRecorder{maxBytes: maxBytes}
}

// Record appends one chunk of traffic to the transcript
func (r *MemoryRecorder) Record(data []byte, direction Direction) error {
	if data == nil {
		return fmt.Errorf("data cannot be nil")
	}
	if direction != DirectionSent && direction != DirectionReceived {
		return fmt.Errorf("invalid direction: %d", direction)
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, Entry{
		Timestamp: time.Now(),
		Direction: direction,
		Data:      dataCopy,
	})
	r.size += len(dataCopy)

	// Drop oldest entries once over budget
	for r.size > r.maxBytes && len(r.entries) > 1 {
		r.size -= len(r.entries[0].Data)
		r.entries = r.entries[1:]
	}

	r.stats.Entries++
	if direction == DirectionSent {
		r.stats.BytesSent += int64(len(data))
	} else {
		r.stats.BytesReceived += int64(len(data))
	}

	return nil
}

// GetStats returns the running traffic totals for the session
func (r *MemoryRecorder) GetStats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// GetEntries returns a copy of the retained transcript entries
func (r *MemoryRecorder) GetEntries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)
	return entries
}

// SaveToFile writes the retained transcript to a file in the given format
func (r *MemoryRecorder) SaveToFile(filename string, format FileFormat) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	entries := r.GetEntries()

	var b strings.Builder
	switch format {
	case FormatPlainText:
		for _, entry := range entries {
			b.Write(entry.Data)
			b.WriteByte('\n')
		}
	case FormatTimestamped:
		for _, entry := range entries {
			fmt.Fprintf(&b, "[%s] %s: %s\n",
				entry.Timestamp.Format("2006-01-02 15:04:05.000"),
				entry.Direction,
				entry.Data)
		}
	default:
		return fmt.Errorf("unsupported file format: %d", format)
	}

	if err := os.WriteFile(filename, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}
	return nil
}
