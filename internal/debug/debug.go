// Package debug provides diagnostic reporting for layerplot runs.
//
// The debug system follows these principles:
//   - Explicit: a Session is created by the caller and passed in, there is no global switch
//   - Zero overhead: a nil Session is a valid no-op
//   - Levelled: each event has a verbosity level and is dropped above the session level
//   - Machine parsable: JSON Lines by default, pretty format optional
package debug

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Level is a diagnostic verbosity level.
type Level int

const (
	// LevelOff disables all diagnostics
	LevelOff Level = iota
	// LevelSummary reports command counts and the final position at end of run
	LevelSummary
	// LevelLayers adds one event per z change
	LevelLayers
	// LevelTrace adds one event per command and per rendered segment
	LevelTrace
)

var levelNames = []string{"off", "summary", "layers", "trace"}

func (l Level) String() string {
	if l < LevelOff || l > LevelTrace {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel converts a level name to a Level. An empty name is LevelOff.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return LevelOff, nil
	}
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("unknown debug level %q (want one of %s)", s, strings.Join(levelNames, ", "))
}

// Session represents a debug session for a single run.
// A Session is not safe for concurrent use.
type Session struct {
	sessionID string
	sink      Sink
	level     Level
	startTime time.Time
}

// NewSession creates a new debug session with the provided sink.
// Returns nil if level is LevelOff or sink is nil.
func NewSession(sink Sink, level Level) *Session {
	if level <= LevelOff || sink == nil {
		return nil
	}

	s := &Session{
		sessionID: generateSessionID(),
		sink:      sink,
		level:     level,
		startTime: time.Now(),
	}

	s.Emit(LevelSummary, "session", "Start", map[string]interface{}{
		"version": "1.0",
		"level":   level.String(),
	})

	return s
}

// SessionID returns the unique identifier for this session.
func (s *Session) SessionID() string {
	if s == nil {
		return ""
	}
	return s.sessionID
}

// Enabled reports whether events at level l are recorded.
// Callers use it to skip building expensive payloads.
func (s *Session) Enabled(l Level) bool {
	return s != nil && l <= s.level
}

// Emit sends an event to the sink if the session level admits it.
// This is a no-op if the session is nil.
func (s *Session) Emit(l Level, phase, event string, data interface{}) {
	if !s.Enabled(l) {
		return
	}

	evt := Event{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		SessionID: s.sessionID,
		Level:     l.String(),
		Phase:     phase,
		Event:     event,
		Data:      data,
	}

	// Diagnostics must not change the outcome of a run
	//nolint:errcheck // Debug sink errors are non-critical
	s.sink.Write(evt)
}

// Close emits the session end event and closes the sink.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}

	elapsed := time.Since(s.startTime).Milliseconds()
	s.Emit(LevelSummary, "session", "End", map[string]int64{
		"elapsed_ms": elapsed,
	})

	return s.sink.Close()
}

// generateSessionID creates a unique session identifier.
func generateSessionID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		n := time.Now().UnixNano()
		return hex.EncodeToString([]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)})
	}
	return hex.EncodeToString(b)
}

// Event is the base envelope for all debug events.
type Event struct {
	Timestamp string      `json:"ts"`
	SessionID string      `json:"session_id"`
	Level     string      `json:"level"`
	Phase     string      `json:"phase"`
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
}
