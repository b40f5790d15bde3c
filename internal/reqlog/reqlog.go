// Package reqlog keeps an in-process audit trail of attempted operations and
// their outcomes. It is diagnostic only: nothing reads it to make decisions.
package reqlog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// EntryType classifies a log entry.
type EntryType string

const (
	TypeRequest  EntryType = "REQUEST"
	TypeResponse EntryType = "RESPONSE"
	TypeError    EntryType = "ERROR"
)

// Entry is one audit record. Data holds the request payload, the response, or
// the error message depending on Type.
type Entry struct {
	ID        string    `json:"id"`
	Type      EntryType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Method    string    `json:"method"`
	Target    string    `json:"target"`
	Data      any       `json:"data,omitempty"`
}

// Logger is an append-only list of entries, mirrored to a structured logger.
type Logger struct {
	mu      sync.Mutex
	entries []Entry
	log     *slog.Logger
	now     func() time.Time
}

// New creates an empty request logger.
func New(log *slog.Logger) *Logger {
	return &Logger{
		log: log,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// LogRequest records an attempted operation.
func (l *Logger) LogRequest(method, target string, payload any) {
	l.append(TypeRequest, method, target, payload)
}

// LogResponse records a successful outcome.
func (l *Logger) LogResponse(method, target string, response any) {
	l.append(TypeResponse, method, target, response)
}

// LogError records a failed outcome. Only the error message is kept.
func (l *Logger) LogError(method, target string, err error) {
	var msg string
	if err != nil {
		msg = err.Error()
	}
	l.append(TypeError, method, target, msg)
}

// GetAll returns a snapshot copy of every entry in insertion order.
func (l *Logger) GetAll() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Clear drops every entry.
func (l *Logger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
}

func (l *Logger) append(typ EntryType, method, target string, data any) {
	entry := Entry{
		ID:        uuid.NewString(),
		Type:      typ,
		Timestamp: l.now(),
		Method:    method,
		Target:    target,
		Data:      data,
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()

	level := slog.LevelDebug
	if typ == TypeError {
		level = slog.LevelWarn
	}
	l.log.Log(context.Background(), level, "api "+string(typ),
		"id", entry.ID,
		"method", method,
		"target", target,
	)
}
