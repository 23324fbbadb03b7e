// Package events provides the in-process notification bus that stands in for
// the web client's toast system: components publish transient notices and
// session lifecycle events, presentation layers subscribe to render them.
package events

import (
	"fmt"
	"sync/atomic"
	"time"
)

// EventType represents the type of event.
type EventType string

const (
	// Transient user-facing notices (the toast analogue)
	EventNotice EventType = "notice"

	// Session lifecycle
	EventSessionStarted EventType = "session.started"
	EventSessionEnded   EventType = "session.ended"
	EventSessionExpired EventType = "session.expired"

	// Task state container mutations (presentation refresh hint)
	EventTasksChanged EventType = "tasks.changed"
)

// EventSource identifies the component that emitted an event.
type EventSource string

const (
	SourceAPI   EventSource = "api"
	SourceAuth  EventSource = "auth"
	SourceTasks EventSource = "tasks"
)

// Level classifies a notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is the payload of an EventNotice event.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Event represents an event on the bus.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Source    EventSource `json:"source"`
	Payload   any         `json:"payload,omitempty"`
}

var eventIDCounter uint64

// NewEvent creates a new event with the current timestamp.
func NewEvent(eventType EventType, source EventSource, payload any) Event {
	return Event{
		ID:        generateEventID(),
		Type:      eventType,
		Timestamp: time.Now(),
		Source:    source,
		Payload:   payload,
	}
}

// NewNotice creates a notice event.
func NewNotice(source EventSource, level Level, message string) Event {
	return NewEvent(EventNotice, source, Notice{Level: level, Message: message})
}

func generateEventID() string {
	seq := atomic.AddUint64(&eventIDCounter, 1)
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), seq)
}
