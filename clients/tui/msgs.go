package tui

import (
	"github.com/asalgado/tasq/internal/events"
)

// busEventMsg wraps an event received from the notification bus.
type busEventMsg struct {
	event events.Event
}

// busClosedMsg signals the bus subscription ended.
type busClosedMsg struct{}

// authDoneMsg signals a finished login or register attempt.
type authDoneMsg struct {
	err error
}

// opDoneMsg signals a finished task operation (fetch, create, update,
// delete or toggle).
type opDoneMsg struct {
	err error
}

// toastExpiredMsg clears a displayed toast after its duration.
type toastExpiredMsg struct {
	id string
}
