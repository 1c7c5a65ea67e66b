package core

import "github.com/google/uuid"

// WindowID identifies the window an event was produced for.
type WindowID uuid.UUID

// NilWindowID never matches a live window.
var NilWindowID = WindowID(uuid.Nil)

// NewWindowID acquires a fresh random identifier.
func NewWindowID() WindowID {
	return WindowID(uuid.New())
}

func (id WindowID) String() string {
	return uuid.UUID(id).String()
}
