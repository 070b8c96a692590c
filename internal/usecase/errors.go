package usecase

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("conflicting change")
	// ErrSessionBusy is returned when a commit is requested while another
	// commit on the same session is still in flight.
	ErrSessionBusy = errors.New("a commit is already in progress")
)
