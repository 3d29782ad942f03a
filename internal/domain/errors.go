package domain

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the actor's role does not permit
	// the requested operation. Rejected before any write.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidTransition is returned when the requested status change
	// is not reachable from the booking's current state.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyAssigned is returned by manual assignment when the
	// booking already has a provider.
	ErrAlreadyAssigned = errors.New("booking already has a provider assigned")
)
