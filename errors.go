package p2pgo

import "errors"

// Rule violations, returned by board.ApplyMove without mutating state.
var (
	ErrOutOfRange      = errors.New("p2pgo: coordinate out of range")
	ErrOccupied        = errors.New("p2pgo: point occupied")
	ErrSuicide         = errors.New("p2pgo: suicide")
	ErrKoViolation     = errors.New("p2pgo: ko violation")
	ErrGameAlreadyOver = errors.New("p2pgo: game already over")
)

// ErrCancelled is the error value for an operation cut short by
// cancellation. No operation in this module returns it: cancelled
// background loops return the context's own error instead.
var ErrCancelled = errors.New("p2pgo: cancelled")
