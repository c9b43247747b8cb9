package game

import "errors"

// Failure classes. Violations are reported back to the acting player only;
// none of them abort the serving process or leave a game half-mutated.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
	ErrExhausted    = errors.New("letter bag exhausted")
)
