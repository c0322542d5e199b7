package shuffle

import "errors"

// ErrInvalidStateTransition is returned when a command does not apply to the
// current game state, such as starting a running game.
var ErrInvalidStateTransition = errors.New("invalid state transition")

// StateError carries the message shown to whoever issued the command.
type StateError struct {
	Op      string
	Message string
}

func (e *StateError) Error() string {
	return e.Message
}

func (e *StateError) Unwrap() error {
	return ErrInvalidStateTransition
}
