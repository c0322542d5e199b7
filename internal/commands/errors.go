package commands

import (
	"errors"
	"fmt"

	"github.com/pixil98/go-blockshuffle/internal/shuffle"
)

// UserError is shown to the player verbatim. It marks bad input or a
// command that does not apply right now, never a system failure.
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

func NewUserError(msg string) *UserError {
	return &UserError{Message: msg}
}

// UserErrorf formats a UserError.
func UserErrorf(format string, args ...any) *UserError {
	return &UserError{Message: fmt.Sprintf(format, args...)}
}

// asUserError turns a game state error into a UserError carrying the
// announcement text. Other errors pass through.
func asUserError(err error) error {
	var se *shuffle.StateError
	if errors.As(err, &se) {
		return NewUserError(se.Message)
	}
	return err
}
