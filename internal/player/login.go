package player

import (
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/pixil98/go-blockshuffle/internal"
	"github.com/pixil98/go-blockshuffle/internal/game"
)

const maxNameTries = 5

// Names double as NATS subject tokens, so they stay plain alphanumerics.
var namePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]{1,15}$`)

type loginFlow struct {
	world *game.WorldState
}

// Run asks for a name until the player confirms one that is free, then adds
// them to the world.
func (f *loginFlow) Run(rw io.ReadWriter, msgs chan game.Delivery) (*game.PlayerState, error) {
	if _, err := rw.Write([]byte("Welcome to BlockShuffle!\n")); err != nil {
		return nil, err
	}

	for {
		name, err := internal.Prompt(rw, "By what name do you wish to be known? ",
			internal.WithMaxTries(maxNameTries),
			internal.WithValidator(f.validateName),
		)
		if err != nil {
			return nil, err
		}

		ok, err := internal.PromptYN(rw, fmt.Sprintf("Did I get that right, %s (Y/N)? ", name))
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		ps, err := f.world.AddPlayer(name, msgs)
		if errors.Is(err, game.ErrPlayerExists) {
			if _, err := rw.Write([]byte("Someone just took that name, please try another.\n")); err != nil {
				return nil, err
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("adding player: %w", err)
		}
		return ps, nil
	}
}

func (f *loginFlow) validateName(name string) (bool, string) {
	if !namePattern.MatchString(name) {
		return false, "Names are 2 to 16 letters or digits and start with a letter.\n"
	}
	if f.world.GetPlayer(name) != nil {
		return false, "That name is already playing, please try another.\n"
	}
	return true, ""
}
