package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pixil98/go-blockshuffle/internal/commands"
	"github.com/pixil98/go-blockshuffle/internal/display"
	"github.com/pixil98/go-blockshuffle/internal/game"
)

type Player struct {
	conn       io.ReadWriter
	session    *game.PlayerState
	world      *game.WorldState
	cmdHandler *commands.Handler
	runner     Runner

	msgs chan game.Delivery

	// Latest transient status and progress bar, shown in the prompt.
	tip string
	bar string

	// Prompt text last written to the connection.
	shown string
}

// Name returns the player's display name.
func (p *Player) Name() string {
	return p.session.Name
}

func (p *Player) Play(ctx context.Context) error {
	// Start goroutine to read input lines into a channel
	inputChan := make(chan string)
	inputErrChan := make(chan error, 1)
	go func() {
		defer close(inputChan)
		scanner := bufio.NewScanner(p.conn)
		for scanner.Scan() {
			select {
			case inputChan <- scanner.Text():
			case <-p.session.Done():
				return
			}
		}
		inputErrChan <- scanner.Err()
	}()

	// Show the player where they are on login
	if err := p.exec(ctx, "look"); err != nil {
		return fmt.Errorf("initial look failed: %w", err)
	}
	if err := p.flush(); err != nil {
		return err
	}
	if err := p.prompt(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-p.session.Done():
			return nil

		case d := <-p.msgs:
			if err := p.handleDelivery(ctx, d); err != nil {
				return err
			}

		case line, ok := <-inputChan:
			if !ok {
				// Input channel closed (connection lost).
				select {
				case err := <-inputErrChan:
					return err
				default:
					return nil
				}
			}

			line = strings.TrimSpace(line)
			if line != "" {
				parts := strings.Fields(line)
				if err := p.exec(ctx, parts[0], parts[1:]...); err != nil {
					return err
				}
			}

			if err := p.flush(); err != nil {
				return err
			}

			if p.session.Quit {
				return p.writeLine("Goodbye!")
			}

			if err := p.prompt(ctx); err != nil {
				return err
			}
		}
	}
}

// exec runs a command, showing user errors to the player.
func (p *Player) exec(ctx context.Context, cmdName string, args ...string) error {
	err := p.cmdHandler.Exec(ctx, p.session, cmdName, args...)
	if err == nil {
		return nil
	}

	var userErr *commands.UserError
	if errors.As(err, &userErr) {
		return p.writeLine(userErr.Message)
	}

	// System errors are logged and reported without ending the session.
	slog.ErrorContext(ctx, "command execution failed", "player", p.Name(), "command", cmdName, "error", err)
	return p.writeLine("Something went wrong.")
}

// flush shows every delivery already queued so command output lands before the prompt.
func (p *Player) flush() error {
	for {
		select {
		case d := <-p.msgs:
			if _, err := p.deliver(d); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// deliver handles one delivery and reports whether anything was printed.
func (p *Player) deliver(d game.Delivery) (bool, error) {
	switch d.Kind {
	case game.DeliveryTip:
		p.tip = string(d.Data)
		return false, nil
	case game.DeliveryBar:
		p.bar = string(d.Data)
		return false, nil
	default:
		return true, p.writeLine("\n" + string(d.Data))
	}
}

// handleDelivery shows a delivery that arrived while the player sat at the
// prompt. Messages get a fresh prompt; tip and bar updates rewrite the
// current prompt line in place when its text changed.
func (p *Player) handleDelivery(ctx context.Context, d game.Delivery) error {
	printed, err := p.deliver(d)
	if err != nil {
		return err
	}
	if printed {
		return p.prompt(ctx)
	}
	return p.redrawPrompt(ctx)
}

func (p *Player) prompt(ctx context.Context) error {
	p.shown = p.promptText(ctx)
	_, err := p.conn.Write([]byte(p.shown))
	return err
}

// redrawPrompt returns to the start of the line, clears it and writes the
// prompt again.
func (p *Player) redrawPrompt(ctx context.Context) error {
	text := p.promptText(ctx)
	if text == p.shown {
		return nil
	}
	p.shown = text
	_, err := p.conn.Write([]byte("\r\x1b[K" + text))
	return err
}

func (p *Player) promptText(ctx context.Context) string {
	var parts []string

	ts, inRound, err := p.runner.Targets(ctx, p.Name())
	if err != nil {
		slog.WarnContext(ctx, "reading targets for prompt", "player", p.Name(), "error", err)
		inRound = false
	}

	switch {
	case p.world.IsSpectator(p.Name()):
		parts = append(parts, "(spectating)")
	case inRound:
		parts = append(parts, "["+strings.Join(ts.Names(), " | ")+"]")
	}

	// Tips are only meaningful while the player has a round to race in.
	if !inRound {
		p.tip = ""
	}
	switch {
	case p.bar != "":
		parts = append(parts, p.bar)
	case p.tip != "":
		parts = append(parts, p.tip)
	}

	parts = append(parts, "> ")
	return strings.Join(parts, " ")
}

func (p *Player) writeLine(msg string) error {
	_, err := p.conn.Write([]byte(display.Wrap(msg) + "\n"))
	return err
}
