package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixil98/go-blockshuffle/internal/game"
	"github.com/pixil98/go-blockshuffle/internal/messaging"
)

// Everyone is the "to" value that addresses the broadcast channel.
const Everyone = "all"

// MessageHandlerFactory creates chat handlers.
// Config:
//   - to (required): "all" or the name of an online player
//   - message (required): text the recipients see
//   - echo (optional): confirmation shown to the sender
type MessageHandlerFactory struct {
	world *game.WorldState
	pub   Publisher
	msgr  Messenger
}

func NewMessageHandlerFactory(world *game.WorldState, pub Publisher, msgr Messenger) *MessageHandlerFactory {
	return &MessageHandlerFactory{world: world, pub: pub, msgr: msgr}
}

func (f *MessageHandlerFactory) Spec() *HandlerSpec {
	return &HandlerSpec{
		Config: []ConfigRequirement{
			{Name: "to", Required: true},
			{Name: "message", Required: true},
			{Name: "echo"},
		},
	}
}

func (f *MessageHandlerFactory) ValidateConfig(config map[string]any) error {
	for _, key := range []string{"to", "message", "echo"} {
		v, ok := config[key]
		if !ok {
			continue
		}
		if _, isStr := v.(string); !isStr {
			return fmt.Errorf("%s must be a string", key)
		}
	}
	return nil
}

func (f *MessageHandlerFactory) Create() (CommandFunc, error) {
	return func(ctx context.Context, cmdCtx *CommandContext) error {
		to := strings.TrimSpace(cmdCtx.Config["to"])
		msg := cmdCtx.Config["message"]

		subject := messaging.BroadcastSubject
		if !strings.EqualFold(to, Everyone) {
			if strings.EqualFold(to, cmdCtx.Actor) {
				return NewUserError("Talking to yourself?")
			}
			ps := f.world.GetPlayer(to)
			if ps == nil {
				return UserErrorf("No one named %s is playing.", to)
			}
			subject = messaging.PlayerSubject(ps.Name)
		}

		if err := f.pub.Publish(subject, []byte(msg)); err != nil {
			return fmt.Errorf("publishing to %s: %w", subject, err)
		}

		if echo := cmdCtx.Config["echo"]; echo != "" {
			return f.msgr.SendMessage(cmdCtx.Actor, echo)
		}
		return nil
	}, nil
}
