package command

import (
	"context"
	"fmt"

	"github.com/pixil98/go-blockshuffle/internal/commands"
	"github.com/pixil98/go-blockshuffle/internal/game"
	"github.com/pixil98/go-blockshuffle/internal/listener"
	"github.com/pixil98/go-blockshuffle/internal/messaging"
	"github.com/pixil98/go-blockshuffle/internal/player"
	"github.com/pixil98/go-blockshuffle/internal/shuffle"
	"github.com/pixil98/go-service"
)

func BuildWorkers(config interface{}) (service.WorkerList, error) {
	cfg, ok := config.(*Config)
	if !ok {
		return nil, fmt.Errorf("unable to cast config")
	}

	// Message bus
	natsServer, err := cfg.Nats.buildNatsServer()
	if err != nil {
		return nil, err
	}
	pub := messaging.NewNatsPublisher(natsServer)

	// World
	arena, err := cfg.Storage.loadArena(cfg.Game.Arena)
	if err != nil {
		return nil, err
	}
	world := game.NewWorldState(natsServer, arena)

	results, err := cfg.Storage.buildResultStore()
	if err != nil {
		return nil, fmt.Errorf("creating result store: %w", err)
	}

	// Game loop
	d, err := cfg.Game.buildDriver()
	if err != nil {
		return nil, fmt.Errorf("creating driver: %w", err)
	}
	ctrl, err := cfg.Game.buildController(world, pub, d, results)
	if err != nil {
		return nil, fmt.Errorf("creating controller: %w", err)
	}
	d.OnShutdown(ctrl.Shutdown)
	runner := shuffle.NewRunner(ctrl, d)

	// Commands
	cmdStore, err := cfg.Storage.Commands.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating command store: %w", err)
	}
	cmdHandler := commands.NewHandler(cmdStore)

	factories := map[string]commands.HandlerFactory{
		"game":    commands.NewGameHandlerFactory(runner),
		"blocks":  commands.NewBlocksHandlerFactory(runner, pub),
		"status":  commands.NewStatusHandlerFactory(runner, pub),
		"ready":   commands.NewReadyHandlerFactory(world, runner, pub),
		"move":    commands.NewMoveHandlerFactory(world, pub),
		"look":    commands.NewLookHandlerFactory(world, pub),
		"who":     commands.NewWhoHandlerFactory(world, pub),
		"help":    commands.NewHelpHandlerFactory(cmdStore, pub),
		"message": commands.NewMessageHandlerFactory(world, natsServer, pub),
		"quit":    &commands.QuitHandlerFactory{},
	}
	for name, f := range factories {
		if err := cmdHandler.RegisterFactory(name, f); err != nil {
			return nil, fmt.Errorf("registering %s handler: %w", name, err)
		}
	}
	if err := cmdHandler.CompileAll(); err != nil {
		return nil, fmt.Errorf("compiling commands: %w", err)
	}

	// Listeners
	cm := listener.NewConnectionManager(player.NewPlayerManager(cmdHandler, world, runner))
	listeners := make(service.WorkerList, len(cfg.Listeners))
	for i, l := range cfg.Listeners {
		w, err := l.BuildListener(cm)
		if err != nil {
			return nil, fmt.Errorf("creating listener %d: %w", i, err)
		}
		listeners[fmt.Sprintf("%s-%d", l.Protocol, i)] = w
	}

	workers := service.WorkerList{
		"driver":    d,
		"nats":      natsServer,
		"listeners": &readyGate{ready: natsServer.Ready(), next: &listeners},
	}
	if cfg.Admin.enabled() {
		workers["admin"] = cfg.Admin.buildServer(runner, results)
	}

	return workers, nil
}

// readyGate holds a worker back until ready closes, so no session can start
// before the message bus accepts subscriptions.
type readyGate struct {
	ready <-chan struct{}
	next  service.Worker
}

func (g *readyGate) Start(ctx context.Context) error {
	select {
	case <-g.ready:
	case <-ctx.Done():
		return nil
	}
	return g.next.Start(ctx)
}
