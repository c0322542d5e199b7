package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-blockshuffle/internal/commands"
	"github.com/pixil98/go-blockshuffle/internal/game"
	"github.com/pixil98/go-blockshuffle/internal/shuffle"
	"github.com/pixil98/go-blockshuffle/internal/storage"
	"github.com/pixil98/go-errors"
)

type StorageConfig struct {
	Arenas   AssetConfig[*game.Arena]       `json:"arenas"`
	Commands AssetConfig[*commands.Command] `json:"commands"`
	Results  AssetConfig[*shuffle.Result]   `json:"results"`
}

func (c *StorageConfig) validate() error {
	el := errors.NewErrorList()
	el.Add(c.Arenas.Validate("arenas"))
	el.Add(c.Commands.Validate("commands"))
	if c.Results.Path == "" {
		el.Add(fmt.Errorf("results: path is required"))
	}
	return el.Err()
}

// loadArena finds the arena by id and resolves its block grid.
func (c *StorageConfig) loadArena(id string) (*game.Arena, error) {
	arenas, err := c.Arenas.BuildFileStore()
	if err != nil {
		return nil, fmt.Errorf("creating arena store: %w", err)
	}

	arena := arenas.Get(id)
	if arena == nil {
		return nil, fmt.Errorf("arena %q not found (have %v)", id, arenas.Keys())
	}
	if err := arena.Resolve(); err != nil {
		return nil, fmt.Errorf("resolving arena %q: %w", id, err)
	}
	return arena, nil
}

// buildResultStore creates the results directory on first use.
func (c *StorageConfig) buildResultStore() (*storage.FileStore[*shuffle.Result], error) {
	if err := os.MkdirAll(c.Results.Path, 0755); err != nil {
		return nil, fmt.Errorf("creating results path %q: %w", c.Results.Path, err)
	}
	return c.Results.BuildFileStore()
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
