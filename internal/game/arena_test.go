package game

import (
	"testing"

	"github.com/pixil98/go-blockshuffle/internal/material"
	"github.com/pixil98/go-blockshuffle/internal/shuffle"
	"github.com/pixil98/go-testutil"
)

func testArena(t *testing.T) *Arena {
	t.Helper()
	a := &Arena{
		Name: "test",
		Palette: map[string]string{
			"s": "STONE",
			"d": "DIRT",
			"g": "GRASS",
		},
		Floor: []string{
			"sdg",
			"gds",
		},
		Spawn: Spawn{X: 1, Z: 0},
	}
	if err := a.Validate(); err != nil {
		t.Fatalf("validating arena: %v", err)
	}
	if err := a.Resolve(); err != nil {
		t.Fatalf("resolving arena: %v", err)
	}
	return a
}

func TestArena_Validate(t *testing.T) {
	tests := map[string]struct {
		arena  Arena
		expErr string
	}{
		"valid": {
			arena: Arena{Name: "a", Palette: map[string]string{"s": "STONE"}, Floor: []string{"ss"}},
		},
		"missing name": {
			arena:  Arena{Palette: map[string]string{"s": "STONE"}, Floor: []string{"s"}},
			expErr: "arena name is required",
		},
		"missing floor": {
			arena:  Arena{Name: "a", Palette: map[string]string{"s": "STONE"}},
			expErr: "floor is required",
		},
		"unknown material": {
			arena:  Arena{Name: "a", Palette: map[string]string{"s": "GOLD"}, Floor: []string{"s"}},
			expErr: "unknown material",
		},
		"long palette key": {
			arena:  Arena{Name: "a", Palette: map[string]string{"st": "STONE"}, Floor: []string{"s"}},
			expErr: "must be a single character",
		},
		"ragged floor": {
			arena:  Arena{Name: "a", Palette: map[string]string{"s": "STONE"}, Floor: []string{"ss", "s"}},
			expErr: "has width 1, expected 2",
		},
		"missing palette entry": {
			arena:  Arena{Name: "a", Palette: map[string]string{"s": "STONE"}, Floor: []string{"sx"}},
			expErr: "is not in the palette",
		},
		"spawn off floor": {
			arena:  Arena{Name: "a", Palette: map[string]string{"s": "STONE"}, Floor: []string{"s"}, Spawn: Spawn{X: 3}},
			expErr: "is outside the floor",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := tt.arena.Validate()
			if tt.expErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			testutil.AssertErrorContains(t, err, tt.expErr)
		})
	}
}

func TestArena_BlockAt(t *testing.T) {
	a := testArena(t)

	tests := map[string]struct {
		pos shuffle.BlockPos
		exp material.Material
	}{
		"origin":       {pos: shuffle.BlockPos{X: 0, Y: 0, Z: 0}, exp: material.Stone},
		"second row":   {pos: shuffle.BlockPos{X: 1, Y: 0, Z: 1}, exp: material.Dirt},
		"world only":   {pos: shuffle.BlockPos{X: 2, Y: 0, Z: 0}, exp: material.Grass},
		"above floor":  {pos: shuffle.BlockPos{X: 0, Y: 1, Z: 0}, exp: material.Air},
		"below floor":  {pos: shuffle.BlockPos{X: 0, Y: -1, Z: 0}, exp: material.Air},
		"off the edge": {pos: shuffle.BlockPos{X: 3, Y: 0, Z: 0}, exp: material.Air},
		"negative":     {pos: shuffle.BlockPos{X: -1, Y: 0, Z: 0}, exp: material.Air},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "block", a.BlockAt(tt.pos), tt.exp)
		})
	}
}

func TestArena_SpawnPosition(t *testing.T) {
	a := testArena(t)

	pos := a.SpawnPosition()
	testutil.AssertEqual(t, "spawn", pos, shuffle.Position{X: 1.5, Y: 1, Z: 0.5})
	testutil.AssertEqual(t, "block below spawn", a.BlockAt(pos.BlockBelow()), material.Dirt)
	testutil.AssertEqual(t, "width", a.Width(), 3)
	testutil.AssertEqual(t, "depth", a.Depth(), 2)
}
