package game

import (
	"fmt"
	"sort"

	"github.com/pixil98/go-blockshuffle/internal/material"
	"github.com/pixil98/go-blockshuffle/internal/shuffle"
	"github.com/pixil98/go-errors"
)

// FloorLevel is the y coordinate of the arena floor. Players stand one block above it.
const FloorLevel = 0

// Spawn is where players enter the arena.
type Spawn struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// Arena is a flat play field. Each row of Floor is one z coordinate and each
// character in a row is one x coordinate, looked up in Palette.
type Arena struct {
	Name    string            `json:"name"`
	Palette map[string]string `json:"palette"`
	Floor   []string          `json:"floor"`
	Spawn   Spawn             `json:"spawn"`

	blocks [][]material.Material
}

func (a *Arena) Validate() error {
	el := errors.NewErrorList()

	if a.Name == "" {
		el.Add(fmt.Errorf("arena name is required"))
	}
	if len(a.Floor) == 0 {
		el.Add(fmt.Errorf("floor is required"))
	}

	keys := make([]string, 0, len(a.Palette))
	for k := range a.Palette {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if len([]rune(k)) != 1 {
			el.Add(fmt.Errorf("palette key %q must be a single character", k))
		}
		if _, err := material.Parse(a.Palette[k]); err != nil {
			el.Add(fmt.Errorf("palette key %q: %w", k, err))
		}
	}

	width := -1
	for z, row := range a.Floor {
		cells := []rune(row)
		if width < 0 {
			width = len(cells)
		} else if len(cells) != width {
			el.Add(fmt.Errorf("floor row %d has width %d, expected %d", z, len(cells), width))
		}
		for x, c := range cells {
			if _, ok := a.Palette[string(c)]; !ok {
				el.Add(fmt.Errorf("floor row %d column %d: %q is not in the palette", z, x, c))
			}
		}
	}

	if len(a.Floor) > 0 && !a.inBounds(a.Spawn.X, a.Spawn.Z, width, len(a.Floor)) {
		el.Add(fmt.Errorf("spawn (%d, %d) is outside the floor", a.Spawn.X, a.Spawn.Z))
	}

	return el.Err()
}

// Resolve builds the block grid from the palette. Validate must pass first.
func (a *Arena) Resolve() error {
	palette := make(map[rune]material.Material, len(a.Palette))
	for k, v := range a.Palette {
		m, err := material.Parse(v)
		if err != nil {
			return fmt.Errorf("palette key %q: %w", k, err)
		}
		palette[[]rune(k)[0]] = m
	}

	blocks := make([][]material.Material, len(a.Floor))
	for z, row := range a.Floor {
		for _, c := range row {
			m, ok := palette[c]
			if !ok {
				return fmt.Errorf("floor row %d: %q is not in the palette", z, c)
			}
			blocks[z] = append(blocks[z], m)
		}
	}
	a.blocks = blocks
	return nil
}

// Width is the size of the arena along x.
func (a *Arena) Width() int {
	if len(a.blocks) == 0 {
		return 0
	}
	return len(a.blocks[0])
}

// Depth is the size of the arena along z.
func (a *Arena) Depth() int {
	return len(a.blocks)
}

// InBounds reports whether (x, z) is on the floor.
func (a *Arena) InBounds(x, z int) bool {
	return a.inBounds(x, z, a.Width(), a.Depth())
}

func (a *Arena) inBounds(x, z, width, depth int) bool {
	return x >= 0 && z >= 0 && x < width && z < depth
}

// BlockAt returns the material at pos. Everything off the floor is air.
func (a *Arena) BlockAt(pos shuffle.BlockPos) material.Material {
	if pos.Y != FloorLevel || !a.InBounds(pos.X, pos.Z) {
		return material.Air
	}
	return a.blocks[pos.Z][pos.X]
}

// SpawnPosition is the standing position above the spawn block.
func (a *Arena) SpawnPosition() shuffle.Position {
	return standingAt(a.Spawn.X, a.Spawn.Z)
}

func standingAt(x, z int) shuffle.Position {
	return shuffle.Position{X: float64(x) + 0.5, Y: FloorLevel + 1, Z: float64(z) + 0.5}
}
