// Package material holds the static catalog of block materials that can be
// handed out as round targets.
package material

import (
	"fmt"
	"strconv"
	"strings"
)

// Material identifies a block type in the world.
type Material uint16

const (
	Air Material = iota
	Stone
	Dirt
	Cobblestone
	Sand
	Gravel
	Bricks
	Sandstone
	Clay
	BirchPlanks
	SprucePlanks
	AcaciaPlanks
	DarkOakPlanks
	CherryPlanks
	CrimsonPlanks
	WarpedPlanks
	Andesite
	Diorite
	Tuff
	Deepslate
	StoneBricks
	CobblestoneStairs
	StoneStairs

	// World-only materials. These appear in arenas but are never targets.
	Grass
	Bedrock
)

// Entry is a catalog row.
type Entry struct {
	Id   Material
	Name string
}

var catalog = []Entry{
	{Stone, "STONE"},
	{Dirt, "DIRT"},
	{Cobblestone, "COBBLESTONE"},
	{Sand, "SAND"},
	{Gravel, "GRAVEL"},
	{Bricks, "BRICKS"},
	{Sandstone, "SANDSTONE"},
	{Clay, "CLAY"},
	{BirchPlanks, "BIRCH_PLANKS"},
	{SprucePlanks, "SPRUCE_PLANKS"},
	{AcaciaPlanks, "ACACIA_PLANKS"},
	{DarkOakPlanks, "DARK_OAK_PLANKS"},
	{CherryPlanks, "CHERRY_PLANKS"},
	{CrimsonPlanks, "CRIMSON_PLANKS"},
	{WarpedPlanks, "WARPED_PLANKS"},
	{Andesite, "ANDESITE"},
	{Diorite, "DIORITE"},
	{Tuff, "TUFF"},
	{Deepslate, "DEEPSLATE"},
	{StoneBricks, "STONE_BRICKS"},
	{CobblestoneStairs, "COBBLESTONE_STAIRS"},
	{StoneStairs, "STONE_STAIRS"},
}

var worldOnly = []Entry{
	{Air, "AIR"},
	{Grass, "GRASS"},
	{Bedrock, "BEDROCK"},
}

var (
	names  map[Material]string
	byName map[string]Material
)

func init() {
	names = make(map[Material]string, len(catalog)+len(worldOnly))
	byName = make(map[string]Material, len(catalog)+len(worldOnly))
	for _, set := range [][]Entry{catalog, worldOnly} {
		for _, e := range set {
			names[e.Id] = e.Name
			byName[e.Name] = e.Id
		}
	}
}

// All returns the catalog entries in catalog order.
func All() []Entry {
	out := make([]Entry, len(catalog))
	copy(out, catalog)
	return out
}

// Pool returns a fresh slice of every catalog id. Callers may reorder it.
func Pool() []Material {
	out := make([]Material, len(catalog))
	for i, e := range catalog {
		out[i] = e.Id
	}
	return out
}

// DisplayName returns the name of m, or its numeric id if m is unknown.
func DisplayName(m Material) string {
	if n, ok := names[m]; ok {
		return n
	}
	return strconv.Itoa(int(m))
}

func (m Material) String() string {
	return DisplayName(m)
}

// Parse accepts a display name (any case) or a numeric id.
func Parse(s string) (Material, error) {
	s = strings.TrimSpace(s)
	if m, ok := byName[strings.ToUpper(s)]; ok {
		return m, nil
	}
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return Air, fmt.Errorf("unknown material %q", s)
	}
	return Material(n), nil
}

// Names maps ids to display names, preserving order.
func Names(ms []Material) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = DisplayName(m)
	}
	return out
}
