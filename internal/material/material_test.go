package material

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestAll(t *testing.T) {
	entries := All()
	testutil.AssertEqual(t, "catalog size", len(entries), 22)

	seen := map[Material]bool{}
	for _, e := range entries {
		if seen[e.Id] {
			t.Errorf("duplicate catalog id %d", e.Id)
		}
		seen[e.Id] = true
		if e.Id == Air || e.Id == Grass || e.Id == Bedrock {
			t.Errorf("world-only material %s in catalog", e.Name)
		}
	}

	// Mutating the returned slice must not leak into the catalog.
	entries[0].Name = "changed"
	testutil.AssertEqual(t, "first name", All()[0].Name, "STONE")
}

func TestPool(t *testing.T) {
	p := Pool()
	testutil.AssertEqual(t, "pool size", len(p), 22)
	p[0] = Air
	testutil.AssertEqual(t, "first id", Pool()[0], Stone)
}

func TestDisplayName(t *testing.T) {
	tests := map[string]struct {
		m   Material
		exp string
	}{
		"catalog":      {m: DarkOakPlanks, exp: "DARK_OAK_PLANKS"},
		"last catalog": {m: StoneStairs, exp: "STONE_STAIRS"},
		"world only":   {m: Grass, exp: "GRASS"},
		"unknown":      {m: Material(999), exp: "999"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "name", DisplayName(tt.m), tt.exp)
			testutil.AssertEqual(t, "string", tt.m.String(), tt.exp)
		})
	}
}

func TestParse(t *testing.T) {
	tests := map[string]struct {
		in     string
		exp    Material
		expErr string
	}{
		"upper":      {in: "STONE_BRICKS", exp: StoneBricks},
		"lower":      {in: "tuff", exp: Tuff},
		"padded":     {in: "  sand ", exp: Sand},
		"world only": {in: "bedrock", exp: Bedrock},
		"numeric":    {in: "4", exp: Sand},
		"unknown":    {in: "lava", expErr: `unknown material "lava"`},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "material", got, tt.exp)
		})
	}
}

func TestNames(t *testing.T) {
	got := Names([]Material{Stone, Material(500), Clay})
	testutil.AssertEqual(t, "count", len(got), 3)
	testutil.AssertEqual(t, "first", got[0], "STONE")
	testutil.AssertEqual(t, "second", got[1], "500")
	testutil.AssertEqual(t, "third", got[2], "CLAY")
}
