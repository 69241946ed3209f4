package scene

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
)

// PalletSeed selects how the pallet Bernoulli draw is seeded.
type PalletSeed string

const (
	// SeedPerBuild re-rolls pallet placement on every rebuild, so pallets
	// reshuffle when unrelated settings change. Matches the original
	// application's behavior.
	SeedPerBuild PalletSeed = "perBuild"
	// SeedStable derives the seed from the rack id and the geometry-relevant
	// config fields, so pallet placement survives rebuilds until the rack
	// itself changes.
	SeedStable PalletSeed = "stable"
)

// RackConfig is the declarative description of one racking structure.
// All dimensions are meters. Values are clamped by Normalize at the
// configuration boundary; the layout engine assumes a normalized config.
type RackConfig struct {
	Bays        int     `json:"bays"`
	Levels      int     `json:"levels"`
	BayWidth    float64 `json:"bayWidth"`
	BayDepth    float64 `json:"bayDepth"`
	LevelHeight float64 `json:"levelHeight"`

	FrameColor    string `json:"frameColor"`
	BeamColor     string `json:"beamColor"`
	CrossbarColor string `json:"crossbarColor"`
	DeckColor     string `json:"deckColor"`
	PalletColor   string `json:"palletColor"`

	ShowDecks   bool `json:"showDecks"`
	ShowPallets bool `json:"showPallets"`
	// PalletFill is the per-cell probability (percent) that a pallet is
	// placed when ShowPallets is on.
	PalletFill int        `json:"palletFill"`
	PalletSeed PalletSeed `json:"palletSeed,omitempty"`
}

// DefaultConfig returns the configuration a newly created rack starts with.
func DefaultConfig() RackConfig {
	return RackConfig{
		Bays:          3,
		Levels:        4,
		BayWidth:      2.7,
		BayDepth:      1.1,
		LevelHeight:   1.5,
		FrameColor:    "#2563eb",
		BeamColor:     "#f97316",
		CrossbarColor: "#94a3b8",
		DeckColor:     "#cbd5e1",
		PalletColor:   "#b45309",
		ShowDecks:     true,
		ShowPallets:   true,
		PalletFill:    70,
		PalletSeed:    SeedPerBuild,
	}
}

// Normalize clamps out-of-range values in place and returns the config.
// This is the single validation point: downstream geometry math assumes
// bays/levels >= 1 and strictly positive dimensions.
func (c RackConfig) Normalize() RackConfig {
	if c.Bays < 1 {
		c.Bays = 1
	}
	if c.Levels < 1 {
		c.Levels = 1
	}
	if c.BayWidth <= 0 {
		c.BayWidth = DefaultConfig().BayWidth
	}
	if c.BayDepth <= 0 {
		c.BayDepth = DefaultConfig().BayDepth
	}
	if c.LevelHeight <= 0 {
		c.LevelHeight = DefaultConfig().LevelHeight
	}
	if c.PalletFill < 0 {
		c.PalletFill = 0
	}
	if c.PalletFill > 100 {
		c.PalletFill = 100
	}
	if c.PalletSeed != SeedStable {
		c.PalletSeed = SeedPerBuild
	}
	return c
}

// Height is the full upright height: all levels plus the base clearance.
func (c RackConfig) Height() float64 {
	return float64(c.Levels)*c.LevelHeight + baseClearance
}

// Width is the total lateral footprint.
func (c RackConfig) Width() float64 {
	return float64(c.Bays) * c.BayWidth
}

// Structural member dimensions. These are visual design constants, not a
// contract; ids and counts are the durable surface.
const (
	baseClearance = 0.15
	uprightSize   = 0.1
	connectorSize = 0.06
	braceSize     = 0.05
	beamHeight    = 0.12
	beamDepth     = 0.05
	crossbarCount = 3
	crossbarWidth = 0.04
	crossbarThick = 0.03
	wireGauge     = 0.015
	palletHeight  = 0.15
)

// Metadata describes a component instance, discriminated by Kind. Only
// the fields meaningful for the kind are set: Side for uprights and
// beams, Slot for crossbars and connector ends, Boundary for uprights
// and connectors.
type Metadata struct {
	Kind     Kind `json:"kind"`
	Bay      int  `json:"bay"`
	Level    int  `json:"level"`
	Boundary int  `json:"boundary"`
	Slot     int  `json:"slot"`
	Side     Side `json:"side,omitempty"`
}

// Instance is one structural member in rack-local coordinates (origin at
// the rack's footprint center on the floor, Y up, Z toward the front
// face). Decorative members carry the componentId of their addressable
// representative with Addressable=false.
type Instance struct {
	ID          string
	Kind        Kind
	Meta        Metadata
	Local       Transform
	Size        Vec3
	Addressable bool
	// ParentID is set on indicator markers only; picking resolves the
	// marker to this component.
	ParentID string
}

// Layout enumerates every structural component instance for one rack.
// Deterministic for a fixed (rackID, cfg) except for the pallet draw,
// which consumes rng; pass a seeded source for reproducible pallets.
func Layout(rackID string, cfg RackConfig, rng *rand.Rand) []Instance {
	var out []Instance

	bays, levels := cfg.Bays, cfg.Levels
	if bays < 1 || levels < 1 {
		// Defensive: an un-normalized degenerate config yields an empty
		// but valid component set rather than negative-extent geometry.
		return out
	}

	width := cfg.Width()
	height := cfg.Height()
	x0 := -width / 2
	zFront := cfg.BayDepth / 2
	zBack := -cfg.BayDepth / 2

	// Uprights: one post per bay boundary per depth face, full height.
	for i := 0; i <= bays; i++ {
		x := x0 + float64(i)*cfg.BayWidth
		for _, s := range []struct {
			side Side
			z    float64
		}{{SideFront, zFront}, {SideBack, zBack}} {
			out = append(out, Instance{
				ID:          ComponentID(rackID, KindUpright, i, s.side),
				Kind:        KindUpright,
				Meta:        Metadata{Kind: KindUpright, Boundary: i, Side: s.side},
				Local:       Transform{Position: Vec3{x, height / 2, s.z}},
				Size:        Vec3{uprightSize, height, uprightSize},
				Addressable: true,
			})
		}
	}

	// Horizontal connectors: depth-spanning members tying the front and
	// back posts together, one at each bay edge per level boundary. The
	// shared post between two bays carries one member per adjacent bay;
	// the coincident geometry is intentional.
	for b := 0; b < bays; b++ {
		for lb := 0; lb <= levels; lb++ {
			y := baseClearance + float64(lb)*cfg.LevelHeight
			for end := 0; end < 2; end++ {
				x := x0 + float64(b+end)*cfg.BayWidth
				out = append(out, Instance{
					ID:          ComponentID(rackID, KindConnector, b, lb, end),
					Kind:        KindConnector,
					Meta:        Metadata{Kind: KindConnector, Bay: b, Boundary: lb, Slot: end},
					Local:       Transform{Position: Vec3{x, y, 0}},
					Size:        Vec3{connectorSize, connectorSize, cfg.BayDepth - uprightSize},
					Addressable: true,
				})
			}
		}
	}

	// Diagonal braces: one per bay per level cell, spanning the depth
	// plane of the bay's left boundary frame. Length is the hypotenuse of
	// (levelHeight, bayDepth); alternate tilt direction per level.
	braceLen := math.Hypot(cfg.LevelHeight, cfg.BayDepth)
	braceAngle := math.Atan2(cfg.LevelHeight, cfg.BayDepth)
	for b := 0; b < bays; b++ {
		x := x0 + float64(b)*cfg.BayWidth
		for l := 0; l < levels; l++ {
			angle := braceAngle
			if l%2 == 1 {
				angle = -angle
			}
			y := baseClearance + (float64(l)+0.5)*cfg.LevelHeight
			out = append(out, Instance{
				ID:          ComponentID(rackID, KindBrace, b, l),
				Kind:        KindBrace,
				Meta:        Metadata{Kind: KindBrace, Bay: b, Level: l},
				Local:       Transform{Position: Vec3{x, y, 0}, RotX: angle},
				Size:        Vec3{braceSize, braceSize, braceLen},
				Addressable: true,
			})
		}
	}

	// Load beams: front and back, per bay, at levels 1..levels (level 0
	// is the floor and carries no beam). Span the bay width minus the
	// upright thickness.
	beamLen := cfg.BayWidth - uprightSize
	for b := 0; b < bays; b++ {
		xc := x0 + (float64(b)+0.5)*cfg.BayWidth
		for l := 1; l <= levels; l++ {
			y := baseClearance + float64(l)*cfg.LevelHeight
			for _, s := range []struct {
				side Side
				z    float64
			}{{SideFront, zFront}, {SideBack, zBack}} {
				out = append(out, Instance{
					ID:          ComponentID(rackID, KindBeam, b, l, s.side),
					Kind:        KindBeam,
					Meta:        Metadata{Kind: KindBeam, Bay: b, Level: l, Side: s.side},
					Local:       Transform{Position: Vec3{xc, y, s.z}},
					Size:        Vec3{beamLen, beamHeight, beamDepth},
					Addressable: true,
				})
			}
		}
	}

	// Crossbars: lateral slats between the front and back beams, evenly
	// spaced across the bay width.
	for b := 0; b < bays; b++ {
		for l := 1; l <= levels; l++ {
			y := baseClearance + float64(l)*cfg.LevelHeight + beamHeight/2
			for s := 0; s < crossbarCount; s++ {
				x := x0 + float64(b)*cfg.BayWidth + float64(s+1)*cfg.BayWidth/float64(crossbarCount+1)
				out = append(out, Instance{
					ID:          ComponentID(rackID, KindCrossbar, b, l, s),
					Kind:        KindCrossbar,
					Meta:        Metadata{Kind: KindCrossbar, Bay: b, Level: l, Slot: s},
					Local:       Transform{Position: Vec3{x, y, 0}},
					Size:        Vec3{crossbarWidth, crossbarThick, cfg.BayDepth},
					Addressable: true,
				})
			}
		}
	}

	if cfg.ShowDecks {
		out = append(out, deckInstances(rackID, cfg, x0)...)
	}

	if cfg.ShowPallets {
		out = append(out, palletInstances(rackID, cfg, x0, rng)...)
	}

	return out
}

// deckInstances builds the wire-mesh shelves. Every member of a deck cell
// shares one componentId; only the first (the perimeter frame's front
// rail) is addressable and stands in for the whole deck in hit tests.
func deckInstances(rackID string, cfg RackConfig, x0 float64) []Instance {
	var out []Instance

	deckW := cfg.BayWidth - uprightSize
	deckD := cfg.BayDepth
	const lateralWires = 7
	const longWires = 3

	for b := 0; b < cfg.Bays; b++ {
		xc := x0 + (float64(b)+0.5)*cfg.BayWidth
		for l := 1; l <= cfg.Levels; l++ {
			id := ComponentID(rackID, KindDeck, b, l)
			meta := Metadata{Kind: KindDeck, Bay: b, Level: l}
			y := baseClearance + float64(l)*cfg.LevelHeight + beamHeight/2 + crossbarThick

			add := func(pos Vec3, size Vec3, addressable bool) {
				out = append(out, Instance{
					ID:          id,
					Kind:        KindDeck,
					Meta:        meta,
					Local:       Transform{Position: pos},
					Size:        size,
					Addressable: addressable,
				})
			}

			// Perimeter frame: front rail first (the addressable
			// representative), then back and the two end rails.
			add(Vec3{xc, y, deckD/2 - wireGauge}, Vec3{deckW, wireGauge, wireGauge * 2}, true)
			add(Vec3{xc, y, -deckD/2 + wireGauge}, Vec3{deckW, wireGauge, wireGauge * 2}, false)
			add(Vec3{xc - deckW/2 + wireGauge, y, 0}, Vec3{wireGauge * 2, wireGauge, deckD}, false)
			add(Vec3{xc + deckW/2 - wireGauge, y, 0}, Vec3{wireGauge * 2, wireGauge, deckD}, false)

			// Lateral wires across the depth.
			for w := 0; w < lateralWires; w++ {
				x := xc - deckW/2 + float64(w+1)*deckW/float64(lateralWires+1)
				add(Vec3{x, y, 0}, Vec3{wireGauge, wireGauge, deckD}, false)
			}
			// Longitudinal wires along the width.
			for w := 0; w < longWires; w++ {
				z := -deckD/2 + float64(w+1)*deckD/float64(longWires+1)
				add(Vec3{xc, y, z}, Vec3{deckW, wireGauge, wireGauge}, false)
			}
		}
	}
	return out
}

// palletInstances rolls the per-cell Bernoulli draw and places a pallet
// plus a decorative load box in each successful cell. The load box shares
// the pallet's componentId but is never hit-testable.
func palletInstances(rackID string, cfg RackConfig, x0 float64, rng *rand.Rand) []Instance {
	var out []Instance
	p := float64(cfg.PalletFill) / 100

	palletW := cfg.BayWidth * 0.8
	palletD := cfg.BayDepth * 0.95

	for b := 0; b < cfg.Bays; b++ {
		xc := x0 + (float64(b)+0.5)*cfg.BayWidth
		for l := 1; l <= cfg.Levels; l++ {
			if rng.Float64() >= p {
				continue
			}
			id := ComponentID(rackID, KindPallet, b, l)
			yBase := baseClearance + float64(l)*cfg.LevelHeight + beamHeight/2 + crossbarThick
			out = append(out, Instance{
				ID:          id,
				Kind:        KindPallet,
				Meta:        Metadata{Kind: KindPallet, Bay: b, Level: l},
				Local:       Transform{Position: Vec3{xc, yBase + palletHeight/2, 0}},
				Size:        Vec3{palletW, palletHeight, palletD},
				Addressable: true,
			})

			loadH := cfg.LevelHeight * (0.35 + 0.3*rng.Float64())
			out = append(out, Instance{
				ID:          id,
				Kind:        KindPallet,
				Meta:        Metadata{Kind: KindPallet, Bay: b, Level: l},
				Local:       Transform{Position: Vec3{xc, yBase + palletHeight + loadH/2, 0}},
				Size:        Vec3{palletW * 0.9, loadH, palletD * 0.9},
				Addressable: false,
			})
		}
	}
	return out
}

// PalletRand builds the random source for the pallet draw according to
// the config's seed policy.
func PalletRand(rackID string, cfg RackConfig) *rand.Rand {
	if cfg.PalletSeed == SeedStable {
		h := fnv.New64a()
		h.Write([]byte(rackID))
		h.Write([]byte(cfg.stableSeedKey()))
		return rand.New(rand.NewSource(int64(h.Sum64())))
	}
	return rand.New(rand.NewSource(rand.Int63()))
}

// stableSeedKey covers the fields that change the pallet cell grid or the
// draw itself; cosmetic fields (colors) deliberately do not reshuffle.
func (c RackConfig) stableSeedKey() string {
	return fmt.Sprintf("%d|%d|%.4f|%.4f|%.4f|%d",
		c.Bays, c.Levels, c.BayWidth, c.BayDepth, c.LevelHeight, c.PalletFill)
}
