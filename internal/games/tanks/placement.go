package tanks

import (
	"errors"
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-tanks/internal/core"
	"github.com/vovakirdan/tui-tanks/internal/games/tanks/data"
)

// ErrPlacementExhausted means one entity found no free spot within the retry budget.
var ErrPlacementExhausted = errors.New("placement retry budget exhausted")

// DefaultMaxAttempts is the per-entity retry budget.
const DefaultMaxAttempts = 100

// PlaceOptions tunes one placement batch.
type PlaceOptions struct {
	MaxAttempts int         // Per-entity retry budget, DefaultMaxAttempts when zero
	Avoid       []core.Rect // Boxes placed by earlier batches
	AxisBuffer  float64     // Minimum centre offset from the zone centre on both axes; 0 disables
}

// Placement is one accepted position. Index refers to the descriptor's
// position in the pool passed to Place.
type Placement struct {
	Index int
	Desc  data.Descriptor
	X, Y  float64 // Centre
}

// Box returns the top-left anchored box of the placement.
func (p Placement) Box() core.Rect {
	return core.RectAt(p.X, p.Y, p.Desc.Width, p.Desc.Height)
}

// PlacementResult is the outcome of a batch.
type PlacementResult struct {
	Placed    []Placement
	Requested int
	Dropped   int // Entities that exhausted the retry budget
}

// Placer scatters descriptors into the arena by rejection sampling.
type Placer struct {
	rng *rand.Rand
}

// NewPlacer creates a placer drawing from rng.
func NewPlacer(rng *rand.Rand) *Placer {
	return &Placer{rng: rng}
}

// ReferenceZone returns the spawn clearance zone: the player's box
// scaled by halo about its centre.
func ReferenceZone(player core.Rect, halo float64) core.Rect {
	if halo <= 0 {
		halo = 1
	}
	return player.Scale(halo)
}

// Place draws count descriptors from pool without replacement and gives
// each a random position inside arena that overlaps neither zone, the
// other entities of the batch, nor opts.Avoid. Entities that cannot be
// placed within the retry budget are dropped and counted in the result.
// A count larger than the pool is clamped to the pool size.
func (p *Placer) Place(arena, zone core.Rect, pool []data.Descriptor, count int, opts PlaceOptions) PlacementResult {
	if count > len(pool) {
		logger.Warn("placement count exceeds pool", "count", count, "pool", len(pool))
		count = len(pool)
	}
	if count < 0 {
		count = 0
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	result := PlacementResult{Requested: count}
	refX, refY := zone.Center()
	accepted := make([]core.Rect, 0, count)

	for _, idx := range p.rng.Perm(len(pool))[:count] {
		desc := pool[idx]
		placed := false

		for attempt := 0; attempt < maxAttempts; attempt++ {
			box := core.NewRect(
				p.rng.Float64()*math.Max(0, arena.W-desc.Width)+arena.X,
				p.rng.Float64()*math.Max(0, arena.H-desc.Height)+arena.Y,
				desc.Width, desc.Height,
			)
			if !p.accept(box, arena, zone, accepted, opts.Avoid) {
				continue
			}
			cx, cy := box.Center()
			if opts.AxisBuffer > 0 && (math.Abs(cx-refX) < opts.AxisBuffer || math.Abs(cy-refY) < opts.AxisBuffer) {
				continue
			}

			accepted = append(accepted, box)
			result.Placed = append(result.Placed, Placement{Index: idx, Desc: desc, X: cx, Y: cy})
			placed = true
			break
		}

		if !placed {
			result.Dropped++
			logger.Warn("dropping entity", "image", desc.Image, "attempts", maxAttempts, "err", ErrPlacementExhausted)
		}
	}

	return result
}

func (p *Placer) accept(box, arena, zone core.Rect, accepted, avoid []core.Rect) bool {
	if !box.Inside(arena) || box.Intersects(zone) {
		return false
	}
	for _, other := range accepted {
		if box.Intersects(other) {
			return false
		}
	}
	for _, other := range avoid {
		if box.Intersects(other) {
			return false
		}
	}
	return true
}
