// Package tanks implements a top-down arena tank shooter: a player tank
// moves and fires in a bounded arena populated with static obstacles and
// hostile tanks that fire back. Levels are generated procedurally from a
// difficulty table and progress is persisted through a key-value port.
package tanks

import (
	"time"

	"github.com/vovakirdan/tui-tanks/internal/core"
	"github.com/vovakirdan/tui-tanks/internal/games/tanks/data"
)

// Kind tags the variant of a placed entity.
type Kind int

const (
	KindObstacle Kind = iota
	KindEnemy
	KindPlayer
)

func (k Kind) String() string {
	switch k {
	case KindObstacle:
		return "obstacle"
	case KindEnemy:
		return "enemy"
	case KindPlayer:
		return "player"
	}
	return "unknown"
}

// Handle is an opaque reference to a visual owned by the presenter.
type Handle uint64

// NoHandle marks an entity whose visual could not be created.
const NoHandle Handle = 0

// Body is anything with an axis-aligned bounding box.
type Body interface {
	Box() core.Rect
}

// Entity is a descriptor placed in the arena. X and Y are the centre of
// the box; Rotation is the visual heading in radians.
type Entity struct {
	Kind     Kind
	Desc     data.Descriptor
	X, Y     float64
	Rotation float64
	Visual   Handle
}

// Box returns the top-left anchored bounding box.
func (e *Entity) Box() core.Rect {
	return core.RectAt(e.X, e.Y, e.Desc.Width, e.Desc.Height)
}

// Hittable reports whether the entity takes part in collision tests.
// Entities whose visual failed to spawn have no known box on screen.
func (e *Entity) Hittable() bool {
	return e.Visual != NoHandle
}

// Enemy is a hostile tank with its fire cooldown state.
type Enemy struct {
	Entity
	Side     data.Side
	LastFire time.Time // Zero fires on the first eligible tick
}

// Player is the controlled tank.
type Player struct {
	Entity
	LastShot time.Time
}
