package tanks

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-tanks/internal/core"
)

func TestPlayerMove(t *testing.T) {
	arena := core.NewRect(0, 0, 800, 600)
	c := &PlayerController{Speed: 4}

	tests := []struct {
		name     string
		in       Intent
		x, y     float64
		rotation float64
	}{
		{"up", Intent{Up: true}, 400, 296, 0},
		{"down", Intent{Down: true}, 400, 304, math.Pi},
		{"left", Intent{Left: true}, 396, 300, -math.Pi / 2},
		{"right", Intent{Right: true}, 404, 300, math.Pi / 2},
		{"vertical wins", Intent{Up: true, Right: true}, 400, 296, 0},
		{"opposites cancel", Intent{Up: true, Down: true}, 400, 300, 0.5},
		{"idle", Intent{}, 400, 300, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPlayerAt(400, 300)
			p.Rotation = 0.5
			c.Move(p, tt.in, arena)
			assert.Equal(t, tt.x, p.X)
			assert.Equal(t, tt.y, p.Y)
			assert.Equal(t, tt.rotation, p.Rotation)
		})
	}
}

func TestPlayerMoveStaysInArena(t *testing.T) {
	arena := core.NewRect(0, 0, 800, 600)
	c := &PlayerController{Speed: 4}
	p := newPlayerAt(22, 300)

	c.Move(p, Intent{Left: true}, arena)
	assert.Equal(t, 20.0, p.X)
	c.Move(p, Intent{Left: true}, arena)
	assert.Equal(t, 20.0, p.X)
	assert.True(t, p.Box().Inside(arena))
}

func TestPlayerFireCooldown(t *testing.T) {
	c := &PlayerController{ShotCooldown: 800 * time.Millisecond, BulletSpeed: 5, BulletSize: 20}
	p := newPlayerAt(400, 300)
	p.Rotation = math.Pi / 2
	t0 := time.Unix(1000, 0)

	assert.Nil(t, c.Fire(p, Intent{}, t0), "no shot without fire intent")

	shot := c.Fire(p, Intent{Fire: true}, t0)
	require.NotNil(t, shot)
	assert.False(t, shot.Hostile())
	assert.Equal(t, math.Pi/2, shot.Heading)
	assert.Equal(t, 20.0, shot.Size)

	assert.Nil(t, c.Fire(p, Intent{Fire: true}, t0.Add(799*time.Millisecond)))
	assert.NotNil(t, c.Fire(p, Intent{Fire: true}, t0.Add(800*time.Millisecond)))
}

func TestIntentFromFrame(t *testing.T) {
	in := core.NewInputFrame()
	in.Set(core.ActionLeft)
	in.Set(core.ActionFire)

	assert.Equal(t, Intent{Left: true, Fire: true}, IntentFromFrame(in))
}
