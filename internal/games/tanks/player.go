package tanks

import (
	"math"
	"time"

	"github.com/vovakirdan/tui-tanks/internal/core"
)

// Intent is the player's input for one tick.
type Intent struct {
	Up, Down, Left, Right bool
	Fire                  bool
}

// IntentFromFrame converts a platform input frame to an intent.
func IntentFromFrame(in core.InputFrame) Intent {
	return Intent{
		Up:    in.Has(core.ActionUp),
		Down:  in.Has(core.ActionDown),
		Left:  in.Has(core.ActionLeft),
		Right: in.Has(core.ActionRight),
		Fire:  in.Has(core.ActionFire),
	}
}

// PlayerController moves the player tank and gates its fire rate.
type PlayerController struct {
	Speed        float64
	ShotCooldown time.Duration
	BulletSpeed  float64
	BulletSize   float64
}

// Move applies the movement part of intent and keeps the box inside arena.
// Only one direction moves per tick: vertical input wins over horizontal
// and opposite keys held together cancel.
func (c *PlayerController) Move(p *Player, in Intent, arena core.Rect) {
	switch {
	case in.Up && !in.Down:
		p.Y -= c.Speed
		p.Rotation = 0
	case in.Down && !in.Up:
		p.Y += c.Speed
		p.Rotation = math.Pi
	case in.Left && !in.Right:
		p.X -= c.Speed
		p.Rotation = -math.Pi / 2
	case in.Right && !in.Left:
		p.X += c.Speed
		p.Rotation = math.Pi / 2
	default:
		return
	}

	halfW, halfH := p.Desc.Width/2, p.Desc.Height/2
	p.X = core.ClampF(p.X, arena.X+halfW, arena.Right()-halfW)
	p.Y = core.ClampF(p.Y, arena.Y+halfH, arena.Bottom()-halfH)
}

// Fire returns a friendly projectile when intent asks for one and the
// cooldown has elapsed, or nil.
func (c *PlayerController) Fire(p *Player, in Intent, now time.Time) *Projectile {
	if !in.Fire || now.Sub(p.LastShot) < c.ShotCooldown {
		return nil
	}
	p.LastShot = now
	return NewProjectile(p.X, p.Y, p.Rotation, c.BulletSpeed, c.BulletSize, OwnerFriendly)
}
