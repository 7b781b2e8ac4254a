package tanks

import (
	"math"

	"github.com/vovakirdan/tui-tanks/internal/core"
)

// Owner tags which side fired a projectile.
type Owner int

const (
	OwnerFriendly Owner = iota
	OwnerHostile
)

func (o Owner) String() string {
	if o == OwnerHostile {
		return "hostile"
	}
	return "friendly"
}

// Projectile is a square moving body with a fixed speed and heading.
// Heading is in radians with 0 pointing up and angles growing clockwise.
type Projectile struct {
	X, Y    float64 // Centre
	Heading float64
	Speed   float64
	Size    float64
	owner   Owner
}

// NewProjectile creates a projectile centred at (x, y).
func NewProjectile(x, y, heading, speed, size float64, owner Owner) *Projectile {
	return &Projectile{
		X:       x,
		Y:       y,
		Heading: heading,
		Speed:   speed,
		Size:    size,
		owner:   owner,
	}
}

// Owner returns the side that fired the projectile. It never changes.
func (p *Projectile) Owner() Owner {
	return p.owner
}

// Hostile reports whether the projectile was fired by an enemy.
func (p *Projectile) Hostile() bool {
	return p.owner == OwnerHostile
}

// Box returns the projectile's bounding box.
func (p *Projectile) Box() core.Rect {
	return core.RectAt(p.X, p.Y, p.Size, p.Size)
}

// Advance moves the projectile one tick and reports whether it is still
// alive: false once it is more than one box size outside arena.
func (p *Projectile) Advance(arena core.Rect) bool {
	angle := p.Heading - math.Pi/2
	p.X += p.Speed * math.Cos(angle)
	p.Y += p.Speed * math.Sin(angle)

	return p.X >= arena.X-p.Size && p.X <= arena.Right()+p.Size &&
		p.Y >= arena.Y-p.Size && p.Y <= arena.Bottom()+p.Size
}
