package tanks

import (
	"time"

	"github.com/vovakirdan/tui-tanks/internal/core"
)

// Outcome is the result of an attempt, or OutcomeNone while it runs.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeDefeat
	OutcomeVictory

	OutcomeAbandoned Outcome = -1 // Torn down before it ended
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDefeat:
		return "defeat"
	case OutcomeVictory:
		return "victory"
	case OutcomeAbandoned:
		return "abandoned"
	}
	return "none"
}

// Cause explains a defeat.
type Cause int

const (
	CauseNone     Cause = iota
	CauseShot           // Hit by a hostile projectile
	CauseObstacle       // Drove into an obstacle
	CauseRammed         // Drove into an enemy
)

func (c Cause) String() string {
	switch c {
	case CauseShot:
		return "shot"
	case CauseObstacle:
		return "obstacle"
	case CauseRammed:
		return "rammed"
	}
	return "none"
}

// TickResult reports what a combat tick decided.
type TickResult struct {
	Outcome Outcome
	Cause   Cause
	Kills   int // Enemies destroyed this tick
}

// Combat owns the rosters of one attempt and resolves collisions each tick.
type Combat struct {
	Arena       core.Rect
	Player      *Player
	Obstacles   []*Entity
	Enemies     []*Enemy
	Projectiles []*Projectile
	Fire        *FireController

	presenter Presenter
	kills     int
	target    int
}

// NewCombat creates the combat loop for one attempt. target is the number
// of kills that completes the level.
func NewCombat(arena core.Rect, player *Player, obstacles []*Entity, enemies []*Enemy,
	fire *FireController, presenter Presenter, target int,
) *Combat {
	return &Combat{
		Arena:     arena,
		Player:    player,
		Obstacles: obstacles,
		Enemies:   enemies,
		Fire:      fire,
		presenter: presenter,
		target:    target,
	}
}

// Kills returns the kill counter of the attempt.
func (c *Combat) Kills() int {
	return c.kills
}

// Target returns the kill count that completes the level.
func (c *Combat) Target() int {
	return c.target
}

// Spawn adds a projectile to the active set.
func (c *Combat) Spawn(p *Projectile) {
	if p != nil {
		c.Projectiles = append(c.Projectiles, p)
	}
}

// Tick advances every projectile and resolves one round of collisions.
// It stops at the first defeat; victory is checked last.
func (c *Combat) Tick(now time.Time) TickResult {
	var res TickResult

	live := c.Projectiles[:0]
	for _, p := range c.Projectiles {
		if p.Advance(c.Arena) {
			live = append(live, p)
		}
	}
	c.Projectiles = live

	if c.resolveProjectiles(&res) {
		return res
	}

	playerBox := c.Player.Box()
	for _, o := range c.Obstacles {
		if o.Hittable() && playerBox.Intersects(o.Box()) {
			res.Outcome, res.Cause = OutcomeDefeat, CauseObstacle
			return res
		}
	}
	for _, e := range c.Enemies {
		if e.Hittable() && playerBox.Intersects(e.Box()) {
			res.Outcome, res.Cause = OutcomeDefeat, CauseRammed
			return res
		}
	}

	if c.Fire != nil {
		c.Projectiles = append(c.Projectiles, c.Fire.Fire(now, c.Enemies, c.Player)...)
	}

	if c.kills >= c.target {
		res.Outcome = OutcomeVictory
	}
	return res
}

// resolveProjectiles tests every projectile against obstacles, then
// against its targets. The first hit consumes the projectile. Returns true
// when a hostile projectile hit the player.
func (c *Combat) resolveProjectiles(res *TickResult) bool {
	playerBox := c.Player.Box()
	kept := c.Projectiles[:0]

	for i, p := range c.Projectiles {
		box := p.Box()

		if c.hitsObstacle(box) {
			c.presenter.PlayEffect(EffectImpact, p.X, p.Y)
			continue
		}

		if p.Hostile() {
			if box.Intersects(playerBox) {
				c.Projectiles = append(kept, c.Projectiles[i+1:]...)
				res.Outcome, res.Cause = OutcomeDefeat, CauseShot
				return true
			}
			kept = append(kept, p)
			continue
		}

		if j := c.enemyHit(box); j >= 0 {
			e := c.Enemies[j]
			c.presenter.PlaySound(SoundExplosion)
			c.presenter.PlayEffect(EffectExplosion, e.X, e.Y)
			c.presenter.RemoveVisual(e.Visual)
			e.Visual = NoHandle
			c.Enemies = append(c.Enemies[:j], c.Enemies[j+1:]...)
			c.kills++
			res.Kills++
			continue
		}
		kept = append(kept, p)
	}

	c.Projectiles = kept
	return false
}

func (c *Combat) hitsObstacle(box core.Rect) bool {
	for _, o := range c.Obstacles {
		if o.Hittable() && box.Intersects(o.Box()) {
			return true
		}
	}
	return false
}

func (c *Combat) enemyHit(box core.Rect) int {
	for j, e := range c.Enemies {
		if e.Hittable() && box.Intersects(e.Box()) {
			return j
		}
	}
	return -1
}

// Clear drops every projectile.
func (c *Combat) Clear() {
	c.Projectiles = nil
}
