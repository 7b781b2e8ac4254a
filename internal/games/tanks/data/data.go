// Package data loads the static level data of the tank arena: the
// difficulty table, obstacle and enemy descriptor sets and the sprite map.
// Defaults are embedded; a directory may override any file.
package data

import (
	"embed"
	"errors"
	"fmt"
	"math"
)

//go:embed defaults/*.yaml
var defaultFS embed.FS

// ErrLevelNotFound is returned when the difficulty table has no row for a level.
var ErrLevelNotFound = errors.New("level not found in difficulty table")

// Descriptor is a position-free entity template.
type Descriptor struct {
	Image     string   `yaml:"image"`
	Width     float64  `yaml:"width"`
	Height    float64  `yaml:"height"`
	Direction *float64 `yaml:"direction,omitempty"` // Degrees, 0 = up, clockwise
}

// Heading returns the descriptor direction in radians, or 0 when unset.
func (d Descriptor) Heading() float64 {
	if d.Direction == nil {
		return 0
	}
	return *d.Direction * math.Pi / 180
}

// Difficulty is one row of the difficulty table.
type Difficulty struct {
	Level           int `yaml:"level"`
	ObstacleCount   int `yaml:"obstacleCount"`
	EnemyTanksCount int `yaml:"enemyTanksCount"`
}

// Sprite describes how an image reference is drawn in the terminal.
type Sprite struct {
	Glyph string `yaml:"glyph"`
	Color string `yaml:"color"`
}

// Side identifies the enemy descriptor set an enemy is drawn from.
type Side int

const (
	SideLeft Side = iota
	SideCenter
	SideRight
)

func (s Side) String() string {
	switch s {
	case SideLeft:
		return "left"
	case SideCenter:
		return "center"
	case SideRight:
		return "right"
	}
	return "unknown"
}

// Pack is the complete set of level data.
type Pack struct {
	Difficulty []Difficulty
	Obstacles  []Descriptor
	Enemies    [3][]Descriptor // Indexed by Side
	Sprites    map[string]Sprite
}

// Level returns the difficulty row for level.
func (p *Pack) Level(level int) (Difficulty, error) {
	for _, d := range p.Difficulty {
		if d.Level == level {
			return d, nil
		}
	}
	return Difficulty{}, fmt.Errorf("data: level %d: %w", level, ErrLevelNotFound)
}

// Sprite returns the sprite for an image reference.
func (p *Pack) Sprite(image string) (Sprite, bool) {
	s, ok := p.Sprites[image]
	return s, ok
}

// Split distributes n enemies across the three sides: floor(n/3) each,
// the remainder going to the center first, then the right.
func Split(n int) [3]int {
	if n < 0 {
		n = 0
	}
	per, rem := n/3, n%3
	var out [3]int
	out[SideLeft] = per
	out[SideCenter] = per
	out[SideRight] = per
	if rem > 0 {
		out[SideCenter]++
	}
	if rem > 1 {
		out[SideRight]++
	}
	return out
}

// EnemyPool returns the enemy descriptors for n enemies: the first k
// entries of each side set, in left, center, right order, together with
// the side each descriptor came from. Short side sets contribute what they have.
func (p *Pack) EnemyPool(n int) ([]Descriptor, []Side) {
	split := Split(n)
	var (
		pool  []Descriptor
		sides []Side
	)
	for side := SideLeft; side <= SideRight; side++ {
		set := p.Enemies[side]
		k := min(split[side], len(set))
		for _, d := range set[:k] {
			pool = append(pool, d)
			sides = append(sides, side)
		}
	}
	return pool, sides
}
