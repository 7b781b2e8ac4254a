package tanks

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tanks/internal/games/tanks/data"
)

// Persisted progress keys.
const (
	KeyLevel  = "currentLevel"
	KeyDeaths = "deathCount"
)

// ProgressStore is the key-value port used to persist campaign progress.
type ProgressStore interface {
	Int(key string, def int) (int, error)
	SetInt(key string, value int) error
	Clear(keys ...string) error
}

// EffectKind selects a transient visual effect.
type EffectKind int

const (
	EffectImpact    EffectKind = iota // Projectile hit an obstacle
	EffectExplosion                   // Enemy destroyed
)

// SoundKind selects an audio cue.
type SoundKind int

const (
	SoundExplosion SoundKind = iota
	SoundShot
)

// Presenter is the presentation port. The core only hands it geometry and
// descriptors and never inspects what it draws.
type Presenter interface {
	// SpawnVisual creates a visual for desc centred at (x, y).
	// An error means the asset is unavailable; the entity stays without a visual.
	SpawnVisual(desc data.Descriptor, x, y, rotation float64) (Handle, error)
	// MoveVisual updates position and rotation of an existing visual.
	MoveVisual(h Handle, x, y, rotation float64)
	RemoveVisual(h Handle)
	PlayEffect(kind EffectKind, x, y float64)
	PlaySound(kind SoundKind)
	// ClearEffects drops every in-flight effect.
	ClearEffects()
}

// Continuation resumes the session after a terminal state.
type Continuation func() error

// Lifecycle receives the scene transitions of the session.
type Lifecycle interface {
	OnDefeat(restart Continuation)
	OnVictory(next Continuation, final bool)
	OnLevelStart(level int)
}

// MemoryProgress is an in-memory ProgressStore.
type MemoryProgress map[string]int

// Int returns the stored value or def.
func (m MemoryProgress) Int(key string, def int) (int, error) {
	if v, ok := m[key]; ok {
		return v, nil
	}
	return def, nil
}

// SetInt stores value under key.
func (m MemoryProgress) SetInt(key string, value int) error {
	m[key] = value
	return nil
}

// Clear removes the given keys, or every key when none are given.
func (m MemoryProgress) Clear(keys ...string) error {
	if len(keys) == 0 {
		for k := range m {
			delete(m, k)
		}
		return nil
	}
	for _, k := range keys {
		delete(m, k)
	}
	return nil
}

var logger = log.New(io.Discard)

// SetLogger sets the logger used by the package. Nil restores the silent default.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}
