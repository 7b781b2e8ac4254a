package tanks

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/vovakirdan/tui-tanks/internal/core"
	"github.com/vovakirdan/tui-tanks/internal/games/tanks/data"
)

// Image references of sprites that are not entity descriptors.
const (
	FriendlyBulletImage = "graphics/bullets/friendly.png"
	HostileBulletImage  = "graphics/bullets/hostile.png"
	ExplosionImage      = "graphics/explosions/explosion"
	ImpactImage         = "graphics/explosions/e"
)

// DefaultEffectTicks is how long an effect stays on screen.
const DefaultEffectTicks = 18

// Visual is a drawable owned by the terminal presenter.
type Visual struct {
	Handle   Handle
	Desc     data.Descriptor
	X, Y     float64
	Rotation float64
	Glyph    rune
	Color    core.Color
}

// Box returns the world-space box of the visual.
func (v *Visual) Box() core.Rect {
	return core.RectAt(v.X, v.Y, v.Desc.Width, v.Desc.Height)
}

// Effect is a transient explosion or impact mark.
type Effect struct {
	Kind  EffectKind
	X, Y  float64
	Glyph rune
	Color core.Color
	TTL   int
}

// TerminalPresenter keeps visuals in memory for a cell renderer.
// Images are resolved through the sprite map of the level data.
type TerminalPresenter struct {
	pack        *data.Pack
	effectTicks int
	next        Handle
	visuals     map[Handle]*Visual
	effects     []*Effect
	sounds      map[SoundKind]int
}

// NewTerminalPresenter creates a presenter over the sprites of pack.
func NewTerminalPresenter(pack *data.Pack, effectTicks int) *TerminalPresenter {
	if effectTicks <= 0 {
		effectTicks = DefaultEffectTicks
	}
	return &TerminalPresenter{
		pack:        pack,
		effectTicks: effectTicks,
		visuals:     make(map[Handle]*Visual),
		sounds:      make(map[SoundKind]int),
	}
}

// Glyph resolves an image reference to a glyph and colour.
func (t *TerminalPresenter) Glyph(image string) (rune, core.Color, error) {
	sprite, ok := t.pack.Sprite(image)
	if !ok {
		return 0, core.ColorDefault, fmt.Errorf("%w: no sprite for %q", ErrAssetUnavailable, image)
	}
	r, _ := utf8.DecodeRuneInString(sprite.Glyph)
	if r == utf8.RuneError {
		return 0, core.ColorDefault, fmt.Errorf("%w: empty glyph for %q", ErrAssetUnavailable, image)
	}
	color, ok := core.ParseColor(sprite.Color)
	if !ok {
		logger.Warn("unknown sprite colour", "image", image, "color", sprite.Color)
	}
	return r, color, nil
}

// SpawnVisual implements Presenter.
func (t *TerminalPresenter) SpawnVisual(desc data.Descriptor, x, y, rotation float64) (Handle, error) {
	glyph, color, err := t.Glyph(desc.Image)
	if err != nil {
		return NoHandle, err
	}
	t.next++
	t.visuals[t.next] = &Visual{
		Handle:   t.next,
		Desc:     desc,
		X:        x,
		Y:        y,
		Rotation: rotation,
		Glyph:    glyph,
		Color:    color,
	}
	return t.next, nil
}

// MoveVisual implements Presenter.
func (t *TerminalPresenter) MoveVisual(h Handle, x, y, rotation float64) {
	if v, ok := t.visuals[h]; ok {
		v.X, v.Y, v.Rotation = x, y, rotation
	}
}

// RemoveVisual implements Presenter.
func (t *TerminalPresenter) RemoveVisual(h Handle) {
	delete(t.visuals, h)
}

// PlayEffect implements Presenter.
func (t *TerminalPresenter) PlayEffect(kind EffectKind, x, y float64) {
	image := ImpactImage
	if kind == EffectExplosion {
		image = ExplosionImage
	}
	glyph, color, err := t.Glyph(image)
	if err != nil {
		glyph, color = '*', core.ColorYellow
	}
	t.effects = append(t.effects, &Effect{Kind: kind, X: x, Y: y, Glyph: glyph, Color: color, TTL: t.effectTicks})
}

// PlaySound implements Presenter. The terminal has no mixer, so cues are
// counted until the renderer drains them.
func (t *TerminalPresenter) PlaySound(kind SoundKind) {
	t.sounds[kind]++
}

// ClearEffects implements Presenter.
func (t *TerminalPresenter) ClearEffects() {
	t.effects = nil
}

// Age advances effects by one tick and drops the expired ones.
func (t *TerminalPresenter) Age() {
	kept := t.effects[:0]
	for _, e := range t.effects {
		e.TTL--
		if e.TTL > 0 {
			kept = append(kept, e)
		}
	}
	t.effects = kept
}

// Visuals returns the live visuals ordered by handle.
func (t *TerminalPresenter) Visuals() []*Visual {
	out := make([]*Visual, 0, len(t.visuals))
	for _, v := range t.visuals {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out
}

// Visual returns the visual behind h.
func (t *TerminalPresenter) Visual(h Handle) (*Visual, bool) {
	v, ok := t.visuals[h]
	return v, ok
}

// Live returns the number of live visuals.
func (t *TerminalPresenter) Live() int {
	return len(t.visuals)
}

// Effects returns the in-flight effects.
func (t *TerminalPresenter) Effects() []*Effect {
	return t.effects
}

// DrainSounds returns the cues played since the last call and resets them.
func (t *TerminalPresenter) DrainSounds() map[SoundKind]int {
	out := t.sounds
	t.sounds = make(map[SoundKind]int)
	return out
}
