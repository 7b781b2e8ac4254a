package tanks

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// LayoutEntity is the archived position of one placed entity.
type LayoutEntity struct {
	Image string  `msgpack:"i"`
	X     float64 `msgpack:"x"`
	Y     float64 `msgpack:"y"`
	W     float64 `msgpack:"w"`
	H     float64 `msgpack:"h"`
}

// Layout is the generated arrangement of one attempt, stored with the
// attempt history so a layout can be inspected after the fact.
type Layout struct {
	Level     int            `msgpack:"level"`
	ArenaW    float64        `msgpack:"aw"`
	ArenaH    float64        `msgpack:"ah"`
	Player    LayoutEntity   `msgpack:"player"`
	Obstacles []LayoutEntity `msgpack:"obstacles"`
	Enemies   []LayoutEntity `msgpack:"enemies"`
	Dropped   int            `msgpack:"dropped"`
}

func layoutEntity(e *Entity) LayoutEntity {
	return LayoutEntity{Image: e.Desc.Image, X: e.X, Y: e.Y, W: e.Desc.Width, H: e.Desc.Height}
}

// EncodeLayout serialises a layout with msgpack.
func EncodeLayout(l Layout) ([]byte, error) {
	b, err := msgpack.Marshal(&l)
	if err != nil {
		return nil, fmt.Errorf("tanks: cannot encode layout: %w", err)
	}
	return b, nil
}

// DecodeLayout parses a layout produced by EncodeLayout.
func DecodeLayout(b []byte) (Layout, error) {
	var l Layout
	if err := msgpack.Unmarshal(b, &l); err != nil {
		return Layout{}, fmt.Errorf("tanks: cannot decode layout: %w", err)
	}
	return l, nil
}
