package data

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Files are looked up by any of their names with any supported extension.
// The camel-case names match the JSON files of the browser edition.
var (
	difficultyNames = []string{"difficulty"}
	obstacleNames   = []string{"obstacles"}
	spriteNames     = []string{"sprites"}
	enemyNames      = [3][]string{
		SideLeft:   {"enemy_tanks_left", "enemyTanksLeft"},
		SideCenter: {"enemy_tanks_center", "enemyTanksCenter"},
		SideRight:  {"enemy_tanks_right", "enemyTanksRight"},
	}
	enemyKeys = [3]string{
		SideLeft:   "enemyTanksLeft",
		SideCenter: "enemyTanksCenter",
		SideRight:  "enemyTanksRight",
	}
	extensions = []string{".yaml", ".yml", ".json"}
)

type difficultyFile struct {
	Difficulty []Difficulty `yaml:"difficulty"`
}

type obstaclesFile struct {
	Obstacles []Descriptor `yaml:"obstacles"`
}

type spritesFile struct {
	Sprites map[string]Sprite `yaml:"sprites"`
}

// Loader reads level data from a directory, falling back to the embedded
// defaults for every file the directory does not provide.
type Loader struct {
	Root string // Empty means embedded defaults only
}

// NewLoader creates a new data loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// Default loads the embedded level data.
func Default() (*Pack, error) {
	return NewLoader("").Load()
}

// Load reads and validates the complete data pack.
func (l *Loader) Load() (*Pack, error) {
	if l.Root != "" {
		info, err := os.Stat(l.Root)
		if err != nil {
			return nil, fmt.Errorf("data: cannot open %s: %w", l.Root, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("data: %s is not a directory", l.Root)
		}
	}

	pack := &Pack{}

	var df difficultyFile
	if err := l.decode(difficultyNames, &df); err != nil {
		return nil, err
	}
	pack.Difficulty = df.Difficulty

	var of obstaclesFile
	if err := l.decode(obstacleNames, &of); err != nil {
		return nil, err
	}
	pack.Obstacles = of.Obstacles

	for side := SideLeft; side <= SideRight; side++ {
		var ef map[string][]Descriptor
		if err := l.decode(enemyNames[side], &ef); err != nil {
			return nil, err
		}
		pack.Enemies[side] = ef[enemyKeys[side]]
	}

	var sf spritesFile
	if err := l.decode(spriteNames, &sf); err != nil {
		return nil, err
	}
	pack.Sprites = sf.Sprites

	if err := pack.Validate(); err != nil {
		return nil, err
	}
	return pack, nil
}

// decode finds the first matching file and unmarshals it into out.
// YAML is a superset of JSON, so one decoder handles both.
func (l *Loader) decode(names []string, out any) error {
	raw, path, err := l.read(names)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("data: parsing %s: %w", path, err)
	}
	return nil
}

func (l *Loader) read(names []string) ([]byte, string, error) {
	if l.Root != "" {
		for _, name := range names {
			for _, ext := range extensions {
				path := filepath.Join(l.Root, name+ext)
				raw, err := os.ReadFile(path)
				if err == nil {
					return raw, path, nil
				}
				if !os.IsNotExist(err) {
					return nil, path, fmt.Errorf("data: reading %s: %w", path, err)
				}
			}
		}
	}

	// Embedded defaults use the first name and .yaml
	path := "defaults/" + names[0] + ".yaml"
	raw, err := fs.ReadFile(defaultFS, path)
	if err != nil {
		return nil, path, fmt.Errorf("data: reading embedded %s: %w", path, err)
	}
	return raw, path, nil
}

// Validate checks the pack for values that would break level setup.
func (p *Pack) Validate() error {
	if len(p.Difficulty) == 0 {
		return fmt.Errorf("data: difficulty table is empty")
	}
	seen := make(map[int]bool, len(p.Difficulty))
	for _, d := range p.Difficulty {
		if seen[d.Level] {
			return fmt.Errorf("data: duplicate difficulty row for level %d", d.Level)
		}
		seen[d.Level] = true
		if d.ObstacleCount < 0 || d.EnemyTanksCount < 0 {
			return fmt.Errorf("data: negative counts for level %d", d.Level)
		}
	}

	check := func(set string, ds []Descriptor) error {
		for i, d := range ds {
			if d.Width <= 0 || d.Height <= 0 {
				return fmt.Errorf("data: %s[%d] (%s) has no size", set, i, d.Image)
			}
		}
		return nil
	}
	if err := check("obstacles", p.Obstacles); err != nil {
		return err
	}
	for side := SideLeft; side <= SideRight; side++ {
		if err := check(enemyKeys[side], p.Enemies[side]); err != nil {
			return err
		}
	}
	return nil
}
