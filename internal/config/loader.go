package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadTanks loads the arena configuration.
// Search order: customPath -> ~/.tanks/configs/tanks.yaml -> ./configs/tanks.yaml -> embedded default.
// Files are decoded on top of the defaults, so partial files only override what they name.
func LoadTanks(customPath string) (TanksConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultTanksConfig(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := decodeTanks(data)
		if err != nil {
			return DefaultTanksConfig(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("tanks.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := decodeTanks(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/tanks.yaml"); err == nil {
		if cfg, err := decodeTanks(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := decodeTanks(defaultTanksYAML)
	if err != nil {
		return DefaultTanksConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func decodeTanks(data []byte) (TanksConfig, error) {
	cfg := DefaultTanksConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate reports values the simulation cannot run with.
func (c TanksConfig) Validate() error {
	switch {
	case c.Arena.CellWidth <= 0 || c.Arena.CellHeight <= 0:
		return fmt.Errorf("arena cell size must be positive")
	case c.Player.Width <= 0 || c.Player.Height <= 0:
		return fmt.Errorf("player size must be positive")
	case c.Placement.MaxAttempts <= 0:
		return fmt.Errorf("placement max_attempts must be positive")
	case c.Campaign.FinalLevel < 1:
		return fmt.Errorf("campaign final_level must be at least 1")
	}
	return nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tanks", "configs", filename)
}
