package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AppDir is the per-user directory under $HOME holding configs, logs and the
// score database.
const AppDir = ".danmaku"

// LoadDanmaku loads the danmaku configuration.
// Search order: customPath -> ~/.danmaku/configs/danmaku.yaml -> ./configs/danmaku.yaml -> embedded default
//
// Files are decoded over the defaults, so a partial file only overrides the
// keys it names.
func LoadDanmaku(customPath string) (DanmakuConfig, error) {
	cfg := DefaultDanmakuConfig()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("danmaku.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = DefaultDanmakuConfig()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile("configs/danmaku.yaml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = DefaultDanmakuConfig()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultDanmakuYAML, &cfg); err != nil {
		return DefaultDanmakuConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, AppDir, "configs", filename)
}

// ApplyDanmakuPreset modifies the config based on a difficulty preset.
func ApplyDanmakuPreset(cfg *DanmakuConfig, preset DifficultyPreset) {
	if preset == DifficultyFixed {
		cfg.Difficulty.Enabled = false
		cfg.Difficulty.InitialLevel = 0
		return
	}
	cfg.Difficulty.Enabled = true
	cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)

	// Adjust gameplay based on difficulty
	switch preset {
	case DifficultyEasy:
		cfg.Player.Life = 15
		cfg.Player.Invulnerability = 1.0
	case DifficultyHard:
		cfg.Player.Life = 5
		cfg.Enemy.BurstCount = 3
	}
}
