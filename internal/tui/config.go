package tui

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/adrg/xdg"
)

var cfgFile = "arena/tui.json"

// InvalidConfig reports a config file that loaded but cannot be used.
type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("config error: %s", e.err)
}

// Colors are 256-colour palette indexes.
type Colors struct {
	Board  int `json:"board"`
	Glyph  int `json:"glyph"`
	Cursor int `json:"cursor"`
	Valid  int `json:"valid"`
}

type Config struct {
	DefaultGame string `json:"default_game"`
	Colors      Colors `json:"colors"`
}

// DefaultConfig is used for anything the file leaves out.
var DefaultConfig = Config{
	DefaultGame: "tic-tac-toe",
	Colors: Colors{
		Board:  236,
		Glyph:  255,
		Cursor: 4,
		Valid:  22,
	},
}

// LoadConfig reads arena/tui.json from the XDG config dirs, falling back to
// the defaults when no file exists.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig
	path, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err := readConfig(path, &cfg); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	for _, v := range []int{c.Colors.Board, c.Colors.Glyph, c.Colors.Cursor, c.Colors.Valid} {
		if v < 0 || v > 255 {
			return &InvalidConfig{fmt.Sprintf("colour %d outside the 256-colour palette", v)}
		}
	}
	if c.DefaultGame == "" {
		return &InvalidConfig{"default_game must not be empty"}
	}
	return nil
}

// Save writes the config to the user's XDG config dir.
func (c *Config) Save() error {
	path, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return writeConfig(path, c)
}

func readConfig(path string, c *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, c); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %v", path, err)}
	}
	return nil
}

func writeConfig(path string, c *Config) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o664)
}
