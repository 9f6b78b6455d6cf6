package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

const appDirName = "mdnote"

// Config holds mdnote settings loaded from config.toml.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Viewer   ViewerConfig   `toml:"viewer"`
	Images   ImagesConfig   `toml:"images"`
	AI       AIConfig       `toml:"ai"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type ViewerConfig struct {
	TabWidth  int    `toml:"tab_width"`
	Wrap      bool   `toml:"wrap"`
	CodeStyle string `toml:"code_style"`
}

type ImagesConfig struct {
	MaxWidth     int `toml:"max_width"`
	MaxHeight    int `toml:"max_height"`
	CacheEntries int `toml:"cache_entries"`
}

type AIConfig struct {
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	APIKeyEnv      string `toml:"api_key_env"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the request timeout for chat-completion calls.
func (c AIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Default returns the built-in configuration.
func Default() *Config {
	dataDir, err := DataDir()
	if err != nil {
		dataDir = "."
	}
	return &Config{
		Database: DatabaseConfig{Path: filepath.Join(dataDir, "notes.db")},
		Viewer: ViewerConfig{
			TabWidth:  4,
			Wrap:      true,
			CodeStyle: "monokai",
		},
		Images: ImagesConfig{
			MaxWidth:     1024,
			MaxHeight:    1024,
			CacheEntries: 32,
		},
		AI: AIConfig{
			BaseURL:        "https://api.openai.com/v1",
			Model:          "gpt-4o-mini",
			APIKeyEnv:      "OPENAI_API_KEY",
			TimeoutSeconds: 30,
		},
	}
}

// Load reads the config file from the standard location. A missing file is
// not an error.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return applyEnv(Default()), nil
	}
	return LoadFromFile(filepath.Join(dir, "config.toml"))
}

// LoadFromFile reads config from path, filling unset values with defaults and
// applying MDNOTE_* environment overrides.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(cfg), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.fillDefaults()
	return applyEnv(cfg), nil
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.Database.Path == "" {
		c.Database.Path = def.Database.Path
	}
	if c.Viewer.TabWidth <= 0 {
		c.Viewer.TabWidth = def.Viewer.TabWidth
	}
	if c.Viewer.CodeStyle == "" {
		c.Viewer.CodeStyle = def.Viewer.CodeStyle
	}
	if c.Images.MaxWidth <= 0 {
		c.Images.MaxWidth = def.Images.MaxWidth
	}
	if c.Images.MaxHeight <= 0 {
		c.Images.MaxHeight = def.Images.MaxHeight
	}
	if c.Images.CacheEntries <= 0 {
		c.Images.CacheEntries = def.Images.CacheEntries
	}
	if c.AI.BaseURL == "" {
		c.AI.BaseURL = def.AI.BaseURL
	}
	if c.AI.Model == "" {
		c.AI.Model = def.AI.Model
	}
	if c.AI.APIKeyEnv == "" {
		c.AI.APIKeyEnv = def.AI.APIKeyEnv
	}
	if c.AI.TimeoutSeconds <= 0 {
		c.AI.TimeoutSeconds = def.AI.TimeoutSeconds
	}
}

func applyEnv(c *Config) *Config {
	if v := os.Getenv("MDNOTE_DB"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("MDNOTE_AI_BASE_URL"); v != "" {
		c.AI.BaseURL = v
	}
	if v := os.Getenv("MDNOTE_AI_MODEL"); v != "" {
		c.AI.Model = v
	}
	return c
}

// Dir returns the config directory, honoring XDG_CONFIG_HOME.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appDirName), nil
}

// DataDir returns the directory holding the notes database.
func DataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appDirName), nil
}
