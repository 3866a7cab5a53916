package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"taskdeck/internal/domain"
)

// Config models taskdeck.yml.
type Config struct {
	Owner struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"owner"`
	View struct {
		Breakpoint  int    `yaml:"breakpoint"`
		DefaultMode string `yaml:"default_mode"`
	} `yaml:"view"`
	Defaults struct {
		Category string `yaml:"category"`
	} `yaml:"defaults"`
	Auth struct {
		AllowLegacyActorHeader bool `yaml:"allow_legacy_actor_header"`
	} `yaml:"auth"`
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Owner.ID == "" {
		return fmt.Errorf("config.owner.id is required")
	}
	if c.View.Breakpoint <= 0 {
		return fmt.Errorf("config.view.breakpoint must be positive")
	}
	switch c.View.DefaultMode {
	case "board", "list":
	default:
		return fmt.Errorf("config.view.default_mode must be 'board' or 'list'")
	}
	if c.Defaults.Category != "" && !domain.Category(c.Defaults.Category).Valid() {
		return fmt.Errorf("config.defaults.category %q is not a task category", c.Defaults.Category)
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "taskdeck.yml")
}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found", Path(workspace))
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns nil,nil if the config file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Default returns the default Config for an owner.
func Default(ownerID string) *Config {
	var cfg Config
	cfg.Owner.ID = ownerID
	cfg.View.Breakpoint = 768
	cfg.View.DefaultMode = "list"
	cfg.Defaults.Category = string(domain.CategoryWork)
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if cfg.View.Breakpoint == 0 {
		cfg.View.Breakpoint = 768
	}
	if cfg.View.DefaultMode == "" {
		cfg.View.DefaultMode = "list"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GenerateDefault returns default config YAML for an owner.
func GenerateDefault(ownerID string) string {
	return fmt.Sprintf(defaultTemplate, ownerID)
}

const defaultTemplate = `owner:
  id: %s

view:
  breakpoint: 768
  default_mode: list

defaults:
  category: WORK
`
