package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ControllerConfig represents a pre-configured controller in the
// config file.
type ControllerConfig struct {
	Name     string `yaml:"name"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Tenant   string `yaml:"tenant"`
	Insecure bool   `yaml:"insecure"`
	NodeDir  string `yaml:"node_dir"`
}

// Config holds all configuration read from the YAML config file.
// Values left empty fall back to defaults; CLI flags override both.
type Config struct {
	Listen      string             `yaml:"listen"`
	DataDir     string             `yaml:"data_dir"`
	Controllers []ControllerConfig `yaml:"controllers"`
}

// Load reads a YAML config file and applies defaults. An empty path
// returns a default configuration.
func Load(path string) (*Config, error) {
	c := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Listen == "" {
		c.Listen = ":8080"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	for i := range c.Controllers {
		if c.Controllers[i].Port == 0 {
			c.Controllers[i].Port = 8443
		}
	}
}
