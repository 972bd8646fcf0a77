package config

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// Feed is a single configured feed source
type Feed struct {
	URL string `yaml:"url"`
}

// Config holds the feed sources configuration
type Config struct {
	Feeds []Feed `yaml:"feeds"`
}

// Load reads the feeds configuration from a YAML file. A missing file,
// unreadable YAML or a list without a single valid URL is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	valid := make([]Feed, 0, len(cfg.Feeds))
	for _, f := range cfg.Feeds {
		if f.URL == "" {
			continue
		}
		u, err := url.Parse(f.URL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid feed url %q", f.URL)
		}
		valid = append(valid, f)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("no feed urls configured in %s", path)
	}
	cfg.Feeds = valid

	return &cfg, nil
}

// URLs returns the configured feed addresses in fetch order
func (c *Config) URLs() []string {
	urls := make([]string, len(c.Feeds))
	for i, f := range c.Feeds {
		urls[i] = f.URL
	}
	return urls
}
