package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// appConfig is the YAML service configuration. Every field has a working
// default so the binary runs with no config file at all.
type appConfig struct {
	HTTPAddr    string        `yaml:"http_addr"`
	DocsDir     string        `yaml:"docs_dir"`
	LogDB       string        `yaml:"log_db"`
	LogLevel    string        `yaml:"log_level"`
	HTMLTimeout time.Duration `yaml:"html_timeout"`
	PDFTimeout  time.Duration `yaml:"pdf_timeout"`
	UserAgent   string        `yaml:"user_agent"`
	Locale      string        `yaml:"locale"`
	Timezone    string        `yaml:"timezone"`
}

func (c *appConfig) applyDefaults() {
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8086"
	}
	if c.DocsDir == "" {
		c.DocsDir = "documents"
	}
	if c.LogDB == "" {
		c.LogDB = "db/readlog.db"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.HTMLTimeout == 0 {
		c.HTMLTimeout = 30 * time.Second
	}
	if c.PDFTimeout == 0 {
		c.PDFTimeout = 60 * time.Second
	}
}

// loadConfig reads the YAML config at path. A missing file is not an
// error when the path is the default location.
func loadConfig(path string, required bool) (*appConfig, error) {
	var cfg appConfig
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			cfg.applyDefaults()
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}
