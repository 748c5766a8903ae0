package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           int       `envconfig:"PORT" default:"8080"`
	StaticDir      string    `envconfig:"STATIC_DIR" default:"./web"`
	LogLevel       string    `envconfig:"LOG_LEVEL" default:"info"`
	Roughness      float64   `envconfig:"ROUGHNESS" default:"0"`
	StrokeDash     []float64 `envconfig:"STROKE_DASH" default:"1,1"`
	Seed           uint64    `envconfig:"SEED" default:"0"`
	PDFPageSize    string    `envconfig:"PDF_PAGE_SIZE" default:"A4"`
	AllowedOrigins string    `envconfig:"ALLOWED_ORIGINS" default:"localhost:5173,localhost:3000"`
	MDNSEnabled    bool      `envconfig:"MDNS_ENABLED" default:"false"`
	MDNSInstance   string    `envconfig:"MDNS_INSTANCE" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.Roughness < 0 {
		return nil, fmt.Errorf("ROUGHNESS must be >= 0, got %v", cfg.Roughness)
	}
	return &cfg, nil
}

// Origins splits AllowedOrigins into websocket origin patterns.
func (c *Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Level maps LogLevel to a slog level, defaulting to info.
func (c *Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
