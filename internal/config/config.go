// Package config loads skygraph settings from defaults, an optional YAML
// file and the environment, in that order of precedence (lowest first).
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/MalithGihan/skygraph/pkg/types"
)

type Config struct {
	Environment string             `yaml:"environment" validate:"oneof=development production test"`
	Port        string             `yaml:"port" validate:"required,numeric"`
	DataRoot    string             `yaml:"data_root" validate:"required"`
	Upstream    Upstream           `yaml:"upstream"`
	Overlay     Overlay            `yaml:"overlay"`
	Observer    *types.Coordinates `yaml:"observer"`
}

type Upstream struct {
	URL     string        `yaml:"url" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
	Breaker Breaker       `yaml:"breaker"`
}

type Breaker struct {
	MaxRequests      uint32        `yaml:"max_requests"`
	Interval         time.Duration `yaml:"interval"`
	Timeout          time.Duration `yaml:"timeout"`
	MinRequests      uint32        `yaml:"min_requests"`
	FailureThreshold float64       `yaml:"failure_threshold" validate:"gt=0,lte=1"`
}

// Overlay is the sky overlay container size in CSS pixels.
type Overlay struct {
	Width      float64 `yaml:"width" validate:"gt=0"`
	Height     float64 `yaml:"height" validate:"gt=0"`
	PixelRatio float64 `yaml:"pixel_ratio" validate:"gt=0,lte=4"`
}

func Default() Config {
	return Config{
		Environment: "development",
		Port:        "8081",
		DataRoot:    "./projects",
		Upstream: Upstream{
			URL:     "http://localhost:5000",
			Timeout: 15 * time.Second,
			Breaker: Breaker{
				MaxRequests:      5,
				Interval:         30 * time.Second,
				Timeout:          60 * time.Second,
				MinRequests:      5,
				FailureThreshold: 0.8,
			},
		},
		Overlay: Overlay{Width: 1200, Height: 800, PixelRatio: 1},
	}
}

// Load reads .env (if present), the YAML file named by SKYGRAPH_CONFIG (if
// set) and then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return LoadFile(os.Getenv("SKYGRAPH_CONFIG"))
}

// LoadFile is Load without the .env step; an empty path skips the file.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	cfg.Environment = getenv("ENVIRONMENT", cfg.Environment)
	cfg.Port = getenv("PORT", cfg.Port)
	cfg.DataRoot = getenv("DATA_ROOT", cfg.DataRoot)
	cfg.Upstream.URL = getenv("UPSTREAM_URL", cfg.Upstream.URL)

	if v := os.Getenv("UPSTREAM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: UPSTREAM_TIMEOUT: %w", err)
		}
		cfg.Upstream.Timeout = d
	}
	floats := []struct {
		key string
		dst *float64
	}{
		{"OVERLAY_WIDTH", &cfg.Overlay.Width},
		{"OVERLAY_HEIGHT", &cfg.Overlay.Height},
		{"OVERLAY_PIXEL_RATIO", &cfg.Overlay.PixelRatio},
		{"BREAKER_FAILURE_THRESHOLD", &cfg.Upstream.Breaker.FailureThreshold},
	}
	for _, f := range floats {
		if v := os.Getenv(f.key); v != "" {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("config: %s: %w", f.key, err)
			}
			*f.dst = n
		}
	}

	lat, lon := os.Getenv("LATITUDE"), os.Getenv("LONGITUDE")
	if lat != "" && lon != "" {
		la, err := strconv.ParseFloat(lat, 64)
		if err != nil {
			return fmt.Errorf("config: LATITUDE: %w", err)
		}
		lo, err := strconv.ParseFloat(lon, 64)
		if err != nil {
			return fmt.Errorf("config: LONGITUDE: %w", err)
		}
		cfg.Observer = &types.Coordinates{Latitude: la, Longitude: lo}
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
