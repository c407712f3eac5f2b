package cfg

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Server configuration
	Port        string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	BaseUrl     string `long:"base-url" env:"BASE_URL" description:"Public base URL for the site (e.g., https://folio.example.com)"`
	WorkerCount int    `long:"worker-count" env:"WORKER_COUNT" default:"4" description:"Number of background workers for page pre-rendering"`

	// Content configuration
	ContentDir    string `long:"content-dir" env:"CONTENT_DIR" description:"Directory with site.yml, catalog.yml and projects/ (bundled content when empty)"`
	AssetsDir     string `long:"assets-dir" env:"ASSETS_DIR" description:"Directory served under /media"`
	StrictContent bool   `long:"strict-content" env:"STRICT_CONTENT" description:"Fail startup on malformed documents or featured conflicts"`
	SiteName      string `long:"site-name" env:"SITE_NAME" description:"Override the site name from site.yml"`

	// Reveal animation
	RevealThreshold   float64 `long:"reveal-threshold" env:"REVEAL_THRESHOLD" default:"0" description:"Visible fraction (0..1) that triggers a reveal, 0 means any intersection"`
	RevealDurationMs  int     `long:"reveal-duration" env:"REVEAL_DURATION_MS" default:"300" description:"Reveal animation duration in milliseconds"`
	RevealStepDelayMs int     `long:"reveal-step-delay" env:"REVEAL_STEP_DELAY_MS" default:"100" description:"Stagger delay between sibling reveals in milliseconds"`

	// Application metadata
	Timezone string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

// Load reads .env files, then flags and environment from the process.
func Load() (*Cfg, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}
	return LoadArgs(os.Args[1:])
}

// LoadArgs parses args and the environment. It returns nil, nil when help
// was requested.
func LoadArgs(args []string) (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:              raw.Port,
		BaseUrl:           raw.BaseUrl,
		WorkerCount:       raw.WorkerCount,
		ContentDir:        raw.ContentDir,
		AssetsDir:         raw.AssetsDir,
		StrictContent:     raw.StrictContent,
		SiteName:          raw.SiteName,
		RevealThreshold:   raw.RevealThreshold,
		RevealDurationMs:  raw.RevealDurationMs,
		RevealStepDelayMs: raw.RevealStepDelayMs,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func validate(cfg *Cfg) error {
	if cfg.RevealThreshold < 0 || cfg.RevealThreshold > 1 {
		return fmt.Errorf("reveal threshold must be between 0 and 1, got %v", cfg.RevealThreshold)
	}
	if cfg.RevealDurationMs < 0 || cfg.RevealStepDelayMs < 0 {
		return fmt.Errorf("reveal duration and step delay must not be negative")
	}
	if cfg.WorkerCount < 1 {
		return fmt.Errorf("worker count must be at least 1, got %d", cfg.WorkerCount)
	}
	return nil
}

// loadEnvFiles loads .env.local, then .env. Values already in the
// environment win, and missing files are ignored.
func loadEnvFiles() error {
	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
	}
	return nil
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
