package cfg

import (
	"fmt"
	"strings"
	"time"

	"github.com/lysyi3m/folio/app/reveal"
)

type Cfg struct {
	// Server configuration
	Port        string
	BaseUrl     string
	WorkerCount int

	// Content configuration
	ContentDir    string
	AssetsDir     string
	StrictContent bool
	SiteName      string

	// Reveal animation
	RevealThreshold   float64
	RevealDurationMs  int
	RevealStepDelayMs int

	// Application metadata
	Timezone string
	Debug    bool
	Version  string
}

// PublicURL is the absolute base used for canonical links and the feed.
func (c *Cfg) PublicURL() string {
	if c.BaseUrl != "" {
		return strings.TrimSuffix(c.BaseUrl, "/")
	}
	return fmt.Sprintf("http://localhost:%s", c.Port)
}

func (c *Cfg) RevealConfig() reveal.Config {
	return reveal.Config{
		Threshold: c.RevealThreshold,
		Duration:  time.Duration(c.RevealDurationMs) * time.Millisecond,
		StepDelay: time.Duration(c.RevealStepDelayMs) * time.Millisecond,
	}
}
