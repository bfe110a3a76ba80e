package agent

import (
	"time"

	"github.com/HerbHall/sysmon/internal/config"
	"github.com/HerbHall/sysmon/internal/shaper"
)

// Config holds the collection loop settings.
type Config struct {
	Period   time.Duration
	Hostname string
	Shape    shaper.Options
}

// DefaultConfig returns the default loop configuration.
func DefaultConfig() *Config {
	return &Config{
		Period: config.DefaultPeriod,
	}
}
