package main

import (
	"testing"
	"time"

	"github.com/HerbHall/sysmon/internal/config"
)

func TestAgentConfig(t *testing.T) {
	tests := []struct {
		name           string
		cfg            config.Config
		wantPeriod     time.Duration
		wantThresholds bool
	}{
		{"zero period keeps default", config.Config{}, config.DefaultPeriod, false},
		{"period from config", config.Config{Period: 30 * time.Second}, 30 * time.Second, false},
		{"thresholds", config.Config{Period: time.Minute, TemperatureThresholds: true}, time.Minute, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ac := agentConfig(&tt.cfg, "web-01")
			if ac.Period != tt.wantPeriod {
				t.Errorf("Period = %v, want %v", ac.Period, tt.wantPeriod)
			}
			if ac.Hostname != "web-01" {
				t.Errorf("Hostname = %q, want web-01", ac.Hostname)
			}
			if ac.Shape.TemperatureThresholds != tt.wantThresholds {
				t.Errorf("TemperatureThresholds = %v, want %v", ac.Shape.TemperatureThresholds, tt.wantThresholds)
			}
		})
	}
}
