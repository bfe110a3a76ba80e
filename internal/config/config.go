// Package config loads the sysmon agent configuration from flags, the
// environment and an optional config file. The result is read once at
// startup and passed explicitly to the components that need it.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Configuration keys.
const (
	KeyHostname              = "hostname"
	KeyDiskUsagePaths        = "disk_usage_paths"
	KeyPeriod                = "period"
	KeyWriteTimeout          = "write_timeout"
	KeyTemperatureThresholds = "temperature_thresholds"
	KeyMetricsAddr           = "metrics_addr"
	KeyDebug                 = "debug"
	KeyNoDB                  = "no_db"
	KeyVerbose               = "verbose"

	KeyInfluxHost     = "influxdb.host"
	KeyInfluxPort     = "influxdb.port"
	KeyInfluxUsername = "influxdb.username"
	KeyInfluxPassword = "influxdb.password"
	KeyInfluxDatabase = "influxdb.dbname"
	KeyInfluxSSL      = "influxdb.ssl"
)

// Defaults.
const (
	DefaultDiskUsagePath = "/"
	DefaultPeriod        = 10 * time.Second
	DefaultWriteTimeout  = 5 * time.Second
)

// PasswordMask replaces a configured password whenever a Sink is rendered.
const PasswordMask = "***"

// ErrInvalidPeriod is returned when the sampling period is not positive.
var ErrInvalidPeriod = errors.New("period must be positive")

// Sink holds the InfluxDB connection parameters.
type Sink struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	SSL      bool
}

// Valid reports whether enough parameters are set to attempt a connection.
func (s Sink) Valid() bool {
	return s.Host != "" && s.Port != "" && s.Database != ""
}

func (s Sink) redactedPassword() string {
	if s.Password == "" {
		return ""
	}
	return PasswordMask
}

// String renders the parameters with the password masked.
func (s Sink) String() string {
	return fmt.Sprintf("host=%s port=%s username=%s password=%s dbname=%s ssl=%t",
		s.Host, s.Port, s.Username, s.redactedPassword(), s.Database, s.SSL)
}

// MarshalLogObject implements zapcore.ObjectMarshaler with the password masked.
func (s Sink) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("host", s.Host)
	enc.AddString("port", s.Port)
	enc.AddString("username", s.Username)
	enc.AddString("password", s.redactedPassword())
	enc.AddString("dbname", s.Database)
	enc.AddBool("ssl", s.SSL)
	return nil
}

// Config holds the agent configuration.
type Config struct {
	// Hostname is the first non-empty hostname override from the
	// environment. Empty means the OS hostname is used.
	Hostname              string
	DiskUsagePaths        []string
	Period                time.Duration
	WriteTimeout          time.Duration
	TemperatureThresholds bool
	MetricsAddr           string
	Debug                 bool
	NoDB                  bool
	Verbose               bool
	Sink                  Sink
}

// RegisterFlags defines the command line flags on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolP("debug", "d", false, "set logging level to DEBUG")
	fs.BoolP("no-db", "n", false, "don't connect to an Influx database; implies --debug")
	fs.IntP("period", "p", int(DefaultPeriod/time.Second), "period for taking measurements, in seconds")
	fs.BoolP("verbose", "v", false, "human-readable console logging")
	fs.Duration("write-timeout", DefaultWriteTimeout, "timeout for a single database write")
	fs.Bool("temperature-thresholds", false, "also emit temperature high/critical fields")
	fs.String("metrics-addr", "", "listen address for the prometheus /metrics endpoint (disabled when empty)")
}

var flagKeys = map[string]string{
	"debug":                  KeyDebug,
	"no-db":                  KeyNoDB,
	"period":                 KeyPeriod,
	"verbose":                KeyVerbose,
	"write-timeout":          KeyWriteTimeout,
	"temperature-thresholds": KeyTemperatureThresholds,
	"metrics-addr":           KeyMetricsAddr,
}

// BindFlags binds the flags defined by RegisterFlags to their viper keys.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %q: %w", name, err)
		}
	}
	return nil
}

// Bind sets defaults and environment bindings on v.
func Bind(v *viper.Viper) error {
	v.SetDefault(KeyDiskUsagePaths, DefaultDiskUsagePath)
	v.SetDefault(KeyPeriod, int(DefaultPeriod/time.Second))
	v.SetDefault(KeyWriteTimeout, DefaultWriteTimeout)

	envs := map[string][]string{
		KeyHostname:              {"APP_HOSTNAME", "HOST", "HOSTNAME"},
		KeyDiskUsagePaths:        {"APP_DISK_USAGE_PATHS"},
		KeyPeriod:                {"APP_PERIOD"},
		KeyWriteTimeout:          {"APP_WRITE_TIMEOUT"},
		KeyTemperatureThresholds: {"APP_TEMPERATURE_THRESHOLDS"},
		KeyMetricsAddr:           {"APP_METRICS_ADDR"},
		KeyInfluxHost:            {"INFLUXDB_HOST"},
		KeyInfluxPort:            {"INFLUXDB_PORT"},
		KeyInfluxUsername:        {"INFLUXDB_USERNAME"},
		KeyInfluxPassword:        {"INFLUXDB_PASSWORD"},
		KeyInfluxDatabase:        {"INFLUXDB_DBNAME"},
		KeyInfluxSSL:             {"INFLUXDB_SSL"},
	}
	for key, names := range envs {
		// Multiple names are checked in order; the first set one wins.
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return fmt.Errorf("bind env %q: %w", key, err)
		}
	}
	return nil
}

// ReadFile merges a YAML (or any viper-supported) config file into v.
// An empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	return nil
}

// Load builds a Config from v. Bind must have been called on v.
func Load(v *viper.Viper) (*Config, error) {
	period := time.Duration(v.GetInt(KeyPeriod)) * time.Second
	if period <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPeriod, v.GetInt(KeyPeriod))
	}

	writeTimeout := v.GetDuration(KeyWriteTimeout)
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}

	noDB := v.GetBool(KeyNoDB)

	return &Config{
		Hostname:              strings.TrimSpace(v.GetString(KeyHostname)),
		DiskUsagePaths:        SplitPaths(v.GetString(KeyDiskUsagePaths)),
		Period:                period,
		WriteTimeout:          writeTimeout,
		TemperatureThresholds: ParseBool(v.GetString(KeyTemperatureThresholds)),
		MetricsAddr:           v.GetString(KeyMetricsAddr),
		Debug:                 v.GetBool(KeyDebug) || noDB,
		NoDB:                  noDB,
		Verbose:               v.GetBool(KeyVerbose),
		Sink: Sink{
			Host:     v.GetString(KeyInfluxHost),
			Port:     v.GetString(KeyInfluxPort),
			Username: v.GetString(KeyInfluxUsername),
			Password: v.GetString(KeyInfluxPassword),
			Database: v.GetString(KeyInfluxDatabase),
			SSL:      ParseBool(v.GetString(KeyInfluxSSL)),
		},
	}, nil
}

// SplitPaths splits a comma-separated path list, preserving order.
// Surrounding whitespace, empty entries and repeats are dropped; the
// result falls back to the root path when nothing is left.
func SplitPaths(s string) []string {
	var paths []string
	seen := make(map[string]struct{})
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	if len(paths) == 0 {
		return []string{DefaultDiskUsagePath}
	}
	return paths
}

// ParseBool reports whether s is one of 1, y, yes or true (case-insensitive).
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "y", "yes", "true":
		return true
	}
	return false
}
