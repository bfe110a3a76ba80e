package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// clearEnv unsets every variable the agent reads so the host environment
// cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"APP_HOSTNAME", "HOST", "HOSTNAME", "APP_DISK_USAGE_PATHS", "APP_PERIOD",
		"APP_WRITE_TIMEOUT", "APP_TEMPERATURE_THRESHOLDS", "APP_METRICS_ADDR",
		"INFLUXDB_HOST", "INFLUXDB_PORT", "INFLUXDB_USERNAME", "INFLUXDB_PASSWORD",
		"INFLUXDB_DBNAME", "INFLUXDB_SSL",
	} {
		t.Setenv(name, "")
	}
}

func load(t *testing.T, args ...string) *Config {
	t.Helper()
	v := viper.New()
	if err := Bind(v); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if err := BindFlags(v, fs); err != nil {
		t.Fatalf("BindFlags() error = %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := load(t)

	if cfg.Period != 10*time.Second {
		t.Errorf("Period = %v, want 10s", cfg.Period)
	}
	if cfg.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("WriteTimeout = %v, want %v", cfg.WriteTimeout, DefaultWriteTimeout)
	}
	if len(cfg.DiskUsagePaths) != 1 || cfg.DiskUsagePaths[0] != "/" {
		t.Errorf("DiskUsagePaths = %v, want [/]", cfg.DiskUsagePaths)
	}
	if cfg.Hostname != "" {
		t.Errorf("Hostname = %q, want empty", cfg.Hostname)
	}
	if cfg.Debug || cfg.NoDB || cfg.Verbose || cfg.TemperatureThresholds {
		t.Errorf("unexpected toggles set: %+v", cfg)
	}
	if cfg.Sink.Valid() {
		t.Error("Sink.Valid() = true with no environment")
	}
}

func TestLoad_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("INFLUXDB_HOST", "influx.local")
	t.Setenv("INFLUXDB_PORT", "8086")
	t.Setenv("INFLUXDB_USERNAME", "agent")
	t.Setenv("INFLUXDB_PASSWORD", "hunter2")
	t.Setenv("INFLUXDB_DBNAME", "telemetry")
	t.Setenv("INFLUXDB_SSL", "Yes")
	t.Setenv("APP_DISK_USAGE_PATHS", "/,/dev")
	t.Setenv("APP_PERIOD", "30")

	cfg := load(t)

	want := Sink{
		Host:     "influx.local",
		Port:     "8086",
		Username: "agent",
		Password: "hunter2",
		Database: "telemetry",
		SSL:      true,
	}
	if cfg.Sink != want {
		t.Errorf("Sink = %+v, want %+v", cfg.Sink, want)
	}
	if !cfg.Sink.Valid() {
		t.Error("Sink.Valid() = false, want true")
	}
	if len(cfg.DiskUsagePaths) != 2 || cfg.DiskUsagePaths[0] != "/" || cfg.DiskUsagePaths[1] != "/dev" {
		t.Errorf("DiskUsagePaths = %v, want [/ /dev]", cfg.DiskUsagePaths)
	}
	if cfg.Period != 30*time.Second {
		t.Errorf("Period = %v, want 30s", cfg.Period)
	}
}

func TestLoad_HostnamePriority(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"app hostname wins", map[string]string{"APP_HOSTNAME": "app", "HOST": "host", "HOSTNAME": "hn"}, "app"},
		{"host before hostname", map[string]string{"HOST": "host", "HOSTNAME": "hn"}, "host"},
		{"hostname last", map[string]string{"HOSTNAME": "hn"}, "hn"},
		{"none set", map[string]string{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if got := load(t).Hostname; got != tt.want {
				t.Errorf("Hostname = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoad_Flags(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PERIOD", "30")

	cfg := load(t, "-n", "-p", "2", "--temperature-thresholds", "--metrics-addr", ":9273")

	if !cfg.NoDB {
		t.Error("NoDB = false, want true")
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true (implied by --no-db)")
	}
	if cfg.Period != 2*time.Second {
		t.Errorf("Period = %v, want 2s (flag beats env)", cfg.Period)
	}
	if !cfg.TemperatureThresholds {
		t.Error("TemperatureThresholds = false, want true")
	}
	if cfg.MetricsAddr != ":9273" {
		t.Errorf("MetricsAddr = %q, want :9273", cfg.MetricsAddr)
	}
}

func TestLoad_InvalidPeriod(t *testing.T) {
	clearEnv(t)
	v := viper.New()
	if err := Bind(v); err != nil {
		t.Fatal(err)
	}
	v.Set(KeyPeriod, 0)

	_, err := Load(v)
	if !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("Load() error = %v, want ErrInvalidPeriod", err)
	}
}

func TestReadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sysmon.yaml")
	content := "influxdb:\n  host: file-host\n  port: \"8086\"\n  dbname: metrics\ndisk_usage_paths: /data\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("INFLUXDB_HOST", "env-host")

	v := viper.New()
	if err := Bind(v); err != nil {
		t.Fatal(err)
	}
	if err := ReadFile(v, path); err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Sink.Host != "env-host" {
		t.Errorf("Host = %q, want env-host (env beats file)", cfg.Sink.Host)
	}
	if cfg.Sink.Database != "metrics" {
		t.Errorf("Database = %q, want metrics", cfg.Sink.Database)
	}
	if len(cfg.DiskUsagePaths) != 1 || cfg.DiskUsagePaths[0] != "/data" {
		t.Errorf("DiskUsagePaths = %v, want [/data]", cfg.DiskUsagePaths)
	}
}

func TestReadFile_Missing(t *testing.T) {
	v := viper.New()
	if err := ReadFile(v, filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("ReadFile() on missing file returned nil error")
	}
	if err := ReadFile(v, ""); err != nil {
		t.Errorf("ReadFile(\"\") error = %v, want nil", err)
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1", true},
		{"y", true},
		{"Y", true},
		{"yes", true},
		{"YES", true},
		{"true", true},
		{"0", false},
		{"no", false},
		{"", false},
		{"on", false},
	}
	for _, tt := range tests {
		if got := ParseBool(tt.in); got != tt.want {
			t.Errorf("ParseBool(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSplitPaths(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"/", []string{"/"}},
		{"/,/dev", []string{"/", "/dev"}},
		{" /home , /var/lib ", []string{"/home", "/var/lib"}},
		{"", []string{"/"}},
		{",,", []string{"/"}},
		{"/,/", []string{"/"}},
		{"/data, /,/data", []string{"/data", "/"}},
	}
	for _, tt := range tests {
		got := SplitPaths(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("SplitPaths(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("SplitPaths(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}

func TestSink_StringRedactsPassword(t *testing.T) {
	s := Sink{Host: "h", Port: "1", Password: "secret", Database: "db"}
	got := s.String()
	want := "host=h port=1 username= password=*** dbname=db ssl=false"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	s.Password = ""
	want = "host=h port=1 username= password= dbname=db ssl=false"
	if got := s.String(); got != want {
		t.Errorf("String() without password = %q, want %q", got, want)
	}
}

func TestSink_MarshalLogObject(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	zap.New(core).Info("sink", zap.Object("influxdb", Sink{Host: "h", Password: "secret"}))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	fields, ok := entries[0].ContextMap()["influxdb"].(map[string]interface{})
	if !ok {
		t.Fatalf("influxdb field = %T, want map", entries[0].ContextMap()["influxdb"])
	}
	if fields["password"] != PasswordMask {
		t.Errorf("password = %v, want %q", fields["password"], PasswordMask)
	}
	if fields["host"] != "h" {
		t.Errorf("host = %v, want h", fields["host"])
	}
}
