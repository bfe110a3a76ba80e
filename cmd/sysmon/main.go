package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/HerbHall/sysmon/internal/agent"
	"github.com/HerbHall/sysmon/internal/config"
	"github.com/HerbHall/sysmon/internal/metrics"
	"github.com/HerbHall/sysmon/internal/point"
	"github.com/HerbHall/sysmon/internal/sink"
	"github.com/HerbHall/sysmon/internal/telemetry"
	"github.com/HerbHall/sysmon/internal/version"
)

func main() {
	fs := pflag.NewFlagSet("sysmon", pflag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Export system hardware info to influx")
		fmt.Fprintln(os.Stderr)
		fs.PrintDefaults()
	}
	config.RegisterFlags(fs)
	configPath := fs.String("config", "", "path to configuration file")
	showVersion := fs.Bool("version", false, "print version and exit")
	_ = fs.Parse(os.Args[1:])

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	cfg, err := loadConfig(fs, *configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sysmon: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sysmon: init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger = logger.With(zap.String("instance", uuid.NewString()))
	logger.Info("sysmon starting", zap.String("version", version.Short()))

	hostname := point.ResolveHostname(os.Hostname, cfg.Hostname)
	tm := telemetry.New()

	s := sink.Open(cfg.Sink, cfg.NoDB, sink.Options{WriteTimeout: cfg.WriteTimeout}, logger)
	defer s.Close()

	collector := metrics.NewCollector(metrics.NewProvider(), cfg.DiskUsagePaths, logger)
	a := agent.NewAgent(agentConfig(cfg, hostname), collector, s, tm, logger)

	var srv *telemetry.Server
	if cfg.MetricsAddr != "" {
		srv = telemetry.NewServer(cfg.MetricsAddr, tm, logger)
		go func() {
			// The agent keeps running without its own metrics endpoint.
			if err := srv.Start(); err != nil {
				logger.Error("telemetry server stopped", zap.Error(err))
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		logger.Error("agent stopped", zap.Error(err))
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry server shutdown error", zap.Error(err))
		}
	}

	logger.Info("sysmon stopped")
}

// agentConfig derives the loop settings from cfg on top of the agent
// defaults.
func agentConfig(cfg *config.Config, hostname string) *agent.Config {
	ac := agent.DefaultConfig()
	if cfg.Period > 0 {
		ac.Period = cfg.Period
	}
	ac.Hostname = hostname
	ac.Shape.TemperatureThresholds = cfg.TemperatureThresholds
	return ac
}

func loadConfig(fs *pflag.FlagSet, path string) (*config.Config, error) {
	v := viper.New()
	if err := config.Bind(v); err != nil {
		return nil, err
	}
	if err := config.BindFlags(v, fs); err != nil {
		return nil, err
	}
	if err := config.ReadFile(v, path); err != nil {
		return nil, err
	}
	return config.Load(v)
}
