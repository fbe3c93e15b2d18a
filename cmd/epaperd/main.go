// cmd/epaperd/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/epaperd/epaperd/internal/config"
	"github.com/epaperd/epaperd/internal/fleet"
	"github.com/epaperd/epaperd/internal/httpapi"
	"github.com/epaperd/epaperd/internal/plugin"
	"github.com/epaperd/epaperd/internal/probe"
	"github.com/epaperd/epaperd/internal/scheduler"
	"github.com/epaperd/epaperd/internal/tracker"
	"github.com/epaperd/epaperd/internal/transport"
)

// Build variables - set by ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	var configPath string
	var showVersion bool

	flag.StringVar(&configPath, "config", "", "fleet config file (default config.yml)")
	flag.BoolVar(&showVersion, "version", false, "print version information")
	flag.Parse()

	if showVersion {
		fmt.Printf("epaperd - E-ink Display Fleet Server\n")
		fmt.Printf("  Version: %s\n", version)
		fmt.Printf("  Commit:  %s\n", commit)
		return
	}

	if err := run(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env returns process-level overrides: EPAPERD_CONFIG, EPAPERD_LISTEN,
// EPAPERD_LOG_LEVEL. Flags beat env, env beats the config file.
func env() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("EPAPERD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetDefault("config", "config.yml")
	v.SetDefault("listen", "")
	v.SetDefault("log-level", "")
	return v
}

func run(configPath string) error {
	v := env()
	if configPath == "" {
		configPath = v.GetString("config")
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	config.Normalize(cfg)

	if s := v.GetString("listen"); s != "" {
		cfg.Server.Listen = s
	}
	if s := v.GetString("log-level"); s != "" {
		cfg.Server.Log.Level = s
	}

	level, err := zerolog.ParseLevel(cfg.Server.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Server.Log.Level, err)
	}
	zerolog.TimeFieldFormat = time.RFC3339
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	if cfg.Server.OutputDir != "" {
		if err := os.MkdirAll(cfg.Server.OutputDir, 0o755); err != nil {
			return fmt.Errorf("output dir: %w", err)
		}
	}

	// --------------------
	// Build the pipeline
	// --------------------

	reg, err := fleet.NewRegistry(cfg.FleetDisplays())
	if err != nil {
		return err
	}
	for _, d := range reg.All() {
		log.Info().Stringer("display", d).Msg("registered display")
	}

	trk := tracker.New(reg)

	sender := transport.NewSender(trk, log,
		transport.WithTimeout(cfg.Server.SendTimeoutDuration()))

	prober := probe.New(reg, log,
		probe.WithTimeout(cfg.Server.ProbeTimeoutDuration()))

	plugins, err := plugin.NewRegistry(cfg.Plugins, plugin.Deps{
		Status:  prober,
		History: trk,
		Log:     log,
	})
	if err != nil {
		return err
	}

	runners, err := scheduler.BuildRunners(cfg, reg, plugins, sender, log)
	if err != nil {
		return err
	}

	api := httpapi.NewServer(cfg.Server.Listen, reg, trk, prober)
	if err := api.Start(); err != nil {
		return fmt.Errorf("status api: %w", err)
	}
	log.Info().Str("addr", cfg.Server.Listen).Msg("status api listening")

	// --------------------
	// Run until signaled
	// --------------------

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	for _, r := range runners {
		g.Go(func() error {
			r.Run(ctx)
			return nil
		})
	}

	log.Info().
		Int("displays", reg.Len()).
		Int("runners", len(runners)).
		Str("version", version).
		Msg("epaperd running")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	if err := api.Stop(); err != nil {
		log.Warn().Err(err).Msg("status api shutdown")
	}
	return g.Wait()
}
