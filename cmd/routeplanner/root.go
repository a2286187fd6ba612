package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/pdrpinto/routeplanner"
	"github.com/pdrpinto/routeplanner/internal/config"
	"github.com/pdrpinto/routeplanner/roadmodel"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath    string
	mapPath       string
	relaxation    string
	maxExpansions int
	logLevel      string
	logFormat     string
	metricsAddr   string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "routeplanner",
		Short: "Shortest routes on a road map with A*",
		Long: `Find shortest routes between two points of a road map.

Maps are YAML files listing nodes (id, x, y in metres) and roads (ordered
node ids). Points are given as percentages of the map's bounding box.

Examples:
  routeplanner route --map city.yaml --start 10,10 --end 90,90
  routeplanner batch --config routeplanner.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Path to a YAML config file")
	pf.StringVar(&flags.mapPath, "map", "", "Path to a YAML map file (overrides config)")
	pf.StringVar(&flags.relaxation, "relaxation", "", "Relaxation policy: overwrite or improving")
	pf.IntVar(&flags.maxExpansions, "max-expansions", 0, "Stop a search after this many expansions (0 = unlimited)")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format: text or json")
	pf.StringVar(&flags.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while running")

	rootCmd.AddCommand(newRouteCmd(flags), newBatchCmd(flags))
	return rootCmd
}

// resolveConfig loads the config file, if any, and applies flag overrides.
func resolveConfig(cmd *cobra.Command, flags *globalFlags) (config.Config, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("map") {
		cfg.Map = flags.mapPath
	}
	if changed("relaxation") {
		cfg.Relaxation = flags.relaxation
	}
	if changed("max-expansions") {
		cfg.MaxExpansions = flags.maxExpansions
	}
	if changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if changed("log-format") {
		cfg.Log.Format = flags.logFormat
	}
	if changed("metrics-addr") {
		cfg.Metrics.Addr = flags.metricsAddr
	}
	if changed("workers") {
		workers, err := cmd.Flags().GetInt("workers")
		if err != nil {
			return cfg, err
		}
		cfg.Workers = workers
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// runtimeEnv is everything a subcommand needs after config resolution.
type runtimeEnv struct {
	cfg     config.Config
	logger  *slog.Logger
	model   *roadmodel.Model
	options []routeplanner.Option
	stop    func()
}

func setup(cmd *cobra.Command, flags *globalFlags) (*runtimeEnv, error) {
	cfg, err := resolveConfig(cmd, flags)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg.Log)

	model, err := roadmodel.Load(cfg.Map)
	if err != nil {
		return nil, err
	}
	logger.Info("map loaded", "path", cfg.Map, "nodes", len(model.Nodes()), "roads", len(model.Roads()))

	options, err := cfg.PlannerOptions()
	if err != nil {
		return nil, err
	}
	options = append(options, routeplanner.WithLogger(logger))

	env := &runtimeEnv{cfg: cfg, logger: logger, model: model, stop: func() {}}
	if cfg.Metrics.Addr != "" {
		registry := prometheus.NewRegistry()
		options = append(options, routeplanner.WithMetrics(routeplanner.NewMetrics(registry)))
		_, stop, err := serveMetrics(cfg.Metrics.Addr, registry, logger)
		if err != nil {
			return nil, err
		}
		env.stop = stop
	}
	env.options = options
	return env, nil
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	handlerOptions := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOptions))
	}
	return slog.New(slog.NewTextHandler(w, handlerOptions))
}

// serveMetrics exposes registry on /metrics and returns the bound address
// and a shutdown func.
func serveMetrics(addr string, registry *prometheus.Registry, logger *slog.Logger) (string, func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("listen metrics %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	bound := ln.Addr().String()
	logger.Info("serving metrics", "addr", bound)

	return bound, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

// parsePoint parses "x,y" percentages.
func parsePoint(s string) (x, y float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("point %q: want x,y", s)
	}
	x, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("point %q: %w", s, err)
	}
	y, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("point %q: %w", s, err)
	}
	if x < 0 || x > 100 || y < 0 || y > 100 {
		return 0, 0, fmt.Errorf("point %q: coordinates must be within 0-100", s)
	}
	return x, y, nil
}
