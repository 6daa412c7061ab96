package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"plancal/internal/availability"
	"plancal/internal/capacity"
	"plancal/internal/config"
	"plancal/internal/ics"
	appLog "plancal/internal/log"
	"plancal/internal/web"
)

const defaultCacheDir = "/var/lib/plancal/feed-cache"

type flagConfig struct {
	configPath string
	listen     string
	cacheDir   string
	once       bool
}

func main() {
	appLog.Info("plancal starting", "version", "0.1.0")

	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"refresh", conf.RefreshCron,
		"horizon_days", conf.HorizonDays,
		"goal_count", len(conf.Goals),
		"event_count", len(conf.Events),
		"feed_count", len(conf.Feeds),
		"once", flags.once,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if flags.once {
		runOnce(ctx, conf, flags.cacheDir)
		return
	}

	// Keep the feed cache warm on the configured cron schedule so API
	// requests mostly hit 304s and the disk cache.
	c := cron.New()
	if _, err := c.AddFunc(conf.RefreshCron, func() {
		refreshFeeds(ctx, conf, flags.cacheDir)
	}); err != nil {
		appLog.Error("invalid refresh cron expression", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	refreshFeeds(ctx, conf, flags.cacheDir)

	go func() {
		if err := web.StartServer(ctx, conf, flags.cacheDir); err != nil {
			appLog.Error("HTTP server exited", err)
			cancel()
		}
	}()

	<-ctx.Done()
	time.Sleep(100 * time.Millisecond)
	appLog.Info("plancal exiting")
}

// runOnce prints a single availability/capacity evaluation and refreshes
// feeds, then exits. Useful for cron-driven or scripted use.
func runOnce(ctx context.Context, conf *config.Config, cacheDir string) {
	weekly := availability.ComputeWeekly(conf.Constraints)
	report := capacity.Evaluate(conf.Goals, weekly)

	appLog.Info("weekly availability",
		"default_minutes", weekly.DefaultMinutes,
		"week_a_minutes", weekly.WeekAMinutes,
		"week_b_minutes", weekly.WeekBMinutes,
		"uses_patterns", weekly.UsesPatterns,
	)
	appLog.Info("capacity report",
		"capacity_minutes", report.CapacityMinutes,
		"required_minutes", report.RequiredMinutes,
		"over_capacity", report.OverCapacity,
		"status", report.Status,
	)

	refreshFeeds(ctx, conf, cacheDir)
}

func refreshFeeds(ctx context.Context, conf *config.Config, cacheDir string) {
	if len(conf.Feeds) == 0 {
		return
	}

	sources := make([]ics.Source, 0, len(conf.Feeds))
	for _, f := range conf.Feeds {
		if f.URL == "" {
			continue
		}
		id := f.ID
		if id == "" {
			id = f.Name
		}
		sources = append(sources, ics.Source{ID: id, URL: f.URL})
	}

	fetcher := ics.NewFetcher(cacheDir)
	results, errs := fetcher.FetchAll(ctx, sources)
	appLog.Info("feed refresh completed", "fetched", len(results), "errors", len(errs))
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/plancal/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.cacheDir, "cache-dir", defaultCacheDir, "Directory for the feed disk cache")
	flag.BoolVar(&cfg.once, "once", false, "Evaluate availability and capacity once, refresh feeds, and exit")

	flag.Parse()

	return cfg
}
