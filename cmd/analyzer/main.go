package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/uniqueww/daily-stock-analysis-ql/internal/config"
	"github.com/uniqueww/daily-stock-analysis-ql/internal/fetcher"
	"github.com/uniqueww/daily-stock-analysis-ql/internal/notifier"
	"github.com/uniqueww/daily-stock-analysis-ql/internal/recorder"
	"github.com/uniqueww/daily-stock-analysis-ql/internal/scheduler"
)

func main() {
	once := flag.Bool("once", false, "run a single analysis pass and exit")
	flag.Parse()

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if os.Getenv("DEBUG") == "true" {
		log.SetLevel(log.DebugLevel)
	}
	log.Info("daily-stock-analysis 启动...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	for _, w := range cfg.Validate() {
		log.Warn(w)
	}

	// Init data sources
	em := fetcher.NewEastMoneyFetcher(cfg.Proxy)
	if cfg.DataSource.KlineURL != "" {
		em.KlineURL = cfg.DataSource.KlineURL
	}
	if cfg.DataSource.QuoteURL != "" {
		em.QuoteURL = cfg.DataSource.QuoteURL
	}
	if cfg.DataSource.ChipURL != "" {
		em.ChipURL = cfg.DataSource.ChipURL
	}
	em.SleepMin = cfg.DataSource.SleepMinSeconds
	em.SleepMax = cfg.DataSource.SleepMaxSeconds
	manager := fetcher.NewManager(em)

	// Init notifier
	var n notifier.Notifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		n = notifier.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	} else {
		n = notifier.NewNoop()
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warnf("init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.New(ctx, manager, n, rec, cfg)

	if *once {
		sched.RunDaily()
		return
	}

	if err := sched.Register(cfg.Schedule.DailyCron); err != nil {
		log.Fatalf("register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, executing daily task now")
		go sched.RunDaily()
	}

	log.Info("daily-stock-analysis is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping...")
	cancel()
	log.Info("daily-stock-analysis stopped")
}
