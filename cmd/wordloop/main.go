package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"wordloop/internal/autostart"
	"wordloop/internal/bundle"
	"wordloop/internal/config"
	"wordloop/internal/handler"
	"wordloop/internal/middleware"
	"wordloop/internal/notify"
	"wordloop/internal/repository/jsonfile"
	"wordloop/internal/repository/sqlite"
	"wordloop/internal/scheduler"
	"wordloop/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting wordloop")

	// Open settings database
	db, err := sqlite.Open(cfg.DBPath())
	if err != nil {
		logger.Fatal("Failed to open settings database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := sqlite.RunMigrations(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	logger.Info("Settings database ready", zap.String("path", cfg.DBPath()))

	// Initialize repositories and the reference word source
	wordRepo := jsonfile.NewWordRepo(cfg.WordsPath())
	settingsRepo := sqlite.NewSettingsRepo(db)

	source := bundle.Embedded()
	if cfg.WordsFile != "" {
		source = bundle.File(cfg.WordsFile)
		logger.Info("Using external reference file", zap.String("path", cfg.WordsFile))
	}

	// Restore persisted state and merge in the reference list
	manager := service.NewManager(wordRepo, settingsRepo, source, logger)
	manager.Restore()
	manager.Sync()

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	bot.Use(middleware.OwnerOnly(cfg.OwnerID, logger))

	logger.Info("Telegram bot initialized")

	// Wire notifications and the auto-change timer
	notifier := notify.NewTelegram(bot, cfg.OwnerID, logger)

	// A delivery whose timer runs past the end of the day window
	// arrives without sound
	notifier.SetPresentationHandler(func(notify.Notification) notify.Presentation {
		hour := time.Now().Hour()
		return notify.Presentation{
			Banner: true,
			Sound:  hour >= cfg.DayStartHour && hour < cfg.DayEndHour,
		}
	})

	sched := scheduler.New(manager, notifier, cfg.DayStartHour, cfg.DayEndHour, logger)
	manager.AttachScheduler(sched)

	sched.RestartTimer()
	sched.ScheduleNotification(0)

	// Re-sync whenever the external reference file changes
	var watcher *bundle.Watcher
	if cfg.WordsFile != "" {
		watcher, err = bundle.Watch(cfg.WordsFile, manager.Sync, logger)
		if err != nil {
			logger.Warn("Reference file watch unavailable", zap.Error(err))
		}
	}

	// The /quit command closes this channel for a remote shutdown
	quit := make(chan struct{})
	var quitOnce sync.Once
	shutdown := func() {
		quitOnce.Do(func() { close(quit) })
	}

	// Initialize handler
	h := handler.NewHandler(bot, manager, autostart.New("wordloop", logger), shutdown, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully")
		bot.Start()
	}()

	// Wait for interrupt signal or /quit
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logger.Info("Shutdown signal received, stopping bot...")
	case <-quit:
		logger.Info("Quit requested, stopping bot...")
	}

	// Graceful shutdown
	bot.Stop()
	sched.Stop()
	if watcher != nil {
		watcher.Stop()
	}

	logger.Info("Bot stopped gracefully")
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
