package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/graevsky/todo-notify-tg-bot/internal/config"
	"github.com/graevsky/todo-notify-tg-bot/internal/scheduler"
	"github.com/graevsky/todo-notify-tg-bot/internal/settings"
	"github.com/graevsky/todo-notify-tg-bot/internal/store"
	"github.com/graevsky/todo-notify-tg-bot/internal/telegram"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	httpSrv *http.Server
	repo    store.Repo
	router  *telegram.Router
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, bot: bot, httpSrv: srv}, nil
}

// Run opens the store, starts the background loops and processes Telegram
// updates until a shutdown signal arrives.
func (a *App) Run(ctx context.Context) error {
	loc := a.cfg.Location()
	a.log.Info("starting bot",
		zap.String("tz", loc.String()),
		zap.Duration("poll", a.cfg.PollInterval),
		zap.Duration("sweep", a.cfg.SweepPeriod),
		zap.String("http", a.cfg.HTTPAddr),
	)

	var codec store.Codec
	if a.cfg.SecretKey != "" {
		var err error
		codec, err = store.NewAEADCodec(a.cfg.SecretKey)
		if err != nil {
			return fmt.Errorf("field codec: %w", err)
		}
		a.log.Info("field encryption enabled")
	}

	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath, codec)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready", zap.String("path", a.cfg.DBPath))

	settingsSvc := settings.New(repo)
	a.router = telegram.NewRouter(a.bot, a.log, repo, settingsSvc, loc)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Scan loops: independent goroutines, sequential iterations within each.
	reminder := scheduler.NewReminder(repo, a.log, a.router, loc, a.cfg.PollInterval)
	notifier := scheduler.NewNotifier(repo, a.log, a.router, loc, a.cfg.PollInterval)
	go reminder.Run(ctx)
	go notifier.Run(ctx)

	// Retention sweeper runs on its own period under cron.
	sweeper := scheduler.NewSweeper(repo, a.log)
	cr := cron.New(cron.WithLocation(loc))
	if _, err := cr.AddFunc(fmt.Sprintf("@every %s", a.cfg.SweepPeriod), func() {
		sweepCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		sweeper.Sweep(sweepCtx)
	}); err != nil {
		return fmt.Errorf("schedule sweeper: %w", err)
	}
	cr.Start()

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")

			<-cr.Stop().Done()

			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()
			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}
			if a.repo != nil {
				_ = a.repo.Close()
			}
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}
