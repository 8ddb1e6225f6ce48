package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/MeninoFranca/metrify-reminders/internal/config"
	"github.com/MeninoFranca/metrify-reminders/internal/scheduler"
	"github.com/MeninoFranca/metrify-reminders/internal/store"
)

// logSink renders fired reminders as structured log events. The embedding
// application replaces this with its real display channel.
type logSink struct{ log *zap.Logger }

func (s logSink) Show(title, description string) {
	s.log.Info("reminder fired",
		zap.String("title", title),
		zap.String("description", description),
	)
}

// App wires the store, the scheduler engine and the health endpoint for one
// owner session.
type App struct {
	cfg     config.Config
	log     *zap.Logger
	httpSrv *http.Server
	repo    store.Repo
	engine  *scheduler.Engine
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, httpSrv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting reminder engine",
		zap.String("owner", a.cfg.OwnerID),
		zap.Duration("tick", a.cfg.TickInterval),
		zap.String("http", a.cfg.HTTPAddr),
	)

	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready")

	a.engine = scheduler.New(a.repo, a.log, logSink{log: a.log}, a.cfg.OwnerID, a.cfg.TickInterval)
	if err := a.engine.Start(ctx); err != nil {
		a.log.Error("session load failed", zap.Error(err))
		_ = a.repo.Close()
		return err
	}

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.engine.Run(ctx)

	a.log.Info("shutdown signal received")

	// Create a short-lived shutdown context and cancel it immediately after use.
	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = a.httpSrv.Shutdown(shCtx)
	cancel()

	if err != nil {
		a.log.Warn("http server shutdown error", zap.Error(err))
	}
	if a.repo != nil {
		_ = a.repo.Close()
	}
	return nil
}
