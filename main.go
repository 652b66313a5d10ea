package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cybermitra/guardian-api/api/handlers"
	"github.com/cybermitra/guardian-api/api/scheduler"
	"github.com/cybermitra/guardian-api/config"
	"github.com/cybermitra/guardian-api/databases"
)

const shutdownTimeout = 15 * time.Second

func main() {
	a := handlers.App{}
	a.Config = *config.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// initialize database and router
	if err := a.Initialize(ctx); err != nil {
		zap.S().Fatalw("failed to initialize guardian-api", "error", err)
	}

	s := a.Services
	jobs := scheduler.NewScheduler(
		s.Cases,
		s.Users,
		s.Subcollections,
		s.Resets,
		s.Mailer,
		databases.NewSchedulerLockDatabase(a.Database()),
		a.Config.StaleCaseDays,
		a.Config.PublicWebBaseURL,
	)
	jobs.Start()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", a.Config.Port),
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zap.S().Infow("guardian-api is up and running",
			"port", a.Config.Port,
			"url", a.Config.BaseURL,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.S().Fatalw("server stopped", "error", err)
		}
	}()

	<-ctx.Done()
	zap.S().Info("shutting down guardian-api")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.S().Warnw("failed to shut down http server cleanly", "error", err)
	}
	jobs.Stop()
	if err := a.Close(shutdownCtx); err != nil {
		zap.S().Warnw("failed to close connections", "error", err)
	}
}
