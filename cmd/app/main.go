package main

import (
	"github.com/Djatila/studionailart-sub001/internal/appointment"
	"github.com/Djatila/studionailart-sub001/internal/availability"
	"github.com/Djatila/studionailart-sub001/internal/config"
	aptCancel "github.com/Djatila/studionailart-sub001/internal/http-server/handlers/appointments/cancel"
	aptComplete "github.com/Djatila/studionailart-sub001/internal/http-server/handlers/appointments/complete"
	aptConfirm "github.com/Djatila/studionailart-sub001/internal/http-server/handlers/appointments/confirm"
	aptCreate "github.com/Djatila/studionailart-sub001/internal/http-server/handlers/appointments/create"
	aptGet "github.com/Djatila/studionailart-sub001/internal/http-server/handlers/appointments/get"
	aptList "github.com/Djatila/studionailart-sub001/internal/http-server/handlers/appointments/list"
	availCreate "github.com/Djatila/studionailart-sub001/internal/http-server/handlers/availability/create"
	availDelete "github.com/Djatila/studionailart-sub001/internal/http-server/handlers/availability/delete"
	availGet "github.com/Djatila/studionailart-sub001/internal/http-server/handlers/availability/get"
	availToggle "github.com/Djatila/studionailart-sub001/internal/http-server/handlers/availability/toggle"
	designerGet "github.com/Djatila/studionailart-sub001/internal/http-server/handlers/designers/get"
	serviceCreate "github.com/Djatila/studionailart-sub001/internal/http-server/handlers/services/create"
	serviceDelete "github.com/Djatila/studionailart-sub001/internal/http-server/handlers/services/delete"
	serviceGet "github.com/Djatila/studionailart-sub001/internal/http-server/handlers/services/get"
	slotGet "github.com/Djatila/studionailart-sub001/internal/http-server/handlers/slots/get"
	"github.com/Djatila/studionailart-sub001/internal/lock"
	"github.com/Djatila/studionailart-sub001/internal/notify"
	svc "github.com/Djatila/studionailart-sub001/internal/service"
	"github.com/Djatila/studionailart-sub001/internal/storage/localcache"
	"github.com/Djatila/studionailart-sub001/internal/storage/postgres"
	slogpretty "github.com/Djatila/studionailart-sub001/pkg/handlers/slogPretty"
	"github.com/Djatila/studionailart-sub001/pkg/middleware/mwLogger"
	"github.com/Djatila/studionailart-sub001/pkg/sl"

	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {

	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info("Starting API", slog.String("env", cfg.Env))
	log.Debug("Debug messages are enabled")

	storage, err := postgres.New(cfg.StoragePath)
	if err != nil {
		log.Error("Failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	cache := localcache.New(cfg.CachePath)

	locker, err := lock.NewRedisLock(cfg.RedisAddr)
	if err != nil {
		log.Error("Failed to init redis lock", sl.Err(err))
		os.Exit(1)
	}

	blocks := availability.New(storage, cache, log)
	appointments := appointment.New(storage, log)

	notifier := notify.NewSender(cfg.Notify, log)

	service := svc.NewService(storage, blocks, appointments, locker, notifier, log)

	reminder := notify.NewReminder(storage, notifier, log)
	if err := reminder.Start(cfg.Notify.ReminderSpec); err != nil {
		log.Error("Failed to start reminder job", sl.Err(err))
		os.Exit(1)
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(mwLogger.New(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)
	router.Use(CORS)

	// Designers
	router.Get("/designers", designerGet.New(log, service))
	router.Get("/designers/{id}", designerGet.New(log, service))

	// Services
	router.Get("/designers/{id}/services", serviceGet.New(log, service))
	router.Post("/designers/{id}/services", serviceCreate.New(log, service))
	router.Delete("/services/{id}", serviceDelete.New(log, service))

	// Availability
	router.Get("/designers/{id}/availability", availGet.New(log, service))
	router.Post("/designers/{id}/availability", availCreate.New(log, service))
	router.Delete("/availability/{id}", availDelete.New(log, service))
	router.Put("/availability/{id}/toggle", availToggle.New(log, service))

	// Slots
	router.Get("/designers/{id}/slots", slotGet.New(log, service))

	// Appointments
	router.Post("/appointments", aptCreate.New(log, service))
	router.Get("/appointments/{id}", aptGet.New(log, service))
	router.Get("/designers/{id}/appointments", aptList.New(log, service))
	router.Put("/appointments/{id}/cancel", aptCancel.New(log, service))
	router.Put("/appointments/{id}/confirm", aptConfirm.New(log, service))
	router.Put("/appointments/{id}/complete", aptComplete.New(log, service))

	serv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrCh := make(chan error, 1)

	go func() {
		log.Info("Starting HTTP server", slog.String("addr", cfg.Address))
		if err := serv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErrCh:
		if err != nil {
			log.Error("HTTP server stopped unexpectedly", sl.Err(err))
		} else {
			log.Info("HTTP server stopped gracefully")
		}
	}

	shutdownTimeout := cfg.HTTPServer.ShutdownTimeout

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.Info("Shutting down HTTP server", slog.String("timeout", shutdownTimeout.String()))

	if err := serv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", sl.Err(err))
	} else {
		log.Info("Server shutdown complete")
	}

	reminder.Stop()
	log.Info("Reminder job stopped")

	if storage != nil {
		if err := storage.Close(); err != nil {
			log.Error("Failed to close storage", sl.Err(err))
		} else {
			log.Info("Storage closed")
		}
	} else {
		log.Debug("Storage is nil, nothing to close")
	}

	if locker != nil {
		if err := locker.Close(); err != nil {
			log.Error("Failed to close locker", sl.Err(err))
		} else {
			log.Info("Locker closed")
		}
	}

	log.Info("Shutdown finished, server stopped")

}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
