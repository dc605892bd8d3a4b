package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rakhulsr/mini-pos/app/cmd"
	"github.com/Rakhulsr/mini-pos/app/configs"
	"github.com/Rakhulsr/mini-pos/app/models/migrations"
	"github.com/Rakhulsr/mini-pos/app/routes"
	"github.com/Rakhulsr/mini-pos/app/utils/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	env := configs.LoadENV
	log := configs.NewLogger(env.LogLevel, env.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) > 1 {
		if err := cmd.RunCli(ctx, os.Args, env, log); err != nil {
			log.WithError(err).Fatal("command failed")
		}
		return
	}

	db, err := configs.OpenConnection(env, log)
	if err != nil {
		log.WithError(err).Fatal("DB connection failed")
	}
	if err := migrations.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("DB migration failed")
	}
	log.Info("Database connected.")

	keys, err := configs.LoadSessionKeys(env, log)
	if err != nil {
		log.WithError(err).Fatal("session keys")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := routes.NewRouter(routes.Options{
		DB:      db,
		Env:     env,
		Keys:    keys,
		Log:     log,
		Metrics: metrics.New(reg),
	})

	server := &http.Server{
		Addr:              env.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("graceful shutdown failed")
		}
	}()

	log.WithField("addr", server.Addr).Info("Server starting")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server failed")
	}
	log.Info("Server stopped")
}
