package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartschedule/src-server/metric"
	"smartschedule/src-server/model"
	"smartschedule/src-server/route"
	"smartschedule/src-server/utils"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
)

func init() {
	if err := godotenv.Load(); err != nil {
		slog.Info(err.Error())
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.RFC1123Z,
		}),
	))
}

func main() {
	as := utils.NewAppState()

	if err := model.CreateSchema(as.BunDB); err != nil {
		slog.Error("can't create database schema", "error", err)
		os.Exit(1)
	}

	go metric.Init(as)

	// housekeeping: expired sessions and abandoned guest buffers
	sweeper := cron.New()
	if _, err := sweeper.AddFunc("@hourly", func() {
		purged, err := model.PurgeExpiredSessions(context.Background(), as.BunDB, as.Config.GetSessionTTL())
		if err != nil {
			slog.Error("can't purge expired sessions", "error", err)
		} else if purged > 0 {
			slog.Info("purged expired sessions", "count", purged)
		}
		if swept := as.SweepGuestBuffers(); swept > 0 {
			slog.Info("swept idle guest buffers", "count", swept)
		}
	}); err != nil {
		slog.Error("can't schedule the session sweeper", "error", err)
		os.Exit(1)
	}
	sweeper.Start()

	// http server
	go func() {
		muxer := http.NewServeMux()
		muxer.Handle("GET /metrics", promhttp.Handler())
		route.Auth(muxer, as)
		route.Calendar(muxer, as)
		route.Ical(muxer, as)
		route.Quick(muxer, as)
		route.SPA(muxer, as)
		if err := http.ListenAndServe(":"+as.Config.GetPort(), muxer); err != nil {
			slog.Error("cannot start HTTP server", "error", err)
			as.AppCloseSignalChan <- syscall.SIGTERM
		}
	}()

	slog.Info("app is now running, press Ctrl+C to exit", "port", as.Config.GetPort())

	signal.Notify(as.AppCloseSignalChan, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-as.AppCloseSignalChan
	sweeper.Stop()
	as.GracefulShutdown()

	slog.Info("Gracefully shutting down...")
}
