package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"faceattend/internal/attendance"
	"faceattend/internal/config"
	"faceattend/internal/console"
	"faceattend/internal/faceclient"
	"faceattend/internal/httpmiddleware"
	"faceattend/internal/notice"
	"faceattend/internal/store"
)

func main() {
	cfg := config.Load()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var bus notice.Bus
	var redisClient *store.Redis
	if cfg.RedisNotices() {
		redisClient = store.NewRedis(cfg.RedisAddr)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx); err != nil {
			log.Printf("warning: redis not reachable: %v", err)
		}
		bus = notice.NewRedis(redisClient.Client, cfg.NoticeKey, cfg.NoticeBuffer)
	} else {
		bus = notice.NewInMemory(cfg.NoticeBuffer)
	}

	face := faceclient.New(cfg.BackendURL, cfg.BackendTimeout)
	log.Printf("face backend: %s", face.BaseURL)
	if err := face.Health(ctx); err != nil {
		log.Printf("warning: face backend not available: %v", err)
	}

	ctrl := attendance.NewController(face, bus)

	hub := console.NewHub()
	live, err := bus.Consume(ctx)
	if err != nil {
		return err
	}
	go hub.Run(ctx, live)

	go func() {
		if err := ctrl.Mount(ctx); err != nil {
			log.Printf("initial load incomplete: %v", err)
		}
	}()

	r := console.NewRouter(console.Deps{
		Controller:  ctrl,
		Hub:         hub,
		Backend:     face,
		Redis:       redisClient,
		Limiter:     httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin),
		CORSOrigins: cfg.CORSOrigins,
	})

	// WriteTimeout stays unset: /api/notices is a long-lived stream and
	// workflow calls wait on the backend without a deadline of their own.
	srv := &http.Server{
		Addr:        ":" + cfg.HTTPPort,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("console listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down console...")

	// ends the notice stream so open SSE responses return
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced shutdown: %v", err)
	}

	log.Println("console exited")
	return nil
}
