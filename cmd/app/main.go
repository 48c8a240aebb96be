package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ndanilko/taskdeck/internal/config"
	"github.com/ndanilko/taskdeck/internal/handler"
	"github.com/ndanilko/taskdeck/internal/logger"
	"github.com/ndanilko/taskdeck/internal/repo"
	"github.com/ndanilko/taskdeck/internal/service"
	"github.com/ndanilko/taskdeck/internal/worker"
	"github.com/ndanilko/taskdeck/pkg/render"
	"github.com/ndanilko/taskdeck/web"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog := logger.New(cfg.Environment, cfg.LogDir)
	defer zlog.Sync()

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("Failed to connect to Database.", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		zlog.Fatal("Failed to ping the Database.", zap.Error(err))
	}
	zlog.Info("Successfully connected to the Database!")

	rnd, err := render.New(web.FS)
	if err != nil {
		zlog.Fatal("Failed to parse templates.", zap.Error(err))
	}

	taskRepo := repo.NewTaskRepo(pool)
	userRepo := repo.NewUserRepo(pool)
	sessionRepo := repo.NewSessionRepo(pool)

	taskService := service.NewTaskService(taskRepo)
	authService := service.NewAuthService(userRepo, sessionRepo, cfg.SessionTTL)

	taskHandler := handler.NewTaskHandler(taskService, rnd, zlog)
	authHandler := handler.NewAuthHandler(authService, rnd, zlog, cfg.CookieSecure)
	adminHandler := handler.NewAdminHandler(taskService, rnd, zlog)

	r := handler.NewRouter(taskHandler, authHandler, adminHandler, authService, rnd)

	sweeper := worker.NewSweeper(sessionRepo, zlog, cfg.SweepInterval)
	sweeper.Start(context.Background())

	srv := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("Server started at ", zap.String("port", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("Server failed: ", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	zlog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Fatal("Shutdown error: ", zap.Error(err))
	}
	sweeper.Stop()
	zlog.Info("Server stopped successfully!")
}
