package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Windi-Fikriyansyah/taskmarket/internal/auth"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/config"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/db"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/handlers"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/logger"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/realtime"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/repository"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/services/account"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/services/lifecycle"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/services/wallet"
	"github.com/Windi-Fikriyansyah/taskmarket/internal/validator"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Init(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		logger.Fatal("database connect failed", "error", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logger.Fatal("migration failed", "error", err)
	}

	hub := realtime.NewHub()
	go hub.Run(ctx.Done())

	// Without redis, notifications only reach sockets on this instance.
	var notifier realtime.Notifier = realtime.LocalNotifier{Hub: hub}
	rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("redis not reachable, notifications stay local", "addr", cfg.RedisAddr)
	} else {
		notifier = &realtime.RedisNotifier{RDB: rdb}
		go func() {
			if err := realtime.Relay(ctx, rdb, hub); err != nil && !errors.Is(err, context.Canceled) {
				logger.WithError(err).Error("notification relay stopped")
			}
		}()
	}

	store := repository.New(gdb)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTExpiresMin)
	gate := auth.NewGate(tokens, store.Users)
	v := validator.New()
	walletSvc := wallet.NewWalletService(gdb)
	accounts := account.NewService(store, tokens, v)

	app := handlers.NewApp(handlers.Deps{
		Gate:      gate,
		Accounts:  accounts,
		Lifecycle: lifecycle.NewController(store, walletSvc, notifier, v),
		Wallet:    walletSvc,
		Hub:       hub,
		Google: &handlers.GoogleOAuthHandler{
			Accounts:        accounts,
			GoogleClientID:  cfg.GoogleClientID,
			GoogleSecret:    cfg.GoogleSecret,
			GoogleRedirect:  cfg.GoogleRedirect,
			FrontendBaseURL: cfg.FrontendBaseURL,
		},
		CORSOrigins: cfg.CORSOrigins,
	})

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.WithError(err).Error("shutdown")
		}
	}()

	logger.Info("api listening", "port", cfg.AppPort, "env", cfg.AppEnv, "google_sign_in", cfg.GoogleEnabled())
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		logger.Fatal("listen failed", "error", err)
	}
}
