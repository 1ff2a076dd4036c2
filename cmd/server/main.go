package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/couponhub/coupon-marketplace/docs"
	"github.com/couponhub/coupon-marketplace/internal/api"
	"github.com/couponhub/coupon-marketplace/internal/infrastructure/config"
	mongodb "github.com/couponhub/coupon-marketplace/internal/infrastructure/db/mongo"
	redisdb "github.com/couponhub/coupon-marketplace/internal/infrastructure/db/redis"
	"github.com/couponhub/coupon-marketplace/internal/session"
	"github.com/couponhub/coupon-marketplace/internal/sweeper"
	"github.com/couponhub/coupon-marketplace/pkg/logger"
)

// @title        Coupon Marketplace API
// @version      1.0
// @description  Coupon marketplace with company, customer and admin roles.
// @BasePath     /api
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		l := logger.Init(logger.Options{})
		l.Fatal().Err(err).Msg("configuration failed")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongodb index setup failed")
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	registry := session.NewRegistry()

	couponRepo := mongodb.NewCouponRepository(db)
	sweeper.New(registry, couponRepo, sweeper.Options{
		SessionIdleTTL:  cfg.SessionIdleTTL,
		SessionInterval: cfg.SessionSweepInterval,
		CouponInterval:  cfg.CouponSweepInterval,
	}, log).Start(ctx)

	e := api.NewRouter(db, rdb, registry, cfg, log)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
}
