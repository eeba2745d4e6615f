package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"kit-inventory/config"
	"kit-inventory/database"
	authapi "kit-inventory/internal/api/auth"
	routes "kit-inventory/internal/app/http"
	"kit-inventory/internal/auth"
	steamclient "kit-inventory/internal/infra/steam"
	"kit-inventory/internal/logger"
	"kit-inventory/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger.Init(cfg.LogLevel)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		logrus.WithError(err).Fatal("failed to migrate database")
	}
	logrus.WithField("driver", cfg.DBDriver).Info("connected to database")

	var priceCache steamclient.PriceCache = steamclient.NewMemoryCache(cfg.SteamCacheTTL)
	if cfg.RedisAddr != "" {
		rdb := steamclient.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer rdb.Close()
		priceCache = steamclient.NewRedisCache(rdb, cfg.SteamCacheTTL)
		logrus.WithField("addr", cfg.RedisAddr).Info("caching steam prices in redis")
	}

	r := gin.New()
	r.Use(gin.Recovery(), logger.Middleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.CORSOrigin, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: cfg.CORSOrigin != "*",
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		Store:   store.New(db, store.WithTimeout(cfg.DBTimeout)),
		Issuer:  auth.NewIssuer(cfg.JWTSecret, cfg.TokenLifetime),
		Prices:  steamclient.NewClient(steamclient.Config{
			BaseURL:  cfg.SteamAPIURL,
			Country:  cfg.SteamCountry,
			Language: cfg.SteamLanguage,
		}, priceCache),
		Google:  authapi.NewGoogleConfig(cfg),
		I18nDir: cfg.I18nDir,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.WithField("port", cfg.Port).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("graceful shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
