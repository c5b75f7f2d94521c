package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cityfood/src/errs"
	"cityfood/src/handlers"
	"cityfood/src/repository"
	"cityfood/src/repository/memstore"
	"cityfood/src/security"
	"cityfood/src/services"
	"cityfood/src/storage"
	"cityfood/src/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML config file")
	seed := flag.Bool("seed", false, "fill an empty store with demo data")
	flag.Parse()

	logger := setupLogger()
	defer logger.Sync()

	cfg := utils.InitConfig(*configPath)
	utils.InitValidator()

	keys, err := security.LoadKeys(cfg.JWT.KeysDir, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)
	if err != nil {
		logger.Fatal("Failed to load JWT keys", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := initStore(ctx, cfg)
	defer store.Close()

	if *seed {
		if err := services.NewSeeder(store, nil).Seed(ctx); err != nil {
			logger.Fatal("Failed to seed the store", zap.Error(err))
		}
	}

	objects, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize image storage", zap.Error(err))
	}
	images := storage.NewImages(objects, cfg.Limits.ImageMaxSide)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CorsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Set-Cookie", "X-Total-Count", "X-Page-Count"},
		AllowCredentials: true,
	}
	if len(cfg.CorsOrigins) == 0 {
		corsConfig.AllowOrigins = []string{"http://localhost:5173"}
	}

	r.Use(gin.Recovery(), cors.New(corsConfig), security.LoggerMiddleware(logger), errs.ErrorHandler(logger))

	if cfg.DisableRateLimits {
		logger.Warn("Rate limits disabled! Is it intentional?")
	} else {
		counter := utils.InitCache(cfg.RedisUrl)
		defer counter.Close()
		r.Use(security.RateLimitMiddleware(keys, counter, cfg.Limits.RequestsPerMinute, time.Minute))
	}

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	if cfg.Storage.Driver == "local" {
		r.Static(cfg.Storage.PublicBaseUrl, cfg.Storage.LocalDir)
	}
	handlers.SetupRoutes(r, handlers.New(store, images, keys, cfg, nil))

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("API is available", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down the API...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("API stopped with an error", zap.Error(err))
	}
}

func initStore(ctx context.Context, cfg *utils.Config) services.Store {
	if cfg.Store == "memory" {
		zap.L().Warn("Using the in-memory store, data is lost on restart")
		return memstore.New()
	}

	store := repository.Init(cfg.DatabaseUrl)
	if err := store.Migrate(ctx); err != nil {
		zap.L().Fatal("Failed to apply the database schema", zap.Error(err))
	}
	return store
}

func setupLogger() *zap.Logger {
	// json file logger with rotation
	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   "./logs/api.json",
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     7, // in days
	})
	fileEncoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	encodeCfg := zap.NewDevelopmentEncoderConfig()
	encodeCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encodeCfg.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(t.Format("2006/01/02 15:04:05"))
	}

	consoleEncoder := zapcore.NewConsoleEncoder(encodeCfg)
	consoleWriter := zapcore.AddSync(os.Stdout)

	level := zap.InfoLevel
	core := zapcore.NewTee(
		zapcore.NewCore(consoleEncoder, consoleWriter, level),
		zapcore.NewCore(fileEncoder, fileWriter, level),
	)

	logger := zap.New(core)
	zap.ReplaceGlobals(logger)
	return logger
}
