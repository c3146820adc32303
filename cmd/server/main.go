package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"market-pulse/internal/bot"
	"market-pulse/internal/cache"
	"market-pulse/internal/config"
	"market-pulse/internal/handler"
	"market-pulse/internal/job"
	"market-pulse/internal/pipeline"
	"market-pulse/internal/provider"
	"market-pulse/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "market-pulse/docs"
)

var (
	loadEnvFunc    = godotenv.Load
	loadConfigFunc = config.Load
	initRedisFunc  = cache.InitRedis
	initTracerFunc = tracing.InitTracer
	newSourcesFunc = func(tracer trace.Tracer, client *provider.Client) pipeline.Sources {
		coingecko := provider.NewCoinGeckoProvider(tracer, client)
		return pipeline.Sources{
			Price:       coingecko,
			Macro:       coingecko,
			Sentiment:   provider.NewFearGreedProvider(tracer, client),
			Stablecoins: provider.NewStablecoinProvider(tracer, client),
		}
	}
	startSchedulerFunc = func(s *job.Scheduler, ctx context.Context, handlers []job.Handler) error {
		return s.Start(ctx, handlers)
	}
	startTelegramBotFunc   = bot.StartTelegramBot
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Market Pulse API
// @version         1.0
// @description     A crypto market-cycle gauge with a polled snapshot API.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	os.Setenv("REDIS_URL", cfg.RedisURL)
	initRedisFunc(ctx)

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Upstream adapters share one retrying fetch client.
	fetchClient := provider.NewClient(
		time.Duration(cfg.FetchTimeoutSecs)*time.Second,
		cfg.FetchMaxRetries,
	)
	sources := newSourcesFunc(tracer, fetchClient)

	var redisClient pipeline.RedisClient
	if cache.Client != nil {
		redisClient = cache.Client
	}

	pl := pipeline.New(tracer, cache.NewStore(), sources, redisClient, pipeline.Config{
		Weights:    cfg.Weights,
		Thresholds: cfg.Thresholds,
		Reference:  cfg.Reference(),
		FastTTL:    time.Duration(cfg.FastTTLSecs) * time.Second,
		SlowTTL:    time.Duration(cfg.SlowTTLSecs) * time.Second,
	})

	scheduler := job.NewScheduler()
	err = startSchedulerFunc(scheduler, ctx, []job.Handler{
		{
			Key:      "fast",
			Interval: time.Duration(cfg.FastPollSecs) * time.Second,
			Run:      pl.RefreshFast,
		},
		{
			Key:      "slow",
			Interval: time.Duration(cfg.SlowPollSecs) * time.Second,
			Run:      pl.RefreshSlow,
		},
	})
	if err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}

	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBotFunc(pl)

	h := handler.New(tracer, pl)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("market-pulse"))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	scheduler.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
