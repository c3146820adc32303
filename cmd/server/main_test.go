package main

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"market-pulse/internal/bot"
	"market-pulse/internal/config"
	"market-pulse/internal/domain"
	"market-pulse/internal/job"
	"market-pulse/internal/pipeline"
	"market-pulse/internal/provider"

	"github.com/gin-gonic/gin"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

type stubPriceSource struct{}

func (stubPriceSource) FetchMarket(ctx context.Context) (*domain.PricePayload, error) {
	return &domain.PricePayload{PriceUSD: 50_000}, nil
}

type stubSentimentSource struct{}

func (stubSentimentSource) FetchIndex(ctx context.Context) (*domain.SentimentPayload, error) {
	return &domain.SentimentPayload{Index: 50}, nil
}

type stubStablecoinSource struct{}

func (stubStablecoinSource) FetchSupply(ctx context.Context) (*domain.StablecoinPayload, error) {
	return &domain.StablecoinPayload{TotalSupplyUSD: 1}, nil
}

type stubMacroSource struct{}

func (stubMacroSource) FetchGlobal(ctx context.Context) (*domain.MacroPayload, error) {
	return &domain.MacroPayload{BTCDominancePct: 50}, nil
}

func TestMainBootstrap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	restore := stubServerDeps()
	defer restore()

	done := make(chan struct{})
	go func() {
		main()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("main did not exit")
	}
}

func stubServerDeps() func() {
	origLoadEnv := loadEnvFunc
	origLoadConfig := loadConfigFunc
	origInitRedis := initRedisFunc
	origInitTracer := initTracerFunc
	origNewSources := newSourcesFunc
	origStartScheduler := startSchedulerFunc
	origStartTelegram := startTelegramBotFunc
	origNewRouter := newRouterFunc
	origSetupSignal := setupSignalNotify
	origWait := waitForSignalFunc
	origStartHTTP := startHTTPServerFunc
	origShutdownHTTP := shutdownHTTPServerFunc

	loadEnvFunc = func(...string) error { return nil }
	loadConfigFunc = func() *config.Config {
		cfg := &config.Config{}
		*cfg = *config.Load()
		cfg.RedisURL = ""
		cfg.TelegramBotToken = ""
		cfg.FastPollSecs = 1
		cfg.SlowPollSecs = 1
		return cfg
	}
	initRedisFunc = func(context.Context) {}
	initTracerFunc = func(ctx context.Context) (*sdktrace.TracerProvider, trace.Tracer, error) {
		tp := sdktrace.NewTracerProvider()
		return tp, tp.Tracer("test"), nil
	}
	newSourcesFunc = func(trace.Tracer, *provider.Client) pipeline.Sources {
		return pipeline.Sources{
			Price:       stubPriceSource{},
			Sentiment:   stubSentimentSource{},
			Stablecoins: stubStablecoinSource{},
			Macro:       stubMacroSource{},
		}
	}
	startSchedulerFunc = func(*job.Scheduler, context.Context, []job.Handler) error { return nil }
	startTelegramBotFunc = func(bot.SnapshotSource) {}
	newRouterFunc = func(...gin.OptionFunc) *gin.Engine { return gin.New() }
	setupSignalNotify = func(c chan<- os.Signal, sig ...os.Signal) {}
	waitForSignalFunc = func(<-chan os.Signal) {}
	startHTTPServerFunc = func(*http.Server) error { return http.ErrServerClosed }
	shutdownHTTPServerFunc = func(*http.Server, context.Context) error { return nil }

	return func() {
		loadEnvFunc = origLoadEnv
		loadConfigFunc = origLoadConfig
		initRedisFunc = origInitRedis
		initTracerFunc = origInitTracer
		newSourcesFunc = origNewSources
		startSchedulerFunc = origStartScheduler
		startTelegramBotFunc = origStartTelegram
		newRouterFunc = origNewRouter
		setupSignalNotify = origSetupSignal
		waitForSignalFunc = origWait
		startHTTPServerFunc = origStartHTTP
		shutdownHTTPServerFunc = origShutdownHTTP
	}
}
