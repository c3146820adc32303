// Package pipeline owns the last-good cache and the latest derived
// snapshot. Jobs call the Refresh methods; sinks read immutable
// snapshot copies. Nothing here pushes into a rendering target.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"market-pulse/internal/cache"
	"market-pulse/internal/domain"
	"market-pulse/internal/metrics"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

type PriceSource interface {
	FetchMarket(ctx context.Context) (*domain.PricePayload, error)
}

type SentimentSource interface {
	FetchIndex(ctx context.Context) (*domain.SentimentPayload, error)
}

type StablecoinSource interface {
	FetchSupply(ctx context.Context) (*domain.StablecoinPayload, error)
}

type MacroSource interface {
	FetchGlobal(ctx context.Context) (*domain.MacroPayload, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// Sources bundles the upstream adapters handed to the pipeline.
type Sources struct {
	Price       PriceSource
	Sentiment   SentimentSource
	Stablecoins StablecoinSource
	Macro       MacroSource
}

// Config carries the scoring table, reference constants, and the TTL
// windows that decide per-source freshness in the snapshot.
type Config struct {
	Weights    metrics.Weights
	Thresholds metrics.Thresholds
	Reference  metrics.Reference
	FastTTL    time.Duration
	SlowTTL    time.Duration
}

// Pipeline is constructed once per process and owns all mutable state:
// the cache, the latest snapshot, and the volatility carry-over.
type Pipeline struct {
	tracer  trace.Tracer
	store   *cache.Store
	sources Sources
	redis   RedisClient
	cfg     Config

	mu      sync.RWMutex
	latest  *domain.DerivedSnapshot
	prevVol float64

	updates chan struct{}
	nowFn   func() time.Time
}

func New(tracer trace.Tracer, store *cache.Store, sources Sources, redisClient RedisClient, cfg Config) *Pipeline {
	if cfg.FastTTL <= 0 {
		cfg.FastTTL = 90 * time.Second
	}
	if cfg.SlowTTL <= 0 {
		cfg.SlowTTL = 15 * time.Minute
	}
	return &Pipeline{
		tracer:  tracer,
		store:   store,
		sources: sources,
		redis:   redisClient,
		cfg:     cfg,
		updates: make(chan struct{}, 1),
		nowFn:   time.Now,
	}
}

// RefreshFast fetches the fast-changing sources (price, sentiment) in
// parallel, joins, then recomputes the snapshot. One source failing
// never blocks the other; the recompute always runs best-effort over
// whatever the cache holds.
func (p *Pipeline) RefreshFast(ctx context.Context) error {
	ctx, span := p.tracer.Start(ctx, "pipeline.refresh-fast")
	defer span.End()

	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		pay, err := p.sources.Price.FetchMarket(ctx)
		if err != nil {
			errs[0] = err
			return
		}
		errs[0] = p.ingest(ctx, domain.SourcePayload{Key: domain.SourcePrice, Price: pay})
	}()
	go func() {
		defer wg.Done()
		pay, err := p.sources.Sentiment.FetchIndex(ctx)
		if err != nil {
			errs[1] = err
			return
		}
		errs[1] = p.ingest(ctx, domain.SourcePayload{Key: domain.SourceSentiment, Sentiment: pay})
	}()
	wg.Wait()

	p.recompute(ctx)
	return p.logged("fast", errs)
}

// RefreshSlow fetches the slow-changing sources (stablecoins, macro).
func (p *Pipeline) RefreshSlow(ctx context.Context) error {
	ctx, span := p.tracer.Start(ctx, "pipeline.refresh-slow")
	defer span.End()

	var wg sync.WaitGroup
	errs := make([]error, 2)

	wg.Add(2)
	go func() {
		defer wg.Done()
		pay, err := p.sources.Stablecoins.FetchSupply(ctx)
		if err != nil {
			errs[0] = err
			return
		}
		errs[0] = p.ingest(ctx, domain.SourcePayload{Key: domain.SourceStablecoins, Stable: pay})
	}()
	go func() {
		defer wg.Done()
		pay, err := p.sources.Macro.FetchGlobal(ctx)
		if err != nil {
			errs[1] = err
			return
		}
		errs[1] = p.ingest(ctx, domain.SourcePayload{Key: domain.SourceMacro, Macro: pay})
	}()
	wg.Wait()

	p.recompute(ctx)
	return p.logged("slow", errs)
}

// ingest validates a fetched payload and stores it. A result that
// arrives after its context is done is discarded: a cancelled fetch
// must never overwrite the cache, even if it resolves late.
func (p *Pipeline) ingest(ctx context.Context, payload domain.SourcePayload) error {
	if ctx.Err() != nil {
		log.Printf("discarding late %s result: %v", payload.Key, ctx.Err())
		return ctx.Err()
	}
	if err := Validate(payload); err != nil {
		return err
	}
	now := p.nowFn()
	payload.CapturedAt = now
	p.store.Put(payload.Key, payload, now)
	return nil
}

// recompute rebuilds the snapshot from the current cache entries,
// swaps it in, notifies sinks, and mirrors it to Redis when available.
func (p *Pipeline) recompute(ctx context.Context) {
	_, span := p.tracer.Start(ctx, "pipeline.recompute")
	defer span.End()

	now := p.nowFn()
	entries := p.store.Snapshot()

	in := metrics.Inputs{
		Sources: make(map[domain.SourceKey]domain.SourceStatus, len(entries)),
	}
	for key, e := range entries {
		ttl := p.cfg.SlowTTL
		for _, fast := range domain.FastSources {
			if key == fast {
				ttl = p.cfg.FastTTL
			}
		}
		in.Sources[key] = domain.SourceStatus{
			CapturedAt: e.StoredAt,
			AgeSecs:    e.Age(now).Seconds(),
			Fresh:      e.Age(now) < ttl,
		}
		switch key {
		case domain.SourcePrice:
			in.Price = e.Payload.Price
		case domain.SourceSentiment:
			in.Sentiment = e.Payload.Sentiment
		case domain.SourceStablecoins:
			in.Stable = e.Payload.Stable
		case domain.SourceMacro:
			in.Macro = e.Payload.Macro
		}
	}

	p.mu.Lock()
	in.PrevVolatilityPct = p.prevVol
	snap := metrics.ComputeSnapshot(in, p.cfg.Reference, p.cfg.Weights, p.cfg.Thresholds, now)
	if snap.DailyVolatilityPct != nil {
		p.prevVol = *snap.DailyVolatilityPct
	}
	p.latest = &snap
	p.mu.Unlock()

	select {
	case p.updates <- struct{}{}:
	default:
	}

	p.publish(ctx, snap)
}

func (p *Pipeline) publish(ctx context.Context, snap domain.DerivedSnapshot) {
	if p.redis == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		log.Printf("marshal snapshot for redis: %v", err)
		return
	}
	ttl := 2 * p.cfg.SlowTTL
	if err := p.redis.Set(ctx, cache.SnapshotKey, data, ttl).Err(); err != nil {
		log.Printf("redis snapshot mirror error: %v", err)
	}
}

// Latest returns a copy of the most recent snapshot. The second return
// is false before the first recompute has completed.
func (p *Pipeline) Latest() (domain.DerivedSnapshot, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.latest == nil {
		return domain.DerivedSnapshot{}, false
	}
	return p.latest.CloneSources(), true
}

// Updates signals that a new snapshot exists. The channel is buffered
// and coalescing; sinks poll Latest after a tick.
func (p *Pipeline) Updates() <-chan struct{} {
	return p.updates
}

func (p *Pipeline) logged(tier string, errs []error) error {
	var kept []error
	for _, err := range errs {
		if err != nil {
			log.Printf("refresh %s: %v", tier, err)
			kept = append(kept, err)
		}
	}
	return errors.Join(kept...)
}
