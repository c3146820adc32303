package provider

import (
	"context"
	"fmt"
	"time"

	"market-pulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoProvider fetches market data and global figures from the
// CoinGecko free API. Both endpoints share one rate limiter.
type CoinGeckoProvider struct {
	client  *Client
	baseURL string
	coinID  string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewCoinGeckoProvider creates a provider for the tracked asset with
// built-in rate limiting (8 requests per minute on the free tier).
func NewCoinGeckoProvider(tracer trace.Tracer, client *Client) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		client:  client,
		baseURL: coingeckoBaseURL,
		coinID:  "bitcoin",
		tracer:  tracer,
		limiter: NewRateLimiter(8, 7500*time.Millisecond),
	}
}

// FetchMarket returns the current price, 24h change, market cap, volume,
// and all-time-high for the tracked asset in a single API call.
func (p *CoinGeckoProvider) FetchMarket(ctx context.Context) (*domain.PricePayload, error) {
	_, span := p.tracer.Start(ctx, "coingecko.fetch-market")
	defer span.End()

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	url := fmt.Sprintf("%s/coins/markets?vs_currency=usd&ids=%s", p.baseURL, p.coinID)

	var raw []struct {
		CurrentPrice float64   `json:"current_price"`
		Change24hPct float64   `json:"price_change_percentage_24h"`
		MarketCap    float64   `json:"market_cap"`
		TotalVolume  float64   `json:"total_volume"`
		ATH          float64   `json:"ath"`
		ATHDate      time.Time `json:"ath_date"`
	}
	if err := p.client.GetJSON(ctx, domain.SourcePrice, url, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, &FetchError{
			Source: domain.SourcePrice,
			Kind:   KindParse,
			Err:    fmt.Errorf("markets response has no rows for %s", p.coinID),
		}
	}

	row := raw[0]
	return &domain.PricePayload{
		PriceUSD:     row.CurrentPrice,
		Change24hPct: row.Change24hPct,
		MarketCapUSD: row.MarketCap,
		Volume24hUSD: row.TotalVolume,
		ATHUSD:       row.ATH,
		ATHDate:      row.ATHDate.UTC(),
	}, nil
}

// FetchGlobal returns BTC dominance and total market cap from /global.
func (p *CoinGeckoProvider) FetchGlobal(ctx context.Context) (*domain.MacroPayload, error) {
	_, span := p.tracer.Start(ctx, "coingecko.fetch-global")
	defer span.End()

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var raw struct {
		Data struct {
			MarketCapPct   map[string]float64 `json:"market_cap_percentage"`
			TotalMarketCap map[string]float64 `json:"total_market_cap"`
		} `json:"data"`
	}
	if err := p.client.GetJSON(ctx, domain.SourceMacro, p.baseURL+"/global", &raw); err != nil {
		return nil, err
	}

	dominance, ok := raw.Data.MarketCapPct["btc"]
	if !ok {
		return nil, &FetchError{
			Source: domain.SourceMacro,
			Kind:   KindParse,
			Err:    fmt.Errorf("global response missing btc dominance"),
		}
	}

	return &domain.MacroPayload{
		BTCDominancePct:   dominance,
		TotalMarketCapUSD: raw.Data.TotalMarketCap["usd"],
	}, nil
}
