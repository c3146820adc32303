package provider

import (
	"context"
	"fmt"
	"strings"

	"market-pulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const defillamaBaseURL = "https://stablecoins.llama.fi"

// trackedStablecoins get an individual line in the payload; everything
// else only contributes to the total.
var trackedStablecoins = map[string]bool{
	"USDT": true,
	"USDC": true,
	"DAI":  true,
}

// StablecoinProvider fetches circulating USD-pegged supply from the
// DefiLlama stablecoin aggregator.
type StablecoinProvider struct {
	client  *Client
	baseURL string
	tracer  trace.Tracer
}

func NewStablecoinProvider(tracer trace.Tracer, client *Client) *StablecoinProvider {
	return &StablecoinProvider{
		client:  client,
		baseURL: defillamaBaseURL,
		tracer:  tracer,
	}
}

// FetchSupply returns the total circulating supply across issuers plus
// per-asset figures for the tracked majors.
func (p *StablecoinProvider) FetchSupply(ctx context.Context) (*domain.StablecoinPayload, error) {
	_, span := p.tracer.Start(ctx, "stablecoins.fetch-supply")
	defer span.End()

	url := strings.TrimRight(p.baseURL, "/") + "/stablecoins?includePrices=false"

	var raw struct {
		PeggedAssets []struct {
			Symbol      string `json:"symbol"`
			Circulating struct {
				PeggedUSD float64 `json:"peggedUSD"`
			} `json:"circulating"`
		} `json:"peggedAssets"`
	}
	if err := p.client.GetJSON(ctx, domain.SourceStablecoins, url, &raw); err != nil {
		return nil, err
	}
	if len(raw.PeggedAssets) == 0 {
		return nil, &FetchError{
			Source: domain.SourceStablecoins,
			Kind:   KindParse,
			Err:    fmt.Errorf("stablecoin response has no assets"),
		}
	}

	payload := &domain.StablecoinPayload{SupplyByAsset: make(map[string]float64)}
	for _, asset := range raw.PeggedAssets {
		supply := asset.Circulating.PeggedUSD
		payload.TotalSupplyUSD += supply
		if trackedStablecoins[strings.ToUpper(asset.Symbol)] {
			payload.SupplyByAsset[strings.ToUpper(asset.Symbol)] += supply
		}
	}
	return payload, nil
}
