package pipeline

import (
	"errors"
	"math"
	"testing"

	"market-pulse/internal/domain"
	"market-pulse/internal/provider"
)

func TestValidatePrice(t *testing.T) {
	ok := domain.SourcePayload{Key: domain.SourcePrice, Price: &domain.PricePayload{PriceUSD: 62_000, ATHUSD: 126_270}}
	if err := Validate(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rejects := []*domain.PricePayload{
		nil,
		{PriceUSD: 0},
		{PriceUSD: -5},
		{PriceUSD: math.NaN()},
		{PriceUSD: 62_000, Change24hPct: math.Inf(1)},
		{PriceUSD: 62_000, ATHUSD: -1},
	}
	for i, p := range rejects {
		err := Validate(domain.SourcePayload{Key: domain.SourcePrice, Price: p})
		if err == nil {
			t.Fatalf("case %d: expected rejection for %+v", i, p)
		}
		var fe *provider.FetchError
		if !errors.As(err, &fe) || fe.Kind != provider.KindValidation {
			t.Fatalf("case %d: expected validation kind, got %v", i, err)
		}
	}
}

func TestValidateSentiment(t *testing.T) {
	for _, index := range []int{0, 50, 100} {
		p := domain.SourcePayload{Key: domain.SourceSentiment, Sentiment: &domain.SentimentPayload{Index: index}}
		if err := Validate(p); err != nil {
			t.Fatalf("index %d: unexpected error: %v", index, err)
		}
	}
	for _, index := range []int{-1, 101} {
		p := domain.SourcePayload{Key: domain.SourceSentiment, Sentiment: &domain.SentimentPayload{Index: index}}
		if err := Validate(p); err == nil {
			t.Fatalf("index %d: expected rejection", index)
		}
	}
}

func TestValidateStablecoins(t *testing.T) {
	ok := domain.SourcePayload{Key: domain.SourceStablecoins, Stable: &domain.StablecoinPayload{
		TotalSupplyUSD: 2.4e11,
		SupplyByAsset:  map[string]float64{"USDT": 1.2e11},
	}}
	if err := Validate(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := domain.SourcePayload{Key: domain.SourceStablecoins, Stable: &domain.StablecoinPayload{
		TotalSupplyUSD: 2.4e11,
		SupplyByAsset:  map[string]float64{"USDT": -3},
	}}
	if err := Validate(bad); err == nil {
		t.Fatal("expected rejection for negative per-asset supply")
	}
}

func TestValidateMacro(t *testing.T) {
	ok := domain.SourcePayload{Key: domain.SourceMacro, Macro: &domain.MacroPayload{BTCDominancePct: 54}}
	if err := Validate(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := domain.SourcePayload{Key: domain.SourceMacro, Macro: &domain.MacroPayload{BTCDominancePct: 140}}
	if err := Validate(bad); err == nil {
		t.Fatal("expected rejection for dominance over 100")
	}
}

func TestValidateUnknownKeyIsPermissive(t *testing.T) {
	if err := Validate(domain.SourcePayload{Key: "etf_flows"}); err != nil {
		t.Fatalf("unknown keys must validate, got %v", err)
	}
}
