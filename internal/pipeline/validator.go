package pipeline

import (
	"fmt"
	"math"

	"market-pulse/internal/domain"
	"market-pulse/internal/provider"
)

// Validate gates whether a fresh payload may replace the cached entry.
// It rejects well-formed but semantically implausible responses so a
// malformed upstream cannot corrupt the last-good cache. Unknown keys
// pass: the validator protects known shapes, and rejecting an unknown
// key would silently starve its cache slot.
func Validate(p domain.SourcePayload) error {
	switch p.Key {
	case domain.SourcePrice:
		return validatePrice(p.Price)
	case domain.SourceSentiment:
		return validateSentiment(p.Sentiment)
	case domain.SourceStablecoins:
		return validateStablecoins(p.Stable)
	case domain.SourceMacro:
		return validateMacro(p.Macro)
	default:
		return nil
	}
}

func validatePrice(p *domain.PricePayload) error {
	if p == nil {
		return invalid(domain.SourcePrice, "missing price payload")
	}
	if !finite(p.PriceUSD) || p.PriceUSD <= 0 {
		return invalid(domain.SourcePrice, "price must be a positive number, got %v", p.PriceUSD)
	}
	if !finite(p.Change24hPct) {
		return invalid(domain.SourcePrice, "24h change is not finite")
	}
	if p.ATHUSD != 0 && (!finite(p.ATHUSD) || p.ATHUSD <= 0) {
		return invalid(domain.SourcePrice, "all-time-high must be positive when set, got %v", p.ATHUSD)
	}
	return nil
}

func validateSentiment(p *domain.SentimentPayload) error {
	if p == nil {
		return invalid(domain.SourceSentiment, "missing sentiment payload")
	}
	if p.Index < 0 || p.Index > 100 {
		return invalid(domain.SourceSentiment, "index must be in [0,100], got %d", p.Index)
	}
	return nil
}

func validateStablecoins(p *domain.StablecoinPayload) error {
	if p == nil {
		return invalid(domain.SourceStablecoins, "missing stablecoin payload")
	}
	if !finite(p.TotalSupplyUSD) || p.TotalSupplyUSD < 0 {
		return invalid(domain.SourceStablecoins, "total supply must be non-negative, got %v", p.TotalSupplyUSD)
	}
	for asset, supply := range p.SupplyByAsset {
		if !finite(supply) || supply < 0 {
			return invalid(domain.SourceStablecoins, "supply for %s must be non-negative, got %v", asset, supply)
		}
	}
	return nil
}

func validateMacro(p *domain.MacroPayload) error {
	if p == nil {
		return invalid(domain.SourceMacro, "missing macro payload")
	}
	if !finite(p.BTCDominancePct) || p.BTCDominancePct <= 0 || p.BTCDominancePct > 100 {
		return invalid(domain.SourceMacro, "dominance must be in (0,100], got %v", p.BTCDominancePct)
	}
	return nil
}

func invalid(key domain.SourceKey, format string, args ...any) error {
	return &provider.FetchError{
		Source: key,
		Kind:   provider.KindValidation,
		Err:    fmt.Errorf(format, args...),
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
