// Package metrics is the pure derived-value engine: it combines the
// latest cached source payloads with fixed reference constants into a
// DerivedSnapshot. No I/O, no mutation; identical inputs produce an
// identical snapshot.
package metrics

import (
	"math"
	"time"

	"market-pulse/internal/domain"
)

// Inputs is the union of the current cache entries, flattened for the
// engine. Nil fields mean the source has never been populated.
type Inputs struct {
	Price     *domain.PricePayload
	Sentiment *domain.SentimentPayload
	Stable    *domain.StablecoinPayload
	Macro     *domain.MacroPayload

	// PrevVolatilityPct carries the EWMA estimate from the prior tick.
	PrevVolatilityPct float64

	Sources map[domain.SourceKey]domain.SourceStatus
}

// ComputeSnapshot recomputes every derived value from the inputs.
// Missing sources contribute the neutral default to the composite
// rather than aborting the computation.
func ComputeSnapshot(in Inputs, ref Reference, w Weights, th Thresholds, now time.Time) domain.DerivedSnapshot {
	snap := domain.DerivedSnapshot{
		ComputedAt: now.UTC(),
		Sources:    in.Sources,
	}
	if snap.Sources == nil {
		snap.Sources = map[domain.SourceKey]domain.SourceStatus{}
	}

	athScore := NeutralScore
	sentScore := NeutralScore
	changeScore := NeutralScore
	domScore := NeutralScore

	if in.Price != nil {
		p := in.Price
		snap.PriceUSD = ptr(p.PriceUSD)
		snap.Change24hPct = ptr(p.Change24hPct)
		snap.MarketCapUSD = ptr(p.MarketCapUSD)
		snap.Volume24hUSD = ptr(p.Volume24hUSD)
		snap.PctFromATH = PercentFrom(ptr(p.PriceUSD), ptr(ref.ATHUSD))

		if snap.PctFromATH != nil {
			// At the reference high the distance score is 100; 100% below it, 0.
			athScore = clamp(100+*snap.PctFromATH, 0, 100)
		}
		changeScore = clamp(50+5*p.Change24hPct, 0, 100)

		vol := NextVolatility(in.PrevVolatilityPct, p.Change24hPct)
		snap.DailyVolatilityPct = ptr(vol)
	} else if in.PrevVolatilityPct > 0 {
		snap.DailyVolatilityPct = ptr(in.PrevVolatilityPct)
	}

	if in.Sentiment != nil {
		snap.SentimentIndex = ptrInt(in.Sentiment.Index)
		sentScore = clamp(float64(in.Sentiment.Index), 0, 100)
	}

	if in.Macro != nil {
		snap.BTCDominancePct = ptr(in.Macro.BTCDominancePct)
		// Falling BTC dominance reads as alt-season exuberance.
		domScore = clamp(50+2*(50-in.Macro.BTCDominancePct), 0, 100)
	}

	if in.Stable != nil {
		snap.StablecoinSupplyUSD = ptr(in.Stable.TotalSupplyUSD)
	}

	composite := w.ATHDistance*athScore +
		w.Sentiment*sentScore +
		w.Change24h*changeScore +
		w.Dominance*domScore
	snap.CompositeScore = int(clamp(math.Round(composite), 0, 100))
	snap.Zone = ZoneFor(snap.CompositeScore, th)

	sentForLabel := int(sentScore)
	snap.SentimentLabel = SentimentLabelFor(sentForLabel)
	snap.Regime = RegimeFor(snap.PctFromATH)

	if !ref.HalvingEpoch.IsZero() && now.After(ref.HalvingEpoch) {
		snap.DaysSinceHalving = int(now.Sub(ref.HalvingEpoch).Hours() / 24)
	}

	return snap
}

func ptr(v float64) *float64 { return &v }

func ptrInt(v int) *int { return &v }
