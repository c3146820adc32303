package metrics

import (
	"fmt"
	"math"
	"time"
)

// NeutralScore is substituted for any sub-score whose source has never
// been cached, so partial data still produces a best-effort snapshot.
const NeutralScore = 50.0

// ewmaLambda is the decay factor of the RiskMetrics-style volatility
// estimate carried across ticks.
const ewmaLambda = 0.94

// Weights is the composite scoring table. The four components must sum
// to 1.0; each sub-score is clamped to [0,100] before weighting.
type Weights struct {
	ATHDistance float64 `yaml:"ath_distance"`
	Sentiment   float64 `yaml:"sentiment"`
	Change24h   float64 `yaml:"change_24h"`
	Dominance   float64 `yaml:"dominance"`
}

func DefaultWeights() Weights {
	return Weights{ATHDistance: 0.35, Sentiment: 0.30, Change24h: 0.20, Dominance: 0.15}
}

func (w Weights) Sum() float64 {
	return w.ATHDistance + w.Sentiment + w.Change24h + w.Dominance
}

func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"ath_distance": w.ATHDistance,
		"sentiment":    w.Sentiment,
		"change_24h":   w.Change24h,
		"dominance":    w.Dominance,
	} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("weight %s out of range: %v", name, v)
		}
	}
	if math.Abs(w.Sum()-1.0) > 1e-9 {
		return fmt.Errorf("weights must sum to 1.0, got %v", w.Sum())
	}
	return nil
}

// Thresholds are the zone boundaries on the composite score.
type Thresholds struct {
	Accumulation int `yaml:"accumulation"`
	Overheated   int `yaml:"overheated"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{Accumulation: 30, Overheated: 70}
}

func (t Thresholds) Validate() error {
	if t.Accumulation < 0 || t.Overheated > 100 || t.Accumulation >= t.Overheated {
		return fmt.Errorf("invalid zone thresholds: %d/%d", t.Accumulation, t.Overheated)
	}
	return nil
}

// Reference holds the fixed reference constants supplied by configuration.
type Reference struct {
	ATHUSD       float64
	HalvingEpoch time.Time
}

// PercentFrom returns (current-reference)/reference*100 with sign
// preserved, or nil when either input is missing or the reference is
// not a positive number.
func PercentFrom(current, reference *float64) *float64 {
	if current == nil || reference == nil || *reference <= 0 {
		return nil
	}
	pct := (*current - *reference) / *reference * 100
	return &pct
}

// ZoneFor maps a composite score onto its labeled zone.
func ZoneFor(score int, th Thresholds) string {
	switch {
	case score <= th.Accumulation:
		return "Accumulation"
	case score <= th.Overheated:
		return "Neutral"
	default:
		return "Overheated"
	}
}

// SentimentLabelFor maps a 0-100 fear/greed index onto its label.
func SentimentLabelFor(index int) string {
	switch {
	case index <= 25:
		return "Extreme Fear"
	case index <= 45:
		return "Fear"
	case index <= 55:
		return "Neutral"
	case index <= 75:
		return "Greed"
	default:
		return "Extreme Greed"
	}
}

// RegimeFor labels the cycle phase from the distance to the reference high.
func RegimeFor(pctFromATH *float64) string {
	if pctFromATH == nil {
		return "Unknown"
	}
	switch {
	case *pctFromATH >= -5:
		return "Price Discovery"
	case *pctFromATH >= -25:
		return "Bull Market"
	case *pctFromATH >= -50:
		return "Correction"
	default:
		return "Bear Market"
	}
}

// NextVolatility advances the EWMA daily volatility estimate by one
// observation of the 24h return, in percent.
func NextVolatility(prevPct, change24hPct float64) float64 {
	if prevPct < 0 || math.IsNaN(prevPct) {
		prevPct = 0
	}
	r := change24hPct
	if math.IsNaN(r) || math.IsInf(r, 0) {
		r = 0
	}
	return math.Sqrt(ewmaLambda*prevPct*prevPct + (1-ewmaLambda)*r*r)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
