package domain

import "time"

// SourceKey identifies one upstream data source tracked by the pipeline.
type SourceKey string

const (
	SourcePrice       SourceKey = "price"
	SourceSentiment   SourceKey = "sentiment"
	SourceStablecoins SourceKey = "stablecoins"
	SourceMacro       SourceKey = "macro"
)

// FastSources are polled on the short interval, SlowSources on the long one.
var (
	FastSources = []SourceKey{SourcePrice, SourceSentiment}
	SlowSources = []SourceKey{SourceStablecoins, SourceMacro}
	AllSources  = []SourceKey{SourcePrice, SourceSentiment, SourceStablecoins, SourceMacro}
)

func (k SourceKey) IsValid() bool {
	switch k {
	case SourcePrice, SourceSentiment, SourceStablecoins, SourceMacro:
		return true
	}
	return false
}

// PricePayload holds the normalized market-data fields for the tracked asset.
type PricePayload struct {
	PriceUSD     float64   `json:"price_usd"`
	Change24hPct float64   `json:"change_24h_pct"`
	MarketCapUSD float64   `json:"market_cap_usd"`
	Volume24hUSD float64   `json:"volume_24h_usd"`
	ATHUSD       float64   `json:"ath_usd"`
	ATHDate      time.Time `json:"ath_date"`
}

// SentimentPayload is the upstream fear/greed gauge, 0-100.
type SentimentPayload struct {
	Index          int    `json:"index"`
	Classification string `json:"classification"`
}

// StablecoinPayload sums circulating USD-pegged supply across issuers.
type StablecoinPayload struct {
	TotalSupplyUSD float64            `json:"total_supply_usd"`
	SupplyByAsset  map[string]float64 `json:"supply_by_asset,omitempty"`
}

// MacroPayload holds global-market figures from the slow poll tier.
type MacroPayload struct {
	BTCDominancePct   float64 `json:"btc_dominance_pct"`
	TotalMarketCapUSD float64 `json:"total_market_cap_usd"`
}

// SourcePayload is a tagged union over the per-source payload shapes.
// Exactly one of the pointer fields is set, matching Key.
type SourcePayload struct {
	Key        SourceKey          `json:"key"`
	CapturedAt time.Time          `json:"captured_at"`
	Price      *PricePayload      `json:"price,omitempty"`
	Sentiment  *SentimentPayload  `json:"sentiment,omitempty"`
	Stable     *StablecoinPayload `json:"stablecoins,omitempty"`
	Macro      *MacroPayload      `json:"macro,omitempty"`
}

// SourceStatus reports the freshness of one cached source as seen at
// snapshot time. Stale entries are still served; age makes that visible.
type SourceStatus struct {
	CapturedAt time.Time `json:"captured_at"`
	AgeSecs    float64   `json:"age_secs"`
	Fresh      bool      `json:"fresh"`
}

// DerivedSnapshot is the immutable output of one metrics recomputation.
// Nil pointer fields mean the backing source has never been cached
// (the cold-start case); sinks render those as a placeholder.
type DerivedSnapshot struct {
	ComputedAt time.Time `json:"computed_at"`

	PriceUSD     *float64 `json:"price_usd"`
	Change24hPct *float64 `json:"change_24h_pct"`
	MarketCapUSD *float64 `json:"market_cap_usd"`
	Volume24hUSD *float64 `json:"volume_24h_usd"`
	PctFromATH   *float64 `json:"pct_from_ath"`

	CompositeScore int    `json:"composite_score"`
	Zone           string `json:"zone"`

	SentimentIndex *int   `json:"sentiment_index"`
	SentimentLabel string `json:"sentiment_label"`
	Regime         string `json:"regime"`

	BTCDominancePct     *float64 `json:"btc_dominance_pct"`
	StablecoinSupplyUSD *float64 `json:"stablecoin_supply_usd"`
	DailyVolatilityPct  *float64 `json:"daily_volatility_pct"`
	DaysSinceHalving    int      `json:"days_since_halving"`

	Sources map[SourceKey]SourceStatus `json:"sources"`
}

// CloneSources returns a copy of the snapshot with its own Sources map,
// so callers can hand it out without sharing mutable state.
func (s DerivedSnapshot) CloneSources() DerivedSnapshot {
	out := s
	out.Sources = make(map[SourceKey]SourceStatus, len(s.Sources))
	for k, v := range s.Sources {
		out.Sources[k] = v
	}
	return out
}
