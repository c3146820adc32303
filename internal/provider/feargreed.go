package provider

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"market-pulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const fearGreedBaseURL = "https://api.alternative.me"

// FearGreedProvider fetches the alternative.me fear & greed index.
type FearGreedProvider struct {
	client  *Client
	baseURL string
	tracer  trace.Tracer
}

func NewFearGreedProvider(tracer trace.Tracer, client *Client) *FearGreedProvider {
	return &FearGreedProvider{
		client:  client,
		baseURL: fearGreedBaseURL,
		tracer:  tracer,
	}
}

// FetchIndex returns the latest sentiment index point.
func (p *FearGreedProvider) FetchIndex(ctx context.Context) (*domain.SentimentPayload, error) {
	_, span := p.tracer.Start(ctx, "feargreed.fetch-index")
	defer span.End()

	url := strings.TrimRight(p.baseURL, "/") + "/fng/?limit=1"

	var raw struct {
		Data []struct {
			Value          string `json:"value"`
			Classification string `json:"value_classification"`
		} `json:"data"`
	}
	if err := p.client.GetJSON(ctx, domain.SourceSentiment, url, &raw); err != nil {
		return nil, err
	}
	if len(raw.Data) == 0 {
		return nil, &FetchError{
			Source: domain.SourceSentiment,
			Kind:   KindParse,
			Err:    fmt.Errorf("fear & greed response has no rows"),
		}
	}

	value, err := strconv.Atoi(strings.TrimSpace(raw.Data[0].Value))
	if err != nil {
		return nil, &FetchError{
			Source: domain.SourceSentiment,
			Kind:   KindParse,
			Err:    fmt.Errorf("parse fear & greed value: %w", err),
		}
	}

	return &domain.SentimentPayload{
		Index:          value,
		Classification: raw.Data[0].Classification,
	}, nil
}
