package provider

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

func TestStablecoinFetchSupply(t *testing.T) {
	client := newTestClient(time.Second, 0)
	p := NewStablecoinProvider(trace.NewNoopTracerProvider().Tracer("test"), client)
	p.baseURL = "https://example.com"

	body := `{"peggedAssets":[` +
		`{"symbol":"USDT","circulating":{"peggedUSD":120000000000}},` +
		`{"symbol":"USDC","circulating":{"peggedUSD":35000000000}},` +
		`{"symbol":"FRAX","circulating":{"peggedUSD":650000000}}]}`
	stubTransport(t, client, "/stablecoins", body)

	got, err := p.FetchSupply(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.TotalSupplyUSD != 120e9+35e9+650e6 {
		t.Fatalf("unexpected total: %v", got.TotalSupplyUSD)
	}
	if got.SupplyByAsset["USDT"] != 120e9 {
		t.Fatalf("expected tracked USDT line, got %+v", got.SupplyByAsset)
	}
	if _, ok := got.SupplyByAsset["FRAX"]; ok {
		t.Fatal("untracked asset must only contribute to the total")
	}
}

func TestStablecoinFetchSupplyEmpty(t *testing.T) {
	client := newTestClient(time.Second, 0)
	p := NewStablecoinProvider(trace.NewNoopTracerProvider().Tracer("test"), client)
	p.baseURL = "https://example.com"
	stubTransport(t, client, "/stablecoins", `{"peggedAssets":[]}`)

	if _, err := p.FetchSupply(context.Background()); err == nil {
		t.Fatal("expected error for empty asset list")
	}
}
