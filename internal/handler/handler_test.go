package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"market-pulse/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type stubPipeline struct {
	snap domain.DerivedSnapshot
	ok   bool
}

func (s *stubPipeline) Latest() (domain.DerivedSnapshot, bool) {
	return s.snap, s.ok
}

func newTestRouter(p SnapshotSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := New(trace.NewNoopTracerProvider().Tracer("test"), p)
	h.RegisterRoutes(r)
	return r
}

func TestHealth(t *testing.T) {
	r := newTestRouter(&stubPipeline{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestGetSnapshotWarmingUp(t *testing.T) {
	r := newTestRouter(&stubPipeline{ok: false})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/snapshot", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before first snapshot, got %d", w.Code)
	}
}

func TestGetSnapshot(t *testing.T) {
	price := 62_000.0
	stub := &stubPipeline{
		ok: true,
		snap: domain.DerivedSnapshot{
			ComputedAt:     time.Now().UTC(),
			PriceUSD:       &price,
			CompositeScore: 58,
			Zone:           "Neutral",
			SentimentLabel: "Greed",
			Regime:         "Bull Market",
			Sources: map[domain.SourceKey]domain.SourceStatus{
				domain.SourcePrice: {Fresh: true, AgeSecs: 12},
			},
		},
	}
	r := newTestRouter(stub)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/snapshot", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var got domain.DerivedSnapshot
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if got.CompositeScore != 58 || got.Zone != "Neutral" {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
	if got.PriceUSD == nil || *got.PriceUSD != 62_000 {
		t.Fatalf("unexpected price: %v", got.PriceUSD)
	}
}

func TestGetSources(t *testing.T) {
	stub := &stubPipeline{
		ok: true,
		snap: domain.DerivedSnapshot{
			Sources: map[domain.SourceKey]domain.SourceStatus{
				domain.SourcePrice:     {Fresh: true, AgeSecs: 10},
				domain.SourceSentiment: {Fresh: false, AgeSecs: 3000},
			},
		},
	}
	r := newTestRouter(stub)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/sources", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var got struct {
		Sources map[string]domain.SourceStatus `json:"sources"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(got.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %+v", got.Sources)
	}
	if got.Sources["sentiment"].Fresh {
		t.Fatal("stale source must report fresh=false")
	}
}
