package provider

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterBurstThenDeny(t *testing.T) {
	r := NewRateLimiter(2, time.Hour)
	if !r.TryAcquire() || !r.TryAcquire() {
		t.Fatal("burst tokens must be available immediately")
	}
	if r.TryAcquire() {
		t.Fatal("expected denial after burst is spent")
	}
}

func TestRateLimiterRestores(t *testing.T) {
	r := NewRateLimiter(1, 10*time.Millisecond)
	if !r.TryAcquire() {
		t.Fatal("first token must be available")
	}
	time.Sleep(25 * time.Millisecond)
	if !r.TryAcquire() {
		t.Fatal("token must be restored after the interval")
	}
}

func TestRateLimiterWaitHonorsContext(t *testing.T) {
	r := NewRateLimiter(1, time.Hour)
	r.TryAcquire()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := r.Wait(ctx); err == nil {
		t.Fatal("expected context error while starved")
	}
}
