// Package job drives the polling cadence. One Scheduler owns every
// repeating handler; there are no free-floating timers to leak.
package job

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// Handler is one repeating unit of work with its own interval.
type Handler struct {
	Key      string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

type schedulerState int

const (
	stateIdle schedulerState = iota
	stateRunning
	stateStopped
)

var ErrNotIdle = errors.New("scheduler has already been started")

// Scheduler runs every handler once immediately on Start, then arms an
// independent repeating timer per handler. Idle -> Running -> Stopped;
// Stopped is terminal.
type Scheduler struct {
	mu     sync.Mutex
	state  schedulerState
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Start launches one goroutine per handler. It returns ErrNotIdle on a
// running or stopped scheduler.
func (s *Scheduler) Start(ctx context.Context, handlers []Handler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateIdle {
		return ErrNotIdle
	}

	cctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.state = stateRunning

	for _, h := range handlers {
		s.wg.Add(1)
		go func(h Handler) {
			defer s.wg.Done()
			s.loop(cctx, h)
		}(h)
	}

	log.Printf("scheduler started with %d handlers", len(handlers))
	return nil
}

// loop runs h once immediately, then on every tick. A tick is skipped,
// not queued, while the previous invocation of the same handler is
// still in flight, so a slow upstream cannot pile up fetch storms.
func (s *Scheduler) loop(ctx context.Context, h Handler) {
	inFlight := make(chan struct{}, 1)

	invoke := func() {
		select {
		case inFlight <- struct{}{}:
		default:
			log.Printf("handler %s still running, skipping tick", h.Key)
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer func() { <-inFlight }()
			defer func() {
				if r := recover(); r != nil {
					log.Printf("handler %s panicked: %v", h.Key, r)
				}
			}()
			if err := h.Run(ctx); err != nil {
				log.Printf("handler %s error: %v", h.Key, err)
			}
		}()
	}

	invoke()

	ticker := time.NewTicker(h.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			invoke()
		}
	}
}

// Stop cancels all timers and waits for in-flight invocations to wind
// down. Idempotent: stopping twice, or stopping a scheduler that never
// started, is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	running := s.state == stateRunning
	s.state = stateStopped
	s.mu.Unlock()

	if !running {
		return
	}
	s.cancel()
	s.wg.Wait()
	log.Println("scheduler stopped")
}
