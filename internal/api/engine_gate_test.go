package api

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openvlm/lens/internal/inference"
)

func TestEngineGateSerializesAccess(t *testing.T) {
	t.Parallel()

	gate := NewEngineGate(&testEngine{reply: "ok"})

	var inFlight, maxInFlight atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := gate.WithEngine(context.Background(), func(inference.Engine) error {
				n := inFlight.Add(1)
				defer inFlight.Add(-1)
				for {
					prev := maxInFlight.Load()
					if n <= prev || maxInFlight.CompareAndSwap(prev, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				return nil
			})
			if err != nil {
				t.Errorf("WithEngine: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := maxInFlight.Load(); got != 1 {
		t.Fatalf("observed %d concurrent engine holders, want 1", got)
	}
}

func TestEngineGateRespectsCancellationWhileQueued(t *testing.T) {
	t.Parallel()

	gate := NewEngineGate(&testEngine{reply: "ok"})

	holding := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = gate.WithEngine(context.Background(), func(inference.Engine) error {
			close(holding)
			<-release
			return nil
		})
	}()
	<-holding
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := gate.WithEngine(ctx, func(inference.Engine) error {
		t.Error("callback ran despite cancelled context")
		return nil
	})
	if err == nil {
		t.Fatal("expected context error while queued")
	}
}
