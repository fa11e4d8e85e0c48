package api

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewPacer_Interval(t *testing.T) {
	tests := []struct {
		name   string
		quota  int
		period time.Duration
		want   time.Duration
	}{
		{"vendor defaults", 100, 300 * time.Second, 3300 * time.Millisecond},
		{"zero values fall back to defaults", 0, 0, 3300 * time.Millisecond},
		{"one per second", 10, 10 * time.Second, 1100 * time.Millisecond},
		{"tight quota", 50, time.Second, 22 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPacer(tt.quota, tt.period, testLogger())
			if p.interval != tt.want {
				t.Errorf("interval = %v, want %v", p.interval, tt.want)
			}
		})
	}
}

func TestPacer_FirstRequestImmediate(t *testing.T) {
	p := newPacer(1, 10*time.Second, testLogger())

	start := time.Now()
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("first Wait() took %v, want immediate", elapsed)
	}
}

func TestPacer_SpacesRequests(t *testing.T) {
	// 50 per second gives a 22ms minimum interval, fast enough to observe
	// three slots without slowing the suite down.
	p := newPacer(50, time.Second, testLogger())

	var stamps []time.Time
	for i := 0; i < 3; i++ {
		if err := p.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() #%d error = %v", i+1, err)
		}
		stamps = append(stamps, time.Now())
	}

	const tolerance = 5 * time.Millisecond
	for i := 1; i < len(stamps); i++ {
		gap := stamps[i].Sub(stamps[i-1])
		if gap < p.interval-tolerance {
			t.Errorf("gap %d = %v, want >= %v", i, gap, p.interval)
		}
	}
}

func TestPacer_ContextCancellation(t *testing.T) {
	p := newPacer(1, time.Hour, testLogger())

	// Consume the only immediate slot.
	if err := p.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := p.Wait(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Wait() error = %v, want context.Canceled", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Wait() took %v to observe cancellation", elapsed)
	}
}
