package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestNewLimiter_Normalizes(t *testing.T) {
	tests := []struct {
		name      string
		rps       float64
		burst     int
		wantLimit rate.Limit
		wantBurst int
	}{
		{name: "as given", rps: 2, burst: 4, wantLimit: 2, wantBurst: 4},
		{name: "burst floor", rps: 2, burst: -3, wantLimit: 2, wantBurst: 1},
		{name: "zero rate is unlimited", rps: 0, burst: 1, wantLimit: rate.Inf, wantBurst: 1},
		{name: "negative rate is unlimited", rps: -1, burst: 0, wantLimit: rate.Inf, wantBurst: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLimiter(tt.rps, tt.burst)
			if l.limit != tt.wantLimit || l.burst != tt.wantBurst {
				t.Errorf("got limit=%v burst=%d, want limit=%v burst=%d", l.limit, l.burst, tt.wantLimit, tt.wantBurst)
			}
		})
	}
}

func TestLimiter_BucketsArePerKey(t *testing.T) {
	l := NewLimiter(0.01, 1)

	if err := l.Wait(context.Background(), "openai"); err != nil {
		t.Fatalf("first token: %v", err)
	}
	if l.Allow("openai") {
		t.Error("openai bucket should be empty after its single token")
	}
	if !l.Allow("anthropic") {
		t.Error("anthropic has its own bucket")
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	l := NewLimiter(0, 1)
	for i := range 20 {
		if !l.Allow("ollama") {
			t.Fatalf("call %d refused by an unlimited limiter", i)
		}
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	l := NewLimiter(0, 1)

	start := time.Now()
	if err := l.WaitWithDelay(context.Background(), "openai", 40*time.Millisecond); err != nil {
		t.Fatalf("WaitWithDelay: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("returned after %v, want at least 40ms", elapsed)
	}
}

func TestLimiter_WaitWithDelay_Cancelled(t *testing.T) {
	l := NewLimiter(0, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.WaitWithDelay(ctx, "openai", time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLimiter_Wait_EmptyBucketHonoursDeadline(t *testing.T) {
	l := NewLimiter(0.01, 1)
	_ = l.Allow("openai")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "openai"); err == nil {
		t.Error("expected an error when the next token is beyond the deadline")
	}
}
