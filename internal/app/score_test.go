package app_test

import (
	"testing"

	"quiz-arena/internal/app"
)

func TestComputeScoreWrongAnswerIsZero(t *testing.T) {
	for _, latency := range []int64{0, 500, 100000} {
		if got := app.ComputeScore(false, 1000, 10, latency); got != 0 {
			t.Fatalf("wrong answer at latency %d scored %d, want 0", latency, got)
		}
	}
}

func TestComputeScoreFullCreditAtZeroLatency(t *testing.T) {
	if got := app.ComputeScore(true, 1000, 10, 0); got != 1000 {
		t.Fatalf("zero latency scored %d, want 1000", got)
	}
}

func TestComputeScoreFloor(t *testing.T) {
	if got := app.ComputeScore(true, 1000, 10, 999999); got != 300 {
		t.Fatalf("very late answer scored %d, want 300", got)
	}
	// The floor holds even for a zero time limit (clamped to 1s internally).
	if got := app.ComputeScore(true, 1000, 0, 5000); got != 300 {
		t.Fatalf("zero limit scored %d, want 300", got)
	}
}

func TestComputeScoreMonotonicInLatency(t *testing.T) {
	fast := app.ComputeScore(true, 1000, 10, 100)
	slow := app.ComputeScore(true, 1000, 10, 9000)
	if fast <= slow {
		t.Fatalf("expected faster answer to outscore slower: fast=%d slow=%d", fast, slow)
	}

	prev := app.ComputeScore(true, 1000, 10, 0)
	for latency := int64(1000); latency <= 15000; latency += 1000 {
		got := app.ComputeScore(true, 1000, 10, latency)
		if got > prev {
			t.Fatalf("score increased with latency: %d -> %d at %dms", prev, got, latency)
		}
		prev = got
	}
}

func TestComputeScoreNeverBelowFloor(t *testing.T) {
	for _, base := range []int{1, 100, 1000} {
		for _, latency := range []int64{0, 5000, 50000} {
			got := app.ComputeScore(true, base, 10, latency)
			floor := int(float64(base)*0.3 + 0.5)
			if got < floor {
				t.Fatalf("score %d below floor %d (base=%d latency=%d)", got, floor, base, latency)
			}
		}
	}
}
