package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	var transitions []string
	b := NewCircuitBreaker("feed", CircuitBreakerConfig{
		FailureThreshold: 2,
		OpenTimeout:      5 * time.Second,
		HalfOpenMaxReq:   1,
		OnStateChange: func(name string, from, to CircuitState) {
			transitions = append(transitions, name+":"+string(from)+"->"+string(to))
		},
	})

	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}

	now = now.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open probe to pass, got %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second half-open probe to be rejected, got %v", err)
	}

	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful half-open probe, got %s", state)
	}

	want := []string{"feed:closed->open", "feed:open->half_open", "feed:half_open->closed"}
	if len(transitions) != len(want) {
		t.Fatalf("unexpected transitions: %v", transitions)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("transition %d: got %s want %s", i, transitions[i], want[i])
		}
	}
}

func TestCircuitBreaker_RecordIgnoresNonFailures(t *testing.T) {
	b := NewCircuitBreaker("feed", CircuitBreakerConfig{FailureThreshold: 1})
	notFound := errors.New("not found")

	b.Record(notFound, func(err error) bool { return !errors.Is(err, notFound) })
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected classified non-failure to keep breaker closed, got %s", state)
	}

	b.Record(errors.New("timeout"), nil)
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected breaker to open, got %s", state)
	}
}
