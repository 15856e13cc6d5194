package cache

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreakerStaysClosedOnSuccess(t *testing.T) {
	cb := NewCircuitBreaker(nil)

	for i := 0; i < 10; i++ {
		if err := cb.Execute(func() error { return nil }); err != nil {
			t.Fatalf("Execute failed: %v", err)
		}
	}

	if cb.State() != CircuitClosed {
		t.Errorf("Expected closed state, got %v", cb.State())
	}
}

func TestCircuitBreakerOpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker(&CircuitBreakerConfig{
		MaxFailures:      3,
		Timeout:          time.Minute,
		HalfOpenMaxCalls: 1,
	})

	boom := errors.New("boom")
	for i := 0; i < 3; i++ {
		cb.Execute(func() error { return boom })
	}

	if cb.State() != CircuitOpen {
		t.Fatalf("Expected open state after 3 failures, got %v", cb.State())
	}

	err := cb.Execute(func() error {
		t.Error("Function should not run while circuit is open")
		return nil
	})
	if !errors.Is(err, ErrCircuitBreakerOpen) {
		t.Errorf("Expected ErrCircuitBreakerOpen, got %v", err)
	}
}

func TestCircuitBreakerFailureCountResetsOnSuccess(t *testing.T) {
	cb := NewCircuitBreaker(&CircuitBreakerConfig{
		MaxFailures:      2,
		Timeout:          time.Minute,
		HalfOpenMaxCalls: 1,
	})

	boom := errors.New("boom")
	cb.Execute(func() error { return boom })
	cb.Execute(func() error { return nil })
	cb.Execute(func() error { return boom })

	if cb.State() != CircuitClosed {
		t.Errorf("Expected closed state after interleaved success, got %v", cb.State())
	}
}

func TestCircuitBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker(&CircuitBreakerConfig{
		MaxFailures:      1,
		Timeout:          10 * time.Millisecond,
		HalfOpenMaxCalls: 2,
	})

	cb.Execute(func() error { return errors.New("boom") })
	if cb.State() != CircuitOpen {
		t.Fatalf("Expected open state, got %v", cb.State())
	}

	time.Sleep(20 * time.Millisecond)

	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatalf("Expected probe call to run after timeout, got %v", err)
	}
	if cb.State() != CircuitHalfOpen {
		t.Fatalf("Expected half-open state after first probe, got %v", cb.State())
	}

	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Fatalf("Expected second probe to run, got %v", err)
	}
	if cb.State() != CircuitClosed {
		t.Errorf("Expected closed state after successful probes, got %v", cb.State())
	}
}

func TestCircuitBreakerReopensOnHalfOpenFailure(t *testing.T) {
	cb := NewCircuitBreaker(&CircuitBreakerConfig{
		MaxFailures:      1,
		Timeout:          10 * time.Millisecond,
		HalfOpenMaxCalls: 2,
	})

	cb.Execute(func() error { return errors.New("boom") })
	time.Sleep(20 * time.Millisecond)

	cb.Execute(func() error { return errors.New("still broken") })

	if cb.State() != CircuitOpen {
		t.Errorf("Expected reopened circuit after failed probe, got %v", cb.State())
	}
}

func TestCircuitBreakerStats(t *testing.T) {
	cb := NewCircuitBreaker(nil)
	cb.Execute(func() error { return errors.New("boom") })

	stats := cb.Stats()
	if stats["state"] != "closed" {
		t.Errorf("Expected closed state in stats, got %v", stats["state"])
	}
	if stats["failure_count"].(int) != 1 {
		t.Errorf("Expected 1 failure, got %v", stats["failure_count"])
	}
}
