package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastPolicy(maxAttempts int) Policy {
	return Policy{MaxAttempts: maxAttempts, BaseDelay: time.Millisecond}
}

func TestDo_SucceedsOnAttemptK(t *testing.T) {
	tests := []struct {
		name        string
		succeedOn   int
		maxAttempts int
	}{
		{"first attempt", 1, 3},
		{"second attempt", 2, 3},
		{"final attempt", 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			v, err := Do(context.Background(), nil, fastPolicy(tt.maxAttempts), "op",
				func(ctx context.Context) (string, error) {
					attempts++
					if attempts < tt.succeedOn {
						return "", errors.New("transient")
					}
					return "ok", nil
				})
			if err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if v != "ok" {
				t.Fatalf("expected ok, got %q", v)
			}
			if attempts != tt.succeedOn {
				t.Fatalf("expected %d attempts, got %d", tt.succeedOn, attempts)
			}
		})
	}
}

func TestDo_ExhaustionPropagatesLastError(t *testing.T) {
	wantErr := errors.New("still broken")
	attempts := 0

	_, err := Do(context.Background(), nil, fastPolicy(4), "op",
		func(ctx context.Context) (int, error) {
			attempts++
			return 0, wantErr
		})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected last error, got %v", err)
	}
	if attempts != 4 {
		t.Fatalf("expected exactly 4 attempts, got %d", attempts)
	}
}

func TestDo_ZeroAttemptsTreatedAsOne(t *testing.T) {
	attempts := 0
	_, err := Do(context.Background(), nil, Policy{MaxAttempts: 0}, "op",
		func(ctx context.Context) (int, error) {
			attempts++
			return 0, errors.New("nope")
		})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestDoFallback_ExhaustionReturnsFallback(t *testing.T) {
	attempts := 0
	v, err := DoFallback(context.Background(), nil, fastPolicy(2), "op", "service temporarily unavailable",
		func(ctx context.Context) (string, error) {
			attempts++
			return "", errors.New("down")
		})
	if err != nil {
		t.Fatalf("fallback must not surface an error, got %v", err)
	}
	if v != "service temporarily unavailable" {
		t.Fatalf("expected fallback string, got %q", v)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestDoFallback_SuccessPassesThrough(t *testing.T) {
	v, err := DoFallback(context.Background(), nil, fastPolicy(2), "op", "fallback",
		func(ctx context.Context) (string, error) {
			return "real answer", nil
		})
	if err != nil || v != "real answer" {
		t.Fatalf("expected real answer, got %q, %v", v, err)
	}
}

func TestDoFallback_ContextCancellationSurfaces(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DoFallback(ctx, nil, fastPolicy(3), "op", "fallback",
		func(ctx context.Context) (string, error) {
			return "", ctx.Err()
		})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPolicy_DelayDoubles(t *testing.T) {
	p := Policy{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{2, 100 * time.Millisecond},
		{3, 200 * time.Millisecond},
		{4, 400 * time.Millisecond},
		{5, 800 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := p.delayBefore(tt.attempt); got != tt.want {
			t.Errorf("delayBefore(%d) = %s, want %s", tt.attempt, got, tt.want)
		}
	}
}

func TestDo_ContextCancelDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	done := make(chan error, 1)
	go func() {
		_, err := Do(ctx, nil, Policy{MaxAttempts: 3, BaseDelay: time.Minute}, "op",
			func(ctx context.Context) (int, error) {
				attempts++
				return 0, errors.New("fail")
			})
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("retry did not abort the backoff wait")
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt before cancellation, got %d", attempts)
	}
}
