package poll

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRun_StopsWhenDone(t *testing.T) {
	p := Poller{Interval: time.Millisecond, MaxAttempts: 10}

	attempts, err := p.Run(context.Background(), func(ctx context.Context, attempt int) (bool, error) {
		return attempt == 3, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestRun_FirstAttemptIsImmediate(t *testing.T) {
	p := Poller{Interval: time.Hour, MaxAttempts: 5}

	start := time.Now()
	attempts, err := p.Run(context.Background(), func(ctx context.Context, attempt int) (bool, error) {
		return true, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
	if time.Since(start) > time.Second {
		t.Error("first attempt waited for the interval")
	}
}

func TestRun_ExhaustsAttemptCap(t *testing.T) {
	p := Poller{Interval: time.Millisecond, MaxAttempts: 7}

	calls := 0
	attempts, err := p.Run(context.Background(), func(ctx context.Context, attempt int) (bool, error) {
		calls++
		return false, nil
	})
	if !errors.Is(err, ErrAttemptsExhausted) {
		t.Fatalf("expected ErrAttemptsExhausted, got %v", err)
	}
	if attempts != 7 || calls != 7 {
		t.Errorf("expected exactly 7 attempts, got attempts=%d calls=%d", attempts, calls)
	}
}

func TestRun_TransientErrorsDoNotStopTheLoop(t *testing.T) {
	p := Poller{Interval: time.Millisecond, MaxAttempts: 10}

	netErr := errors.New("connection refused")
	attempts, err := p.Run(context.Background(), func(ctx context.Context, attempt int) (bool, error) {
		if attempt < 4 {
			return false, netErr
		}
		return true, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 4 {
		t.Errorf("expected 4 attempts, got %d", attempts)
	}
}

func TestRun_ExhaustionWrapsLastError(t *testing.T) {
	p := Poller{Interval: time.Millisecond, MaxAttempts: 3}

	netErr := errors.New("connection refused")
	_, err := p.Run(context.Background(), func(ctx context.Context, attempt int) (bool, error) {
		return false, netErr
	})
	if !errors.Is(err, ErrAttemptsExhausted) {
		t.Fatalf("expected ErrAttemptsExhausted, got %v", err)
	}
	if !errors.Is(err, netErr) {
		t.Errorf("expected last attempt error to be wrapped, got %v", err)
	}
}

func TestRun_RespectsCancellation(t *testing.T) {
	p := Poller{Interval: time.Hour, MaxAttempts: 100}

	ctx, cancel := context.WithCancel(context.Background())
	fired := make(chan struct{})
	go func() {
		<-fired
		cancel()
	}()

	attempts, err := p.Run(ctx, func(ctx context.Context, attempt int) (bool, error) {
		if attempt == 1 {
			close(fired)
		}
		return false, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt before cancellation, got %d", attempts)
	}
}

func TestRun_CancelledBeforeStart(t *testing.T) {
	p := Poller{Interval: time.Millisecond, MaxAttempts: 5}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts, err := p.Run(ctx, func(ctx context.Context, attempt int) (bool, error) {
		t.Error("callback must not run after cancellation")
		return false, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if attempts != 0 {
		t.Errorf("expected 0 attempts, got %d", attempts)
	}
}
