package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"mandado/internal/domain"
	"mandado/internal/poll"
	"mandado/internal/service"
)

func watchedRequest() *domain.ServiceRequest {
	return &domain.ServiceRequest{
		ID:          "req-1",
		RequesterID: "requester-1",
		Status:      domain.RequestStatusPendente,
		OriginLat:   -23.5505,
		OriginLng:   -46.6333,
	}
}

// ──────────────────────────────────────────────
// 1. ACCEPTANCE WATCH
// ──────────────────────────────────────────────

func TestDispatcher_MatchesAfterRetries(t *testing.T) {
	t.Parallel()

	matcher := &MockMatcher{SucceedAfter: 3, ProviderID: "provider-1"}
	dispatcher := service.NewDispatcher(matcher, nil, nil, 5*time.Millisecond, 10)

	outcome, started := dispatcher.Watch(watchedRequest())
	if !started {
		t.Fatal("expected the watch to start")
	}

	select {
	case result := <-outcome:
		if !result.Matched {
			t.Fatalf("expected a match, got err=%v", result.Err)
		}
		if result.Attempts != 3 {
			t.Errorf("expected 3 attempts, got %d", result.Attempts)
		}
		if result.Result.ProviderID != "provider-1" {
			t.Errorf("expected provider-1, got %s", result.Result.ProviderID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outcome")
	}

	if dispatcher.Watching("req-1") {
		t.Error("expected the watch to be cleaned up")
	}
}

func TestDispatcher_ExhaustsAttemptsAndStops(t *testing.T) {
	t.Parallel()

	matcher := &MockMatcher{}
	dispatcher := service.NewDispatcher(matcher, nil, nil, 5*time.Millisecond, 4)

	outcome, _ := dispatcher.Watch(watchedRequest())

	select {
	case result := <-outcome:
		if result.Matched {
			t.Fatal("expected no match")
		}
		if !errors.Is(result.Err, poll.ErrAttemptsExhausted) {
			t.Errorf("expected ErrAttemptsExhausted, got %v", result.Err)
		}
		if result.Attempts != 4 {
			t.Errorf("expected 4 attempts, got %d", result.Attempts)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outcome")
	}

	if got := matcher.Calls(); got != 4 {
		t.Errorf("expected exactly 4 match calls, got %d", got)
	}
}

func TestDispatcher_DuplicateWatchIsNoOp(t *testing.T) {
	t.Parallel()

	matcher := &MockMatcher{}
	dispatcher := service.NewDispatcher(matcher, nil, nil, 50*time.Millisecond, 100)
	defer dispatcher.Cancel("req-1")

	if _, started := dispatcher.Watch(watchedRequest()); !started {
		t.Fatal("expected the first watch to start")
	}
	if _, started := dispatcher.Watch(watchedRequest()); started {
		t.Error("expected the second watch to be refused")
	}
}

func TestDispatcher_CancelStopsTheWatch(t *testing.T) {
	t.Parallel()

	matcher := &MockMatcher{}
	dispatcher := service.NewDispatcher(matcher, nil, nil, 10*time.Millisecond, 1000)

	outcome, _ := dispatcher.Watch(watchedRequest())
	time.Sleep(25 * time.Millisecond)
	dispatcher.Cancel("req-1")

	select {
	case result := <-outcome:
		if result.Matched {
			t.Fatal("expected no match after cancellation")
		}
		if !errors.Is(result.Err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", result.Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outcome")
	}

	if dispatcher.Watching("req-1") {
		t.Error("expected the watch to be removed")
	}
}

func TestDispatcher_ResumeRestartsPendingSearches(t *testing.T) {
	t.Parallel()

	requestRepo := NewMockRequestRepository()
	requestRepo.AddRequest(&domain.ServiceRequest{ID: "req-pending", Status: domain.RequestStatusPendente})
	requestRepo.AddRequest(&domain.ServiceRequest{ID: "req-done", Status: domain.RequestStatusConcluido})

	matcher := &MockMatcher{}
	dispatcher := service.NewDispatcher(matcher, nil, nil, 50*time.Millisecond, 100)
	defer dispatcher.Cancel("req-pending")

	started, err := dispatcher.Resume(context.Background(), requestRepo)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if started != 1 {
		t.Errorf("expected 1 resumed search, got %d", started)
	}
	if !dispatcher.Watching("req-pending") {
		t.Error("expected a watch for the pending request")
	}
	if dispatcher.Watching("req-done") {
		t.Error("expected no watch for a completed request")
	}

	// A second resume must not double-watch.
	if started, _ := dispatcher.Resume(context.Background(), requestRepo); started != 0 {
		t.Errorf("expected no new watches on a second resume, got %d", started)
	}
}

func TestDispatcher_StopsWhenRequestLeavesPending(t *testing.T) {
	t.Parallel()

	// ErrRequestNotPending means another path (accept endpoint,
	// cancellation) already moved the request. The watch ends without
	// reporting a match.
	matcher := &MockMatcher{
		MatchFunc: func(ctx context.Context, req service.MatchRequest) (*service.MatchResult, error) {
			return nil, service.ErrRequestNotPending
		},
	}
	dispatcher := service.NewDispatcher(matcher, nil, nil, 5*time.Millisecond, 100)

	outcome, _ := dispatcher.Watch(watchedRequest())

	select {
	case result := <-outcome:
		if result.Matched {
			t.Fatal("expected no match")
		}
		if result.Err != nil {
			t.Errorf("expected a clean stop, got %v", result.Err)
		}
		if result.Attempts != 1 {
			t.Errorf("expected 1 attempt, got %d", result.Attempts)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outcome")
	}
}
