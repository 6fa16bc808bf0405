package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"mandado/internal/domain"
	"mandado/internal/poll"
	"mandado/internal/repository"
)

// Matcher is the matching contract used by the dispatcher and the
// request service. It allows testing with mock implementations.
type Matcher interface {
	Match(ctx context.Context, req MatchRequest) (*MatchResult, error)
}

// Ensure MatchingService implements Matcher.
var _ Matcher = (*MatchingService)(nil)

// Dispatcher owns the acceptance watch for requests that did not match
// immediately. Each watched request has exactly one polling loop; the
// loop is the only code path that reports its outcome, so a request
// can never transition twice from overlapping timers.
type Dispatcher struct {
	matcher      Matcher
	providerRepo repository.ProviderRepository
	notification *NotificationService
	poller       poll.Poller

	mu       sync.Mutex
	watchers map[string]context.CancelFunc
}

// NewDispatcher creates a new Dispatcher. interval and maxAttempts
// control the watch loop; zero values fall back to 3s and 60 attempts
// (roughly three minutes of searching).
func NewDispatcher(matcher Matcher, providerRepo repository.ProviderRepository, notification *NotificationService, interval time.Duration, maxAttempts int) *Dispatcher {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 60
	}
	return &Dispatcher{
		matcher:      matcher,
		providerRepo: providerRepo,
		notification: notification,
		poller:       poll.Poller{Interval: interval, MaxAttempts: maxAttempts},
		watchers:     make(map[string]context.CancelFunc),
	}
}

// WatchOutcome reports how a watch ended.
type WatchOutcome struct {
	RequestID string
	Attempts  int
	Matched   bool
	Result    *MatchResult
	Err       error
}

// Watch starts the acceptance watch for a request. Starting a second
// watch for the same request is a no-op and returns false. The
// returned channel receives exactly one outcome.
func (d *Dispatcher) Watch(req *domain.ServiceRequest) (<-chan WatchOutcome, bool) {
	d.mu.Lock()
	if _, exists := d.watchers[req.ID]; exists {
		d.mu.Unlock()
		return nil, false
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.watchers[req.ID] = cancel
	d.mu.Unlock()

	outcome := make(chan WatchOutcome, 1)
	go d.run(ctx, req, outcome)
	return outcome, true
}

// Resume restarts the acceptance watch for every request that was
// still PENDENTE when the process started, so in-flight searches
// survive a restart. Returns the number of watches started.
func (d *Dispatcher) Resume(ctx context.Context, requests repository.RequestRepository) (int, error) {
	pending, err := requests.ListPending(ctx)
	if err != nil {
		return 0, err
	}

	started := 0
	for _, req := range pending {
		if _, ok := d.Watch(req); ok {
			started++
		}
	}
	if started > 0 {
		log.Printf("[DISPATCH] resumed %d pending searches", started)
	}
	return started, nil
}

// Cancel stops the watch for a request, if one is running. In-flight
// match attempts observe the cancelled context and their results are
// discarded.
func (d *Dispatcher) Cancel(requestID string) {
	d.mu.Lock()
	cancel, ok := d.watchers[requestID]
	if ok {
		delete(d.watchers, requestID)
	}
	d.mu.Unlock()

	if ok {
		cancel()
	}
}

// Watching reports whether a watch is active for the request.
func (d *Dispatcher) Watching(requestID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.watchers[requestID]
	return ok
}

func (d *Dispatcher) run(ctx context.Context, req *domain.ServiceRequest, outcome chan<- WatchOutcome) {
	defer d.Cancel(req.ID)

	var result *MatchResult
	attempts, err := d.poller.Run(ctx, func(ctx context.Context, attempt int) (bool, error) {
		r, matchErr := d.matcher.Match(ctx, MatchRequest{
			RequestID: req.ID,
			Lat:       req.OriginLat,
			Lng:       req.OriginLng,
		})
		if matchErr != nil {
			if errors.Is(matchErr, ErrNoProviderAvailable) {
				return false, nil
			}
			if errors.Is(matchErr, ErrRequestNotPending) {
				// Someone else moved the request (accept endpoint,
				// cancellation). Nothing left to watch.
				return true, nil
			}
			// Transient failure; retried on the next tick.
			log.Printf("[DISPATCH] request=%s attempt=%d match error: %v", req.ID, attempt, matchErr)
			return false, matchErr
		}
		result = r
		return true, nil
	})

	switch {
	case err == nil && result != nil:
		log.Printf("[DISPATCH] request=%s matched provider=%s after %d attempts", req.ID, result.ProviderID, attempts)
		d.notifyAssigned(result)
		outcome <- WatchOutcome{RequestID: req.ID, Attempts: attempts, Matched: true, Result: result}
	case errors.Is(err, poll.ErrAttemptsExhausted):
		log.Printf("[DISPATCH] request=%s search timed out after %d attempts", req.ID, attempts)
		if d.notification != nil {
			_ = d.notification.NotifySearchTimeout(context.Background(), req)
		}
		outcome <- WatchOutcome{RequestID: req.ID, Attempts: attempts, Err: err}
	default:
		// Cancelled, or the request left PENDENTE through another path.
		outcome <- WatchOutcome{RequestID: req.ID, Attempts: attempts, Err: err}
	}
}

// notifyAssigned fetches the matched provider's details and tells the
// requester. Best effort; the assignment itself is already committed.
func (d *Dispatcher) notifyAssigned(result *MatchResult) {
	if d.notification == nil || d.providerRepo == nil {
		return
	}
	provider, err := d.providerRepo.GetByID(context.Background(), result.ProviderID)
	if err != nil {
		log.Printf("[DISPATCH] request=%s provider lookup failed: %v", result.Request.ID, err)
		return
	}
	_ = d.notification.NotifyProviderAssigned(context.Background(), result.Request, provider)
}
