package generation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/scholarai/scholar/internal/api"
	"github.com/scholarai/scholar/internal/appstate"
	"github.com/scholarai/scholar/internal/logging"
	"github.com/scholarai/scholar/internal/model"
)

// ErrTimeout is returned when a generation does not finish in time.
var ErrTimeout = errors.New("generation timed out")

// FailedError reports a generation the server gave up on.
type FailedError struct {
	ID     string
	Reason string
}

func (e *FailedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("generation %s failed", e.ID)
	}
	return fmt.Sprintf("generation %s failed: %s", e.ID, e.Reason)
}

// PollOptions configures a Poller.
type PollOptions struct {
	Fetcher     Fetcher
	Interval    time.Duration
	MaxInterval time.Duration
	Multiplier  float64
	Timeout     time.Duration
	Logger      *zap.SugaredLogger
}

// Poller waits for generations to complete.
type Poller struct {
	fetch       Fetcher
	interval    time.Duration
	maxInterval time.Duration
	multiplier  float64
	timeout     time.Duration
	log         *zap.SugaredLogger
}

// NewPoller creates a Poller. Zero durations fall back to 2s, 15s and 5m.
func NewPoller(opts PollOptions) *Poller {
	p := &Poller{
		fetch:       opts.Fetcher,
		interval:    opts.Interval,
		maxInterval: opts.MaxInterval,
		multiplier:  opts.Multiplier,
		timeout:     opts.Timeout,
		log:         logging.OrNop(opts.Logger),
	}
	if p.interval <= 0 {
		p.interval = 2 * time.Second
	}
	if p.maxInterval < p.interval {
		p.maxInterval = max(p.interval, 15*time.Second)
	}
	if p.multiplier < 1 {
		p.multiplier = 1.5
	}
	if p.timeout <= 0 {
		p.timeout = 5 * time.Minute
	}
	return p
}

// Wait polls the assessment until it is ready, has failed, or the poll
// timeout elapses. Transient fetch errors are logged and retried; missing
// credentials end the wait immediately.
func (p *Poller) Wait(ctx context.Context, id string) (model.Assessment, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	for attempt := 0; ; attempt++ {
		a, err := p.fetch.GetAssessment(ctx, id)
		switch {
		case err == nil && a.Status == model.AssessmentFailed:
			return a, &FailedError{ID: id, Reason: a.FailureReason}
		case err == nil && a.Ready():
			p.log.Debugw("generation finished", "assessment", id, "polls", attempt+1)
			return a, nil
		case err == nil:
			p.log.Debugw("generation still running", "assessment", id, "status", a.Status)
		case ctx.Err() != nil:
			return model.Assessment{}, p.stopped(ctx, id)
		case !retryable(err):
			return model.Assessment{}, err
		default:
			p.log.Warnw("poll generation failed", "assessment", id, "attempt", attempt+1, "error", err)
		}

		select {
		case <-ctx.Done():
			return model.Assessment{}, p.stopped(ctx, id)
		case <-time.After(p.backoff(attempt)):
		}
	}
}

func (p *Poller) stopped(ctx context.Context, id string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("assessment %s after %s: %w", id, p.timeout, ErrTimeout)
	}
	return ctx.Err()
}

func retryable(err error) bool {
	if errors.Is(err, api.ErrNotAuthenticated) {
		return false
	}
	var inv *api.InvalidResponseError
	if errors.As(err, &inv) {
		return false
	}
	switch api.StatusCode(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return false
	}
	return true
}

// backoff grows the interval geometrically up to the maximum and adds ±20%
// jitter.
func (p *Poller) backoff(attempt int) time.Duration {
	wait := float64(p.interval) * math.Pow(p.multiplier, float64(attempt))
	if wait > float64(p.maxInterval) {
		wait = float64(p.maxInterval)
	}
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}

// Resolve waits for generation id and records the outcome in c. A finished
// assessment replaces the placeholder and becomes current; a failed one is
// marked failed. The placeholder is left pending on timeout.
func Resolve(ctx context.Context, p *Poller, c *appstate.Container, id string) (model.Assessment, error) {
	a, err := p.Wait(ctx, id)
	var failed *FailedError
	switch {
	case errors.As(err, &failed):
		c.UpdateAssessments(func(as []model.Assessment) []model.Assessment {
			for i := range as {
				if as[i].ID == id {
					as[i].Status = model.AssessmentFailed
					as[i].FailureReason = failed.Reason
				}
			}
			return as
		})
		return a, err
	case err != nil:
		return model.Assessment{}, err
	}

	if local, ok := c.Assessment(id); ok && len(a.SourceFiles) == 0 {
		a.SourceFiles = local.SourceFiles
	}
	c.UpsertAssessment(a)
	c.SetCurrentAssessment(&a)
	return a, nil
}
