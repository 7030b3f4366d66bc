package studio

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"restyle-server/internal/domain"
)

// State names one phase of the generation lifecycle.
type State string

const (
	StateIdle      State = "IDLE"
	StatePending   State = "PENDING"
	StateSucceeded State = "SUCCEEDED"
	StateFailed    State = "FAILED"
)

// Snapshot is an immutable view of the controller at one point in time. A
// new attempt supersedes the previous outcome in full; results and failure
// details are never merged across attempts.
type Snapshot struct {
	State       State
	AttemptID   string
	Result      domain.ImageAsset
	ErrorDetail string
	UpdatedAt   time.Time
}

// GenerationClient is the boundary to the external image-generation
// capability. Implementations must return a descriptive error on failure;
// the detail text is surfaced to the user verbatim.
type GenerationClient interface {
	Generate(ctx context.Context, req EditRequest) (domain.ImageAsset, error)
}

// Controller owns the single-slot generation lifecycle:
// Idle -> Pending -> {Succeeded, Failed}, with terminal states re-entering
// Pending only through an explicit generate or retry trigger. At most one
// attempt is pending at any time; overlapping triggers are refused, not
// queued.
type Controller struct {
	client GenerationClient
	logger zerolog.Logger

	mu      sync.Mutex
	snap    Snapshot
	last    domain.Submission
	hasLast bool
	subs    map[chan Snapshot]struct{}
}

// NewController wires a controller to its generation client.
func NewController(client GenerationClient, logger zerolog.Logger) *Controller {
	return &Controller{
		client: client,
		logger: logger,
		snap:   Snapshot{State: StateIdle, UpdatedAt: time.Now()},
		subs:   make(map[chan Snapshot]struct{}),
	}
}

// Snapshot returns the current lifecycle state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Subscribe registers a listener for state changes. The returned cancel
// function must be called when the listener goes away. Slow listeners miss
// intermediate snapshots instead of blocking the controller; they can always
// re-read Snapshot.
func (c *Controller) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)
	c.mu.Lock()
	c.subs[ch] = struct{}{}
	c.mu.Unlock()

	cancel := func() {
		c.mu.Lock()
		delete(c.subs, ch)
		c.mu.Unlock()
	}
	return ch, cancel
}

// RequestGeneration validates the submission, assembles a frozen request and
// starts the asynchronous generation. While an attempt is pending it refuses
// with ErrGenerationPending and performs no work; the presentation layer is
// expected to disable its trigger, but the invariant does not depend on
// that. A validation rejection transitions to Failed without any external
// call. The returned notes describe non-fatal normalizations.
func (c *Controller) RequestGeneration(sub domain.Submission) ([]string, error) {
	c.mu.Lock()
	if c.snap.State == StatePending {
		c.mu.Unlock()
		c.logger.Debug().Msg("studio: generate trigger ignored, attempt already pending")
		return nil, domain.ErrGenerationPending
	}

	c.last = sub.Clone()
	c.hasLast = true

	n, err := Validate(sub)
	if err != nil {
		c.transitionLocked(Snapshot{State: StateFailed, ErrorDetail: err.Error()})
		c.mu.Unlock()
		return nil, err
	}

	req := Assemble(n)
	c.transitionLocked(Snapshot{State: StatePending, AttemptID: req.ID})
	c.mu.Unlock()

	c.logger.Info().
		Str("attempt_id", req.ID).
		Bool("preserve_body_shape", req.PreserveBodyShape).
		Int("reference_images", len(req.ReferenceImages())).
		Msg("studio: generation started")

	go c.run(req)
	return n.Notes, nil
}

// Retry re-runs generation from the most recent submission snapshot. It
// never reuses a stale EditRequest: the user may have changed fields since
// the last attempt, so validation and assembly run again.
func (c *Controller) Retry() ([]string, error) {
	c.mu.Lock()
	if c.snap.State == StatePending {
		c.mu.Unlock()
		return nil, domain.ErrGenerationPending
	}
	if !c.hasLast {
		c.mu.Unlock()
		return nil, domain.ErrNoSubmission
	}
	sub := c.last.Clone()
	c.mu.Unlock()

	return c.RequestGeneration(sub)
}

// run performs the external call for one attempt. The context deliberately
// outlives the triggering HTTP request; timeout policy lives in the client.
func (c *Controller) run(req EditRequest) {
	asset, err := c.client.Generate(context.Background(), req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snap.State != StatePending || c.snap.AttemptID != req.ID {
		// A stale completion; the single-slot invariant means this cannot
		// happen unless the controller was misused, so drop it.
		c.logger.Warn().Str("attempt_id", req.ID).Msg("studio: dropping stale generation outcome")
		return
	}

	if err != nil {
		c.transitionLocked(Snapshot{State: StateFailed, AttemptID: req.ID, ErrorDetail: err.Error()})
		c.logger.Error().Str("attempt_id", req.ID).Err(err).Msg("studio: generation failed")
		return
	}

	c.transitionLocked(Snapshot{State: StateSucceeded, AttemptID: req.ID, Result: asset})
	c.logger.Info().
		Str("attempt_id", req.ID).
		Str("media_type", asset.MediaType).
		Int("bytes", len(asset.Data)).
		Msg("studio: generation succeeded")
}

func (c *Controller) transitionLocked(next Snapshot) {
	next.UpdatedAt = time.Now()
	c.snap = next
	for ch := range c.subs {
		select {
		case ch <- next:
		default:
		}
	}
}
