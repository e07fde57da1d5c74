package upload

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"medreport/internal/report"
	"medreport/internal/shared/metrics"
	"medreport/internal/shared/telemetry"
)

// State is a step of the upload flow.
type State string

const (
	StateIdle              State = "idle"
	StateValidating        State = "validating"
	StateSubmitting        State = "submitting"
	StateInvalid           State = "invalid"
	StateSuccess           State = "success"
	StateDomainRejected    State = "domain_rejected"
	StateServiceError      State = "service_error"
	StateTransportError    State = "transport_error"
	StateMalformedResponse State = "malformed_response"
)

// Committer receives decoded results. session.Store implements it.
type Committer interface {
	Set(ctx context.Context, result *report.AnalysisResult) error
}

// Indicator is told when a network call starts and ends.
type Indicator interface {
	Busy(busy bool)
}

// IndicatorFunc adapts a function to Indicator.
type IndicatorFunc func(busy bool)

func (f IndicatorFunc) Busy(busy bool) { f(busy) }

type noopIndicator struct{}

func (noopIndicator) Busy(bool) {}

// Outcome is the terminal result of one Submit.
type Outcome struct {
	State    State                  `json:"state"`
	Kind     Kind                   `json:"kind,omitempty"`
	Notice   string                 `json:"notice,omitempty"`
	Result   *report.AnalysisResult `json:"-"`
	Navigate bool                   `json:"navigate"`
}

// Config wires a Controller.
type Config struct {
	Analyzer       Analyzer
	Store          Committer
	Indicator      Indicator
	MaxUploadBytes int64
	SessionID      string
}

// Controller drives one session's file to result flow.
type Controller struct {
	analyzer  Analyzer
	store     Committer
	indicator Indicator
	maxBytes  int64
	sessionID string

	inFlight atomic.Bool
	mu       sync.RWMutex
	state    State
	now      func() time.Time
}

func NewController(cfg Config) *Controller {
	indicator := cfg.Indicator
	if indicator == nil {
		indicator = noopIndicator{}
	}
	return &Controller{
		analyzer:  cfg.Analyzer,
		store:     cfg.Store,
		indicator: indicator,
		maxBytes:  cfg.MaxUploadBytes,
		sessionID: cfg.SessionID,
		state:     StateIdle,
		now:       time.Now,
	}
}

// State reports where the controller currently is.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Submit validates file, sends it for analysis once and commits the result.
// The returned error is nil only on success; Outcome is always filled in.
// A second call while one is running fails with ErrSubmitInFlight and makes no request.
func (c *Controller) Submit(ctx context.Context, file *File) (Outcome, error) {
	if !c.inFlight.CompareAndSwap(false, true) {
		return Outcome{State: c.State(), Notice: ErrSubmitInFlight.Error()}, ErrSubmitInFlight
	}
	defer c.inFlight.Store(false)
	defer c.setState(StateIdle)

	c.setState(StateValidating)
	kind, err := c.validate(file)
	if err != nil {
		out := Outcome{State: StateInvalid, Notice: err.Error()}
		c.finish(out, file, 0, err)
		return out, err
	}

	if kind == KindPDF {
		c.preflight(ctx, file)
	}

	c.setState(StateSubmitting)
	env, elapsed, err := c.call(ctx, kind, file)

	out, err := c.resolve(ctx, kind, env, err)
	c.finish(out, file, elapsed, err)
	return out, err
}

func (c *Controller) call(ctx context.Context, kind Kind, file *File) (Envelope, time.Duration, error) {
	c.indicator.Busy(true)
	defer c.indicator.Busy(false)

	start := c.now()
	env, err := c.analyzer.Analyze(ctx, kind, file)
	return env, c.now().Sub(start), err
}

func (c *Controller) validate(file *File) (Kind, error) {
	if file == nil || (file.Name == "" && len(file.Data) == 0) {
		return "", &ValidationError{Reason: ReasonNoFile, Message: MsgNoFile}
	}
	if c.maxBytes > 0 && file.Size() > c.maxBytes {
		return "", &ValidationError{Reason: ReasonTooLarge, Message: MsgTooLarge}
	}
	return Classify(file.Name, file.MediaType)
}

func (c *Controller) resolve(ctx context.Context, kind Kind, env Envelope, callErr error) (Outcome, error) {
	if callErr != nil {
		var te *TransportError
		if !errors.As(callErr, &te) {
			callErr = &TransportError{Op: "POST " + kind.Endpoint(), Err: callErr}
		}
		return Outcome{State: StateTransportError, Kind: kind, Notice: "Error uploading file: " + callErr.Error()}, callErr
	}

	if !env.Success {
		svcErr := &ServiceError{Kind: kind, Message: env.Error}
		return Outcome{State: StateServiceError, Kind: kind, Notice: serviceNotice(kind, env.Error)}, svcErr
	}

	result, err := report.Decode(env.Text())
	if err != nil {
		return Outcome{State: StateMalformedResponse, Kind: kind, Notice: "Error uploading file: " + err.Error()}, err
	}

	c.commit(ctx, result)

	if result.Rejected() {
		msg := result.RejectionMessage()
		return Outcome{State: StateDomainRejected, Kind: kind, Notice: msg, Result: result}, &RejectionError{Message: msg}
	}
	return Outcome{State: StateSuccess, Kind: kind, Result: result, Navigate: true}, nil
}

// commit hands the result to the session. A persist failure is logged; the
// store still holds the new value in memory.
func (c *Controller) commit(ctx context.Context, result *report.AnalysisResult) {
	if c.store == nil {
		return
	}
	if err := c.store.Set(ctx, result); err != nil {
		telemetry.Error("upload.commit_failed", map[string]any{
			"session_id": c.sessionID,
			"error":      err.Error(),
		})
	}
}

func (c *Controller) preflight(ctx context.Context, file *File) {
	summary, err := InspectPDF(ctx, file.Data)
	if err != nil {
		telemetry.Info("upload.pdf_preflight", map[string]any{
			"session_id": c.sessionID,
			"file_name":  file.Name,
			"readable":   false,
			"error":      err.Error(),
		})
		return
	}
	telemetry.Info("upload.pdf_preflight", map[string]any{
		"session_id": c.sessionID,
		"file_name":  file.Name,
		"readable":   true,
		"pages":      summary.Pages,
		"text_chars": summary.TextChars,
	})
}

func (c *Controller) finish(out Outcome, file *File, elapsed time.Duration, err error) {
	metrics.RecordSubmission(string(out.Kind), string(out.State), elapsed)

	fields := map[string]any{
		"session_id":  c.sessionID,
		"kind":        string(out.Kind),
		"state":       string(out.State),
		"bytes":       file.Size(),
		"duration_ms": float64(elapsed.Microseconds()) / 1000.0,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	switch out.State {
	case StateSuccess, StateDomainRejected, StateInvalid:
		telemetry.Info("upload.complete", fields)
	default:
		telemetry.Error("upload.failed", fields)
	}
}

func serviceNotice(kind Kind, msg string) string {
	if kind == KindImage {
		return "Error uploading image: " + msg
	}
	return "Error processing PDF: " + msg
}
