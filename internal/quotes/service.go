package quotes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/JuanManuelMartinezAngel/asesfy2.0/internal/cart"
	pkgerrors "github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/errors"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/logger"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/metrics"
	"github.com/JuanManuelMartinezAngel/asesfy2.0/pkg/supabase"
)

const (
	defaultSuccessDisplay = 3 * time.Second
	defaultFailureMessage = "quote request could not be submitted"
)

// Outcome describes an accepted quote request.
type Outcome struct {
	Reference    string    `json:"reference"`
	Backend      string    `json:"backend"`
	ItemCount    int       `json:"item_count"`
	SubmittedAt  time.Time `json:"submitted_at"`
	SuccessUntil time.Time `json:"success_until"`
}

// Status is the submission state of one session.
type Status struct {
	Submitting bool   `json:"submitting"`
	Success    bool   `json:"success"`
	Reference  string `json:"reference,omitempty"`
	LastError  string `json:"last_error,omitempty"`
}

type sessionState struct {
	submitting   bool
	successUntil time.Time
	reference    string
	lastError    string
	draft        ContactForm
	lastSeen     time.Time
}

type cartStore interface {
	Get(sessionID string) (*cart.Cart, bool)
	Discard(sessionID string)
}

type ServiceParams struct {
	Carts          cartStore
	Submitter      Submitter
	SuccessDisplay time.Duration
	// IdleTTL drops per-session state unused for longer; 0 keeps it forever.
	IdleTTL time.Duration
	Metrics *metrics.QuoteMetrics
	Logger  *logger.Logger
	Clock   func() time.Time
}

// Service runs quote submissions. At most one submission per session is in flight.
type Service struct {
	carts          cartStore
	submitter      Submitter
	successDisplay time.Duration
	idleTTL        time.Duration
	metrics        *metrics.QuoteMetrics
	logg           *logger.Logger
	now            func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionState
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Carts == nil {
		return nil, errors.New("cart store is required")
	}
	if params.Submitter == nil {
		return nil, errors.New("quote submitter is required")
	}
	display := params.SuccessDisplay
	if display <= 0 {
		display = defaultSuccessDisplay
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		carts:          params.Carts,
		submitter:      params.Submitter,
		successDisplay: display,
		idleTTL:        params.IdleTTL,
		metrics:        params.Metrics,
		logg:           params.Logger,
		now:            clock,
		sessions:       map[string]*sessionState{},
	}, nil
}

// Backend returns the name of the configured submitter.
func (s *Service) Backend() string {
	return s.submitter.Name()
}

// Submit validates the form, snapshots the session cart and hands it to the backend.
// The backend call ignores cancellation of ctx. On failure the cart and draft are left
// untouched so the visitor can retry.
func (s *Service) Submit(ctx context.Context, sessionID string, form ContactForm) (Outcome, error) {
	backend := s.submitter.Name()

	s.mu.Lock()
	st := s.stateLocked(sessionID)
	st.draft = form
	s.mu.Unlock()

	if problems := form.Validate(); len(problems) > 0 {
		s.metrics.IncSubmission(backend, metrics.OutcomeRejected)
		return Outcome{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid contact details").WithDetails(problems)
	}

	c, ok := s.carts.Get(sessionID)
	if !ok || c.Len() == 0 {
		s.metrics.IncSubmission(backend, metrics.OutcomeRejected)
		return Outcome{}, pkgerrors.New(pkgerrors.CodeEmptyCart, "add at least one service before requesting a quote")
	}

	s.mu.Lock()
	if st.submitting {
		s.mu.Unlock()
		s.metrics.IncSubmission(backend, metrics.OutcomeInProgress)
		return Outcome{}, pkgerrors.New(pkgerrors.CodeSubmissionInProgress, "a quote request is already being submitted")
	}
	st.submitting = true
	st.lastError = ""
	st.successUntil = time.Time{}
	s.mu.Unlock()

	items := c.Items()
	if problems := itemProblems(items); len(problems) > 0 {
		s.finish(st, func(*sessionState) {})
		s.metrics.IncSubmission(backend, metrics.OutcomeRejected)
		return Outcome{}, pkgerrors.New(pkgerrors.CodeValidation, "some services are missing required details").WithDetails(problems)
	}
	if len(items) == 0 {
		s.finish(st, func(*sessionState) {})
		s.metrics.IncSubmission(backend, metrics.OutcomeRejected)
		return Outcome{}, pkgerrors.New(pkgerrors.CodeEmptyCart, "add at least one service before requesting a quote")
	}

	req := NewRequest(sessionID, form, items, s.now())
	req.RequestID = requestIDFrom(ctx)
	logCtx := ctx
	if s.logg != nil {
		logCtx = s.logg.WithSessionID(ctx, sessionID)
		logCtx = s.logg.WithQuoteReference(logCtx, req.Reference)
		logCtx = s.logg.WithFields(logCtx, map[string]any{"backend": backend, "item_count": len(items)})
	}

	started := time.Now()
	receipt, err := s.submitter.Submit(context.WithoutCancel(ctx), req)
	s.metrics.ObserveSubmission(backend, time.Since(started))

	if err != nil {
		message := FailureMessage(err)
		s.finish(st, func(st *sessionState) { st.lastError = message })
		s.metrics.IncSubmission(backend, metrics.OutcomeFailure)
		if s.logg != nil {
			s.logg.Error(logCtx, "quote submission failed", err)
		}
		return Outcome{}, pkgerrors.Wrap(pkgerrors.CodeSubmission, err, message).
			WithDetails(map[string]any{"message": message, "backend": backend})
	}

	// Only the submitted lines leave the cart; lines added while the backend call was
	// running belong to the next request.
	for _, item := range req.Items {
		c.RemoveItem(item.CartItemID)
	}

	now := s.now()
	outcome := Outcome{
		Reference:    receipt.Reference,
		Backend:      receipt.Backend,
		ItemCount:    len(req.Items),
		SubmittedAt:  now.UTC(),
		SuccessUntil: now.Add(s.successDisplay).UTC(),
	}
	s.finish(st, func(st *sessionState) {
		st.draft = ContactForm{}
		st.reference = outcome.Reference
		st.successUntil = outcome.SuccessUntil
	})
	s.metrics.IncSubmission(backend, metrics.OutcomeSuccess)
	if s.logg != nil {
		s.logg.Info(logCtx, "quote request submitted")
	}
	return outcome, nil
}

// Status reports whether a submission is pending, recently succeeded or failed.
func (s *Service) Status(sessionID string) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.sessions[sessionID]
	if !ok {
		return Status{}
	}
	success := !st.successUntil.IsZero() && s.now().Before(st.successUntil)
	out := Status{
		Submitting: st.submitting,
		Success:    success,
		LastError:  st.lastError,
	}
	if success {
		out.Reference = st.reference
	}
	return out
}

// Draft returns the last contact form submitted by the session.
func (s *Service) Draft(sessionID string) ContactForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sessions[sessionID]; ok {
		return st.draft
	}
	return ContactForm{}
}

// EndSession discards the session's cart and submission state. A session with a
// submission in flight cannot be ended.
func (s *Service) EndSession(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.sessions[sessionID]; ok && st.submitting {
		return pkgerrors.New(pkgerrors.CodeSubmissionInProgress, "a quote request is already being submitted")
	}
	delete(s.sessions, sessionID)
	s.carts.Discard(sessionID)
	return nil
}

func (s *Service) finish(st *sessionState, apply func(*sessionState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st.submitting = false
	apply(st)
	st.lastSeen = s.now()
}

func (s *Service) stateLocked(sessionID string) *sessionState {
	now := s.now()
	if s.idleTTL > 0 {
		for id, st := range s.sessions {
			if !st.submitting && now.Sub(st.lastSeen) > s.idleTTL {
				delete(s.sessions, id)
			}
		}
	}
	st, ok := s.sessions[sessionID]
	if !ok {
		st = &sessionState{}
		s.sessions[sessionID] = st
	}
	st.lastSeen = now
	return st
}

func itemProblems(items []cart.Item) map[string]any {
	out := map[string]any{}
	for i, item := range items {
		if problems := cart.ValidateDetails(item.Service, item.Details); len(problems) > 0 {
			out[fmt.Sprintf("items[%d]", i)] = map[string]any{
				"id":           item.ID,
				"service_code": item.Service.Code,
				"details":      problems,
			}
		}
	}
	return out
}

// FailureMessage extracts a human readable reason from a backend error.
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}
	if msg, ok := supabase.ErrorMessage(err); ok {
		return msg
	}
	if typed := pkgerrors.As(err); typed != nil {
		if cause := errors.Unwrap(typed); cause != nil {
			if msg := strings.TrimSpace(cause.Error()); msg != "" {
				return msg
			}
		}
		if msg := strings.TrimSpace(typed.Message()); msg != "" {
			return msg
		}
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return defaultFailureMessage
}

type requestIDKey struct{}

// WithRequestID tags ctx with the HTTP request id so stored quote events can
// be traced back to the request that produced them.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
