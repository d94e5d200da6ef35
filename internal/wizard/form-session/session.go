// internal/wizard/form-session/session.go
package formsession

import (
	"context"
	"fmt"
	"sync"
	"time"

	"grant-portal/internal/common/config"
	apperrors "grant-portal/internal/common/errors"
	"grant-portal/internal/common/logger"
	"grant-portal/internal/common/metrics"
	"grant-portal/internal/models"
	fieldrules "grant-portal/internal/wizard/field-rules"
	stepdefinitions "grant-portal/internal/wizard/step-definitions"
	submitapplication "grant-portal/internal/wizard/submit-application"
)

// deps are shared by every session of a registry.
type deps struct {
	config     *Config
	validator  Validator
	steps      *stepdefinitions.Table
	pipeline   Pipeline
	logger     logger.Logger
	onComplete func(Completion)
}

// Session is one applicant's pass through the wizard. All transitions are
// serialized on mu; the submit delay and pipeline run without it so readers
// observe the submitting state.
type Session struct {
	id   string
	deps *deps

	mu          sync.Mutex
	state       State
	step        int
	values      models.FieldValues
	errors      models.FieldErrors
	reference   string
	application *models.Application
	createdAt   time.Time
	touchedAt   time.Time
}

func newSession(id string, d *deps) *Session {
	now := d.config.Now()
	return &Session{
		id:        id,
		deps:      d,
		state:     StateEditing,
		values:    models.NewFieldValues(),
		errors:    make(models.FieldErrors),
		createdAt: now,
		touchedAt: now,
	}
}

func (s *Session) ID() string { return s.id }

// EditField stores value under name. It only validates in onChange mode.
func (s *Session) EditField(name string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireEditing("edit field"); err != nil {
		return err
	}
	if !models.IsFormField(name) {
		return apperrors.NewUnknownFieldError(name)
	}

	s.values[name] = fieldrules.NormalizeValue(name, value)
	if s.deps.config.ValidationMode == config.ValidationModeOnChange {
		s.revalidate(name)
	}
	s.touch()
	return nil
}

// Blur validates name when the field loses focus, unless the session only
// validates on submit.
func (s *Session) Blur(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireEditing("blur field"); err != nil {
		return err
	}
	if !models.IsFormField(name) {
		return apperrors.NewUnknownFieldError(name)
	}

	if s.deps.config.ValidationMode != config.ValidationModeOnSubmit {
		s.revalidate(name)
	}
	s.touch()
	return nil
}

// Advance moves to the next step when the current step's required fields
// pass. On the final step it submits instead.
func (s *Session) Advance(ctx context.Context) (*AdvanceResult, error) {
	s.mu.Lock()
	if err := s.requireEditing("advance"); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	if s.deps.steps.IsFinal(s.step) {
		s.mu.Unlock()
		result, err := s.Submit(ctx)
		if err != nil {
			return nil, err
		}
		return &AdvanceResult{Advanced: result.Outcome == OutcomeSubmitted, Submit: result}, nil
	}
	defer s.mu.Unlock()

	from := s.step
	required := s.deps.steps.RequiredFields(from)
	s.revalidate(required...)
	s.touch()

	for _, f := range required {
		if _, failed := s.errors[f]; failed {
			metrics.StepTransitions.WithLabelValues(s.stepKey(from), "forward", "blocked").Inc()
			s.deps.logger.Debug("advance blocked", map[string]interface{}{
				"sessionId": s.id,
				"step":      from,
				"errors":    len(s.errors.Subset(required)),
			})
			return &AdvanceResult{Advanced: false}, nil
		}
	}

	s.step = s.deps.steps.Clamp(from + 1)
	metrics.StepTransitions.WithLabelValues(s.stepKey(from), "forward", "advanced").Inc()
	return &AdvanceResult{Advanced: true}, nil
}

// Retreat moves back one step without validating. It is a no-op on the
// first step.
func (s *Session) Retreat() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireEditing("retreat"); err != nil {
		return err
	}
	from := s.step
	s.step = s.deps.steps.Clamp(from - 1)
	s.touch()

	outcome := "moved"
	if s.step == from {
		outcome = "clamped"
	}
	metrics.StepTransitions.WithLabelValues(s.stepKey(from), "back", outcome).Inc()
	return nil
}

// Submit validates the whole form and, when it passes, waits out the submit
// delay and records the application. A call made while another submission
// of this session is in flight returns OutcomeIgnored and does nothing.
//
// Cancelling ctx does not abort an accepted submission.
func (s *Session) Submit(ctx context.Context) (*SubmitResult, error) {
	s.mu.Lock()
	switch s.state {
	case StateSubmitting:
		s.mu.Unlock()
		metrics.Submissions.WithLabelValues(string(OutcomeIgnored)).Inc()
		return &SubmitResult{Outcome: OutcomeIgnored}, nil
	case StateSubmitted:
		s.mu.Unlock()
		return nil, apperrors.NewInvalidTransitionError("submit", string(StateSubmitted))
	}
	if !s.deps.steps.IsFinal(s.step) {
		step := s.step
		s.mu.Unlock()
		return nil, apperrors.NewInvalidTransitionError("submit", fmt.Sprintf("on step %d", step))
	}

	form, errs := s.deps.validator.Normalize(s.values)
	s.errors = errs.Clone()
	s.touch()
	if len(errs) > 0 {
		s.countFailures(errs)
		s.mu.Unlock()
		metrics.Submissions.WithLabelValues(string(OutcomeInvalid)).Inc()
		return &SubmitResult{Outcome: OutcomeInvalid, Errors: errs.Clone()}, nil
	}

	s.state = StateSubmitting
	values := s.values.Clone()
	s.mu.Unlock()

	start := time.Now()
	s.deps.config.Sleep(s.deps.config.SubmitDelay)

	out, err := s.deps.pipeline.Execute(context.WithoutCancel(ctx), &submitapplication.Input{
		SessionID: s.id,
		Form:      form,
	})

	s.mu.Lock()
	if err != nil {
		s.state = StateEditing
		s.touch()
		s.mu.Unlock()
		metrics.Submissions.WithLabelValues("failed").Inc()
		s.deps.logger.Error("submission failed", map[string]interface{}{
			"sessionId": s.id,
			"error":     err.Error(),
		})
		return nil, err
	}

	app := out.Application
	s.state = StateSubmitted
	s.reference = out.Reference
	s.application = &app
	// The form has been handed over; only the reference outlives it.
	s.values = models.FieldValues{}
	s.errors = make(models.FieldErrors)
	s.touch()
	s.mu.Unlock()

	metrics.Submissions.WithLabelValues(string(OutcomeSubmitted)).Inc()
	metrics.SubmissionDuration.Observe(time.Since(start).Seconds())

	if s.deps.onComplete != nil {
		s.deps.onComplete(Completion{
			SessionID:   s.id,
			Reference:   out.Reference,
			Values:      values,
			Application: app,
		})
	}

	return &SubmitResult{Outcome: OutcomeSubmitted, Reference: out.Reference, Application: &app}, nil
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	steps := s.deps.steps.Steps()
	summaries := make([]StepSummary, len(steps))
	for i, st := range steps {
		summaries[i] = StepSummary{Index: i, Key: st.Key, Label: st.Label}
	}
	display := s.deps.steps.DisplayFields(s.step)

	values := s.values.Clone()
	return Snapshot{
		ID:         s.id,
		State:      s.state,
		Step:       summaries[s.step],
		Steps:      summaries,
		Values:     values,
		StepValues: values.Subset(display),
		Errors:     s.errors.Clone(),
		StepErrors: s.errors.Subset(display),
		Reference:  s.reference,
		CreatedAt:  s.createdAt,
		UpdatedAt:  s.touchedAt,
	}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// idleSince reports the last touch and whether the session may be swept.
func (s *Session) idleSince() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touchedAt, s.state != StateSubmitting
}

// revalidate re-checks fields and replaces exactly their entries in the
// error set. Caller holds mu.
func (s *Session) revalidate(fields ...string) {
	errs := s.deps.validator.Validate(s.values, fields...)
	for _, f := range fields {
		if msg, failed := errs[f]; failed {
			s.errors[f] = msg
			metrics.FieldValidationFailures.WithLabelValues(f).Inc()
			continue
		}
		delete(s.errors, f)
	}
}

func (s *Session) countFailures(errs models.FieldErrors) {
	for f := range errs {
		metrics.FieldValidationFailures.WithLabelValues(f).Inc()
	}
}

// Caller holds mu.
func (s *Session) requireEditing(operation string) error {
	if s.state != StateEditing {
		return apperrors.NewInvalidTransitionError(operation, string(s.state))
	}
	return nil
}

func (s *Session) stepKey(index int) string {
	step, err := s.deps.steps.At(index)
	if err != nil {
		return "unknown"
	}
	return step.Key
}

// Caller holds mu.
func (s *Session) touch() {
	s.touchedAt = s.deps.config.Now()
}
