// internal/wizard/form-session/models.go
package formsession

import (
	"context"
	"time"

	"grant-portal/internal/models"
	submitapplication "grant-portal/internal/wizard/submit-application"
)

// State of a form session. A rejected advance is not a state of its own; it
// only leaves errors behind.
type State string

const (
	StateEditing    State = "editing"
	StateSubmitting State = "submitting"
	StateSubmitted  State = "submitted"
)

// SubmitOutcome tells the caller what a submit call did.
type SubmitOutcome string

const (
	OutcomeSubmitted SubmitOutcome = "submitted"
	OutcomeInvalid   SubmitOutcome = "invalid"
	// OutcomeIgnored means a submission was already in flight.
	OutcomeIgnored SubmitOutcome = "ignored"
)

type SubmitResult struct {
	Outcome     SubmitOutcome       `json:"outcome"`
	Reference   string              `json:"reference,omitempty"`
	Application *models.Application `json:"application,omitempty"`
	Errors      models.FieldErrors  `json:"errors,omitempty"`
}

// AdvanceResult reports a step move. On the final step advancing submits,
// and Submit carries that result.
type AdvanceResult struct {
	Advanced bool          `json:"advanced"`
	Submit   *SubmitResult `json:"submit,omitempty"`
}

// Completion is signalled once per session when it reaches submitted.
type Completion struct {
	SessionID   string
	Reference   string
	Values      models.FieldValues
	Application models.Application
}

type StepSummary struct {
	Index int    `json:"index"`
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Snapshot is a consistent copy of a session for rendering.
type Snapshot struct {
	ID         string             `json:"id"`
	State      State              `json:"state"`
	Step       StepSummary        `json:"step"`
	Steps      []StepSummary      `json:"steps"`
	Values     models.FieldValues `json:"values"`
	StepValues models.FieldValues `json:"stepValues"`
	Errors     models.FieldErrors `json:"errors"`
	StepErrors models.FieldErrors `json:"stepErrors"`
	Reference  string             `json:"reference,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// Validator is the part of the field rule set a session needs.
type Validator interface {
	Validate(values models.FieldValues, fields ...string) models.FieldErrors
	Normalize(values models.FieldValues) (*models.ApplicationForm, models.FieldErrors)
}

// Pipeline records a validated form.
type Pipeline interface {
	Execute(ctx context.Context, input *submitapplication.Input) (*submitapplication.Output, error)
}
