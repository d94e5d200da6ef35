// internal/wizard/submit-application/models.go
package submitapplication

import (
	"context"

	"grant-portal/internal/models"
)

type Input struct {
	SessionID string
	Form      *models.ApplicationForm
}

type Output struct {
	Reference   string             `json:"reference"`
	Application models.Application `json:"application"`
}

// Submission is handed to every Listener once the application is recorded.
type Submission struct {
	SessionID   string
	Reference   string
	Application models.Application
	Form        models.ApplicationForm
}

// Listener reacts to a recorded submission. Failures are logged and never
// undo the submission.
type Listener interface {
	Name() string
	OnSubmitted(ctx context.Context, submission Submission) error
}
