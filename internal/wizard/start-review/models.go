// internal/wizard/start-review/models.go
package startreview

import (
	"context"
	"time"

	submitapplication "grant-portal/internal/wizard/submit-application"
)

const DefaultProcessID = "grant-application-review"

// ProcessStarter creates workflow instances. Implemented by camunda.Client.
type ProcessStarter interface {
	StartProcess(ctx context.Context, processID string, variables interface{}) (int64, error)
}

// Variables seed the review process instance.
type Variables struct {
	Reference    string   `json:"reference"`
	ProjectName  string   `json:"projectName"`
	Amount       float64  `json:"amount"`
	Currency     string   `json:"currency"`
	Status       string   `json:"status"`
	SubmittedAt  string   `json:"submittedAt"` // ISO 8601
	FullName     string   `json:"fullName"`
	Email        string   `json:"email"`
	OrgName      string   `json:"orgName"`
	OrgType      string   `json:"orgType"`
	Country      string   `json:"country"`
	Duration     string   `json:"duration"`
	FocusArea    []string `json:"focusArea"`
	AttachedFile string   `json:"attachedFile,omitempty"`
}

type Output struct {
	ProcessInstanceKey int64  `json:"processInstanceKey"`
	ProcessID          string `json:"processId"`
}

// VariablesFromSubmission flattens a recorded submission for the workflow.
func VariablesFromSubmission(s submitapplication.Submission) Variables {
	return Variables{
		Reference:    s.Reference,
		ProjectName:  s.Application.ProjectName,
		Amount:       s.Application.Amount,
		Currency:     s.Application.Currency,
		Status:       string(s.Application.Status),
		SubmittedAt:  s.Application.SubmittedAt.UTC().Format(time.RFC3339),
		FullName:     s.Form.FullName,
		Email:        s.Form.Email,
		OrgName:      s.Form.OrgName,
		OrgType:      s.Form.OrgType,
		Country:      s.Form.Country,
		Duration:     s.Form.Duration,
		FocusArea:    s.Form.FocusArea,
		AttachedFile: s.Form.FileName,
	}
}
