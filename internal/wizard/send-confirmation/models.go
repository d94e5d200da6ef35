// internal/wizard/send-confirmation/models.go
package sendconfirmation

import (
	"fmt"
	"strconv"
	"strings"

	submitapplication "grant-portal/internal/wizard/submit-application"
)

const DefaultSubject = "We received your grant application"

type Input struct {
	Reference    string  `json:"reference"`
	FullName     string  `json:"fullName"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	Currency     string  `json:"currency"`
	GrantAmount  float64 `json:"grantAmount"`
	ProjectTitle string  `json:"projectTitle"`
}

type Output struct {
	NotificationID string   `json:"notificationId"`
	Status         string   `json:"status"` // "sent", "failed", "disabled"
	Channels       []string `json:"channels"`
	SentAt         string   `json:"sentAt"` // ISO 8601
}

const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)

// InputFromSubmission picks the applicant contact and request summary.
func InputFromSubmission(s submitapplication.Submission) *Input {
	return &Input{
		Reference:    s.Reference,
		FullName:     s.Form.FullName,
		Email:        s.Form.Email,
		Phone:        s.Form.Phone,
		Currency:     s.Form.Currency,
		GrantAmount:  s.Form.GrantAmount,
		ProjectTitle: s.Form.ProjectTitle,
	}
}

// Message is the thank-you text shown to the applicant after submitting.
func Message(in *Input) string {
	return fmt.Sprintf("Thank you, %s. We have received your request for %s %s for \"%s\".",
		in.FullName, in.Currency, strconv.FormatFloat(in.GrantAmount, 'f', -1, 64), in.ProjectTitle)
}

// Body appends the reference id to Message.
func Body(in *Input) string {
	return Message(in) + "\n\nReference ID: " + in.Reference
}

var phoneSeparators = strings.NewReplacer(" ", "", "-", "")

// e164 drops the separators the phone rule allows.
func e164(phone string) string {
	return phoneSeparators.Replace(phone)
}
