// internal/wizard/send-confirmation/handler.go
package sendconfirmation

import (
	"context"
	"time"

	awsclient "grant-portal/internal/common/aws"
	apperrors "grant-portal/internal/common/errors"
	"grant-portal/internal/common/logger"
	submitapplication "grant-portal/internal/wizard/submit-application"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
)

const ListenerName = "send-confirmation"

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Handler struct {
	config    *Config
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
	now       func() time.Time
}

var _ submitapplication.Listener = (*Handler)(nil)

// NewHandler wires the applicant confirmation. A nil client disables its
// channel regardless of config.
func NewHandler(config *Config, sesClient SESService, snsClient SNSService, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	return &Handler{
		config:    config,
		logger:    log.WithFields(map[string]interface{}{"listener": ListenerName}),
		sesClient: sesClient,
		snsClient: snsClient,
		now:       time.Now,
	}
}

func (h *Handler) Name() string { return ListenerName }

func (h *Handler) OnSubmitted(ctx context.Context, submission submitapplication.Submission) error {
	_, err := h.Execute(ctx, InputFromSubmission(submission))
	return err
}

// Execute sends the confirmation on every enabled channel. Each channel is
// attempted; the first failure is returned.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	body := Body(input)
	out := &Output{
		NotificationID: uuid.NewString(),
		Status:         StatusDisabled,
		Channels:       []string{},
		SentAt:         h.now().UTC().Format(time.RFC3339),
	}

	var firstErr error
	fail := func(channel string, err error) {
		h.logger.Error("confirmation send failed", map[string]interface{}{
			"channel":   channel,
			"reference": input.Reference,
			"error":     err,
		})
		if firstErr == nil {
			firstErr = apperrors.NewNotificationSendFailedError(channel, err)
		}
	}

	if h.emailEnabled() && input.Email != "" {
		subject := h.config.Subject
		if subject == "" {
			subject = DefaultSubject
		}
		_, err := h.sesClient.SendEmail(ctx, awsclient.PlainTextEmail(h.config.FromEmail, input.Email, subject, body))
		if err != nil {
			fail(ChannelEmail, err)
		} else {
			out.Channels = append(out.Channels, ChannelEmail)
		}
	}

	if h.smsEnabled() && input.Phone != "" {
		_, err := h.snsClient.Publish(ctx, awsclient.TransactionalSMS(e164(input.Phone), h.config.SenderID, body))
		if err != nil {
			fail(ChannelSMS, err)
		} else {
			out.Channels = append(out.Channels, ChannelSMS)
		}
	}

	if firstErr != nil {
		return nil, firstErr
	}
	if len(out.Channels) > 0 {
		out.Status = StatusSent
	}

	h.logger.Info("confirmation processed", map[string]interface{}{
		"reference": input.Reference,
		"status":    out.Status,
		"channels":  out.Channels,
	})
	return out, nil
}

func (h *Handler) emailEnabled() bool {
	return h.config.EmailEnabled && h.sesClient != nil
}

func (h *Handler) smsEnabled() bool {
	return h.config.SMSEnabled && h.snsClient != nil
}
