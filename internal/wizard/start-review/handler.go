// internal/wizard/start-review/handler.go
package startreview

import (
	"context"

	apperrors "grant-portal/internal/common/errors"
	"grant-portal/internal/common/logger"
	submitapplication "grant-portal/internal/wizard/submit-application"
)

const ListenerName = "start-review"

// Handler starts the review workflow for each recorded application. The
// workflow owns status changes from there on.
type Handler struct {
	config  *Config
	starter ProcessStarter
	logger  logger.Logger
}

var _ submitapplication.Listener = (*Handler)(nil)

func NewHandler(config *Config, starter ProcessStarter, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	return &Handler{
		config:  config,
		starter: starter,
		logger:  log.WithFields(map[string]interface{}{"listener": ListenerName}),
	}
}

func (h *Handler) Name() string { return ListenerName }

func (h *Handler) OnSubmitted(ctx context.Context, submission submitapplication.Submission) error {
	_, err := h.Execute(ctx, VariablesFromSubmission(submission))
	return err
}

func (h *Handler) Execute(ctx context.Context, vars Variables) (*Output, error) {
	key, err := h.starter.StartProcess(ctx, h.config.ProcessID, vars)
	if err != nil {
		return nil, apperrors.NewReviewStartFailedError(vars.Reference, err)
	}

	h.logger.Info("review started", map[string]interface{}{
		"reference":          vars.Reference,
		"processId":          h.config.ProcessID,
		"processInstanceKey": key,
	})
	return &Output{ProcessInstanceKey: key, ProcessID: h.config.ProcessID}, nil
}
