// internal/wizard/submit-application/handler.go
package submitapplication

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "grant-portal/internal/common/errors"
	"grant-portal/internal/common/logger"
	"grant-portal/internal/common/metrics"
	"grant-portal/internal/common/observability"
	"grant-portal/internal/models"
	"grant-portal/internal/store"
)

const (
	TaskType = "submit-application"
)

type Handler struct {
	config    *Config
	store     store.ApplicationStore
	refs      ReferenceGenerator
	listeners []Listener
	obs       *observability.Observability
	logger    logger.Logger
}

func NewHandler(config *Config, appStore store.ApplicationStore, refs ReferenceGenerator, obs *observability.Observability, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	if refs == nil {
		refs = NewReferenceGenerator(config.ReferenceStrategy, 1)
	}
	return &Handler{
		config: config,
		store:  appStore,
		refs:   refs,
		obs:    obs,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// AddListener registers l to run after each recorded submission, in
// registration order.
func (h *Handler) AddListener(l Listener) {
	h.listeners = append(h.listeners, l)
}

// Execute records the validated form as a Pending application and returns
// its reference. Only store failures are returned as errors.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.Form == nil {
		return nil, apperrors.NewInvalidRequestError("submission has no validated form")
	}

	start := time.Now()
	now := h.config.Now().UTC()

	app, err := h.append(ctx, input.Form, now)
	if err != nil {
		h.obs.RecordSubmission(ctx, time.Since(start), "failed")
		return nil, err
	}
	h.obs.RecordSubmission(ctx, time.Since(start), "recorded")
	h.obs.RecordApplicationAppended(ctx, h.store.Name())

	h.logger.Info("application recorded", map[string]interface{}{
		"reference": app.ID,
		"sessionId": input.SessionID,
		"amount":    app.Amount,
		"currency":  app.Currency,
		"store":     h.store.Name(),
	})

	h.notify(ctx, Submission{
		SessionID:   input.SessionID,
		Reference:   app.ID,
		Application: app,
		Form:        *input.Form,
	})

	return &Output{Reference: app.ID, Application: app}, nil
}

func (h *Handler) append(ctx context.Context, form *models.ApplicationForm, now time.Time) (models.Application, error) {
	attempts := h.config.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		app := buildApplication(h.refs.Next(now.Year()), form, now)

		id, err := h.store.Append(ctx, app)
		if err == nil {
			app.ID = id
			return app, nil
		}
		if !errors.Is(err, store.ErrDuplicateID) {
			return models.Application{}, apperrors.NewStoreAppendFailedError(err)
		}

		h.logger.Warn("reference already taken, regenerating", map[string]interface{}{
			"reference": app.ID,
			"attempt":   attempt,
		})
	}

	return models.Application{}, apperrors.NewStoreAppendFailedError(
		fmt.Errorf("no unused reference after %d attempts", attempts))
}

func buildApplication(reference string, form *models.ApplicationForm, now time.Time) models.Application {
	currency := form.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}
	return models.Application{
		ID:          reference,
		ProjectName: form.ProjectTitle,
		Amount:      form.GrantAmount,
		Currency:    currency,
		Date:        models.DateJustNow,
		Status:      models.StatusPending,
		SubmittedAt: now,
	}
}

// notify runs every listener with its own timeout. The submission is already
// recorded, so a failing listener is only logged.
func (h *Handler) notify(ctx context.Context, submission Submission) {
	base := context.WithoutCancel(ctx)
	for _, l := range h.listeners {
		lctx, cancel := context.WithTimeout(base, h.config.ListenerTimeout)
		err := l.OnSubmitted(lctx, submission)
		cancel()
		if err != nil {
			metrics.ListenerFailures.WithLabelValues(l.Name()).Inc()
			h.logger.Warn("post-submit listener failed", map[string]interface{}{
				"listener":  l.Name(),
				"reference": submission.Reference,
				"error":     err.Error(),
			})
		}
	}
}
