// internal/wizard/submit-application/handler_test.go
package submitapplication

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"grant-portal/internal/common/config"
	apperrors "grant-portal/internal/common/errors"
	"grant-portal/internal/common/logger"
	"grant-portal/internal/models"
	"grant-portal/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return &Config{
		ReferenceStrategy: "sequential",
		MaxAttempts:       3,
		ListenerTimeout:   time.Second,
		Now:               func() time.Time { return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func createValidForm() *models.ApplicationForm {
	return &models.ApplicationForm{
		FullName:     "Ada Lovelace",
		Email:        "ada@x.org",
		GrantAmount:  50000,
		Currency:     "NGN",
		ProjectTitle: "Coding Clubs",
		FocusArea:    []string{"Education"},
	}
}

type failingStore struct {
	store.ApplicationStore
	err error
}

func (s *failingStore) Append(context.Context, models.Application) (string, error) {
	return "", s.err
}

type recordingListener struct {
	name        string
	err         error
	submissions []Submission
	deadlineSet bool
}

func (l *recordingListener) Name() string { return l.name }

func (l *recordingListener) OnSubmitted(ctx context.Context, s Submission) error {
	_, l.deadlineSet = ctx.Deadline()
	l.submissions = append(l.submissions, s)
	return l.err
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_RecordsPendingApplication(t *testing.T) {
	appStore := store.NewMemoryStore(models.SeedApplications())
	h := NewHandler(createTestConfig(), appStore, NewSequentialGenerator(1), nil, logger.NewTestLogger(t))
	ctx := context.Background()
	before, _ := appStore.Stats(ctx)

	out, err := h.Execute(ctx, &Input{SessionID: "s-1", Form: createValidForm()})

	require.NoError(t, err)
	assert.Equal(t, "APH-2025-00001", out.Reference)
	assert.Equal(t, out.Reference, out.Application.ID)
	assert.Equal(t, "Coding Clubs", out.Application.ProjectName)
	assert.Equal(t, 50000.0, out.Application.Amount)
	assert.Equal(t, "NGN", out.Application.Currency)
	assert.Equal(t, models.StatusPending, out.Application.Status)
	assert.Equal(t, models.DateJustNow, out.Application.Date)

	apps, _ := appStore.List(ctx)
	assert.Equal(t, out.Application, apps[0])

	after, _ := appStore.Stats(ctx)
	assert.Equal(t, before.Total+1, after.Total)
	assert.Equal(t, before.Pending+1, after.Pending)
}

func TestHandler_Execute_RandomReferenceFormat(t *testing.T) {
	cfg := createTestConfig()
	cfg.ReferenceStrategy = "random"
	h := NewHandler(cfg, store.NewMemoryStore(nil), nil, nil, logger.NewNoOpLogger())

	out, err := h.Execute(context.Background(), &Input{Form: createValidForm()})

	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^APH-2025-\d{5}$`), out.Reference)
}

func TestHandler_Execute_RegeneratesOnDuplicate(t *testing.T) {
	appStore := store.NewMemoryStore(nil)
	_, err := appStore.Append(context.Background(), models.Application{ID: "APH-2025-00001", Amount: 1, Status: models.StatusPending})
	require.NoError(t, err)

	h := NewHandler(createTestConfig(), appStore, NewSequentialGenerator(1), nil, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{Form: createValidForm()})

	require.NoError(t, err)
	assert.Equal(t, "APH-2025-00002", out.Reference)
}

func TestHandler_Execute_GivesUpAfterMaxAttempts(t *testing.T) {
	h := NewHandler(createTestConfig(), &failingStore{err: store.ErrDuplicateID}, NewSequentialGenerator(1), nil, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{Form: createValidForm()})

	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeStoreAppendFailed))
}

func TestHandler_Execute_StoreFailure(t *testing.T) {
	listener := &recordingListener{name: "email"}
	h := NewHandler(createTestConfig(), &failingStore{err: errors.New("connection refused")}, nil, nil, logger.NewTestLogger(t))
	h.AddListener(listener)

	out, err := h.Execute(context.Background(), &Input{Form: createValidForm()})

	assert.Nil(t, out)
	require.Error(t, err)
	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeStoreAppendFailed, stdErr.Code)
	assert.Contains(t, stdErr.Details, "connection refused")
	assert.Empty(t, listener.submissions, "listeners only run after a recorded submission")
}

func TestHandler_Execute_RejectsMissingForm(t *testing.T) {
	h := NewHandler(createTestConfig(), store.NewMemoryStore(nil), nil, nil, logger.NewNoOpLogger())

	_, err := h.Execute(context.Background(), &Input{})

	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidRequest))
}

// ==========================
// Listener Tests
// ==========================

func TestHandler_Execute_NotifiesListeners(t *testing.T) {
	first := &recordingListener{name: "email"}
	second := &recordingListener{name: "review"}
	h := NewHandler(createTestConfig(), store.NewMemoryStore(nil), NewSequentialGenerator(7), nil, logger.NewTestLogger(t))
	h.AddListener(first)
	h.AddListener(second)

	out, err := h.Execute(context.Background(), &Input{SessionID: "s-9", Form: createValidForm()})
	require.NoError(t, err)

	for _, l := range []*recordingListener{first, second} {
		require.Len(t, l.submissions, 1, l.name)
		assert.Equal(t, out.Reference, l.submissions[0].Reference)
		assert.Equal(t, "s-9", l.submissions[0].SessionID)
		assert.Equal(t, "Ada Lovelace", l.submissions[0].Form.FullName)
		assert.True(t, l.deadlineSet)
	}
}

func TestHandler_Execute_ListenerFailureIsNotSurfaced(t *testing.T) {
	failing := &recordingListener{name: "sms", err: errors.New("throttled")}
	after := &recordingListener{name: "review"}
	h := NewHandler(createTestConfig(), store.NewMemoryStore(nil), nil, nil, logger.NewTestLogger(t))
	h.AddListener(failing)
	h.AddListener(after)

	out, err := h.Execute(context.Background(), &Input{Form: createValidForm()})

	require.NoError(t, err)
	assert.NotEmpty(t, out.Reference)
	assert.Len(t, after.submissions, 1)
}

func TestHandler_Execute_ListenersSurviveCancelledRequest(t *testing.T) {
	listener := &recordingListener{name: "email"}
	h := NewHandler(createTestConfig(), store.NewMemoryStore(nil), nil, nil, logger.NewNoOpLogger())
	h.AddListener(listener)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.Execute(ctx, &Input{Form: createValidForm()})

	require.NoError(t, err)
	require.Len(t, listener.submissions, 1)
}

// ==========================
// Reference Generator Tests
// ==========================

func TestSequentialGenerator(t *testing.T) {
	g := NewSequentialGenerator(99998)
	assert.Equal(t, "APH-2025-99998", g.Next(2025))
	assert.Equal(t, "APH-2025-99999", g.Next(2025))
	assert.Equal(t, "APH-2025-00000", g.Next(2025))
}

func TestConfigFromWizard(t *testing.T) {
	cfg := ConfigFromWizard(config.WizardConfig{
		ReferenceStrategy:    config.ReferenceStrategySequential,
		MaxReferenceAttempts: 9,
		ListenerTimeout:      250,
	})

	assert.Equal(t, "sequential", cfg.ReferenceStrategy)
	assert.Equal(t, 9, cfg.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.ListenerTimeout)
}
