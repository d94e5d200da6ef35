// internal/wizard/form-session/session_test.go
package formsession

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"grant-portal/internal/common/config"
	apperrors "grant-portal/internal/common/errors"
	"grant-portal/internal/common/logger"
	"grant-portal/internal/models"
	"grant-portal/internal/store"
	fieldrules "grant-portal/internal/wizard/field-rules"
	stepdefinitions "grant-portal/internal/wizard/step-definitions"
	submitapplication "grant-portal/internal/wizard/submit-application"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var testNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	registry *Registry
	store    *store.MemoryStore
	config   *Config
}

func newTestEnv(t *testing.T, mutate func(cfg *Config)) *testEnv {
	t.Helper()
	clock := func() time.Time { return testNow }

	cfg := &Config{
		ValidationMode: config.ValidationModeOnBlur,
		SubmitDelay:    0,
		SessionTTL:     time.Hour,
		SweepInterval:  time.Minute,
		Now:            clock,
		Sleep:          func(time.Duration) {},
	}
	if mutate != nil {
		mutate(cfg)
	}

	appStore := store.NewMemoryStore(models.SeedApplications())
	pipeline := submitapplication.NewHandler(&submitapplication.Config{
		ReferenceStrategy: config.ReferenceStrategySequential,
		MaxAttempts:       3,
		ListenerTimeout:   time.Second,
		Now:               clock,
	}, appStore, submitapplication.NewSequentialGenerator(1), nil, logger.NewTestLogger(t))

	validator := fieldrules.NewValidator(&fieldrules.Config{Now: clock})
	registry := NewRegistry(cfg, validator, stepdefinitions.NewTable(), pipeline, logger.NewTestLogger(t))
	return &testEnv{registry: registry, store: appStore, config: cfg}
}

func personalValues() map[string]interface{} {
	return map[string]interface{}{
		models.FieldFullName: "Ada Lovelace",
		models.FieldEmail:    "ada@x.org",
		models.FieldPhone:    "+234 123 456 7890",
		models.FieldCountry:  "Nigeria",
		models.FieldRole:     "Founder",
	}
}

func organizationValues() map[string]interface{} {
	return map[string]interface{}{
		models.FieldOrgName:        "Analytical Engines Ltd",
		models.FieldOrgType:        "Startup",
		models.FieldYearFounded:    "2015",
		models.FieldOrgDescription: strings.Repeat("o", 120),
		models.FieldEmployees:      "12",
	}
}

func grantValues() map[string]interface{} {
	return map[string]interface{}{
		models.FieldGrantAmount:        "50000",
		models.FieldCurrency:           "USD",
		models.FieldProjectTitle:       "Coding Clubs",
		models.FieldProjectDescription: strings.Repeat("p", 220),
		models.FieldDuration:           "12 months",
		models.FieldFocusArea:          []interface{}{"Education"},
	}
}

func fill(t *testing.T, s *Session, values map[string]interface{}) {
	t.Helper()
	for k, v := range values {
		require.NoError(t, s.EditField(k, v))
	}
}

// toFinalStep fills every step and advances to the grant request step.
func toFinalStep(t *testing.T, s *Session) {
	t.Helper()
	ctx := context.Background()
	fill(t, s, personalValues())
	res, err := s.Advance(ctx)
	require.NoError(t, err)
	require.True(t, res.Advanced)
	fill(t, s, organizationValues())
	res, err = s.Advance(ctx)
	require.NoError(t, err)
	require.True(t, res.Advanced)
	fill(t, s, grantValues())
}

// ==========================
// Session Start Tests
// ==========================

func TestSession_StartsWithDefaults(t *testing.T) {
	env := newTestEnv(t, nil)
	snap := env.registry.Create().Snapshot()

	assert.Equal(t, StateEditing, snap.State)
	assert.Equal(t, 0, snap.Step.Index)
	assert.Equal(t, stepdefinitions.KeyPersonal, snap.Step.Key)
	assert.Len(t, snap.Steps, 3)
	assert.Equal(t, "", snap.Values[models.FieldFullName])
	assert.Equal(t, models.DefaultCurrency, snap.Values[models.FieldCurrency])
	assert.Equal(t, []string{}, snap.Values[models.FieldFocusArea])
	assert.Empty(t, snap.Errors)
	assert.Len(t, snap.StepValues, 5)
}

// ==========================
// Edit And Blur Tests
// ==========================

func TestSession_EditFieldDoesNotValidate(t *testing.T) {
	env := newTestEnv(t, nil)
	s := env.registry.Create()

	require.NoError(t, s.EditField(models.FieldEmail, "not-an-email"))

	snap := s.Snapshot()
	assert.Equal(t, "not-an-email", snap.Values[models.FieldEmail])
	assert.Empty(t, snap.Errors)
}

func TestSession_EditFieldUnknown(t *testing.T) {
	env := newTestEnv(t, nil)
	s := env.registry.Create()

	err := s.EditField("favouriteColour", "blue")

	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnknownField))
}

func TestSession_BlurValidatesOnlyThatField(t *testing.T) {
	env := newTestEnv(t, nil)
	s := env.registry.Create()
	require.NoError(t, s.EditField(models.FieldEmail, "not-an-email"))

	require.NoError(t, s.Blur(models.FieldEmail))
	assert.Equal(t, models.FieldErrors{models.FieldEmail: fieldrules.MsgInvalidEmail}, s.Snapshot().Errors)

	require.NoError(t, s.EditField(models.FieldEmail, "ada@x.org"))
	require.NoError(t, s.Blur(models.FieldEmail))
	assert.Empty(t, s.Snapshot().Errors)
}

func TestSession_ValidationModes(t *testing.T) {
	tests := []struct {
		mode         string
		errAfterEdit bool
		errAfterBlur bool
	}{
		{config.ValidationModeOnBlur, false, true},
		{config.ValidationModeOnChange, true, true},
		{config.ValidationModeOnSubmit, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			env := newTestEnv(t, func(cfg *Config) { cfg.ValidationMode = tt.mode })
			s := env.registry.Create()

			require.NoError(t, s.EditField(models.FieldFullName, "A"))
			assert.Equal(t, tt.errAfterEdit, len(s.Snapshot().Errors) > 0)

			require.NoError(t, s.Blur(models.FieldFullName))
			assert.Equal(t, tt.errAfterBlur, len(s.Snapshot().Errors) > 0)
		})
	}
}

// ==========================
// Advance And Retreat Tests
// ==========================

func TestSession_AdvanceBlockedOnStepZero(t *testing.T) {
	env := newTestEnv(t, nil)
	s := env.registry.Create()
	require.NoError(t, s.EditField(models.FieldFullName, "Ada Lovelace"))

	res, err := s.Advance(context.Background())

	require.NoError(t, err)
	assert.False(t, res.Advanced)
	snap := s.Snapshot()
	assert.Equal(t, 0, snap.Step.Index)
	assert.Equal(t, models.FieldErrors{
		models.FieldEmail:   fieldrules.MsgInvalidEmail,
		models.FieldPhone:   fieldrules.MsgInvalidPhone,
		models.FieldCountry: fieldrules.MsgSelectCountry,
		models.FieldRole:    fieldrules.MsgSelectRole,
	}, snap.Errors, "only step-0 fields are checked")
}

func TestSession_AdvanceAdaExample(t *testing.T) {
	env := newTestEnv(t, nil)
	s := env.registry.Create()
	fill(t, s, personalValues())

	res, err := s.Advance(context.Background())

	require.NoError(t, err)
	assert.True(t, res.Advanced)
	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Step.Index)
	assert.Equal(t, stepdefinitions.KeyOrganization, snap.Step.Key)
	assert.Empty(t, snap.Errors, "later steps are not validated")
}

func TestSession_AdvanceLeavesOtherErrorsAlone(t *testing.T) {
	env := newTestEnv(t, nil)
	s := env.registry.Create()
	fill(t, s, personalValues())
	require.NoError(t, s.EditField(models.FieldWebsite, "not a url"))
	require.NoError(t, s.Blur(models.FieldWebsite))

	res, err := s.Advance(context.Background())

	require.NoError(t, err)
	assert.True(t, res.Advanced)
	assert.Equal(t, models.FieldErrors{models.FieldWebsite: fieldrules.MsgInvalidURL}, s.Snapshot().Errors)
}

func TestSession_AdvanceBlockedOnOrganizationStep(t *testing.T) {
	env := newTestEnv(t, nil)
	s := env.registry.Create()
	fill(t, s, personalValues())
	_, _ = s.Advance(context.Background())
	fill(t, s, organizationValues())
	require.NoError(t, s.EditField(models.FieldEmployees, 0))

	res, err := s.Advance(context.Background())

	require.NoError(t, err)
	assert.False(t, res.Advanced)
	snap := s.Snapshot()
	assert.Equal(t, 1, snap.Step.Index)
	assert.Equal(t, models.FieldErrors{models.FieldEmployees: fieldrules.MsgEmployeesOutOfRange}, snap.StepErrors)
}

func TestSession_RetreatKeepsErrors(t *testing.T) {
	env := newTestEnv(t, nil)
	s := env.registry.Create()
	fill(t, s, personalValues())
	_, _ = s.Advance(context.Background())
	_, _ = s.Advance(context.Background()) // blocked, populates organization errors
	errorsBefore := s.Snapshot().Errors
	require.NotEmpty(t, errorsBefore)

	require.NoError(t, s.Retreat())

	snap := s.Snapshot()
	assert.Equal(t, 0, snap.Step.Index)
	assert.Equal(t, errorsBefore, snap.Errors)
}

func TestSession_RetreatClampedAtFirstStep(t *testing.T) {
	env := newTestEnv(t, nil)
	s := env.registry.Create()

	require.NoError(t, s.Retreat())

	assert.Equal(t, 0, s.Snapshot().Step.Index)
}

// ==========================
// Submission Tests
// ==========================

func TestSession_SubmitRequiresFinalStep(t *testing.T) {
	env := newTestEnv(t, nil)
	s := env.registry.Create()

	_, err := s.Submit(context.Background())

	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidTransition))
}

func TestSession_SubmitInvalidStaysEditing(t *testing.T) {
	env := newTestEnv(t, nil)
	s := env.registry.Create()
	toFinalStep(t, s)
	require.NoError(t, s.EditField(models.FieldFocusArea, []interface{}{}))
	require.NoError(t, s.EditField(models.FieldGrantAmount, "999"))

	res, err := s.Submit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, OutcomeInvalid, res.Outcome)
	assert.Equal(t, models.FieldErrors{
		models.FieldFocusArea:   fieldrules.MsgSelectFocusArea,
		models.FieldGrantAmount: fieldrules.MsgGrantAmountTooLow,
	}, res.Errors)
	snap := s.Snapshot()
	assert.Equal(t, StateEditing, snap.State)
	assert.Equal(t, 2, snap.Step.Index)
	assert.Equal(t, res.Errors, snap.Errors)
}

func TestSession_SubmitRecordsApplication(t *testing.T) {
	var completions []Completion
	env := newTestEnv(t, nil)
	env.registry.OnComplete(func(c Completion) { completions = append(completions, c) })
	s := env.registry.Create()
	toFinalStep(t, s)
	ctx := context.Background()
	before, _ := env.store.Stats(ctx)

	res, err := s.Submit(ctx)

	require.NoError(t, err)
	assert.Equal(t, OutcomeSubmitted, res.Outcome)
	assert.Equal(t, "APH-2025-00001", res.Reference)
	require.NotNil(t, res.Application)
	assert.Equal(t, "Coding Clubs", res.Application.ProjectName)
	assert.Equal(t, 50000.0, res.Application.Amount)

	apps, _ := env.store.List(ctx)
	assert.Equal(t, res.Reference, apps[0].ID)
	after, _ := env.store.Stats(ctx)
	assert.Equal(t, before.Total+1, after.Total)
	assert.Equal(t, before.Pending+1, after.Pending)

	snap := s.Snapshot()
	assert.Equal(t, StateSubmitted, snap.State)
	assert.Equal(t, res.Reference, snap.Reference)

	require.Len(t, completions, 1)
	assert.Equal(t, s.ID(), completions[0].SessionID)
	assert.Equal(t, res.Reference, completions[0].Reference)
	assert.Equal(t, "Ada Lovelace", completions[0].Values[models.FieldFullName])
}

func TestSession_AdvanceOnFinalStepSubmits(t *testing.T) {
	env := newTestEnv(t, nil)
	s := env.registry.Create()
	toFinalStep(t, s)

	res, err := s.Advance(context.Background())

	require.NoError(t, err)
	assert.True(t, res.Advanced)
	require.NotNil(t, res.Submit)
	assert.Equal(t, OutcomeSubmitted, res.Submit.Outcome)
	assert.Equal(t, StateSubmitted, s.State())
}

func TestSession_SubmittedIsTerminal(t *testing.T) {
	env := newTestEnv(t, nil)
	s := env.registry.Create()
	toFinalStep(t, s)
	_, err := s.Submit(context.Background())
	require.NoError(t, err)

	ctx := context.Background()
	_, err = s.Submit(ctx)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidTransition))
	_, err = s.Advance(ctx)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidTransition))
	assert.True(t, apperrors.HasCode(s.Retreat(), apperrors.ErrCodeInvalidTransition))
	assert.True(t, apperrors.HasCode(s.EditField(models.FieldFullName, "Eve"), apperrors.ErrCodeInvalidTransition))

	apps, _ := env.store.List(ctx)
	assert.Len(t, apps, 4)
}

func TestSession_DoubleSubmitRecordsOnce(t *testing.T) {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	env := newTestEnv(t, func(cfg *Config) {
		cfg.SubmitDelay = 2 * time.Second
		cfg.Sleep = func(time.Duration) {
			entered <- struct{}{}
			<-release
		}
	})
	s := env.registry.Create()
	toFinalStep(t, s)
	ctx := context.Background()

	var (
		first    *SubmitResult
		firstErr error
		wg       sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		first, firstErr = s.Submit(ctx)
	}()
	<-entered

	assert.Equal(t, StateSubmitting, s.Snapshot().State)
	second, err := s.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, second.Outcome)
	assert.True(t, apperrors.HasCode(s.EditField(models.FieldFullName, "Eve"), apperrors.ErrCodeInvalidTransition))

	close(release)
	wg.Wait()

	require.NoError(t, firstErr)
	assert.Equal(t, OutcomeSubmitted, first.Outcome)
	apps, _ := env.store.List(ctx)
	assert.Len(t, apps, 4, "exactly one new application")
}

func TestSession_SubmitSurvivesCancelledContext(t *testing.T) {
	env := newTestEnv(t, nil)
	s := env.registry.Create()
	toFinalStep(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := s.Submit(ctx)

	require.NoError(t, err)
	assert.Equal(t, OutcomeSubmitted, res.Outcome)
}

type failingPipeline struct{ err error }

func (p failingPipeline) Execute(context.Context, *submitapplication.Input) (*submitapplication.Output, error) {
	return nil, p.err
}

func TestSession_PipelineFailureReturnsToEditing(t *testing.T) {
	clock := func() time.Time { return testNow }
	registry := NewRegistry(&Config{Now: clock, Sleep: func(time.Duration) {}},
		fieldrules.NewValidator(&fieldrules.Config{Now: clock}),
		stepdefinitions.NewTable(),
		failingPipeline{err: apperrors.NewStoreAppendFailedError(errors.New("redis down"))},
		logger.NewTestLogger(t))
	s := registry.Create()
	toFinalStep(t, s)

	_, err := s.Submit(context.Background())

	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeStoreAppendFailed))
	snap := s.Snapshot()
	assert.Equal(t, StateEditing, snap.State)
	assert.Equal(t, 2, snap.Step.Index)
	assert.Equal(t, "Coding Clubs", snap.Values[models.FieldProjectTitle], "values kept for retry")
}
