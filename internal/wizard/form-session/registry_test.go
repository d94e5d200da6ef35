// internal/wizard/form-session/registry_test.go
package formsession

import (
	"context"
	"testing"
	"time"

	apperrors "grant-portal/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CreateGetDiscard(t *testing.T) {
	env := newTestEnv(t, nil)
	s := env.registry.Create()

	got, err := env.registry.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, env.registry.Len())

	require.NoError(t, env.registry.Discard(s.ID()))
	_, err = env.registry.Get(s.ID())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeSessionNotFound))
	assert.True(t, apperrors.HasCode(env.registry.Discard(s.ID()), apperrors.ErrCodeSessionNotFound))
}

func TestRegistry_SessionsAreIndependent(t *testing.T) {
	env := newTestEnv(t, nil)
	a := env.registry.Create()
	b := env.registry.Create()
	require.NotEqual(t, a.ID(), b.ID())

	require.NoError(t, a.EditField("fullName", "Ada Lovelace"))

	assert.Equal(t, "", b.Snapshot().Values["fullName"])
}

func TestRegistry_Sweep(t *testing.T) {
	env := newTestEnv(t, nil)
	stale := env.registry.Create()
	fresh := env.registry.Create()

	later := testNow.Add(2 * time.Hour)
	env.registry.deps.config.Now = func() time.Time { return later }
	// Touch one session at the later time so only the other is idle.
	require.NoError(t, fresh.EditField("fullName", "Ada"))

	removed := env.registry.Sweep(later.Add(30 * time.Minute))

	assert.Equal(t, 1, removed)
	_, err := env.registry.Get(stale.ID())
	assert.Error(t, err)
	_, err = env.registry.Get(fresh.ID())
	assert.NoError(t, err)
}

func TestRegistry_RunStopsWithContext(t *testing.T) {
	env := newTestEnv(t, func(cfg *Config) { cfg.SweepInterval = 5 * time.Millisecond })
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		env.registry.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
