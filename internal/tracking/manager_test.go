package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestManager(store *fakeStore, sink *fakeSink) *Manager {
	sources := make(map[string]*ReportSource)
	return NewManager(store, sink, func(providerID string) PositionSource {
		if src, ok := sources[providerID]; ok {
			return src
		}
		src := NewReportSource()
		src.Report(bangalore())
		sources[providerID] = src
		return src
	}, testOpts())
}

func TestManager_StartStop(t *testing.T) {
	ctx := context.Background()

	t.Run("Start then stop round trip", func(t *testing.T) {
		store := &fakeStore{}
		m := newTestManager(store, &fakeSink{})

		assert.NoError(t, m.StartSharing(ctx, "prov-1", "booking-1"))
		state, _, ok := m.Status("prov-1", "booking-1")
		assert.Equal(t, StateSharing, state)
		assert.True(t, ok)

		assert.NoError(t, m.StopSharing(ctx, "prov-1", "booking-1"))
		state, _, _ = m.Status("prov-1", "booking-1")
		assert.Equal(t, StateIdle, state)
		assert.Equal(t, 1, store.deactivateCount())
	})

	t.Run("Duplicate start rejected", func(t *testing.T) {
		m := newTestManager(&fakeStore{}, &fakeSink{})

		assert.NoError(t, m.StartSharing(ctx, "prov-1", "booking-1"))
		assert.ErrorIs(t, m.StartSharing(ctx, "prov-1", "booking-1"), ErrAlreadySharing)
		_ = m.StopSharing(ctx, "prov-1", "booking-1")
	})

	t.Run("Pairs are independent", func(t *testing.T) {
		m := newTestManager(&fakeStore{}, &fakeSink{})

		assert.NoError(t, m.StartSharing(ctx, "prov-1", "booking-1"))
		assert.NoError(t, m.StartSharing(ctx, "prov-1", "booking-2"))
		_ = m.StopSharing(ctx, "prov-1", "booking-1")

		state, _, _ := m.Status("prov-1", "booking-2")
		assert.Equal(t, StateSharing, state)
		_ = m.StopSharing(ctx, "prov-1", "booking-2")
	})

	t.Run("Stopping an unknown pair still deactivates the row", func(t *testing.T) {
		store := &fakeStore{}
		m := newTestManager(store, &fakeSink{})

		assert.NoError(t, m.StopSharing(ctx, "prov-9", "booking-9"))
		assert.Equal(t, 1, store.deactivateCount())
	})
}

func TestManager_Report(t *testing.T) {
	ctx := context.Background()

	t.Run("Fix routed to the live session", func(t *testing.T) {
		store := &fakeStore{}
		m := newTestManager(store, &fakeSink{})

		assert.NoError(t, m.StartSharing(ctx, "prov-1", "booking-1"))
		initial := store.upsertCount()

		accepted := m.Report("prov-1", "booking-1", bangalore())
		assert.True(t, accepted)
		assert.Eventually(t, func() bool { return store.upsertCount() > initial }, time.Second, 10*time.Millisecond)
		_ = m.StopSharing(ctx, "prov-1", "booking-1")
	})

	t.Run("Fix without a session is dropped", func(t *testing.T) {
		m := newTestManager(&fakeStore{}, &fakeSink{})
		assert.False(t, m.Report("prov-1", "booking-1", bangalore()))
		assert.False(t, m.Fail("prov-1", "booking-1", ErrUnavailable))
	})

	t.Run("Fatal device failure idles the session", func(t *testing.T) {
		m := newTestManager(&fakeStore{}, &fakeSink{})

		assert.NoError(t, m.StartSharing(ctx, "prov-1", "booking-1"))
		assert.True(t, m.Fail("prov-1", "booking-1", ErrPermissionDenied))
		assert.Eventually(t, func() bool {
			state, _, _ := m.Status("prov-1", "booking-1")
			return state == StateIdle
		}, time.Second, 10*time.Millisecond)
	})
}

func TestManager_ForceUpdate(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	m := newTestManager(store, &fakeSink{})

	assert.NoError(t, m.ForceUpdate(ctx, "prov-1", "booking-1"))
	assert.Equal(t, 1, store.upsertCount())

	state, _, _ := m.Status("prov-1", "booking-1")
	assert.Equal(t, StateIdle, state)
}
