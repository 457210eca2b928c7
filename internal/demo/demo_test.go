package demo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrial_Available(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		startedAt time.Time
		want      bool
	}{
		{"never started", time.Time{}, true},
		{"started yesterday", now.Add(-24 * time.Hour), true},
		{"last day of the window", now.Add(-TrialPeriod + time.Hour), true},
		{"expired", now.Add(-TrialPeriod - time.Hour), false},
		{"expired long ago", now.Add(-365 * 24 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trial := Trial{StartedAt: tt.startedAt}
			assert.Equal(t, tt.want, trial.Available(now))
		})
	}
}

func TestTrial_ExpiresAt(t *testing.T) {
	t.Run("not started", func(t *testing.T) {
		_, ok := Trial{}.ExpiresAt()
		assert.False(t, ok)
	})

	t.Run("started", func(t *testing.T) {
		start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		expiry, ok := Trial{StartedAt: start}.ExpiresAt()
		require.True(t, ok)
		assert.Equal(t, start.Add(TrialPeriod), expiry)
	})
}

func TestTrial_DaysRemaining(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		startedAt time.Time
		want      int
	}{
		{"never started has the full window", time.Time{}, 30},
		{"one day in", now.Add(-24 * time.Hour), 29},
		{"partial day rounds up", now.Add(-36 * time.Hour), 29},
		{"expired", now.Add(-TrialPeriod - time.Hour), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trial := Trial{StartedAt: tt.startedAt}
			assert.Equal(t, tt.want, trial.DaysRemaining(now))
		})
	}
}

func TestStatusAt(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	start := now.Add(-24 * time.Hour)

	st := StatusAt(Trial{StartedAt: start}, true, now)
	assert.True(t, st.Enabled)
	assert.True(t, st.Available)
	assert.Equal(t, 29, st.DaysRemaining)
	require.NotNil(t, st.ExpiresAt)
	assert.Equal(t, start.Add(TrialPeriod), *st.ExpiresAt)

	st = StatusAt(Trial{}, false, now)
	assert.False(t, st.Enabled)
	assert.True(t, st.Available)
	assert.Nil(t, st.ExpiresAt)
}
