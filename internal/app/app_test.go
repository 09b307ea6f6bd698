package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/pkg/config"
)

func TestNewStaticSourceNeedsNoConnections(t *testing.T) {
	cfg := &config.Config{
		Roster:    config.RosterConfig{Source: config.RosterSourceStatic},
		Scheduler: config.SchedulerConfig{TrialBudget: 50, PreferenceTrials: 30, MaxDailySessions: 2},
		Export:    config.ExportConfig{Timezone: "UTC"},
	}
	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Empty(t, a.Dependencies())
	assert.Equal(t, config.RosterSourceStatic, a.Roster.Source())

	seed := int64(1)
	resp, err := a.Timetable.Generate(context.Background(), dto.GenerateTimetableRequest{Branch: "it", Division: "div-a", Seed: &seed})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Seed)
}
