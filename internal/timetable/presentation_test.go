package timetable

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassSlotsFiltersBreaks(t *testing.T) {
	geometry := ClassSlots(DefaultDayLayout)
	require.Len(t, geometry, 7)
	assert.Equal(t, "09:00 - 10:00", geometry.FormatSlot(0))
	assert.Equal(t, "11:15 - 12:15", geometry.FormatSlot(2))
	assert.Equal(t, "", geometry.FormatSlot(7))
	assert.Equal(t, "", geometry.FormatSlot(-1))
	assert.Len(t, geometry.Labels(), 7)
}

func TestSlotClock(t *testing.T) {
	start, end, err := Slot{StartTime: "14:00", EndTime: "15:30"}.Clock()
	require.NoError(t, err)
	assert.Equal(t, 14*time.Hour, start)
	assert.Equal(t, 15*time.Hour+30*time.Minute, end)

	_, _, err = Slot{StartTime: "2pm", EndTime: "3pm"}.Clock()
	assert.Error(t, err)
}

func TestClassColorAndBadge(t *testing.T) {
	assert.Contains(t, ClassColor(KindTheory), "blue")
	assert.Contains(t, ClassColor(KindLab), "green")
	assert.Contains(t, ClassColor(KindLibrary), "purple")
	assert.Contains(t, ClassColor(KindProject), "orange")
	assert.Contains(t, ClassColor(Kind("OTHER")), "gray")
	assert.Equal(t, "bg-green-100 text-green-800", TypeBadge(KindLab))
	assert.Equal(t, "bg-gray-100 text-gray-800", TypeBadge(""))
	assert.Equal(t, "Laboratory", KindLabel(KindLab))
}

func TestComputeStatsGroupsLabPairs(t *testing.T) {
	engine := NewEngine(DefaultEngineConfig())
	pool := BuildSessionPool(DefaultRoster, CatalogOptions{})
	result, err := engine.Place(pool, DefaultDays, ClassSlots(DefaultDayLayout), rand.New(rand.NewSource(9)))
	require.NoError(t, err)

	unplaced := map[Kind]int{}
	for _, session := range result.Unplaced {
		unplaced[session.Kind]++
	}
	stats := ComputeStats(result)
	assert.Equal(t, 15-unplaced[KindTheory], stats.TheorySessions)
	assert.Equal(t, 6-unplaced[KindLab], stats.LabSessions)
	assert.Equal(t, 2-unplaced[KindLibrary], stats.LibraryHours)
	assert.Equal(t, 2-unplaced[KindProject], stats.ProjectHours)
	assert.Equal(t, len(result.Unplaced), stats.Unplaced)
	assert.Equal(t, 35-len(result.Grid.Occupied()), stats.FreeSlots)

	assert.Equal(t, Stats{}, ComputeStats(nil))
}

func TestOptionLabel(t *testing.T) {
	label, ok := OptionLabel(Branches, "aiml")
	require.True(t, ok)
	assert.Contains(t, label, "AIML")
	_, ok = OptionLabel(Divisions, "div-z")
	assert.False(t, ok)
}
