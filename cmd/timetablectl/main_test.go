package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/service"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	cmd := newRootCommand()
	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["generate"])
	assert.True(t, names["legend"])
	assert.True(t, names["roster"])
}

func TestGenerateFlagDefaults(t *testing.T) {
	cmd := newGenerateCommand(&globalOptions{})
	branch, err := cmd.Flags().GetString("branch")
	require.NoError(t, err)
	assert.Equal(t, "computer-eng", branch)
	format, err := cmd.Flags().GetString("format")
	require.NoError(t, err)
	assert.Equal(t, formatTable, format)
	assert.False(t, cmd.Flags().Changed("seed"))
}

func TestLegendCommand(t *testing.T) {
	out, err := execute(t, "legend")
	require.NoError(t, err)
	assert.Contains(t, out, "Theory")
	assert.Contains(t, out, "Lab")
}

func TestRosterTemplateParsesBack(t *testing.T) {
	out, err := execute(t, "roster", "template")
	require.NoError(t, err)

	plan, err := service.ParsePlanYAML([]byte(out))
	require.NoError(t, err)
	assert.NotEmpty(t, plan.Entries)
	assert.NotEmpty(t, plan.Days)
}

func TestRosterImportRequiresFile(t *testing.T) {
	_, err := execute(t, "roster", "import")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file")
}

func TestWriteTimetableFormats(t *testing.T) {
	resp := &dto.TimetableResponse{
		Branch:   "computer-eng",
		Division: "div-a",
		Seed:     7,
		Slots:    []string{"09:00 - 10:00"},
		Days:     []dto.TimetableDay{{Day: "Monday", Cells: []*dto.TimetableCell{nil}}},
	}
	legend := []dto.LegendEntry{{Type: "TH", Label: "Theory"}}

	var table bytes.Buffer
	require.NoError(t, writeTimetable(&table, formatTable, resp, legend))
	assert.Contains(t, table.String(), "Monday")
	assert.Contains(t, table.String(), "Theory")

	var raw bytes.Buffer
	require.NoError(t, writeTimetable(&raw, formatJSON, resp, legend))
	var decoded dto.TimetableResponse
	require.NoError(t, json.Unmarshal(raw.Bytes(), &decoded))
	assert.Equal(t, int64(7), decoded.Seed)
	assert.Equal(t, "div-a", decoded.Division)
}
