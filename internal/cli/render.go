package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/timetable"
)

const cellWidth = 16

var (
	colorBorder = lipgloss.Color("#3F4451")
	colorMuted  = lipgloss.Color("#636B78")
	colorTitle  = lipgloss.Color("#E06C75")
	colorWarn   = lipgloss.Color("#E5C07B")

	kindColors = map[timetable.Kind]lipgloss.Color{
		timetable.KindTheory:  lipgloss.Color("#61AFEF"),
		timetable.KindLab:     lipgloss.Color("#98C379"),
		timetable.KindLibrary: lipgloss.Color("#C678DD"),
		timetable.KindProject: lipgloss.Color("#D19A66"),
	}

	titleStyle = lipgloss.NewStyle().Foreground(colorTitle).Bold(true)

	baseCell = lipgloss.NewStyle().
			Width(cellWidth).
			Height(3).
			Padding(0, 1).
			Align(lipgloss.Center).
			Border(lipgloss.NormalBorder(), false, true, true, false).
			BorderForeground(colorBorder)

	headerCell = baseCell.Height(1).Bold(true)
	freeCell   = baseCell.Foreground(colorMuted)

	gridStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true, false, false, true).
			BorderForeground(colorBorder)

	warnStyle = lipgloss.NewStyle().Foreground(colorWarn)
)

// RenderTimetable draws the weekly grid followed by stats and any unplaced sessions.
func RenderTimetable(resp *dto.TimetableResponse) string {
	var b strings.Builder

	title := fmt.Sprintf("%s - %s  (seed %d)", resp.BranchLabel, resp.DivisionLabel, resp.Seed)
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	header := []string{headerCell.Render("Day")}
	for _, label := range resp.Slots {
		header = append(header, headerCell.Render(label))
	}
	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}

	for _, day := range resp.Days {
		cells := []string{baseCell.Bold(true).Render(day.Day)}
		for _, cell := range day.Cells {
			cells = append(cells, renderCell(cell))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	b.WriteString(gridStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
	b.WriteString("\n")

	b.WriteString(RenderStats(resp.Stats))
	b.WriteString("\n")
	if len(resp.Unplaced) > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d session(s) could not be placed:", len(resp.Unplaced))))
		b.WriteString("\n")
		for _, session := range resp.Unplaced {
			b.WriteString(warnStyle.Render(fmt.Sprintf("  - %s %s (%s)", session.CourseCode, session.TeacherCode, session.Kind)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderCell(cell *dto.TimetableCell) string {
	if cell == nil {
		return freeCell.Render("Free")
	}
	style := baseCell
	if color, ok := kindColors[timetable.Kind(cell.Type)]; ok {
		style = style.Foreground(color)
	}
	lines := []string{cell.Course, cell.Teacher}
	if cell.Room != "" {
		lines = append(lines, cell.Room)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// RenderStats formats the summary counters on one line.
func RenderStats(stats timetable.Stats) string {
	return fmt.Sprintf("Theory: %d  Labs: %d  Library: %d  Project: %d  Free: %d  Unplaced: %d",
		stats.TheorySessions, stats.LabSessions, stats.LibraryHours, stats.ProjectHours, stats.FreeSlots, stats.Unplaced)
}

// RenderLegend lists each session kind in its display colour.
func RenderLegend(entries []dto.LegendEntry) string {
	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		style := lipgloss.NewStyle()
		if color, ok := kindColors[timetable.Kind(entry.Type)]; ok {
			style = style.Foreground(color)
		}
		parts = append(parts, style.Render(fmt.Sprintf("■ %s (%s)", entry.Label, entry.Type)))
	}
	return strings.Join(parts, "   ")
}
