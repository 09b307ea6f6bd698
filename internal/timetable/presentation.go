package timetable

// ClassColor returns the cell styling token for a session kind.
func ClassColor(kind Kind) string {
	switch kind {
	case KindTheory:
		return "bg-blue-50 border-l-4 border-l-blue-500 hover:bg-blue-100"
	case KindLab:
		return "bg-green-50 border-l-4 border-l-green-500 hover:bg-green-100"
	case KindLibrary:
		return "bg-purple-50 border-l-4 border-l-purple-500 hover:bg-purple-100"
	case KindProject:
		return "bg-orange-50 border-l-4 border-l-orange-500 hover:bg-orange-100"
	default:
		return "bg-gray-50 border-l-4 border-l-gray-300 hover:bg-gray-100"
	}
}

// TypeBadge returns the badge styling token for a session kind.
func TypeBadge(kind Kind) string {
	switch kind {
	case KindTheory:
		return "bg-blue-100 text-blue-800"
	case KindLab:
		return "bg-green-100 text-green-800"
	case KindLibrary:
		return "bg-purple-100 text-purple-800"
	case KindProject:
		return "bg-orange-100 text-orange-800"
	default:
		return "bg-gray-100 text-gray-800"
	}
}

// KindLabel is the human readable legend name.
func KindLabel(kind Kind) string {
	switch kind {
	case KindTheory:
		return "Theory"
	case KindLab:
		return "Laboratory"
	case KindLibrary:
		return "Library"
	case KindProject:
		return "Project"
	default:
		return string(kind)
	}
}

// Stats aggregates a generated grid for summary display.
type Stats struct {
	TheorySessions int `json:"theorySessions"`
	LabSessions    int `json:"labSessions"`
	LibraryHours   int `json:"libraryHours"`
	ProjectHours   int `json:"projectHours"`
	FreeSlots      int `json:"freeSlots"`
	Unplaced       int `json:"unplaced"`
}

// ComputeStats counts cells by kind. Lab sessions are counted by placement
// group so a pair always counts once.
func ComputeStats(result *PlacementResult) Stats {
	var stats Stats
	if result == nil || result.Grid == nil {
		return stats
	}
	labs := make(map[int]struct{})
	for _, day := range result.Grid.Cells {
		for _, cell := range day {
			if cell == nil {
				stats.FreeSlots++
				continue
			}
			switch cell.Kind {
			case KindTheory:
				stats.TheorySessions++
			case KindLab:
				labs[cell.Placement] = struct{}{}
			case KindLibrary:
				stats.LibraryHours++
			case KindProject:
				stats.ProjectHours++
			}
		}
	}
	stats.LabSessions = len(labs)
	stats.Unplaced = len(result.Unplaced)
	return stats
}

// FillColor is the document background for a session kind.
func FillColor(kind Kind) string {
	switch kind {
	case KindTheory:
		return "#DBEAFE"
	case KindLab:
		return "#DCFCE7"
	case KindLibrary:
		return "#F3E8FF"
	case KindProject:
		return "#FFEDD5"
	default:
		return ""
	}
}
