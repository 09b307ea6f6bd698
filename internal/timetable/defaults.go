package timetable

// DefaultDays is the teaching week.
var DefaultDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// DefaultDayLayout is the bell schedule including breaks.
var DefaultDayLayout = []LayoutSlot{
	{Slot: Slot{StartTime: "09:00", EndTime: "10:00"}, Type: SlotTypeClass},
	{Slot: Slot{StartTime: "10:00", EndTime: "11:00"}, Type: SlotTypeClass},
	{Slot: Slot{StartTime: "11:00", EndTime: "11:15"}, Type: SlotTypeBreak},
	{Slot: Slot{StartTime: "11:15", EndTime: "12:15"}, Type: SlotTypeClass},
	{Slot: Slot{StartTime: "12:15", EndTime: "13:15"}, Type: SlotTypeClass},
	{Slot: Slot{StartTime: "13:15", EndTime: "14:00"}, Type: SlotTypeLunch},
	{Slot: Slot{StartTime: "14:00", EndTime: "15:00"}, Type: SlotTypeClass},
	{Slot: Slot{StartTime: "15:00", EndTime: "16:00"}, Type: SlotTypeClass},
	{Slot: Slot{StartTime: "16:00", EndTime: "16:15"}, Type: SlotTypeBreak},
	{Slot: Slot{StartTime: "16:15", EndTime: "17:15"}, Type: SlotTypeClass},
}

// DefaultRoster is the built-in department roster.
var DefaultRoster = Roster{
	Entries: []RosterEntry{
		{TeacherCode: "PSK", TeacherName: "Prof. S. Kulkarni", CourseCode: "DSA", CourseName: "Data Structures and Algorithms", Kind: KindTheory},
		{TeacherCode: "RMJ", TeacherName: "Dr. R. M. Joshi", CourseCode: "DBMS", CourseName: "Database Management Systems", Kind: KindTheory},
		{TeacherCode: "AVD", TeacherName: "Prof. A. V. Deshmukh", CourseCode: "CN", CourseName: "Computer Networks", Kind: KindTheory},
		{TeacherCode: "NKP", TeacherName: "Dr. N. K. Patil", CourseCode: "TOC", CourseName: "Theory of Computation", Kind: KindTheory},
		{TeacherCode: "SGM", TeacherName: "Prof. S. G. More", CourseCode: "SE", CourseName: "Software Engineering", Kind: KindTheory},
		{TeacherCode: "PSK", TeacherName: "Prof. S. Kulkarni", CourseCode: "DSAL", CourseName: "Data Structures Laboratory", Kind: KindLab},
		{TeacherCode: "RMJ", TeacherName: "Dr. R. M. Joshi", CourseCode: "DBMSL", CourseName: "Database Laboratory", Kind: KindLab},
		{TeacherCode: "AVD", TeacherName: "Prof. A. V. Deshmukh", CourseCode: "CNL", CourseName: "Networks Laboratory", Kind: KindLab},
	},
	Rooms: Rooms{
		Theory: []string{"A-101", "A-102", "A-103"},
		Lab:    []string{"Lab-1", "Lab-2"},
	},
}

// Option is a selectable value with a display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Branches lists the departments a timetable can be generated for.
var Branches = []Option{
	{Value: "computer-eng", Label: "Computer Engineering"},
	{Value: "computer-software", Label: "Computer Engineering (Software)"},
	{Value: "aiml", Label: "AIML (Artificial Intelligence & Machine Learning)"},
	{Value: "ds", Label: "DS (Data Science)"},
	{Value: "entc", Label: "ENTC (Electronics & Telecommunication)"},
	{Value: "it", Label: "IT (Information Technology)"},
	{Value: "mechanical", Label: "Mechanical Engineering"},
	{Value: "chemical", Label: "Chemical Engineering"},
	{Value: "civil", Label: "Civil Engineering"},
}

// Divisions lists the divisions within a branch.
var Divisions = []Option{
	{Value: "div-a", Label: "Division A"},
	{Value: "div-b", Label: "Division B"},
	{Value: "div-c", Label: "Division C"},
}

// OptionLabel finds the label for value, reporting whether it is known.
func OptionLabel(options []Option, value string) (string, bool) {
	for _, opt := range options {
		if opt.Value == value {
			return opt.Label, true
		}
	}
	return "", false
}

// Plan bundles what a generation run reads: the roster, the teaching days
// and the bell schedule.
type Plan struct {
	Roster `yaml:",inline"`
	Days   []string     `json:"days" yaml:"days"`
	Layout []LayoutSlot `json:"layout" yaml:"layout"`
}

// DefaultPlan returns a copy of the built-in roster, week and day layout.
func DefaultPlan() Plan {
	return Plan{Roster: DefaultRoster}.WithDefaults()
}

// WithDefaults fills missing days and layout from the built-in week.
func (p Plan) WithDefaults() Plan {
	if len(p.Days) == 0 {
		p.Days = append([]string(nil), DefaultDays...)
	}
	if len(p.Layout) == 0 {
		p.Layout = append([]LayoutSlot(nil), DefaultDayLayout...)
	}
	return p
}

// UsesDefaultWeek reports whether days and layout match the built-in week.
func (p Plan) UsesDefaultWeek() bool {
	if len(p.Days) != len(DefaultDays) || len(p.Layout) != len(DefaultDayLayout) {
		return false
	}
	for i := range p.Days {
		if p.Days[i] != DefaultDays[i] {
			return false
		}
	}
	for i := range p.Layout {
		if p.Layout[i] != DefaultDayLayout[i] {
			return false
		}
	}
	return true
}

// Geometry returns the class slots of the plan's layout.
func (p Plan) Geometry() SlotGeometry {
	return ClassSlots(p.Layout)
}
