package model

// WeekPattern tags a time block with a weekly rotation. A block tagged
// PatternDefault applies every week; PatternA / PatternB apply only in the
// matching rotation week.
type WeekPattern string

const (
	PatternDefault WeekPattern = "default"
	PatternA       WeekPattern = "A"
	PatternB       WeekPattern = "B"
)

// Matches reports whether a block carrying pattern p applies when computing
// the schedule for the requested pattern. Untagged and default blocks apply
// to every requested pattern.
func (p WeekPattern) Matches(requested WeekPattern) bool {
	if p == "" || p == PatternDefault {
		return true
	}
	return p == requested
}

// BlockType classifies a recurring time block.
type BlockType string

const (
	BlockWork     BlockType = "work"
	BlockPersonal BlockType = "personal"
	BlockCommute  BlockType = "commute"
	BlockMeal     BlockType = "meal"
	BlockOther    BlockType = "other"
)

// CognitiveType classifies the kind of mental effort a task demands.
type CognitiveType string

const (
	CognitiveDeepWork    CognitiveType = "deep_work"
	CognitiveLearning    CognitiveType = "learning"
	CognitiveCreative    CognitiveType = "creative"
	CognitiveAdmin       CognitiveType = "admin"
	CognitiveShallowWork CognitiveType = "shallow_work"
)

// EnergyCost is the user's energy posture for a session.
type EnergyCost string

const (
	EnergyHighOctane EnergyCost = "high_octane"
	EnergyBalanced   EnergyCost = "balanced"
	EnergyRecovery   EnergyCost = "recovery"
)

// Archetype is the coarse goal shape used to pick a duration baseline.
type Archetype string

const (
	ArchetypeHabitBuilding    Archetype = "HABIT_BUILDING"
	ArchetypeDeepWorkProject  Archetype = "DEEP_WORK_PROJECT"
	ArchetypeSkillAcquisition Archetype = "SKILL_ACQUISITION"
	ArchetypeMaintenance      Archetype = "MAINTENANCE"
)

// EventType classifies where a calendar event came from.
type EventType string

const (
	EventTask     EventType = "task"
	EventBlocked  EventType = "blocked"
	EventImported EventType = "imported"
)

// TimeBlock is a recurring weekly block of occupied time (work, commute,
// meals, ...). Start and End are "HH:MM" local clock strings on the same
// day; a block whose end is not strictly after its start contributes
// nothing to availability math.
type TimeBlock struct {
	ID         string      `yaml:"id" json:"id"`
	Title      string      `yaml:"title" json:"title"`
	Days       []int       `yaml:"days" json:"days"` // weekday indices 0-6, Sunday = 0
	Start      string      `yaml:"start" json:"start"`
	End        string      `yaml:"end" json:"end"`
	Type       BlockType   `yaml:"type" json:"type"`
	IsFlexible bool        `yaml:"is_flexible" json:"is_flexible"`
	Pattern    WeekPattern `yaml:"week_pattern" json:"week_pattern"`
}

// DateException overrides availability for a single calendar date.
type DateException struct {
	Date   string `yaml:"date" json:"date"` // "YYYY-MM-DD"
	Reason string `yaml:"reason" json:"reason"`
}

// TimeConstraints is the user's real-world time shape: when they sleep,
// when they are at their best, and the recurring blocks that occupy them.
// The sleep window may cross midnight (e.g. 22:30 to 06:30).
type TimeConstraints struct {
	WorkBlocks     []TimeBlock     `yaml:"work_blocks" json:"work_blocks"`
	BlockedSlots   []TimeBlock     `yaml:"blocked_slots" json:"blocked_slots"`
	SleepStart     string          `yaml:"sleep_start" json:"sleep_start"`
	SleepEnd       string          `yaml:"sleep_end" json:"sleep_end"`
	PeakStart      string          `yaml:"peak_start" json:"peak_start"`
	PeakEnd        string          `yaml:"peak_end" json:"peak_end"`
	TimeExceptions []DateException `yaml:"time_exceptions" json:"time_exceptions"`
}

// EventDateTime is a calendar point that is either a concrete local
// date-time or a date-only value (all-day semantics). Exactly one of
// DateTime / Date is authoritative for a given event.
type EventDateTime struct {
	DateTime string `yaml:"date_time,omitempty" json:"date_time,omitempty"` // ISO local, e.g. "2025-01-10T09:00:00"
	Date     string `yaml:"date,omitempty" json:"date,omitempty"`           // "YYYY-MM-DD"
	TimeZone string `yaml:"time_zone,omitempty" json:"time_zone,omitempty"`
}

// CalendarEvent is a scheduled or imported event before day resolution.
// Non-recurring events own their identity; occurrences expanded from a
// recurring event derive the id "<parentID>-instance-<date>" and carry
// RecurringEventID back to the parent.
type CalendarEvent struct {
	ID               string        `yaml:"id" json:"id"`
	Summary          string        `yaml:"summary" json:"summary"`
	Start            EventDateTime `yaml:"start" json:"start"`
	End              EventDateTime `yaml:"end" json:"end"`
	IsAllDay         bool          `yaml:"is_all_day" json:"is_all_day"`
	Recurrence       []string      `yaml:"recurrence,omitempty" json:"recurrence,omitempty"`
	RecurringEventID string        `yaml:"recurring_event_id,omitempty" json:"recurring_event_id,omitempty"`
	EventType        EventType     `yaml:"event_type" json:"event_type"`
	Difficulty       int           `yaml:"difficulty,omitempty" json:"difficulty,omitempty"` // 1-5
	CognitiveType    CognitiveType `yaml:"cognitive_type,omitempty" json:"cognitive_type,omitempty"`
	EnergyCost       EnergyCost    `yaml:"energy_cost,omitempty" json:"energy_cost,omitempty"`
}

// Goal is the subset of a plan goal the capacity evaluator consumes.
type Goal struct {
	ID             string  `yaml:"id" json:"id"`
	Title          string  `yaml:"title" json:"title"`
	Frequency      int     `yaml:"frequency" json:"frequency"`               // sessions per week
	Duration       int     `yaml:"duration" json:"duration"`                 // minutes per session
	PriorityWeight float64 `yaml:"priority_weight" json:"priority_weight"`   // 0-100
	RiskLevel      string  `yaml:"risk_level,omitempty" json:"risk_level,omitempty"`
}
