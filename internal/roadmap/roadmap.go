package roadmap

import "context"

// course geometry, fixed by the curriculum
const (
	FirstDay = 1
	LastDay  = 120

	orientationDays = 7 // always rendered so new users can see the road ahead
	previewDays     = 4 // rendered past the newest published day as a teaser
)

// LevelID CEFR level identifier
type LevelID string

const (
	LevelA1 LevelID = "A1"
	LevelA2 LevelID = "A2"
	LevelB1 LevelID = "B1"
	LevelB2 LevelID = "B2"
)

// Level an ordered, contiguous day range of the course
type Level struct {
	ID       LevelID `json:"id"`
	Name     string  `json:"name"`
	FirstDay int     `json:"first_day"`
	LastDay  int     `json:"last_day"`
}

// Levels partition days 1..120 contiguously, 30 days each
var Levels = []Level{
	{LevelA1, "Beginner", 1, 30},
	{LevelA2, "Elementary", 31, 60},
	{LevelB1, "Intermediate", 61, 90},
	{LevelB2, "Upper Intermediate", 91, 120},
}

// DayStatus derived render state of a single course day, never stored
type DayStatus string

const (
	StatusComingSoon DayStatus = "coming_soon"
	StatusCompleted  DayStatus = "completed"
	StatusCurrent    DayStatus = "current"
	StatusLocked     DayStatus = "locked"
)

// UserProgress the durable progress record, owned by the progress store
type UserProgress struct {
	CurrentDay   int     `json:"current_day"`
	CurrentLevel LevelID `json:"current_level"`
}

// DayState per-day render state
type DayState struct {
	Day       int       `json:"day"`
	Level     LevelID   `json:"level"`
	Status    DayStatus `json:"status"`
	Navigable bool      `json:"navigable"`
}

// LevelStats per-level aggregate
type LevelStats struct {
	Level     LevelID `json:"level"`
	Name      string  `json:"name"`
	Total     int     `json:"total"`
	Available int     `json:"available"`
	Completed int     `json:"completed"`
	Progress  float64 `json:"progress"`
}

// Roadmap full render state of the course for one user
type Roadmap struct {
	CurrentDay   int          `json:"current_day"`
	CurrentLevel LevelID      `json:"current_level"`
	Days         []*DayState  `json:"days"`
	Window       []int        `json:"window"`
	Levels       []LevelStats `json:"levels"`
}

// ProgressRepository durable record of the user's current day, read and
// advanced here, never computed
type ProgressRepository interface {
	GetUserProgress(ctx context.Context, userID string) (*UserProgress, error)
	AdvanceDay(ctx context.Context, userID string, completedDay int) (*UserProgress, error)
}

// AvailabilityRepository reports which days have published content
type AvailabilityRepository interface {
	GetAvailableDays(ctx context.Context) (map[int]bool, error)
}

// RoadmapUseCase .
type RoadmapUseCase interface {
	GetRoadmap(ctx context.Context, userID string) (*Roadmap, error)
	CompleteDay(ctx context.Context, userID string, day int) (*UserProgress, error)
}

// LevelForDay map a day to its level by range membership
func LevelForDay(day int) (Level, bool) {
	for _, lv := range Levels {
		if day >= lv.FirstDay && day <= lv.LastDay {
			return lv, true
		}
	}
	return Level{}, false
}

// ClampDay pull an out-of-range day back into the course so corrupted
// progress data degrades instead of crashing the roadmap view
func ClampDay(day int) int {
	if day < FirstDay {
		return FirstDay
	}
	if day > LastDay {
		return LastDay
	}
	return day
}

// DayStateFor derive the render status of a single day.
//
// Precedence: coming_soon beats everything, then completed, then current;
// any other day is locked.
func DayStateFor(day, currentDay int, available map[int]bool) *DayState {
	level, _ := LevelForDay(day)
	state := &DayState{Day: day, Level: level.ID}

	switch {
	case !available[day]:
		state.Status = StatusComingSoon
	case day < currentDay:
		state.Status = StatusCompleted
	case day == currentDay:
		state.Status = StatusCurrent
	default:
		state.Status = StatusLocked
	}
	state.Navigable = Navigable(day, currentDay, available)
	return state
}

// Navigable a day can be opened iff it is unlocked and has content. This is
// the single enforcement point of the gated progression: nothing past the
// current day is ever openable, nor is any day without published content.
func Navigable(day, currentDay int, available map[int]bool) bool {
	return day <= currentDay && available[day]
}

// Compute build the full roadmap for the given progress and availability.
// Total over all 120 days; the display window is a separate presentation
// concern handled by DisplayWindow.
func Compute(currentDay int, available map[int]bool) *Roadmap {
	currentDay = ClampDay(currentDay)
	currentLevel, _ := LevelForDay(currentDay)

	days := make([]*DayState, 0, LastDay)
	for day := FirstDay; day <= LastDay; day++ {
		days = append(days, DayStateFor(day, currentDay, available))
	}

	stats := make([]LevelStats, 0, len(Levels))
	for _, lv := range Levels {
		stats = append(stats, levelStatsFor(lv, currentDay, available))
	}

	return &Roadmap{
		CurrentDay:   currentDay,
		CurrentLevel: currentLevel.ID,
		Days:         days,
		Window:       DisplayWindow(available),
		Levels:       stats,
	}
}

func levelStatsFor(lv Level, currentDay int, available map[int]bool) LevelStats {
	stats := LevelStats{Level: lv.ID, Name: lv.Name, Total: lv.LastDay - lv.FirstDay + 1}
	for day := lv.FirstDay; day <= lv.LastDay; day++ {
		if available[day] {
			stats.Available++
		}
		if day < currentDay {
			stats.Completed++
		}
	}
	if stats.Total > 0 {
		stats.Progress = float64(stats.Completed) / float64(stats.Total) * 100
	}
	return stats
}

// DisplayWindow which days get rendered in detail: the first seven days for
// orientation, plus up to four preview days right after the newest published
// day, without revealing the rest of the locked roadmap.
func DisplayWindow(available map[int]bool) []int {
	window := make([]int, 0, orientationDays+previewDays)
	for day := FirstDay; day <= orientationDays && day <= LastDay; day++ {
		window = append(window, day)
	}

	maxAvailable := 0
	for day := range available {
		if day > maxAvailable {
			maxAvailable = day
		}
	}
	for day := maxAvailable + 1; day <= maxAvailable+previewDays; day++ {
		if day > orientationDays && day <= LastDay {
			window = append(window, day)
		}
	}
	return window
}
