package roadmap

import "testing"

func availableRange(from, to int, extra ...int) map[int]bool {
	available := make(map[int]bool)
	for day := from; day <= to; day++ {
		available[day] = true
	}
	for _, day := range extra {
		available[day] = true
	}
	return available
}

func TestLevelsPartitionCourse(t *testing.T) {
	seen := make(map[int]int)
	for _, lv := range Levels {
		if lv.LastDay-lv.FirstDay+1 != 30 {
			t.Errorf("level %s spans %d days, want 30", lv.ID, lv.LastDay-lv.FirstDay+1)
		}
		for day := lv.FirstDay; day <= lv.LastDay; day++ {
			seen[day]++
		}
	}
	for day := FirstDay; day <= LastDay; day++ {
		if seen[day] != 1 {
			t.Fatalf("day %d covered %d times, want exactly once", day, seen[day])
		}
	}
	if len(seen) != LastDay {
		t.Fatalf("levels cover %d days, want %d", len(seen), LastDay)
	}
}

func TestDayStatusPrecedence(t *testing.T) {
	available := availableRange(1, 10, 15)
	currentDay := 15

	cases := []struct {
		day  int
		want DayStatus
	}{
		{11, StatusComingSoon}, // no content beats everything
		{10, StatusCompleted},
		{15, StatusCurrent},
		{20, StatusLocked},
		{12, StatusComingSoon}, // before current day but unpublished
	}
	for _, tc := range cases {
		state := DayStateFor(tc.day, currentDay, available)
		if state.Status != tc.want {
			t.Errorf("day %d: status = %s, want %s", tc.day, state.Status, tc.want)
		}
	}
}

func TestNavigableNeverExceedsCurrentDay(t *testing.T) {
	available := availableRange(1, LastDay)
	for currentDay := FirstDay; currentDay <= LastDay; currentDay += 17 {
		for day := FirstDay; day <= LastDay; day++ {
			got := Navigable(day, currentDay, available)
			want := day <= currentDay
			if got != want {
				t.Fatalf("currentDay=%d day=%d: navigable=%v, want %v", currentDay, day, got, want)
			}
		}
	}
}

func TestNavigableRequiresContent(t *testing.T) {
	available := availableRange(1, 5)
	if Navigable(7, 10, available) {
		t.Error("day without content must not be navigable even when unlocked")
	}
	if !Navigable(3, 10, available) {
		t.Error("unlocked day with content must be navigable")
	}
}

func TestComputeClampsOutOfRangeCurrentDay(t *testing.T) {
	available := availableRange(1, 10)

	result := Compute(500, available)
	if result.CurrentDay != LastDay {
		t.Errorf("current day = %d, want clamped to %d", result.CurrentDay, LastDay)
	}
	if result.CurrentLevel != LevelB2 {
		t.Errorf("current level = %s, want %s", result.CurrentLevel, LevelB2)
	}

	result = Compute(-3, available)
	if result.CurrentDay != FirstDay {
		t.Errorf("current day = %d, want clamped to %d", result.CurrentDay, FirstDay)
	}
	if result.CurrentLevel != LevelA1 {
		t.Errorf("current level = %s, want %s", result.CurrentLevel, LevelA1)
	}
}

func TestComputeEmptyAvailability(t *testing.T) {
	result := Compute(15, map[int]bool{})
	if len(result.Days) != LastDay {
		t.Fatalf("computed %d days, want %d", len(result.Days), LastDay)
	}
	for _, state := range result.Days {
		if state.Status != StatusComingSoon {
			t.Fatalf("day %d: status = %s, want %s", state.Day, state.Status, StatusComingSoon)
		}
		if state.Navigable {
			t.Fatalf("day %d navigable without content", state.Day)
		}
	}
	for _, stats := range result.Levels {
		if stats.Available != 0 {
			t.Errorf("level %s: available = %d, want 0", stats.Level, stats.Available)
		}
	}
}

func TestLevelAggregates(t *testing.T) {
	available := availableRange(1, 10, 15)
	result := Compute(15, available)

	a1 := result.Levels[0]
	if a1.Level != LevelA1 {
		t.Fatalf("first level = %s, want %s", a1.Level, LevelA1)
	}
	if a1.Total != 30 {
		t.Errorf("total = %d, want 30", a1.Total)
	}
	if a1.Available != 11 {
		t.Errorf("available = %d, want 11", a1.Available)
	}
	if a1.Completed != 14 {
		t.Errorf("completed = %d, want 14", a1.Completed)
	}
	wantProgress := float64(14) / 30 * 100
	if a1.Progress != wantProgress {
		t.Errorf("progress = %f, want %f", a1.Progress, wantProgress)
	}

	b2 := result.Levels[3]
	if b2.Completed != 0 || b2.Progress != 0 {
		t.Errorf("untouched level reports completed=%d progress=%f", b2.Completed, b2.Progress)
	}
}

func TestDisplayWindow(t *testing.T) {
	window := DisplayWindow(availableRange(1, 10))
	want := []int{1, 2, 3, 4, 5, 6, 7, 11, 12, 13, 14}
	if len(window) != len(want) {
		t.Fatalf("window = %v, want %v", window, want)
	}
	for i := range want {
		if window[i] != want[i] {
			t.Fatalf("window = %v, want %v", window, want)
		}
	}
}

func TestDisplayWindowEmptyAvailability(t *testing.T) {
	window := DisplayWindow(map[int]bool{})
	if len(window) != orientationDays {
		t.Fatalf("window = %v, want just the first %d days", window, orientationDays)
	}
}

func TestDisplayWindowNearCourseEnd(t *testing.T) {
	window := DisplayWindow(availableRange(1, 119))
	// only day 120 remains as a preview
	if window[len(window)-1] != 120 {
		t.Fatalf("window = %v, want last element 120", window)
	}
	for _, day := range window {
		if day > LastDay {
			t.Fatalf("window contains day %d past course end", day)
		}
	}
}
