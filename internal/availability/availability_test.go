package availability

import (
	"testing"

	"plancal/internal/model"
)

func workWeek() model.TimeBlock {
	return model.TimeBlock{
		ID:    "work",
		Title: "Office",
		Days:  []int{1, 2, 3, 4, 5},
		Start: "09:00",
		End:   "17:00",
		Type:  model.BlockWork,
	}
}

func TestComputeWeekly_StandardWeek(t *testing.T) {
	tc := model.TimeConstraints{
		SleepStart: "22:30",
		SleepEnd:   "06:30",
		WorkBlocks: []model.TimeBlock{workWeek()},
	}

	got := ComputeWeekly(tc)

	// 960 awake minutes/day, 480 blocked on weekdays: 480*5 + 960*2.
	if got.DefaultMinutes != 4320 {
		t.Errorf("DefaultMinutes = %d, want 4320", got.DefaultMinutes)
	}
	if got.UsesPatterns {
		t.Error("no block carries a rotation pattern")
	}
	if got.WeekAMinutes != got.DefaultMinutes || got.WeekBMinutes != got.DefaultMinutes {
		t.Errorf("pattern weeks should mirror default, got A=%d B=%d", got.WeekAMinutes, got.WeekBMinutes)
	}
}

func TestComputeWeekly_OverlappingBlocksNotDoubleCounted(t *testing.T) {
	tc := model.TimeConstraints{
		SleepStart: "22:30",
		SleepEnd:   "06:30",
		WorkBlocks: []model.TimeBlock{workWeek()},
		BlockedSlots: []model.TimeBlock{{
			ID:    "lunch",
			Days:  []int{1, 2, 3, 4, 5},
			Start: "12:00",
			End:   "13:00",
			Type:  model.BlockMeal,
		}},
	}

	// Lunch sits inside the work block; availability must not drop further.
	if got := ComputeWeekly(tc); got.DefaultMinutes != 4320 {
		t.Errorf("DefaultMinutes = %d, want 4320", got.DefaultMinutes)
	}
}

func TestComputeWeekly_RotationPatterns(t *testing.T) {
	shift := model.TimeBlock{
		ID:      "shift",
		Days:    []int{6},
		Start:   "09:00",
		End:     "13:00",
		Type:    model.BlockWork,
		Pattern: model.PatternA,
	}
	tc := model.TimeConstraints{
		SleepStart:   "22:30",
		SleepEnd:     "06:30",
		WorkBlocks:   []model.TimeBlock{workWeek(), shift},
		BlockedSlots: nil,
	}

	got := ComputeWeekly(tc)
	if !got.UsesPatterns {
		t.Fatal("expected UsesPatterns with an A-tagged block")
	}
	if got.DefaultMinutes != 4320 {
		t.Errorf("DefaultMinutes = %d, want 4320 (A-tagged shift excluded)", got.DefaultMinutes)
	}
	if got.WeekAMinutes != 4320-240 {
		t.Errorf("WeekAMinutes = %d, want 4080 (Saturday shift applies)", got.WeekAMinutes)
	}
	if got.WeekBMinutes != 4320 {
		t.Errorf("WeekBMinutes = %d, want 4320 (shift only applies in week A)", got.WeekBMinutes)
	}
}

func TestComputeWeekly_DegenerateInputs(t *testing.T) {
	t.Run("inverted block is ignored", func(t *testing.T) {
		tc := model.TimeConstraints{
			SleepStart: "22:30",
			SleepEnd:   "06:30",
			WorkBlocks: []model.TimeBlock{{
				Days: []int{1}, Start: "17:00", End: "09:00",
			}},
		}
		if got := ComputeWeekly(tc); got.DefaultMinutes != 960*7 {
			t.Errorf("DefaultMinutes = %d, want %d", got.DefaultMinutes, 960*7)
		}
	})

	t.Run("unparseable sleep times fall back to defaults", func(t *testing.T) {
		tc := model.TimeConstraints{SleepStart: "late", SleepEnd: ""}
		// Fallback window 07:00-23:00 = 960 awake minutes/day.
		if got := ComputeWeekly(tc); got.DefaultMinutes != 960*7 {
			t.Errorf("DefaultMinutes = %d, want %d", got.DefaultMinutes, 960*7)
		}
	})

	t.Run("block outside awake window contributes nothing", func(t *testing.T) {
		tc := model.TimeConstraints{
			SleepStart: "22:00",
			SleepEnd:   "07:00",
			BlockedSlots: []model.TimeBlock{{
				Days: []int{3}, Start: "23:00", End: "23:45",
			}},
		}
		if got := ComputeWeekly(tc); got.DefaultMinutes != 900*7 {
			t.Errorf("DefaultMinutes = %d, want %d", got.DefaultMinutes, 900*7)
		}
	})
}
