package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/models"
)

func slotFor(t *testing.T, weekday models.Weekday, period int, courseCode, subject string) models.AtomicSlot {
	t.Helper()
	calendar := NewPeriodCalendar()
	pt, err := calendar.PeriodTime(period)
	require.NoError(t, err)
	return models.AtomicSlot{
		Day:        "화",
		Weekday:    weekday,
		Period:     period,
		Time:       pt.Label(),
		Subject:    subject,
		CourseCode: courseCode,
		Type:       models.CurriculumMajor,
		Credits:    3,
	}
}

func TestSlotMergerMergesAdjacentMajorPeriods(t *testing.T) {
	merger := NewSlotMerger(nil)

	slots := []models.AtomicSlot{
		slotFor(t, models.WeekdayTuesday, 21, "X", "Operating Systems"),
		slotFor(t, models.WeekdayTuesday, 22, "X", "Operating Systems"),
	}

	blocks := merger.MergeByDay(slots)
	require.Len(t, blocks, 1)
	assert.InDelta(t, 10.0, blocks[0].StartHour, 1e-9)
	assert.InDelta(t, 12.75, blocks[0].EndHour, 1e-9)
	assert.Equal(t, "X", blocks[0].CourseCode)
}

func TestSlotMergerDoesNotBridgeGaps(t *testing.T) {
	merger := NewSlotMerger(nil)

	slots := []models.AtomicSlot{
		slotFor(t, models.WeekdayTuesday, 21, "X", "Operating Systems"),
		slotFor(t, models.WeekdayTuesday, 23, "X", "Operating Systems"),
	}

	blocks := merger.MergeByDay(slots)
	require.Len(t, blocks, 2)
	assert.InDelta(t, 10.0, blocks[0].StartHour, 1e-9)
	assert.InDelta(t, 11.25, blocks[0].EndHour, 1e-9)
	assert.InDelta(t, 13.0, blocks[1].StartHour, 1e-9)
}

func TestSlotMergerJoinsRecordsMeetingAtBoundary(t *testing.T) {
	merger := NewSlotMerger(nil)

	// two records of the same course, 21-22 and 23-24: 22 and 23 are
	// adjacent in canonical order so the whole span merges
	slots := []models.AtomicSlot{
		slotFor(t, models.WeekdayTuesday, 21, "X", "Operating Systems"),
		slotFor(t, models.WeekdayTuesday, 22, "X", "Operating Systems"),
		slotFor(t, models.WeekdayTuesday, 23, "X", "Operating Systems"),
		slotFor(t, models.WeekdayTuesday, 24, "X", "Operating Systems"),
	}

	blocks := merger.MergeByDay(slots)
	require.Len(t, blocks, 1)
	assert.InDelta(t, 10.0, blocks[0].StartHour, 1e-9)
	assert.InDelta(t, 15.75, blocks[0].EndHour, 1e-9)
}

func TestSlotMergerKeepsOverlappingCoursesSeparate(t *testing.T) {
	merger := NewSlotMerger(nil)

	slots := []models.AtomicSlot{
		slotFor(t, models.WeekdayTuesday, 22, "A", "Linear Algebra"),
		slotFor(t, models.WeekdayTuesday, 22, "B", "Statistics"),
	}

	blocks := merger.MergeByDay(slots)
	require.Len(t, blocks, 2)
	assert.Equal(t, blocks[0].StartHour, blocks[1].StartHour)
	assert.NotEqual(t, blocks[0].CourseCode, blocks[1].CourseCode)
}

func TestSlotMergerInterleavedCourseDoesNotSplitRun(t *testing.T) {
	merger := NewSlotMerger(nil)

	// another course overlapping mid-run must not break X's 21-22 run
	slots := []models.AtomicSlot{
		slotFor(t, models.WeekdayTuesday, 21, "X", "Operating Systems"),
		slotFor(t, models.WeekdayTuesday, 21, "Y", "Compilers"),
		slotFor(t, models.WeekdayTuesday, 22, "X", "Operating Systems"),
	}

	blocks := merger.MergeByDay(slots)
	require.Len(t, blocks, 2)

	var x, y *models.MergedBlock
	for i := range blocks {
		switch blocks[i].CourseCode {
		case "X":
			x = &blocks[i]
		case "Y":
			y = &blocks[i]
		}
	}
	require.NotNil(t, x)
	require.NotNil(t, y)
	assert.InDelta(t, 12.75, x.EndHour, 1e-9)
	assert.InDelta(t, 11.25, y.EndHour, 1e-9)
}

func TestSlotMergerSinglePeriodBlock(t *testing.T) {
	merger := NewSlotMerger(nil)

	slots := []models.AtomicSlot{
		slotFor(t, models.WeekdayTuesday, 5, "Z", "Ethics"),
	}

	blocks := merger.MergeByDay(slots)
	require.Len(t, blocks, 1)
	assert.InDelta(t, 14.0, blocks[0].StartHour, 1e-9)
	assert.InDelta(t, 14.0+50.0/60.0, blocks[0].EndHour, 1e-9)
}

func TestSlotMergerMergesPerDayIndependently(t *testing.T) {
	merger := NewSlotMerger(nil)

	slots := []models.AtomicSlot{
		slotFor(t, models.WeekdayTuesday, 21, "X", "Operating Systems"),
		slotFor(t, models.WeekdayThursday, 22, "X", "Operating Systems"),
	}

	blocks := merger.MergeByDay(slots)
	require.Len(t, blocks, 2)
	assert.Equal(t, models.WeekdayTuesday, blocks[0].Weekday)
	assert.Equal(t, models.WeekdayThursday, blocks[1].Weekday)
}

func TestSlotMergerDropsUnindexablePeriods(t *testing.T) {
	merger := NewSlotMerger(nil)

	bad := slotFor(t, models.WeekdayTuesday, 21, "X", "Operating Systems")
	bad.Period = 99

	blocks := merger.MergeByDay([]models.AtomicSlot{bad})
	assert.Empty(t, blocks)
}
