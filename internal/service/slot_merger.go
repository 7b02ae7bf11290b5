package service

import (
	"sort"

	"github.com/noah-isme/timetable-api/internal/models"
)

// weekdayOrder fixes the column ordering of merged output.
var weekdayOrder = map[models.Weekday]int{
	models.WeekdayMonday:    0,
	models.WeekdayTuesday:   1,
	models.WeekdayWednesday: 2,
	models.WeekdayThursday:  3,
	models.WeekdayFriday:    4,
}

// SlotMerger collapses contiguous same-course slots into single visual blocks.
type SlotMerger struct {
	calendar *PeriodCalendar
}

// NewSlotMerger constructs a merger backed by the given period calendar.
func NewSlotMerger(calendar *PeriodCalendar) *SlotMerger {
	if calendar == nil {
		calendar = NewPeriodCalendar()
	}
	return &SlotMerger{calendar: calendar}
}

// indexedSlot pairs an atomic slot with its canonical-order position.
type indexedSlot struct {
	slot models.AtomicSlot
	idx  int
}

// MergeByDay merges consecutive periods of the same course into blocks, per
// day independently. A run continues while the next slot shares the
// (courseCode, subject) identity and sits exactly one position later in the
// canonical ordering. Overlapping slots of different courses stay separate
// blocks; overlap detection is not this component's job.
func (m *SlotMerger) MergeByDay(slots []models.AtomicSlot) []models.MergedBlock {
	indexed := make([]indexedSlot, 0, len(slots))
	for _, slot := range slots {
		idx, ok := m.calendar.OrderIndex(slot.Period)
		if !ok {
			// should have been filtered upstream
			continue
		}
		indexed = append(indexed, indexedSlot{slot: slot, idx: idx})
	}

	sort.Slice(indexed, func(i, j int) bool {
		a, b := indexed[i], indexed[j]
		if a.slot.Weekday != b.slot.Weekday {
			return weekdayOrder[a.slot.Weekday] < weekdayOrder[b.slot.Weekday]
		}
		if a.slot.CourseCode != b.slot.CourseCode {
			return a.slot.CourseCode < b.slot.CourseCode
		}
		if a.slot.Subject != b.slot.Subject {
			return a.slot.Subject < b.slot.Subject
		}
		return a.idx < b.idx
	})

	var blocks []models.MergedBlock
	var run []indexedSlot
	flush := func() {
		if len(run) == 0 {
			return
		}
		blocks = append(blocks, m.emit(run))
		run = nil
	}

	for _, current := range indexed {
		if len(run) > 0 {
			prev := run[len(run)-1]
			sameCourse := prev.slot.Weekday == current.slot.Weekday &&
				prev.slot.CourseCode == current.slot.CourseCode &&
				prev.slot.Subject == current.slot.Subject
			if !sameCourse || current.idx != prev.idx+1 {
				flush()
			}
		}
		run = append(run, current)
	}
	flush()

	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].Weekday != blocks[j].Weekday {
			return weekdayOrder[blocks[i].Weekday] < weekdayOrder[blocks[j].Weekday]
		}
		if blocks[i].StartHour != blocks[j].StartHour {
			return blocks[i].StartHour < blocks[j].StartHour
		}
		return blocks[i].Subject < blocks[j].Subject
	})
	return blocks
}

func (m *SlotMerger) emit(run []indexedSlot) models.MergedBlock {
	first := run[0].slot
	last := run[len(run)-1].slot

	startTime, _ := m.calendar.PeriodTime(first.Period)
	endTime, _ := m.calendar.PeriodTime(last.Period)

	return models.MergedBlock{
		Day:        first.Day,
		Weekday:    first.Weekday,
		StartHour:  startTime.StartHour(),
		EndHour:    endTime.EndHour(),
		Subject:    first.Subject,
		Room:       first.Room,
		CourseCode: first.CourseCode,
		Type:       first.Type,
		Credits:    first.Credits,
	}
}
