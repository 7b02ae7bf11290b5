package service

import (
	"fmt"

	"github.com/noah-isme/timetable-api/internal/models"
)

const (
	generalPeriodMinutes = 50
	majorPeriodMinutes   = 75
	generalAnchorMinute  = 10 * 60
	generalPeriodCount   = 9
)

// PeriodTime holds the clock bounds of one period as minutes since midnight.
type PeriodTime struct {
	StartMinute int
	EndMinute   int
}

// StartHour returns the period start as a fractional hour of day.
func (p PeriodTime) StartHour() float64 {
	return float64(p.StartMinute) / 60
}

// EndHour returns the period end as a fractional hour of day.
func (p PeriodTime) EndHour() float64 {
	return float64(p.EndMinute) / 60
}

// Label renders the period start as an HH:MM clock label.
func (p PeriodTime) Label() string {
	return fmt.Sprintf("%02d:%02d", p.StartMinute/60, p.StartMinute%60)
}

// majorPeriodStarts is the fixed start-time table for major periods 21-26.
var majorPeriodStarts = map[int]int{
	21: 10 * 60,
	22: 11*60 + 30,
	23: 13 * 60,
	24: 14*60 + 30,
	25: 16 * 60,
	26: 17*60 + 30,
}

// PeriodCalendar resolves period indices to clock times for the two disjoint
// period regimes and defines the canonical ordering consumed by the merger.
// General periods 1-9 run 50 minutes starting hourly from 10:00; major
// periods 21-26 run 75 minutes per the fixed table.
type PeriodCalendar struct {
	general map[int]PeriodTime
	major   map[int]PeriodTime
	order   []int
	index   map[int]int
}

// NewPeriodCalendar builds the static period tables.
func NewPeriodCalendar() *PeriodCalendar {
	general := make(map[int]PeriodTime, generalPeriodCount)
	for p := 1; p <= generalPeriodCount; p++ {
		start := generalAnchorMinute + (p-1)*60
		general[p] = PeriodTime{StartMinute: start, EndMinute: start + generalPeriodMinutes}
	}

	major := make(map[int]PeriodTime, len(majorPeriodStarts))
	for p, start := range majorPeriodStarts {
		major[p] = PeriodTime{StartMinute: start, EndMinute: start + majorPeriodMinutes}
	}

	order := make([]int, 0, len(general)+len(major))
	for p := 1; p <= generalPeriodCount; p++ {
		order = append(order, p)
	}
	for p := 21; p <= 26; p++ {
		order = append(order, p)
	}

	index := make(map[int]int, len(order))
	for i, p := range order {
		index[p] = i
	}

	return &PeriodCalendar{general: general, major: major, order: order, index: index}
}

// GeneralPeriodTime resolves a general-regime period (1-9).
func (c *PeriodCalendar) GeneralPeriodTime(period int) (PeriodTime, error) {
	t, ok := c.general[period]
	if !ok {
		return PeriodTime{}, &models.UnknownPeriodError{Period: period}
	}
	return t, nil
}

// MajorPeriodTime resolves a major-regime period (21-26).
func (c *PeriodCalendar) MajorPeriodTime(period int) (PeriodTime, error) {
	t, ok := c.major[period]
	if !ok {
		return PeriodTime{}, &models.UnknownPeriodError{Period: period}
	}
	return t, nil
}

// PeriodTime resolves a period in either regime.
func (c *PeriodCalendar) PeriodTime(period int) (PeriodTime, error) {
	if t, ok := c.general[period]; ok {
		return t, nil
	}
	if t, ok := c.major[period]; ok {
		return t, nil
	}
	return PeriodTime{}, &models.UnknownPeriodError{Period: period}
}

// CurriculumFor reports which regime a period belongs to.
func (c *PeriodCalendar) CurriculumFor(period int) (models.CurriculumType, error) {
	if _, ok := c.general[period]; ok {
		return models.CurriculumGeneral, nil
	}
	if _, ok := c.major[period]; ok {
		return models.CurriculumMajor, nil
	}
	return "", &models.UnknownPeriodError{Period: period}
}

// CanonicalOrder returns the fixed sequence [1..9, 21..26]. Position in this
// sequence defines the adjacency relation used when merging slots.
func (c *PeriodCalendar) CanonicalOrder() []int {
	order := make([]int, len(c.order))
	copy(order, c.order)
	return order
}

// OrderIndex returns the canonical position of a period, or false when the
// period belongs to neither regime.
func (c *PeriodCalendar) OrderIndex(period int) (int, bool) {
	idx, ok := c.index[period]
	return idx, ok
}
