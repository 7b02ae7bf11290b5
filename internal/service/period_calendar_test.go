package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/models"
)

func TestPeriodCalendarGeneralDurations(t *testing.T) {
	calendar := NewPeriodCalendar()

	first, err := calendar.GeneralPeriodTime(1)
	require.NoError(t, err)
	assert.Equal(t, "10:00", first.Label())
	assert.Equal(t, 50, first.EndMinute-first.StartMinute)

	last, err := calendar.GeneralPeriodTime(9)
	require.NoError(t, err)
	assert.Equal(t, "18:00", last.Label())
	assert.InDelta(t, 18.0, last.StartHour(), 1e-9)
}

func TestPeriodCalendarMajorTable(t *testing.T) {
	calendar := NewPeriodCalendar()

	cases := map[int]string{
		21: "10:00",
		22: "11:30",
		23: "13:00",
		24: "14:30",
		25: "16:00",
		26: "17:30",
	}
	for period, label := range cases {
		pt, err := calendar.MajorPeriodTime(period)
		require.NoError(t, err, "period %d", period)
		assert.Equal(t, label, pt.Label(), "period %d", period)
		assert.Equal(t, 75, pt.EndMinute-pt.StartMinute, "period %d", period)
	}
}

func TestPeriodCalendarUnknownPeriod(t *testing.T) {
	calendar := NewPeriodCalendar()

	for _, period := range []int{0, 10, 20, 27, 99} {
		_, err := calendar.PeriodTime(period)
		var unknownErr *models.UnknownPeriodError
		require.ErrorAs(t, err, &unknownErr, "period %d", period)
		assert.Equal(t, period, unknownErr.Period)
	}
}

func TestPeriodCalendarCurriculumFor(t *testing.T) {
	calendar := NewPeriodCalendar()

	curriculum, err := calendar.CurriculumFor(3)
	require.NoError(t, err)
	assert.Equal(t, models.CurriculumGeneral, curriculum)

	curriculum, err = calendar.CurriculumFor(24)
	require.NoError(t, err)
	assert.Equal(t, models.CurriculumMajor, curriculum)

	_, err = calendar.CurriculumFor(15)
	assert.Error(t, err)
}

func TestPeriodCalendarCanonicalOrder(t *testing.T) {
	calendar := NewPeriodCalendar()

	order := calendar.CanonicalOrder()
	require.Len(t, order, 15)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 21, 22, 23, 24, 25, 26}, order)

	// position in the ordering is what defines "next", regardless of the
	// numeric gap between 9 and 21
	nineIdx, ok := calendar.OrderIndex(9)
	require.True(t, ok)
	majorIdx, ok := calendar.OrderIndex(21)
	require.True(t, ok)
	assert.Equal(t, nineIdx+1, majorIdx)

	_, ok = calendar.OrderIndex(10)
	assert.False(t, ok)
}
