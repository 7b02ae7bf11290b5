package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/models"
)

func TestGridProjectorFractionalCoordinates(t *testing.T) {
	projector := NewGridProjector(nil)

	blocks := []models.MergedBlock{
		{
			Day:       "화",
			Weekday:   models.WeekdayTuesday,
			StartHour: 10,
			EndHour:   12.75,
			Subject:   "Operating Systems",
		},
	}

	positioned := projector.Project(blocks, DefaultGridWindow())
	require.Len(t, positioned, 1)

	// window 10:00-19:00, five day columns
	assert.InDelta(t, 0.0, positioned[0].Top, 1e-9)
	assert.InDelta(t, 2.75/9.0, positioned[0].Height, 1e-9)
	assert.InDelta(t, 0.2, positioned[0].Left, 1e-9)
	assert.InDelta(t, 0.2, positioned[0].Width, 1e-9)
}

func TestGridProjectorDropsDaysOutsideWindow(t *testing.T) {
	projector := NewGridProjector(nil)

	window := models.GridWindow{
		StartHour: 10,
		EndHour:   19,
		Days:      []models.Weekday{models.WeekdayMonday, models.WeekdayTuesday},
	}
	blocks := []models.MergedBlock{
		{Weekday: models.WeekdayMonday, StartHour: 10, EndHour: 11, Subject: "A"},
		{Weekday: models.WeekdayFriday, StartHour: 10, EndHour: 11, Subject: "B"},
	}

	positioned := projector.Project(blocks, window)
	require.Len(t, positioned, 1)
	assert.Equal(t, "A", positioned[0].Subject)
	assert.InDelta(t, 0.5, positioned[0].Width, 1e-9)
}

func TestGridProjectorColorStablePerSubject(t *testing.T) {
	projector := NewGridProjector(nil)

	blocks := []models.MergedBlock{
		{Weekday: models.WeekdayMonday, StartHour: 10, EndHour: 11, Subject: "A"},
		{Weekday: models.WeekdayTuesday, StartHour: 13, EndHour: 14, Subject: "A"},
		{Weekday: models.WeekdayMonday, StartHour: 11, EndHour: 12, Subject: "B"},
	}

	positioned := projector.Project(blocks, DefaultGridWindow())
	require.Len(t, positioned, 3)
	assert.Equal(t, DefaultPalette[0], positioned[0].Color)
	assert.Equal(t, DefaultPalette[0], positioned[1].Color)
	assert.Equal(t, DefaultPalette[1], positioned[2].Color)
}

func TestGridProjectorPaletteWrapsAround(t *testing.T) {
	projector := NewGridProjector([]string{"#111111", "#222222"})

	blocks := []models.MergedBlock{
		{Weekday: models.WeekdayMonday, StartHour: 10, EndHour: 11, Subject: "A"},
		{Weekday: models.WeekdayMonday, StartHour: 11, EndHour: 12, Subject: "B"},
		{Weekday: models.WeekdayMonday, StartHour: 12, EndHour: 13, Subject: "C"},
	}

	positioned := projector.Project(blocks, DefaultGridWindow())
	require.Len(t, positioned, 3)
	assert.Equal(t, "#111111", positioned[0].Color)
	assert.Equal(t, "#222222", positioned[1].Color)
	assert.Equal(t, "#111111", positioned[2].Color)
}

func TestGridProjectorDeterministicAcrossPasses(t *testing.T) {
	projector := NewGridProjector(nil)

	blocks := []models.MergedBlock{
		{Weekday: models.WeekdayMonday, StartHour: 10, EndHour: 11, Subject: "A"},
		{Weekday: models.WeekdayWednesday, StartHour: 14, EndHour: 15.5, Subject: "B"},
	}

	first := projector.Project(blocks, DefaultGridWindow())
	second := projector.Project(blocks, DefaultGridWindow())
	assert.Equal(t, first, second)
}

func TestGridProjectorInvalidWindowFallsBack(t *testing.T) {
	projector := NewGridProjector(nil)

	blocks := []models.MergedBlock{
		{Weekday: models.WeekdayFriday, StartHour: 10, EndHour: 11, Subject: "A"},
	}

	positioned := projector.Project(blocks, models.GridWindow{StartHour: 19, EndHour: 10})
	require.Len(t, positioned, 1)
	assert.InDelta(t, 0.8, positioned[0].Left, 1e-9)
}
