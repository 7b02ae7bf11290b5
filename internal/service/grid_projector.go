package service

import (
	"github.com/noah-isme/timetable-api/internal/models"
)

// DefaultPalette is the subject color rotation used by the grid display.
var DefaultPalette = []string{
	"#FDE2E4",
	"#D0F4DE",
	"#A9DEF9",
	"#E4C1F9",
	"#FCF6BD",
	"#FFD6A5",
	"#CAFFBF",
	"#BDB2FF",
	"#9BF6FF",
	"#FFC6FF",
}

// DefaultGridWindow returns the observed display default: a Monday-Friday
// grid spanning 10:00 to 19:00.
func DefaultGridWindow() models.GridWindow {
	return models.GridWindow{
		StartHour: 10,
		EndHour:   19,
		Days: []models.Weekday{
			models.WeekdayMonday,
			models.WeekdayTuesday,
			models.WeekdayWednesday,
			models.WeekdayThursday,
			models.WeekdayFriday,
		},
	}
}

// GridProjector maps merged blocks onto fractional grid coordinates and
// assigns a display color per subject.
type GridProjector struct {
	palette []string
}

// NewGridProjector constructs a projector; nil palette uses the default rotation.
func NewGridProjector(palette []string) *GridProjector {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &GridProjector{palette: palette}
}

// Project places blocks into the window. Blocks on days outside the window
// are dropped silently; vertical coordinates are fractions of the window's
// hour span. The subject color map is scoped to this call, so colors are
// stable within one projection pass but not across passes with different
// subject orderings.
func (p *GridProjector) Project(blocks []models.MergedBlock, window models.GridWindow) []models.PositionedBlock {
	if window.EndHour <= window.StartHour || len(window.Days) == 0 {
		window = DefaultGridWindow()
	}

	columns := make(map[models.Weekday]int, len(window.Days))
	for i, day := range window.Days {
		columns[day] = i
	}

	span := window.EndHour - window.StartHour
	width := 1.0 / float64(len(window.Days))
	colors := make(map[string]string)

	positioned := make([]models.PositionedBlock, 0, len(blocks))
	for _, block := range blocks {
		col, ok := columns[block.Weekday]
		if !ok {
			continue
		}
		color, ok := colors[block.Subject]
		if !ok {
			color = p.palette[len(colors)%len(p.palette)]
			colors[block.Subject] = color
		}
		positioned = append(positioned, models.PositionedBlock{
			Subject:    block.Subject,
			CourseCode: block.CourseCode,
			Room:       block.Room,
			Day:        block.Day,
			Weekday:    block.Weekday,
			Type:       block.Type,
			Top:        (block.StartHour - window.StartHour) / span,
			Height:     (block.EndHour - block.StartHour) / span,
			Left:       float64(col) * width,
			Width:      width,
			Color:      color,
		})
	}
	return positioned
}
