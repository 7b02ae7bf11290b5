package dto

import (
	"github.com/noah-isme/timetable-api/internal/models"
)

// GridWindowRequest overrides the default display window for one preview.
type GridWindowRequest struct {
	StartHour float64  `json:"startHour" validate:"omitempty,min=0,max=24"`
	EndHour   float64  `json:"endHour" validate:"omitempty,min=0,max=24"`
	Days      []string `json:"days" validate:"omitempty,max=7,dive,oneof=MON TUE WED THU FRI SAT SUN"`
}

// PreviewTimetableRequest carries raw course records to normalize and lay out.
type PreviewTimetableRequest struct {
	Courses []models.CourseRecord `json:"courses" validate:"required,min=1,max=64"`
	Window  *GridWindowRequest    `json:"window"`
}

// PreviewTimetableResponse returns the rendered layout for a preview proposal.
type PreviewTimetableResponse struct {
	ProposalID string                   `json:"proposalId"`
	Blocks     []models.PositionedBlock `json:"blocks"`
	Summary    models.CreditSummary     `json:"summary"`
	Warnings   []models.Warning         `json:"warnings,omitempty"`
}

// SaveTimetableRequest persists a previewed proposal under a title.
type SaveTimetableRequest struct {
	ProposalID string `json:"proposalId" validate:"required"`
	Title      string `json:"title" validate:"required,max=120"`
}

// TimetableView is a stored timetable rendered for display.
type TimetableView struct {
	Timetable models.Timetable         `json:"timetable"`
	Courses   []models.CourseRecord    `json:"courses"`
	Blocks    []models.PositionedBlock `json:"blocks"`
	Summary   models.CreditSummary     `json:"summary"`
	Warnings  []models.Warning         `json:"warnings,omitempty"`
}
