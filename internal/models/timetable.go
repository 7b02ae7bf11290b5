package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// AtomicSlot is one period-unit occupied by one course on one day.
type AtomicSlot struct {
	Day        string         `json:"day"`
	Weekday    Weekday        `json:"weekday"`
	Period     int            `json:"period"`
	Time       string         `json:"time"`
	Subject    string         `json:"subject"`
	CourseCode string         `json:"courseCode"`
	Room       string         `json:"room"`
	Type       CurriculumType `json:"type"`
	Credits    int            `json:"credits"`
}

// MergedBlock is a maximal contiguous run of AtomicSlots for one course on one day.
type MergedBlock struct {
	Day        string         `json:"day"`
	Weekday    Weekday        `json:"weekday"`
	StartHour  float64        `json:"startHour"`
	EndHour    float64        `json:"endHour"`
	Subject    string         `json:"subject"`
	Room       string         `json:"room"`
	CourseCode string         `json:"courseCode"`
	Type       CurriculumType `json:"type"`
	Credits    int            `json:"credits"`
}

// PositionedBlock is a merged block projected onto fractional grid coordinates.
type PositionedBlock struct {
	Subject    string         `json:"subject"`
	CourseCode string         `json:"courseCode"`
	Room       string         `json:"room"`
	Day        string         `json:"day"`
	Weekday    Weekday        `json:"weekday"`
	Type       CurriculumType `json:"type"`
	Top        float64        `json:"top"`
	Height     float64        `json:"height"`
	Left       float64        `json:"left"`
	Width      float64        `json:"width"`
	Color      string         `json:"color"`
}

// GridWindow describes the day columns and hour range of the rendered grid.
type GridWindow struct {
	StartHour float64   `json:"startHour"`
	EndHour   float64   `json:"endHour"`
	Days      []Weekday `json:"days"`
}

// CreditSummary totals credit hours split by curriculum type.
type CreditSummary struct {
	MajorCredits   int `json:"majorCredits"`
	GeneralCredits int `json:"generalCredits"`
	TotalCredits   int `json:"totalCredits"`
}

// Warning codes surfaced beside best-effort build output.
const (
	WarningUnknownPeriod      = "UNKNOWN_PERIOD"
	WarningUnsupportedWeekday = "UNSUPPORTED_WEEKDAY"
)

// Warning describes a record or period skipped during normalization.
type Warning struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	CourseCode string `json:"courseCode,omitempty"`
}

// Timetable is a saved set of course records owned by a student.
type Timetable struct {
	ID        string         `db:"id" json:"id"`
	OwnerID   string         `db:"owner_id" json:"owner_id"`
	Title     string         `db:"title" json:"title"`
	Meta      types.JSONText `db:"meta" json:"meta"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// TimetableCourse is one stored course record belonging to a saved timetable.
type TimetableCourse struct {
	ID               string `db:"id" json:"id"`
	TimetableID      string `db:"timetable_id" json:"timetable_id"`
	CourseID         int    `db:"course_id" json:"course_id"`
	CourseName       string `db:"course_name" json:"course_name"`
	Professor        string `db:"professor" json:"professor"`
	DayOfWeek        string `db:"day_of_week" json:"day_of_week"`
	StartPeriod      int    `db:"start_period" json:"start_period"`
	EndPeriod        int    `db:"end_period" json:"end_period"`
	Credit           int    `db:"credit" json:"credit"`
	Category         string `db:"category" json:"category"`
	Room             string `db:"room" json:"room"`
	RecommendedGrade int    `db:"recommended_grade" json:"recommended_grade"`
}

// CourseRecord converts a stored course row back into the feed representation.
func (c TimetableCourse) CourseRecord() CourseRecord {
	return CourseRecord{
		CourseID:         c.CourseID,
		CourseName:       c.CourseName,
		Professor:        c.Professor,
		DayOfWeek:        c.DayOfWeek,
		StartPeriod:      c.StartPeriod,
		EndPeriod:        c.EndPeriod,
		Credit:           c.Credit,
		Category:         c.Category,
		Room:             c.Room,
		RecommendedGrade: c.RecommendedGrade,
	}
}
