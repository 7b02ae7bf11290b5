package models

import "fmt"

// Weekday is the 3-letter day code used by the course feed.
type Weekday string

const (
	WeekdayMonday    Weekday = "MON"
	WeekdayTuesday   Weekday = "TUE"
	WeekdayWednesday Weekday = "WED"
	WeekdayThursday  Weekday = "THU"
	WeekdayFriday    Weekday = "FRI"
)

// CurriculumType classifies a course as major or general curriculum.
type CurriculumType string

const (
	CurriculumMajor   CurriculumType = "major"
	CurriculumGeneral CurriculumType = "general"
)

// CourseRecord is one scheduled course occurrence delivered by the course/AI feed.
type CourseRecord struct {
	ID               int    `json:"id"`
	CourseID         int    `json:"courseId"`
	CourseName       string `json:"courseName"`
	Professor        string `json:"professor"`
	DayOfWeek        string `json:"dayOfWeek"`
	StartPeriod      int    `json:"startPeriod"`
	EndPeriod        int    `json:"endPeriod"`
	Credit           int    `json:"credit"`
	Category         string `json:"category"`
	Room             string `json:"room"`
	RecommendedGrade int    `json:"recommendedGrade"`
}

// CourseCode returns the stable identifier used for merge and dedup keys.
func (r CourseRecord) CourseCode() string {
	return fmt.Sprintf("%d", r.CourseID)
}

// CategoryRule maps a category text prefix to a curriculum type.
type CategoryRule struct {
	Prefix string
	Type   CurriculumType
}

// UnknownPeriodError signals a period index found in neither regime table.
type UnknownPeriodError struct {
	Period int
}

// Error implements the error interface.
func (e *UnknownPeriodError) Error() string {
	return fmt.Sprintf("unknown period %d", e.Period)
}

// UnsupportedWeekdayError signals a dayOfWeek value outside the Monday-Friday enum.
type UnsupportedWeekdayError struct {
	DayOfWeek string
}

// Error implements the error interface.
func (e *UnsupportedWeekdayError) Error() string {
	return fmt.Sprintf("unsupported weekday %q", e.DayOfWeek)
}
