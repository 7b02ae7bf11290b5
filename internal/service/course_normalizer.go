package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/models"
)

// DefaultCategoryRules is the ordered prefix vocabulary for curriculum
// classification. First match wins; unmatched categories fall back to the
// known-category list and finally to general.
var DefaultCategoryRules = []models.CategoryRule{
	{Prefix: "전", Type: models.CurriculumMajor},
	{Prefix: "교", Type: models.CurriculumGeneral},
}

// knownCategories resolves category spellings that carry no marker prefix.
var knownCategories = map[string]models.CurriculumType{
	"일반선택": models.CurriculumGeneral,
	"일선":   models.CurriculumGeneral,
	"자유선택": models.CurriculumGeneral,
	"기초전공": models.CurriculumMajor,
	"심화전공": models.CurriculumMajor,
}

// dayLabels maps the feed's weekday codes to localized grid labels.
var dayLabels = map[models.Weekday]string{
	models.WeekdayMonday:    "월",
	models.WeekdayTuesday:   "화",
	models.WeekdayWednesday: "수",
	models.WeekdayThursday:  "목",
	models.WeekdayFriday:    "금",
}

// roomPlaceholders are null-marker strings some feeds emit for a missing room.
var roomPlaceholders = map[string]struct{}{
	"undefined": {},
	"null":      {},
	"-":         {},
}

// CourseNormalizer expands raw course records into atomic per-period slots.
type CourseNormalizer struct {
	calendar *PeriodCalendar
	rules    []models.CategoryRule
	logger   *zap.Logger
}

// NewCourseNormalizer constructs a normalizer; nil rules use the default vocabulary.
func NewCourseNormalizer(calendar *PeriodCalendar, rules []models.CategoryRule, logger *zap.Logger) *CourseNormalizer {
	if calendar == nil {
		calendar = NewPeriodCalendar()
	}
	if rules == nil {
		rules = DefaultCategoryRules
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseNormalizer{calendar: calendar, rules: rules, logger: logger}
}

// Classify resolves free-form category text into a curriculum type. Category
// text must never fail normalization, so the final fallback is general.
func (n *CourseNormalizer) Classify(category string) models.CurriculumType {
	category = strings.TrimSpace(category)
	for _, rule := range n.rules {
		if strings.HasPrefix(category, rule.Prefix) {
			return rule.Type
		}
	}
	if t, ok := knownCategories[category]; ok {
		return t
	}
	n.logger.Debug("ambiguous course category, defaulting to general", zap.String("category", category))
	return models.CurriculumGeneral
}

// Normalize expands one course record into one AtomicSlot per period in its
// range. A weekday outside Monday-Friday rejects the whole record; an unknown
// period skips only that period. Both are surfaced as warnings, never errors.
func (n *CourseNormalizer) Normalize(record models.CourseRecord) ([]models.AtomicSlot, []models.Warning) {
	weekday := models.Weekday(strings.ToUpper(strings.TrimSpace(record.DayOfWeek)))
	label, ok := dayLabels[weekday]
	if !ok {
		dayErr := &models.UnsupportedWeekdayError{DayOfWeek: record.DayOfWeek}
		n.logger.Warn("skipping course record", zap.String("course", record.CourseCode()), zap.Error(dayErr))
		return nil, []models.Warning{{
			Code:       models.WarningUnsupportedWeekday,
			Message:    fmt.Sprintf("%s: %v", record.CourseName, dayErr),
			CourseCode: record.CourseCode(),
		}}
	}

	curriculum := n.Classify(record.Category)
	room := normalizeRoom(record.Room)

	var slots []models.AtomicSlot
	var warnings []models.Warning
	for period := record.StartPeriod; period <= record.EndPeriod; period++ {
		t, err := n.calendar.PeriodTime(period)
		if err != nil {
			warnings = append(warnings, models.Warning{
				Code:       models.WarningUnknownPeriod,
				Message:    fmt.Sprintf("%s: %v", record.CourseName, err),
				CourseCode: record.CourseCode(),
			})
			continue
		}
		slots = append(slots, models.AtomicSlot{
			Day:        label,
			Weekday:    weekday,
			Period:     period,
			Time:       t.Label(),
			Subject:    record.CourseName,
			CourseCode: record.CourseCode(),
			Room:       room,
			Type:       curriculum,
			Credits:    record.Credit,
		})
	}
	return slots, warnings
}

// NormalizeAll expands a batch of records, accumulating warnings. One bad
// record never aborts the batch.
func (n *CourseNormalizer) NormalizeAll(records []models.CourseRecord) ([]models.AtomicSlot, []models.Warning) {
	var slots []models.AtomicSlot
	var warnings []models.Warning
	for _, record := range records {
		expanded, warns := n.Normalize(record)
		slots = append(slots, expanded...)
		warnings = append(warnings, warns...)
	}
	return slots, warnings
}

func normalizeRoom(raw string) string {
	room := strings.TrimSpace(raw)
	if _, placeholder := roomPlaceholders[strings.ToLower(room)]; placeholder {
		return ""
	}
	return room
}
