package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/timetable-api/internal/models"
)

func TestCreditAggregatorCountsCourseOnce(t *testing.T) {
	aggregator := NewCreditAggregator()

	// a 3-credit course expanded to two slots must contribute 3, not 6
	slots := []models.AtomicSlot{
		{CourseCode: "106", Subject: "Advanced Calculus 2", Type: models.CurriculumGeneral, Credits: 3},
		{CourseCode: "106", Subject: "Advanced Calculus 2", Type: models.CurriculumGeneral, Credits: 3},
	}

	summary := aggregator.Summarize(slots)
	assert.Equal(t, 3, summary.GeneralCredits)
	assert.Equal(t, 0, summary.MajorCredits)
	assert.Equal(t, 3, summary.TotalCredits)
}

func TestCreditAggregatorZeroOnRestConvention(t *testing.T) {
	aggregator := NewCreditAggregator()

	// some feeds put the credit only on the first expanded slot; the first
	// occurrence is the representative either way
	slots := []models.AtomicSlot{
		{CourseCode: "201", Subject: "Compilers", Type: models.CurriculumMajor, Credits: 3},
		{CourseCode: "201", Subject: "Compilers", Type: models.CurriculumMajor, Credits: 0},
		{CourseCode: "201", Subject: "Compilers", Type: models.CurriculumMajor, Credits: 0},
	}

	summary := aggregator.Summarize(slots)
	assert.Equal(t, 3, summary.MajorCredits)
	assert.Equal(t, 3, summary.TotalCredits)
}

func TestCreditAggregatorSplitsByCurriculum(t *testing.T) {
	aggregator := NewCreditAggregator()

	slots := []models.AtomicSlot{
		{CourseCode: "1", Subject: "OS", Type: models.CurriculumMajor, Credits: 3},
		{CourseCode: "2", Subject: "Writing", Type: models.CurriculumGeneral, Credits: 2},
		{CourseCode: "3", Subject: "Ethics", Type: models.CurriculumGeneral, Credits: 1},
	}

	summary := aggregator.Summarize(slots)
	assert.Equal(t, 3, summary.MajorCredits)
	assert.Equal(t, 3, summary.GeneralCredits)
	assert.Equal(t, 6, summary.TotalCredits)
}

func TestCreditAggregatorDistinguishesSubjectsOnSameCode(t *testing.T) {
	aggregator := NewCreditAggregator()

	slots := []models.AtomicSlot{
		{CourseCode: "10", Subject: "Seminar A", Type: models.CurriculumGeneral, Credits: 1},
		{CourseCode: "10", Subject: "Seminar B", Type: models.CurriculumGeneral, Credits: 1},
	}

	summary := aggregator.Summarize(slots)
	assert.Equal(t, 2, summary.GeneralCredits)
}

func TestCreditAggregatorClampsNegativeCredit(t *testing.T) {
	aggregator := NewCreditAggregator()

	slots := []models.AtomicSlot{
		{CourseCode: "7", Subject: "Broken Feed", Type: models.CurriculumMajor, Credits: -2},
	}

	summary := aggregator.Summarize(slots)
	assert.Equal(t, 0, summary.MajorCredits)
	assert.Equal(t, 0, summary.TotalCredits)
}

func TestCreditAggregatorEmptyInput(t *testing.T) {
	aggregator := NewCreditAggregator()

	summary := aggregator.Summarize(nil)
	assert.Equal(t, models.CreditSummary{}, summary)
}
