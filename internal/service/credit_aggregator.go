package service

import (
	"fmt"

	"github.com/noah-isme/timetable-api/internal/models"
)

// CreditAggregator reduces expanded slots back to unique course identities
// and totals credit hours by curriculum type.
type CreditAggregator struct{}

// NewCreditAggregator constructs an aggregator.
func NewCreditAggregator() *CreditAggregator {
	return &CreditAggregator{}
}

// Summarize counts each distinct (courseCode, subject) identity exactly once,
// reading credit and type from the first occurrence. Upstream feeds disagree
// on whether credit appears on every expanded slot or only the first one;
// dedup by identity makes the total correct either way. Negative or missing
// credit counts as zero.
func (a *CreditAggregator) Summarize(slots []models.AtomicSlot) models.CreditSummary {
	seen := make(map[string]struct{}, len(slots))
	var summary models.CreditSummary

	for _, slot := range slots {
		key := fmt.Sprintf("%s-%s", slot.CourseCode, slot.Subject)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		credit := slot.Credits
		if credit < 0 {
			credit = 0
		}
		switch slot.Type {
		case models.CurriculumMajor:
			summary.MajorCredits += credit
		default:
			summary.GeneralCredits += credit
		}
	}

	summary.TotalCredits = summary.MajorCredits + summary.GeneralCredits
	return summary
}
