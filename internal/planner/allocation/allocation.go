// Package allocation resolves which allocation policy governs a piece of
// content. Content-level entries always win over subject-level entries,
// which win over the default.
package allocation

import (
	"strings"
)

const (
	SubjectTypeStrategy = "strategy"
	SubjectTypeWeakness = "weakness"

	SourceContent = "content"
	SourceSubject = "subject"
	SourceDefault = "default"
)

// ContentAllocation is a per-content policy entry, the highest-precedence
// allocation source.
type ContentAllocation struct {
	ContentType string `json:"content_type"`
	ContentID   string `json:"content_id"`
	SubjectType string `json:"subject_type"`
	WeeklyDays  int    `json:"weekly_days,omitempty"`
}

// SubjectAllocation is a per-subject policy entry, consulted when no
// content-level entry matches.
type SubjectAllocation struct {
	SubjectID   string `json:"subject_id,omitempty"`
	SubjectName string `json:"subject_name"`
	SubjectType string `json:"subject_type"`
	WeeklyDays  int    `json:"weekly_days,omitempty"`
}

// ContentRef identifies the content being resolved.
type ContentRef struct {
	ContentType     string
	ContentID       string
	SubjectID       string
	SubjectCategory string
}

// Effective is the resolved policy. WeeklyDays is meaningful only when
// SubjectType is strategy.
type Effective struct {
	SubjectType string `json:"subject_type"`
	WeeklyDays  int    `json:"weekly_days,omitempty"`
	Source      string `json:"source"`
}

// Resolve never fails: with no matching entry the content falls back to a
// weakness default.
func Resolve(content ContentRef, contentAllocs []ContentAllocation, subjectAllocs []SubjectAllocation) Effective {
	for _, ca := range contentAllocs {
		if strings.EqualFold(strings.TrimSpace(ca.ContentType), strings.TrimSpace(content.ContentType)) &&
			strings.TrimSpace(ca.ContentID) == strings.TrimSpace(content.ContentID) {
			return Effective{
				SubjectType: ca.SubjectType,
				WeeklyDays:  strategyDays(ca.SubjectType, ca.WeeklyDays),
				Source:      SourceContent,
			}
		}
	}
	if sa, ok := matchSubject(content, subjectAllocs); ok {
		return Effective{
			SubjectType: sa.SubjectType,
			WeeklyDays:  strategyDays(sa.SubjectType, sa.WeeklyDays),
			Source:      SourceSubject,
		}
	}
	return Effective{SubjectType: SubjectTypeWeakness, Source: SourceDefault}
}

func strategyDays(subjectType string, days int) int {
	if subjectType == SubjectTypeStrategy {
		return days
	}
	return 0
}

// matchSubject applies three priority tiers: subject id equality, exact
// name/category equality, then partial containment (name contains
// category). All comparisons fold case and trim whitespace. A content's
// free-form subject field alone never matches an allocation.
func matchSubject(content ContentRef, subjectAllocs []SubjectAllocation) (SubjectAllocation, bool) {
	id := strings.TrimSpace(content.SubjectID)
	cat := fold(content.SubjectCategory)

	if id != "" {
		for _, sa := range subjectAllocs {
			if strings.TrimSpace(sa.SubjectID) == id {
				return sa, true
			}
		}
	}
	if cat == "" {
		return SubjectAllocation{}, false
	}
	for _, sa := range subjectAllocs {
		if fold(sa.SubjectName) == cat {
			return sa, true
		}
	}
	for _, sa := range subjectAllocs {
		name := fold(sa.SubjectName)
		if name != "" && strings.Contains(name, cat) {
			return sa, true
		}
	}
	return SubjectAllocation{}, false
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
