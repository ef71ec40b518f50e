package allocation

import (
	"fmt"
	"net/http"

	"github.com/yungbote/studyplan-backend/internal/apierr"
)

const invalidAllocationUserMsg = "The allocation settings are invalid. Please review the plan configuration and try again."

// ValidateAllocations checks the wizard-supplied allocation entries for
// shape errors before a generation run. Unlike the rest of this package it
// does fail, with a typed domain error, because a malformed entry is a
// programmer error rather than an expected runtime condition. Empty slices
// are valid.
func ValidateAllocations(contentAllocs []ContentAllocation, subjectAllocs []SubjectAllocation) error {
	for i, ca := range contentAllocs {
		if ca.ContentType == "" {
			return invalid(fmt.Errorf("content_allocations[%d]: missing content_type", i))
		}
		if ca.ContentID == "" {
			return invalid(fmt.Errorf("content_allocations[%d]: missing content_id", i))
		}
		if err := checkSubjectType(fmt.Sprintf("content_allocations[%d]", i), ca.SubjectType, ca.WeeklyDays); err != nil {
			return err
		}
	}
	for i, sa := range subjectAllocs {
		if sa.SubjectName == "" && sa.SubjectID == "" {
			return invalid(fmt.Errorf("subject_allocations[%d]: missing subject_name", i))
		}
		if err := checkSubjectType(fmt.Sprintf("subject_allocations[%d]", i), sa.SubjectType, sa.WeeklyDays); err != nil {
			return err
		}
	}
	return nil
}

func checkSubjectType(where, subjectType string, weeklyDays int) error {
	switch subjectType {
	case SubjectTypeWeakness:
		return nil
	case SubjectTypeStrategy:
		switch weeklyDays {
		case 2, 3, 4:
			return nil
		}
		return invalid(fmt.Errorf("%s: weekly_days must be 2, 3 or 4, got %d", where, weeklyDays))
	case "":
		return invalid(fmt.Errorf("%s: missing subject_type", where))
	default:
		return invalid(fmt.Errorf("%s: unknown subject_type %q", where, subjectType))
	}
}

func invalid(err error) error {
	return apierr.WithUserMessage(http.StatusBadRequest, apierr.CodeInvalidAllocation, invalidAllocationUserMsg, err)
}

// MergeAllocations validates both entry lists and resolves the effective
// policy for every content in one pass. The returned map is keyed by
// content id.
func MergeAllocations(contents []ContentRef, contentAllocs []ContentAllocation, subjectAllocs []SubjectAllocation) (map[string]Effective, error) {
	if err := ValidateAllocations(contentAllocs, subjectAllocs); err != nil {
		return nil, err
	}
	merged := make(map[string]Effective, len(contents))
	for _, c := range contents {
		merged[c.ContentID] = Resolve(c, contentAllocs, subjectAllocs)
	}
	return merged, nil
}
