package allocation

import (
	"errors"
	"strings"
	"testing"

	"github.com/yungbote/studyplan-backend/internal/apierr"
)

func TestResolvePrecedence(t *testing.T) {
	contentAllocs := []ContentAllocation{
		{ContentType: "book", ContentID: "b1", SubjectType: SubjectTypeStrategy, WeeklyDays: 3},
	}
	subjectAllocs := []SubjectAllocation{
		{SubjectName: "Math", SubjectType: SubjectTypeStrategy, WeeklyDays: 2},
	}

	cases := []struct {
		name    string
		content ContentRef
		want    Effective
	}{
		{
			name:    "content level wins",
			content: ContentRef{ContentType: "book", ContentID: "b1", SubjectCategory: "Math"},
			want:    Effective{SubjectType: SubjectTypeStrategy, WeeklyDays: 3, Source: SourceContent},
		},
		{
			name:    "subject level fallback",
			content: ContentRef{ContentType: "book", ContentID: "b2", SubjectCategory: "Math"},
			want:    Effective{SubjectType: SubjectTypeStrategy, WeeklyDays: 2, Source: SourceSubject},
		},
		{
			name:    "default weakness",
			content: ContentRef{ContentType: "book", ContentID: "b3", SubjectCategory: "History"},
			want:    Effective{SubjectType: SubjectTypeWeakness, Source: SourceDefault},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(tc.content, contentAllocs, subjectAllocs)
			if got != tc.want {
				t.Fatalf("Resolve = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestResolveSubjectMatchingTiers(t *testing.T) {
	subjectAllocs := []SubjectAllocation{
		{SubjectID: "s-77", SubjectName: "Physics II", SubjectType: SubjectTypeWeakness},
		{SubjectName: "advanced math", SubjectType: SubjectTypeStrategy, WeeklyDays: 4},
		{SubjectName: "Math", SubjectType: SubjectTypeStrategy, WeeklyDays: 2},
	}

	// subject id beats any name match
	got := Resolve(ContentRef{ContentID: "c1", SubjectID: "s-77", SubjectCategory: "math"}, nil, subjectAllocs)
	if got.SubjectType != SubjectTypeWeakness || got.Source != SourceSubject {
		t.Fatalf("id tier: %+v", got)
	}

	// exact name/category equality beats partial containment, regardless
	// of entry order
	got = Resolve(ContentRef{ContentID: "c2", SubjectCategory: " MATH "}, nil, subjectAllocs)
	if got.WeeklyDays != 2 {
		t.Fatalf("exact tier: %+v", got)
	}

	// partial: allocation name contains the category
	got = Resolve(ContentRef{ContentID: "c3", SubjectCategory: "advanced"}, nil, subjectAllocs)
	if got.WeeklyDays != 4 {
		t.Fatalf("partial tier: %+v", got)
	}

	// no category, no id: nothing matches
	got = Resolve(ContentRef{ContentID: "c4"}, nil, subjectAllocs)
	if got.Source != SourceDefault {
		t.Fatalf("empty ref should default: %+v", got)
	}
}

func TestResolveWeeklyDaysOnlyForStrategy(t *testing.T) {
	contentAllocs := []ContentAllocation{
		{ContentType: "book", ContentID: "b1", SubjectType: SubjectTypeWeakness, WeeklyDays: 3},
	}
	got := Resolve(ContentRef{ContentType: "book", ContentID: "b1"}, contentAllocs, nil)
	if got.WeeklyDays != 0 {
		t.Fatalf("weakness resolution must not carry weekly_days: %+v", got)
	}
}

func TestValidateAllocations(t *testing.T) {
	cases := []struct {
		name     string
		content  []ContentAllocation
		subject  []SubjectAllocation
		wantPart string
	}{
		{name: "empty inputs valid"},
		{
			name:    "valid mix",
			content: []ContentAllocation{{ContentType: "book", ContentID: "b1", SubjectType: SubjectTypeStrategy, WeeklyDays: 3}},
			subject: []SubjectAllocation{{SubjectName: "Math", SubjectType: SubjectTypeWeakness}},
		},
		{
			name:     "missing content_type",
			content:  []ContentAllocation{{ContentID: "b1", SubjectType: SubjectTypeWeakness}},
			wantPart: "content_type",
		},
		{
			name:     "missing content_id",
			content:  []ContentAllocation{{ContentType: "book", SubjectType: SubjectTypeWeakness}},
			wantPart: "content_id",
		},
		{
			name:     "missing subject_type",
			content:  []ContentAllocation{{ContentType: "book", ContentID: "b1"}},
			wantPart: "subject_type",
		},
		{
			name:     "strategy weekly_days out of range",
			content:  []ContentAllocation{{ContentType: "book", ContentID: "b1", SubjectType: SubjectTypeStrategy, WeeklyDays: 5}},
			wantPart: "weekly_days",
		},
		{
			name:     "strategy weekly_days missing",
			subject:  []SubjectAllocation{{SubjectName: "Math", SubjectType: SubjectTypeStrategy}},
			wantPart: "weekly_days",
		},
		{
			name:     "missing subject_name",
			subject:  []SubjectAllocation{{SubjectType: SubjectTypeWeakness}},
			wantPart: "subject_name",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAllocations(tc.content, tc.subject)
			if tc.wantPart == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error naming %q", tc.wantPart)
			}
			if !strings.Contains(err.Error(), tc.wantPart) {
				t.Fatalf("error %q does not name %q", err.Error(), tc.wantPart)
			}
			var ae *apierr.Error
			if !errors.As(err, &ae) {
				t.Fatalf("error is not an apierr.Error: %T", err)
			}
			if ae.Code != apierr.CodeInvalidAllocation || ae.UserMessage == "" {
				t.Fatalf("domain error missing code or user message: %+v", ae)
			}
		})
	}
}

func TestMergeAllocations(t *testing.T) {
	contents := []ContentRef{
		{ContentType: "book", ContentID: "b1", SubjectCategory: "Math"},
		{ContentType: "lecture", ContentID: "l1", SubjectCategory: "English"},
	}
	contentAllocs := []ContentAllocation{
		{ContentType: "book", ContentID: "b1", SubjectType: SubjectTypeStrategy, WeeklyDays: 2},
	}

	merged, err := MergeAllocations(contents, contentAllocs, nil)
	if err != nil {
		t.Fatalf("MergeAllocations: %v", err)
	}
	if merged["b1"].Source != SourceContent || merged["b1"].WeeklyDays != 2 {
		t.Fatalf("b1 = %+v", merged["b1"])
	}
	if merged["l1"].Source != SourceDefault {
		t.Fatalf("l1 = %+v", merged["l1"])
	}

	_, err = MergeAllocations(contents, []ContentAllocation{{ContentID: "b1", SubjectType: SubjectTypeWeakness}}, nil)
	if err == nil {
		t.Fatalf("expected validation to reject the malformed entry")
	}
}
