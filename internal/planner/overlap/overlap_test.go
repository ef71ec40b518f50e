package overlap

import (
	"strings"
	"testing"
)

func TestValidateExternal(t *testing.T) {
	plans := []Plan{
		{ID: "p1", Date: "2026-03-02", StartTime: "09:00", EndTime: "10:00"},
		{ID: "p2", Date: "2026-03-02", StartTime: "11:00", EndTime: "12:00"},
		{ID: "p3", Date: "2026-03-03", StartTime: "09:00", EndTime: "10:00"},
		{ID: "p4", Date: "2026-03-02"}, // no times, excluded
	}
	busy := []Busy{
		{Date: "2026-03-02", StartTime: "09:30", EndTime: "10:30", Label: "academy"},
		{Date: "2026-03-03", StartTime: "20:00", EndTime: "21:00"},
	}

	report := ValidateExternal(plans, busy)
	if !report.HasOverlaps || len(report.Overlaps) != 1 {
		t.Fatalf("report = %+v", report)
	}
	ov := report.Overlaps[0]
	if ov.PlanIndex != 0 || ov.OverlapMinutes != 30 {
		t.Fatalf("overlap = %+v", ov)
	}
	if ov.PlanRange != "09:00-10:00" || ov.BusyRange != "09:30-10:30" {
		t.Fatalf("ranges = %+v", ov)
	}
}

func TestValidateInternal(t *testing.T) {
	plans := []Plan{
		{ID: "p1", Date: "2026-03-02", StartTime: "09:00", EndTime: "10:00"},
		{ID: "p2", Date: "2026-03-02", StartTime: "09:45", EndTime: "10:45"},
		{ID: "p3", Date: "2026-03-03", StartTime: "09:45", EndTime: "10:45"}, // other date
		{ID: "p4", Date: "2026-03-02", StartTime: "10:45", EndTime: "11:00"},
	}

	report := ValidateInternal(plans)
	if !report.HasOverlaps || len(report.Overlaps) != 1 {
		t.Fatalf("report = %+v", report)
	}
	if report.Overlaps[0].Plan1Index != 0 || report.Overlaps[0].Plan2Index != 1 {
		t.Fatalf("overlap = %+v", report.Overlaps[0])
	}
	if report.TotalOverlapMinutes != 15 {
		t.Fatalf("total minutes = %d", report.TotalOverlapMinutes)
	}
}

func TestAdjustShiftsPastCommitment(t *testing.T) {
	plans := []Plan{{ID: "p1", Date: "2026-03-02", StartTime: "09:00", EndTime: "10:00"}}
	busy := []Busy{{Date: "2026-03-02", StartTime: "09:30", EndTime: "10:30"}}

	res := Adjust(plans, busy, "23:59")
	if res.AdjustedCount != 1 || len(res.UnadjustablePlans) != 0 {
		t.Fatalf("result = %+v", res)
	}
	got := res.AdjustedPlans[0]
	if got.StartTime != "10:30" || got.EndTime != "11:30" {
		t.Fatalf("adjusted to [%s-%s], want [10:30-11:30]", got.StartTime, got.EndTime)
	}

	if re := ValidateExternal(res.AdjustedPlans, busy); re.HasOverlaps {
		t.Fatalf("re-validation still reports overlaps: %+v", re)
	}
	if ri := ValidateInternal(res.AdjustedPlans); ri.HasOverlaps {
		t.Fatalf("internal re-validation failed: %+v", ri)
	}
}

func TestAdjustCascadesAcrossPlacedPlans(t *testing.T) {
	// both plans collide with the commitment; the second must also clear
	// the first one's new position
	plans := []Plan{
		{ID: "p1", Date: "2026-03-02", StartTime: "09:00", EndTime: "10:00"},
		{ID: "p2", Date: "2026-03-02", StartTime: "09:15", EndTime: "10:15"},
	}
	busy := []Busy{{Date: "2026-03-02", StartTime: "09:30", EndTime: "10:30"}}

	res := Adjust(plans, busy, "23:59")
	if res.AdjustedCount != 2 {
		t.Fatalf("result = %+v", res)
	}
	p1, p2 := res.AdjustedPlans[0], res.AdjustedPlans[1]
	if p1.StartTime != "10:30" || p1.EndTime != "11:30" {
		t.Fatalf("p1 = [%s-%s]", p1.StartTime, p1.EndTime)
	}
	if p2.StartTime != "11:30" || p2.EndTime != "12:30" {
		t.Fatalf("p2 = [%s-%s]", p2.StartTime, p2.EndTime)
	}
	if re := ValidateInternal(res.AdjustedPlans); re.HasOverlaps {
		t.Fatalf("cascade left overlaps: %+v", re)
	}
}

func TestAdjustMaxEndTimeViolation(t *testing.T) {
	plans := []Plan{{ID: "p1", Date: "2026-03-02", StartTime: "22:00", EndTime: "23:00"}}
	busy := []Busy{{Date: "2026-03-02", StartTime: "22:30", EndTime: "23:30"}}

	res := Adjust(plans, busy, "23:30")
	if res.AdjustedCount != 0 {
		t.Fatalf("violating plan must not count as adjusted: %+v", res)
	}
	if len(res.UnadjustablePlans) != 1 {
		t.Fatalf("result = %+v", res)
	}
	un := res.UnadjustablePlans[0]
	if un.Plan.ID != "p1" {
		t.Fatalf("unadjustable = %+v", un)
	}
	if !strings.Contains(un.Reason, "23:30") || !strings.Contains(un.Reason, "maximum end time") {
		t.Fatalf("reason %q does not name the max-time violation", un.Reason)
	}
	// the plan passes through at its original position
	if res.AdjustedPlans[0].StartTime != "22:00" {
		t.Fatalf("plan should keep original times: %+v", res.AdjustedPlans[0])
	}
}

func TestAdjustLeavesCleanPlansAlone(t *testing.T) {
	plans := []Plan{
		{ID: "p1", Date: "2026-03-02", StartTime: "09:00", EndTime: "10:00"},
		{ID: "p2", Date: "2026-03-02"}, // timeless, passes through
		{ID: "p3", Date: "2026-03-03", StartTime: "09:00", EndTime: "10:00"},
	}
	busy := []Busy{{Date: "2026-03-02", StartTime: "11:00", EndTime: "12:00"}}

	res := Adjust(plans, busy, "")
	if res.AdjustedCount != 0 || len(res.UnadjustablePlans) != 0 {
		t.Fatalf("result = %+v", res)
	}
	for i, p := range res.AdjustedPlans {
		if p != plans[i] {
			t.Fatalf("plan %d changed: %+v", i, p)
		}
	}
}

func TestAdjustDatesAreIsolated(t *testing.T) {
	// same clock times on different dates never conflict
	plans := []Plan{
		{ID: "p1", Date: "2026-03-02", StartTime: "09:00", EndTime: "10:00"},
		{ID: "p2", Date: "2026-03-03", StartTime: "09:00", EndTime: "10:00"},
	}
	res := Adjust(plans, nil, "23:59")
	if res.AdjustedCount != 0 {
		t.Fatalf("cross-date adjustment happened: %+v", res)
	}
}
