// Package overlap reconciles a batch of draft plans against each other and
// against external calendar commitments. Validation reports conflicts;
// Adjust resolves them by shifting plans later in the day, preserving each
// plan's duration.
package overlap

import (
	"fmt"

	"github.com/yungbote/studyplan-backend/internal/planner/timeutil"
)

// Plan is the minimal scheduling view of a draft plan. Plans missing either
// time are excluded from comparison and pass through Adjust unchanged.
type Plan struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Busy is an external commitment (tutoring session, academy class) this
// core does not own.
type Busy struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Label     string `json:"label,omitempty"`
}

type ExternalOverlap struct {
	PlanIndex      int    `json:"plan_index"`
	PlanRange      string `json:"plan_range"`
	BusyRange      string `json:"busy_range"`
	BusyLabel      string `json:"busy_label,omitempty"`
	OverlapMinutes int    `json:"overlap_minutes"`
}

type ExternalReport struct {
	HasOverlaps bool              `json:"has_overlaps"`
	Overlaps    []ExternalOverlap `json:"overlaps"`
}

type InternalOverlap struct {
	Plan1Index     int `json:"plan1_index"`
	Plan2Index     int `json:"plan2_index"`
	OverlapMinutes int `json:"overlap_minutes"`
}

type InternalReport struct {
	HasOverlaps         bool              `json:"has_overlaps"`
	Overlaps            []InternalOverlap `json:"overlaps"`
	TotalOverlapMinutes int               `json:"total_overlap_minutes"`
}

type Unadjustable struct {
	Plan   Plan   `json:"plan"`
	Reason string `json:"reason"`
}

type AdjustResult struct {
	AdjustedPlans     []Plan         `json:"adjusted_plans"`
	AdjustedCount     int            `json:"adjusted_count"`
	UnadjustablePlans []Unadjustable `json:"unadjustable_plans"`
}

type span struct {
	start int
	end   int
}

func planSpan(p Plan) (span, bool) {
	s, okS := timeutil.ToMinutes(p.StartTime)
	e, okE := timeutil.ToMinutes(p.EndTime)
	if !okS || !okE || e <= s {
		return span{}, false
	}
	return span{start: s, end: e}, true
}

func busySpan(b Busy) (span, bool) {
	s, okS := timeutil.ToMinutes(b.StartTime)
	e, okE := timeutil.ToMinutes(b.EndTime)
	if !okS || !okE || e <= s {
		return span{}, false
	}
	return span{start: s, end: e}, true
}

func rangeLabel(s span) string {
	return timeutil.FromMinutes(s.start) + "-" + timeutil.FromMinutes(s.end)
}

// ValidateExternal reports every plan/commitment intersection on matching
// dates.
func ValidateExternal(plans []Plan, busy []Busy) ExternalReport {
	var report ExternalReport
	for i, p := range plans {
		ps, ok := planSpan(p)
		if !ok {
			continue
		}
		for _, b := range busy {
			if b.Date != p.Date {
				continue
			}
			bs, ok := busySpan(b)
			if !ok {
				continue
			}
			minutes := timeutil.OverlapMinutes(ps.start, ps.end, bs.start, bs.end)
			if minutes == 0 {
				continue
			}
			report.Overlaps = append(report.Overlaps, ExternalOverlap{
				PlanIndex:      i,
				PlanRange:      rangeLabel(ps),
				BusyRange:      rangeLabel(bs),
				BusyLabel:      b.Label,
				OverlapMinutes: minutes,
			})
		}
	}
	report.HasOverlaps = len(report.Overlaps) > 0
	return report
}

// ValidateInternal reports intersections among plans sharing a date.
func ValidateInternal(plans []Plan) InternalReport {
	var report InternalReport
	for i := 0; i < len(plans); i++ {
		si, ok := planSpan(plans[i])
		if !ok {
			continue
		}
		for j := i + 1; j < len(plans); j++ {
			if plans[j].Date != plans[i].Date {
				continue
			}
			sj, ok := planSpan(plans[j])
			if !ok {
				continue
			}
			minutes := timeutil.OverlapMinutes(si.start, si.end, sj.start, sj.end)
			if minutes == 0 {
				continue
			}
			report.Overlaps = append(report.Overlaps, InternalOverlap{
				Plan1Index:     i,
				Plan2Index:     j,
				OverlapMinutes: minutes,
			})
			report.TotalOverlapMinutes += minutes
		}
	}
	report.HasOverlaps = len(report.Overlaps) > 0
	return report
}

// Adjust processes plans grouped by date in stable input order. A plan that
// intersects a commitment or an already-placed plan on its date is shifted
// so its start lands on the end of the latest conflicting range, keeping
// its duration. Each plan is re-checked in a bounded fixed-point loop of at
// most one pass per plan on that date, so termination is guaranteed. A
// shift that would push the plan past maxEndTime leaves the plan at its
// original position and reports it as unadjustable instead.
func Adjust(plans []Plan, busy []Busy, maxEndTime string) AdjustResult {
	if maxEndTime == "" {
		maxEndTime = "23:59"
	}
	maxEnd, ok := timeutil.ToMinutes(maxEndTime)
	if !ok {
		maxEnd = 23*60 + 59
	}

	busyByDate := map[string][]span{}
	for _, b := range busy {
		if bs, ok := busySpan(b); ok {
			busyByDate[b.Date] = append(busyByDate[b.Date], bs)
		}
	}
	plansPerDate := map[string]int{}
	for _, p := range plans {
		plansPerDate[p.Date]++
	}

	result := AdjustResult{AdjustedPlans: make([]Plan, 0, len(plans))}
	placedByDate := map[string][]span{}

	for _, p := range plans {
		ps, ok := planSpan(p)
		if !ok {
			result.AdjustedPlans = append(result.AdjustedPlans, p)
			continue
		}

		blocked := append([]span{}, busyByDate[p.Date]...)
		blocked = append(blocked, placedByDate[p.Date]...)

		duration := ps.end - ps.start
		current := ps
		moved := false
		maxPasses := plansPerDate[p.Date] + len(busyByDate[p.Date])
		for pass := 0; pass < maxPasses; pass++ {
			latest, conflict := latestConflictEnd(current, blocked)
			if !conflict {
				break
			}
			current = span{start: latest, end: latest + duration}
			moved = true
		}

		if moved && current.end > maxEnd {
			result.UnadjustablePlans = append(result.UnadjustablePlans, Unadjustable{
				Plan: p,
				Reason: fmt.Sprintf("cannot shift past maximum end time %s (needed %s)",
					timeutil.FromMinutes(maxEnd), timeutil.FromMinutes(current.end)),
			})
			result.AdjustedPlans = append(result.AdjustedPlans, p)
			continue
		}

		adjusted := p
		if moved {
			adjusted.StartTime = timeutil.FromMinutes(current.start)
			adjusted.EndTime = timeutil.FromMinutes(current.end)
			result.AdjustedCount++
		}
		placedByDate[p.Date] = append(placedByDate[p.Date], current)
		result.AdjustedPlans = append(result.AdjustedPlans, adjusted)
	}

	return result
}

// latestConflictEnd returns the latest end among blocked ranges that
// intersect s.
func latestConflictEnd(s span, blocked []span) (int, bool) {
	latest := 0
	conflict := false
	for _, b := range blocked {
		if !timeutil.Overlaps(s.start, s.end, b.start, b.end) {
			continue
		}
		conflict = true
		if b.end > latest {
			latest = b.end
		}
	}
	return latest, conflict
}
