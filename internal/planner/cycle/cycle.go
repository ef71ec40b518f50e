// Package cycle builds the study/review day classification for a plan
// period and picks which of those dates a subject occupies.
package cycle

import (
	"fmt"
	"sort"
	"time"

	"github.com/yungbote/studyplan-backend/internal/planner/allocation"
)

const (
	DayTypeStudy     = "study"
	DayTypeReview    = "review"
	DayTypeExclusion = "exclusion"

	dateLayout = "2006-01-02"
)

// Day is one classified calendar date. WeekNumber and CycleNumber are
// 1-based. CycleDayNumber is the position within the current cycle and 0
// for excluded dates, which do not advance the cycle.
type Day struct {
	Date           string `json:"date"`
	DayType        string `json:"day_type"`
	WeekNumber     int    `json:"week_number"`
	CycleNumber    int    `json:"cycle_number"`
	CycleDayNumber int    `json:"cycle_day_number"`
}

// Build classifies every date of the plan period. The first studyDays
// positions of each cycleLength-day cycle are study days, the rest review
// days. Excluded dates (holidays, academy closures) are classified as
// exclusion and skipped by the cycle counter.
func Build(startDate string, totalDays, studyDays, cycleLength int, exclusions map[string]bool) ([]Day, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("parse start date %q: %w", startDate, err)
	}
	if totalDays <= 0 {
		return nil, fmt.Errorf("total days must be positive, got %d", totalDays)
	}
	if cycleLength <= 0 || studyDays <= 0 || studyDays > cycleLength {
		return nil, fmt.Errorf("invalid cycle shape: %d study days in a %d day cycle", studyDays, cycleLength)
	}

	days := make([]Day, 0, totalDays)
	counter := 0
	for i := 0; i < totalDays; i++ {
		date := start.AddDate(0, 0, i).Format(dateLayout)
		week := i/7 + 1
		if exclusions[date] {
			days = append(days, Day{Date: date, DayType: DayTypeExclusion, WeekNumber: week})
			continue
		}
		cycleDay := counter%cycleLength + 1
		dayType := DayTypeStudy
		if cycleDay > studyDays {
			dayType = DayTypeReview
		}
		days = append(days, Day{
			Date:           date,
			DayType:        dayType,
			WeekNumber:     week,
			CycleNumber:    counter/cycleLength + 1,
			CycleDayNumber: cycleDay,
		})
		counter++
	}
	return days, nil
}

// Allocate returns the chronologically ordered dates the given policy
// occupies. Weakness subjects take every study date. Strategy subjects take
// the earliest min(weekly_days, studyDaysInWeek) study dates of each week,
// grouped by the caller-supplied week number. Review and exclusion dates
// are never returned.
func Allocate(days []Day, eff allocation.Effective) []string {
	if eff.SubjectType == allocation.SubjectTypeStrategy && eff.WeeklyDays > 0 {
		return allocateStrategy(days, eff.WeeklyDays)
	}
	return studyDates(days)
}

func studyDates(days []Day) []string {
	var dates []string
	for _, d := range days {
		if d.DayType == DayTypeStudy {
			dates = append(dates, d.Date)
		}
	}
	sort.Strings(dates)
	return dates
}

func allocateStrategy(days []Day, weeklyDays int) []string {
	byWeek := map[int][]string{}
	var weeks []int
	for _, d := range days {
		if d.DayType != DayTypeStudy {
			continue
		}
		if _, seen := byWeek[d.WeekNumber]; !seen {
			weeks = append(weeks, d.WeekNumber)
		}
		byWeek[d.WeekNumber] = append(byWeek[d.WeekNumber], d.Date)
	}
	sort.Ints(weeks)

	var dates []string
	for _, w := range weeks {
		weekDates := byWeek[w]
		sort.Strings(weekDates)
		take := weeklyDays
		if take > len(weekDates) {
			take = len(weekDates)
		}
		dates = append(dates, weekDates[:take]...)
	}
	return dates
}

// ReviewDates returns the review dates in scope, chronological. Review days
// re-reference previously studied material rather than new content.
func ReviewDates(days []Day) []string {
	var dates []string
	for _, d := range days {
		if d.DayType == DayTypeReview {
			dates = append(dates, d.Date)
		}
	}
	sort.Strings(dates)
	return dates
}
