// Package distribute spreads a content's unit count across its allocated
// dates and estimates how long each resulting block takes.
package distribute

import "math"

// DivideUnits splits totalUnits across availableDays. Every day but the
// last receives ceil(total/days) units; the last receives the remainder.
// Days after the units run out receive 0 and are left unscheduled. The
// per-day sum always equals totalUnits exactly.
func DivideUnits(totalUnits, availableDays int) []int {
	if availableDays <= 0 {
		return nil
	}
	out := make([]int, availableDays)
	if totalUnits <= 0 {
		return out
	}
	perDay := (totalUnits + availableDays - 1) / availableDays
	remaining := totalUnits
	for i := 0; i < availableDays && remaining > 0; i++ {
		units := perDay
		if units > remaining {
			units = remaining
		}
		out[i] = units
		remaining -= units
	}
	return out
}

// RangeSlice is a contiguous unit range assigned to one day. A zero Units
// slice marks an unscheduled trailing day.
type RangeSlice struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Units int `json:"units"`
}

// DivideRange maps DivideUnits onto an inclusive unit range, so day one of
// [1..103] over 10 days covers pages 1-11.
func DivideRange(startUnit, endUnit, availableDays int) []RangeSlice {
	total := endUnit - startUnit + 1
	if total < 0 {
		total = 0
	}
	perDay := DivideUnits(total, availableDays)
	out := make([]RangeSlice, len(perDay))
	cursor := startUnit
	for i, units := range perDay {
		if units == 0 {
			continue
		}
		out[i] = RangeSlice{Start: cursor, End: cursor + units - 1, Units: units}
		cursor += units
	}
	return out
}

// Episode is one lecture episode with its runtime.
type Episode struct {
	Number          int `json:"number"`
	DurationMinutes int `json:"duration_minutes"`
}

// PackEpisodes packs episodes greedily into duration-bounded slots: an
// episode joins the current slot only while the running total stays within
// slotDuration. An episode longer than slotDuration still occupies its own
// unsplit slot.
func PackEpisodes(episodes []Episode, slotDuration int) [][]Episode {
	if len(episodes) == 0 {
		return nil
	}
	if slotDuration <= 0 {
		slots := make([][]Episode, len(episodes))
		for i, ep := range episodes {
			slots[i] = []Episode{ep}
		}
		return slots
	}

	var slots [][]Episode
	var current []Episode
	running := 0
	for _, ep := range episodes {
		if len(current) > 0 && running+ep.DurationMinutes > slotDuration {
			slots = append(slots, current)
			current = nil
			running = 0
		}
		current = append(current, ep)
		running += ep.DurationMinutes
	}
	if len(current) > 0 {
		slots = append(slots, current)
	}
	return slots
}

// Factors are the duration-estimation multipliers. The zero value is not
// usable; callers populate it from configuration.
type Factors struct {
	MinutesPerPage       float64
	FallbackEpisodeMin   int
	BeginnerFactor       float64
	AdvancedFactor       float64
	WeaknessFactor       float64
	StrategyFactor       float64
	ReviewFactor         float64
	ReviewOfReviewFactor float64
}

const (
	LevelBeginner = "beginner"
	LevelRegular  = "regular"
	LevelAdvanced = "advanced"
)

// EstimateOptions describe the block whose duration is being estimated.
type EstimateOptions struct {
	StudentLevel     string
	SubjectType      string // strategy or weakness
	IsReview         bool
	IsReviewOfReview bool
}

// Estimate scales a base duration by student level, subject type and
// review status, returning whole minutes (minimum 1 for a positive base).
func Estimate(baseMinutes float64, opts EstimateOptions, f Factors) int {
	if baseMinutes <= 0 {
		return 0
	}
	d := baseMinutes
	switch opts.StudentLevel {
	case LevelAdvanced:
		d *= f.AdvancedFactor
	case LevelBeginner:
		d *= f.BeginnerFactor
	}
	switch opts.SubjectType {
	case "weakness":
		d *= f.WeaknessFactor
	case "strategy":
		d *= f.StrategyFactor
	}
	if opts.IsReviewOfReview {
		d *= f.ReviewOfReviewFactor
	} else if opts.IsReview {
		d *= f.ReviewFactor
	}
	minutes := int(math.Round(d))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// PageBaseMinutes is the base duration of a page-range block.
func PageBaseMinutes(units int, f Factors) float64 {
	if units <= 0 {
		return 0
	}
	return float64(units) * f.MinutesPerPage
}

// EpisodeBaseMinutes sums the runtimes of a slice of episodes, substituting
// the fallback for missing runtimes.
func EpisodeBaseMinutes(episodes []Episode, f Factors) float64 {
	total := 0
	for _, ep := range episodes {
		if ep.DurationMinutes > 0 {
			total += ep.DurationMinutes
		} else {
			total += f.FallbackEpisodeMin
		}
	}
	return float64(total)
}
