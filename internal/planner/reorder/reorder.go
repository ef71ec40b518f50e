// Package reorder reflows one day's timeline after a manual drag move.
// The engine decides between pushing later items forward and pulling them
// earlier, and returns the full relaid timeline as a tagged result so
// persistence handles both modes exhaustively.
package reorder

import (
	"fmt"

	"github.com/yungbote/studyplan-backend/internal/planner/timeutil"
)

type ItemType string

const (
	TypePlan     ItemType = "plan"
	TypeNonStudy ItemType = "nonStudy"
)

// Item is one timeline entry, reconstructed per call and discarded after
// write-back. PlanID backs plan items; RecordID backs persisted non-study
// items and is empty for blocks created by legacy planners.
type Item struct {
	ID              string   `json:"id"`
	Type            ItemType `json:"type"`
	PlanID          string   `json:"plan_id,omitempty"`
	RecordID        string   `json:"record_id,omitempty"`
	Title           string   `json:"title,omitempty"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	DurationMinutes int      `json:"duration_minutes"`
}

type Mode string

const (
	ModePush Mode = "push"
	ModePull Mode = "pull"
)

// Bounds is the day's reorderable window.
type Bounds struct {
	DayStart string
	DayEnd   string
}

type EmptySlot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type Result struct {
	Mode      Mode       `json:"mode"`
	Items     []Item     `json:"items"`
	EmptySlot *EmptySlot `json:"empty_slot,omitempty"`
}

func (b Bounds) minutes() (int, int) {
	start, ok := timeutil.ToMinutes(b.DayStart)
	if !ok {
		start = 0
	}
	end, ok := timeutil.ToMinutes(b.DayEnd)
	if !ok {
		end = 23*60 + 59
	}
	return start, end
}

func durationOf(it Item) int {
	s, okS := timeutil.ToMinutes(it.StartTime)
	e, okE := timeutil.ToMinutes(it.EndTime)
	if okS && okE && e > s {
		return e - s
	}
	if it.DurationMinutes > 0 {
		return it.DurationMinutes
	}
	return 0
}

// CanReorder reports whether the items fit the window at all. The second
// return is the number of minutes by which they exceed it.
func CanReorder(items []Item, bounds Bounds) (bool, int) {
	start, end := bounds.minutes()
	capacity := end - start
	total := 0
	for _, it := range items {
		total += durationOf(it)
	}
	if total <= capacity {
		return true, 0
	}
	return false, total - capacity
}

// Compute relays the day after a move. prev is the ordered timeline before
// the move, curr the same items in their new order, movedID the dragged
// item. Mode selection compares the moved item's original end boundary with
// the one its new position implies: a later boundary pushes, an earlier one
// pulls, an exact tie pushes (the non-destructive default).
func Compute(prev, curr []Item, movedID string, bounds Bounds) (Result, error) {
	if len(curr) == 0 {
		return Result{}, fmt.Errorf("empty timeline")
	}
	newIdx := indexOf(curr, movedID)
	if newIdx < 0 {
		return Result{}, fmt.Errorf("moved item %s not in current timeline", movedID)
	}
	oldIdx := indexOf(prev, movedID)
	if oldIdx < 0 {
		return Result{}, fmt.Errorf("moved item %s not in prior timeline", movedID)
	}
	if ok, excess := CanReorder(curr, bounds); !ok {
		return Result{}, fmt.Errorf("timeline exceeds the day window by %d minutes", excess)
	}

	dayStart, dayEnd := bounds.minutes()

	origEnd, ok := timeutil.ToMinutes(prev[oldIdx].EndTime)
	if !ok {
		origEnd = dayStart
	}
	newBoundary := dayStart + durationOf(curr[newIdx])
	if newIdx > 0 {
		if predEnd, ok := timeutil.ToMinutes(curr[newIdx-1].EndTime); ok {
			newBoundary = predEnd + durationOf(curr[newIdx])
		}
	}

	if newBoundary >= origEnd {
		res, fits := push(prev, curr, newIdx, oldIdx, dayStart, dayEnd)
		if fits {
			return res, nil
		}
		// push ran past the end of the day, repack instead
	}
	return pull(curr, dayStart), nil
}

// push keeps every item before the insertion point where it was, drops the
// moved item onto its predecessor's end and shifts only the later items
// that now overlap. The vacated original range is reported as the empty
// slot. The second return is false when the cascade ran past dayEnd.
func push(prev, curr []Item, newIdx, oldIdx, dayStart, dayEnd int) (Result, bool) {
	out := make([]Item, len(curr))
	copy(out, curr)

	cursor := dayStart
	for i := 0; i < newIdx; i++ {
		if e, ok := timeutil.ToMinutes(out[i].EndTime); ok {
			cursor = e
		} else {
			cursor += durationOf(out[i])
		}
	}

	place(&out[newIdx], cursor)
	cursor += durationOf(out[newIdx])

	for i := newIdx + 1; i < len(out); i++ {
		start, ok := timeutil.ToMinutes(out[i].StartTime)
		if !ok || start < cursor {
			start = cursor
		}
		place(&out[i], start)
		cursor = start + durationOf(out[i])
	}
	if cursor > dayEnd {
		return Result{}, false
	}

	res := Result{Mode: ModePush, Items: out}
	if slot, ok := vacatedSlot(prev[oldIdx], out); ok {
		res.EmptySlot = &slot
	}
	return res, true
}

// pull packs the new order tight from the start of the window. Implicit
// gaps close; genuine breaks survive as non-study items with their own
// durations.
func pull(curr []Item, dayStart int) Result {
	out := make([]Item, len(curr))
	copy(out, curr)
	cursor := dayStart
	for i := range out {
		place(&out[i], cursor)
		cursor += durationOf(out[i])
	}
	return Result{Mode: ModePull, Items: out}
}

func place(it *Item, start int) {
	d := durationOf(*it)
	it.StartTime = timeutil.FromMinutes(start)
	it.EndTime = timeutil.FromMinutes(start + d)
	it.DurationMinutes = d
}

// vacatedSlot returns the moved item's original range when nothing in the
// new layout occupies it.
func vacatedSlot(orig Item, layout []Item) (EmptySlot, bool) {
	s, okS := timeutil.ToMinutes(orig.StartTime)
	e, okE := timeutil.ToMinutes(orig.EndTime)
	if !okS || !okE || e <= s {
		return EmptySlot{}, false
	}
	for _, it := range layout {
		is, ok1 := timeutil.ToMinutes(it.StartTime)
		ie, ok2 := timeutil.ToMinutes(it.EndTime)
		if ok1 && ok2 && timeutil.Overlaps(s, e, is, ie) {
			return EmptySlot{}, false
		}
	}
	return EmptySlot{StartTime: timeutil.FromMinutes(s), EndTime: timeutil.FromMinutes(e)}, true
}

// ChangedItems filters the relaid timeline down to the rows worth
// persisting: items whose times moved, minus non-study blocks that have no
// backing record. The trace lines record what was skipped.
func ChangedItems(prev []Item, items []Item) ([]Item, []string) {
	prevByID := make(map[string]Item, len(prev))
	for _, it := range prev {
		prevByID[it.ID] = it
	}
	var changed []Item
	var trace []string
	for _, it := range items {
		before, ok := prevByID[it.ID]
		if ok && before.StartTime == it.StartTime && before.EndTime == it.EndTime {
			continue
		}
		if it.Type == TypeNonStudy && it.RecordID == "" {
			trace = append(trace, fmt.Sprintf("non-study block %q has no backing record, skipping write-back", it.ID))
			continue
		}
		changed = append(changed, it)
	}
	return changed, trace
}

func indexOf(items []Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
