package reorder

import (
	"sort"
	"testing"
)

func dayBounds() Bounds { return Bounds{DayStart: "09:00", DayEnd: "22:00"} }

func baseTimeline() []Item {
	return []Item{
		{ID: "a", Type: TypePlan, PlanID: "p-a", StartTime: "09:00", EndTime: "10:00", DurationMinutes: 60},
		{ID: "b", Type: TypePlan, PlanID: "p-b", StartTime: "10:00", EndTime: "11:00", DurationMinutes: 60},
		{ID: "break", Type: TypeNonStudy, RecordID: "ns-1", StartTime: "11:00", EndTime: "11:30", DurationMinutes: 30},
		{ID: "c", Type: TypePlan, PlanID: "p-c", StartTime: "11:30", EndTime: "12:30", DurationMinutes: 60},
	}
}

func reorderOf(items []Item, order ...string) []Item {
	byID := map[string]Item{}
	for _, it := range items {
		byID[it.ID] = it
	}
	out := make([]Item, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out
}

func assertIntegrity(t *testing.T, prev []Item, res Result) {
	t.Helper()
	if len(res.Items) != len(prev) {
		t.Fatalf("item count changed: %d -> %d", len(prev), len(res.Items))
	}
	prevDur := map[string]int{}
	for _, it := range prev {
		prevDur[it.ID] = durationOf(it)
	}
	var durs []int
	for _, it := range res.Items {
		want, ok := prevDur[it.ID]
		if !ok {
			t.Fatalf("unknown item %q in result", it.ID)
		}
		if got := durationOf(it); got != want {
			t.Fatalf("item %q duration changed: %d -> %d", it.ID, want, got)
		}
		durs = append(durs, durationOf(it))
	}
	sort.Ints(durs)
}

func TestComputePushShiftsOnlyLaterItems(t *testing.T) {
	prev := baseTimeline()
	curr := reorderOf(prev, "b", "a", "break", "c")

	res, err := Compute(prev, curr, "a", dayBounds())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if res.Mode != ModePush {
		t.Fatalf("mode = %s, want push", res.Mode)
	}
	assertIntegrity(t, prev, res)

	// b is before the insertion point and keeps its time
	if res.Items[0].ID != "b" || res.Items[0].StartTime != "10:00" {
		t.Fatalf("b = %+v", res.Items[0])
	}
	// a lands on b's end, later items cascade
	if res.Items[1].StartTime != "11:00" || res.Items[1].EndTime != "12:00" {
		t.Fatalf("a = %+v", res.Items[1])
	}
	if res.Items[2].StartTime != "12:00" || res.Items[3].StartTime != "12:30" {
		t.Fatalf("cascade = %+v %+v", res.Items[2], res.Items[3])
	}
	if res.EmptySlot == nil || res.EmptySlot.StartTime != "09:00" || res.EmptySlot.EndTime != "10:00" {
		t.Fatalf("empty slot = %+v", res.EmptySlot)
	}
}

func TestComputePullPacksFromWindowStart(t *testing.T) {
	prev := baseTimeline()
	curr := reorderOf(prev, "c", "a", "b", "break")

	res, err := Compute(prev, curr, "c", dayBounds())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if res.Mode != ModePull {
		t.Fatalf("mode = %s, want pull", res.Mode)
	}
	assertIntegrity(t, prev, res)

	wantStarts := []string{"09:00", "10:00", "11:00", "12:00"}
	for i, want := range wantStarts {
		if res.Items[i].StartTime != want {
			t.Fatalf("items[%d] = %+v, want start %s", i, res.Items[i], want)
		}
	}
	// consecutive, no implicit gaps
	for i := 1; i < len(res.Items); i++ {
		if res.Items[i].StartTime != res.Items[i-1].EndTime {
			t.Fatalf("gap between %+v and %+v", res.Items[i-1], res.Items[i])
		}
	}
}

func TestComputeExactSpanTieDefaultsToPush(t *testing.T) {
	prev := baseTimeline()
	curr := reorderOf(prev, "a", "b", "break", "c") // same order, span preserved

	res, err := Compute(prev, curr, "a", dayBounds())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if res.Mode != ModePush {
		t.Fatalf("tie must default to push, got %s", res.Mode)
	}
	for i, it := range res.Items {
		if it.StartTime != prev[i].StartTime || it.EndTime != prev[i].EndTime {
			t.Fatalf("no-op move changed item %d: %+v", i, it)
		}
	}
	if res.EmptySlot != nil {
		t.Fatalf("no-op move should leave no empty slot: %+v", res.EmptySlot)
	}
}

func TestComputePushFallsBackToPullAtDayEnd(t *testing.T) {
	// the window barely holds all items, so a push cascade past the end
	// must repack instead
	bounds := Bounds{DayStart: "09:00", DayEnd: "12:30"}
	prev := baseTimeline()
	curr := reorderOf(prev, "b", "a", "break", "c")

	res, err := Compute(prev, curr, "a", bounds)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if res.Mode != ModePull {
		t.Fatalf("mode = %s, want pull fallback", res.Mode)
	}
	assertIntegrity(t, prev, res)
	last := res.Items[len(res.Items)-1]
	if last.EndTime != "12:30" {
		t.Fatalf("last item = %+v", last)
	}
}

func TestComputeRejectsOversizedTimeline(t *testing.T) {
	prev := baseTimeline()
	curr := reorderOf(prev, "b", "a", "break", "c")
	if _, err := Compute(prev, curr, "a", Bounds{DayStart: "09:00", DayEnd: "11:00"}); err == nil {
		t.Fatalf("expected capacity error")
	}
	if _, err := Compute(prev, curr, "ghost", dayBounds()); err == nil {
		t.Fatalf("expected unknown moved item error")
	}
}

func TestCanReorder(t *testing.T) {
	items := baseTimeline() // 210 minutes
	if ok, excess := CanReorder(items, Bounds{DayStart: "09:00", DayEnd: "12:30"}); !ok || excess != 0 {
		t.Fatalf("exact fit rejected: %v %d", ok, excess)
	}
	if ok, excess := CanReorder(items, Bounds{DayStart: "09:00", DayEnd: "12:00"}); ok || excess != 30 {
		t.Fatalf("want 30 excess minutes, got %v %d", ok, excess)
	}
}

func TestChangedItems(t *testing.T) {
	prev := []Item{
		{ID: "a", Type: TypePlan, PlanID: "p-a", StartTime: "09:00", EndTime: "10:00"},
		{ID: "legacy", Type: TypeNonStudy, StartTime: "10:00", EndTime: "10:30"},
		{ID: "b", Type: TypePlan, PlanID: "p-b", StartTime: "10:30", EndTime: "11:30"},
	}
	relaid := []Item{
		{ID: "a", Type: TypePlan, PlanID: "p-a", StartTime: "09:00", EndTime: "10:00"}, // unchanged
		{ID: "legacy", Type: TypeNonStudy, StartTime: "10:15", EndTime: "10:45"},       // moved, no record id
		{ID: "b", Type: TypePlan, PlanID: "p-b", StartTime: "10:45", EndTime: "11:45"}, // moved
	}

	changed, trace := ChangedItems(prev, relaid)
	if len(changed) != 1 || changed[0].ID != "b" {
		t.Fatalf("changed = %+v", changed)
	}
	if len(trace) != 1 {
		t.Fatalf("trace = %v", trace)
	}
}
