package distribute

import "testing"

func TestDivideUnits(t *testing.T) {
	cases := []struct {
		name  string
		total int
		days  int
		want  []int
	}{
		{"103 over 10", 103, 10, []int{11, 11, 11, 11, 11, 11, 11, 11, 11, 4}},
		{"even split", 20, 4, []int{5, 5, 5, 5}},
		{"fewer units than days", 3, 5, []int{1, 1, 1, 0, 0}},
		{"single day", 42, 1, []int{42}},
		{"zero units", 0, 3, []int{0, 0, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DivideUnits(tc.total, tc.days)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			sum := 0
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
				sum += got[i]
			}
			if sum != tc.total {
				t.Fatalf("sum %d != total %d", sum, tc.total)
			}
		})
	}
	if got := DivideUnits(10, 0); got != nil {
		t.Fatalf("zero days should yield nil, got %v", got)
	}
}

func TestDivideRange(t *testing.T) {
	slices := DivideRange(1, 103, 10)
	if len(slices) != 10 {
		t.Fatalf("got %d slices", len(slices))
	}
	if slices[0] != (RangeSlice{Start: 1, End: 11, Units: 11}) {
		t.Fatalf("first slice = %+v", slices[0])
	}
	if slices[9] != (RangeSlice{Start: 100, End: 103, Units: 4}) {
		t.Fatalf("last slice = %+v", slices[9])
	}
	// contiguity
	for i := 1; i < len(slices); i++ {
		if slices[i].Units == 0 {
			continue
		}
		if slices[i].Start != slices[i-1].End+1 {
			t.Fatalf("gap between slice %d and %d: %+v %+v", i-1, i, slices[i-1], slices[i])
		}
	}

	// offset range: pages 51..60 over 3 days
	slices = DivideRange(51, 60, 3)
	if slices[0] != (RangeSlice{Start: 51, End: 54, Units: 4}) {
		t.Fatalf("offset first slice = %+v", slices[0])
	}
	if slices[2] != (RangeSlice{Start: 59, End: 60, Units: 2}) {
		t.Fatalf("offset last slice = %+v", slices[2])
	}
}

func TestPackEpisodes(t *testing.T) {
	eps := []Episode{
		{Number: 1, DurationMinutes: 25},
		{Number: 2, DurationMinutes: 30},
		{Number: 3, DurationMinutes: 20},
		{Number: 4, DurationMinutes: 90},
		{Number: 5, DurationMinutes: 15},
	}
	slots := PackEpisodes(eps, 60)
	if len(slots) != 4 {
		t.Fatalf("got %d slots: %v", len(slots), slots)
	}
	// 25+30 fits, 20 starts a new slot, 90 overflows alone, 15 follows
	if len(slots[0]) != 2 || slots[0][1].Number != 2 {
		t.Fatalf("slot 0 = %v", slots[0])
	}
	if len(slots[2]) != 1 || slots[2][0].Number != 4 {
		t.Fatalf("oversized episode must sit alone: %v", slots[2])
	}
	if len(slots[3]) != 1 || slots[3][0].Number != 5 {
		t.Fatalf("slot 3 = %v", slots[3])
	}

	// every episode appears exactly once
	seen := map[int]int{}
	for _, s := range slots {
		for _, ep := range s {
			seen[ep.Number]++
		}
	}
	for n := 1; n <= 5; n++ {
		if seen[n] != 1 {
			t.Fatalf("episode %d appears %d times", n, seen[n])
		}
	}

	if PackEpisodes(nil, 60) != nil {
		t.Fatalf("empty input should pack to nil")
	}
}

func testFactors() Factors {
	return Factors{
		MinutesPerPage:       3,
		FallbackEpisodeMin:   30,
		BeginnerFactor:       1.2,
		AdvancedFactor:       0.85,
		WeaknessFactor:       1.2,
		StrategyFactor:       1.05,
		ReviewFactor:         0.4,
		ReviewOfReviewFactor: 0.25,
	}
}

func TestEstimate(t *testing.T) {
	f := testFactors()
	cases := []struct {
		name string
		base float64
		opts EstimateOptions
		want int
	}{
		{"plain regular", 60, EstimateOptions{StudentLevel: LevelRegular}, 60},
		{"advanced", 60, EstimateOptions{StudentLevel: LevelAdvanced}, 51},
		{"beginner weakness", 60, EstimateOptions{StudentLevel: LevelBeginner, SubjectType: "weakness"}, 86},
		{"strategy", 60, EstimateOptions{SubjectType: "strategy"}, 63},
		{"review", 60, EstimateOptions{IsReview: true}, 24},
		{"review of review", 60, EstimateOptions{IsReview: true, IsReviewOfReview: true}, 15},
		{"zero base", 0, EstimateOptions{}, 0},
		{"tiny base floors at one minute", 1, EstimateOptions{IsReview: true, IsReviewOfReview: true}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Estimate(tc.base, tc.opts, f); got != tc.want {
				t.Fatalf("Estimate = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestBaseMinutes(t *testing.T) {
	f := testFactors()
	if got := PageBaseMinutes(11, f); got != 33 {
		t.Fatalf("PageBaseMinutes = %v", got)
	}
	eps := []Episode{{Number: 1, DurationMinutes: 45}, {Number: 2}}
	if got := EpisodeBaseMinutes(eps, f); got != 75 {
		t.Fatalf("EpisodeBaseMinutes = %v, want 45 + 30 fallback", got)
	}
}
