// Package match assigns catalog content to the open content slots a study
// plan wizard produced. It is a pure transformation: given the same slots,
// catalog snapshot and options it always returns the same result and never
// fails.
package match

import (
	"fmt"
	"strings"
)

const (
	SlotTypeBook      = "book"
	SlotTypeLecture   = "lecture"
	SlotTypeCustom    = "custom"
	SlotTypeSelfStudy = "self_study"
	SlotTypeTest      = "test"
)

// Slot is one placeholder awaiting content. A non-empty ContentID means the
// slot was linked upstream (manually or by a previous run).
type Slot struct {
	SlotIndex            int    `json:"slot_index"`
	SlotType             string `json:"slot_type"`
	SubjectCategory      string `json:"subject_category"`
	ContentID            string `json:"content_id,omitempty"`
	ContentTitle         string `json:"content_title,omitempty"`
	MasterContentID      string `json:"master_content_id,omitempty"`
	StartRange           int    `json:"start_range,omitempty"`
	EndRange             int    `json:"end_range,omitempty"`
	IsAutoRecommended    bool   `json:"is_auto_recommended,omitempty"`
	RecommendationSource string `json:"recommendation_source,omitempty"`
}

// Content is a read-only catalog entry.
type Content struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	ContentType     string `json:"content_type"`
	SubjectCategory string `json:"subject_category"`
	Subject         string `json:"subject"`
	TotalPages      int    `json:"total_pages,omitempty"`
	TotalEpisodes   int    `json:"total_episodes,omitempty"`
	MasterContentID string `json:"master_content_id,omitempty"`
}

// Catalog groups candidates by the slot type they can fill.
type Catalog struct {
	Books    []Content
	Lectures []Content
	Custom   []Content
}

// Weights are the scoring knobs. They are passed in rather than hidden as
// constants so alternate scoring policies can be swapped without touching
// the algorithm.
type Weights struct {
	ExactCategory   int
	ContentContains int
	SlotContains    int
	TypeOnly        int
}

func DefaultWeights() Weights {
	return Weights{ExactCategory: 100, ContentContains: 50, SlotContains: 30, TypeOnly: 10}
}

// Range is a unit range applied to freshly matched slots.
type Range struct {
	Start int
	End   int
}

type Options struct {
	OverwriteExisting bool
	DefaultRange      Range   // zero value falls back to 1..10
	Weights           Weights // zero value falls back to DefaultWeights
}

type Stats struct {
	TotalSlots         int `json:"total_slots"`
	MatchedSlots       int `json:"matched_slots"`
	AlreadyLinkedSlots int `json:"already_linked_slots"`
	UnmatchedSlots     int `json:"unmatched_slots"`
}

type Result struct {
	Slots []Slot
	Stats Stats
	Logs  []string
}

// Match walks the slots in input order and links each open one to the best
// scoring unused candidate of its content type. Slots typed self_study, test
// or left untyped are never auto-matched and count as unmatched. A slot that
// is already linked stays untouched unless OverwriteExisting is set; its
// content still counts as consumed so no other slot can claim it.
func Match(slots []Slot, catalog Catalog, opts Options) Result {
	w := opts.Weights
	if w == (Weights{}) {
		w = DefaultWeights()
	}
	rng := opts.DefaultRange
	if rng == (Range{}) {
		rng = Range{Start: 1, End: 10}
	}

	out := make([]Slot, len(slots))
	copy(out, slots)

	used := map[string]bool{}
	if !opts.OverwriteExisting {
		for _, s := range out {
			if s.ContentID != "" {
				used[s.ContentID] = true
			}
		}
	}

	var stats Stats
	var logs []string
	stats.TotalSlots = len(slots)

	for i := range out {
		slot := &out[i]
		switch slot.SlotType {
		case SlotTypeBook, SlotTypeLecture, SlotTypeCustom:
		default:
			// self_study, test and untyped slots never receive content
			stats.UnmatchedSlots++
			continue
		}

		if slot.ContentID != "" && !opts.OverwriteExisting {
			stats.AlreadyLinkedSlots++
			continue
		}

		best := -1
		bestScore := 0
		candidates := candidatesFor(catalog, slot.SlotType)
		for j, c := range candidates {
			if used[c.ID] {
				continue
			}
			score := scoreCandidate(*slot, c, w)
			if score < 0 {
				continue
			}
			// first maximum wins, so strictly greater only
			if best == -1 || score > bestScore {
				best = j
				bestScore = score
			}
		}

		if best == -1 {
			stats.UnmatchedSlots++
			continue
		}

		chosen := candidates[best]
		slot.ContentID = chosen.ID
		slot.ContentTitle = chosen.Title
		slot.MasterContentID = chosen.MasterContentID
		slot.IsAutoRecommended = true
		slot.RecommendationSource = "auto"
		slot.StartRange = rng.Start
		slot.EndRange = clampRangeEnd(rng.End, chosen)
		used[chosen.ID] = true
		stats.MatchedSlots++
		logs = append(logs, fmt.Sprintf("slot %d matched %q (score %d)", slot.SlotIndex, chosen.Title, bestScore))
	}

	if stats.MatchedSlots > 0 {
		logs = append(logs, fmt.Sprintf("auto-match complete: %d/%d slots matched, %d already linked, %d unmatched",
			stats.MatchedSlots, stats.TotalSlots, stats.AlreadyLinkedSlots, stats.UnmatchedSlots))
	}

	return Result{Slots: out, Stats: stats, Logs: logs}
}

func candidatesFor(catalog Catalog, slotType string) []Content {
	switch slotType {
	case SlotTypeBook:
		return catalog.Books
	case SlotTypeLecture:
		return catalog.Lectures
	case SlotTypeCustom:
		return catalog.Custom
	}
	return nil
}

// scoreCandidate returns -1 when the candidate is ineligible, otherwise the
// type-match base plus at most one category bonus.
func scoreCandidate(slot Slot, c Content, w Weights) int {
	if !strings.EqualFold(strings.TrimSpace(c.ContentType), strings.TrimSpace(slot.SlotType)) {
		return -1
	}
	score := w.TypeOnly
	slotCat := fold(slot.SubjectCategory)
	contentCat := fold(c.SubjectCategory)
	contentSubj := fold(c.Subject)
	switch {
	case slotCat != "" && slotCat == contentCat:
		score += w.ExactCategory
	case slotCat != "" && contentSubj != "" && strings.Contains(contentSubj, slotCat):
		score += w.ContentContains
	case slotCat != "" && contentCat != "" && strings.Contains(slotCat, contentCat):
		score += w.SlotContains
	}
	return score
}

func clampRangeEnd(end int, c Content) int {
	total := c.TotalPages
	if strings.EqualFold(c.ContentType, SlotTypeLecture) {
		total = c.TotalEpisodes
	}
	if total > 0 && end > total {
		return total
	}
	return end
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
