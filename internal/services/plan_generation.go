package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/apierr"
	"github.com/yungbote/studyplan-backend/internal/logger"
	"github.com/yungbote/studyplan-backend/internal/planner/allocation"
	"github.com/yungbote/studyplan-backend/internal/planner/cycle"
	"github.com/yungbote/studyplan-backend/internal/planner/distribute"
	"github.com/yungbote/studyplan-backend/internal/planner/match"
	"github.com/yungbote/studyplan-backend/internal/planner/overlap"
	"github.com/yungbote/studyplan-backend/internal/planner/timeutil"
	"github.com/yungbote/studyplan-backend/internal/repos"
	"github.com/yungbote/studyplan-backend/internal/types"
	"github.com/yungbote/studyplan-backend/internal/utils"
)

// WizardSlot is the wizard's slot payload: the matcher's view of a slot
// plus the clock position the wizard assigned it on study days.
type WizardSlot struct {
	match.Slot
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

type GenerateOptions struct {
	OverwriteExisting bool
	MaxEndTime        string
}

type GenerationResult struct {
	PlanGroupID       uuid.UUID              `json:"plan_group_id"`
	MatchStats        match.Stats            `json:"match_stats"`
	MatchLogs         []string               `json:"match_logs,omitempty"`
	PlanCount         int                    `json:"plan_count"`
	AdjustedCount     int                    `json:"adjusted_count"`
	UnadjustablePlans []overlap.Unadjustable `json:"unadjustable_plans,omitempty"`
	UnscheduledSlots  []int                  `json:"unscheduled_slots,omitempty"`
}

type PlanGenerationService interface {
	Generate(ctx context.Context, planGroupID uuid.UUID, opts GenerateOptions) (*GenerationResult, error)
}

type planGenerationService struct {
	db             *gorm.DB
	log            *logger.Logger
	cfg            utils.SchedulerConfig
	groupRepo      repos.PlanGroupRepo
	studentRepo    repos.StudentRepo
	planRepo       repos.ScheduledPlanRepo
	academyRepo    repos.AcademyScheduleRepo
	contentService ContentService
}

func NewPlanGenerationService(
	db *gorm.DB,
	log *logger.Logger,
	cfg utils.SchedulerConfig,
	groupRepo repos.PlanGroupRepo,
	studentRepo repos.StudentRepo,
	planRepo repos.ScheduledPlanRepo,
	academyRepo repos.AcademyScheduleRepo,
	contentService ContentService,
) PlanGenerationService {
	return &planGenerationService{
		db:             db,
		log:            log.With("service", "PlanGenerationService"),
		cfg:            cfg,
		groupRepo:      groupRepo,
		studentRepo:    studentRepo,
		planRepo:       planRepo,
		academyRepo:    academyRepo,
		contentService: contentService,
	}
}

func (s *planGenerationService) factors() distribute.Factors {
	d := s.cfg.Duration
	return distribute.Factors{
		MinutesPerPage:       d.MinutesPerPage,
		FallbackEpisodeMin:   d.FallbackEpisodeMin,
		BeginnerFactor:       d.BeginnerFactor,
		AdvancedFactor:       d.AdvancedFactor,
		WeaknessFactor:       d.WeaknessFactor,
		StrategyFactor:       d.StrategyFactor,
		ReviewFactor:         d.ReviewFactor,
		ReviewOfReviewFactor: d.ReviewOfReviewFactor,
	}
}

func (s *planGenerationService) matchOptions(overwrite bool) match.Options {
	m := s.cfg.Match
	return match.Options{
		OverwriteExisting: overwrite,
		DefaultRange:      match.Range{Start: m.DefaultRangeStart, End: m.DefaultRangeEnd},
		Weights: match.Weights{
			ExactCategory:   m.ExactCategoryScore,
			ContentContains: m.ContentContainsScore,
			SlotContains:    m.SlotContainsScore,
			TypeOnly:        m.TypeOnlyScore,
		},
	}
}

// Generate runs the full pipeline for one plan group: match content to
// slots, classify the plan period into study/review days, allocate dates
// per subject policy, distribute units, estimate durations, reconcile the
// drafts against academy commitments, then persist everything in a single
// transaction.
func (s *planGenerationService) Generate(ctx context.Context, planGroupID uuid.UUID, opts GenerateOptions) (*GenerationResult, error) {
	log := s.log.With("plan_group_id", planGroupID.String())

	group, err := s.groupRepo.GetByID(ctx, nil, planGroupID)
	if err != nil {
		return nil, apierr.New(404, apierr.CodeNotFound, fmt.Errorf("plan group: %w", err))
	}
	student, err := s.studentRepo.GetByID(ctx, nil, group.StudentID)
	if err != nil {
		return nil, fmt.Errorf("load student: %w", err)
	}

	var wizardSlots []WizardSlot
	if len(group.ContentSlots) > 0 {
		if err := json.Unmarshal(group.ContentSlots, &wizardSlots); err != nil {
			return nil, apierr.New(400, apierr.CodeBadRequest, fmt.Errorf("parse content slots: %w", err))
		}
	}
	var contentAllocs []allocation.ContentAllocation
	if len(group.ContentAllocations) > 0 {
		if err := json.Unmarshal(group.ContentAllocations, &contentAllocs); err != nil {
			return nil, apierr.New(400, apierr.CodeBadRequest, fmt.Errorf("parse content allocations: %w", err))
		}
	}
	var subjectAllocs []allocation.SubjectAllocation
	if len(group.SubjectAllocations) > 0 {
		if err := json.Unmarshal(group.SubjectAllocations, &subjectAllocs); err != nil {
			return nil, apierr.New(400, apierr.CodeBadRequest, fmt.Errorf("parse subject allocations: %w", err))
		}
	}
	var exclusionDates []string
	if len(group.Exclusions) > 0 {
		if err := json.Unmarshal(group.Exclusions, &exclusionDates); err != nil {
			return nil, apierr.New(400, apierr.CodeBadRequest, fmt.Errorf("parse exclusions: %w", err))
		}
	}

	if err := allocation.ValidateAllocations(contentAllocs, subjectAllocs); err != nil {
		return nil, err
	}

	snapshot, err := s.contentService.GetCatalog(ctx, nil, group.StudentID)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	// match
	matchSlots := make([]match.Slot, len(wizardSlots))
	for i, ws := range wizardSlots {
		matchSlots[i] = ws.Slot
	}
	matchRes := match.Match(matchSlots, snapshot.Catalog(), s.matchOptions(opts.OverwriteExisting))
	for i := range wizardSlots {
		wizardSlots[i].Slot = matchRes.Slots[i]
	}
	log.Info("content matching finished",
		"matched", matchRes.Stats.MatchedSlots,
		"already_linked", matchRes.Stats.AlreadyLinkedSlots,
		"unmatched", matchRes.Stats.UnmatchedSlots)

	// classify the plan period
	exclusions := make(map[string]bool, len(exclusionDates))
	for _, d := range exclusionDates {
		exclusions[d] = true
	}
	cycleDays, err := cycle.Build(group.StartDate, group.TotalDays, group.CycleStudyDays, group.CycleLength, exclusions)
	if err != nil {
		return nil, apierr.New(400, apierr.CodeBadRequest, err)
	}

	// per-slot distribution fans out; each goroutine only writes its own
	// result index
	drafts := make([][]*types.ScheduledPlan, len(wizardSlots))
	unscheduled := make([]bool, len(wizardSlots))
	g, _ := errgroup.WithContext(ctx)
	for i := range wizardSlots {
		i := i
		g.Go(func() error {
			plans, scheduled := s.buildSlotPlans(group, student, wizardSlots[i], cycleDays, snapshot, contentAllocs, subjectAllocs)
			drafts[i] = plans
			unscheduled[i] = !scheduled
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.placeIntoWindows(drafts, wizardSlots)

	var all []*types.ScheduledPlan
	var unscheduledSlots []int
	for i, plans := range drafts {
		all = append(all, plans...)
		if unscheduled[i] {
			unscheduledSlots = append(unscheduledSlots, wizardSlots[i].SlotIndex)
		}
	}
	assignSequences(all)

	// reconcile against academy commitments
	dates := make([]string, 0, len(cycleDays))
	for _, d := range cycleDays {
		dates = append(dates, d.Date)
	}
	commitments, err := s.academyRepo.GetByStudentAndDates(ctx, nil, group.StudentID, dates)
	if err != nil {
		return nil, fmt.Errorf("load academy schedule: %w", err)
	}
	adjusted, adjustedCount, unadjustable := s.reconcile(all, commitments, opts.MaxEndTime)

	// persist as one all-or-nothing write
	matchedSlotsJSON, err := json.Marshal(wizardSlots)
	if err != nil {
		return nil, fmt.Errorf("marshal matched slots: %w", err)
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.planRepo.DeleteByGroupID(ctx, tx, group.ID); err != nil {
			return fmt.Errorf("clear previous plans: %w", err)
		}
		if _, err := s.planRepo.CreateBatch(ctx, tx, adjusted); err != nil {
			return fmt.Errorf("persist plans: %w", err)
		}
		if err := s.groupRepo.UpdateSlots(ctx, tx, group.ID, matchedSlotsJSON); err != nil {
			return fmt.Errorf("persist matched slots: %w", err)
		}
		if err := s.groupRepo.UpdateStatus(ctx, tx, group.ID, "generated"); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, apierr.New(500, apierr.CodePlanGenerationFailed, err)
	}

	log.Info("plan generation finished",
		"plans", len(adjusted),
		"adjusted", adjustedCount,
		"unadjustable", len(unadjustable))

	return &GenerationResult{
		PlanGroupID:       group.ID,
		MatchStats:        matchRes.Stats,
		MatchLogs:         matchRes.Logs,
		PlanCount:         len(adjusted),
		AdjustedCount:     adjustedCount,
		UnadjustablePlans: unadjustable,
		UnscheduledSlots:  unscheduledSlots,
	}, nil
}

// buildSlotPlans turns one matched slot into draft plan rows: study-day
// rows carrying distributed unit ranges plus review-day rows re-referencing
// what the preceding cycle covered. The bool return is false when the slot
// could not be scheduled at all.
func (s *planGenerationService) buildSlotPlans(
	group *types.PlanGroup,
	student *types.Student,
	ws WizardSlot,
	cycleDays []cycle.Day,
	snapshot CatalogSnapshot,
	contentAllocs []allocation.ContentAllocation,
	subjectAllocs []allocation.SubjectAllocation,
) ([]*types.ScheduledPlan, bool) {
	if ws.ContentID == "" {
		return nil, false
	}
	switch ws.SlotType {
	case match.SlotTypeBook, match.SlotTypeLecture, match.SlotTypeCustom:
	default:
		return nil, false
	}

	eff := allocation.Resolve(allocation.ContentRef{
		ContentType:     ws.SlotType,
		ContentID:       ws.ContentID,
		SubjectCategory: ws.SubjectCategory,
	}, contentAllocs, subjectAllocs)

	dates := cycle.Allocate(cycleDays, eff)
	if len(dates) == 0 {
		return nil, false
	}

	f := s.factors()
	estOpts := distribute.EstimateOptions{
		StudentLevel: student.StudentLevel,
		SubjectType:  eff.SubjectType,
	}
	dayInfo := map[string]cycle.Day{}
	for _, d := range cycleDays {
		dayInfo[d.Date] = d
	}

	var plans []*types.ScheduledPlan
	if ws.SlotType == match.SlotTypeLecture {
		plans = s.buildLecturePlans(group, ws, dates, dayInfo, snapshot, estOpts, f)
	} else {
		plans = s.buildRangePlans(group, ws, dates, dayInfo, estOpts, f)
	}
	plans = append(plans, s.buildReviewPlans(group, ws, plans, cycleDays, estOpts, f)...)
	return plans, len(plans) > 0
}

func (s *planGenerationService) buildRangePlans(
	group *types.PlanGroup,
	ws WizardSlot,
	dates []string,
	dayInfo map[string]cycle.Day,
	estOpts distribute.EstimateOptions,
	f distribute.Factors,
) []*types.ScheduledPlan {
	slices := distribute.DivideRange(ws.StartRange, ws.EndRange, len(dates))
	var plans []*types.ScheduledPlan
	for i, slice := range slices {
		if slice.Units == 0 {
			continue
		}
		duration := distribute.Estimate(distribute.PageBaseMinutes(slice.Units, f), estOpts, f)
		p := s.newDraft(group, ws, dates[i], dayInfo[dates[i]].DayType)
		p.StartRange = slice.Start
		p.EndRange = slice.End
		p.EstimatedDuration = duration
		plans = append(plans, p)
	}
	return plans
}

// buildLecturePlans distributes episodes across the allocated dates, then
// packs each day's episodes into duration-bounded blocks when the wizard
// pinned the slot to a clock window.
func (s *planGenerationService) buildLecturePlans(
	group *types.PlanGroup,
	ws WizardSlot,
	dates []string,
	dayInfo map[string]cycle.Day,
	snapshot CatalogSnapshot,
	estOpts distribute.EstimateOptions,
	f distribute.Factors,
) []*types.ScheduledPlan {
	total := ws.EndRange - ws.StartRange + 1
	if total <= 0 {
		return nil
	}
	perDay := distribute.DivideUnits(total, len(dates))
	durations := snapshot.EpisodeDurations[ws.ContentID]

	slotDuration := 0
	if start, ok := timeutil.ToMinutes(ws.StartTime); ok {
		if end, ok := timeutil.ToMinutes(ws.EndTime); ok && end > start {
			slotDuration = end - start
		}
	}

	var plans []*types.ScheduledPlan
	next := ws.StartRange
	for i, count := range perDay {
		if count == 0 {
			continue
		}
		episodes := make([]distribute.Episode, 0, count)
		for n := next; n < next+count; n++ {
			episodes = append(episodes, distribute.Episode{
				Number:          n,
				DurationMinutes: durations[strconv.Itoa(n)],
			})
		}
		next += count

		blocks := distribute.PackEpisodes(episodes, slotDuration)
		for b, block := range blocks {
			duration := distribute.Estimate(distribute.EpisodeBaseMinutes(block, f), estOpts, f)
			p := s.newDraft(group, ws, dates[i], dayInfo[dates[i]].DayType)
			p.StartRange = block[0].Number
			p.EndRange = block[len(block)-1].Number
			p.EstimatedDuration = duration
			p.BlockIndex = b
			plans = append(plans, p)
		}
	}
	return plans
}

// buildReviewPlans emits one review row per review date for every cycle in
// which the slot studied something, covering the full range that cycle
// touched.
func (s *planGenerationService) buildReviewPlans(
	group *types.PlanGroup,
	ws WizardSlot,
	studyPlans []*types.ScheduledPlan,
	cycleDays []cycle.Day,
	estOpts distribute.EstimateOptions,
	f distribute.Factors,
) []*types.ScheduledPlan {
	if len(studyPlans) == 0 {
		return nil
	}
	cycleOf := map[string]cycle.Day{}
	for _, d := range cycleDays {
		cycleOf[d.Date] = d
	}

	type span struct{ start, end, minutes int }
	studied := map[int]*span{}
	for _, p := range studyPlans {
		day := cycleOf[p.Date]
		sp, ok := studied[day.CycleNumber]
		if !ok {
			studied[day.CycleNumber] = &span{start: p.StartRange, end: p.EndRange, minutes: p.EstimatedDuration}
			continue
		}
		if p.StartRange < sp.start {
			sp.start = p.StartRange
		}
		if p.EndRange > sp.end {
			sp.end = p.EndRange
		}
		sp.minutes += p.EstimatedDuration
	}

	reviewOpts := estOpts
	reviewOpts.IsReview = true

	var plans []*types.ScheduledPlan
	for _, d := range cycleDays {
		if d.DayType != cycle.DayTypeReview {
			continue
		}
		sp, ok := studied[d.CycleNumber]
		if !ok {
			continue
		}
		duration := distribute.Estimate(float64(sp.minutes), reviewOpts, f)
		p := s.newDraft(group, ws, d.Date, cycle.DayTypeReview)
		p.StartRange = sp.start
		p.EndRange = sp.end
		p.EstimatedDuration = duration
		p.IsReview = true
		plans = append(plans, p)
	}
	return plans
}

func (s *planGenerationService) newDraft(group *types.PlanGroup, ws WizardSlot, date, dayType string) *types.ScheduledPlan {
	return &types.ScheduledPlan{
		StudentID:       group.StudentID,
		PlanGroupID:     group.ID,
		Date:            date,
		ContentID:       ws.ContentID,
		ContentType:     ws.SlotType,
		ContentTitle:    ws.ContentTitle,
		SubjectCategory: ws.SubjectCategory,
		DayType:         dayType,
	}
}

type slotWindow struct {
	start int
	end   int
	used  int
}

func (w *slotWindow) remaining() int { return w.end - w.start - w.used }

// placeIntoWindows assigns clock positions to the drafts date by date from
// the wizard's timed slot windows. Each draft takes the window with the
// smallest remaining space that still fits it, falling back to the first
// window with any space left; the adjuster deals with any spillover. Drafts
// stay untimed when the wizard defined no windows, and skip placement when
// every window is full.
func (s *planGenerationService) placeIntoWindows(drafts [][]*types.ScheduledPlan, slots []WizardSlot) {
	var templates []slotWindow
	for _, ws := range slots {
		start, okS := timeutil.ToMinutes(ws.StartTime)
		end, okE := timeutil.ToMinutes(ws.EndTime)
		if okS && okE && end > start {
			templates = append(templates, slotWindow{start: start, end: end})
		}
	}
	if len(templates) == 0 {
		return
	}
	sort.Slice(templates, func(i, j int) bool { return templates[i].start < templates[j].start })

	byDate := map[string][]*slotWindow{}
	windowsFor := func(date string) []*slotWindow {
		if ws, ok := byDate[date]; ok {
			return ws
		}
		ws := make([]*slotWindow, len(templates))
		for i := range templates {
			w := templates[i]
			ws[i] = &w
		}
		byDate[date] = ws
		return ws
	}

	for i := range drafts {
		for _, p := range drafts[i] {
			d := p.EstimatedDuration
			if d <= 0 {
				continue
			}
			windows := windowsFor(p.Date)
			best := -1
			for j, w := range windows {
				rem := w.remaining()
				if rem < d {
					continue
				}
				if best == -1 || rem < windows[best].remaining() {
					best = j
				}
			}
			if best == -1 {
				for j, w := range windows {
					if w.remaining() > 0 {
						best = j
						break
					}
				}
			}
			if best == -1 {
				continue
			}
			w := windows[best]
			start := w.start + w.used
			w.used += d
			startStr := timeutil.FromMinutes(start)
			endStr := timeutil.FromMinutes(start + d)
			p.StartTime = &startStr
			p.EndTime = &endStr
		}
	}
}

func assignSequences(plans []*types.ScheduledPlan) {
	byDate := map[string][]*types.ScheduledPlan{}
	for _, p := range plans {
		byDate[p.Date] = append(byDate[p.Date], p)
	}
	for _, dayPlans := range byDate {
		sort.SliceStable(dayPlans, func(i, j int) bool {
			si, sj := "", ""
			if dayPlans[i].StartTime != nil {
				si = *dayPlans[i].StartTime
			}
			if dayPlans[j].StartTime != nil {
				sj = *dayPlans[j].StartTime
			}
			if si != sj {
				return si < sj
			}
			return dayPlans[i].BlockIndex < dayPlans[j].BlockIndex
		})
		for i, p := range dayPlans {
			p.Sequence = i
		}
	}
}

// reconcile runs the adjuster over the timed drafts and writes the shifted
// clock positions back onto the rows.
func (s *planGenerationService) reconcile(plans []*types.ScheduledPlan, commitments []*types.AcademySchedule, maxEndTime string) ([]*types.ScheduledPlan, int, []overlap.Unadjustable) {
	if maxEndTime == "" {
		maxEndTime = s.cfg.Day.MaxEndTime
	}

	ovPlans := make([]overlap.Plan, len(plans))
	for i, p := range plans {
		ovPlans[i] = overlap.Plan{ID: strconv.Itoa(i), Date: p.Date}
		if p.StartTime != nil {
			ovPlans[i].StartTime = *p.StartTime
		}
		if p.EndTime != nil {
			ovPlans[i].EndTime = *p.EndTime
		}
	}
	busy := make([]overlap.Busy, len(commitments))
	for i, c := range commitments {
		busy[i] = overlap.Busy{
			Date:      c.Date,
			StartTime: timeutil.ToClock(c.StartTime),
			EndTime:   timeutil.ToClock(c.EndTime),
			Label:     c.Title,
		}
	}

	res := overlap.Adjust(ovPlans, busy, maxEndTime)
	for i, adj := range res.AdjustedPlans {
		idx, err := strconv.Atoi(adj.ID)
		if err != nil || idx != i {
			continue
		}
		if adj.StartTime != "" && adj.EndTime != "" {
			start, end := adj.StartTime, adj.EndTime
			plans[i].StartTime = &start
			plans[i].EndTime = &end
		}
	}
	return plans, res.AdjustedCount, res.UnadjustablePlans
}
