package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/apierr"
	"github.com/yungbote/studyplan-backend/internal/logger"
	"github.com/yungbote/studyplan-backend/internal/planner/reorder"
	"github.com/yungbote/studyplan-backend/internal/planner/timeutil"
	"github.com/yungbote/studyplan-backend/internal/repos"
	"github.com/yungbote/studyplan-backend/internal/utils"
)

type ReorderSummary struct {
	Mode        reorder.Mode       `json:"mode"`
	Items       []reorder.Item     `json:"items"`
	EmptySlot   *reorder.EmptySlot `json:"empty_slot,omitempty"`
	UpdatedRows int                `json:"updated_rows"`
	Trace       []string           `json:"trace,omitempty"`
}

// TimelineService materializes one student-day as a unified timeline of
// study plans and non-study blocks and reflows it after a drag move.
type TimelineService interface {
	GetDayTimeline(ctx context.Context, studentID uuid.UUID, date string) ([]reorder.Item, error)
	Reorder(ctx context.Context, studentID uuid.UUID, date string, orderedIDs []string, movedID string) (*ReorderSummary, error)
}

type timelineService struct {
	db           *gorm.DB
	log          *logger.Logger
	cfg          utils.SchedulerConfig
	planRepo     repos.ScheduledPlanRepo
	nonStudyRepo repos.NonStudyBlockRepo
}

func NewTimelineService(
	db *gorm.DB,
	log *logger.Logger,
	cfg utils.SchedulerConfig,
	planRepo repos.ScheduledPlanRepo,
	nonStudyRepo repos.NonStudyBlockRepo,
) TimelineService {
	return &timelineService{
		db:           db,
		log:          log.With("service", "TimelineService"),
		cfg:          cfg,
		planRepo:     planRepo,
		nonStudyRepo: nonStudyRepo,
	}
}

// GetDayTimeline returns the day's timed entries in clock order. Plan rows
// without a clock position are not on the timeline. Non-study times are
// stored with seconds and normalized here, so the engine only ever sees
// "HH:MM".
func (s *timelineService) GetDayTimeline(ctx context.Context, studentID uuid.UUID, date string) ([]reorder.Item, error) {
	if studentID == uuid.Nil || date == "" {
		return nil, apierr.New(400, apierr.CodeBadRequest, fmt.Errorf("student id and date required"))
	}

	plans, err := s.planRepo.GetByStudentAndDate(ctx, nil, studentID, date)
	if err != nil {
		return nil, fmt.Errorf("load plans: %w", err)
	}
	blocks, err := s.nonStudyRepo.GetByStudentAndDate(ctx, nil, studentID, date)
	if err != nil {
		return nil, fmt.Errorf("load non-study blocks: %w", err)
	}

	var items []reorder.Item
	for _, p := range plans {
		if p.StartTime == nil || p.EndTime == nil {
			continue
		}
		items = append(items, reorder.Item{
			ID:        p.ID.String(),
			Type:      reorder.TypePlan,
			PlanID:    p.ID.String(),
			Title:     p.ContentTitle,
			StartTime: timeutil.ToClock(*p.StartTime),
			EndTime:   timeutil.ToClock(*p.EndTime),
		})
	}
	for _, b := range blocks {
		items = append(items, reorder.Item{
			ID:        b.ID.String(),
			Type:      reorder.TypeNonStudy,
			RecordID:  b.ID.String(),
			Title:     b.Title,
			StartTime: timeutil.ToClock(b.StartTime),
			EndTime:   timeutil.ToClock(b.EndTime),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].StartTime != items[j].StartTime {
			return items[i].StartTime < items[j].StartTime
		}
		return items[i].EndTime < items[j].EndTime
	})
	return items, nil
}

// Reorder reflows the day after a drag move and writes the moved rows back.
// orderedIDs is the client's full new ordering of the day; movedID names
// the dragged entry.
func (s *timelineService) Reorder(ctx context.Context, studentID uuid.UUID, date string, orderedIDs []string, movedID string) (*ReorderSummary, error) {
	prev, err := s.GetDayTimeline(ctx, studentID, date)
	if err != nil {
		return nil, err
	}
	if len(prev) == 0 {
		return nil, apierr.New(404, apierr.CodeNotFound, fmt.Errorf("no timeline entries on %s", date))
	}
	if len(orderedIDs) != len(prev) {
		return nil, apierr.New(400, apierr.CodeBadRequest,
			fmt.Errorf("ordering names %d entries, timeline has %d", len(orderedIDs), len(prev)))
	}

	byID := make(map[string]reorder.Item, len(prev))
	for _, it := range prev {
		byID[it.ID] = it
	}
	curr := make([]reorder.Item, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		it, ok := byID[id]
		if !ok {
			return nil, apierr.New(400, apierr.CodeBadRequest, fmt.Errorf("unknown timeline entry %s", id))
		}
		curr = append(curr, it)
	}

	bounds := reorder.Bounds{DayStart: s.cfg.Day.StartTime, DayEnd: s.cfg.Day.MaxEndTime}
	res, err := reorder.Compute(prev, curr, movedID, bounds)
	if err != nil {
		return nil, apierr.New(400, apierr.CodeReorderFailed, err)
	}

	changed, trace := reorder.ChangedItems(prev, res.Items)
	for _, line := range trace {
		s.log.Debug(line, "student_id", studentID.String(), "date", date)
	}

	if len(changed) > 0 {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, it := range changed {
				switch it.Type {
				case reorder.TypePlan:
					id, err := uuid.Parse(it.PlanID)
					if err != nil {
						return fmt.Errorf("bad plan id %q: %w", it.PlanID, err)
					}
					if err := s.planRepo.UpdateTimes(ctx, tx, id, it.StartTime, it.EndTime); err != nil {
						return fmt.Errorf("update plan %s: %w", it.PlanID, err)
					}
				case reorder.TypeNonStudy:
					id, err := uuid.Parse(it.RecordID)
					if err != nil {
						return fmt.Errorf("bad non-study id %q: %w", it.RecordID, err)
					}
					start := timeutil.WithSeconds(it.StartTime)
					end := timeutil.WithSeconds(it.EndTime)
					if err := s.nonStudyRepo.UpdateTimes(ctx, tx, id, start, end); err != nil {
						return fmt.Errorf("update non-study block %s: %w", it.RecordID, err)
					}
				}
			}
			return nil
		})
		if err != nil {
			return nil, apierr.New(500, apierr.CodeReorderFailed, err)
		}
	}

	s.log.Info("timeline reordered",
		"student_id", studentID.String(),
		"date", date,
		"mode", string(res.Mode),
		"updated_rows", len(changed))

	return &ReorderSummary{
		Mode:        res.Mode,
		Items:       res.Items,
		EmptySlot:   res.EmptySlot,
		UpdatedRows: len(changed),
		Trace:       trace,
	}, nil
}
