package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/apierr"
	"github.com/yungbote/studyplan-backend/internal/logger"
	"github.com/yungbote/studyplan-backend/internal/planner/overlap"
	"github.com/yungbote/studyplan-backend/internal/planner/timeutil"
	"github.com/yungbote/studyplan-backend/internal/repos"
	"github.com/yungbote/studyplan-backend/internal/types"
	"github.com/yungbote/studyplan-backend/internal/utils"
)

// ValidationReport is the conflict picture of one plan group: overlaps with
// academy commitments plus overlaps among the plans themselves.
type ValidationReport struct {
	External overlap.ExternalReport `json:"external"`
	Internal overlap.InternalReport `json:"internal"`
}

type AdjustSummary struct {
	PlanGroupID       uuid.UUID              `json:"plan_group_id"`
	AdjustedCount     int                    `json:"adjusted_count"`
	UnadjustablePlans []overlap.Unadjustable `json:"unadjustable_plans,omitempty"`
	Report            ValidationReport       `json:"report"`
}

// ReconcileService re-runs overlap validation and adjustment over an
// already-generated plan group, e.g. after new academy commitments arrive.
type ReconcileService interface {
	ValidateGroup(ctx context.Context, planGroupID uuid.UUID) (*ValidationReport, error)
	AdjustGroup(ctx context.Context, planGroupID uuid.UUID, maxEndTime string) (*AdjustSummary, error)
}

type reconcileService struct {
	db          *gorm.DB
	log         *logger.Logger
	cfg         utils.SchedulerConfig
	groupRepo   repos.PlanGroupRepo
	planRepo    repos.ScheduledPlanRepo
	academyRepo repos.AcademyScheduleRepo
}

func NewReconcileService(
	db *gorm.DB,
	log *logger.Logger,
	cfg utils.SchedulerConfig,
	groupRepo repos.PlanGroupRepo,
	planRepo repos.ScheduledPlanRepo,
	academyRepo repos.AcademyScheduleRepo,
) ReconcileService {
	return &reconcileService{
		db:          db,
		log:         log.With("service", "ReconcileService"),
		cfg:         cfg,
		groupRepo:   groupRepo,
		planRepo:    planRepo,
		academyRepo: academyRepo,
	}
}

// loadGroupState fetches the group's plan rows and the academy commitments
// on their dates, translated into the adjuster's shapes. Plan IDs carry
// through so adjusted times can be written back row by row.
func (s *reconcileService) loadGroupState(ctx context.Context, planGroupID uuid.UUID) ([]*types.ScheduledPlan, []overlap.Plan, []overlap.Busy, error) {
	group, err := s.groupRepo.GetByID(ctx, nil, planGroupID)
	if err != nil {
		return nil, nil, nil, apierr.New(404, apierr.CodeNotFound, fmt.Errorf("plan group: %w", err))
	}
	rows, err := s.planRepo.GetByGroupID(ctx, nil, group.ID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load plans: %w", err)
	}

	ovPlans := make([]overlap.Plan, len(rows))
	dateSet := map[string]bool{}
	for i, p := range rows {
		ovPlans[i] = overlap.Plan{ID: p.ID.String(), Date: p.Date}
		if p.StartTime != nil {
			ovPlans[i].StartTime = *p.StartTime
		}
		if p.EndTime != nil {
			ovPlans[i].EndTime = *p.EndTime
		}
		dateSet[p.Date] = true
	}
	dates := make([]string, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}

	commitments, err := s.academyRepo.GetByStudentAndDates(ctx, nil, group.StudentID, dates)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load academy schedule: %w", err)
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
	return rows, ovPlans, busy, nil
}

func (s *reconcileService) ValidateGroup(ctx context.Context, planGroupID uuid.UUID) (*ValidationReport, error) {
	_, ovPlans, busy, err := s.loadGroupState(ctx, planGroupID)
	if err != nil {
		return nil, err
	}
	return &ValidationReport{
		External: overlap.ValidateExternal(ovPlans, busy),
		Internal: overlap.ValidateInternal(ovPlans),
	}, nil
}

// AdjustGroup shifts conflicting plans later in the day and persists the
// moved times in one transaction. The returned report re-validates the
// adjusted layout, so a clean run comes back with no overlaps.
func (s *reconcileService) AdjustGroup(ctx context.Context, planGroupID uuid.UUID, maxEndTime string) (*AdjustSummary, error) {
	rows, ovPlans, busy, err := s.loadGroupState(ctx, planGroupID)
	if err != nil {
		return nil, err
	}
	if maxEndTime == "" {
		maxEndTime = s.cfg.Day.MaxEndTime
	}

	res := overlap.Adjust(ovPlans, busy, maxEndTime)

	before := make(map[string]overlap.Plan, len(ovPlans))
	for _, p := range ovPlans {
		before[p.ID] = p
	}
	var moved []overlap.Plan
	for _, p := range res.AdjustedPlans {
		orig := before[p.ID]
		if p.StartTime != orig.StartTime || p.EndTime != orig.EndTime {
			moved = append(moved, p)
		}
	}

	if len(moved) > 0 {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for _, p := range moved {
				id, err := uuid.Parse(p.ID)
				if err != nil {
					return fmt.Errorf("bad plan id %q: %w", p.ID, err)
				}
				if err := s.planRepo.UpdateTimes(ctx, tx, id, p.StartTime, p.EndTime); err != nil {
					return fmt.Errorf("update plan %s: %w", p.ID, err)
				}
			}
			return nil
		})
		if err != nil {
			return nil, apierr.New(500, apierr.CodeReorderFailed, err)
		}
	}

	s.log.Info("plan group adjusted",
		"plan_group_id", planGroupID.String(),
		"plans", len(rows),
		"moved", len(moved),
		"unadjustable", len(res.UnadjustablePlans))

	return &AdjustSummary{
		PlanGroupID:       planGroupID,
		AdjustedCount:     res.AdjustedCount,
		UnadjustablePlans: res.UnadjustablePlans,
		Report: ValidationReport{
			External: overlap.ValidateExternal(res.AdjustedPlans, busy),
			Internal: overlap.ValidateInternal(res.AdjustedPlans),
		},
	}, nil
}
