package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/apierr"
	"github.com/yungbote/studyplan-backend/internal/logger"
	"github.com/yungbote/studyplan-backend/internal/repos"
	"github.com/yungbote/studyplan-backend/internal/types"
)

// CreatePlanGroupInput is the wizard's save payload. The JSON-typed fields
// are stored as-is and consumed by the next generation run.
type CreatePlanGroupInput struct {
	StudentID          uuid.UUID       `json:"student_id"`
	Name               string          `json:"name"`
	StartDate          string          `json:"start_date"`
	TotalDays          int             `json:"total_days"`
	CycleStudyDays     int             `json:"cycle_study_days"`
	CycleLength        int             `json:"cycle_length"`
	ContentSlots       json.RawMessage `json:"content_slots,omitempty"`
	ContentAllocations json.RawMessage `json:"content_allocations,omitempty"`
	SubjectAllocations json.RawMessage `json:"subject_allocations,omitempty"`
	Exclusions         json.RawMessage `json:"exclusions,omitempty"`
}

type PlanGroupService interface {
	Create(ctx context.Context, input CreatePlanGroupInput) (*types.PlanGroup, error)
	Get(ctx context.Context, id uuid.UUID) (*types.PlanGroup, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*types.PlanGroup, error)
	ListPlans(ctx context.Context, groupID uuid.UUID) ([]*types.ScheduledPlan, error)
	ListStudentPlans(ctx context.Context, studentID uuid.UUID, date string) ([]*types.ScheduledPlan, error)
}

type planGroupService struct {
	db        *gorm.DB
	log       *logger.Logger
	groupRepo repos.PlanGroupRepo
	planRepo  repos.ScheduledPlanRepo
}

func NewPlanGroupService(db *gorm.DB, log *logger.Logger, groupRepo repos.PlanGroupRepo, planRepo repos.ScheduledPlanRepo) PlanGroupService {
	return &planGroupService{
		db:        db,
		log:       log.With("service", "PlanGroupService"),
		groupRepo: groupRepo,
		planRepo:  planRepo,
	}
}

func (s *planGroupService) Create(ctx context.Context, input CreatePlanGroupInput) (*types.PlanGroup, error) {
	if input.StudentID == uuid.Nil {
		return nil, apierr.New(400, apierr.CodeBadRequest, fmt.Errorf("student_id is required"))
	}
	if input.StartDate == "" || input.TotalDays <= 0 {
		return nil, apierr.New(400, apierr.CodeBadRequest, fmt.Errorf("start_date and a positive total_days are required"))
	}
	row := &types.PlanGroup{
		StudentID:          input.StudentID,
		Name:               input.Name,
		StartDate:          input.StartDate,
		TotalDays:          input.TotalDays,
		CycleStudyDays:     input.CycleStudyDays,
		CycleLength:        input.CycleLength,
		Status:             "draft",
		ContentSlots:       []byte(input.ContentSlots),
		ContentAllocations: []byte(input.ContentAllocations),
		SubjectAllocations: []byte(input.SubjectAllocations),
		Exclusions:         []byte(input.Exclusions),
	}
	if row.CycleStudyDays == 0 {
		row.CycleStudyDays = 6
	}
	if row.CycleLength == 0 {
		row.CycleLength = 7
	}
	created, err := s.groupRepo.Create(ctx, nil, row)
	if err != nil {
		return nil, fmt.Errorf("create plan group: %w", err)
	}
	s.log.Info("plan group created", "plan_group_id", created.ID.String(), "student_id", created.StudentID.String())
	return created, nil
}

func (s *planGroupService) Get(ctx context.Context, id uuid.UUID) (*types.PlanGroup, error) {
	row, err := s.groupRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, apierr.New(404, apierr.CodeNotFound, fmt.Errorf("plan group: %w", err))
	}
	return row, nil
}

func (s *planGroupService) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*types.PlanGroup, error) {
	return s.groupRepo.GetByStudentID(ctx, nil, studentID)
}

func (s *planGroupService) ListPlans(ctx context.Context, groupID uuid.UUID) ([]*types.ScheduledPlan, error) {
	return s.planRepo.GetByGroupID(ctx, nil, groupID)
}

// ListStudentPlans returns the student's plan rows for one date, or the
// whole horizon when date is empty.
func (s *planGroupService) ListStudentPlans(ctx context.Context, studentID uuid.UUID, date string) ([]*types.ScheduledPlan, error) {
	if date != "" {
		return s.planRepo.GetByStudentAndDate(ctx, nil, studentID, date)
	}
	return s.planRepo.GetByStudentAndDateRange(ctx, nil, studentID, "", "9999-12-31")
}
