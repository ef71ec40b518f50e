package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/logger"
	"github.com/yungbote/studyplan-backend/internal/types"
)

type ScheduledPlanRepo interface {
	CreateBatch(ctx context.Context, tx *gorm.DB, rows []*types.ScheduledPlan) ([]*types.ScheduledPlan, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ScheduledPlan, error)
	GetByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]*types.ScheduledPlan, error)
	GetByStudentAndDate(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, date string) ([]*types.ScheduledPlan, error)
	GetByStudentAndDateRange(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, from, to string) ([]*types.ScheduledPlan, error)
	UpdateTimes(ctx context.Context, tx *gorm.DB, id uuid.UUID, startTime, endTime string) error
	DeleteByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) error
}

type scheduledPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScheduledPlanRepo(db *gorm.DB, baseLog *logger.Logger) ScheduledPlanRepo {
	repoLog := baseLog.With("repo", "ScheduledPlanRepo")
	return &scheduledPlanRepo{db: db, log: repoLog}
}

func (r *scheduledPlanRepo) CreateBatch(ctx context.Context, tx *gorm.DB, rows []*types.ScheduledPlan) ([]*types.ScheduledPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(rows) == 0 {
		return []*types.ScheduledPlan{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *scheduledPlanRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ScheduledPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.ScheduledPlan
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *scheduledPlanRepo) GetByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) ([]*types.ScheduledPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ScheduledPlan
	if groupID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("plan_group_id = ?", groupID).
		Order("date ASC, sequence ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *scheduledPlanRepo) GetByStudentAndDate(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, date string) ([]*types.ScheduledPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ScheduledPlan
	if studentID == uuid.Nil || date == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("student_id = ? AND date = ?", studentID, date).
		Order("start_time ASC, sequence ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *scheduledPlanRepo) GetByStudentAndDateRange(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, from, to string) ([]*types.ScheduledPlan, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ScheduledPlan
	if studentID == uuid.Nil || from == "" || to == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("student_id = ? AND date >= ? AND date <= ?", studentID, from, to).
		Order("date ASC, start_time ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *scheduledPlanRepo) UpdateTimes(ctx context.Context, tx *gorm.DB, id uuid.UUID, startTime, endTime string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.ScheduledPlan{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"start_time": startTime, "end_time": endTime}).Error; err != nil {
		return err
	}
	return nil
}

func (r *scheduledPlanRepo) DeleteByGroupID(ctx context.Context, tx *gorm.DB, groupID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if groupID == uuid.Nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Where("plan_group_id = ?", groupID).
		Delete(&types.ScheduledPlan{}).Error; err != nil {
		return err
	}
	return nil
}
