package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/logger"
	"github.com/yungbote/studyplan-backend/internal/types"
)

type PlanGroupRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.PlanGroup) (*types.PlanGroup, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PlanGroup, error)
	GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.PlanGroup, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error
	UpdateSlots(ctx context.Context, tx *gorm.DB, id uuid.UUID, slots []byte) error
}

type planGroupRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPlanGroupRepo(db *gorm.DB, baseLog *logger.Logger) PlanGroupRepo {
	repoLog := baseLog.With("repo", "PlanGroupRepo")
	return &planGroupRepo{db: db, log: repoLog}
}

func (r *planGroupRepo) Create(ctx context.Context, tx *gorm.DB, row *types.PlanGroup) (*types.PlanGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if row == nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *planGroupRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.PlanGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.PlanGroup
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *planGroupRepo) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.PlanGroup, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.PlanGroup
	if studentID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *planGroupRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.PlanGroup{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return err
	}
	return nil
}

func (r *planGroupRepo) UpdateSlots(ctx context.Context, tx *gorm.DB, id uuid.UUID, slots []byte) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.PlanGroup{}).
		Where("id = ?", id).
		Update("content_slots", slots).Error; err != nil {
		return err
	}
	return nil
}
