package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/logger"
	"github.com/yungbote/studyplan-backend/internal/types"
)

type NonStudyBlockRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.NonStudyBlock) (*types.NonStudyBlock, error)
	GetByStudentAndDate(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, date string) ([]*types.NonStudyBlock, error)
	UpdateTimes(ctx context.Context, tx *gorm.DB, id uuid.UUID, startTime, endTime string) error
}

type nonStudyBlockRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNonStudyBlockRepo(db *gorm.DB, baseLog *logger.Logger) NonStudyBlockRepo {
	repoLog := baseLog.With("repo", "NonStudyBlockRepo")
	return &nonStudyBlockRepo{db: db, log: repoLog}
}

func (r *nonStudyBlockRepo) Create(ctx context.Context, tx *gorm.DB, row *types.NonStudyBlock) (*types.NonStudyBlock, error) {
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

func (r *nonStudyBlockRepo) GetByStudentAndDate(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, date string) ([]*types.NonStudyBlock, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.NonStudyBlock
	if studentID == uuid.Nil || date == "" {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("student_id = ? AND date = ?", studentID, date).
		Order("start_time ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *nonStudyBlockRepo) UpdateTimes(ctx context.Context, tx *gorm.DB, id uuid.UUID, startTime, endTime string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if id == uuid.Nil {
		return nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.NonStudyBlock{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"start_time": startTime, "end_time": endTime}).Error; err != nil {
		return err
	}
	return nil
}
