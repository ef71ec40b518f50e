package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/logger"
	"github.com/yungbote/studyplan-backend/internal/types"
)

type AcademyScheduleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.AcademySchedule) (*types.AcademySchedule, error)
	GetByStudentAndDates(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, dates []string) ([]*types.AcademySchedule, error)
}

type academyScheduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAcademyScheduleRepo(db *gorm.DB, baseLog *logger.Logger) AcademyScheduleRepo {
	repoLog := baseLog.With("repo", "AcademyScheduleRepo")
	return &academyScheduleRepo{db: db, log: repoLog}
}

func (r *academyScheduleRepo) Create(ctx context.Context, tx *gorm.DB, row *types.AcademySchedule) (*types.AcademySchedule, error) {
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

func (r *academyScheduleRepo) GetByStudentAndDates(ctx context.Context, tx *gorm.DB, studentID uuid.UUID, dates []string) ([]*types.AcademySchedule, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.AcademySchedule
	if studentID == uuid.Nil || len(dates) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("student_id = ? AND date IN ?", studentID, dates).
		Order("date ASC, start_time ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
