package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/logger"
	"github.com/yungbote/studyplan-backend/internal/types"
)

// ContentRepo reads the per-student content catalog the matcher scores
// against.
type ContentRepo interface {
	GetBooksByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.StudentBook, error)
	GetLecturesByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.StudentLecture, error)
	GetCustomByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.CustomContent, error)
}

type contentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentRepo(db *gorm.DB, baseLog *logger.Logger) ContentRepo {
	repoLog := baseLog.With("repo", "ContentRepo")
	return &contentRepo{db: db, log: repoLog}
}

func (r *contentRepo) GetBooksByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.StudentBook, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StudentBook
	if studentID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contentRepo) GetLecturesByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.StudentLecture, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.StudentLecture
	if studentID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contentRepo) GetCustomByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.CustomContent, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.CustomContent
	if studentID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
