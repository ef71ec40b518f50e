package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/apierr"
	"github.com/yungbote/studyplan-backend/internal/logger"
	"github.com/yungbote/studyplan-backend/internal/planner/distribute"
	"github.com/yungbote/studyplan-backend/internal/repos"
	"github.com/yungbote/studyplan-backend/internal/types"
)

type StudentService interface {
	Create(ctx context.Context, name, grade, level string) (*types.Student, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Student, error)
}

type studentService struct {
	db          *gorm.DB
	log         *logger.Logger
	studentRepo repos.StudentRepo
}

func NewStudentService(db *gorm.DB, log *logger.Logger, studentRepo repos.StudentRepo) StudentService {
	return &studentService{
		db:          db,
		log:         log.With("service", "StudentService"),
		studentRepo: studentRepo,
	}
}

func (s *studentService) Create(ctx context.Context, name, grade, level string) (*types.Student, error) {
	if name == "" {
		return nil, apierr.New(400, apierr.CodeBadRequest, fmt.Errorf("name is required"))
	}
	switch level {
	case "":
		level = distribute.LevelRegular
	case distribute.LevelBeginner, distribute.LevelRegular, distribute.LevelAdvanced:
	default:
		return nil, apierr.New(400, apierr.CodeBadRequest, fmt.Errorf("unknown student level %q", level))
	}
	row := &types.Student{Name: name, Grade: grade, StudentLevel: level}
	created, err := s.studentRepo.Create(ctx, nil, row)
	if err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	return created, nil
}

func (s *studentService) Get(ctx context.Context, id uuid.UUID) (*types.Student, error) {
	row, err := s.studentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, apierr.New(404, apierr.CodeNotFound, fmt.Errorf("student: %w", err))
	}
	return row, nil
}
