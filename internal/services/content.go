package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	redisclient "github.com/yungbote/studyplan-backend/internal/clients/redis"
	"github.com/yungbote/studyplan-backend/internal/logger"
	"github.com/yungbote/studyplan-backend/internal/planner/match"
	"github.com/yungbote/studyplan-backend/internal/repos"
)

// CatalogSnapshot is the matcher's read-only view of a student's content,
// cached between the wizard's repeated auto-match calls.
type CatalogSnapshot struct {
	Books    []match.Content `json:"books"`
	Lectures []match.Content `json:"lectures"`
	Custom   []match.Content `json:"custom"`
	// EpisodeDurations maps lecture id -> episode number -> runtime minutes.
	EpisodeDurations map[string]map[string]int `json:"episode_durations,omitempty"`
}

func (s CatalogSnapshot) Catalog() match.Catalog {
	return match.Catalog{Books: s.Books, Lectures: s.Lectures, Custom: s.Custom}
}

type ContentService interface {
	GetCatalog(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (CatalogSnapshot, error)
	InvalidateCatalog(ctx context.Context, studentID uuid.UUID)
}

type contentService struct {
	db          *gorm.DB
	log         *logger.Logger
	contentRepo repos.ContentRepo
	cache       redisclient.CatalogCache
}

// NewContentService builds the catalog read side. cache may be nil; every
// cache interaction degrades to a database read.
func NewContentService(db *gorm.DB, log *logger.Logger, contentRepo repos.ContentRepo, cache redisclient.CatalogCache) ContentService {
	return &contentService{
		db:          db,
		log:         log.With("service", "ContentService"),
		contentRepo: contentRepo,
		cache:       cache,
	}
}

func (s *contentService) GetCatalog(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (CatalogSnapshot, error) {
	var snapshot CatalogSnapshot
	if studentID == uuid.Nil {
		return snapshot, fmt.Errorf("student id required")
	}

	if s.cache != nil && tx == nil {
		if s.cache.Get(ctx, studentID.String(), &snapshot) {
			return snapshot, nil
		}
	}

	books, err := s.contentRepo.GetBooksByStudent(ctx, tx, studentID)
	if err != nil {
		return snapshot, fmt.Errorf("load books: %w", err)
	}
	lectures, err := s.contentRepo.GetLecturesByStudent(ctx, tx, studentID)
	if err != nil {
		return snapshot, fmt.Errorf("load lectures: %w", err)
	}
	custom, err := s.contentRepo.GetCustomByStudent(ctx, tx, studentID)
	if err != nil {
		return snapshot, fmt.Errorf("load custom content: %w", err)
	}

	for _, b := range books {
		snapshot.Books = append(snapshot.Books, match.Content{
			ID:              b.ID.String(),
			Title:           b.Title,
			ContentType:     match.SlotTypeBook,
			SubjectCategory: b.SubjectCategory,
			Subject:         b.Subject,
			TotalPages:      b.TotalPages,
			MasterContentID: b.MasterContentID,
		})
	}
	for _, l := range lectures {
		snapshot.Lectures = append(snapshot.Lectures, match.Content{
			ID:              l.ID.String(),
			Title:           l.Title,
			ContentType:     match.SlotTypeLecture,
			SubjectCategory: l.SubjectCategory,
			Subject:         l.Subject,
			TotalEpisodes:   l.TotalEpisodes,
			MasterContentID: l.MasterContentID,
		})
		if len(l.EpisodeDurations) > 0 {
			var durations map[string]int
			if err := json.Unmarshal(l.EpisodeDurations, &durations); err != nil {
				s.log.Warn("bad episode durations payload, ignoring", "lecture_id", l.ID.String(), "error", err)
			} else {
				if snapshot.EpisodeDurations == nil {
					snapshot.EpisodeDurations = map[string]map[string]int{}
				}
				snapshot.EpisodeDurations[l.ID.String()] = durations
			}
		}
	}
	for _, c := range custom {
		snapshot.Custom = append(snapshot.Custom, match.Content{
			ID:              c.ID.String(),
			Title:           c.Title,
			ContentType:     match.SlotTypeCustom,
			SubjectCategory: c.SubjectCategory,
			Subject:         c.Subject,
			TotalPages:      c.TotalUnits,
		})
	}

	if s.cache != nil && tx == nil {
		s.cache.Set(ctx, studentID.String(), snapshot)
	}
	return snapshot, nil
}

func (s *contentService) InvalidateCatalog(ctx context.Context, studentID uuid.UUID) {
	if s.cache == nil || studentID == uuid.Nil {
		return
	}
	s.cache.Invalidate(ctx, studentID.String())
}
