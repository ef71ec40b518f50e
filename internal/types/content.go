package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StudentBook is a page-based catalog entry owned by one student.
type StudentBook struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"student_id"`
	Student         *Student       `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	Title           string         `gorm:"column:title;not null" json:"title"`
	SubjectCategory string         `gorm:"column:subject_category" json:"subject_category"`
	Subject         string         `gorm:"column:subject" json:"subject"`
	SubjectID       string         `gorm:"column:subject_id" json:"subject_id,omitempty"`
	TotalPages      int            `gorm:"column:total_pages;not null;default:0" json:"total_pages"`
	MasterContentID string         `gorm:"column:master_content_id" json:"master_content_id,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (StudentBook) TableName() string { return "student_book" }

// StudentLecture is an episode-based catalog entry. EpisodeDurations maps
// episode number to runtime minutes; missing entries fall back to a
// configured default.
type StudentLecture struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"student_id"`
	Student          *Student       `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	Title            string         `gorm:"column:title;not null" json:"title"`
	SubjectCategory  string         `gorm:"column:subject_category" json:"subject_category"`
	Subject          string         `gorm:"column:subject" json:"subject"`
	SubjectID        string         `gorm:"column:subject_id" json:"subject_id,omitempty"`
	TotalEpisodes    int            `gorm:"column:total_episodes;not null;default:0" json:"total_episodes"`
	EpisodeDurations datatypes.JSON `gorm:"type:jsonb;column:episode_durations" json:"episode_durations,omitempty"`
	MasterContentID  string         `gorm:"column:master_content_id" json:"master_content_id,omitempty"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (StudentLecture) TableName() string { return "student_lecture" }

// CustomContent is a free-form task entry (workbooks, past exams).
type CustomContent struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"student_id"`
	Student         *Student       `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	Title           string         `gorm:"column:title;not null" json:"title"`
	SubjectCategory string         `gorm:"column:subject_category" json:"subject_category"`
	Subject         string         `gorm:"column:subject" json:"subject"`
	SubjectID       string         `gorm:"column:subject_id" json:"subject_id,omitempty"`
	TotalUnits      int            `gorm:"column:total_units;not null;default:0" json:"total_units"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CustomContent) TableName() string { return "custom_content" }
