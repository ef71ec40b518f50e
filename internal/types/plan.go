package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PlanGroup is one generation run's configuration: the plan period, the
// study/review cycle shape and the wizard-supplied slot and allocation
// payloads (stored as JSON, consumed once per run).
type PlanGroup struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"student_id"`
	Student            *Student       `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	Name               string         `gorm:"column:name" json:"name"`
	StartDate          string         `gorm:"column:start_date;not null" json:"start_date"`
	TotalDays          int            `gorm:"column:total_days;not null" json:"total_days"`
	CycleStudyDays     int            `gorm:"column:cycle_study_days;not null;default:6" json:"cycle_study_days"`
	CycleLength        int            `gorm:"column:cycle_length;not null;default:7" json:"cycle_length"`
	Status             string         `gorm:"column:status;not null;default:'draft'" json:"status"`
	ContentSlots       datatypes.JSON `gorm:"type:jsonb;column:content_slots" json:"content_slots,omitempty"`
	ContentAllocations datatypes.JSON `gorm:"type:jsonb;column:content_allocations" json:"content_allocations,omitempty"`
	SubjectAllocations datatypes.JSON `gorm:"type:jsonb;column:subject_allocations" json:"subject_allocations,omitempty"`
	Exclusions         datatypes.JSON `gorm:"type:jsonb;column:exclusions" json:"exclusions,omitempty"`
	CreatedAt          time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (PlanGroup) TableName() string { return "plan_group" }

// ScheduledPlan is the persisted system of record for one study block.
// Times use the 24-hour "HH:MM" form and may be null for plans that have a
// date but no fixed clock position yet.
type ScheduledPlan struct {
	ID                uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID         uuid.UUID      `gorm:"type:uuid;not null;index:idx_student_date" json:"student_id"`
	Student           *Student       `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	PlanGroupID       uuid.UUID      `gorm:"type:uuid;index" json:"plan_group_id"`
	PlanGroup         *PlanGroup     `gorm:"constraint:OnDelete:CASCADE;foreignKey:PlanGroupID;references:ID" json:"plan_group,omitempty"`
	Date              string         `gorm:"column:date;not null;index:idx_student_date" json:"date"`
	ContentID         string         `gorm:"column:content_id" json:"content_id,omitempty"`
	ContentType       string         `gorm:"column:content_type" json:"content_type,omitempty"`
	ContentTitle      string         `gorm:"column:content_title" json:"content_title,omitempty"`
	SubjectCategory   string         `gorm:"column:subject_category" json:"subject_category,omitempty"`
	StartRange        int            `gorm:"column:start_range" json:"start_range,omitempty"`
	EndRange          int            `gorm:"column:end_range" json:"end_range,omitempty"`
	EstimatedDuration int            `gorm:"column:estimated_duration" json:"estimated_duration,omitempty"`
	IsReview          bool           `gorm:"column:is_review;not null;default:false" json:"is_review"`
	DayType           string         `gorm:"column:day_type" json:"day_type,omitempty"`
	StartTime         *string        `gorm:"column:start_time" json:"start_time,omitempty"`
	EndTime           *string        `gorm:"column:end_time" json:"end_time,omitempty"`
	BlockIndex        int            `gorm:"column:block_index;not null;default:0" json:"block_index"`
	Sequence          int            `gorm:"column:sequence;not null;default:0" json:"sequence"`
	Metadata          datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	CreatedAt         time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ScheduledPlan) TableName() string { return "scheduled_plan" }

// NonStudyBlock is a persisted break or meal block on a day's timeline.
// Unlike plan rows its times are stored with seconds ("HH:MM:SS").
type NonStudyBlock struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID uuid.UUID      `gorm:"type:uuid;not null;index:idx_nonstudy_student_date" json:"student_id"`
	Student   *Student       `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	Date      string         `gorm:"column:date;not null;index:idx_nonstudy_student_date" json:"date"`
	Title     string         `gorm:"column:title" json:"title"`
	StartTime string         `gorm:"column:start_time;not null" json:"start_time"`
	EndTime   string         `gorm:"column:end_time;not null" json:"end_time"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (NonStudyBlock) TableName() string { return "non_study_block" }

// AcademySchedule is an external commitment (academy class, tutoring
// session) the reconciliation workflow treats as immovable.
type AcademySchedule struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	StudentID uuid.UUID      `gorm:"type:uuid;not null;index:idx_academy_student_date" json:"student_id"`
	Student   *Student       `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	Date      string         `gorm:"column:date;not null;index:idx_academy_student_date" json:"date"`
	Title     string         `gorm:"column:title" json:"title"`
	StartTime string         `gorm:"column:start_time;not null" json:"start_time"`
	EndTime   string         `gorm:"column:end_time;not null" json:"end_time"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (AcademySchedule) TableName() string { return "academy_schedule" }
