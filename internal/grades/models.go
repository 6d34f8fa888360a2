package grades

import (
	"time"

	"github.com/google/uuid"
)

type Grade struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	SubmissionID uuid.UUID `json:"submission_id" gorm:"type:uuid;not null;uniqueIndex"`
	GraderID     uuid.UUID `json:"grader_id" gorm:"type:uuid;not null;index"`
	Grade        float64   `json:"grade" gorm:"not null"`
	Feedback     string    `json:"feedback" gorm:"type:text"`
	GradedAt     time.Time `json:"graded_at" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type GradeSubmissionRequest struct {
	SubmissionID string  `json:"submissionId" binding:"required,uuid"`
	Grade        float64 `json:"grade" binding:"required,min=0,max=100"`
	Feedback     string  `json:"feedback" binding:"max=2000"`
}

// TableName specifies the table name for GORM
func (Grade) TableName() string {
	return "grades"
}
