package submissions

import (
	"time"

	"github.com/google/uuid"
)

type Submission struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	StudentID   uuid.UUID `json:"student_id" gorm:"type:uuid;not null;index"`
	TaskID      uuid.UUID `json:"task_id" gorm:"type:uuid;not null;index"`
	FileURL     string    `json:"file_url" gorm:"not null;size:500"`
	SubmittedAt time.Time `json:"submitted_at" gorm:"not null"`
	Graded      bool      `json:"graded" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Submission) TableName() string {
	return "submissions"
}
