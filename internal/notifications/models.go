package notifications

import (
	"time"

	"github.com/google/uuid"
)

// GradeNotification is the event published when a teacher grades a
// submission. The consumer turns it into an email to the student.
type GradeNotification struct {
	ID           uuid.UUID `json:"id"`
	SubmissionID uuid.UUID `json:"submission_id"`

	RecipientID    uuid.UUID `json:"recipient_id"`
	RecipientEmail string    `json:"recipient_email"`
	RecipientName  string    `json:"recipient_name"`

	TaskTitle string  `json:"task_title"`
	Grade     float64 `json:"grade"`
	Feedback  string  `json:"feedback,omitempty"`
	GradedAt  time.Time `json:"graded_at"`

	CreatedAt time.Time `json:"created_at"`
}

func NewGradeNotification(submissionID, recipientID uuid.UUID, email, name, taskTitle string, grade float64, feedback string, gradedAt time.Time) *GradeNotification {
	return &GradeNotification{
		ID:             uuid.New(),
		SubmissionID:   submissionID,
		RecipientID:    recipientID,
		RecipientEmail: email,
		RecipientName:  name,
		TaskTitle:      taskTitle,
		Grade:          grade,
		Feedback:       feedback,
		GradedAt:       gradedAt,
		CreatedAt:      time.Now(),
	}
}
