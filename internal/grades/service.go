package grades

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gradehub/internal/notifications"
	"gradehub/internal/shared/errs"
	"gradehub/internal/submissions"
	"gradehub/internal/tasks"
	"gradehub/internal/users"
	"gradehub/pkg/logger"
)

// SubmissionStore is the slice of the submissions package this service
// needs: lookups plus the graded flag.
type SubmissionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*submissions.Submission, error)
	MarkGraded(ctx context.Context, id uuid.UUID) error
}

// StudentDirectory resolves the graded student for notification delivery.
type StudentDirectory interface {
	FindByID(ctx context.Context, id string) (*users.User, error)
}

// TaskDirectory resolves the task a submission belongs to.
type TaskDirectory interface {
	GetTaskByID(ctx context.Context, id uuid.UUID) (*tasks.Task, error)
}

type Service interface {
	GradeSubmission(ctx context.Context, graderID uuid.UUID, req GradeSubmissionRequest) (*Grade, error)
	GetGradeForSubmission(ctx context.Context, submissionID uuid.UUID) (*Grade, error)
	GetGradesByGrader(ctx context.Context, graderID uuid.UUID) ([]Grade, error)
}

type service struct {
	repo        Repository
	submissions SubmissionStore
	students    StudentDirectory
	taskDir     TaskDirectory
	producer    notifications.Producer
	now         func() time.Time
	log         *logger.Logger
}

func NewService(repo Repository, subs SubmissionStore, students StudentDirectory, taskDir TaskDirectory, producer notifications.Producer) Service {
	return &service{
		repo:        repo,
		submissions: subs,
		students:    students,
		taskDir:     taskDir,
		producer:    producer,
		now:         time.Now,
		log:         logger.GetDefault(),
	}
}

// GradeSubmission records a grade for an ungraded submission exactly once
// and publishes a notification for the student. Notification delivery is
// best-effort: a broker failure does not roll the grade back.
func (s *service) GradeSubmission(ctx context.Context, graderID uuid.UUID, req GradeSubmissionRequest) (*Grade, error) {
	submissionID, err := uuid.Parse(req.SubmissionID)
	if err != nil {
		return nil, errs.ErrSubmissionNotFound
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if submission.Graded {
		return nil, errs.ErrAlreadyGraded
	}

	grade := &Grade{
		ID:           uuid.New(),
		SubmissionID: submissionID,
		GraderID:     graderID,
		Grade:        req.Grade,
		Feedback:     req.Feedback,
		GradedAt:     s.now(),
	}
	if err := s.repo.Create(ctx, grade); err != nil {
		return nil, err
	}
	if err := s.submissions.MarkGraded(ctx, submissionID); err != nil {
		return nil, err
	}

	s.log.LogSubmissionGraded(ctx, submissionID.String(), graderID.String(), grade.Grade)
	s.notifyStudent(ctx, submission, grade)
	return grade, nil
}

// GetGradeForSubmission returns the grade for a submission. Ownership of
// the submission is enforced by the route's middleware chain, not here.
func (s *service) GetGradeForSubmission(ctx context.Context, submissionID uuid.UUID) (*Grade, error) {
	return s.repo.GetBySubmission(ctx, submissionID)
}

func (s *service) GetGradesByGrader(ctx context.Context, graderID uuid.UUID) ([]Grade, error) {
	return s.repo.GetByGrader(ctx, graderID)
}

func (s *service) notifyStudent(ctx context.Context, submission *submissions.Submission, grade *Grade) {
	student, err := s.students.FindByID(ctx, submission.StudentID.String())
	if err != nil {
		s.log.Warn("Skipping grade notification, student lookup failed",
			slog.String("student_id", submission.StudentID.String()),
			slog.Any("error", err),
		)
		return
	}

	taskTitle := ""
	if task, err := s.taskDir.GetTaskByID(ctx, submission.TaskID); err == nil {
		taskTitle = task.Title
	}

	notification := notifications.NewGradeNotification(
		submission.ID, student.ID, student.Email, student.Name,
		taskTitle, grade.Grade, grade.Feedback, grade.GradedAt,
	)
	if err := s.producer.PublishGradeNotification(ctx, notification); err != nil {
		s.log.Warn("Failed to publish grade notification",
			slog.String("submission_id", submission.ID.String()),
			slog.Any("error", err),
		)
	}
}
