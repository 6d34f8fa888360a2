package submissions

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"github.com/google/uuid"

	"gradehub/internal/shared/errs"
	"gradehub/internal/tasks"
	"gradehub/internal/users"
	"gradehub/pkg/logger"
)

// TaskDirectory is the slice of the task service this package needs.
type TaskDirectory interface {
	GetTaskByID(ctx context.Context, id uuid.UUID) (*tasks.Task, error)
}

// StudentDirectory resolves student identities. The auth repository
// satisfies it.
type StudentDirectory interface {
	FindByID(ctx context.Context, id string) (*users.User, error)
}

type Service interface {
	Submit(ctx context.Context, studentID string, taskID string, file *multipart.FileHeader) (*Submission, error)
	GetSubmission(ctx context.Context, id uuid.UUID) (*Submission, error)
	GetSubmissionsForTask(ctx context.Context, taskID uuid.UUID) ([]Submission, error)
	OwnerOf(ctx context.Context, resourceID string) (string, error)
}

type service struct {
	repo     Repository
	taskDir  TaskDirectory
	students StudentDirectory
	storage  Storage
	now      func() time.Time
	log      *logger.Logger
}

func NewService(repo Repository, taskDir TaskDirectory, students StudentDirectory, storage Storage) Service {
	return &service{
		repo:     repo,
		taskDir:  taskDir,
		students: students,
		storage:  storage,
		now:      time.Now,
		log:      logger.GetDefault(),
	}
}

// Submit stores the uploaded file and records the submission, provided the
// student exists, the task exists and its deadline has not passed.
func (s *service) Submit(ctx context.Context, studentID string, taskID string, file *multipart.FileHeader) (*Submission, error) {
	studentUUID, err := uuid.Parse(studentID)
	if err != nil {
		return nil, errs.ErrStudentNotFound
	}
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, errs.ErrUnknownIdentity) {
			return nil, errs.ErrStudentNotFound
		}
		return nil, err
	}

	taskUUID, err := uuid.Parse(taskID)
	if err != nil {
		return nil, errs.ErrTaskNotFound
	}
	task, err := s.taskDir.GetTaskByID(ctx, taskUUID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if now.After(task.Deadline) {
		return nil, errs.ErrDeadlinePassed
	}

	fileURL, err := s.storage.Save(file)
	if err != nil {
		return nil, err
	}

	submission := &Submission{
		ID:          uuid.New(),
		StudentID:   studentUUID,
		TaskID:      taskUUID,
		FileURL:     fileURL,
		SubmittedAt: now,
	}
	if err := s.repo.Create(ctx, submission); err != nil {
		return nil, err
	}

	s.log.LogSubmissionReceived(ctx, submission.ID.String(), taskID, studentID)
	return submission, nil
}

func (s *service) GetSubmission(ctx context.Context, id uuid.UUID) (*Submission, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetSubmissionsForTask(ctx context.Context, taskID uuid.UUID) ([]Submission, error) {
	return s.repo.GetByTask(ctx, taskID)
}

// OwnerOf resolves a submission id to the owning student id. It is the
// ownership-resolver collaborator consumed by the authorization chain.
func (s *service) OwnerOf(ctx context.Context, resourceID string) (string, error) {
	id, err := uuid.Parse(resourceID)
	if err != nil {
		return "", errs.ErrSubmissionNotFound
	}
	submission, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return submission.StudentID.String(), nil
}
