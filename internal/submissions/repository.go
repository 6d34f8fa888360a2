package submissions

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gradehub/internal/shared/errs"
)

type Repository interface {
	Create(ctx context.Context, submission *Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*Submission, error)
	GetByTask(ctx context.Context, taskID uuid.UUID) ([]Submission, error)
	MarkGraded(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, submission *Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Submission, error) {
	var submission Submission
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&submission).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrSubmissionNotFound
		}
		return nil, err
	}
	return &submission, nil
}

func (r *repository) GetByTask(ctx context.Context, taskID uuid.UUID) ([]Submission, error) {
	var result []Submission
	err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Order("submitted_at ASC").Find(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *repository) MarkGraded(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&Submission{}).
		Where("id = ?", id).
		Update("graded", true)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.ErrSubmissionNotFound
	}
	return nil
}
