package grades

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gradehub/internal/shared/errs"
)

type Repository interface {
	Create(ctx context.Context, grade *Grade) error
	GetBySubmission(ctx context.Context, submissionID uuid.UUID) (*Grade, error)
	GetByGrader(ctx context.Context, graderID uuid.UUID) ([]Grade, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, grade *Grade) error {
	return r.db.WithContext(ctx).Create(grade).Error
}

func (r *repository) GetBySubmission(ctx context.Context, submissionID uuid.UUID) (*Grade, error) {
	var grade Grade
	err := r.db.WithContext(ctx).Where("submission_id = ?", submissionID).First(&grade).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrGradeNotFound
		}
		return nil, err
	}
	return &grade, nil
}

func (r *repository) GetByGrader(ctx context.Context, graderID uuid.UUID) ([]Grade, error) {
	var result []Grade
	err := r.db.WithContext(ctx).Where("grader_id = ?", graderID).Order("graded_at DESC").Find(&result).Error
	if err != nil {
		return nil, err
	}
	return result, nil
}
