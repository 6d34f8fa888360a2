package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gradehub/pkg/cache"
	"gradehub/pkg/logger"
)

const (
	taskListCacheKey = "gradehub:tasks:all"
	taskCacheKeyFmt  = "gradehub:tasks:%s"
	taskCachePattern = "gradehub:tasks:*"
	defaultCacheTTL  = time.Hour
)

type Service interface {
	CreateTask(ctx context.Context, teacherID uuid.UUID, req CreateTaskRequest) (*Task, error)
	GetTaskByID(ctx context.Context, id uuid.UUID) (*Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	GetAllTasks(ctx context.Context) ([]Task, error)
}

type service struct {
	repo     Repository
	cache    cache.Service
	cacheTTL time.Duration
	log      *logger.Logger
}

// NewService builds the task service. cacheSvc may be nil, in which case
// reads always hit the database.
func NewService(repo Repository, cacheSvc cache.Service, cacheTTL time.Duration) Service {
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &service{
		repo:     repo,
		cache:    cacheSvc,
		cacheTTL: cacheTTL,
		log:      logger.GetDefault(),
	}
}

func (s *service) CreateTask(ctx context.Context, teacherID uuid.UUID, req CreateTaskRequest) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Deadline:    req.Deadline,
		CreatedBy:   teacherID,
	}

	if err := s.repo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.log.LogTaskCreated(ctx, task.ID.String(), teacherID.String())
	return task, nil
}

func (s *service) GetTaskByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	if s.cache == nil {
		return s.repo.GetByID(ctx, id)
	}

	var task Task
	err := s.cache.GetOrSet(ctx, fmt.Sprintf(taskCacheKeyFmt, id), s.cacheTTL, func() (interface{}, error) {
		return s.repo.GetByID(ctx, id)
	}, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *service) UpdateTask(ctx context.Context, id uuid.UUID, req UpdateTaskRequest) (*Task, error) {
	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Deadline != nil {
		updates["deadline"] = *req.Deadline
	}

	task, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return task, nil
}

func (s *service) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *service) GetAllTasks(ctx context.Context) ([]Task, error) {
	if s.cache == nil {
		return s.repo.GetAll(ctx)
	}

	var tasks []Task
	err := s.cache.GetOrSet(ctx, taskListCacheKey, s.cacheTTL, func() (interface{}, error) {
		return s.repo.GetAll(ctx)
	}, &tasks)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, taskCachePattern); err != nil {
		s.log.WithError(err).Warn("task cache invalidation failed")
	}
}
