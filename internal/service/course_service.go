package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edi2410/algebra-radegast/internal/models"
	appErrors "github.com/edi2410/algebra-radegast/pkg/errors"
)

const courseListCacheKey = "courses:all"

type courseRepository interface {
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int64) error
}

type courseCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CreateCourseRequest describes the course creation payload.
type CreateCourseRequest struct {
	Title       string              `json:"title" validate:"required,max=255"`
	Description *string             `json:"description,omitempty"`
	Status      models.CourseStatus `json:"status,omitempty" validate:"omitempty,oneof=draft active archived"`
	StartDate   *time.Time          `json:"start_date,omitempty"`
	EndDate     *time.Time          `json:"end_date,omitempty"`
}

// UpdateCourseRequest patches any subset of course fields.
type UpdateCourseRequest struct {
	Title       *string              `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string              `json:"description,omitempty"`
	Status      *models.CourseStatus `json:"status,omitempty" validate:"omitempty,oneof=draft active archived"`
	StartDate   *time.Time           `json:"start_date,omitempty"`
	EndDate     *time.Time           `json:"end_date,omitempty"`
}

// CourseService handles course CRUD with ownership checks.
type CourseService struct {
	repo      courseRepository
	cache     courseCache
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
}

// NewCourseService creates a service instance. The cache may be nil.
func NewCourseService(repo courseRepository, cache courseCache, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, cache: cache, cacheTTL: cacheTTL, validator: validate, logger: logger, metrics: metrics}
}

// List returns all courses, serving from the cache when warm.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	if s.cache != nil {
		var cached []models.Course
		if err := s.cache.Get(ctx, courseListCacheKey, &cached); err == nil {
			return cached, nil
		} else if !appErrors.HasCode(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("course list cache read failed", zap.Error(err))
		}
	}

	courses, err := s.repo.List(ctx)
	if err != nil {
		s.metrics.RecordCourseOperation("list", MetricStatusFailed)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, courseListCacheKey, courses, s.cacheTTL); err != nil {
			s.logger.Warn("course list cache write failed", zap.Error(err))
		}
	}

	s.metrics.RecordCourseOperation("list", MetricStatusSuccess)
	return courses, nil
}

// Get returns a course by ID.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordCourseOperation("get", MetricStatusFailed)
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		s.metrics.RecordCourseOperation("get", MetricStatusFailed)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	s.metrics.RecordCourseOperation("get", MetricStatusSuccess)
	return course, nil
}

// Create adds a course owned by the actor. Status defaults to draft.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest, actor *models.User) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordCourseOperation("create", MetricStatusFailed)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	status := req.Status
	if status == "" {
		status = models.CourseStatusDraft
	}

	course := &models.Course{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if actor != nil {
		ownerID := actor.ID
		course.OwnerID = &ownerID
	}

	if err := s.repo.Create(ctx, course); err != nil {
		s.metrics.RecordCourseOperation("create", MetricStatusFailed)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	s.invalidateListCache(ctx)
	s.metrics.RecordCourseOperation("create", MetricStatusSuccess)
	return course, nil
}

// Update patches course fields. Allowed for admins or the recorded owner.
func (s *CourseService) Update(ctx context.Context, id int64, req UpdateCourseRequest, actor *models.User) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordCourseOperation("update", MetricStatusFailed)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course patch")
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordCourseOperation("update", MetricStatusFailed)
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		s.metrics.RecordCourseOperation("update", MetricStatusFailed)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if !canModifyCourse(actor, course) {
		s.metrics.RecordCourseOperation("update", MetricStatusFailed)
		return nil, appErrors.Clone(appErrors.ErrForbidden, "you can only update your own courses")
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = req.Description
	}
	if req.Status != nil {
		course.Status = *req.Status
	}
	if req.StartDate != nil {
		course.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		course.EndDate = req.EndDate
	}

	if err := s.repo.Update(ctx, course); err != nil {
		s.metrics.RecordCourseOperation("update", MetricStatusFailed)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}

	s.invalidateListCache(ctx)
	s.metrics.RecordCourseOperation("update", MetricStatusSuccess)
	return course, nil
}

// Delete removes a course. Allowed for admins or the recorded owner.
func (s *CourseService) Delete(ctx context.Context, id int64, actor *models.User) error {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordCourseOperation("delete", MetricStatusFailed)
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		s.metrics.RecordCourseOperation("delete", MetricStatusFailed)
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if !canModifyCourse(actor, course) {
		s.metrics.RecordCourseOperation("delete", MetricStatusFailed)
		return appErrors.Clone(appErrors.ErrForbidden, "you can only delete your own courses")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordCourseOperation("delete", MetricStatusFailed)
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		s.metrics.RecordCourseOperation("delete", MetricStatusFailed)
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}

	s.invalidateListCache(ctx)
	s.metrics.RecordCourseOperation("delete", MetricStatusSuccess)
	return nil
}

func (s *CourseService) invalidateListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, courseListCacheKey); err != nil {
		s.logger.Warn("course list cache invalidation failed", zap.Error(err))
	}
}

// canModifyCourse is the admin-or-owner policy: admins may always modify, and
// any other authenticated user only when it is the recorded owner.
func canModifyCourse(actor *models.User, course *models.Course) bool {
	if actor == nil {
		return false
	}
	switch actor.Role {
	case models.RoleAdmin:
		return true
	case models.RoleTeacher, models.RoleGuest:
		return course.OwnerID != nil && *course.OwnerID == actor.ID
	}
	return false
}
