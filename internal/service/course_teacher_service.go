package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/edi2410/algebra-radegast/internal/models"
	"github.com/edi2410/algebra-radegast/internal/repository"
	appErrors "github.com/edi2410/algebra-radegast/pkg/errors"
	"github.com/edi2410/algebra-radegast/pkg/export"
)

type courseReader interface {
	FindByID(ctx context.Context, id int64) (*models.Course, error)
}

type teacherReader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type courseTeacherRepo interface {
	ListByCourse(ctx context.Context, courseID int64) ([]models.CourseTeacherDetail, error)
	Find(ctx context.Context, courseID, teacherID int64) (*models.CourseTeacher, error)
	Exists(ctx context.Context, courseID, teacherID int64) (bool, error)
	Create(ctx context.Context, assignment *models.CourseTeacher) error
	UpdateRole(ctx context.Context, courseID, teacherID int64, role models.TeacherRole) error
	Delete(ctx context.Context, courseID, teacherID int64) error
}

// AssignTeacherRequest describes the assignment payload.
type AssignTeacherRequest struct {
	TeacherID int64              `json:"teacher_id" validate:"required"`
	Role      models.TeacherRole `json:"role,omitempty" validate:"omitempty,oneof=PRIMARY ASSISTANT GUEST"`
}

// UpdateTeacherRoleRequest changes the role on an existing assignment.
type UpdateTeacherRoleRequest struct {
	Role models.TeacherRole `json:"role" validate:"required,oneof=PRIMARY ASSISTANT GUEST"`
}

// RosterExport is a rendered roster document.
type RosterExport struct {
	Content     []byte
	ContentType string
	Filename    string
}

// CourseTeacherService manages the course-teacher relation.
type CourseTeacherService struct {
	courses     courseReader
	teachers    teacherReader
	assignments courseTeacherRepo
	validator   *validator.Validate
	logger      *zap.Logger
	metrics     *MetricsService
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
}

// NewCourseTeacherService creates a service instance.
func NewCourseTeacherService(courses courseReader, teachers teacherReader, assignments courseTeacherRepo, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *CourseTeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseTeacherService{
		courses:     courses,
		teachers:    teachers,
		assignments: assignments,
		validator:   validate,
		logger:      logger,
		metrics:     metrics,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
	}
}

// Assign links a teacher to a course. Both must exist and the pair must be
// unique; the assignment timestamp is server-set.
func (s *CourseTeacherService) Assign(ctx context.Context, courseID int64, req AssignTeacherRequest) (*models.CourseTeacherDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordAssignmentOperation("assign", MetricStatusFailed)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		s.metrics.RecordAssignmentOperation("assign", MetricStatusFailed)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	teacher, err := s.teachers.FindByID(ctx, req.TeacherID)
	if err != nil {
		s.metrics.RecordAssignmentOperation("assign", MetricStatusFailed)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	exists, err := s.assignments.Exists(ctx, courseID, req.TeacherID)
	if err != nil {
		s.metrics.RecordAssignmentOperation("assign", MetricStatusFailed)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check assignment uniqueness")
	}
	if exists {
		s.metrics.RecordAssignmentOperation("assign", MetricStatusFailed)
		return nil, appErrors.Clone(appErrors.ErrConflict, "teacher is already assigned to this course")
	}

	role := req.Role
	if role == "" {
		role = models.TeacherRoleAssistant
	}

	assignment := &models.CourseTeacher{
		CourseID:  courseID,
		TeacherID: req.TeacherID,
		Role:      role,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		s.metrics.RecordAssignmentOperation("assign", MetricStatusFailed)
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "teacher is already assigned to this course")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}

	s.metrics.RecordAssignmentOperation("assign", MetricStatusSuccess)
	return &models.CourseTeacherDetail{
		CourseTeacher: *assignment,
		TeacherName:   teacher.FullName,
		TeacherEmail:  &teacher.Email,
	}, nil
}

// List returns all assignments for the course with denormalized teacher info.
func (s *CourseTeacherService) List(ctx context.Context, courseID int64) ([]models.CourseTeacherDetail, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	assignments, err := s.assignments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}

	s.metrics.ObserveTeachersPerCourse(len(assignments))
	return assignments, nil
}

// UpdateRole mutates the role on an existing assignment; assigned_at is
// left unchanged.
func (s *CourseTeacherService) UpdateRole(ctx context.Context, courseID, teacherID int64, req UpdateTeacherRoleRequest) (*models.CourseTeacherDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordAssignmentOperation("update", MetricStatusFailed)
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid role payload")
	}

	if err := s.assignments.UpdateRole(ctx, courseID, teacherID, req.Role); err != nil {
		s.metrics.RecordAssignmentOperation("update", MetricStatusFailed)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignment role")
	}

	assignment, err := s.assignments.Find(ctx, courseID, teacherID)
	if err != nil {
		s.metrics.RecordAssignmentOperation("update", MetricStatusFailed)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload assignment")
	}

	detail := &models.CourseTeacherDetail{CourseTeacher: *assignment}
	if teacher, err := s.teachers.FindByID(ctx, teacherID); err == nil {
		detail.TeacherName = teacher.FullName
		detail.TeacherEmail = &teacher.Email
	}

	s.metrics.RecordAssignmentOperation("update", MetricStatusSuccess)
	return detail, nil
}

// Remove deletes the assignment for the course-teacher pair.
func (s *CourseTeacherService) Remove(ctx context.Context, courseID, teacherID int64) error {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		s.metrics.RecordAssignmentOperation("remove", MetricStatusFailed)
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if err := s.assignments.Delete(ctx, courseID, teacherID); err != nil {
		s.metrics.RecordAssignmentOperation("remove", MetricStatusFailed)
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}

	s.metrics.RecordAssignmentOperation("remove", MetricStatusSuccess)
	return nil
}

// ExportRoster renders the course roster as CSV or PDF.
func (s *CourseTeacherService) ExportRoster(ctx context.Context, courseID int64, format string) (*RosterExport, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	assignments, err := s.assignments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}

	dataset := export.Dataset{
		Headers: []string{"Teacher ID", "Name", "Email", "Role", "Assigned At"},
	}
	for _, a := range assignments {
		name := ""
		if a.TeacherName != nil {
			name = *a.TeacherName
		}
		email := ""
		if a.TeacherEmail != nil {
			email = *a.TeacherEmail
		}
		dataset.Rows = append(dataset.Rows, []string{
			fmt.Sprintf("%d", a.TeacherID),
			name,
			email,
			string(a.Role),
			a.AssignedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}

	switch strings.ToLower(format) {
	case "", "csv":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster csv")
		}
		return &RosterExport{Content: content, ContentType: "text/csv", Filename: fmt.Sprintf("course-%d-roster.csv", course.ID)}, nil
	case "pdf":
		content, err := s.pdf.Render(dataset, fmt.Sprintf("Roster: %s", course.Title))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster pdf")
		}
		return &RosterExport{Content: content, ContentType: "application/pdf", Filename: fmt.Sprintf("course-%d-roster.pdf", course.ID)}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}
