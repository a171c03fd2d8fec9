package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/edi2410/algebra-radegast/internal/models"
)

// CourseTeacherRepository persists course-teacher assignments.
type CourseTeacherRepository struct {
	db *sqlx.DB
}

// NewCourseTeacherRepository constructs the repository.
func NewCourseTeacherRepository(db *sqlx.DB) *CourseTeacherRepository {
	return &CourseTeacherRepository{db: db}
}

// ListByCourse returns all assignments for a course with denormalized teacher
// name and email.
func (r *CourseTeacherRepository) ListByCourse(ctx context.Context, courseID int64) ([]models.CourseTeacherDetail, error) {
	const query = `
SELECT ct.id, ct.course_id, ct.teacher_id, ct.role, ct.assigned_at,
       u.full_name AS teacher_name, u.email AS teacher_email
FROM course_teachers ct
JOIN users u ON u.id = ct.teacher_id
WHERE ct.course_id = $1
ORDER BY ct.id ASC`
	var assignments []models.CourseTeacherDetail
	if err := r.db.SelectContext(ctx, &assignments, query, courseID); err != nil {
		return nil, fmt.Errorf("list course teachers: %w", err)
	}
	return assignments, nil
}

// Find returns the assignment for the course-teacher pair.
func (r *CourseTeacherRepository) Find(ctx context.Context, courseID, teacherID int64) (*models.CourseTeacher, error) {
	const query = `SELECT id, course_id, teacher_id, role, assigned_at FROM course_teachers WHERE course_id = $1 AND teacher_id = $2 LIMIT 1`
	var assignment models.CourseTeacher
	if err := r.db.GetContext(ctx, &assignment, query, courseID, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course teacher: %w", err)
	}
	return &assignment, nil
}

// Exists checks if the course-teacher pair already exists.
func (r *CourseTeacherRepository) Exists(ctx context.Context, courseID, teacherID int64) (bool, error) {
	const query = `SELECT 1 FROM course_teachers WHERE course_id = $1 AND teacher_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, courseID, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course teacher: %w", err)
	}
	return true, nil
}

// Create inserts a new assignment and fills the generated identifier.
// The unique constraint on (course_id, teacher_id) backs up the caller's
// Exists check; violations are returned unwrapped for IsUniqueViolation.
func (r *CourseTeacherRepository) Create(ctx context.Context, assignment *models.CourseTeacher) error {
	if assignment.AssignedAt.IsZero() {
		assignment.AssignedAt = time.Now().UTC()
	}
	const query = `INSERT INTO course_teachers (course_id, teacher_id, role, assigned_at)
		VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.GetContext(ctx, &assignment.ID, query,
		assignment.CourseID, assignment.TeacherID, assignment.Role, assignment.AssignedAt); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create course teacher: %w", err)
	}
	return nil
}

// UpdateRole mutates the role in place leaving assigned_at unchanged.
func (r *CourseTeacherRepository) UpdateRole(ctx context.Context, courseID, teacherID int64, role models.TeacherRole) error {
	const query = `UPDATE course_teachers SET role = $3 WHERE course_id = $1 AND teacher_id = $2`
	result, err := r.db.ExecContext(ctx, query, courseID, teacherID, role)
	if err != nil {
		return fmt.Errorf("update course teacher role: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated assignment rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the assignment for the course-teacher pair.
func (r *CourseTeacherRepository) Delete(ctx context.Context, courseID, teacherID int64) error {
	const query = `DELETE FROM course_teachers WHERE course_id = $1 AND teacher_id = $2`
	result, err := r.db.ExecContext(ctx, query, courseID, teacherID)
	if err != nil {
		return fmt.Errorf("delete course teacher: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted assignment rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
