package models

import "time"

// TeacherRole is the role a teacher holds on a single course.
type TeacherRole string

const (
	TeacherRolePrimary   TeacherRole = "PRIMARY"
	TeacherRoleAssistant TeacherRole = "ASSISTANT"
	TeacherRoleGuest     TeacherRole = "GUEST"
)

// Valid reports whether the role is one of the closed set.
func (r TeacherRole) Valid() bool {
	switch r {
	case TeacherRolePrimary, TeacherRoleAssistant, TeacherRoleGuest:
		return true
	}
	return false
}

// CourseTeacher links one teacher to one course with a role. The pair
// (course_id, teacher_id) is unique; assigned_at is server-set at creation.
type CourseTeacher struct {
	ID         int64       `db:"id" json:"id"`
	CourseID   int64       `db:"course_id" json:"course_id"`
	TeacherID  int64       `db:"teacher_id" json:"teacher_id"`
	Role       TeacherRole `db:"role" json:"role"`
	AssignedAt time.Time   `db:"assigned_at" json:"assigned_at"`
}

// CourseTeacherDetail enriches assignments with denormalized teacher fields
// filled from a join, not stored on the assignment itself.
type CourseTeacherDetail struct {
	CourseTeacher
	TeacherName  *string `db:"teacher_name" json:"teacher_name,omitempty"`
	TeacherEmail *string `db:"teacher_email" json:"teacher_email,omitempty"`
}
