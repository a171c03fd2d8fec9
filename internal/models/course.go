package models

import "time"

// CourseStatus is the lifecycle state of a course.
type CourseStatus string

const (
	CourseStatusDraft    CourseStatus = "draft"
	CourseStatusActive   CourseStatus = "active"
	CourseStatusArchived CourseStatus = "archived"
)

// Valid reports whether the status is one of the closed set.
func (s CourseStatus) Valid() bool {
	switch s {
	case CourseStatusDraft, CourseStatusActive, CourseStatusArchived:
		return true
	}
	return false
}

// Course is a unit of instructional content. OwnerID is a direct nullable
// reference to the creating user and is independent of the course_teachers
// relation.
type Course struct {
	ID          int64        `db:"id" json:"id"`
	Title       string       `db:"title" json:"title"`
	Description *string      `db:"description" json:"description,omitempty"`
	Status      CourseStatus `db:"status" json:"status"`
	StartDate   *time.Time   `db:"start_date" json:"start_date,omitempty"`
	EndDate     *time.Time   `db:"end_date" json:"end_date,omitempty"`
	OwnerID     *int64       `db:"owner_id" json:"owner_id,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}
