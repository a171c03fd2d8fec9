package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edi2410/algebra-radegast/internal/models"
)

func TestCourseList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "description", "status", "start_date", "end_date", "owner_id", "created_at", "updated_at"}).
		AddRow(int64(1), "Algebra", nil, string(models.CourseStatusDraft), nil, nil, nil, now, now).
		AddRow(int64(2), "Geometry", nil, string(models.CourseStatusActive), nil, nil, int64(7), now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, description, status, start_date, end_date, owner_id, created_at, updated_at FROM courses ORDER BY created_at ASC")).
		WillReturnRows(rows)

	courses, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Algebra", courses[0].Title)
	assert.Equal(t, models.CourseStatusActive, courses[1].Status)
	require.NotNil(t, courses[1].OwnerID)
	assert.Equal(t, int64(7), *courses[1].OwnerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, description, status, start_date, end_date, owner_id, created_at, updated_at FROM courses WHERE id = $1 LIMIT 1")).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	rows := sqlmock.NewRows([]string{"id"}).AddRow(int64(11))
	mock.ExpectQuery("INSERT INTO courses").WillReturnRows(rows)

	course := &models.Course{Title: "Algebra", Status: models.CourseStatusDraft}
	err := repo.Create(context.Background(), course)
	require.NoError(t, err)
	assert.Equal(t, int64(11), course.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseUpdate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("UPDATE courses SET").WillReturnResult(sqlmock.NewResult(0, 1))

	course := &models.Course{ID: 1, Title: "Algebra II", Status: models.CourseStatusActive}
	err := repo.Update(context.Background(), course)
	require.NoError(t, err)
	assert.False(t, course.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseUpdateMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("UPDATE courses SET").WillReturnResult(sqlmock.NewResult(0, 0))

	course := &models.Course{ID: 99, Title: "Ghost", Status: models.CourseStatusDraft}
	err := repo.Update(context.Background(), course)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM courses WHERE id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseDeleteMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM courses WHERE id = $1")).
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
