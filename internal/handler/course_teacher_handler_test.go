package handler

import (
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/edi2410/algebra-radegast/internal/models"
	"github.com/edi2410/algebra-radegast/internal/service"
)

type assignmentPair struct {
	courseID  int64
	teacherID int64
}

type assignmentStoreFake struct {
	nextID      int64
	assignments map[assignmentPair]*models.CourseTeacher
	users       *userStoreFake
}

func newAssignmentStoreFake(users *userStoreFake) *assignmentStoreFake {
	return &assignmentStoreFake{assignments: make(map[assignmentPair]*models.CourseTeacher), users: users}
}

func (f *assignmentStoreFake) ListByCourse(ctx context.Context, courseID int64) ([]models.CourseTeacherDetail, error) {
	var out []models.CourseTeacherDetail
	for key, a := range f.assignments {
		if key.courseID != courseID {
			continue
		}
		detail := models.CourseTeacherDetail{CourseTeacher: *a}
		if teacher, ok := f.users.byID[a.TeacherID]; ok {
			detail.TeacherName = teacher.FullName
			detail.TeacherEmail = &teacher.Email
		}
		out = append(out, detail)
	}
	return out, nil
}

func (f *assignmentStoreFake) Find(ctx context.Context, courseID, teacherID int64) (*models.CourseTeacher, error) {
	a, ok := f.assignments[assignmentPair{courseID, teacherID}]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *a
	return &copied, nil
}

func (f *assignmentStoreFake) Exists(ctx context.Context, courseID, teacherID int64) (bool, error) {
	_, ok := f.assignments[assignmentPair{courseID, teacherID}]
	return ok, nil
}

func (f *assignmentStoreFake) Create(ctx context.Context, assignment *models.CourseTeacher) error {
	f.nextID++
	assignment.ID = f.nextID
	if assignment.AssignedAt.IsZero() {
		assignment.AssignedAt = time.Now().UTC()
	}
	copied := *assignment
	f.assignments[assignmentPair{assignment.CourseID, assignment.TeacherID}] = &copied
	return nil
}

func (f *assignmentStoreFake) UpdateRole(ctx context.Context, courseID, teacherID int64, role models.TeacherRole) error {
	a, ok := f.assignments[assignmentPair{courseID, teacherID}]
	if !ok {
		return sql.ErrNoRows
	}
	a.Role = role
	return nil
}

func (f *assignmentStoreFake) Delete(ctx context.Context, courseID, teacherID int64) error {
	key := assignmentPair{courseID, teacherID}
	if _, ok := f.assignments[key]; !ok {
		return sql.ErrNoRows
	}
	delete(f.assignments, key)
	return nil
}

type assignmentFixture struct {
	handler *CourseTeacherHandler
	courses *courseStoreFake
	users   *userStoreFake
	router  *gin.Engine
}

func newAssignmentHandlerFixture() *assignmentFixture {
	gin.SetMode(gin.TestMode)
	courses := newCourseStoreFake()
	users := newUserStoreFake()
	assignments := newAssignmentStoreFake(users)
	svc := service.NewCourseTeacherService(courses, users, assignments, validator.New(), zap.NewNop(), nil)
	h := NewCourseTeacherHandler(svc)

	r := gin.New()
	r.GET("/courses/:id/teachers", h.List)
	r.POST("/courses/:id/teachers", h.Assign)
	r.GET("/courses/:id/teachers/export", h.Export)
	r.PATCH("/courses/:id/teachers/:teacherId", h.UpdateRole)
	r.DELETE("/courses/:id/teachers/:teacherId", h.Remove)

	return &assignmentFixture{handler: h, courses: courses, users: users, router: r}
}

func (f *assignmentFixture) do(method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var reader *bytes.Buffer
	if body == "" {
		reader = bytes.NewBufferString("")
	} else {
		reader = bytes.NewBufferString(body)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	f.router.ServeHTTP(w, req)
	return w
}

func TestCourseTeacherHandlerAssign(t *testing.T) {
	f := newAssignmentHandlerFixture()
	f.courses.add(&models.Course{Title: "Algebra", Status: models.CourseStatusActive})
	name := "Ana"
	require.NoError(t, f.users.Create(context.Background(), &models.User{Email: "ana@example.com", FullName: &name, Role: models.RoleTeacher}))

	w := f.do(http.MethodPost, "/courses/1/teachers", `{"teacher_id":1}`)

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeEnvelope(t, w)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, string(models.TeacherRoleAssistant), data["role"])
	assert.Equal(t, "Ana", data["teacher_name"])
	assert.Equal(t, "ana@example.com", data["teacher_email"])
}

func TestCourseTeacherHandlerAssignConflict(t *testing.T) {
	f := newAssignmentHandlerFixture()
	f.courses.add(&models.Course{Title: "Algebra", Status: models.CourseStatusActive})
	require.NoError(t, f.users.Create(context.Background(), &models.User{Email: "ana@example.com", Role: models.RoleTeacher}))

	first := f.do(http.MethodPost, "/courses/1/teachers", `{"teacher_id":1,"role":"PRIMARY"}`)
	require.Equal(t, http.StatusCreated, first.Code)

	second := f.do(http.MethodPost, "/courses/1/teachers", `{"teacher_id":1}`)
	require.Equal(t, http.StatusConflict, second.Code)
	body := decodeEnvelope(t, second)
	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "teacher is already assigned to this course", errObj["message"])
}

func TestCourseTeacherHandlerAssignMissingCourse(t *testing.T) {
	f := newAssignmentHandlerFixture()
	require.NoError(t, f.users.Create(context.Background(), &models.User{Email: "ana@example.com", Role: models.RoleTeacher}))

	w := f.do(http.MethodPost, "/courses/99/teachers", `{"teacher_id":1}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCourseTeacherHandlerUpdateRole(t *testing.T) {
	f := newAssignmentHandlerFixture()
	f.courses.add(&models.Course{Title: "Algebra", Status: models.CourseStatusActive})
	require.NoError(t, f.users.Create(context.Background(), &models.User{Email: "ana@example.com", Role: models.RoleTeacher}))
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/courses/1/teachers", `{"teacher_id":1}`).Code)

	w := f.do(http.MethodPatch, "/courses/1/teachers/1", `{"role":"PRIMARY"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	data, ok := body["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, string(models.TeacherRolePrimary), data["role"])
}

func TestCourseTeacherHandlerUpdateRoleInvalidValue(t *testing.T) {
	f := newAssignmentHandlerFixture()
	f.courses.add(&models.Course{Title: "Algebra", Status: models.CourseStatusActive})

	w := f.do(http.MethodPatch, "/courses/1/teachers/1", `{"role":"HEADMASTER"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCourseTeacherHandlerRemoveThenList(t *testing.T) {
	f := newAssignmentHandlerFixture()
	f.courses.add(&models.Course{Title: "Algebra", Status: models.CourseStatusActive})
	require.NoError(t, f.users.Create(context.Background(), &models.User{Email: "ana@example.com", Role: models.RoleTeacher}))
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/courses/1/teachers", `{"teacher_id":1}`).Code)

	require.Equal(t, http.StatusNoContent, f.do(http.MethodDelete, "/courses/1/teachers/1", "").Code)

	w := f.do(http.MethodGet, "/courses/1/teachers", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeEnvelope(t, w)
	assert.Nil(t, body["data"])
}

func TestCourseTeacherHandlerRemoveMissing(t *testing.T) {
	f := newAssignmentHandlerFixture()
	f.courses.add(&models.Course{Title: "Algebra", Status: models.CourseStatusActive})

	w := f.do(http.MethodDelete, "/courses/1/teachers/1", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCourseTeacherHandlerExportCSV(t *testing.T) {
	f := newAssignmentHandlerFixture()
	f.courses.add(&models.Course{Title: "Algebra", Status: models.CourseStatusActive})
	require.NoError(t, f.users.Create(context.Background(), &models.User{Email: "ana@example.com", Role: models.RoleTeacher}))
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/courses/1/teachers", `{"teacher_id":1}`).Code)

	w := f.do(http.MethodGet, "/courses/1/teachers/export?format=csv", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `course-1-roster.csv`)
	assert.Contains(t, w.Body.String(), "ana@example.com")
}

func TestCourseTeacherHandlerExportUnsupportedFormat(t *testing.T) {
	f := newAssignmentHandlerFixture()
	f.courses.add(&models.Course{Title: "Algebra", Status: models.CourseStatusActive})

	w := f.do(http.MethodGet, "/courses/1/teachers/export?format=xlsx", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}
