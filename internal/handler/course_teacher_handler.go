package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edi2410/algebra-radegast/internal/service"
	appErrors "github.com/edi2410/algebra-radegast/pkg/errors"
	"github.com/edi2410/algebra-radegast/pkg/response"
)

// CourseTeacherHandler handles course-teacher assignment endpoints.
type CourseTeacherHandler struct {
	service *service.CourseTeacherService
}

// NewCourseTeacherHandler creates a new handler.
func NewCourseTeacherHandler(svc *service.CourseTeacherService) *CourseTeacherHandler {
	return &CourseTeacherHandler{service: svc}
}

// Assign godoc
// @Summary Assign a teacher to a course
// @Description Admin only; the (course, teacher) pair must be unique
// @Tags Course Teachers
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param payload body service.AssignTeacherRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /courses/{id}/teachers [post]
func (h *CourseTeacherHandler) Assign(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.AssignTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}

	assignment, err := h.service.Assign(c.Request.Context(), courseID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, assignment)
}

// List godoc
// @Summary List teachers assigned to a course
// @Tags Course Teachers
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/teachers [get]
func (h *CourseTeacherHandler) List(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	assignments, err := h.service.List(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, assignments)
}

// UpdateRole godoc
// @Summary Update a teacher's role on a course
// @Description Admin only; mutates role in place, assigned_at is unchanged
// @Tags Course Teachers
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param teacherId path int true "Teacher ID"
// @Param payload body service.UpdateTeacherRoleRequest true "Role payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/teachers/{teacherId} [patch]
func (h *CourseTeacherHandler) UpdateRole(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	teacherID, ok := pathID(c, "teacherId")
	if !ok {
		return
	}

	var req service.UpdateTeacherRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "role is required"))
		return
	}

	assignment, err := h.service.UpdateRole(c.Request.Context(), courseID, teacherID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, assignment)
}

// Remove godoc
// @Summary Remove a teacher from a course
// @Description Admin only
// @Tags Course Teachers
// @Param id path int true "Course ID"
// @Param teacherId path int true "Teacher ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/teachers/{teacherId} [delete]
func (h *CourseTeacherHandler) Remove(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}
	teacherID, ok := pathID(c, "teacherId")
	if !ok {
		return
	}

	if err := h.service.Remove(c.Request.Context(), courseID, teacherID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Export godoc
// @Summary Export the course roster
// @Description Admin only; renders the assignment list as CSV or PDF
// @Tags Course Teachers
// @Produce text/csv
// @Produce application/pdf
// @Param id path int true "Course ID"
// @Param format query string false "Export format (csv or pdf)" default(csv)
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /courses/{id}/teachers/export [get]
func (h *CourseTeacherHandler) Export(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	roster, err := h.service.ExportRoster(c.Request.Context(), courseID, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", roster.Filename))
	c.Data(http.StatusOK, roster.ContentType, roster.Content)
}
