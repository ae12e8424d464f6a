package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unitrack-app/unitrack-api/internal/service"
	appErrors "github.com/unitrack-app/unitrack-api/pkg/errors"
	"github.com/unitrack-app/unitrack-api/pkg/response"
)

// AttendanceHandler exposes absence tracking endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// Summary godoc
// @Summary Get the absence summary for an enrollment
// @Tags Attendance
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /enrollments/{id}/attendance [get]
func (h *AttendanceHandler) Summary(c *gin.Context) {
	summary, err := h.attendance.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}

// Records godoc
// @Summary List missed sessions for an enrollment
// @Tags Attendance
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /enrollments/{id}/absences [get]
func (h *AttendanceHandler) Records(c *gin.Context) {
	records, err := h.attendance.Records(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// RecordAbsence godoc
// @Summary Record one missed session
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param payload body service.RecordAbsenceRequest true "Absence payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /enrollments/{id}/absences [post]
func (h *AttendanceHandler) RecordAbsence(c *gin.Context) {
	var req service.RecordAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	summary, err := h.attendance.RecordAbsence(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, summary)
}

// RemoveAbsence godoc
// @Summary Delete one missed-session record
// @Tags Attendance
// @Produce json
// @Param recordId path string true "Attendance record ID"
// @Success 204
// @Security BearerAuth
// @Router /absences/{recordId} [delete]
func (h *AttendanceHandler) RemoveAbsence(c *gin.Context) {
	if err := h.attendance.RemoveAbsence(c.Request.Context(), c.Param("recordId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetAbsentHours godoc
// @Summary Set absence volume from a total-hours figure
// @Tags Attendance
// @Accept json
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param payload body service.SetAbsentHoursRequest true "Hours payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /enrollments/{id}/absences/hours [put]
func (h *AttendanceHandler) SetAbsentHours(c *gin.Context) {
	var req service.SetAbsentHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	summary, err := h.attendance.SetAbsentHours(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary, nil)
}
