package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unitrack-app/unitrack-api/internal/service"
	"github.com/unitrack-app/unitrack-api/pkg/response"
)

// TranscriptHandler exposes transcript endpoints.
type TranscriptHandler struct {
	transcripts *service.TranscriptService
	exports     *service.ExportService
}

// NewTranscriptHandler constructs TranscriptHandler.
func NewTranscriptHandler(transcripts *service.TranscriptService, exports *service.ExportService) *TranscriptHandler {
	return &TranscriptHandler{transcripts: transcripts, exports: exports}
}

// Get godoc
// @Summary Get a student's transcript
// @Tags Transcripts
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /students/{id}/transcript [get]
func (h *TranscriptHandler) Get(c *gin.Context) {
	transcript, err := h.transcripts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, transcript, nil)
}

// Export godoc
// @Summary Download a student's transcript as CSV or PDF
// @Tags Transcripts
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Student ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /students/{id}/transcript/export [get]
func (h *TranscriptHandler) Export(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	result, err := h.exports.Transcript(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.FileName+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
