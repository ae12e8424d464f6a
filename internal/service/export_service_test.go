package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitrack-app/unitrack-api/internal/models"
	appErrors "github.com/unitrack-app/unitrack-api/pkg/errors"
)

type mockTranscriptProvider struct {
	transcript *models.Transcript
}

func (m *mockTranscriptProvider) Get(ctx context.Context, studentID string) (*models.Transcript, error) {
	if m.transcript == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return m.transcript, nil
}

func sampleTranscript() *models.Transcript {
	no := "20230001"
	return &models.Transcript{
		StudentID:   "stu-1",
		StudentName: "Ada Lovelace",
		StudentNo:   &no,
		Lines: []models.TranscriptLine{
			{CourseCode: "CSE101", CourseName: "Intro", Credit: 4, Letter: letterPtr(models.LetterAA)},
			{CourseCode: "CSE102", CourseName: "Data Structures", Credit: 4, Letter: nil},
		},
		GPA:         "4.00",
		GeneratedAt: time.Now().UTC(),
	}
}

func TestExportServiceTranscriptCSV(t *testing.T) {
	svc := NewExportService(&mockTranscriptProvider{transcript: sampleTranscript()}, nil)

	result, err := svc.Transcript(context.Background(), "stu-1", ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "transcript_20230001.csv", result.FileName)
	assert.Equal(t, "text/csv", result.ContentType)

	body := string(result.Content)
	assert.Contains(t, body, "Course Code,Course Name,Credit,Letter")
	assert.Contains(t, body, "CSE101,Intro,4,AA")
	// Ungraded lines render a dash, and the GPA footer closes the file.
	assert.Contains(t, body, "CSE102,Data Structures,4,-")
	assert.Contains(t, body, "GPA,,,4.00")
}

func TestExportServiceTranscriptPDF(t *testing.T) {
	svc := NewExportService(&mockTranscriptProvider{transcript: sampleTranscript()}, nil)

	result, err := svc.Transcript(context.Background(), "stu-1", "PDF")
	require.NoError(t, err)
	assert.Equal(t, "transcript_20230001.pdf", result.FileName)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Content), "%PDF"))
}

func TestExportServiceTranscriptUnsupportedFormat(t *testing.T) {
	svc := NewExportService(&mockTranscriptProvider{transcript: sampleTranscript()}, nil)

	_, err := svc.Transcript(context.Background(), "stu-1", "xlsx")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestExportServiceTranscriptFallbackFileName(t *testing.T) {
	transcript := sampleTranscript()
	transcript.StudentNo = nil
	svc := NewExportService(&mockTranscriptProvider{transcript: transcript}, nil)

	result, err := svc.Transcript(context.Background(), "stu-1", ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "transcript_stu-1.csv", result.FileName)
}

func TestExportServicePropagatesProviderErrors(t *testing.T) {
	svc := NewExportService(&mockTranscriptProvider{}, nil)

	_, err := svc.Transcript(context.Background(), "nope", ExportFormatCSV)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}
