package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/unitrack-app/unitrack-api/internal/models"
	appErrors "github.com/unitrack-app/unitrack-api/pkg/errors"
	"github.com/unitrack-app/unitrack-api/pkg/export"
)

type transcriptProvider interface {
	Get(ctx context.Context, studentID string) (*models.Transcript, error)
}

// ExportFormat selects the rendered transcript format.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult carries rendered bytes with HTTP delivery metadata.
type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

// ExportService renders transcripts into downloadable documents.
type ExportService struct {
	transcripts transcriptProvider
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	logger      *zap.Logger
}

// NewExportService constructs ExportService.
func NewExportService(transcripts transcriptProvider, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		transcripts: transcripts,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		logger:      logger,
	}
}

// Transcript renders a student's transcript in the requested format.
func (s *ExportService) Transcript(ctx context.Context, studentID string, format ExportFormat) (*ExportResult, error) {
	transcript, err := s.transcripts.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}

	dataset := transcriptDataset(transcript)
	fileBase := fmt.Sprintf("transcript_%s", studentID)
	if transcript.StudentNo != nil && *transcript.StudentNo != "" {
		fileBase = fmt.Sprintf("transcript_%s", *transcript.StudentNo)
	}

	switch ExportFormat(strings.ToLower(string(format))) {
	case ExportFormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{FileName: fileBase + ".csv", ContentType: "text/csv", Content: content}, nil
	case ExportFormatPDF:
		title := fmt.Sprintf("Transcript - %s", transcript.StudentName)
		content, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{FileName: fileBase + ".pdf", ContentType: "application/pdf", Content: content}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format: "+string(format))
	}
}

func transcriptDataset(transcript *models.Transcript) export.Dataset {
	headers := []string{"Course Code", "Course Name", "Credit", "Letter"}
	rows := make([]map[string]string, 0, len(transcript.Lines))
	for _, line := range transcript.Lines {
		letter := "-"
		if line.Letter != nil && *line.Letter != "" {
			letter = string(*line.Letter)
		}
		rows = append(rows, map[string]string{
			"Course Code": line.CourseCode,
			"Course Name": line.CourseName,
			"Credit":      fmt.Sprintf("%d", line.Credit),
			"Letter":      letter,
		})
	}
	footer := []map[string]string{{
		"Course Code": "GPA",
		"Course Name": "",
		"Credit":      "",
		"Letter":      transcript.GPA,
	}}
	return export.Dataset{Headers: headers, Rows: rows, Footer: footer}
}
