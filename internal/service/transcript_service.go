package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/unitrack-app/unitrack-api/internal/models"
	"github.com/unitrack-app/unitrack-api/pkg/config"
	appErrors "github.com/unitrack-app/unitrack-api/pkg/errors"
)

// qualityPoints maps letter grades to GPA quality points.
var qualityPoints = map[models.LetterGrade]float64{
	models.LetterAA: 4.00,
	models.LetterBA: 3.50,
	models.LetterBB: 3.00,
	models.LetterCB: 2.50,
	models.LetterCC: 2.00,
	models.LetterDC: 1.50,
	models.LetterDD: 1.00,
	models.LetterFD: 0.50,
	models.LetterFF: 0.00,
}

// ComputeGPA folds transcript lines into a credit-weighted GPA formatted to
// two decimals with half-up rounding. Lines without a letter or with a
// non-positive credit are skipped; "0.00" is returned when nothing remains.
func ComputeGPA(lines []models.TranscriptLine) string {
	totalPoints := 0.0
	totalCredits := 0
	for _, line := range lines {
		if line.Letter == nil || *line.Letter == "" || line.Credit <= 0 {
			continue
		}
		points, ok := qualityPoints[*line.Letter]
		if !ok {
			continue
		}
		totalPoints += points * float64(line.Credit)
		totalCredits += line.Credit
	}
	if totalCredits == 0 {
		return "0.00"
	}
	gpa := totalPoints / float64(totalCredits)
	// %.2f rounds half to even; the transcript format requires half up.
	return fmt.Sprintf("%.2f", math.Floor(gpa*100+0.5)/100)
}

type transcriptLineRepo interface {
	LinesByStudent(ctx context.Context, studentID string) ([]models.TranscriptLine, error)
}

type transcriptStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type transcriptCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type cacheLookupRecorder interface {
	RecordCacheLookup(hit bool)
}

// TranscriptService assembles student transcripts, optionally cached in
// Redis until a grade or enrollment write invalidates them.
type TranscriptService struct {
	repo     transcriptLineRepo
	students transcriptStudentReader
	cache    transcriptCache
	metrics  cacheLookupRecorder
	config   config.TranscriptConfig
	logger   *zap.Logger
}

// NewTranscriptService constructs TranscriptService. The cache and metrics
// recorder may be nil, in which case every request hits the database.
func NewTranscriptService(repo transcriptLineRepo, students transcriptStudentReader, cache transcriptCache, metrics cacheLookupRecorder, cfg config.TranscriptConfig, logger *zap.Logger) *TranscriptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranscriptService{repo: repo, students: students, cache: cache, metrics: metrics, config: cfg, logger: logger}
}

// Get returns the transcript for a student.
func (s *TranscriptService) Get(ctx context.Context, studentID string) (*models.Transcript, error) {
	if s.cacheEnabled() {
		var cached models.Transcript
		if err := s.cache.Get(ctx, transcriptCacheKey(studentID), &cached); err == nil {
			s.recordLookup(true)
			return &cached, nil
		} else if !appErrors.HasCode(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("transcript cache read failed", zap.Error(err))
		} else {
			s.recordLookup(false)
		}
	}

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if student.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrValidation, "transcripts exist only for student accounts")
	}

	lines, err := s.repo.LinesByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load transcript lines")
	}

	transcript := &models.Transcript{
		StudentID:   student.ID,
		StudentName: student.FullName,
		StudentNo:   student.StudentNo,
		Lines:       lines,
		GPA:         ComputeGPA(lines),
		GeneratedAt: time.Now().UTC(),
	}

	if s.cacheEnabled() {
		if err := s.cache.Set(ctx, transcriptCacheKey(studentID), transcript, s.config.CacheTTL); err != nil {
			s.logger.Warn("transcript cache write failed", zap.Error(err))
		}
	}
	return transcript, nil
}

// InvalidateStudent drops the cached transcript after a grade or enrollment
// write. Failures are logged and swallowed; the TTL bounds staleness.
func (s *TranscriptService) InvalidateStudent(ctx context.Context, studentID string) {
	if !s.cacheEnabled() {
		return
	}
	if err := s.cache.Delete(ctx, transcriptCacheKey(studentID)); err != nil {
		s.logger.Warn("transcript cache invalidation failed",
			zap.String("student_id", studentID), zap.Error(err))
	}
}

func (s *TranscriptService) recordLookup(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheLookup(hit)
	}
}

func (s *TranscriptService) cacheEnabled() bool {
	return s.cache != nil && s.config.CacheEnabled
}

func transcriptCacheKey(studentID string) string {
	return "transcript:" + studentID
}
