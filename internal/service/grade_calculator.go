package service

import (
	"github.com/unitrack-app/unitrack-api/internal/models"
)

// Exam weights are fixed by regulation: midterm 40%, final 60%.
const (
	midtermWeight = 0.40
	finalWeight   = 0.60
)

// letterBands maps inclusive lower bounds to letter grades, highest first.
// Ties go to the higher letter (exactly 90 is AA).
var letterBands = []struct {
	min    float64
	letter models.LetterGrade
}{
	{90, models.LetterAA},
	{85, models.LetterBA},
	{80, models.LetterBB},
	{75, models.LetterCB},
	{70, models.LetterCC},
	{60, models.LetterDC},
	{50, models.LetterDD},
	{40, models.LetterFD},
}

// CalculateAverage returns the weighted average of the two exam scores, or nil
// unless both are present. Range validation is the caller's responsibility.
func CalculateAverage(midterm, final *float64) *float64 {
	if midterm == nil || final == nil {
		return nil
	}
	avg := *midterm*midtermWeight + *final*finalWeight
	return &avg
}

// DetermineLetterGrade maps an average onto the letter bands. A nil average
// yields a nil letter.
func DetermineLetterGrade(average *float64) *models.LetterGrade {
	if average == nil {
		return nil
	}
	for _, band := range letterBands {
		if *average >= band.min {
			letter := band.letter
			return &letter
		}
	}
	letter := models.LetterFF
	return &letter
}

// IsPassed reports whether the letter is a passing grade. Nil or blank letters
// and the failing bands FD/FF do not pass.
func IsPassed(letter *models.LetterGrade) bool {
	if letter == nil || *letter == "" {
		return false
	}
	switch *letter {
	case models.LetterFD, models.LetterFF:
		return false
	default:
		return true
	}
}

// DeriveGradeResult runs the full average → letter → passed chain for a score
// pair.
func DeriveGradeResult(scores models.ScorePair) models.GradeResult {
	average := CalculateAverage(scores.Midterm, scores.Final)
	letter := DetermineLetterGrade(average)
	return models.GradeResult{
		Average: average,
		Letter:  letter,
		Passed:  IsPassed(letter),
	}
}
