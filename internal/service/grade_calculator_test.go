package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitrack-app/unitrack-api/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func letterPtr(l models.LetterGrade) *models.LetterGrade { return &l }

func TestCalculateAverageWeights(t *testing.T) {
	avg := CalculateAverage(floatPtr(50), floatPtr(100))
	require.NotNil(t, avg)
	assert.InDelta(t, 80.0, *avg, 1e-9)

	avg = CalculateAverage(floatPtr(0), floatPtr(0))
	require.NotNil(t, avg)
	assert.Equal(t, 0.0, *avg)
}

func TestCalculateAverageNilPropagation(t *testing.T) {
	assert.Nil(t, CalculateAverage(nil, floatPtr(90)))
	assert.Nil(t, CalculateAverage(floatPtr(90), nil))
	assert.Nil(t, CalculateAverage(nil, nil))
}

func TestDetermineLetterGradeBoundaries(t *testing.T) {
	cases := []struct {
		average float64
		want    models.LetterGrade
	}{
		{100, models.LetterAA},
		{90, models.LetterAA},
		{89.999, models.LetterBA},
		{85, models.LetterBA},
		{80, models.LetterBB},
		{75, models.LetterCB},
		{70, models.LetterCC},
		{69.999, models.LetterDC},
		{60, models.LetterDC},
		{50, models.LetterDD},
		{40, models.LetterFD},
		{39.999, models.LetterFF},
		{0, models.LetterFF},
	}
	for _, tc := range cases {
		got := DetermineLetterGrade(floatPtr(tc.average))
		require.NotNil(t, got, "average %v", tc.average)
		assert.Equal(t, tc.want, *got, "average %v", tc.average)
	}
}

func TestDetermineLetterGradeNil(t *testing.T) {
	assert.Nil(t, DetermineLetterGrade(nil))
}

func TestIsPassed(t *testing.T) {
	assert.True(t, IsPassed(letterPtr(models.LetterAA)))
	assert.True(t, IsPassed(letterPtr(models.LetterDD)))
	assert.False(t, IsPassed(letterPtr(models.LetterFD)))
	assert.False(t, IsPassed(letterPtr(models.LetterFF)))
	assert.False(t, IsPassed(nil))
	blank := models.LetterGrade("")
	assert.False(t, IsPassed(&blank))
}

func TestDeriveGradeResult(t *testing.T) {
	result := DeriveGradeResult(models.ScorePair{Midterm: floatPtr(80), Final: floatPtr(90)})
	require.NotNil(t, result.Average)
	assert.InDelta(t, 86.0, *result.Average, 1e-9)
	require.NotNil(t, result.Letter)
	assert.Equal(t, models.LetterBA, *result.Letter)
	assert.True(t, result.Passed)
}

func TestDeriveGradeResultIncompleteScores(t *testing.T) {
	result := DeriveGradeResult(models.ScorePair{Midterm: floatPtr(80)})
	assert.Nil(t, result.Average)
	assert.Nil(t, result.Letter)
	assert.False(t, result.Passed)
}

func TestDeriveGradeResultFailingPair(t *testing.T) {
	result := DeriveGradeResult(models.ScorePair{Midterm: floatPtr(40), Final: floatPtr(40)})
	require.NotNil(t, result.Letter)
	assert.Equal(t, models.LetterFD, *result.Letter)
	assert.False(t, result.Passed)
}
