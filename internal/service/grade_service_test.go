package service_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lshigami/examhub/internal/model"
	"github.com/lshigami/examhub/internal/service"
)

func TestCalculateGrade(t *testing.T) {
	svc := service.NewGradeService()
	tests := []struct {
		score float64
		want  model.Grade
	}{
		{100, model.GradeA},
		{90, model.GradeA},
		{89.99, model.GradeB},
		{80, model.GradeB},
		{79.99, model.GradeC},
		{70, model.GradeC},
		{69.99, model.GradeD},
		{60, model.GradeD},
		{59.99, model.GradeF},
		{0, model.GradeF},
	}
	for _, tt := range tests {
		got, err := svc.CalculateGrade(tt.score)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "score %v", tt.score)
	}
}

func TestCalculateGradeOutOfRange(t *testing.T) {
	svc := service.NewGradeService()
	for _, score := range []float64{-0.01, 100.01, math.NaN()} {
		_, err := svc.CalculateGrade(score)
		assert.Error(t, err, "score %v", score)
	}
}
