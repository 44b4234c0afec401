package service

import (
	"fmt"
	"math"

	"github.com/lshigami/examhub/internal/model"
)

type GradeService interface {
	CalculateGrade(score float64) (model.Grade, error)
}

type gradeServiceImpl struct{}

func NewGradeService() GradeService {
	return &gradeServiceImpl{}
}

// CalculateGrade bands a 0-100 score: 90 and above is A, then B, C and D in
// steps of ten, anything below 60 is F.
func (s *gradeServiceImpl) CalculateGrade(score float64) (model.Grade, error) {
	if math.IsNaN(score) || score < model.MinScore || score > model.MaxScore {
		return "", fmt.Errorf("score %.2f is out of valid range (%.0f-%.0f)", score, model.MinScore, model.MaxScore)
	}

	switch {
	case score >= 90:
		return model.GradeA, nil
	case score >= 80:
		return model.GradeB, nil
	case score >= 70:
		return model.GradeC, nil
	case score >= 60:
		return model.GradeD, nil
	default:
		return model.GradeF, nil
	}
}
