package service_test

import (
	"math"

	"github.com/lshigami/examhub/internal/apperror"
	"github.com/lshigami/examhub/internal/dto"
	"github.com/lshigami/examhub/internal/model"
)

// confirmed returns a student with a confirmed registration for exam.
func (s *ServiceSuite) confirmed(examID uint) *dto.UserResponse {
	student := s.newUser(model.RoleStudent)
	s.confirm(s.register(student.ID, examID).ID)
	return student
}

func (s *ServiceSuite) grade(userID, examID uint, score float64) *dto.ResultResponse {
	r, err := s.results.CreateResult(s.ctx, dto.CreateResultRequest{UserID: userID, ExamID: examID, Score: ptr(score)})
	s.Require().NoError(err)
	return r
}

func (s *ServiceSuite) TestCreateResultDerivesGrade() {
	exam := s.newExam(examOpts{})
	r := s.grade(s.confirmed(exam.ID).ID, exam.ID, 85)

	s.Require().NotNil(r.Grade)
	s.Equal(model.GradeB, *r.Grade)
	s.InDelta(85, *r.Score, 0.001)
}

func (s *ServiceSuite) TestCreateResultExplicitGradeWins() {
	exam := s.newExam(examOpts{})
	student := s.confirmed(exam.ID)

	r, err := s.results.CreateResult(s.ctx, dto.CreateResultRequest{UserID: student.ID, ExamID: exam.ID, Score: ptr(55.0), Grade: ptr(model.GradeC)})
	s.Require().NoError(err)
	s.Equal(model.GradeC, *r.Grade)
}

func (s *ServiceSuite) TestCreateResultRequiresConfirmedRegistration() {
	exam := s.newExam(examOpts{})
	student := s.newUser(model.RoleStudent)

	_, err := s.results.CreateResult(s.ctx, dto.CreateResultRequest{UserID: student.ID, ExamID: exam.ID, Score: ptr(70.0)})
	s.requireKind(err, apperror.KindInvalidArgument)
	s.Equal("user is not registered for this exam", apperror.Message(err))

	s.register(student.ID, exam.ID)
	_, err = s.results.CreateResult(s.ctx, dto.CreateResultRequest{UserID: student.ID, ExamID: exam.ID, Score: ptr(70.0)})
	s.requireKind(err, apperror.KindInvalidArgument)
	s.Equal("registration is not confirmed", apperror.Message(err))
}

func (s *ServiceSuite) TestCreateResultRejectsDuplicatesAndBadInput() {
	exam := s.newExam(examOpts{})
	student := s.confirmed(exam.ID)

	_, err := s.results.CreateResult(s.ctx, dto.CreateResultRequest{UserID: student.ID, ExamID: exam.ID, Score: ptr(100.5)})
	s.requireKind(err, apperror.KindInvalidArgument)
	_, err = s.results.CreateResult(s.ctx, dto.CreateResultRequest{UserID: student.ID, ExamID: exam.ID, Grade: ptr(model.Grade("E"))})
	s.requireKind(err, apperror.KindInvalidArgument)

	s.grade(student.ID, exam.ID, 100)
	_, err = s.results.CreateResult(s.ctx, dto.CreateResultRequest{UserID: student.ID, ExamID: exam.ID, Score: ptr(10.0)})
	s.requireKind(err, apperror.KindConflict)
	s.Equal("result already exists for this user and exam", apperror.Message(err))
}

func (s *ServiceSuite) TestResultCalculateGrade() {
	tests := []struct {
		score float64
		want  model.Grade
	}{
		{100, model.GradeA}, {90, model.GradeA}, {89.99, model.GradeB},
		{70, model.GradeC}, {60, model.GradeD}, {59.5, model.GradeF}, {0, model.GradeF},
	}
	for _, tt := range tests {
		got, err := s.results.CalculateGrade(tt.score)
		s.Require().NoError(err)
		s.Equal(tt.want, got, "score %v", tt.score)
	}

	_, err := s.results.CalculateGrade(-0.01)
	s.requireKind(err, apperror.KindInvalidArgument)
	_, err = s.results.CalculateGrade(math.NaN())
	s.requireKind(err, apperror.KindInvalidArgument)
	_, err = s.results.CalculateGrade(101)
	s.requireKind(err, apperror.KindInvalidArgument)
}

func (s *ServiceSuite) TestUpdateResultRegrades() {
	exam := s.newExam(examOpts{})
	r := s.grade(s.confirmed(exam.ID).ID, exam.ID, 40)

	updated, err := s.results.UpdateResult(s.ctx, r.ID, dto.UpdateResultRequest{Score: ptr(92.0)})
	s.Require().NoError(err)
	s.Equal(model.GradeA, *updated.Grade)

	_, err = s.results.UpdateResult(s.ctx, r.ID, dto.UpdateResultRequest{Score: ptr(-3.0)})
	s.requireKind(err, apperror.KindInvalidArgument)

	stored, err := s.results.GetResult(s.ctx, r.ID)
	s.Require().NoError(err)
	s.InDelta(92, *stored.Score, 0.001)

	s.Require().NoError(s.results.DeleteResult(s.ctx, r.ID))
	s.requireKind(s.results.DeleteResult(s.ctx, r.ID), apperror.KindNotFound)
}

func (s *ServiceSuite) TestResultQueries() {
	exam := s.newExam(examOpts{})
	first := s.confirmed(exam.ID)
	s.grade(first.ID, exam.ID, 70)
	s.grade(s.confirmed(exam.ID).ID, exam.ID, 95)
	s.grade(s.confirmed(exam.ID).ID, exam.ID, 50)

	exact, err := s.results.GetResultsByScoreRange(s.ctx, ptr(70.0), ptr(70.0))
	s.Require().NoError(err)
	s.Require().Len(exact, 1)
	s.Equal(first.ID, exact[0].UserID)

	high, err := s.results.GetResultsByScoreRange(s.ctx, ptr(70.0), nil)
	s.Require().NoError(err)
	s.Len(high, 2)

	_, err = s.results.GetResultsByScoreRange(s.ctx, ptr(80.0), ptr(60.0))
	s.requireKind(err, apperror.KindInvalidArgument)
	_, err = s.results.GetResultsByScoreRange(s.ctx, nil, ptr(120.0))
	s.requireKind(err, apperror.KindInvalidArgument)

	aGrades, err := s.results.GetResultsByGrade(s.ctx, model.GradeA)
	s.Require().NoError(err)
	s.Len(aGrades, 1)
	_, err = s.results.GetResultsByGrade(s.ctx, "Z")
	s.requireKind(err, apperror.KindInvalidArgument)

	byExam, err := s.results.GetResultsByExam(s.ctx, exam.ID)
	s.Require().NoError(err)
	s.Len(byExam, 3)

	byUser, err := s.results.GetResultsByUser(s.ctx, first.ID)
	s.Require().NoError(err)
	s.Len(byUser, 1)
}
