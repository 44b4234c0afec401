package service_test

import (
	"github.com/shopspring/decimal"

	"github.com/lshigami/examhub/internal/dto"
	"github.com/lshigami/examhub/internal/model"
)

// TestExamLifecycle walks one exam from creation to analytics.
func (s *ServiceSuite) TestExamLifecycle() {
	organizer := s.newUser(model.RoleOrganizer)
	hall := s.newLocation(30)

	exam, err := s.exams.CreateExam(s.ctx, dto.CreateExamRequest{
		Subject:     "Statistics",
		Date:        s.future(14),
		Cost:        decimal.RequireFromString("120.00"),
		Capacity:    3,
		OrganizerID: organizer.ID,
		LocationID:  hall.ID,
	})
	s.Require().NoError(err)

	students := []*dto.UserResponse{s.newUser(model.RoleStudent), s.newUser(model.RoleStudent), s.newUser(model.RoleStudent)}
	scores := []float64{91, 74, 58}
	for i, st := range students {
		reg := s.register(st.ID, exam.ID)
		s.confirm(reg.ID)
		if i < 2 {
			_, err := s.pay(st.ID, exam.ID, "120.00", model.PaymentCompleted)
			s.Require().NoError(err)
		}
		s.grade(st.ID, exam.ID, scores[i])
	}
	s.Equal(3, s.currentRegistrations(exam.ID))

	open, err := s.exams.CheckAvailability(s.ctx, exam.ID)
	s.Require().NoError(err)
	s.False(open)

	report, err := s.analytics.GenerateExamAnalytics(s.ctx, exam.ID)
	s.Require().NoError(err)
	s.Equal(3, report.TotalRegistrations)
	s.Equal(2, report.TotalPaid)
	s.Equal(1, report.TotalUnpaid)
	s.Require().NotNil(report.AverageScore)
	s.InDelta(223.0/3, *report.AverageScore, 1e-9)

	grades, err := s.results.GetResultsByGrade(s.ctx, model.GradeF)
	s.Require().NoError(err)
	s.Require().Len(grades, 1)
	s.Equal(students[2].ID, grades[0].UserID)

	paid, err := s.registrations.GetRegistrationsByPaymentStatus(s.ctx, model.PaymentStatusPaid)
	s.Require().NoError(err)
	s.Len(paid, 2)
}
