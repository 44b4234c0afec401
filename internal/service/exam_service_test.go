package service_test

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lshigami/examhub/internal/apperror"
	"github.com/lshigami/examhub/internal/dto"
	"github.com/lshigami/examhub/internal/model"
)

func (s *ServiceSuite) examRequest(organizerID, locationID uint) dto.CreateExamRequest {
	return dto.CreateExamRequest{
		Subject:     "Physics",
		Date:        s.future(7),
		Cost:        decimal.RequireFromString("75.50"),
		Capacity:    20,
		OrganizerID: organizerID,
		LocationID:  locationID,
	}
}

func (s *ServiceSuite) TestCreateExamRejectsPastDate() {
	organizer := s.newUser(model.RoleOrganizer)
	loc := s.newLocation(50)

	for _, date := range []time.Time{s.clock.Now(), s.clock.Now().Add(-time.Hour)} {
		req := s.examRequest(organizer.ID, loc.ID)
		req.Date = date
		_, err := s.exams.CreateExam(s.ctx, req)
		s.requireKind(err, apperror.KindInvalidArgument)
	}

	all, err := s.exams.GetAllExams(s.ctx)
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *ServiceSuite) TestCreateExamCapacityAgainstLocation() {
	organizer := s.newUser(model.RoleOrganizer)
	loc := s.newLocation(50)

	req := s.examRequest(organizer.ID, loc.ID)
	req.Capacity = 51
	_, err := s.exams.CreateExam(s.ctx, req)
	s.requireKind(err, apperror.KindInvalidArgument)

	req.Capacity = 0
	_, err = s.exams.CreateExam(s.ctx, req)
	s.requireKind(err, apperror.KindInvalidArgument)

	req.Capacity = 50
	exam, err := s.exams.CreateExam(s.ctx, req)
	s.Require().NoError(err)
	s.Equal(50, exam.Capacity)
	s.Equal(0, exam.CurrentRegistrations)
	s.Equal(model.ExamStatusActive, exam.Status)
	s.True(decimal.RequireFromString("75.50").Equal(exam.Cost))
}

func (s *ServiceSuite) TestCreateExamValidation() {
	organizer := s.newUser(model.RoleOrganizer)
	loc := s.newLocation(50)

	tests := []struct {
		name   string
		mutate func(*dto.CreateExamRequest)
		kind   apperror.Kind
	}{
		{"unknown location", func(r *dto.CreateExamRequest) { r.LocationID = 999 }, apperror.KindNotFound},
		{"unknown organizer", func(r *dto.CreateExamRequest) { r.OrganizerID = 999 }, apperror.KindNotFound},
		{"zero cost", func(r *dto.CreateExamRequest) { r.Cost = decimal.Zero }, apperror.KindInvalidArgument},
		{"negative cost", func(r *dto.CreateExamRequest) { r.Cost = decimal.NewFromInt(-1) }, apperror.KindInvalidArgument},
		{"blank subject", func(r *dto.CreateExamRequest) { r.Subject = "  " }, apperror.KindInvalidArgument},
		{"bad status", func(r *dto.CreateExamRequest) { r.Status = "archived" }, apperror.KindInvalidArgument},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := s.examRequest(organizer.ID, loc.ID)
			tt.mutate(&req)
			_, err := s.exams.CreateExam(s.ctx, req)
			s.requireKind(err, tt.kind)
		})
	}
}

func (s *ServiceSuite) TestExamQueries() {
	organizer := s.newUser(model.RoleOrganizer)
	loc := s.newLocation(50)

	soon := s.examRequest(organizer.ID, loc.ID)
	soon.Date = s.future(2)
	soon.Subject = "Chemistry"
	later := s.examRequest(organizer.ID, loc.ID)
	later.Date = s.future(9)

	latest, err := s.exams.CreateExam(s.ctx, later)
	s.Require().NoError(err)
	first, err := s.exams.CreateExam(s.ctx, soon)
	s.Require().NoError(err)

	upcoming, err := s.exams.GetUpcomingExams(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(upcoming, 2)
	s.Equal(first.ID, upcoming[0].ID)
	s.Equal(latest.ID, upcoming[1].ID)

	s.clock.Advance(5 * 24 * time.Hour)
	upcoming, err = s.exams.GetUpcomingExams(s.ctx)
	s.Require().NoError(err)
	s.Len(upcoming, 1)

	bySubject, err := s.exams.GetExamsBySubject(s.ctx, "chemistry")
	s.Require().NoError(err)
	s.Len(bySubject, 1)

	bySubject, err = s.exams.GetExamsBySubject(s.ctx, "CHEM")
	s.Require().NoError(err)
	s.Require().Len(bySubject, 1)
	s.Equal(first.ID, bySubject[0].ID)

	search, err := s.exams.SearchExams(s.ctx, "PHYS")
	s.Require().NoError(err)
	s.Len(search, 1)

	byOrganizer, err := s.exams.GetExamsByOrganizer(s.ctx, organizer.ID)
	s.Require().NoError(err)
	s.Len(byOrganizer, 2)

	byLocation, err := s.exams.GetExamsByLocation(s.ctx, loc.ID)
	s.Require().NoError(err)
	s.Len(byLocation, 2)

	_, err = s.exams.GetExamsByOrganizer(s.ctx, 999)
	s.requireKind(err, apperror.KindNotFound)
	_, err = s.exams.GetExamsByLocation(s.ctx, 999)
	s.requireKind(err, apperror.KindNotFound)
}

func (s *ServiceSuite) TestExamCheckAvailability() {
	exam := s.newExam(examOpts{capacity: 1, days: 3})

	open, err := s.exams.CheckAvailability(s.ctx, exam.ID)
	s.Require().NoError(err)
	s.True(open)

	s.register(s.newUser(model.RoleStudent).ID, exam.ID)
	open, err = s.exams.CheckAvailability(s.ctx, exam.ID)
	s.Require().NoError(err)
	s.False(open, "fully booked")

	other := s.newExam(examOpts{days: 3})
	_, err = s.exams.UpdateExam(s.ctx, other.ID, dto.UpdateExamRequest{Status: ptr(model.ExamStatusInactive)})
	s.Require().NoError(err)
	open, err = s.exams.CheckAvailability(s.ctx, other.ID)
	s.Require().NoError(err)
	s.False(open, "inactive")

	third := s.newExam(examOpts{days: 3})
	s.clock.Advance(4 * 24 * time.Hour)
	open, err = s.exams.CheckAvailability(s.ctx, third.ID)
	s.Require().NoError(err)
	s.False(open, "in the past")

	_, err = s.exams.CheckAvailability(s.ctx, 999)
	s.requireKind(err, apperror.KindNotFound)
}

func (s *ServiceSuite) TestUpdateExamCapacity() {
	exam := s.newExam(examOpts{capacity: 3})
	s.register(s.newUser(model.RoleStudent).ID, exam.ID)
	s.register(s.newUser(model.RoleStudent).ID, exam.ID)

	_, err := s.exams.UpdateExam(s.ctx, exam.ID, dto.UpdateExamRequest{Capacity: ptr(1)})
	s.requireKind(err, apperror.KindInvalidArgument)

	_, err = s.exams.UpdateExam(s.ctx, exam.ID, dto.UpdateExamRequest{Capacity: ptr(101)})
	s.requireKind(err, apperror.KindInvalidArgument)

	updated, err := s.exams.UpdateExam(s.ctx, exam.ID, dto.UpdateExamRequest{Capacity: ptr(2), Subject: ptr("Algebra")})
	s.Require().NoError(err)
	s.Equal(2, updated.Capacity)
	s.Equal(2, updated.CurrentRegistrations)
	s.Equal("Algebra", updated.Subject)

	small := s.newLocation(1)
	_, err = s.exams.UpdateExam(s.ctx, exam.ID, dto.UpdateExamRequest{LocationID: ptr(small.ID)})
	s.requireKind(err, apperror.KindInvalidArgument)

	_, err = s.exams.UpdateExam(s.ctx, exam.ID, dto.UpdateExamRequest{Date: ptr(s.clock.Now().Add(-time.Minute))})
	s.requireKind(err, apperror.KindInvalidArgument)

	_, err = s.exams.UpdateExam(s.ctx, exam.ID, dto.UpdateExamRequest{Cost: ptr(decimal.Zero)})
	s.requireKind(err, apperror.KindInvalidArgument)
}

func (s *ServiceSuite) TestDeleteExam() {
	exam := s.newExam(examOpts{})
	reg := s.register(s.newUser(model.RoleStudent).ID, exam.ID)

	s.requireKind(s.exams.DeleteExam(s.ctx, exam.ID), apperror.KindConflict)

	_, err := s.registrations.UpdateRegistration(s.ctx, reg.ID, dto.UpdateRegistrationRequest{Status: ptr(model.RegistrationCancelled)})
	s.Require().NoError(err)

	s.Require().NoError(s.exams.DeleteExam(s.ctx, exam.ID))
	_, err = s.exams.GetExam(s.ctx, exam.ID)
	s.requireKind(err, apperror.KindNotFound)
	s.requireKind(s.exams.DeleteExam(s.ctx, exam.ID), apperror.KindNotFound)
}
