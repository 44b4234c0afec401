package service_test

import (
	"time"

	"github.com/lshigami/examhub/internal/apperror"
	"github.com/lshigami/examhub/internal/dto"
	"github.com/lshigami/examhub/internal/model"
	"github.com/lshigami/examhub/internal/service"
)

func (s *ServiceSuite) TestCreateRegistrationTakesSeatAndNotifies() {
	exam := s.newExam(examOpts{capacity: 2})
	student := s.newUser(model.RoleStudent)

	reg := s.register(student.ID, exam.ID)
	s.Equal(model.RegistrationPending, reg.Status)
	s.Equal(model.PaymentStatusUnpaid, reg.PaymentStatus)
	s.Equal(s.clock.Now(), reg.RegisteredAt)
	s.Equal(1, s.currentRegistrations(exam.ID))

	notes, err := s.notifications.GetNotificationsByUser(s.ctx, student.ID)
	s.Require().NoError(err)
	s.Require().Len(notes, 1)
	s.Equal(model.NotificationRegistration, notes[0].Type)
	s.Require().NotNil(notes[0].ExamID)
	s.Equal(exam.ID, *notes[0].ExamID)
	s.Contains(notes[0].Message, "Mathematics")
}

func (s *ServiceSuite) TestCreateRegistrationRejectsDuplicateActivePair() {
	exam := s.newExam(examOpts{})
	student := s.newUser(model.RoleStudent)
	s.register(student.ID, exam.ID)

	_, err := s.registrations.CreateRegistration(s.ctx, dto.CreateRegistrationRequest{UserID: student.ID, ExamID: exam.ID})
	s.requireKind(err, apperror.KindConflict)
	s.Equal("user is already registered for this exam", apperror.Message(err))
	s.Equal(1, s.currentRegistrations(exam.ID))
}

func (s *ServiceSuite) TestReRegisterAfterCancel() {
	exam := s.newExam(examOpts{})
	student := s.newUser(model.RoleStudent)
	reg := s.register(student.ID, exam.ID)

	_, err := s.registrations.UpdateRegistration(s.ctx, reg.ID, dto.UpdateRegistrationRequest{Status: ptr(model.RegistrationCancelled)})
	s.Require().NoError(err)
	s.Equal(0, s.currentRegistrations(exam.ID))

	again := s.register(student.ID, exam.ID)
	s.NotEqual(reg.ID, again.ID)
	s.Equal(1, s.currentRegistrations(exam.ID))

	_, err = s.registrations.UpdateRegistration(s.ctx, reg.ID, dto.UpdateRegistrationRequest{Status: ptr(model.RegistrationPending)})
	s.requireKind(err, apperror.KindConflict)
	s.Equal(1, s.currentRegistrations(exam.ID))
}

func (s *ServiceSuite) TestCreateRegistrationRejections() {
	student := s.newUser(model.RoleStudent)

	s.Run("unknown user", func() {
		exam := s.newExam(examOpts{})
		_, err := s.registrations.CreateRegistration(s.ctx, dto.CreateRegistrationRequest{UserID: 999, ExamID: exam.ID})
		s.requireKind(err, apperror.KindNotFound)
	})
	s.Run("unknown exam", func() {
		_, err := s.registrations.CreateRegistration(s.ctx, dto.CreateRegistrationRequest{UserID: student.ID, ExamID: 999})
		s.requireKind(err, apperror.KindNotFound)
	})
	s.Run("inactive exam", func() {
		exam := s.newExam(examOpts{})
		_, err := s.exams.UpdateExam(s.ctx, exam.ID, dto.UpdateExamRequest{Status: ptr(model.ExamStatusCancelled)})
		s.Require().NoError(err)
		_, err = s.registrations.CreateRegistration(s.ctx, dto.CreateRegistrationRequest{UserID: student.ID, ExamID: exam.ID})
		s.requireKind(err, apperror.KindInvalidArgument)
		s.Equal("exam is not active", apperror.Message(err))
	})
	s.Run("cancelled on create", func() {
		exam := s.newExam(examOpts{})
		_, err := s.registrations.CreateRegistration(s.ctx, dto.CreateRegistrationRequest{UserID: student.ID, ExamID: exam.ID, Status: model.RegistrationCancelled})
		s.requireKind(err, apperror.KindInvalidArgument)
		s.Equal(0, s.currentRegistrations(exam.ID))
	})
}

func (s *ServiceSuite) TestCreateRegistrationPastExam() {
	exam := s.newExam(examOpts{days: 1})
	s.clock.Advance(48 * time.Hour)

	_, err := s.registrations.CreateRegistration(s.ctx, dto.CreateRegistrationRequest{UserID: s.newUser(model.RoleStudent).ID, ExamID: exam.ID})
	s.requireKind(err, apperror.KindInvalidArgument)
	s.Equal("cannot register for past exam", apperror.Message(err))
}

func (s *ServiceSuite) TestCreateRegistrationFullyBooked() {
	exam := s.newExam(examOpts{capacity: 1})
	s.register(s.newUser(model.RoleStudent).ID, exam.ID)

	_, err := s.registrations.CreateRegistration(s.ctx, dto.CreateRegistrationRequest{UserID: s.newUser(model.RoleStudent).ID, ExamID: exam.ID})
	s.requireKind(err, apperror.KindInvalidArgument)
	s.Equal("exam is fully booked", apperror.Message(err))
	s.Equal(1, s.currentRegistrations(exam.ID))

	all, err := s.registrations.GetRegistrationsByExam(s.ctx, exam.ID)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *ServiceSuite) TestReactivationNeedsFreeSeat() {
	exam := s.newExam(examOpts{capacity: 1})
	first := s.register(s.newUser(model.RoleStudent).ID, exam.ID)
	_, err := s.registrations.UpdateRegistration(s.ctx, first.ID, dto.UpdateRegistrationRequest{Status: ptr(model.RegistrationCancelled)})
	s.Require().NoError(err)

	s.register(s.newUser(model.RoleStudent).ID, exam.ID)

	_, err = s.registrations.UpdateRegistration(s.ctx, first.ID, dto.UpdateRegistrationRequest{Status: ptr(model.RegistrationConfirmed)})
	s.requireKind(err, apperror.KindInvalidArgument)
	s.Equal(1, s.currentRegistrations(exam.ID))

	stored, err := s.registrations.GetRegistration(s.ctx, first.ID)
	s.Require().NoError(err)
	s.Equal(model.RegistrationCancelled, stored.Status)
}

func (s *ServiceSuite) TestUpdateRegistrationPastExam() {
	exam := s.newExam(examOpts{days: 1})
	reg := s.register(s.newUser(model.RoleStudent).ID, exam.ID)
	s.clock.Advance(48 * time.Hour)

	_, err := s.registrations.UpdateRegistration(s.ctx, reg.ID, dto.UpdateRegistrationRequest{Status: ptr(model.RegistrationConfirmed)})
	s.requireKind(err, apperror.KindInvalidArgument)

	updated, err := s.registrations.UpdateRegistration(s.ctx, reg.ID, dto.UpdateRegistrationRequest{PaymentStatus: ptr(model.PaymentStatusPaid)})
	s.Require().NoError(err)
	s.Equal(model.PaymentStatusPaid, updated.PaymentStatus)

	s.requireKind(s.registrations.DeleteRegistration(s.ctx, reg.ID), apperror.KindInvalidArgument)
}

func (s *ServiceSuite) TestDeleteRegistrationFreesSeat() {
	exam := s.newExam(examOpts{})
	active := s.register(s.newUser(model.RoleStudent).ID, exam.ID)
	cancelled := s.register(s.newUser(model.RoleStudent).ID, exam.ID)
	_, err := s.registrations.UpdateRegistration(s.ctx, cancelled.ID, dto.UpdateRegistrationRequest{Status: ptr(model.RegistrationCancelled)})
	s.Require().NoError(err)
	s.Equal(1, s.currentRegistrations(exam.ID))

	s.Require().NoError(s.registrations.DeleteRegistration(s.ctx, cancelled.ID))
	s.Equal(1, s.currentRegistrations(exam.ID))

	s.Require().NoError(s.registrations.DeleteRegistration(s.ctx, active.ID))
	s.Equal(0, s.currentRegistrations(exam.ID))

	s.requireKind(s.registrations.DeleteRegistration(s.ctx, active.ID), apperror.KindNotFound)
}

func (s *ServiceSuite) TestRegistrationCheckAvailability() {
	student := s.newUser(model.RoleStudent)

	s.Run("available", func() {
		exam := s.newExam(examOpts{})
		got, err := s.registrations.CheckAvailability(s.ctx, student.ID, exam.ID)
		s.Require().NoError(err)
		s.Equal(dto.AvailabilityResponse{Available: true, Reason: service.ReasonAvailable}, *got)
	})
	s.Run("already registered wins over full", func() {
		exam := s.newExam(examOpts{capacity: 1})
		s.register(student.ID, exam.ID)
		got, err := s.registrations.CheckAvailability(s.ctx, student.ID, exam.ID)
		s.Require().NoError(err)
		s.False(got.Available)
		s.Equal(service.ReasonAlreadyRegistered, got.Reason)
	})
	s.Run("fully booked", func() {
		exam := s.newExam(examOpts{capacity: 1})
		s.register(s.newUser(model.RoleStudent).ID, exam.ID)
		got, err := s.registrations.CheckAvailability(s.ctx, student.ID, exam.ID)
		s.Require().NoError(err)
		s.Equal(service.ReasonFullyBooked, got.Reason)
	})
	s.Run("not active", func() {
		exam := s.newExam(examOpts{})
		_, err := s.exams.UpdateExam(s.ctx, exam.ID, dto.UpdateExamRequest{Status: ptr(model.ExamStatusInactive)})
		s.Require().NoError(err)
		got, err := s.registrations.CheckAvailability(s.ctx, student.ID, exam.ID)
		s.Require().NoError(err)
		s.Equal(service.ReasonExamNotActive, got.Reason)
	})
	s.Run("missing records", func() {
		exam := s.newExam(examOpts{})
		_, err := s.registrations.CheckAvailability(s.ctx, 999, exam.ID)
		s.requireKind(err, apperror.KindNotFound)
		_, err = s.registrations.CheckAvailability(s.ctx, student.ID, 999)
		s.requireKind(err, apperror.KindNotFound)
	})
}

func (s *ServiceSuite) TestCheckAvailabilityPastExam() {
	exam := s.newExam(examOpts{days: 1})
	s.clock.Advance(48 * time.Hour)

	got, err := s.registrations.CheckAvailability(s.ctx, s.newUser(model.RoleStudent).ID, exam.ID)
	s.Require().NoError(err)
	s.Equal(service.ReasonExamPassed, got.Reason)
}

func (s *ServiceSuite) TestRegistrationFilters() {
	exam := s.newExam(examOpts{})
	student := s.newUser(model.RoleStudent)
	reg := s.register(student.ID, exam.ID)
	s.confirm(reg.ID)
	s.register(s.newUser(model.RoleStudent).ID, exam.ID)

	confirmed, err := s.registrations.GetRegistrationsByStatus(s.ctx, model.RegistrationConfirmed)
	s.Require().NoError(err)
	s.Require().Len(confirmed, 1)
	s.Equal(reg.ID, confirmed[0].ID)

	unpaid, err := s.registrations.GetRegistrationsByPaymentStatus(s.ctx, model.PaymentStatusUnpaid)
	s.Require().NoError(err)
	s.Len(unpaid, 2)

	byUser, err := s.registrations.GetRegistrationsByUser(s.ctx, student.ID)
	s.Require().NoError(err)
	s.Len(byUser, 1)

	_, err = s.registrations.GetRegistrationsByStatus(s.ctx, "waitlisted")
	s.requireKind(err, apperror.KindInvalidArgument)
	_, err = s.registrations.GetRegistrationsByPaymentStatus(s.ctx, "owed")
	s.requireKind(err, apperror.KindInvalidArgument)
	_, err = s.registrations.GetRegistrationsByUser(s.ctx, 999)
	s.requireKind(err, apperror.KindNotFound)
}
