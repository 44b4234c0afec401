package service_test

import (
	"github.com/shopspring/decimal"

	"github.com/lshigami/examhub/internal/apperror"
	"github.com/lshigami/examhub/internal/dto"
	"github.com/lshigami/examhub/internal/model"
)

// registered returns a student registered for a fresh exam costing cost.
func (s *ServiceSuite) registered(cost string) (*dto.UserResponse, *dto.ExamResponse, *dto.RegistrationResponse) {
	exam := s.newExam(examOpts{cost: cost})
	student := s.newUser(model.RoleStudent)
	return student, exam, s.register(student.ID, exam.ID)
}

func (s *ServiceSuite) pay(userID, examID uint, amount string, status model.PaymentStatus) (*dto.PaymentResponse, error) {
	return s.payments.CreatePayment(s.ctx, dto.CreatePaymentRequest{
		UserID: userID, ExamID: examID, Amount: decimal.RequireFromString(amount), Status: status,
	})
}

func (s *ServiceSuite) registrationOf(id uint) *dto.RegistrationResponse {
	reg, err := s.registrations.GetRegistration(s.ctx, id)
	s.Require().NoError(err)
	return reg
}

func (s *ServiceSuite) TestCreatePaymentAmountMustMatchCost() {
	student, exam, _ := s.registered("50.00")

	_, err := s.pay(student.ID, exam.ID, "49.99", "")
	s.requireKind(err, apperror.KindInvalidArgument)
	s.Equal("payment amount must be equal to exam cost: 50.00", apperror.Message(err))

	p, err := s.pay(student.ID, exam.ID, "50", "")
	s.Require().NoError(err)
	s.Equal(model.PaymentPending, p.Status)
	s.Nil(p.PaymentDate)
}

func (s *ServiceSuite) TestCreatePaymentRequiresActiveRegistration() {
	exam := s.newExam(examOpts{})
	student := s.newUser(model.RoleStudent)

	_, err := s.pay(student.ID, exam.ID, "50.00", "")
	s.requireKind(err, apperror.KindInvalidArgument)
	s.Equal("user is not registered for this exam", apperror.Message(err))

	reg := s.register(student.ID, exam.ID)
	_, err = s.registrations.UpdateRegistration(s.ctx, reg.ID, dto.UpdateRegistrationRequest{Status: ptr(model.RegistrationCancelled)})
	s.Require().NoError(err)

	_, err = s.pay(student.ID, exam.ID, "50.00", "")
	s.requireKind(err, apperror.KindInvalidArgument)

	_, err = s.pay(999, exam.ID, "50.00", "")
	s.requireKind(err, apperror.KindNotFound)
	_, err = s.pay(student.ID, 999, "50.00", "")
	s.requireKind(err, apperror.KindNotFound)
}

func (s *ServiceSuite) TestCreatePaymentRejectsSecondPayment() {
	student, exam, _ := s.registered("50.00")
	_, err := s.pay(student.ID, exam.ID, "50.00", "")
	s.Require().NoError(err)

	_, err = s.pay(student.ID, exam.ID, "50.00", "")
	s.requireKind(err, apperror.KindConflict)
	s.Equal("payment already exists for this registration", apperror.Message(err))
}

func (s *ServiceSuite) TestCreatePaymentStatusRules() {
	student, exam, _ := s.registered("50.00")

	_, err := s.pay(student.ID, exam.ID, "50.00", model.PaymentRefunded)
	s.requireKind(err, apperror.KindInvalidArgument)

	_, err = s.pay(student.ID, exam.ID, "50.00", "chargeback")
	s.requireKind(err, apperror.KindInvalidArgument)
}

func (s *ServiceSuite) TestCompletedPaymentMarksRegistrationPaid() {
	student, exam, reg := s.registered("50.00")

	p, err := s.pay(student.ID, exam.ID, "50.00", model.PaymentCompleted)
	s.Require().NoError(err)
	s.Require().NotNil(p.PaymentDate)
	s.Equal(s.clock.Now(), p.PaymentDate.UTC())
	s.Equal(model.PaymentStatusPaid, s.registrationOf(reg.ID).PaymentStatus)

	s.requireKind(s.payments.DeletePayment(s.ctx, p.ID), apperror.KindInvalidArgument)
}

func (s *ServiceSuite) TestUpdatePaymentSyncsRegistration() {
	student, exam, reg := s.registered("50.00")
	p, err := s.pay(student.ID, exam.ID, "50.00", "")
	s.Require().NoError(err)

	failed, err := s.payments.UpdatePayment(s.ctx, p.ID, dto.UpdatePaymentRequest{Status: ptr(model.PaymentFailed)})
	s.Require().NoError(err)
	s.Equal(model.PaymentFailed, failed.Status)
	s.Equal(model.PaymentStatusUnpaid, s.registrationOf(reg.ID).PaymentStatus)

	completed, err := s.payments.UpdatePayment(s.ctx, p.ID, dto.UpdatePaymentRequest{Status: ptr(model.PaymentCompleted)})
	s.Require().NoError(err)
	s.NotNil(completed.PaymentDate)
	s.Equal(model.PaymentStatusPaid, s.registrationOf(reg.ID).PaymentStatus)

	_, err = s.payments.UpdatePayment(s.ctx, 999, dto.UpdatePaymentRequest{})
	s.requireKind(err, apperror.KindNotFound)
}

func (s *ServiceSuite) TestCompletedPaymentStatusIsFixed() {
	student, exam, reg := s.registered("50.00")
	p, err := s.pay(student.ID, exam.ID, "50.00", model.PaymentCompleted)
	s.Require().NoError(err)

	for _, status := range []model.PaymentStatus{model.PaymentFailed, model.PaymentPending, model.PaymentRefunded} {
		_, err := s.payments.UpdatePayment(s.ctx, p.ID, dto.UpdatePaymentRequest{Status: ptr(status)})
		s.requireKind(err, apperror.KindInvalidArgument)
		s.Equal("completed payments can only change through a refund", apperror.Message(err))
	}

	stored, err := s.payments.GetPayment(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(model.PaymentCompleted, stored.Status)
	s.Equal(model.PaymentStatusPaid, s.registrationOf(reg.ID).PaymentStatus)
	s.requireKind(s.payments.DeletePayment(s.ctx, p.ID), apperror.KindInvalidArgument)
}

func (s *ServiceSuite) TestProcessRefund() {
	student, exam, reg := s.registered("50.00")
	p, err := s.pay(student.ID, exam.ID, "50.00", "")
	s.Require().NoError(err)

	_, err = s.payments.ProcessRefund(s.ctx, p.ID)
	s.requireKind(err, apperror.KindInvalidArgument)
	s.Equal("only completed payments can be refunded", apperror.Message(err))

	_, err = s.payments.UpdatePayment(s.ctx, p.ID, dto.UpdatePaymentRequest{Status: ptr(model.PaymentCompleted)})
	s.Require().NoError(err)

	refunded, err := s.payments.ProcessRefund(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(model.PaymentRefunded, refunded.Status)
	s.Equal(model.PaymentStatusRefunded, s.registrationOf(reg.ID).PaymentStatus)

	_, err = s.payments.ProcessRefund(s.ctx, p.ID)
	s.requireKind(err, apperror.KindInvalidArgument)

	s.NoError(s.payments.DeletePayment(s.ctx, p.ID))
	_, err = s.payments.ProcessRefund(s.ctx, p.ID)
	s.requireKind(err, apperror.KindNotFound)
}

func (s *ServiceSuite) TestPaymentQueries() {
	cheapStudent, cheapExam, _ := s.registered("20.00")
	pricyStudent, pricyExam, _ := s.registered("80.00")
	_, err := s.pay(cheapStudent.ID, cheapExam.ID, "20.00", "")
	s.Require().NoError(err)
	_, err = s.pay(pricyStudent.ID, pricyExam.ID, "80.00", model.PaymentCompleted)
	s.Require().NoError(err)

	tests := []struct {
		name     string
		min, max *decimal.Decimal
		want     int
	}{
		{"open range", nil, nil, 2},
		{"min only", ptr(decimal.NewFromInt(50)), nil, 1},
		{"max only", nil, ptr(decimal.NewFromInt(50)), 1},
		{"inclusive edges", ptr(decimal.NewFromInt(20)), ptr(decimal.NewFromInt(80)), 2},
		{"empty", ptr(decimal.NewFromInt(30)), ptr(decimal.NewFromInt(40)), 0},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			got, err := s.payments.GetPaymentsByAmountRange(s.ctx, tt.min, tt.max)
			s.Require().NoError(err)
			s.Len(got, tt.want)
		})
	}

	_, err = s.payments.GetPaymentsByAmountRange(s.ctx, ptr(decimal.NewFromInt(10)), ptr(decimal.NewFromInt(5)))
	s.requireKind(err, apperror.KindInvalidArgument)
	_, err = s.payments.GetPaymentsByAmountRange(s.ctx, ptr(decimal.NewFromInt(-1)), nil)
	s.requireKind(err, apperror.KindInvalidArgument)

	completed, err := s.payments.GetPaymentsByStatus(s.ctx, model.PaymentCompleted)
	s.Require().NoError(err)
	s.Len(completed, 1)

	byUser, err := s.payments.GetPaymentsByUser(s.ctx, cheapStudent.ID)
	s.Require().NoError(err)
	s.Len(byUser, 1)

	byExam, err := s.payments.GetPaymentsByExam(s.ctx, pricyExam.ID)
	s.Require().NoError(err)
	s.Len(byExam, 1)

	_, err = s.payments.GetPaymentsByStatus(s.ctx, "lost")
	s.requireKind(err, apperror.KindInvalidArgument)
}
