package service

import (
	"context"
	"errors"

	"github.com/lshigami/examhub/internal/apperror"
	"github.com/lshigami/examhub/internal/dto"
	"github.com/lshigami/examhub/internal/lock"
	"github.com/lshigami/examhub/internal/metrics"
	"github.com/lshigami/examhub/internal/model"
	"github.com/lshigami/examhub/internal/repository"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentService interface {
	CreatePayment(ctx context.Context, req dto.CreatePaymentRequest) (*dto.PaymentResponse, error)
	GetPayment(ctx context.Context, id uint) (*dto.PaymentResponse, error)
	GetAllPayments(ctx context.Context) ([]dto.PaymentResponse, error)
	GetPaymentsByUser(ctx context.Context, userID uint) ([]dto.PaymentResponse, error)
	GetPaymentsByExam(ctx context.Context, examID uint) ([]dto.PaymentResponse, error)
	GetPaymentsByStatus(ctx context.Context, status model.PaymentStatus) ([]dto.PaymentResponse, error)
	GetPaymentsByAmountRange(ctx context.Context, min, max *decimal.Decimal) ([]dto.PaymentResponse, error)
	UpdatePayment(ctx context.Context, id uint, req dto.UpdatePaymentRequest) (*dto.PaymentResponse, error)
	ProcessRefund(ctx context.Context, id uint) (*dto.PaymentResponse, error)
	DeletePayment(ctx context.Context, id uint) error
}

type paymentService struct {
	paymentRepo      repository.PaymentRepository
	registrationRepo repository.RegistrationRepository
	examRepo         repository.ExamRepository
	userRepo         repository.UserRepository
	locker           lock.Locker
	clock            Clock
	metrics          *metrics.Metrics
	db               *gorm.DB
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	registrationRepo repository.RegistrationRepository,
	examRepo repository.ExamRepository,
	userRepo repository.UserRepository,
	locker lock.Locker,
	clock Clock,
	m *metrics.Metrics,
	db *gorm.DB,
) PaymentService {
	return &paymentService{
		paymentRepo:      paymentRepo,
		registrationRepo: registrationRepo,
		examRepo:         examRepo,
		userRepo:         userRepo,
		locker:           locker,
		clock:            clock,
		metrics:          m,
		db:               db,
	}
}

// registrationStatusFor is the registration payment status a payment status
// implies, if any.
func registrationStatusFor(status model.PaymentStatus) (model.RegistrationPaymentStatus, bool) {
	switch status {
	case model.PaymentCompleted:
		return model.PaymentStatusPaid, true
	case model.PaymentRefunded:
		return model.PaymentStatusRefunded, true
	}
	return "", false
}

// syncRegistration mirrors the payment status onto the user's active
// registration. A missing registration leaves nothing to sync.
func syncRegistration(ctx context.Context, repo repository.RegistrationRepository, payment *model.Payment) error {
	target, ok := registrationStatusFor(payment.Status)
	if !ok {
		return nil
	}
	registration, err := repo.FindActiveByUserAndExam(ctx, payment.UserID, payment.ExamID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Warn().Uint("paymentID", payment.ID).Msg("No active registration to sync payment status onto")
		return nil
	}
	if err != nil {
		return storageErr(err, "find registration for payment")
	}
	if err := repo.SetPaymentStatus(ctx, registration.ID, target); err != nil {
		return storageErr(err, "sync registration payment status")
	}
	return nil
}

func (s *paymentService) CreatePayment(ctx context.Context, req dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		return nil, lookupErr(err, "get user", "user %d not found", req.UserID)
	}
	exam, err := s.examRepo.FindByID(ctx, req.ExamID)
	if err != nil {
		return nil, lookupErr(err, "get exam", "exam %d not found", req.ExamID)
	}
	if _, err := s.registrationRepo.FindActiveByUserAndExam(ctx, req.UserID, req.ExamID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.InvalidArgument("user is not registered for this exam")
		}
		return nil, storageErr(err, "find registration")
	}

	release, err := acquire(ctx, s.locker, lockKey("payment", req.UserID, req.ExamID))
	if err != nil {
		return nil, err
	}
	defer release()

	_, err = s.paymentRepo.FindByUserAndExam(ctx, req.UserID, req.ExamID)
	switch {
	case err == nil:
		return nil, apperror.Conflict("payment already exists for this registration")
	case !errors.Is(err, repository.ErrNotFound):
		return nil, storageErr(err, "find payment")
	}

	if !req.Amount.Equal(exam.Cost) {
		return nil, apperror.InvalidArgument("payment amount must be equal to exam cost: %s", exam.Cost.StringFixed(2))
	}

	status := req.Status
	if status == "" {
		status = model.PaymentPending
	}
	if err := validateEnum("payment status", status); err != nil {
		return nil, err
	}
	if status == model.PaymentRefunded {
		return nil, apperror.InvalidArgument("a new payment cannot be refunded")
	}

	payment := model.Payment{
		UserID:      req.UserID,
		ExamID:      req.ExamID,
		Amount:      exam.Cost,
		Status:      status,
		PaymentDate: req.PaymentDate,
	}
	if status == model.PaymentCompleted && payment.PaymentDate == nil {
		now := s.clock.Now()
		payment.PaymentDate = &now
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.paymentRepo.WithTx(tx).Create(ctx, &payment); err != nil {
			return writeErr(err, "create payment", "payment already exists for this registration")
		}
		return syncRegistration(ctx, s.registrationRepo.WithTx(tx), &payment)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementCreated("payment")
	log.Info().Uint("paymentID", payment.ID).Str("amount", payment.Amount.String()).Str("status", string(payment.Status)).Msg("Payment created")
	return toResponse[dto.PaymentResponse](&payment), nil
}

func (s *paymentService) GetPayment(ctx context.Context, id uint) (*dto.PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "get payment", "payment %d not found", id)
	}
	return toResponse[dto.PaymentResponse](payment), nil
}

func (s *paymentService) GetAllPayments(ctx context.Context) ([]dto.PaymentResponse, error) {
	payments, err := s.paymentRepo.FindAll(ctx)
	if err != nil {
		return nil, storageErr(err, "list payments")
	}
	return toResponses[dto.PaymentResponse](payments), nil
}

func (s *paymentService) GetPaymentsByUser(ctx context.Context, userID uint) ([]dto.PaymentResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, lookupErr(err, "get user", "user %d not found", userID)
	}
	payments, err := s.paymentRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, storageErr(err, "list payments by user")
	}
	return toResponses[dto.PaymentResponse](payments), nil
}

func (s *paymentService) GetPaymentsByExam(ctx context.Context, examID uint) ([]dto.PaymentResponse, error) {
	if _, err := s.examRepo.FindByID(ctx, examID); err != nil {
		return nil, lookupErr(err, "get exam", "exam %d not found", examID)
	}
	payments, err := s.paymentRepo.FindByExam(ctx, examID)
	if err != nil {
		return nil, storageErr(err, "list payments by exam")
	}
	return toResponses[dto.PaymentResponse](payments), nil
}

func (s *paymentService) GetPaymentsByStatus(ctx context.Context, status model.PaymentStatus) ([]dto.PaymentResponse, error) {
	if err := validateEnum("payment status", status); err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.FindByStatus(ctx, status)
	if err != nil {
		return nil, storageErr(err, "list payments by status")
	}
	return toResponses[dto.PaymentResponse](payments), nil
}

func (s *paymentService) GetPaymentsByAmountRange(ctx context.Context, min, max *decimal.Decimal) ([]dto.PaymentResponse, error) {
	if err := validateAmountBounds(min, max); err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.FindByAmountRange(ctx, min, max)
	if err != nil {
		return nil, storageErr(err, "list payments by amount")
	}
	return toResponses[dto.PaymentResponse](payments), nil
}

// UpdatePayment persists the new status and, for completed or refunded
// payments, the matching registration payment status in one transaction.
func (s *paymentService) UpdatePayment(ctx context.Context, id uint, req dto.UpdatePaymentRequest) (*dto.PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "get payment", "payment %d not found", id)
	}

	previous := payment.Status
	if req.Status != nil {
		if err := validateEnum("payment status", *req.Status); err != nil {
			return nil, err
		}
		if previous == model.PaymentCompleted && *req.Status != model.PaymentCompleted {
			return nil, apperror.InvalidArgument("completed payments can only change through a refund")
		}
		payment.Status = *req.Status
	}
	if req.PaymentDate != nil {
		payment.PaymentDate = req.PaymentDate
	}
	if payment.Status == model.PaymentCompleted && previous != model.PaymentCompleted && payment.PaymentDate == nil {
		now := s.clock.Now()
		payment.PaymentDate = &now
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.paymentRepo.WithTx(tx).Update(ctx, payment); err != nil {
			return lookupErr(err, "update payment", "payment %d not found", id)
		}
		if payment.Status == previous {
			return nil
		}
		return syncRegistration(ctx, s.registrationRepo.WithTx(tx), payment)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("paymentID", id).Str("status", string(payment.Status)).Msg("Payment updated")
	return toResponse[dto.PaymentResponse](payment), nil
}

func (s *paymentService) ProcessRefund(ctx context.Context, id uint) (*dto.PaymentResponse, error) {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "get payment", "payment %d not found", id)
	}
	if payment.Status != model.PaymentCompleted {
		return nil, apperror.InvalidArgument("only completed payments can be refunded")
	}

	payment.Status = model.PaymentRefunded
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.paymentRepo.WithTx(tx).Update(ctx, payment); err != nil {
			return lookupErr(err, "refund payment", "payment %d not found", id)
		}
		return syncRegistration(ctx, s.registrationRepo.WithTx(tx), payment)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("paymentID", id).Str("amount", payment.Amount.String()).Msg("Payment refunded")
	return toResponse[dto.PaymentResponse](payment), nil
}

func (s *paymentService) DeletePayment(ctx context.Context, id uint) error {
	payment, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return lookupErr(err, "get payment", "payment %d not found", id)
	}
	if payment.Status == model.PaymentCompleted {
		return apperror.InvalidArgument("cannot delete completed payment")
	}
	if err := s.paymentRepo.Delete(ctx, id); err != nil {
		return lookupErr(err, "delete payment", "payment %d not found", id)
	}
	log.Info().Uint("paymentID", id).Msg("Payment deleted")
	return nil
}
