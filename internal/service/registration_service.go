package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lshigami/examhub/internal/apperror"
	"github.com/lshigami/examhub/internal/dto"
	"github.com/lshigami/examhub/internal/lock"
	"github.com/lshigami/examhub/internal/metrics"
	"github.com/lshigami/examhub/internal/model"
	"github.com/lshigami/examhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	ReasonAlreadyRegistered = "Already registered"
	ReasonExamPassed        = "Exam date has passed"
	ReasonExamNotActive     = "Exam is not active"
	ReasonFullyBooked       = "Exam is fully booked"
	ReasonAvailable         = "Registration available"
)

var errFullyBooked = apperror.InvalidArgument("exam is fully booked")

type RegistrationService interface {
	CreateRegistration(ctx context.Context, req dto.CreateRegistrationRequest) (*dto.RegistrationResponse, error)
	GetRegistration(ctx context.Context, id uint) (*dto.RegistrationResponse, error)
	GetAllRegistrations(ctx context.Context) ([]dto.RegistrationResponse, error)
	GetRegistrationsByUser(ctx context.Context, userID uint) ([]dto.RegistrationResponse, error)
	GetRegistrationsByExam(ctx context.Context, examID uint) ([]dto.RegistrationResponse, error)
	GetRegistrationsByStatus(ctx context.Context, status model.RegistrationStatus) ([]dto.RegistrationResponse, error)
	GetRegistrationsByPaymentStatus(ctx context.Context, status model.RegistrationPaymentStatus) ([]dto.RegistrationResponse, error)
	CheckAvailability(ctx context.Context, userID, examID uint) (*dto.AvailabilityResponse, error)
	UpdateRegistration(ctx context.Context, id uint, req dto.UpdateRegistrationRequest) (*dto.RegistrationResponse, error)
	DeleteRegistration(ctx context.Context, id uint) error
}

type registrationService struct {
	registrationRepo repository.RegistrationRepository
	examRepo         repository.ExamRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	locker           lock.Locker
	clock            Clock
	metrics          *metrics.Metrics
	db               *gorm.DB
}

func NewRegistrationService(
	registrationRepo repository.RegistrationRepository,
	examRepo repository.ExamRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	locker lock.Locker,
	clock Clock,
	m *metrics.Metrics,
	db *gorm.DB,
) RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		examRepo:         examRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		locker:           locker,
		clock:            clock,
		metrics:          m,
		db:               db,
	}
}

func registrationKey(userID, examID uint) string {
	return lockKey("registration", userID, examID)
}

func (s *registrationService) loadPair(ctx context.Context, userID, examID uint) (*model.User, *model.Exam, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, nil, lookupErr(err, "get user", "user %d not found", userID)
	}
	exam, err := s.examRepo.FindByID(ctx, examID)
	if err != nil {
		return nil, nil, lookupErr(err, "get exam", "exam %d not found", examID)
	}
	return user, exam, nil
}

// ensureNotRegistered fails when the user already holds an active
// registration for the exam other than exceptID.
func (s *registrationService) ensureNotRegistered(ctx context.Context, repo repository.RegistrationRepository, userID, examID, exceptID uint) error {
	existing, err := repo.FindActiveByUserAndExam(ctx, userID, examID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil
	case err != nil:
		return storageErr(err, "find active registration")
	case existing.ID != exceptID:
		return apperror.Conflict("user is already registered for this exam")
	}
	return nil
}

// CreateRegistration takes a seat and records the registration together with
// a registration notification in one transaction.
func (s *registrationService) CreateRegistration(ctx context.Context, req dto.CreateRegistrationRequest) (*dto.RegistrationResponse, error) {
	_, exam, err := s.loadPair(ctx, req.UserID, req.ExamID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if !exam.Date.After(now) {
		return nil, apperror.InvalidArgument("cannot register for past exam")
	}
	if exam.Status != model.ExamStatusActive {
		return nil, apperror.InvalidArgument("exam is not active")
	}
	if exam.CurrentRegistrations >= exam.Capacity {
		return nil, errFullyBooked
	}

	status := req.Status
	if status == "" {
		status = model.RegistrationPending
	}
	if err := validateEnum("registration status", status); err != nil {
		return nil, err
	}
	if status == model.RegistrationCancelled {
		return nil, apperror.InvalidArgument("a new registration cannot be cancelled")
	}

	release, err := acquire(ctx, s.locker, registrationKey(req.UserID, req.ExamID))
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.ensureNotRegistered(ctx, s.registrationRepo, req.UserID, req.ExamID, 0); err != nil {
		return nil, err
	}

	registration := model.Registration{
		UserID:        req.UserID,
		ExamID:        req.ExamID,
		Status:        status,
		PaymentStatus: model.PaymentStatusUnpaid,
		RegisteredAt:  now,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		taken, err := s.examRepo.WithTx(tx).IncrementRegistrations(ctx, exam.ID)
		if err != nil {
			return storageErr(err, "reserve exam seat")
		}
		if !taken {
			return errFullyBooked
		}
		if err := s.registrationRepo.WithTx(tx).Create(ctx, &registration); err != nil {
			return writeErr(err, "create registration", "user is already registered for this exam")
		}
		examID := exam.ID
		notification := model.Notification{
			UserID:  req.UserID,
			ExamID:  &examID,
			Type:    model.NotificationRegistration,
			Message: fmt.Sprintf("You are registered for %s on %s.", exam.Subject, exam.Date.Format("2006-01-02 15:04 MST")),
		}
		if err := s.notificationRepo.WithTx(tx).Create(ctx, &notification); err != nil {
			return storageErr(err, "create registration notification")
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Uint("userID", req.UserID).Uint("examID", req.ExamID).Msg("Registration rejected")
		return nil, err
	}

	s.metrics.IncrementCreated("registration")
	log.Info().Uint("registrationID", registration.ID).Uint("userID", req.UserID).Uint("examID", req.ExamID).Msg("Registration created")
	return toResponse[dto.RegistrationResponse](&registration), nil
}

func (s *registrationService) GetRegistration(ctx context.Context, id uint) (*dto.RegistrationResponse, error) {
	registration, err := s.registrationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "get registration", "registration %d not found", id)
	}
	return toResponse[dto.RegistrationResponse](registration), nil
}

func (s *registrationService) GetAllRegistrations(ctx context.Context) ([]dto.RegistrationResponse, error) {
	registrations, err := s.registrationRepo.FindAll(ctx)
	if err != nil {
		return nil, storageErr(err, "list registrations")
	}
	return toResponses[dto.RegistrationResponse](registrations), nil
}

func (s *registrationService) GetRegistrationsByUser(ctx context.Context, userID uint) ([]dto.RegistrationResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, lookupErr(err, "get user", "user %d not found", userID)
	}
	registrations, err := s.registrationRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, storageErr(err, "list registrations by user")
	}
	return toResponses[dto.RegistrationResponse](registrations), nil
}

func (s *registrationService) GetRegistrationsByExam(ctx context.Context, examID uint) ([]dto.RegistrationResponse, error) {
	if _, err := s.examRepo.FindByID(ctx, examID); err != nil {
		return nil, lookupErr(err, "get exam", "exam %d not found", examID)
	}
	registrations, err := s.registrationRepo.FindByExam(ctx, examID)
	if err != nil {
		return nil, storageErr(err, "list registrations by exam")
	}
	return toResponses[dto.RegistrationResponse](registrations), nil
}

func (s *registrationService) GetRegistrationsByStatus(ctx context.Context, status model.RegistrationStatus) ([]dto.RegistrationResponse, error) {
	if err := validateEnum("registration status", status); err != nil {
		return nil, err
	}
	registrations, err := s.registrationRepo.FindByStatus(ctx, status)
	if err != nil {
		return nil, storageErr(err, "list registrations by status")
	}
	return toResponses[dto.RegistrationResponse](registrations), nil
}

func (s *registrationService) GetRegistrationsByPaymentStatus(ctx context.Context, status model.RegistrationPaymentStatus) ([]dto.RegistrationResponse, error) {
	if err := validateEnum("payment status", status); err != nil {
		return nil, err
	}
	registrations, err := s.registrationRepo.FindByPaymentStatus(ctx, status)
	if err != nil {
		return nil, storageErr(err, "list registrations by payment status")
	}
	return toResponses[dto.RegistrationResponse](registrations), nil
}

// CheckAvailability explains whether userID could register for examID now.
// Missing users or exams are reported as NotFound rather than a reason.
func (s *registrationService) CheckAvailability(ctx context.Context, userID, examID uint) (*dto.AvailabilityResponse, error) {
	_, exam, err := s.loadPair(ctx, userID, examID)
	if err != nil {
		return nil, err
	}

	_, err = s.registrationRepo.FindActiveByUserAndExam(ctx, userID, examID)
	switch {
	case err == nil:
		return &dto.AvailabilityResponse{Available: false, Reason: ReasonAlreadyRegistered}, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, storageErr(err, "find active registration")
	}

	now := s.clock.Now()
	switch {
	case !exam.Date.After(now):
		return &dto.AvailabilityResponse{Available: false, Reason: ReasonExamPassed}, nil
	case exam.Status != model.ExamStatusActive:
		return &dto.AvailabilityResponse{Available: false, Reason: ReasonExamNotActive}, nil
	case exam.CurrentRegistrations >= exam.Capacity:
		return &dto.AvailabilityResponse{Available: false, Reason: ReasonFullyBooked}, nil
	}
	return &dto.AvailabilityResponse{Available: true, Reason: ReasonAvailable}, nil
}

// UpdateRegistration changes status or payment status. Moving into or out of
// cancelled frees or takes a seat in the same transaction.
func (s *registrationService) UpdateRegistration(ctx context.Context, id uint, req dto.UpdateRegistrationRequest) (*dto.RegistrationResponse, error) {
	registration, err := s.registrationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "get registration", "registration %d not found", id)
	}
	exam, err := s.examRepo.FindByID(ctx, registration.ExamID)
	if err != nil {
		return nil, lookupErr(err, "get exam", "exam %d not found", registration.ExamID)
	}

	wasActive := registration.Active()
	if req.Status != nil {
		if err := validateEnum("registration status", *req.Status); err != nil {
			return nil, err
		}
		if *req.Status != registration.Status && !exam.Date.After(s.clock.Now()) {
			return nil, apperror.InvalidArgument("cannot update registration for past exam")
		}
		registration.Status = *req.Status
	}
	if req.PaymentStatus != nil {
		if err := validateEnum("payment status", *req.PaymentStatus); err != nil {
			return nil, err
		}
		registration.PaymentStatus = *req.PaymentStatus
	}
	reactivating := !wasActive && registration.Active()
	if reactivating && exam.Status != model.ExamStatusActive {
		return nil, apperror.InvalidArgument("exam is not active")
	}

	if reactivating {
		release, err := acquire(ctx, s.locker, registrationKey(registration.UserID, registration.ExamID))
		if err != nil {
			return nil, err
		}
		defer release()
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		examRepo := s.examRepo.WithTx(tx)
		regRepo := s.registrationRepo.WithTx(tx)

		switch {
		case wasActive && !registration.Active():
			if err := examRepo.DecrementRegistrations(ctx, exam.ID); err != nil {
				return storageErr(err, "release exam seat")
			}
		case reactivating:
			if err := s.ensureNotRegistered(ctx, regRepo, registration.UserID, registration.ExamID, registration.ID); err != nil {
				return err
			}
			taken, err := examRepo.IncrementRegistrations(ctx, exam.ID)
			if err != nil {
				return storageErr(err, "reserve exam seat")
			}
			if !taken {
				return errFullyBooked
			}
		}
		if err := regRepo.Update(ctx, registration); err != nil {
			return writeErr(err, "update registration", "user is already registered for this exam")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Uint("registrationID", id).Str("status", string(registration.Status)).Msg("Registration updated")
	return toResponse[dto.RegistrationResponse](registration), nil
}

func (s *registrationService) DeleteRegistration(ctx context.Context, id uint) error {
	registration, err := s.registrationRepo.FindByID(ctx, id)
	if err != nil {
		return lookupErr(err, "get registration", "registration %d not found", id)
	}
	exam, err := s.examRepo.FindByID(ctx, registration.ExamID)
	if err != nil {
		return lookupErr(err, "get exam", "exam %d not found", registration.ExamID)
	}
	if !exam.Date.After(s.clock.Now()) {
		return apperror.InvalidArgument("cannot delete registration for past exam")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.registrationRepo.WithTx(tx).Delete(ctx, id); err != nil {
			return lookupErr(err, "delete registration", "registration %d not found", id)
		}
		if registration.Active() {
			if err := s.examRepo.WithTx(tx).DecrementRegistrations(ctx, exam.ID); err != nil {
				return storageErr(err, "release exam seat")
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info().Uint("registrationID", id).Uint("examID", exam.ID).Msg("Registration deleted")
	return nil
}
