package service

import (
	"context"

	"github.com/lshigami/examhub/internal/apperror"
	"github.com/lshigami/examhub/internal/dto"
	"github.com/lshigami/examhub/internal/metrics"
	"github.com/lshigami/examhub/internal/model"
	"github.com/lshigami/examhub/internal/repository"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type ExamService interface {
	CreateExam(ctx context.Context, req dto.CreateExamRequest) (*dto.ExamResponse, error)
	GetExam(ctx context.Context, id uint) (*dto.ExamResponse, error)
	GetAllExams(ctx context.Context) ([]dto.ExamResponse, error)
	GetExamsBySubject(ctx context.Context, subject string) ([]dto.ExamResponse, error)
	GetExamsByOrganizer(ctx context.Context, organizerID uint) ([]dto.ExamResponse, error)
	GetExamsByLocation(ctx context.Context, locationID uint) ([]dto.ExamResponse, error)
	GetUpcomingExams(ctx context.Context) ([]dto.ExamResponse, error)
	SearchExams(ctx context.Context, term string) ([]dto.ExamResponse, error)
	CheckAvailability(ctx context.Context, id uint) (bool, error)
	UpdateExam(ctx context.Context, id uint, req dto.UpdateExamRequest) (*dto.ExamResponse, error)
	DeleteExam(ctx context.Context, id uint) error
}

type examService struct {
	examRepo         repository.ExamRepository
	locationRepo     repository.LocationRepository
	userRepo         repository.UserRepository
	registrationRepo repository.RegistrationRepository
	clock            Clock
	metrics          *metrics.Metrics
}

func NewExamService(
	examRepo repository.ExamRepository,
	locationRepo repository.LocationRepository,
	userRepo repository.UserRepository,
	registrationRepo repository.RegistrationRepository,
	clock Clock,
	m *metrics.Metrics,
) ExamService {
	return &examService{
		examRepo:         examRepo,
		locationRepo:     locationRepo,
		userRepo:         userRepo,
		registrationRepo: registrationRepo,
		clock:            clock,
		metrics:          m,
	}
}

func validateCost(cost decimal.Decimal) error {
	if !cost.IsPositive() {
		return apperror.InvalidArgument("exam cost must be greater than 0")
	}
	return nil
}

func validateExamCapacity(capacity int, location *model.Location) error {
	if capacity > location.Capacity {
		return apperror.InvalidArgument("exam capacity (%d) cannot exceed location capacity (%d)", capacity, location.Capacity)
	}
	if capacity < 1 {
		return apperror.InvalidArgument("exam capacity must be at least 1")
	}
	return nil
}

// CreateExam checks, in order: date in the future, location exists,
// capacity fits the location, cost positive, organizer exists.
func (s *examService) CreateExam(ctx context.Context, req dto.CreateExamRequest) (*dto.ExamResponse, error) {
	if !req.Date.After(s.clock.Now()) {
		return nil, apperror.InvalidArgument("exam date must be in the future")
	}

	location, err := s.locationRepo.FindByID(ctx, req.LocationID)
	if err != nil {
		return nil, lookupErr(err, "get location", "location %d not found", req.LocationID)
	}
	if err := validateExamCapacity(req.Capacity, location); err != nil {
		return nil, err
	}
	if err := validateCost(req.Cost); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.FindByID(ctx, req.OrganizerID); err != nil {
		return nil, lookupErr(err, "get organizer", "organizer %d not found", req.OrganizerID)
	}
	if err := requireText("subject", req.Subject); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.ExamStatusActive
	}
	if err := validateEnum("exam status", status); err != nil {
		return nil, err
	}

	exam := model.Exam{
		Subject:     req.Subject,
		Date:        req.Date.UTC(),
		Cost:        req.Cost,
		Capacity:    req.Capacity,
		Status:      status,
		OrganizerID: req.OrganizerID,
		LocationID:  req.LocationID,
	}
	if err := s.examRepo.Create(ctx, &exam); err != nil {
		return nil, storageErr(err, "create exam")
	}

	s.metrics.IncrementCreated("exam")
	log.Info().Uint("examID", exam.ID).Uint("locationID", exam.LocationID).Time("date", exam.Date).Msg("Exam created")
	return toResponse[dto.ExamResponse](&exam), nil
}

func (s *examService) GetExam(ctx context.Context, id uint) (*dto.ExamResponse, error) {
	exam, err := s.examRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "get exam", "exam %d not found", id)
	}
	return toResponse[dto.ExamResponse](exam), nil
}

func (s *examService) GetAllExams(ctx context.Context) ([]dto.ExamResponse, error) {
	exams, err := s.examRepo.FindAll(ctx)
	if err != nil {
		return nil, storageErr(err, "list exams")
	}
	return toResponses[dto.ExamResponse](exams), nil
}

func (s *examService) GetExamsBySubject(ctx context.Context, subject string) ([]dto.ExamResponse, error) {
	exams, err := s.examRepo.FindBySubject(ctx, subject)
	if err != nil {
		return nil, storageErr(err, "list exams by subject")
	}
	return toResponses[dto.ExamResponse](exams), nil
}

func (s *examService) GetExamsByOrganizer(ctx context.Context, organizerID uint) ([]dto.ExamResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, organizerID); err != nil {
		return nil, lookupErr(err, "get organizer", "organizer %d not found", organizerID)
	}
	exams, err := s.examRepo.FindByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, storageErr(err, "list exams by organizer")
	}
	return toResponses[dto.ExamResponse](exams), nil
}

func (s *examService) GetExamsByLocation(ctx context.Context, locationID uint) ([]dto.ExamResponse, error) {
	if _, err := s.locationRepo.FindByID(ctx, locationID); err != nil {
		return nil, lookupErr(err, "get location", "location %d not found", locationID)
	}
	exams, err := s.examRepo.FindByLocation(ctx, locationID)
	if err != nil {
		return nil, storageErr(err, "list exams by location")
	}
	return toResponses[dto.ExamResponse](exams), nil
}

func (s *examService) GetUpcomingExams(ctx context.Context) ([]dto.ExamResponse, error) {
	exams, err := s.examRepo.FindUpcoming(ctx, s.clock.Now())
	if err != nil {
		return nil, storageErr(err, "list upcoming exams")
	}
	return toResponses[dto.ExamResponse](exams), nil
}

func (s *examService) SearchExams(ctx context.Context, term string) ([]dto.ExamResponse, error) {
	exams, err := s.examRepo.Search(ctx, term)
	if err != nil {
		return nil, storageErr(err, "search exams")
	}
	return toResponses[dto.ExamResponse](exams), nil
}

// CheckAvailability is true while the exam is in the future, active and has
// a free seat.
func (s *examService) CheckAvailability(ctx context.Context, id uint) (bool, error) {
	exam, err := s.examRepo.FindByID(ctx, id)
	if err != nil {
		return false, lookupErr(err, "get exam", "exam %d not found", id)
	}
	return exam.Open(s.clock.Now()), nil
}

func (s *examService) UpdateExam(ctx context.Context, id uint, req dto.UpdateExamRequest) (*dto.ExamResponse, error) {
	exam, err := s.examRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "get exam", "exam %d not found", id)
	}

	if req.Date != nil {
		if !req.Date.After(s.clock.Now()) {
			return nil, apperror.InvalidArgument("exam date must be in the future")
		}
		exam.Date = req.Date.UTC()
	}

	if req.LocationID != nil || req.Capacity != nil {
		locationID := exam.LocationID
		if req.LocationID != nil {
			locationID = *req.LocationID
		}
		capacity := exam.Capacity
		if req.Capacity != nil {
			capacity = *req.Capacity
		}

		location, err := s.locationRepo.FindByID(ctx, locationID)
		if err != nil {
			return nil, lookupErr(err, "get location", "location %d not found", locationID)
		}
		if err := validateExamCapacity(capacity, location); err != nil {
			return nil, err
		}
		if capacity < exam.CurrentRegistrations {
			return nil, apperror.InvalidArgument("exam capacity (%d) cannot be below current registrations (%d)", capacity, exam.CurrentRegistrations)
		}
		exam.LocationID = locationID
		exam.Capacity = capacity
	}

	if req.Cost != nil {
		if err := validateCost(*req.Cost); err != nil {
			return nil, err
		}
		exam.Cost = *req.Cost
	}
	if req.Status != nil {
		if err := validateEnum("exam status", *req.Status); err != nil {
			return nil, err
		}
		exam.Status = *req.Status
	}
	if req.Subject != nil {
		if err := requireText("subject", *req.Subject); err != nil {
			return nil, err
		}
		exam.Subject = *req.Subject
	}

	if err := s.examRepo.Update(ctx, exam); err != nil {
		return nil, lookupErr(err, "update exam", "exam %d not found", id)
	}

	updated, err := s.examRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "reload exam", "exam %d not found", id)
	}
	log.Info().Uint("examID", id).Msg("Exam updated")
	return toResponse[dto.ExamResponse](updated), nil
}

// DeleteExam refuses while active registrations exist. Cancelled
// registrations, payments, results and analytics cascade.
func (s *examService) DeleteExam(ctx context.Context, id uint) error {
	if _, err := s.examRepo.FindByID(ctx, id); err != nil {
		return lookupErr(err, "get exam", "exam %d not found", id)
	}
	n, err := s.registrationRepo.CountActiveByExam(ctx, id)
	if err != nil {
		return storageErr(err, "count active registrations")
	}
	if n > 0 {
		return apperror.Conflict("exam has %d active registration(s) and cannot be deleted", n)
	}
	if err := s.examRepo.Delete(ctx, id); err != nil {
		return lookupErr(err, "delete exam", "exam %d not found", id)
	}
	log.Info().Uint("examID", id).Msg("Exam deleted")
	return nil
}
