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
	"golang.org/x/sync/errgroup"
)

type AnalyticService interface {
	GenerateExamAnalytics(ctx context.Context, examID uint) (*dto.AnalyticResponse, error)
	CreateAnalytic(ctx context.Context, req dto.CreateAnalyticRequest) (*dto.AnalyticResponse, error)
	GetAnalytic(ctx context.Context, id uint) (*dto.AnalyticResponse, error)
	GetAllAnalytics(ctx context.Context) ([]dto.AnalyticResponse, error)
	GetAnalyticByExam(ctx context.Context, examID uint) (*dto.AnalyticResponse, error)
	GetAnalyticsByScoreRange(ctx context.Context, min, max *float64) ([]dto.AnalyticResponse, error)
	GetAnalyticsByRegistrationRange(ctx context.Context, min, max *int) ([]dto.AnalyticResponse, error)
	GetAnalyticsByPaymentRatio(ctx context.Context, minRatio *float64) ([]dto.AnalyticResponse, error)
	UpdateAnalytic(ctx context.Context, id uint, req dto.UpdateAnalyticRequest) (*dto.AnalyticResponse, error)
	DeleteAnalytic(ctx context.Context, id uint) error
}

type analyticService struct {
	analyticRepo     repository.AnalyticRepository
	examRepo         repository.ExamRepository
	registrationRepo repository.RegistrationRepository
	resultRepo       repository.ResultRepository
	locker           lock.Locker
	clock            Clock
	metrics          *metrics.Metrics
}

func NewAnalyticService(
	analyticRepo repository.AnalyticRepository,
	examRepo repository.ExamRepository,
	registrationRepo repository.RegistrationRepository,
	resultRepo repository.ResultRepository,
	locker lock.Locker,
	clock Clock,
	m *metrics.Metrics,
) AnalyticService {
	return &analyticService{
		analyticRepo:     analyticRepo,
		examRepo:         examRepo,
		registrationRepo: registrationRepo,
		resultRepo:       resultRepo,
		locker:           locker,
		clock:            clock,
		metrics:          m,
	}
}

// Summary is the aggregate computed from an exam's registrations and results.
type Summary struct {
	TotalRegistrations int
	TotalPaid          int
	TotalUnpaid        int
	AverageScore       *float64
}

// Summarize counts every registration regardless of status. Only paid
// registrations count as paid. The average ignores results without a score
// and is nil when no result has one.
func Summarize(registrations []model.Registration, results []model.Result) Summary {
	sum := Summary{TotalRegistrations: len(registrations)}
	for _, r := range registrations {
		if r.PaymentStatus == model.PaymentStatusPaid {
			sum.TotalPaid++
		}
	}
	sum.TotalUnpaid = sum.TotalRegistrations - sum.TotalPaid

	var total float64
	var scored int
	for _, r := range results {
		if r.Score == nil {
			continue
		}
		total += *r.Score
		scored++
	}
	if scored > 0 {
		avg := total / float64(scored)
		sum.AverageScore = &avg
	}
	return sum
}

func validateTotals(total, paid, unpaid int, average *float64) error {
	if total < 0 || paid < 0 || unpaid < 0 {
		return apperror.InvalidArgument("registration counts must not be negative")
	}
	if paid+unpaid != total {
		return apperror.InvalidArgument("total_paid + total_unpaid must equal total_registrations")
	}
	if average != nil {
		return validateScore(*average)
	}
	return nil
}

func analyticKey(examID uint) string { return lockKey("analytic", examID) }

// GenerateExamAnalytics recomputes the summary for examID from live data and
// stores it, replacing any previous record.
func (s *analyticService) GenerateExamAnalytics(ctx context.Context, examID uint) (*dto.AnalyticResponse, error) {
	if _, err := s.examRepo.FindByID(ctx, examID); err != nil {
		return nil, lookupErr(err, "get exam", "exam %d not found", examID)
	}

	var (
		registrations []model.Registration
		results       []model.Result
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		registrations, err = s.registrationRepo.FindByExam(gctx, examID)
		return err
	})
	g.Go(func() error {
		var err error
		results, err = s.resultRepo.FindByExam(gctx, examID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storageErr(err, "load exam data for analytics")
	}

	summary := Summarize(registrations, results)

	release, err := acquire(ctx, s.locker, analyticKey(examID))
	if err != nil {
		return nil, err
	}
	defer release()

	analytic, err := s.analyticRepo.FindByExam(ctx, examID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		analytic = &model.Analytic{ExamID: examID}
	case err != nil:
		return nil, storageErr(err, "find analytics")
	}

	analytic.TotalRegistrations = summary.TotalRegistrations
	analytic.TotalPaid = summary.TotalPaid
	analytic.TotalUnpaid = summary.TotalUnpaid
	analytic.AverageScore = summary.AverageScore
	analytic.ReportGeneratedAt = s.clock.Now()

	if analytic.ID == 0 {
		err = s.analyticRepo.Create(ctx, analytic)
	} else {
		err = s.analyticRepo.Update(ctx, analytic)
	}
	if err != nil {
		return nil, writeErr(err, "store analytics", "analytics already exists for this exam")
	}

	s.metrics.IncrementAnalyticsGenerated()
	log.Info().
		Uint("examID", examID).
		Int("registrations", summary.TotalRegistrations).
		Int("paid", summary.TotalPaid).
		Msg("Exam analytics generated")
	return toResponse[dto.AnalyticResponse](analytic), nil
}

func (s *analyticService) CreateAnalytic(ctx context.Context, req dto.CreateAnalyticRequest) (*dto.AnalyticResponse, error) {
	if _, err := s.examRepo.FindByID(ctx, req.ExamID); err != nil {
		return nil, lookupErr(err, "get exam", "exam %d not found", req.ExamID)
	}
	if err := validateTotals(req.TotalRegistrations, req.TotalPaid, req.TotalUnpaid, req.AverageScore); err != nil {
		return nil, err
	}

	release, err := acquire(ctx, s.locker, analyticKey(req.ExamID))
	if err != nil {
		return nil, err
	}
	defer release()

	_, err = s.analyticRepo.FindByExam(ctx, req.ExamID)
	switch {
	case err == nil:
		return nil, apperror.Conflict("analytics already exists for this exam")
	case !errors.Is(err, repository.ErrNotFound):
		return nil, storageErr(err, "find analytics")
	}

	analytic := model.Analytic{
		ExamID:             req.ExamID,
		TotalRegistrations: req.TotalRegistrations,
		TotalPaid:          req.TotalPaid,
		TotalUnpaid:        req.TotalUnpaid,
		AverageScore:       req.AverageScore,
		ReportGeneratedAt:  s.clock.Now(),
	}
	if err := s.analyticRepo.Create(ctx, &analytic); err != nil {
		return nil, writeErr(err, "create analytics", "analytics already exists for this exam")
	}

	s.metrics.IncrementCreated("analytic")
	return toResponse[dto.AnalyticResponse](&analytic), nil
}

func (s *analyticService) GetAnalytic(ctx context.Context, id uint) (*dto.AnalyticResponse, error) {
	analytic, err := s.analyticRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "get analytics", "analytics %d not found", id)
	}
	return toResponse[dto.AnalyticResponse](analytic), nil
}

func (s *analyticService) GetAllAnalytics(ctx context.Context) ([]dto.AnalyticResponse, error) {
	analytics, err := s.analyticRepo.FindAll(ctx)
	if err != nil {
		return nil, storageErr(err, "list analytics")
	}
	return toResponses[dto.AnalyticResponse](analytics), nil
}

func (s *analyticService) GetAnalyticByExam(ctx context.Context, examID uint) (*dto.AnalyticResponse, error) {
	analytic, err := s.analyticRepo.FindByExam(ctx, examID)
	if err != nil {
		return nil, lookupErr(err, "get analytics by exam", "analytics for exam %d not found", examID)
	}
	return toResponse[dto.AnalyticResponse](analytic), nil
}

func (s *analyticService) GetAnalyticsByScoreRange(ctx context.Context, min, max *float64) ([]dto.AnalyticResponse, error) {
	if err := validateScoreBounds("score", min, max); err != nil {
		return nil, err
	}
	analytics, err := s.analyticRepo.FindByScoreRange(ctx, min, max)
	if err != nil {
		return nil, storageErr(err, "list analytics by score")
	}
	return toResponses[dto.AnalyticResponse](analytics), nil
}

func (s *analyticService) GetAnalyticsByRegistrationRange(ctx context.Context, min, max *int) ([]dto.AnalyticResponse, error) {
	if err := validateBounds("registrations", min, max, 0, nil); err != nil {
		return nil, err
	}
	analytics, err := s.analyticRepo.FindByRegistrationRange(ctx, min, max)
	if err != nil {
		return nil, storageErr(err, "list analytics by registrations")
	}
	return toResponses[dto.AnalyticResponse](analytics), nil
}

func (s *analyticService) GetAnalyticsByPaymentRatio(ctx context.Context, minRatio *float64) ([]dto.AnalyticResponse, error) {
	if minRatio != nil && (*minRatio < 0 || *minRatio > 1) {
		return nil, apperror.InvalidArgument("min_ratio must be between 0 and 1")
	}
	analytics, err := s.analyticRepo.FindByPaymentRatio(ctx, minRatio)
	if err != nil {
		return nil, storageErr(err, "list analytics by payment ratio")
	}
	return toResponses[dto.AnalyticResponse](analytics), nil
}

func (s *analyticService) UpdateAnalytic(ctx context.Context, id uint, req dto.UpdateAnalyticRequest) (*dto.AnalyticResponse, error) {
	analytic, err := s.analyticRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "get analytics", "analytics %d not found", id)
	}
	if req.TotalRegistrations != nil {
		analytic.TotalRegistrations = *req.TotalRegistrations
	}
	if req.TotalPaid != nil {
		analytic.TotalPaid = *req.TotalPaid
	}
	if req.TotalUnpaid != nil {
		analytic.TotalUnpaid = *req.TotalUnpaid
	}
	if req.AverageScore != nil {
		analytic.AverageScore = req.AverageScore
	}
	if err := validateTotals(analytic.TotalRegistrations, analytic.TotalPaid, analytic.TotalUnpaid, analytic.AverageScore); err != nil {
		return nil, err
	}

	if err := s.analyticRepo.Update(ctx, analytic); err != nil {
		return nil, lookupErr(err, "update analytics", "analytics %d not found", id)
	}
	return toResponse[dto.AnalyticResponse](analytic), nil
}

func (s *analyticService) DeleteAnalytic(ctx context.Context, id uint) error {
	if err := s.analyticRepo.Delete(ctx, id); err != nil {
		return lookupErr(err, "delete analytics", "analytics %d not found", id)
	}
	log.Info().Uint("analyticID", id).Msg("Analytics deleted")
	return nil
}
