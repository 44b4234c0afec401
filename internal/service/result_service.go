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
)

type ResultService interface {
	CreateResult(ctx context.Context, req dto.CreateResultRequest) (*dto.ResultResponse, error)
	GetResult(ctx context.Context, id uint) (*dto.ResultResponse, error)
	GetAllResults(ctx context.Context) ([]dto.ResultResponse, error)
	GetResultsByUser(ctx context.Context, userID uint) ([]dto.ResultResponse, error)
	GetResultsByExam(ctx context.Context, examID uint) ([]dto.ResultResponse, error)
	GetResultsByGrade(ctx context.Context, grade model.Grade) ([]dto.ResultResponse, error)
	GetResultsByScoreRange(ctx context.Context, min, max *float64) ([]dto.ResultResponse, error)
	CalculateGrade(score float64) (model.Grade, error)
	UpdateResult(ctx context.Context, id uint, req dto.UpdateResultRequest) (*dto.ResultResponse, error)
	DeleteResult(ctx context.Context, id uint) error
}

type resultService struct {
	resultRepo       repository.ResultRepository
	registrationRepo repository.RegistrationRepository
	examRepo         repository.ExamRepository
	userRepo         repository.UserRepository
	grades           GradeService
	locker           lock.Locker
	metrics          *metrics.Metrics
}

func NewResultService(
	resultRepo repository.ResultRepository,
	registrationRepo repository.RegistrationRepository,
	examRepo repository.ExamRepository,
	userRepo repository.UserRepository,
	grades GradeService,
	locker lock.Locker,
	m *metrics.Metrics,
) ResultService {
	return &resultService{
		resultRepo:       resultRepo,
		registrationRepo: registrationRepo,
		examRepo:         examRepo,
		userRepo:         userRepo,
		grades:           grades,
		locker:           locker,
		metrics:          m,
	}
}

func (s *resultService) CalculateGrade(score float64) (model.Grade, error) {
	if err := validateScore(score); err != nil {
		return "", err
	}
	grade, err := s.grades.CalculateGrade(score)
	if err != nil {
		return "", apperror.InvalidArgument("%s", err.Error())
	}
	return grade, nil
}

// applyScore validates score and grade and fills them on result. When only a
// score is given the grade is derived from it.
func (s *resultService) applyScore(result *model.Result, score *float64, grade *model.Grade) error {
	if score != nil {
		if err := validateScore(*score); err != nil {
			return err
		}
		value := *score
		result.Score = &value
	}
	if grade != nil {
		if err := validateEnum("grade", *grade); err != nil {
			return err
		}
		value := *grade
		result.Grade = &value
		return nil
	}
	if score != nil {
		derived, err := s.CalculateGrade(*score)
		if err != nil {
			return err
		}
		result.Grade = &derived
	}
	return nil
}

func (s *resultService) CreateResult(ctx context.Context, req dto.CreateResultRequest) (*dto.ResultResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		return nil, lookupErr(err, "get user", "user %d not found", req.UserID)
	}
	if _, err := s.examRepo.FindByID(ctx, req.ExamID); err != nil {
		return nil, lookupErr(err, "get exam", "exam %d not found", req.ExamID)
	}

	registration, err := s.registrationRepo.FindActiveByUserAndExam(ctx, req.UserID, req.ExamID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.InvalidArgument("user is not registered for this exam")
		}
		return nil, storageErr(err, "find registration")
	}
	if registration.Status != model.RegistrationConfirmed {
		return nil, apperror.InvalidArgument("registration is not confirmed")
	}

	release, err := acquire(ctx, s.locker, lockKey("result", req.UserID, req.ExamID))
	if err != nil {
		return nil, err
	}
	defer release()

	_, err = s.resultRepo.FindByUserAndExam(ctx, req.UserID, req.ExamID)
	switch {
	case err == nil:
		return nil, apperror.Conflict("result already exists for this user and exam")
	case !errors.Is(err, repository.ErrNotFound):
		return nil, storageErr(err, "find result")
	}

	result := model.Result{UserID: req.UserID, ExamID: req.ExamID, ReleasedAt: req.ReleasedAt}
	if err := s.applyScore(&result, req.Score, req.Grade); err != nil {
		return nil, err
	}

	if err := s.resultRepo.Create(ctx, &result); err != nil {
		return nil, writeErr(err, "create result", "result already exists for this user and exam")
	}

	s.metrics.IncrementCreated("result")
	log.Info().Uint("resultID", result.ID).Uint("userID", req.UserID).Uint("examID", req.ExamID).Msg("Result created")
	return toResponse[dto.ResultResponse](&result), nil
}

func (s *resultService) GetResult(ctx context.Context, id uint) (*dto.ResultResponse, error) {
	result, err := s.resultRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "get result", "result %d not found", id)
	}
	return toResponse[dto.ResultResponse](result), nil
}

func (s *resultService) GetAllResults(ctx context.Context) ([]dto.ResultResponse, error) {
	results, err := s.resultRepo.FindAll(ctx)
	if err != nil {
		return nil, storageErr(err, "list results")
	}
	return toResponses[dto.ResultResponse](results), nil
}

func (s *resultService) GetResultsByUser(ctx context.Context, userID uint) ([]dto.ResultResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, lookupErr(err, "get user", "user %d not found", userID)
	}
	results, err := s.resultRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, storageErr(err, "list results by user")
	}
	return toResponses[dto.ResultResponse](results), nil
}

func (s *resultService) GetResultsByExam(ctx context.Context, examID uint) ([]dto.ResultResponse, error) {
	if _, err := s.examRepo.FindByID(ctx, examID); err != nil {
		return nil, lookupErr(err, "get exam", "exam %d not found", examID)
	}
	results, err := s.resultRepo.FindByExam(ctx, examID)
	if err != nil {
		return nil, storageErr(err, "list results by exam")
	}
	return toResponses[dto.ResultResponse](results), nil
}

func (s *resultService) GetResultsByGrade(ctx context.Context, grade model.Grade) ([]dto.ResultResponse, error) {
	if err := validateEnum("grade", grade); err != nil {
		return nil, err
	}
	results, err := s.resultRepo.FindByGrade(ctx, grade)
	if err != nil {
		return nil, storageErr(err, "list results by grade")
	}
	return toResponses[dto.ResultResponse](results), nil
}

func (s *resultService) GetResultsByScoreRange(ctx context.Context, min, max *float64) ([]dto.ResultResponse, error) {
	if err := validateScoreBounds("score", min, max); err != nil {
		return nil, err
	}
	results, err := s.resultRepo.FindByScoreRange(ctx, min, max)
	if err != nil {
		return nil, storageErr(err, "list results by score")
	}
	return toResponses[dto.ResultResponse](results), nil
}

func (s *resultService) UpdateResult(ctx context.Context, id uint, req dto.UpdateResultRequest) (*dto.ResultResponse, error) {
	result, err := s.resultRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "get result", "result %d not found", id)
	}
	if err := s.applyScore(result, req.Score, req.Grade); err != nil {
		return nil, err
	}
	if req.ReleasedAt != nil {
		result.ReleasedAt = req.ReleasedAt
	}

	if err := s.resultRepo.Update(ctx, result); err != nil {
		return nil, lookupErr(err, "update result", "result %d not found", id)
	}
	log.Info().Uint("resultID", id).Msg("Result updated")
	return toResponse[dto.ResultResponse](result), nil
}

func (s *resultService) DeleteResult(ctx context.Context, id uint) error {
	if err := s.resultRepo.Delete(ctx, id); err != nil {
		return lookupErr(err, "delete result", "result %d not found", id)
	}
	log.Info().Uint("resultID", id).Msg("Result deleted")
	return nil
}
