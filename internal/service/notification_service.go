package service

import (
	"context"

	"github.com/lshigami/examhub/internal/dto"
	"github.com/lshigami/examhub/internal/metrics"
	"github.com/lshigami/examhub/internal/model"
	"github.com/lshigami/examhub/internal/repository"
	"github.com/rs/zerolog/log"
)

type NotificationService interface {
	CreateNotification(ctx context.Context, req dto.CreateNotificationRequest) (*dto.NotificationResponse, error)
	GetNotification(ctx context.Context, id uint) (*dto.NotificationResponse, error)
	GetAllNotifications(ctx context.Context) ([]dto.NotificationResponse, error)
	GetNotificationsByUser(ctx context.Context, userID uint) ([]dto.NotificationResponse, error)
	UpdateNotification(ctx context.Context, id uint, req dto.UpdateNotificationRequest) (*dto.NotificationResponse, error)
	DeleteNotification(ctx context.Context, id uint) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	examRepo         repository.ExamRepository
	metrics          *metrics.Metrics
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	examRepo repository.ExamRepository,
	m *metrics.Metrics,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		examRepo:         examRepo,
		metrics:          m,
	}
}

func (s *notificationService) CreateNotification(ctx context.Context, req dto.CreateNotificationRequest) (*dto.NotificationResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		return nil, lookupErr(err, "get user", "user %d not found", req.UserID)
	}
	if req.ExamID != nil {
		if _, err := s.examRepo.FindByID(ctx, *req.ExamID); err != nil {
			return nil, lookupErr(err, "get exam", "exam %d not found", *req.ExamID)
		}
	}
	if err := validateEnum("notification type", req.Type); err != nil {
		return nil, err
	}
	if err := requireText("message", req.Message); err != nil {
		return nil, err
	}

	notification := model.Notification{
		UserID:  req.UserID,
		ExamID:  req.ExamID,
		Type:    req.Type,
		Message: req.Message,
	}
	if err := s.notificationRepo.Create(ctx, &notification); err != nil {
		return nil, storageErr(err, "create notification")
	}

	s.metrics.IncrementCreated("notification")
	log.Info().Uint("notificationID", notification.ID).Uint("userID", req.UserID).Str("type", string(req.Type)).Msg("Notification created")
	return toResponse[dto.NotificationResponse](&notification), nil
}

func (s *notificationService) GetNotification(ctx context.Context, id uint) (*dto.NotificationResponse, error) {
	notification, err := s.notificationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "get notification", "notification %d not found", id)
	}
	return toResponse[dto.NotificationResponse](notification), nil
}

func (s *notificationService) GetAllNotifications(ctx context.Context) ([]dto.NotificationResponse, error) {
	notifications, err := s.notificationRepo.FindAll(ctx)
	if err != nil {
		return nil, storageErr(err, "list notifications")
	}
	return toResponses[dto.NotificationResponse](notifications), nil
}

func (s *notificationService) GetNotificationsByUser(ctx context.Context, userID uint) ([]dto.NotificationResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, lookupErr(err, "get user", "user %d not found", userID)
	}
	notifications, err := s.notificationRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, storageErr(err, "list notifications by user")
	}
	return toResponses[dto.NotificationResponse](notifications), nil
}

func (s *notificationService) UpdateNotification(ctx context.Context, id uint, req dto.UpdateNotificationRequest) (*dto.NotificationResponse, error) {
	notification, err := s.notificationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "get notification", "notification %d not found", id)
	}
	if req.Type != nil {
		if err := validateEnum("notification type", *req.Type); err != nil {
			return nil, err
		}
		notification.Type = *req.Type
	}
	if req.Message != nil {
		if err := requireText("message", *req.Message); err != nil {
			return nil, err
		}
		notification.Message = *req.Message
	}
	if err := s.notificationRepo.Update(ctx, notification); err != nil {
		return nil, lookupErr(err, "update notification", "notification %d not found", id)
	}
	return toResponse[dto.NotificationResponse](notification), nil
}

func (s *notificationService) DeleteNotification(ctx context.Context, id uint) error {
	if err := s.notificationRepo.Delete(ctx, id); err != nil {
		return lookupErr(err, "delete notification", "notification %d not found", id)
	}
	return nil
}
