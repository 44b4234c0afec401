package dto

import (
	"time"

	"github.com/lshigami/examhub/internal/model"
	"github.com/shopspring/decimal"
)

// Update requests use pointer fields: a nil field is left unchanged.

type CreateUserRequest struct {
	Username string     `json:"username" binding:"required,min=3,max=50"`
	Email    string     `json:"email" binding:"required,email,max=100"`
	Password string     `json:"password" binding:"required,min=6"`
	Role     model.Role `json:"role" binding:"omitempty,enum"`
}

type UpdateUserRequest struct {
	Username *string     `json:"username,omitempty" binding:"omitempty,min=3,max=50"`
	Email    *string     `json:"email,omitempty" binding:"omitempty,email,max=100"`
	Password *string     `json:"password,omitempty" binding:"omitempty,min=6"`
	Role     *model.Role `json:"role,omitempty" binding:"omitempty,enum"`
}

type CreateLocationRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Address  string `json:"address" binding:"required,max=255"`
	Capacity int    `json:"capacity"`
}

type UpdateLocationRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Address  *string `json:"address,omitempty" binding:"omitempty,max=255"`
	Capacity *int    `json:"capacity,omitempty"`
}

type CreateExamRequest struct {
	Subject     string           `json:"subject" binding:"required,max=100"`
	Date        time.Time        `json:"date" binding:"required"`
	Cost        decimal.Decimal  `json:"cost" swaggertype:"string"`
	Capacity    int              `json:"capacity"`
	OrganizerID uint             `json:"organizer_id" binding:"required"`
	LocationID  uint             `json:"location_id" binding:"required"`
	Status      model.ExamStatus `json:"status,omitempty" binding:"omitempty,enum"`
}

type UpdateExamRequest struct {
	Subject    *string           `json:"subject,omitempty" binding:"omitempty,max=100"`
	Date       *time.Time        `json:"date,omitempty"`
	Cost       *decimal.Decimal  `json:"cost,omitempty" swaggertype:"string"`
	Capacity   *int              `json:"capacity,omitempty"`
	LocationID *uint             `json:"location_id,omitempty"`
	Status     *model.ExamStatus `json:"status,omitempty" binding:"omitempty,enum"`
}

type CreateRegistrationRequest struct {
	UserID uint                     `json:"user_id" binding:"required"`
	ExamID uint                     `json:"exam_id" binding:"required"`
	Status model.RegistrationStatus `json:"status,omitempty" binding:"omitempty,enum"`
}

type UpdateRegistrationRequest struct {
	Status        *model.RegistrationStatus        `json:"status,omitempty" binding:"omitempty,enum"`
	PaymentStatus *model.RegistrationPaymentStatus `json:"payment_status,omitempty" binding:"omitempty,enum"`
}

type CreatePaymentRequest struct {
	UserID      uint                `json:"user_id" binding:"required"`
	ExamID      uint                `json:"exam_id" binding:"required"`
	Amount      decimal.Decimal     `json:"amount" swaggertype:"string"`
	Status      model.PaymentStatus `json:"status,omitempty" binding:"omitempty,enum"`
	PaymentDate *time.Time          `json:"payment_date,omitempty"`
}

type UpdatePaymentRequest struct {
	Status      *model.PaymentStatus `json:"status,omitempty" binding:"omitempty,enum"`
	PaymentDate *time.Time           `json:"payment_date,omitempty"`
}

type CreateResultRequest struct {
	UserID     uint         `json:"user_id" binding:"required"`
	ExamID     uint         `json:"exam_id" binding:"required"`
	Score      *float64     `json:"score,omitempty"`
	Grade      *model.Grade `json:"grade,omitempty" binding:"omitempty,enum"`
	ReleasedAt *time.Time   `json:"released_at,omitempty"`
}

type UpdateResultRequest struct {
	Score      *float64     `json:"score,omitempty"`
	Grade      *model.Grade `json:"grade,omitempty" binding:"omitempty,enum"`
	ReleasedAt *time.Time   `json:"released_at,omitempty"`
}

type CreateAnalyticRequest struct {
	ExamID             uint     `json:"exam_id" binding:"required"`
	TotalRegistrations int      `json:"total_registrations"`
	TotalPaid          int      `json:"total_paid"`
	TotalUnpaid        int      `json:"total_unpaid"`
	AverageScore       *float64 `json:"average_score,omitempty"`
}

type UpdateAnalyticRequest struct {
	TotalRegistrations *int     `json:"total_registrations,omitempty"`
	TotalPaid          *int     `json:"total_paid,omitempty"`
	TotalUnpaid        *int     `json:"total_unpaid,omitempty"`
	AverageScore       *float64 `json:"average_score,omitempty"`
}

type CreateNotificationRequest struct {
	UserID  uint                   `json:"user_id" binding:"required"`
	ExamID  *uint                  `json:"exam_id,omitempty"`
	Type    model.NotificationType `json:"type" binding:"required,enum"`
	Message string                 `json:"message" binding:"required"`
}

type UpdateNotificationRequest struct {
	Type    *model.NotificationType `json:"type,omitempty" binding:"omitempty,enum"`
	Message *string                 `json:"message,omitempty"`
}
