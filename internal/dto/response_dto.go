package dto

import (
	"time"

	"github.com/lshigami/examhub/internal/model"
	"github.com/shopspring/decimal"
)

type UserResponse struct {
	ID        uint       `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

type LocationResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
}

type ExamResponse struct {
	ID                   uint             `json:"id"`
	Subject              string           `json:"subject"`
	Date                 time.Time        `json:"date"`
	Cost                 decimal.Decimal  `json:"cost" swaggertype:"string"`
	Capacity             int              `json:"capacity"`
	CurrentRegistrations int              `json:"current_registrations"`
	Status               model.ExamStatus `json:"status"`
	OrganizerID          uint             `json:"organizer_id"`
	LocationID           uint             `json:"location_id"`
	CreatedAt            time.Time        `json:"created_at"`
}

type RegistrationResponse struct {
	ID            uint                            `json:"id"`
	UserID        uint                            `json:"user_id"`
	ExamID        uint                            `json:"exam_id"`
	Status        model.RegistrationStatus        `json:"status"`
	PaymentStatus model.RegistrationPaymentStatus `json:"payment_status"`
	RegisteredAt  time.Time                       `json:"registered_at"`
}

type PaymentResponse struct {
	ID          uint                `json:"id"`
	UserID      uint                `json:"user_id"`
	ExamID      uint                `json:"exam_id"`
	Amount      decimal.Decimal     `json:"amount" swaggertype:"string"`
	Status      model.PaymentStatus `json:"status"`
	PaymentDate *time.Time          `json:"payment_date,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

type ResultResponse struct {
	ID         uint         `json:"id"`
	UserID     uint         `json:"user_id"`
	ExamID     uint         `json:"exam_id"`
	Score      *float64     `json:"score,omitempty"`
	Grade      *model.Grade `json:"grade,omitempty"`
	ReleasedAt *time.Time   `json:"released_at,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

type AnalyticResponse struct {
	ID                 uint      `json:"id"`
	ExamID             uint      `json:"exam_id"`
	TotalRegistrations int       `json:"total_registrations"`
	TotalPaid          int       `json:"total_paid"`
	TotalUnpaid        int       `json:"total_unpaid"`
	AverageScore       *float64  `json:"average_score,omitempty"`
	ReportGeneratedAt  time.Time `json:"report_generated_at"`
}

type NotificationResponse struct {
	ID        uint                   `json:"id"`
	UserID    uint                   `json:"user_id"`
	ExamID    *uint                  `json:"exam_id,omitempty"`
	Type      model.NotificationType `json:"type"`
	Message   string                 `json:"message"`
	CreatedAt time.Time              `json:"created_at"`
}

type AvailabilityResponse struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

type GradeResponse struct {
	Score float64     `json:"score"`
	Grade model.Grade `json:"grade"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
