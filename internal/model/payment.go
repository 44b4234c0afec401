package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

type Payment struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	UserID      uint            `gorm:"not null;uniqueIndex:idx_payments_user_exam" json:"user_id"`
	User        *User           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ExamID      uint            `gorm:"not null;index;uniqueIndex:idx_payments_user_exam" json:"exam_id"`
	Exam        *Exam           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Amount      decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"amount"`
	Status      PaymentStatus   `gorm:"size:20;not null;default:pending;index" json:"status"`
	PaymentDate *time.Time      `json:"payment_date,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
