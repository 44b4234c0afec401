package model

import "time"

type RegistrationStatus string

const (
	RegistrationPending   RegistrationStatus = "pending"
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationCancelled RegistrationStatus = "cancelled"
)

func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationPending, RegistrationConfirmed, RegistrationCancelled:
		return true
	}
	return false
}

type RegistrationPaymentStatus string

const (
	PaymentStatusUnpaid   RegistrationPaymentStatus = "unpaid"
	PaymentStatusPaid     RegistrationPaymentStatus = "paid"
	PaymentStatusRefunded RegistrationPaymentStatus = "refunded"
)

func (s RegistrationPaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPaid, PaymentStatusRefunded:
		return true
	}
	return false
}

// Registration links a user to an exam. Only one non-cancelled registration
// may exist per (user, exam); the partial unique index enforces it.
type Registration struct {
	ID            uint                      `gorm:"primarykey" json:"id"`
	UserID        uint                      `gorm:"not null;uniqueIndex:idx_registrations_active_pair,where:status <> 'cancelled'" json:"user_id"`
	User          *User                     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ExamID        uint                      `gorm:"not null;index;uniqueIndex:idx_registrations_active_pair,where:status <> 'cancelled'" json:"exam_id"`
	Exam          *Exam                     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Status        RegistrationStatus        `gorm:"size:20;not null;default:pending;index" json:"status"`
	PaymentStatus RegistrationPaymentStatus `gorm:"size:20;not null;default:unpaid;index" json:"payment_status"`
	RegisteredAt  time.Time                 `gorm:"not null" json:"registered_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}

func (r *Registration) Active() bool {
	return r.Status != RegistrationCancelled
}
