package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ExamStatus string

const (
	ExamStatusActive    ExamStatus = "active"
	ExamStatusInactive  ExamStatus = "inactive"
	ExamStatusCancelled ExamStatus = "cancelled"
)

func (s ExamStatus) Valid() bool {
	switch s {
	case ExamStatusActive, ExamStatusInactive, ExamStatusCancelled:
		return true
	}
	return false
}

type Exam struct {
	ID       uint            `gorm:"primarykey" json:"id"`
	Subject  string          `gorm:"size:100;not null;index" json:"subject"`
	Date     time.Time       `gorm:"not null;index" json:"date"`
	Cost     decimal.Decimal `gorm:"type:numeric(10,2);not null;check:chk_exams_cost,cost > 0" json:"cost"`
	Capacity int             `gorm:"not null" json:"capacity"`
	// CurrentRegistrations counts registrations whose status is not cancelled.
	// It is only changed through conditional updates inside registration
	// transactions.
	CurrentRegistrations int        `gorm:"not null;default:0" json:"current_registrations"`
	Status               ExamStatus `gorm:"size:20;not null;default:active;index" json:"status"`
	OrganizerID          uint       `gorm:"not null;index" json:"organizer_id"`
	Organizer            *User      `gorm:"foreignKey:OrganizerID;constraint:OnDelete:RESTRICT" json:"-"`
	LocationID           uint       `gorm:"not null;index" json:"location_id"`
	Location             *Location  `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// Open reports whether the exam accepts registrations at now.
func (e *Exam) Open(now time.Time) bool {
	return e.Date.After(now) && e.Status == ExamStatusActive && e.CurrentRegistrations < e.Capacity
}
