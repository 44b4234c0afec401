package model

import "time"

// Analytic is the per-exam summary. TotalPaid + TotalUnpaid always equals
// TotalRegistrations.
type Analytic struct {
	ID                 uint      `gorm:"primarykey" json:"id"`
	ExamID             uint      `gorm:"not null;uniqueIndex" json:"exam_id"`
	Exam               *Exam     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	TotalRegistrations int       `gorm:"not null;default:0" json:"total_registrations"`
	TotalPaid          int       `gorm:"not null;default:0" json:"total_paid"`
	TotalUnpaid        int       `gorm:"not null;default:0" json:"total_unpaid"`
	AverageScore       *float64  `gorm:"type:double precision" json:"average_score,omitempty"`
	ReportGeneratedAt  time.Time `gorm:"not null" json:"report_generated_at"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}
