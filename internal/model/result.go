package model

import "time"

type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

func (g Grade) Valid() bool {
	switch g {
	case GradeA, GradeB, GradeC, GradeD, GradeF:
		return true
	}
	return false
}

const (
	MinScore = 0.0
	MaxScore = 100.0
)

type Result struct {
	ID         uint       `gorm:"primarykey" json:"id"`
	UserID     uint       `gorm:"not null;uniqueIndex:idx_results_user_exam" json:"user_id"`
	User       *User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ExamID     uint       `gorm:"not null;index;uniqueIndex:idx_results_user_exam" json:"exam_id"`
	Exam       *Exam      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Score      *float64   `gorm:"type:numeric(5,2)" json:"score,omitempty"`
	Grade      *Grade     `gorm:"size:2;index" json:"grade,omitempty"`
	ReleasedAt *time.Time `json:"released_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
