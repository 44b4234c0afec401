package model

import "time"

type NotificationType string

const (
	NotificationRegistration NotificationType = "registration"
	NotificationReminder     NotificationType = "reminder"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationRegistration, NotificationReminder:
		return true
	}
	return false
}

type Notification struct {
	ID        uint             `gorm:"primarykey" json:"id"`
	UserID    uint             `gorm:"not null;index" json:"user_id"`
	User      *User            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ExamID    *uint            `gorm:"index" json:"exam_id,omitempty"`
	Exam      *Exam            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Type      NotificationType `gorm:"size:20;not null" json:"type"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time        `json:"created_at"`
}
