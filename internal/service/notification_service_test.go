package service_test

import (
	"github.com/lshigami/examhub/internal/apperror"
	"github.com/lshigami/examhub/internal/dto"
	"github.com/lshigami/examhub/internal/model"
)

func (s *ServiceSuite) TestNotificationLifecycle() {
	student := s.newUser(model.RoleStudent)
	exam := s.newExam(examOpts{})

	n, err := s.notifications.CreateNotification(s.ctx, dto.CreateNotificationRequest{
		UserID: student.ID, ExamID: &exam.ID, Type: model.NotificationReminder, Message: "Exam starts tomorrow",
	})
	s.Require().NoError(err)
	s.Equal(model.NotificationReminder, n.Type)

	general, err := s.notifications.CreateNotification(s.ctx, dto.CreateNotificationRequest{
		UserID: student.ID, Type: model.NotificationReminder, Message: "Profile incomplete",
	})
	s.Require().NoError(err)
	s.Nil(general.ExamID)

	updated, err := s.notifications.UpdateNotification(s.ctx, n.ID, dto.UpdateNotificationRequest{Message: ptr("Exam starts in one hour")})
	s.Require().NoError(err)
	s.Equal("Exam starts in one hour", updated.Message)

	mine, err := s.notifications.GetNotificationsByUser(s.ctx, student.ID)
	s.Require().NoError(err)
	s.Len(mine, 2)

	s.Require().NoError(s.notifications.DeleteNotification(s.ctx, n.ID))
	_, err = s.notifications.GetNotification(s.ctx, n.ID)
	s.requireKind(err, apperror.KindNotFound)
}

func (s *ServiceSuite) TestCreateNotificationValidation() {
	student := s.newUser(model.RoleStudent)

	tests := []struct {
		name string
		req  dto.CreateNotificationRequest
		kind apperror.Kind
	}{
		{"unknown user", dto.CreateNotificationRequest{UserID: 999, Type: model.NotificationReminder, Message: "hi"}, apperror.KindNotFound},
		{"unknown exam", dto.CreateNotificationRequest{UserID: student.ID, ExamID: ptr(uint(999)), Type: model.NotificationReminder, Message: "hi"}, apperror.KindNotFound},
		{"bad type", dto.CreateNotificationRequest{UserID: student.ID, Type: "sms", Message: "hi"}, apperror.KindInvalidArgument},
		{"blank message", dto.CreateNotificationRequest{UserID: student.ID, Type: model.NotificationReminder, Message: " "}, apperror.KindInvalidArgument},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.notifications.CreateNotification(s.ctx, tt.req)
			s.requireKind(err, tt.kind)
		})
	}

	_, err := s.notifications.GetNotificationsByUser(s.ctx, 999)
	s.requireKind(err, apperror.KindNotFound)
}
