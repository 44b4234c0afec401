package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lshigami/examhub/internal/dto"
)

// CreateNotificationHandler godoc
// @Summary Create a notification
// @Tags notifications
// @Accept json
// @Produce json
// @Param notification body dto.CreateNotificationRequest true "Notification data"
// @Success 201 {object} dto.NotificationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "User or exam not found"
// @Router /notifications [post]
func (ctrl *Controller) CreateNotificationHandler(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if !bindJSON(c, &req) {
		return
	}
	notification, err := ctrl.notificationSvc.CreateNotification(c.Request.Context(), req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to create notification")
		return
	}
	c.JSON(http.StatusCreated, notification)
}

// GetAllNotificationsHandler godoc
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Success 200 {array} dto.NotificationResponse
// @Router /notifications [get]
func (ctrl *Controller) GetAllNotificationsHandler(c *gin.Context) {
	notifications, err := ctrl.notificationSvc.GetAllNotifications(c.Request.Context())
	if err != nil {
		ctrl.respondError(c, err, "Failed to list notifications")
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// GetNotificationsByUserHandler godoc
// @Summary List notifications of a user
// @Tags notifications
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {array} dto.NotificationResponse
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /notifications/user/{user_id} [get]
func (ctrl *Controller) GetNotificationsByUserHandler(c *gin.Context) {
	userID, ok := parseID(c, "user_id")
	if !ok {
		return
	}
	notifications, err := ctrl.notificationSvc.GetNotificationsByUser(c.Request.Context(), userID)
	if err != nil {
		ctrl.respondError(c, err, "Failed to list notifications by user")
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// @Summary Get a notification by ID
// @Tags notifications
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.NotificationResponse
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /notifications/{id} [get]
func (ctrl *Controller) GetNotificationHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	notification, err := ctrl.notificationSvc.GetNotification(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err, "Failed to get notification")
		return
	}
	c.JSON(http.StatusOK, notification)
}

// @Summary Update a notification
// @Tags notifications
// @Accept json
// @Produce json
// @Param id path int true "Notification ID"
// @Param notification body dto.UpdateNotificationRequest true "Fields to change"
// @Success 200 {object} dto.NotificationResponse
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /notifications/{id} [put]
func (ctrl *Controller) UpdateNotificationHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateNotificationRequest
	if !bindJSON(c, &req) {
		return
	}
	notification, err := ctrl.notificationSvc.UpdateNotification(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to update notification")
		return
	}
	c.JSON(http.StatusOK, notification)
}

// @Summary Delete a notification
// @Tags notifications
// @Param id path int true "Notification ID"
// @Success 204 "Notification deleted"
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /notifications/{id} [delete]
func (ctrl *Controller) DeleteNotificationHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.notificationSvc.DeleteNotification(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err, "Failed to delete notification")
		return
	}
	c.Status(http.StatusNoContent)
}
