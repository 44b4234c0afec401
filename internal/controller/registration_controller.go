package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lshigami/examhub/internal/dto"
	"github.com/lshigami/examhub/internal/model"
)

// CreateRegistrationHandler godoc
// @Summary Register a user for an exam
// @Description Takes a seat. Rejected for past, inactive or fully booked exams and for users already registered.
// @Tags registrations
// @Accept json
// @Produce json
// @Param registration body dto.CreateRegistrationRequest true "Registration data"
// @Success 201 {object} dto.RegistrationResponse
// @Failure 400 {object} dto.ErrorResponse "Registration rejected"
// @Failure 404 {object} dto.ErrorResponse "User or exam not found"
// @Failure 503 {object} dto.ErrorResponse "Seat lock busy, retry"
// @Router /registrations [post]
func (ctrl *Controller) CreateRegistrationHandler(c *gin.Context) {
	var req dto.CreateRegistrationRequest
	if !bindJSON(c, &req) {
		return
	}
	registration, err := ctrl.registrationSvc.CreateRegistration(c.Request.Context(), req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to create registration")
		return
	}
	c.JSON(http.StatusCreated, registration)
}

// GetAllRegistrationsHandler godoc
// @Summary List registrations
// @Tags registrations
// @Produce json
// @Success 200 {array} dto.RegistrationResponse
// @Router /registrations [get]
func (ctrl *Controller) GetAllRegistrationsHandler(c *gin.Context) {
	registrations, err := ctrl.registrationSvc.GetAllRegistrations(c.Request.Context())
	if err != nil {
		ctrl.respondError(c, err, "Failed to list registrations")
		return
	}
	c.JSON(http.StatusOK, registrations)
}

// GetRegistrationsByUserHandler godoc
// @Summary List registrations of a user
// @Tags registrations
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {array} dto.RegistrationResponse
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /registrations/user/{user_id} [get]
func (ctrl *Controller) GetRegistrationsByUserHandler(c *gin.Context) {
	userID, ok := parseID(c, "user_id")
	if !ok {
		return
	}
	registrations, err := ctrl.registrationSvc.GetRegistrationsByUser(c.Request.Context(), userID)
	if err != nil {
		ctrl.respondError(c, err, "Failed to list registrations by user")
		return
	}
	c.JSON(http.StatusOK, registrations)
}

// GetRegistrationsByExamHandler godoc
// @Summary List registrations for an exam
// @Tags registrations
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 200 {array} dto.RegistrationResponse
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /registrations/exam/{exam_id} [get]
func (ctrl *Controller) GetRegistrationsByExamHandler(c *gin.Context) {
	examID, ok := parseID(c, "exam_id")
	if !ok {
		return
	}
	registrations, err := ctrl.registrationSvc.GetRegistrationsByExam(c.Request.Context(), examID)
	if err != nil {
		ctrl.respondError(c, err, "Failed to list registrations by exam")
		return
	}
	c.JSON(http.StatusOK, registrations)
}

// GetRegistrationsByStatusHandler godoc
// @Summary List registrations by status
// @Tags registrations
// @Produce json
// @Param status path string true "pending, confirmed or cancelled"
// @Success 200 {array} dto.RegistrationResponse
// @Failure 400 {object} dto.ErrorResponse "Unknown status"
// @Router /registrations/status/{status} [get]
func (ctrl *Controller) GetRegistrationsByStatusHandler(c *gin.Context) {
	status := model.RegistrationStatus(c.Param("status"))
	registrations, err := ctrl.registrationSvc.GetRegistrationsByStatus(c.Request.Context(), status)
	if err != nil {
		ctrl.respondError(c, err, "Failed to list registrations by status")
		return
	}
	c.JSON(http.StatusOK, registrations)
}

// GetRegistrationsByPaymentStatusHandler godoc
// @Summary List registrations by payment status
// @Tags registrations
// @Produce json
// @Param payment_status path string true "unpaid, paid or refunded"
// @Success 200 {array} dto.RegistrationResponse
// @Failure 400 {object} dto.ErrorResponse "Unknown payment status"
// @Router /registrations/payment-status/{payment_status} [get]
func (ctrl *Controller) GetRegistrationsByPaymentStatusHandler(c *gin.Context) {
	status := model.RegistrationPaymentStatus(c.Param("payment_status"))
	registrations, err := ctrl.registrationSvc.GetRegistrationsByPaymentStatus(c.Request.Context(), status)
	if err != nil {
		ctrl.respondError(c, err, "Failed to list registrations by payment status")
		return
	}
	c.JSON(http.StatusOK, registrations)
}

// CheckRegistrationAvailabilityHandler godoc
// @Summary Explain whether a user could register for an exam now
// @Tags registrations
// @Produce json
// @Param user_id query int true "User ID"
// @Param exam_id query int true "Exam ID"
// @Success 200 {object} dto.AvailabilityResponse
// @Failure 404 {object} dto.ErrorResponse "User or exam not found"
// @Router /registrations/check-availability [get]
func (ctrl *Controller) CheckRegistrationAvailabilityHandler(c *gin.Context) {
	userID, ok := requiredQueryID(c, "user_id")
	if !ok {
		return
	}
	examID, ok := requiredQueryID(c, "exam_id")
	if !ok {
		return
	}
	availability, err := ctrl.registrationSvc.CheckAvailability(c.Request.Context(), userID, examID)
	if err != nil {
		ctrl.respondError(c, err, "Failed to check registration availability")
		return
	}
	c.JSON(http.StatusOK, availability)
}

// GetRegistrationHandler godoc
// @Summary Get a registration by ID
// @Tags registrations
// @Produce json
// @Param id path int true "Registration ID"
// @Success 200 {object} dto.RegistrationResponse
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Router /registrations/{id} [get]
func (ctrl *Controller) GetRegistrationHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	registration, err := ctrl.registrationSvc.GetRegistration(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err, "Failed to get registration")
		return
	}
	c.JSON(http.StatusOK, registration)
}

// UpdateRegistrationHandler godoc
// @Summary Update a registration
// @Description Cancelling frees the seat, reactivating takes one again.
// @Tags registrations
// @Accept json
// @Produce json
// @Param id path int true "Registration ID"
// @Param registration body dto.UpdateRegistrationRequest true "Fields to change"
// @Success 200 {object} dto.RegistrationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid change"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Router /registrations/{id} [put]
func (ctrl *Controller) UpdateRegistrationHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateRegistrationRequest
	if !bindJSON(c, &req) {
		return
	}
	registration, err := ctrl.registrationSvc.UpdateRegistration(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to update registration")
		return
	}
	c.JSON(http.StatusOK, registration)
}

// DeleteRegistrationHandler godoc
// @Summary Delete a registration of an upcoming exam
// @Tags registrations
// @Param id path int true "Registration ID"
// @Success 204 "Registration deleted"
// @Failure 400 {object} dto.ErrorResponse "Exam already took place"
// @Failure 404 {object} dto.ErrorResponse "Registration not found"
// @Router /registrations/{id} [delete]
func (ctrl *Controller) DeleteRegistrationHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.registrationSvc.DeleteRegistration(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err, "Failed to delete registration")
		return
	}
	c.Status(http.StatusNoContent)
}
