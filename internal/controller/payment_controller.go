package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lshigami/examhub/internal/dto"
	"github.com/lshigami/examhub/internal/model"
)

// CreatePaymentHandler godoc
// @Summary Record a payment for a registration
// @Description The amount must equal the exam cost. A completed payment marks the registration paid.
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body dto.CreatePaymentRequest true "Payment data"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} dto.ErrorResponse "Payment rejected"
// @Failure 404 {object} dto.ErrorResponse "User or exam not found"
// @Router /payments [post]
func (ctrl *Controller) CreatePaymentHandler(c *gin.Context) {
	var req dto.CreatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, err := ctrl.paymentSvc.CreatePayment(c.Request.Context(), req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to create payment")
		return
	}
	c.JSON(http.StatusCreated, payment)
}

// GetAllPaymentsHandler godoc
// @Summary List payments
// @Tags payments
// @Produce json
// @Success 200 {array} dto.PaymentResponse
// @Router /payments [get]
func (ctrl *Controller) GetAllPaymentsHandler(c *gin.Context) {
	payments, err := ctrl.paymentSvc.GetAllPayments(c.Request.Context())
	if err != nil {
		ctrl.respondError(c, err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, payments)
}

// GetPaymentsByUserHandler godoc
// @Summary List payments of a user
// @Tags payments
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {array} dto.PaymentResponse
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /payments/user/{user_id} [get]
func (ctrl *Controller) GetPaymentsByUserHandler(c *gin.Context) {
	userID, ok := parseID(c, "user_id")
	if !ok {
		return
	}
	payments, err := ctrl.paymentSvc.GetPaymentsByUser(c.Request.Context(), userID)
	if err != nil {
		ctrl.respondError(c, err, "Failed to list payments by user")
		return
	}
	c.JSON(http.StatusOK, payments)
}

// GetPaymentsByExamHandler godoc
// @Summary List payments for an exam
// @Tags payments
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 200 {array} dto.PaymentResponse
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /payments/exam/{exam_id} [get]
func (ctrl *Controller) GetPaymentsByExamHandler(c *gin.Context) {
	examID, ok := parseID(c, "exam_id")
	if !ok {
		return
	}
	payments, err := ctrl.paymentSvc.GetPaymentsByExam(c.Request.Context(), examID)
	if err != nil {
		ctrl.respondError(c, err, "Failed to list payments by exam")
		return
	}
	c.JSON(http.StatusOK, payments)
}

// GetPaymentsByStatusHandler godoc
// @Summary List payments by status
// @Tags payments
// @Produce json
// @Param status path string true "pending, completed, failed or refunded"
// @Success 200 {array} dto.PaymentResponse
// @Failure 400 {object} dto.ErrorResponse "Unknown status"
// @Router /payments/status/{status} [get]
func (ctrl *Controller) GetPaymentsByStatusHandler(c *gin.Context) {
	status := model.PaymentStatus(c.Param("status"))
	payments, err := ctrl.paymentSvc.GetPaymentsByStatus(c.Request.Context(), status)
	if err != nil {
		ctrl.respondError(c, err, "Failed to list payments by status")
		return
	}
	c.JSON(http.StatusOK, payments)
}

// GetPaymentsByAmountRangeHandler godoc
// @Summary List payments within an inclusive amount range
// @Tags payments
// @Produce json
// @Param min query string false "Minimum amount"
// @Param max query string false "Maximum amount"
// @Success 200 {array} dto.PaymentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid bounds"
// @Router /payments/amount-range [get]
func (ctrl *Controller) GetPaymentsByAmountRangeHandler(c *gin.Context) {
	min, ok := optionalDecimal(c, "min")
	if !ok {
		return
	}
	max, ok := optionalDecimal(c, "max")
	if !ok {
		return
	}
	payments, err := ctrl.paymentSvc.GetPaymentsByAmountRange(c.Request.Context(), min, max)
	if err != nil {
		ctrl.respondError(c, err, "Failed to list payments by amount")
		return
	}
	c.JSON(http.StatusOK, payments)
}

// GetPaymentHandler godoc
// @Summary Get a payment by ID
// @Tags payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Router /payments/{id} [get]
func (ctrl *Controller) GetPaymentHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	payment, err := ctrl.paymentSvc.GetPayment(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err, "Failed to get payment")
		return
	}
	c.JSON(http.StatusOK, payment)
}

// UpdatePaymentHandler godoc
// @Summary Update a payment
// @Tags payments
// @Accept json
// @Produce json
// @Param id path int true "Payment ID"
// @Param payment body dto.UpdatePaymentRequest true "Fields to change"
// @Success 200 {object} dto.PaymentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Router /payments/{id} [put]
func (ctrl *Controller) UpdatePaymentHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, err := ctrl.paymentSvc.UpdatePayment(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to update payment")
		return
	}
	c.JSON(http.StatusOK, payment)
}

// RefundPaymentHandler godoc
// @Summary Refund a completed payment
// @Tags payments
// @Produce json
// @Param id path int true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 400 {object} dto.ErrorResponse "Payment is not completed"
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Router /payments/{id}/refund [post]
func (ctrl *Controller) RefundPaymentHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	payment, err := ctrl.paymentSvc.ProcessRefund(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err, "Failed to refund payment")
		return
	}
	c.JSON(http.StatusOK, payment)
}

// DeletePaymentHandler godoc
// @Summary Delete a payment that is not completed
// @Tags payments
// @Param id path int true "Payment ID"
// @Success 204 "Payment deleted"
// @Failure 400 {object} dto.ErrorResponse "Payment is completed"
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Router /payments/{id} [delete]
func (ctrl *Controller) DeletePaymentHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.paymentSvc.DeletePayment(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err, "Failed to delete payment")
		return
	}
	c.Status(http.StatusNoContent)
}
