package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lshigami/examhub/internal/dto"
)

// CreateAnalyticHandler godoc
// @Summary Store an analytics record by hand
// @Tags analytics
// @Accept json
// @Produce json
// @Param analytic body dto.CreateAnalyticRequest true "Analytics data"
// @Success 201 {object} dto.AnalyticResponse
// @Failure 400 {object} dto.ErrorResponse "Inconsistent totals or record exists"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /analytics [post]
func (ctrl *Controller) CreateAnalyticHandler(c *gin.Context) {
	var req dto.CreateAnalyticRequest
	if !bindJSON(c, &req) {
		return
	}
	analytic, err := ctrl.analyticSvc.CreateAnalytic(c.Request.Context(), req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to create analytics")
		return
	}
	c.JSON(http.StatusCreated, analytic)
}

// GetAllAnalyticsHandler godoc
// @Summary List analytics records
// @Tags analytics
// @Produce json
// @Success 200 {array} dto.AnalyticResponse
// @Router /analytics [get]
func (ctrl *Controller) GetAllAnalyticsHandler(c *gin.Context) {
	analytics, err := ctrl.analyticSvc.GetAllAnalytics(c.Request.Context())
	if err != nil {
		ctrl.respondError(c, err, "Failed to list analytics")
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// GenerateAnalyticsHandler godoc
// @Summary Recompute analytics for an exam
// @Description Aggregates the exam's registrations and results and replaces any stored record.
// @Tags analytics
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 200 {object} dto.AnalyticResponse
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /analytics/generate/{exam_id} [post]
func (ctrl *Controller) GenerateAnalyticsHandler(c *gin.Context) {
	examID, ok := parseID(c, "exam_id")
	if !ok {
		return
	}
	analytic, err := ctrl.analyticSvc.GenerateExamAnalytics(c.Request.Context(), examID)
	if err != nil {
		ctrl.respondError(c, err, "Failed to generate analytics")
		return
	}
	c.JSON(http.StatusOK, analytic)
}

// GetAnalyticByExamHandler godoc
// @Summary Get the analytics record of an exam
// @Tags analytics
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 200 {object} dto.AnalyticResponse
// @Failure 404 {object} dto.ErrorResponse "No analytics for exam"
// @Router /analytics/exam/{exam_id} [get]
func (ctrl *Controller) GetAnalyticByExamHandler(c *gin.Context) {
	examID, ok := parseID(c, "exam_id")
	if !ok {
		return
	}
	analytic, err := ctrl.analyticSvc.GetAnalyticByExam(c.Request.Context(), examID)
	if err != nil {
		ctrl.respondError(c, err, "Failed to get analytics by exam")
		return
	}
	c.JSON(http.StatusOK, analytic)
}

// GetAnalyticsByScoreHandler godoc
// @Summary List analytics within an inclusive average score range
// @Tags analytics
// @Produce json
// @Param min_score query number false "Minimum average score"
// @Param max_score query number false "Maximum average score"
// @Success 200 {array} dto.AnalyticResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid bounds"
// @Router /analytics/by-score [get]
func (ctrl *Controller) GetAnalyticsByScoreHandler(c *gin.Context) {
	min, ok := optionalFloat(c, "min_score")
	if !ok {
		return
	}
	max, ok := optionalFloat(c, "max_score")
	if !ok {
		return
	}
	analytics, err := ctrl.analyticSvc.GetAnalyticsByScoreRange(c.Request.Context(), min, max)
	if err != nil {
		ctrl.respondError(c, err, "Failed to list analytics by score")
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// GetAnalyticsByRegistrationsHandler godoc
// @Summary List analytics within an inclusive registration count range
// @Tags analytics
// @Produce json
// @Param min_registrations query int false "Minimum registrations"
// @Param max_registrations query int false "Maximum registrations"
// @Success 200 {array} dto.AnalyticResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid bounds"
// @Router /analytics/by-registrations [get]
func (ctrl *Controller) GetAnalyticsByRegistrationsHandler(c *gin.Context) {
	min, ok := optionalInt(c, "min_registrations")
	if !ok {
		return
	}
	max, ok := optionalInt(c, "max_registrations")
	if !ok {
		return
	}
	analytics, err := ctrl.analyticSvc.GetAnalyticsByRegistrationRange(c.Request.Context(), min, max)
	if err != nil {
		ctrl.respondError(c, err, "Failed to list analytics by registrations")
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// GetAnalyticsByPaymentRatioHandler godoc
// @Summary List analytics whose paid share reaches min_ratio
// @Tags analytics
// @Produce json
// @Param min_ratio query number false "Ratio between 0 and 1"
// @Success 200 {array} dto.AnalyticResponse
// @Failure 400 {object} dto.ErrorResponse "Ratio out of range"
// @Router /analytics/by-payment-ratio [get]
func (ctrl *Controller) GetAnalyticsByPaymentRatioHandler(c *gin.Context) {
	ratio, ok := optionalFloat(c, "min_ratio")
	if !ok {
		return
	}
	analytics, err := ctrl.analyticSvc.GetAnalyticsByPaymentRatio(c.Request.Context(), ratio)
	if err != nil {
		ctrl.respondError(c, err, "Failed to list analytics by payment ratio")
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// GetAnalyticHandler godoc
// @Summary Get an analytics record by ID
// @Tags analytics
// @Produce json
// @Param id path int true "Analytics ID"
// @Success 200 {object} dto.AnalyticResponse
// @Failure 404 {object} dto.ErrorResponse "Analytics not found"
// @Router /analytics/{id} [get]
func (ctrl *Controller) GetAnalyticHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	analytic, err := ctrl.analyticSvc.GetAnalytic(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err, "Failed to get analytics")
		return
	}
	c.JSON(http.StatusOK, analytic)
}

// UpdateAnalyticHandler godoc
// @Summary Update an analytics record
// @Tags analytics
// @Accept json
// @Produce json
// @Param id path int true "Analytics ID"
// @Param analytic body dto.UpdateAnalyticRequest true "Fields to change"
// @Success 200 {object} dto.AnalyticResponse
// @Failure 400 {object} dto.ErrorResponse "Inconsistent totals"
// @Failure 404 {object} dto.ErrorResponse "Analytics not found"
// @Router /analytics/{id} [put]
func (ctrl *Controller) UpdateAnalyticHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateAnalyticRequest
	if !bindJSON(c, &req) {
		return
	}
	analytic, err := ctrl.analyticSvc.UpdateAnalytic(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to update analytics")
		return
	}
	c.JSON(http.StatusOK, analytic)
}

// DeleteAnalyticHandler godoc
// @Summary Delete an analytics record
// @Tags analytics
// @Param id path int true "Analytics ID"
// @Success 204 "Analytics deleted"
// @Failure 404 {object} dto.ErrorResponse "Analytics not found"
// @Router /analytics/{id} [delete]
func (ctrl *Controller) DeleteAnalyticHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.analyticSvc.DeleteAnalytic(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err, "Failed to delete analytics")
		return
	}
	c.Status(http.StatusNoContent)
}
