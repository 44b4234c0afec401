package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lshigami/examhub/internal/dto"
	"github.com/lshigami/examhub/internal/model"
)

// CreateResultHandler godoc
// @Summary Record a result
// @Description Requires a confirmed registration. Without a grade it is derived from the score.
// @Tags results
// @Accept json
// @Produce json
// @Param result body dto.CreateResultRequest true "Result data"
// @Success 201 {object} dto.ResultResponse
// @Failure 400 {object} dto.ErrorResponse "Result rejected"
// @Failure 404 {object} dto.ErrorResponse "User or exam not found"
// @Router /results [post]
func (ctrl *Controller) CreateResultHandler(c *gin.Context) {
	var req dto.CreateResultRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := ctrl.resultSvc.CreateResult(c.Request.Context(), req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to create result")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetAllResultsHandler godoc
// @Summary List results
// @Tags results
// @Produce json
// @Success 200 {array} dto.ResultResponse
// @Router /results [get]
func (ctrl *Controller) GetAllResultsHandler(c *gin.Context) {
	results, err := ctrl.resultSvc.GetAllResults(c.Request.Context())
	if err != nil {
		ctrl.respondError(c, err, "Failed to list results")
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetResultsByUserHandler godoc
// @Summary List results of a user
// @Tags results
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {array} dto.ResultResponse
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /results/user/{user_id} [get]
func (ctrl *Controller) GetResultsByUserHandler(c *gin.Context) {
	userID, ok := parseID(c, "user_id")
	if !ok {
		return
	}
	results, err := ctrl.resultSvc.GetResultsByUser(c.Request.Context(), userID)
	if err != nil {
		ctrl.respondError(c, err, "Failed to list results by user")
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetResultsByExamHandler godoc
// @Summary List results of an exam
// @Tags results
// @Produce json
// @Param exam_id path int true "Exam ID"
// @Success 200 {array} dto.ResultResponse
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /results/exam/{exam_id} [get]
func (ctrl *Controller) GetResultsByExamHandler(c *gin.Context) {
	examID, ok := parseID(c, "exam_id")
	if !ok {
		return
	}
	results, err := ctrl.resultSvc.GetResultsByExam(c.Request.Context(), examID)
	if err != nil {
		ctrl.respondError(c, err, "Failed to list results by exam")
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetResultsByGradeHandler godoc
// @Summary List results with a grade
// @Tags results
// @Produce json
// @Param grade path string true "A, B, C, D or F"
// @Success 200 {array} dto.ResultResponse
// @Failure 400 {object} dto.ErrorResponse "Unknown grade"
// @Router /results/grade/{grade} [get]
func (ctrl *Controller) GetResultsByGradeHandler(c *gin.Context) {
	results, err := ctrl.resultSvc.GetResultsByGrade(c.Request.Context(), model.Grade(c.Param("grade")))
	if err != nil {
		ctrl.respondError(c, err, "Failed to list results by grade")
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetResultsByScoreRangeHandler godoc
// @Summary List results within an inclusive score range
// @Tags results
// @Produce json
// @Param min_score query number false "Minimum score"
// @Param max_score query number false "Maximum score"
// @Success 200 {array} dto.ResultResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid bounds"
// @Router /results/score-range [get]
func (ctrl *Controller) GetResultsByScoreRangeHandler(c *gin.Context) {
	min, ok := optionalFloat(c, "min_score")
	if !ok {
		return
	}
	max, ok := optionalFloat(c, "max_score")
	if !ok {
		return
	}
	results, err := ctrl.resultSvc.GetResultsByScoreRange(c.Request.Context(), min, max)
	if err != nil {
		ctrl.respondError(c, err, "Failed to list results by score")
		return
	}
	c.JSON(http.StatusOK, results)
}

// CalculateGradeHandler godoc
// @Summary Convert a score to its letter grade
// @Tags results
// @Produce json
// @Param score query number true "Score between 0 and 100"
// @Success 200 {object} dto.GradeResponse
// @Failure 400 {object} dto.ErrorResponse "Score out of range"
// @Router /results/calculate-grade [get]
func (ctrl *Controller) CalculateGradeHandler(c *gin.Context) {
	score, ok := optionalFloat(c, "score")
	if !ok {
		return
	}
	if score == nil {
		badRequest(c, "score is required")
		return
	}
	grade, err := ctrl.resultSvc.CalculateGrade(*score)
	if err != nil {
		ctrl.respondError(c, err, "Failed to calculate grade")
		return
	}
	c.JSON(http.StatusOK, dto.GradeResponse{Score: *score, Grade: grade})
}

// GetResultHandler godoc
// @Summary Get a result by ID
// @Tags results
// @Produce json
// @Param id path int true "Result ID"
// @Success 200 {object} dto.ResultResponse
// @Failure 404 {object} dto.ErrorResponse "Result not found"
// @Router /results/{id} [get]
func (ctrl *Controller) GetResultHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	result, err := ctrl.resultSvc.GetResult(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err, "Failed to get result")
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateResultHandler godoc
// @Summary Update a result
// @Tags results
// @Accept json
// @Produce json
// @Param id path int true "Result ID"
// @Param result body dto.UpdateResultRequest true "Fields to change"
// @Success 200 {object} dto.ResultResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Result not found"
// @Router /results/{id} [put]
func (ctrl *Controller) UpdateResultHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateResultRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := ctrl.resultSvc.UpdateResult(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to update result")
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteResultHandler godoc
// @Summary Delete a result
// @Tags results
// @Param id path int true "Result ID"
// @Success 204 "Result deleted"
// @Failure 404 {object} dto.ErrorResponse "Result not found"
// @Router /results/{id} [delete]
func (ctrl *Controller) DeleteResultHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.resultSvc.DeleteResult(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err, "Failed to delete result")
		return
	}
	c.Status(http.StatusNoContent)
}
