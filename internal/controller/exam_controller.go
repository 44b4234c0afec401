package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lshigami/examhub/internal/dto"
)

// CreateExamHandler godoc
// @Summary Create an exam
// @Description The date must be in the future and capacity must fit the location.
// @Tags exams
// @Accept json
// @Produce json
// @Param exam body dto.CreateExamRequest true "Exam data"
// @Success 201 {object} dto.ExamResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Organizer or location not found"
// @Router /exams [post]
func (ctrl *Controller) CreateExamHandler(c *gin.Context) {
	var req dto.CreateExamRequest
	if !bindJSON(c, &req) {
		return
	}
	exam, err := ctrl.examSvc.CreateExam(c.Request.Context(), req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to create exam")
		return
	}
	c.JSON(http.StatusCreated, exam)
}

// GetAllExamsHandler godoc
// @Summary List exams
// @Tags exams
// @Produce json
// @Param subject query string false "Subject substring, case-insensitive"
// @Success 200 {array} dto.ExamResponse
// @Router /exams [get]
func (ctrl *Controller) GetAllExamsHandler(c *gin.Context) {
	var (
		exams []dto.ExamResponse
		err   error
	)
	if subject := c.Query("subject"); subject != "" {
		exams, err = ctrl.examSvc.GetExamsBySubject(c.Request.Context(), subject)
	} else {
		exams, err = ctrl.examSvc.GetAllExams(c.Request.Context())
	}
	if err != nil {
		ctrl.respondError(c, err, "Failed to list exams")
		return
	}
	c.JSON(http.StatusOK, exams)
}

// SearchExamsHandler godoc
// @Summary Search exams by subject
// @Tags exams
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {array} dto.ExamResponse
// @Router /exams/search [get]
func (ctrl *Controller) SearchExamsHandler(c *gin.Context) {
	exams, err := ctrl.examSvc.SearchExams(c.Request.Context(), c.Query("q"))
	if err != nil {
		ctrl.respondError(c, err, "Failed to search exams")
		return
	}
	c.JSON(http.StatusOK, exams)
}

// GetUpcomingExamsHandler godoc
// @Summary List exams that have not started, soonest first
// @Tags exams
// @Produce json
// @Success 200 {array} dto.ExamResponse
// @Router /exams/upcoming [get]
func (ctrl *Controller) GetUpcomingExamsHandler(c *gin.Context) {
	exams, err := ctrl.examSvc.GetUpcomingExams(c.Request.Context())
	if err != nil {
		ctrl.respondError(c, err, "Failed to list upcoming exams")
		return
	}
	c.JSON(http.StatusOK, exams)
}

// GetExamsByOrganizerHandler godoc
// @Summary List exams of an organizer
// @Tags exams
// @Produce json
// @Param organizer_id path int true "Organizer ID"
// @Success 200 {array} dto.ExamResponse
// @Failure 404 {object} dto.ErrorResponse "Organizer not found"
// @Router /exams/organizer/{organizer_id} [get]
func (ctrl *Controller) GetExamsByOrganizerHandler(c *gin.Context) {
	organizerID, ok := parseID(c, "organizer_id")
	if !ok {
		return
	}
	exams, err := ctrl.examSvc.GetExamsByOrganizer(c.Request.Context(), organizerID)
	if err != nil {
		ctrl.respondError(c, err, "Failed to list exams by organizer")
		return
	}
	c.JSON(http.StatusOK, exams)
}

// GetExamsByLocationHandler godoc
// @Summary List exams held at a location
// @Tags exams
// @Produce json
// @Param location_id path int true "Location ID"
// @Success 200 {array} dto.ExamResponse
// @Failure 404 {object} dto.ErrorResponse "Location not found"
// @Router /exams/location/{location_id} [get]
func (ctrl *Controller) GetExamsByLocationHandler(c *gin.Context) {
	locationID, ok := parseID(c, "location_id")
	if !ok {
		return
	}
	exams, err := ctrl.examSvc.GetExamsByLocation(c.Request.Context(), locationID)
	if err != nil {
		ctrl.respondError(c, err, "Failed to list exams by location")
		return
	}
	c.JSON(http.StatusOK, exams)
}

// GetExamHandler godoc
// @Summary Get an exam by ID
// @Tags exams
// @Produce json
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.ExamResponse
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{id} [get]
func (ctrl *Controller) GetExamHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	exam, err := ctrl.examSvc.GetExam(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err, "Failed to get exam")
		return
	}
	c.JSON(http.StatusOK, exam)
}

// CheckExamAvailabilityHandler godoc
// @Summary Check whether an exam still takes registrations
// @Tags exams
// @Produce json
// @Param id path int true "Exam ID"
// @Success 200 {object} dto.AvailabilityResponse
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{id}/availability [get]
func (ctrl *Controller) CheckExamAvailabilityHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	available, err := ctrl.examSvc.CheckAvailability(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err, "Failed to check exam availability")
		return
	}
	c.JSON(http.StatusOK, dto.AvailabilityResponse{Available: available})
}

// UpdateExamHandler godoc
// @Summary Update an exam
// @Description The registration counter is maintained by the server and cannot be set.
// @Tags exams
// @Accept json
// @Produce json
// @Param id path int true "Exam ID"
// @Param exam body dto.UpdateExamRequest true "Fields to change"
// @Success 200 {object} dto.ExamResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{id} [put]
func (ctrl *Controller) UpdateExamHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateExamRequest
	if !bindJSON(c, &req) {
		return
	}
	exam, err := ctrl.examSvc.UpdateExam(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to update exam")
		return
	}
	c.JSON(http.StatusOK, exam)
}

// DeleteExamHandler godoc
// @Summary Delete an exam without active registrations
// @Tags exams
// @Param id path int true "Exam ID"
// @Success 204 "Exam deleted"
// @Failure 400 {object} dto.ErrorResponse "Exam has active registrations"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{id} [delete]
func (ctrl *Controller) DeleteExamHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.examSvc.DeleteExam(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err, "Failed to delete exam")
		return
	}
	c.Status(http.StatusNoContent)
}
