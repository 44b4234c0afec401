package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/lshigami/examhub/internal/apperror"
	"github.com/lshigami/examhub/internal/dto"
	"github.com/lshigami/examhub/internal/metrics"
	"github.com/lshigami/examhub/internal/service"
	"github.com/lshigami/examhub/internal/validation"
)

type Controller struct {
	userSvc         service.UserService
	locationSvc     service.LocationService
	examSvc         service.ExamService
	registrationSvc service.RegistrationService
	paymentSvc      service.PaymentService
	resultSvc       service.ResultService
	analyticSvc     service.AnalyticService
	notificationSvc service.NotificationService
	metrics         *metrics.Metrics
}

func NewController(
	userSvc service.UserService,
	locationSvc service.LocationService,
	examSvc service.ExamService,
	registrationSvc service.RegistrationService,
	paymentSvc service.PaymentService,
	resultSvc service.ResultService,
	analyticSvc service.AnalyticService,
	notificationSvc service.NotificationService,
	m *metrics.Metrics,
) *Controller {
	return &Controller{
		userSvc:         userSvc,
		locationSvc:     locationSvc,
		examSvc:         examSvc,
		registrationSvc: registrationSvc,
		paymentSvc:      paymentSvc,
		resultSvc:       resultSvc,
		analyticSvc:     analyticSvc,
		notificationSvc: notificationSvc,
		metrics:         m,
	}
}

func (ctrl *Controller) RegisterRoutes(router *gin.Engine) {
	apiV1 := router.Group("/api/v1")
	{
		users := apiV1.Group("/users")
		users.POST("", ctrl.CreateUserHandler)
		users.GET("", ctrl.GetAllUsersHandler)
		users.GET("/search", ctrl.SearchUsersHandler)
		users.GET("/username/:username", ctrl.GetUserByUsernameHandler)
		users.GET("/email/:email", ctrl.GetUserByEmailHandler)
		users.GET("/:id", ctrl.GetUserHandler)
		users.PUT("/:id", ctrl.UpdateUserHandler)
		users.DELETE("/:id", ctrl.DeleteUserHandler)

		locations := apiV1.Group("/locations")
		locations.POST("", ctrl.CreateLocationHandler)
		locations.GET("", ctrl.GetAllLocationsHandler) // optional min_capacity, max_capacity
		locations.GET("/search", ctrl.SearchLocationsHandler)
		locations.GET("/:id", ctrl.GetLocationHandler)
		locations.GET("/:id/availability", ctrl.CheckLocationAvailabilityHandler)
		locations.PUT("/:id", ctrl.UpdateLocationHandler)
		locations.DELETE("/:id", ctrl.DeleteLocationHandler)

		exams := apiV1.Group("/exams")
		exams.POST("", ctrl.CreateExamHandler)
		exams.GET("", ctrl.GetAllExamsHandler) // optional subject
		exams.GET("/search", ctrl.SearchExamsHandler)
		exams.GET("/upcoming", ctrl.GetUpcomingExamsHandler)
		exams.GET("/organizer/:organizer_id", ctrl.GetExamsByOrganizerHandler)
		exams.GET("/location/:location_id", ctrl.GetExamsByLocationHandler)
		exams.GET("/:id", ctrl.GetExamHandler)
		exams.GET("/:id/availability", ctrl.CheckExamAvailabilityHandler)
		exams.PUT("/:id", ctrl.UpdateExamHandler)
		exams.DELETE("/:id", ctrl.DeleteExamHandler)

		registrations := apiV1.Group("/registrations")
		registrations.POST("", ctrl.CreateRegistrationHandler)
		registrations.GET("", ctrl.GetAllRegistrationsHandler)
		registrations.GET("/user/:user_id", ctrl.GetRegistrationsByUserHandler)
		registrations.GET("/exam/:exam_id", ctrl.GetRegistrationsByExamHandler)
		registrations.GET("/status/:status", ctrl.GetRegistrationsByStatusHandler)
		registrations.GET("/payment-status/:payment_status", ctrl.GetRegistrationsByPaymentStatusHandler)
		registrations.GET("/check-availability", ctrl.CheckRegistrationAvailabilityHandler)
		registrations.GET("/:id", ctrl.GetRegistrationHandler)
		registrations.PUT("/:id", ctrl.UpdateRegistrationHandler)
		registrations.DELETE("/:id", ctrl.DeleteRegistrationHandler)

		payments := apiV1.Group("/payments")
		payments.POST("", ctrl.CreatePaymentHandler)
		payments.GET("", ctrl.GetAllPaymentsHandler)
		payments.GET("/user/:user_id", ctrl.GetPaymentsByUserHandler)
		payments.GET("/exam/:exam_id", ctrl.GetPaymentsByExamHandler)
		payments.GET("/status/:status", ctrl.GetPaymentsByStatusHandler)
		payments.GET("/amount-range", ctrl.GetPaymentsByAmountRangeHandler)
		payments.GET("/:id", ctrl.GetPaymentHandler)
		payments.PUT("/:id", ctrl.UpdatePaymentHandler)
		payments.POST("/:id/refund", ctrl.RefundPaymentHandler)
		payments.DELETE("/:id", ctrl.DeletePaymentHandler)

		results := apiV1.Group("/results")
		results.POST("", ctrl.CreateResultHandler)
		results.GET("", ctrl.GetAllResultsHandler)
		results.GET("/user/:user_id", ctrl.GetResultsByUserHandler)
		results.GET("/exam/:exam_id", ctrl.GetResultsByExamHandler)
		results.GET("/grade/:grade", ctrl.GetResultsByGradeHandler)
		results.GET("/score-range", ctrl.GetResultsByScoreRangeHandler)
		results.GET("/calculate-grade", ctrl.CalculateGradeHandler)
		results.GET("/:id", ctrl.GetResultHandler)
		results.PUT("/:id", ctrl.UpdateResultHandler)
		results.DELETE("/:id", ctrl.DeleteResultHandler)

		analytics := apiV1.Group("/analytics")
		analytics.POST("", ctrl.CreateAnalyticHandler)
		analytics.GET("", ctrl.GetAllAnalyticsHandler)
		analytics.POST("/generate/:exam_id", ctrl.GenerateAnalyticsHandler)
		analytics.GET("/exam/:exam_id", ctrl.GetAnalyticByExamHandler)
		analytics.GET("/by-score", ctrl.GetAnalyticsByScoreHandler)
		analytics.GET("/by-registrations", ctrl.GetAnalyticsByRegistrationsHandler)
		analytics.GET("/by-payment-ratio", ctrl.GetAnalyticsByPaymentRatioHandler)
		analytics.GET("/:id", ctrl.GetAnalyticHandler)
		analytics.PUT("/:id", ctrl.UpdateAnalyticHandler)
		analytics.DELETE("/:id", ctrl.DeleteAnalyticHandler)

		notifications := apiV1.Group("/notifications")
		notifications.POST("", ctrl.CreateNotificationHandler)
		notifications.GET("", ctrl.GetAllNotificationsHandler)
		notifications.GET("/user/:user_id", ctrl.GetNotificationsByUserHandler)
		notifications.GET("/:id", ctrl.GetNotificationHandler)
		notifications.PUT("/:id", ctrl.UpdateNotificationHandler)
		notifications.DELETE("/:id", ctrl.DeleteNotificationHandler)
	}
}

// respondError writes err with the status its kind maps to.
func (ctrl *Controller) respondError(c *gin.Context, err error, msg string) {
	status := apperror.HTTPStatus(err)
	kind := apperror.KindOf(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg(msg)
	} else {
		log.Warn().Err(err).Str("path", c.FullPath()).Str("kind", string(kind)).Msg(msg)
	}
	if kind == apperror.KindInvalidArgument || kind == apperror.KindConflict {
		ctrl.metrics.IncrementRejected(string(kind))
	}
	c.JSON(status, dto.ErrorResponse{Error: apperror.Message(err)})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg})
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		log.Warn().Err(err).Str("path", c.FullPath()).Msg("Failed to bind request body")
		badRequest(c, validation.Describe(err))
		return false
	}
	return true
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		badRequest(c, "Invalid "+name+" format")
		return 0, false
	}
	return uint(id), true
}

func requiredQueryID(c *gin.Context, name string) (uint, bool) {
	raw, ok := c.GetQuery(name)
	if !ok {
		badRequest(c, name+" is required")
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		badRequest(c, "Invalid "+name+" format")
		return 0, false
	}
	return uint(id), true
}

// optionalQuery parses query parameter name with parse. A missing or empty
// parameter yields nil.
func optionalQuery[T any](c *gin.Context, name string, parse func(string) (T, error)) (*T, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := parse(raw)
	if err != nil {
		badRequest(c, "Invalid "+name+" format")
		return nil, false
	}
	return &v, true
}

func parseInt(s string) (int, error) { return strconv.Atoi(s) }

func parseFloat(s string) (float64, error) { return strconv.ParseFloat(s, 64) }

func optionalInt(c *gin.Context, name string) (*int, bool) {
	return optionalQuery(c, name, parseInt)
}

func optionalFloat(c *gin.Context, name string) (*float64, bool) {
	return optionalQuery(c, name, parseFloat)
}

func optionalDecimal(c *gin.Context, name string) (*decimal.Decimal, bool) {
	return optionalQuery(c, name, decimal.NewFromString)
}
