package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lshigami/examhub/internal/dto"
)

// CreateUserHandler godoc
// @Summary Create a user
// @Description Register a student or organizer account. Username and email must be unique.
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "User data"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or username/email taken"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users [post]
func (ctrl *Controller) CreateUserHandler(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := ctrl.userSvc.CreateUser(c.Request.Context(), req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// GetAllUsersHandler godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} dto.UserResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /users [get]
func (ctrl *Controller) GetAllUsersHandler(c *gin.Context) {
	users, err := ctrl.userSvc.GetAllUsers(c.Request.Context())
	if err != nil {
		ctrl.respondError(c, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// SearchUsersHandler godoc
// @Summary Search users
// @Description Case-insensitive substring match on username, email and role
// @Tags users
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {array} dto.UserResponse
// @Router /users/search [get]
func (ctrl *Controller) SearchUsersHandler(c *gin.Context) {
	users, err := ctrl.userSvc.SearchUsers(c.Request.Context(), c.Query("q"))
	if err != nil {
		ctrl.respondError(c, err, "Failed to search users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUserByUsernameHandler godoc
// @Summary Get a user by username
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/username/{username} [get]
func (ctrl *Controller) GetUserByUsernameHandler(c *gin.Context) {
	user, err := ctrl.userSvc.GetUserByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		ctrl.respondError(c, err, "Failed to get user by username")
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserByEmailHandler godoc
// @Summary Get a user by email
// @Tags users
// @Produce json
// @Param email path string true "Email"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/email/{email} [get]
func (ctrl *Controller) GetUserByEmailHandler(c *gin.Context) {
	user, err := ctrl.userSvc.GetUserByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		ctrl.respondError(c, err, "Failed to get user by email")
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetUserHandler godoc
// @Summary Get a user by ID
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [get]
func (ctrl *Controller) GetUserHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := ctrl.userSvc.GetUser(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err, "Failed to get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUserHandler godoc
// @Summary Update a user
// @Description Only the fields present in the body change.
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body dto.UpdateUserRequest true "Fields to change"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input or username/email taken"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [put]
func (ctrl *Controller) UpdateUserHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := ctrl.userSvc.UpdateUser(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondError(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUserHandler godoc
// @Summary Delete a user
// @Description Refused while the user organizes exams or holds active registrations.
// @Tags users
// @Param id path int true "User ID"
// @Success 204 "User deleted"
// @Failure 400 {object} dto.ErrorResponse "User still referenced"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [delete]
func (ctrl *Controller) DeleteUserHandler(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.userSvc.DeleteUser(c.Request.Context(), id); err != nil {
		ctrl.respondError(c, err, "Failed to delete user")
		return
	}
	c.Status(http.StatusNoContent)
}
