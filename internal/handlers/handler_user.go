package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/orsys_voucher_app/internal/core/ports/services"
	"github.com/SscSPs/orsys_voucher_app/internal/dto"
	"github.com/SscSPs/orsys_voucher_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// userHandler handles HTTP requests for user access records
type userHandler struct {
	userService portssvc.UserSvcFacade
}

// newUserHandler creates a new userHandler
func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: us}
}

// registerUserRoutes registers routes related to users
func registerUserRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)

	users := rg.Group("/users")
	{
		users.GET("/me", h.getMe)
		users.GET("", h.listUsers)
		users.POST("", h.createUser)
		users.PUT("/:id", h.updateUser)
		users.POST("/:id/activate", h.setActive(true))
		users.POST("/:id/deactivate", h.setActive(false))
		users.PUT("/:id/permissions/:permission", h.setPermission(true))
		users.DELETE("/:id/permissions/:permission", h.setPermission(false))
	}
}

// getMe godoc
// @Summary Get the calling user
// @Description Returns the access record of the authenticated user, including role and permissions
// @Tags users
// @Produce json
// @Success 200 {object} dto.AppUserResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not registered"
// @Failure 500 {object} map[string]string "Failed to get user"
// @Security BearerAuth
// @Router /users/me [get]
func (h *userHandler) getMe(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger.With(slog.String("user_id", userID)), err, "Failed to get user")
		return
	}
	c.JSON(http.StatusOK, dto.ToAppUserResponse(user))
}

// listUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} dto.AppUserResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Failed to list users"
// @Security BearerAuth
// @Router /users [get]
func (h *userHandler) listUsers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	users, err := h.userService.ListUsers(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, logger.With(slog.String("user_id", userID)), err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, dto.ToListAppUserResponse(users))
}

// createUser godoc
// @Summary Register a user
// @Description Grants application access to an identity already known to the identity provider
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.CreateAppUserRequest true "User details"
// @Success 201 {object} dto.AppUserResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 409 {object} map[string]string "User already exists"
// @Failure 500 {object} map[string]string "Failed to create user"
// @Security BearerAuth
// @Router /users [post]
func (h *userHandler) createUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var req dto.CreateAppUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for CreateUser", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + bindingError(err)})
		return
	}

	user, err := h.userService.AddUser(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger.With(slog.String("user_id", userID)), err, "Failed to create user")
		return
	}

	logger.Info("User registered", slog.String("new_user_id", user.UserID), slog.String("by", userID))
	c.JSON(http.StatusCreated, dto.ToAppUserResponse(user))
}

// updateUser godoc
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param user body dto.UpdateAppUserRequest true "Fields to change"
// @Success 200 {object} dto.AppUserResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Failed to update user"
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *userHandler) updateUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	targetID := c.Param("id")

	var req dto.UpdateAppUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + bindingError(err)})
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), targetID, req, userID)
	if err != nil {
		respondServiceError(c, logger.With(slog.String("target_user_id", targetID)), err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, dto.ToAppUserResponse(user))
}

// setActive godoc
// @Summary Activate or deactivate a user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.AppUserResponse
// @Failure 400 {object} map[string]string "Cannot deactivate yourself"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Failed to update user"
// @Security BearerAuth
// @Router /users/{id}/activate [post]
// @Router /users/{id}/deactivate [post]
func (h *userHandler) setActive(active bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		userID, ok := requireUserID(c, logger)
		if !ok {
			return
		}
		targetID := c.Param("id")

		user, err := h.userService.SetActive(c.Request.Context(), targetID, active, userID)
		if err != nil {
			respondServiceError(c, logger.With(slog.String("target_user_id", targetID)), err, "Failed to update user")
			return
		}

		logger.Info("User activation changed", slog.String("target_user_id", targetID), slog.Bool("active", active))
		c.JSON(http.StatusOK, dto.ToAppUserResponse(user))
	}
}

// setPermission godoc
// @Summary Grant or revoke a permission
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Param permission path string true "Permission name, e.g. vouchers.create"
// @Success 200 {object} dto.AppUserResponse
// @Failure 400 {object} map[string]string "Unknown permission"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Failed to update user"
// @Security BearerAuth
// @Router /users/{id}/permissions/{permission} [put]
// @Router /users/{id}/permissions/{permission} [delete]
func (h *userHandler) setPermission(granted bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		userID, ok := requireUserID(c, logger)
		if !ok {
			return
		}
		targetID, permission := c.Param("id"), c.Param("permission")

		user, err := h.userService.SetPermission(c.Request.Context(), targetID, permission, granted, userID)
		if err != nil {
			respondServiceError(c, logger.With(slog.String("target_user_id", targetID)), err, "Failed to update user")
			return
		}
		c.JSON(http.StatusOK, dto.ToAppUserResponse(user))
	}
}
