package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"lixi/internal/errors"
	"lixi/internal/model"
	"lixi/internal/repository"
	"lixi/internal/service"
)

// AdminHandler handles administrator endpoints for managing users.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// CreateUserRequest represents a user creation request.
type CreateUserRequest struct {
	Username       string  `json:"username" validate:"required"`
	Name           string  `json:"name"`
	Password       string  `json:"password" validate:"required,min=6"`
	Role           string  `json:"role" validate:"required,oneof=LOVER FRIEND COLLEAGUE FAMILY"`
	Amounts        []int64 `json:"available_amounts" validate:"required,min=1,dive,gt=0"`
	CustomGreeting string  `json:"custom_greeting"`
}

// UpdateUserRequest represents a partial user update; omitted fields are kept.
type UpdateUserRequest struct {
	Name           *string `json:"name"`
	Password       *string `json:"password" validate:"omitempty,min=6"`
	Role           *string `json:"role" validate:"omitempty,oneof=LOVER FRIEND COLLEAGUE FAMILY"`
	Amounts        []int64 `json:"available_amounts" validate:"omitempty,min=1,dive,gt=0"`
	CustomGreeting *string `json:"custom_greeting"`
}

func adminIDFrom(c echo.Context) (uuid.UUID, error) {
	claims, err := claimsFrom(c)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := claims.AccountID()
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	return id, nil
}

func targetUserID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid user ID",
			Code:  "INVALID_UUID",
		})
	}
	return id, nil
}

// CreateUser godoc
// @Summary Create a lucky-money user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUserRequest true "User data"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/users [post]
func (h *AdminHandler) CreateUser(c echo.Context) error {
	adminID, err := adminIDFrom(c)
	if err != nil {
		return err
	}

	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.adminService.CreateUser(c.Request().Context(), adminID, service.CreateUserInput{
		Username:       req.Username,
		Name:           req.Name,
		Password:       req.Password,
		Role:           model.UserRole(req.Role),
		Amounts:        model.AmountList(req.Amounts),
		CustomGreeting: req.CustomGreeting,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, user)
}

// UpdateUser godoc
// @Summary Update a lucky-money user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body UpdateUserRequest true "Fields to update"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id} [put]
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	adminID, err := adminIDFrom(c)
	if err != nil {
		return err
	}
	userID, err := targetUserID(c)
	if err != nil {
		return err
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	input := service.UpdateUserInput{
		Name:           req.Name,
		Password:       req.Password,
		Amounts:        model.AmountList(req.Amounts),
		CustomGreeting: req.CustomGreeting,
	}
	if req.Role != nil {
		role := model.UserRole(*req.Role)
		input.Role = &role
	}

	user, err := h.adminService.UpdateUser(c.Request().Context(), adminID, userID, input)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers godoc
// @Summary List own users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param search query string false "Username or name substring"
// @Param role query string false "Filter by role"
// @Param status query string false "Filter by draw status"
// @Success 200 {object} service.UserPage
// @Failure 401 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	adminID, err := adminIDFrom(c)
	if err != nil {
		return err
	}

	filter := repository.UserFilter{
		Search: c.QueryParam("search"),
		Role:   model.UserRole(c.QueryParam("role")),
		Status: model.LuckyMoneyStatus(c.QueryParam("status")),
	}
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		filter.Page = v
	}
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil {
		filter.Limit = v
	}

	page, err := h.adminService.ListUsers(c.Request().Context(), adminID, filter)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, page)
}

// GetUser godoc
// @Summary Get one of the administrator's users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id} [get]
func (h *AdminHandler) GetUser(c echo.Context) error {
	adminID, err := adminIDFrom(c)
	if err != nil {
		return err
	}
	userID, err := targetUserID(c)
	if err != nil {
		return err
	}

	user, err := h.adminService.GetUser(c.Request().Context(), adminID, userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete one of the administrator's users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	adminID, err := adminIDFrom(c)
	if err != nil {
		return err
	}
	userID, err := targetUserID(c)
	if err != nil {
		return err
	}

	if err := h.adminService.DeleteUser(c.Request().Context(), adminID, userID); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "user deleted successfully",
	})
}

// ResetUser godoc
// @Summary Rewind a user's draw lifecycle
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id}/reset [post]
func (h *AdminHandler) ResetUser(c echo.Context) error {
	adminID, err := adminIDFrom(c)
	if err != nil {
		return err
	}
	userID, err := targetUserID(c)
	if err != nil {
		return err
	}

	user, err := h.adminService.ResetUser(c.Request().Context(), adminID, userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, user)
}

// ToggleTransferred godoc
// @Summary Toggle the payout-sent flag
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/users/{id}/toggle-transferred [post]
func (h *AdminHandler) ToggleTransferred(c echo.Context) error {
	adminID, err := adminIDFrom(c)
	if err != nil {
		return err
	}
	userID, err := targetUserID(c)
	if err != nil {
		return err
	}

	user, err := h.adminService.ToggleTransferred(c.Request().Context(), adminID, userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, user)
}
