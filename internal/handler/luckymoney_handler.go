package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"lixi/internal/errors"
	"lixi/internal/model"
	"lixi/internal/service"
)

// LuckyMoneyHandler handles the user-facing draw lifecycle endpoints.
type LuckyMoneyHandler struct {
	luckyMoneyService service.LuckyMoneyService
}

// NewLuckyMoneyHandler creates a new lucky money handler.
func NewLuckyMoneyHandler(luckyMoneyService service.LuckyMoneyService) *LuckyMoneyHandler {
	return &LuckyMoneyHandler{luckyMoneyService: luckyMoneyService}
}

// BankInfoRequest represents a payout destination submission.
type BankInfoRequest struct {
	BankName      string `json:"bank_name" validate:"required"`
	AccountNumber string `json:"account_number" validate:"required"`
	AccountHolder string `json:"account_holder"`
}

func userIDFrom(c echo.Context) (uuid.UUID, error) {
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

// GetConfig godoc
// @Summary Get role-based greeting and theme
// @Tags lucky
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.GreetingConfig
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /lucky/config [get]
func (h *LuckyMoneyHandler) GetConfig(c echo.Context) error {
	userID, err := userIDFrom(c)
	if err != nil {
		return err
	}

	cfg, err := h.luckyMoneyService.GetConfig(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, cfg)
}

// Draw godoc
// @Summary Draw the one-time lucky money prize
// @Tags lucky
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.DrawResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /lucky/draw [post]
func (h *LuckyMoneyHandler) Draw(c echo.Context) error {
	userID, err := userIDFrom(c)
	if err != nil {
		return err
	}

	result, err := h.luckyMoneyService.Draw(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, result)
}

// SubmitBankInfo godoc
// @Summary Submit payout bank details
// @Tags lucky
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BankInfoRequest true "Bank details"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /lucky/bank-info [post]
func (h *LuckyMoneyHandler) SubmitBankInfo(c echo.Context) error {
	userID, err := userIDFrom(c)
	if err != nil {
		return err
	}

	var req BankInfoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	info, err := h.luckyMoneyService.SubmitBankInfo(c.Request().Context(), userID, model.BankInfo{
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountHolder: req.AccountHolder,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":   "bank information submitted successfully",
		"bank_info": info,
	})
}

// GetStatus godoc
// @Summary Get current draw lifecycle state
// @Tags lucky
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.UserStatus
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /lucky/status [get]
func (h *LuckyMoneyHandler) GetStatus(c echo.Context) error {
	userID, err := userIDFrom(c)
	if err != nil {
		return err
	}

	status, err := h.luckyMoneyService.GetStatus(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, status)
}
