package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/couponhub/coupon-marketplace/internal/api/middleware"
	"github.com/couponhub/coupon-marketplace/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates credentials and opens a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials and login type (ADMIN, COMPANY or CUSTOMER)"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, req.LoginType)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token: result.Token,
		Role:  result.Role.String(),
		ID:    result.SubjectID,
	})
}

// Logout closes the session behind the presented token.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  map[string]string
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token := middleware.ExtractToken(c)
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
	}
	if err := h.authService.Logout(token); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
