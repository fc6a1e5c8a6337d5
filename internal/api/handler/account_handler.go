package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uventlo/event-platform/internal/api/metrics"
	"github.com/uventlo/event-platform/internal/api/middleware"
	"github.com/uventlo/event-platform/internal/core/ports"
)

// AccountHandler handles HTTP requests for the account lifecycle.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Register creates a new account and emails its confirmation code.
//
// @Summary      Register a new account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/users/register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registerOutcome(err)).Inc()
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues("created").Inc()

	c.Response().Header().Set("Authorization", "Bearer "+result.Token)
	return c.JSON(http.StatusCreated, registerResponse{
		Message: "user registered, confirmation code sent",
		User:    toAccountResponse(result.Account),
		Token:   result.Token,
	})
}

// Login authenticates an account and opens a session.
//
// @Summary      Login
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/users/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Login(c.Request().Context(), ports.LoginInput{
		Email:      req.Email,
		Password:   req.Password,
		RememberMe: req.RememberMe,
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginOutcome(err)).Inc()
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	c.Response().Header().Set("Authorization", "Bearer "+result.Token)
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(result.TokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, loginResponse{
		Message: "login successful",
		Token:   result.Token,
	})
}

// Logout clears the session cookie. Tokens are stateless, so the server keeps
// no session record to revoke.
//
// @Summary      Logout
// @Tags         users
// @Produce      json
// @Success      200  {object}  messageResponse
// @Router       /v1/users/logout [post]
func (h *AccountHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// Activate confirms an account with its emailed code, or re-sends the code
// when the body asks for a resend.
//
// @Summary      Activate an account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Account ID"
// @Param        body  body      activateRequest  true  "Confirmation code or resend flag"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /v1/users/{id}/activate [put]
func (h *AccountHandler) Activate(c echo.Context) error {
	accountID := c.Param("id")
	if err := requireSelfOrAdmin(c, accountID); err != nil {
		return err
	}

	var req activateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	err := h.service.Activate(c.Request().Context(), ports.ActivateInput{
		AccountID: accountID,
		Code:      req.Code,
		Resend:    req.Resend,
	})
	if err != nil {
		metrics.ActivationsTotal.WithLabelValues(activateOutcome(err)).Inc()
		return err
	}

	if req.Resend {
		metrics.ActivationsTotal.WithLabelValues("resent").Inc()
		return c.JSON(http.StatusOK, messageResponse{Message: "confirmation code sent"})
	}
	metrics.ActivationsTotal.WithLabelValues("activated").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "account activated"})
}

// Deactivate disables an account after re-checking its password.
//
// @Summary      Deactivate an account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Account ID"
// @Param        body  body      deactivateRequest  true  "Current password"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/users/{id}/deactivate [put]
func (h *AccountHandler) Deactivate(c echo.Context) error {
	accountID := c.Param("id")
	if err := requireSelfOrAdmin(c, accountID); err != nil {
		return err
	}

	var req deactivateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.Deactivate(c.Request().Context(), accountID, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "account deactivated"})
}

// Update applies a password-gated profile update.
//
// @Summary      Update an account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Account ID"
// @Param        body  body      updateAccountRequest  true  "Fields to change, gated by the current password"
// @Success      200   {object}  accountResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/users/{id} [put]
func (h *AccountHandler) Update(c echo.Context) error {
	accountID := c.Param("id")
	if err := requireSelfOrAdmin(c, accountID); err != nil {
		return err
	}

	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.service.Update(c.Request().Context(), toUpdateInput(accountID, req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// Get returns a single account.
//
// @Summary      Get an account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Account ID"
// @Success      200  {object}  accountResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id} [get]
func (h *AccountHandler) Get(c echo.Context) error {
	account, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(account))
}

// List returns every account. Admin only.
//
// @Summary      List accounts
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   accountResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/users [get]
func (h *AccountHandler) List(c echo.Context) error {
	accounts, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	return c.JSON(http.StatusOK, out)
}

// Delete removes an account permanently.
//
// @Summary      Delete an account
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Account ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	accountID := c.Param("id")
	if err := requireSelfOrAdmin(c, accountID); err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), accountID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "account deleted"})
}

// RequestPasswordReset emails a one-time password to the account. The response
// is 200 whether or not the email is known.
//
// @Summary      Request a password reset code
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      resetRequestRequest  true  "Account email"
// @Success      200   {object}  messageResponse
// @Failure      429   {object}  errorResponse
// @Router       /v1/users/reset-password/request [post]
func (h *AccountHandler) RequestPasswordReset(c echo.Context) error {
	var req resetRequestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("request", "rejected").Inc()
		return err
	}
	metrics.PasswordResetsTotal.WithLabelValues("request", "ok").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "if the email exists, a reset code has been sent"})
}

// VerifyPasswordReset checks an OTP without consuming it.
//
// @Summary      Verify a password reset code
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      resetVerifyRequest  true  "Email and OTP"
// @Success      200   {object}  messageResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/users/reset-password/verify [post]
func (h *AccountHandler) VerifyPasswordReset(c echo.Context) error {
	var req resetVerifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.VerifyPasswordResetOTP(c.Request().Context(), req.Email, req.OTP); err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("verify", "rejected").Inc()
		return err
	}
	metrics.PasswordResetsTotal.WithLabelValues("verify", "ok").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "otp verified"})
}

// ConfirmPasswordReset consumes the OTP and sets the new password.
//
// @Summary      Confirm a password reset
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      resetConfirmRequest  true  "Email, OTP and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/users/reset-password/confirm [post]
func (h *AccountHandler) ConfirmPasswordReset(c echo.Context) error {
	var req resetConfirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.service.ConfirmPasswordReset(c.Request().Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("confirm", "rejected").Inc()
		return err
	}
	metrics.PasswordResetsTotal.WithLabelValues("confirm", "ok").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "password updated"})
}
