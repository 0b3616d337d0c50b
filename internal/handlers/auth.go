package handlers

import (
	"errors"
	"net/http"

	"voxcredit/internal/service"

	"github.com/gin-gonic/gin"
)

const resetPath = "/reset-password"

type signUpRequest struct {
	Username string `json:"username" binding:"required,username" example:"alice"`
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required,min=6" example:"s3cr3t!"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
	Password string `json:"password" binding:"required" example:"s3cr3t!"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email" example:"alice@example.com"`
}

type resetPasswordRequest struct {
	Token           string `json:"token" binding:"required"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "New account"
// @Success      200   {object}  map[string]int
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input signUpRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	id, err := h.services.SignUp(c.Request.Context(), input.Username, input.Email, input.Password)
	switch {
	case errors.Is(err, service.ErrUserExists):
		if h.log != nil {
			h.log.Infow("auth_sign_up_conflict", "username", input.Username)
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case errors.Is(err, service.ErrInvalidSignUp):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to create account", "auth_sign_up_failed", err, "username", input.Username)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  map[string]string  "token"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input signInRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	token, err := h.services.GenerateToken(c.Request.Context(), input.Email, input.Password)
	switch {
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrInvalidPassword):
		if h.log != nil {
			h.log.Infow("auth_sign_in_failed", "email", input.Email, "err", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to sign in", "auth_sign_in_error", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// @Summary      Request password reset
// @Description  Always answers 200 so the endpoint cannot be used to probe registered emails.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account email"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /auth/forgot-password [post]
func (h *Handler) forgotPassword(c *gin.Context) {
	var input forgotPasswordRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	if err := h.services.RequestPasswordReset(c.Request.Context(), input.Email, h.baseURL+resetPath); err != nil && h.log != nil {
		h.log.Errorw("auth_reset_request_failed", "err", err)
	}
	c.JSON(http.StatusOK, gin.H{"status": "if the account exists, a reset link has been sent"})
}

// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Reset token and new password"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /auth/reset-password [post]
func (h *Handler) resetPassword(c *gin.Context) {
	var input resetPasswordRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	err := h.services.ResetPassword(c.Request.Context(), input.Token, input.Password, input.ConfirmPassword)
	switch {
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrPasswordMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to reset password", "auth_reset_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}
