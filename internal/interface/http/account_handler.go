package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-directory/internal/application"
	"github.com/oksasatya/user-directory/internal/interface/middleware"
	"github.com/oksasatya/user-directory/pkg/session"
)

type AccountHandler struct {
	Account *application.AccountService
	R       *Renderer
	Logger  *logrus.Logger
}

func NewAccountHandler(account *application.AccountService, r *Renderer, logger *logrus.Logger) *AccountHandler {
	return &AccountHandler{Account: account, R: r, Logger: logger}
}

// ForgotPage GET /forgot-password
func (h *AccountHandler) ForgotPage(c *gin.Context) {
	h.R.HTML(c, http.StatusOK, "forgot_password.html", gin.H{"Title": h.R.T(c, "account.forgot_title", nil)}, nil)
}

// Forgot POST /forgot-password
// Known and unknown emails get the same answer.
func (h *AccountHandler) Forgot(c *gin.Context) {
	err := h.Account.RequestPasswordReset(c.Request.Context(), c.PostForm("email"))
	switch {
	case errors.Is(err, application.ErrUnavailable):
		h.R.Flash(c, session.Error, "account.unavailable", nil)
		redirect(c, "/forgot-password")
		return
	case err != nil:
		h.Logger.WithError(err).Error("password reset request failed")
	}
	h.R.Flash(c, session.Info, "account.reset_requested", nil)
	redirect(c, "/login")
}

// ResetPage GET /reset-password/:token
func (h *AccountHandler) ResetPage(c *gin.Context) {
	token := c.Param("token")
	if !h.tokenUsable(c, h.Account.CheckResetToken(c.Request.Context(), token)) {
		return
	}
	h.R.HTML(c, http.StatusOK, "reset_password.html", gin.H{"Title": h.R.T(c, "account.reset_title", nil), "Token": token}, nil)
}

// Reset POST /reset-password/:token
func (h *AccountHandler) Reset(c *gin.Context) {
	token := c.Param("token")
	var in application.ResetPasswordInput
	_ = c.ShouldBind(&in)

	err := h.Account.ResetPassword(c.Request.Context(), token, in)
	var ferr *application.FormError
	if errors.As(err, &ferr) {
		h.R.HTML(c, http.StatusOK, "reset_password.html", gin.H{"Title": h.R.T(c, "account.reset_title", nil), "Token": token}, ferr.Fields)
		return
	}
	if !h.tokenUsable(c, err) {
		return
	}
	h.R.Flash(c, session.Success, "account.reset_success", nil)
	redirect(c, "/login")
}

// RequestVerification POST /account/verify (auth required)
func (h *AccountHandler) RequestVerification(c *gin.Context) {
	a := middleware.Identity(c)
	sent, err := h.Account.RequestVerification(c.Request.Context(), a.ID)
	switch {
	case errors.Is(err, application.ErrAlreadyVerified):
		h.R.Flash(c, session.Info, "account.already_verified", nil)
	case errors.Is(err, application.ErrUnavailable):
		h.R.Flash(c, session.Error, "account.unavailable", nil)
	case err != nil:
		h.Logger.WithError(err).WithField("identity_id", a.ID).Error("verification request failed")
		h.R.Flash(c, session.Error, "account.verification_failed", nil)
	case sent:
		h.R.Flash(c, session.Success, "account.verification_sent", nil)
	default:
		h.R.Flash(c, session.Warning, "account.verification_failed", nil)
	}
	redirect(c, "/user")
}

// Verify GET /verify-email/:token
func (h *AccountHandler) Verify(c *gin.Context) {
	if !h.tokenUsable(c, h.Account.VerifyEmail(c.Request.Context(), c.Param("token"))) {
		return
	}
	h.R.Flash(c, session.Success, "account.verified", nil)
	redirect(c, "/user")
}

// tokenUsable maps token errors to a flash and redirect. It reports true
// when err is nil.
func (h *AccountHandler) tokenUsable(c *gin.Context, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, application.ErrTokenInvalid):
		h.R.Flash(c, session.Error, "account.token_invalid", nil)
	case errors.Is(err, application.ErrUnavailable):
		h.R.Flash(c, session.Error, "account.unavailable", nil)
	default:
		h.Logger.WithError(err).Error("token check failed")
		h.R.Flash(c, session.Error, "error.generic", nil)
	}
	redirect(c, "/login")
	return false
}
