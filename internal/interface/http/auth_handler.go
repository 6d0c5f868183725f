package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-directory/internal/application"
	"github.com/oksasatya/user-directory/internal/interface/middleware"
	"github.com/oksasatya/user-directory/pkg/helpers"
	"github.com/oksasatya/user-directory/pkg/session"
)

type AuthHandler struct {
	Auth    *application.AuthService
	Cookies *helpers.Manager
	R       *Renderer
	Logger  *logrus.Logger
}

func NewAuthHandler(auth *application.AuthService, cookies *helpers.Manager, r *Renderer, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Cookies: cookies, R: r, Logger: logger}
}

// RegisterPage GET /register
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	h.R.HTML(c, http.StatusOK, "register.html", gin.H{"Title": h.R.T(c, "register.title", nil)}, nil)
}

// Register POST /register
func (h *AuthHandler) Register(c *gin.Context) {
	var in application.RegisterInput
	_ = c.ShouldBind(&in)

	res, err := h.Auth.Register(c.Request.Context(), in)
	if err != nil {
		// the password is never echoed back
		data := gin.H{"Title": h.R.T(c, "register.title", nil), "Name": in.Name, "Email": in.Email}
		var ferr *application.FormError
		switch {
		case errors.As(err, &ferr):
			h.R.Flash(c, session.Error, ferr.MessageID, ferr.Data)
			h.R.HTML(c, http.StatusOK, "register.html", data, ferr.Fields)
		case errors.Is(err, application.ErrEmailTaken):
			h.R.Flash(c, session.Error, "register.email_exists", nil)
			h.R.HTML(c, http.StatusOK, "register.html", data, nil)
		default:
			h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("registration failed")
			h.R.Flash(c, session.Error, "register.failed", nil)
			h.R.HTML(c, http.StatusOK, "register.html", data, nil)
		}
		return
	}

	if res.EmailSent {
		h.R.Flash(c, session.Success, "register.account_created_success", nil)
	} else {
		h.R.Flash(c, session.Warning, "register.account_created_no_email", nil)
	}
	redirect(c, "/login")
}

// LoginPage GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	h.R.HTML(c, http.StatusOK, "login.html", gin.H{"Title": h.R.T(c, "login.title", nil)}, nil)
}

type loginRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// Login POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	_ = c.ShouldBind(&req)

	a, pair, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		msg := h.R.T(c, "login.invalid_credentials", nil)
		if !errors.Is(err, application.ErrInvalidCredentials) {
			h.Logger.WithError(err).Error("login failed")
			msg = h.R.T(c, "error.generic", nil)
		}
		h.R.HTML(c, http.StatusOK, "login.html", gin.H{
			"Title":     h.R.T(c, "login.title", nil),
			"LastEmail": req.Email,
			"Error":     msg,
		}, nil)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	h.Logger.WithField("identity_id", a.ID).Info("login successful")
	redirect(c, "/user")
}

// Logout GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if a := middleware.Identity(c); a != nil {
		h.Auth.Logout(c.Request.Context(), a.ID)
	}
	h.Cookies.Clear(c)
	h.R.Flash(c, session.Success, "logout.success", nil)
	redirect(c, "/login")
}
