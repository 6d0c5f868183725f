package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-directory/internal/metrics"
	"github.com/oksasatya/user-directory/pkg/mailer"
	tpl "github.com/oksasatya/user-directory/pkg/mailer/templates"
)

const (
	PasswordResetTTL = 30 * time.Minute
	VerificationTTL  = 24 * time.Hour
)

// EmailService renders and sends transactional mail. Every method reports
// success as a bool and never returns an error or panics.
type EmailService struct {
	Sender  mailer.Sender
	AppName string
	AppURL  string
	Logger  *logrus.Logger
}

func NewEmailService(sender mailer.Sender, appName, appURL string, logger *logrus.Logger) *EmailService {
	return &EmailService{Sender: sender, AppName: appName, AppURL: strings.TrimSuffix(appURL, "/"), Logger: logger}
}

func (s *EmailService) SendWelcomeEmail(ctx context.Context, to, name string) bool {
	data := tpl.NewEmailData(s.AppName, to, tpl.WithName(name), tpl.WithLoginURL(s.AppURL+"/login"))
	return s.send(ctx, tpl.Welcome, to, data)
}

func (s *EmailService) SendPasswordResetEmail(ctx context.Context, to, token string) bool {
	data := tpl.NewEmailData(s.AppName, to,
		tpl.WithToken(token),
		tpl.WithResetURL(s.AppURL+"/reset-password/"+token),
		tpl.WithExpiresIn(PasswordResetTTL),
	)
	return s.send(ctx, tpl.PasswordReset, to, data)
}

func (s *EmailService) SendAccountVerificationEmail(ctx context.Context, to, token string) bool {
	data := tpl.NewEmailData(s.AppName, to,
		tpl.WithToken(token),
		tpl.WithVerifyURL(s.AppURL+"/verify-email/"+token),
		tpl.WithExpiresIn(VerificationTTL),
	)
	return s.send(ctx, tpl.Verification, to, data)
}

func (s *EmailService) send(ctx context.Context, name, to string, data tpl.EmailData) (ok bool) {
	log := s.Logger.WithFields(logrus.Fields{"template": name, "to": to})
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", fmt.Sprint(r)).Error("email sending panicked")
			ok = false
		}
		result := "sent"
		if !ok {
			result = "failed"
		}
		metrics.EmailsTotal.WithLabelValues(name, result).Inc()
	}()

	subject, text, html, err := tpl.Render(name, data)
	if err != nil {
		log.WithError(err).Error("email render failed")
		return false
	}
	log = log.WithField("subject", subject)
	if err := s.Sender.Send(ctx, mailer.Message{To: to, Subject: subject, Text: text, HTML: html}); err != nil {
		log.WithError(err).Error("email sending failed")
		return false
	}
	log.Info("email sent successfully")
	return true
}
