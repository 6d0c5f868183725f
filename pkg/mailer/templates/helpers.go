package templates

import (
	"time"
)

// EmailData is the context every email template receives.
type EmailData struct {
	AppName   string
	Name      string
	Email     string
	LoginURL  string
	ResetURL  string
	VerifyURL string
	Token     string

	ExpiresAt     time.Time
	ExpiresAtText string
}

type Option func(*EmailData)

func WithName(name string) Option     { return func(d *EmailData) { d.Name = name } }
func WithLoginURL(url string) Option  { return func(d *EmailData) { d.LoginURL = url } }
func WithResetURL(url string) Option  { return func(d *EmailData) { d.ResetURL = url } }
func WithVerifyURL(url string) Option { return func(d *EmailData) { d.VerifyURL = url } }
func WithToken(token string) Option   { return func(d *EmailData) { d.Token = token } }

func WithExpiresIn(dur time.Duration) Option {
	return func(d *EmailData) {
		utc := time.Now().Add(dur).UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04 MST")
	}
}

// NewEmailData fills the fields shared by every template, then applies opts.
func NewEmailData(appName, email string, opts ...Option) EmailData {
	d := EmailData{AppName: appName, Email: email}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}
