package mailer

import "context"

// Message is a fully rendered email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Disabled drops every message. It is used when MAIL_SEND_ENABLED=false.
type Disabled struct{}

func (Disabled) Send(context.Context, Message) error { return ErrDisabled }
