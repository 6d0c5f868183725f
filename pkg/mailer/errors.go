package mailer

import "errors"

// ErrDisabled is returned by the Disabled sender so callers report the
// message as not sent.
var ErrDisabled = errors.New("mail sending disabled")
