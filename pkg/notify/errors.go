package notify

import "errors"

var (
	ErrInvalidMailerConfig = errors.New("notify: invalid mailer configuration")
	ErrFailedToSendEmail   = errors.New("notify: failed to send email")
)
