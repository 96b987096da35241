package notification

import "errors"

var ErrInvalidNotificationType = errors.New("invalid notification type")
