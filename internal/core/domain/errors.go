package domain

import "errors"

var (
	ErrMissingToken         = errors.New("no authentication token in handshake")
	ErrInvalidToken         = errors.New("invalid authentication token")
	ErrClientClosed         = errors.New("client closed")
	ErrNotificationNotFound = errors.New("notification not found")
)
