package session

import "errors"

var (
	ErrInvalidRole  = errors.New("session: invalid role")
	ErrNotFound     = errors.New("session: not found")
	ErrInvalidToken = errors.New("session: invalid token")
)
