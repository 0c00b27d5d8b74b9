package errors

import "errors"

var (
	ErrTokenInvalid = errors.New("bearer token is invalid or expired")
	ErrMissingClaim = errors.New("required claim is absent from token")
	ErrActionDenied = errors.New("caller is not permitted to perform this action")
)
