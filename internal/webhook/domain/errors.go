package domain

import "errors"

var (
	ErrInvalidSignature = errors.New("invalid_signature")
	ErrInvalidToken     = errors.New("invalid_token")
	ErrInvalidPayload   = errors.New("invalid_payload")
	ErrProviderNotFound = errors.New("provider_not_found")
)
