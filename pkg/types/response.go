package types

import pkgerrors "github.com/partshub/partshub-backend/pkg/errors"

// SuccessEnvelope wraps every successful API response body.
type SuccessEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type APIError struct {
	Code      pkgerrors.Code `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   any            `json:"details,omitempty"`
}

// ErrorEnvelope wraps every error API response body.
type ErrorEnvelope struct {
	Success bool     `json:"success"`
	Error   APIError `json:"error"`
}
