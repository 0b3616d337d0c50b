package service

import "errors"

// Domain errors returned by the services; handlers map them to status codes.
var (
	ErrInvalidPassword  = errors.New("invalid password")
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("username or email already registered")
	ErrInvalidSignUp    = errors.New("username, email and password are required")
	ErrInvalidToken     = errors.New("invalid token")
	ErrPasswordMismatch = errors.New("passwords are empty or do not match")

	ErrMissingFields      = errors.New("missing payment fields")
	ErrUnknownPlan        = errors.New("unknown plan")
	ErrAlreadyProcessed   = errors.New("payment already processed")
	ErrVerificationFailed = errors.New("payment verification failed")

	ErrInvalidWebhookSignature = errors.New("invalid webhook signature")
	ErrInvalidPayload          = errors.New("invalid webhook payload")

	ErrEmptyText           = errors.New("text is required")
	ErrTextTooLong         = errors.New("text too long")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrSynthesisFailed     = errors.New("audio generation failed")

	ErrInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	ErrInvalidStatus    = errors.New("invalid payment status")
)
