package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	ErrMsgSubscriptionNotFound = "subscription not found"
	ErrMsgInvalidMonths        = "months must be between 1 and 10"
	ErrMsgMissingSubscriber    = "subscriber id is required"
	ErrMsgMissingRole          = "role id is required"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrSubscriptionNotFound = errors.New(ErrMsgSubscriptionNotFound)
	ErrInvalidMonths        = errors.New(ErrMsgInvalidMonths)
	ErrMissingSubscriber    = errors.New(ErrMsgMissingSubscriber)
	ErrMissingRole          = errors.New(ErrMsgMissingRole)
)
