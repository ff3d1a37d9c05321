package domain

import "errors"

// Authentication and authorization.
var (
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrForbidden          = errors.New("access forbidden")
)

// Identity store.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("email already registered")
	ErrInvalidRole  = errors.New("invalid role")
)

// Expense workflow.
var (
	ErrExpenseNotFound   = errors.New("expense not found")
	ErrInvalidAmount     = errors.New("amount must be greater than or equal to 0")
	ErrInvalidStatus     = errors.New("invalid status, must be one of: pending, approved, rejected")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAlreadyResolved   = errors.New("expense already resolved")
)

// ErrInvalidInput wraps malformed or missing request values.
var ErrInvalidInput = errors.New("invalid input")
