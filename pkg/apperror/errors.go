package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Authentication (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrTokenRevoked() *AppError {
	return New("AUTH_002", "Token has been revoked", http.StatusUnauthorized)
}

// ---- Wallet (WALLET) ----

func ErrWalletNotFound() *AppError {
	return New("WALLET_001", "Wallet not found", http.StatusNotFound)
}

// ---- Transfers (TX) ----

func ErrInvalidAddress() *AppError {
	return New("TX_001", "Invalid recipient address", http.StatusBadRequest)
}

func ErrInsufficientBalance() *AppError {
	return New("TX_002", "Insufficient stable balance", http.StatusPaymentRequired)
}

func ErrTransferFailed(err error) *AppError {
	return Wrap("TX_003", "Transfer failed", http.StatusBadGateway, err)
}

func ErrInvalidAmount() *AppError {
	return New("TX_004", "Invalid amount", http.StatusBadRequest)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps persistence and other internal failures.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a TX_004-style validation error with a custom message.
func Validation(message string) *AppError {
	return New("TX_004", message, http.StatusBadRequest)
}
