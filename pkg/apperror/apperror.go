package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrPermission         = errors.New("permission denied")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal server error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrAlreadyVoted       = errors.New("already voted")
	ErrNotVotedYet        = errors.New("not voted yet")
	ErrVotingNotSupported = errors.New("voting not supported")
	ErrContention         = errors.New("too much contention")
)

type AppError struct {
	BaseError error
	Message   string
	Details   string
	Err       error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (Details: %s, Cause: %v)", e.BaseError.Error(), e.Message, e.Details, e.Err)
	}
	return fmt.Sprintf("%s: %s (Details: %s)", e.BaseError.Error(), e.Message, e.Details)
}

func (e *AppError) Unwrap() error {
	return e.BaseError
}

func NewAppError(base error, msg, details string, err error) *AppError {
	return &AppError{BaseError: base, Message: msg, Details: details, Err: err}
}

func NewNotFound(resource, identifier string) *AppError {
	msg := fmt.Sprintf("%s not found", resource)
	details := fmt.Sprintf("%s with identifier '%s' was not found", resource, identifier)
	return NewAppError(ErrNotFound, msg, details, nil)
}

func NewInvalidInput(details string, err error) *AppError {
	return NewAppError(ErrInvalidInput, "Invalid input provided", details, err)
}

func NewInternal(details string, err error) *AppError {
	return NewAppError(ErrInternal, "An internal server error occurred", details, err)
}

func NewUnauthorized(details string, err error) *AppError {
	return NewAppError(ErrUnauthorized, "Invalid credentials", details, err)
}

func NewPermissionDenied(details string) *AppError {
	return NewAppError(ErrPermission, "Permission denied", details, nil)
}

func NewAlreadyVoted(statusID string) *AppError {
	details := fmt.Sprintf("voter already has an upvote on status '%s'", statusID)
	return NewAppError(ErrAlreadyVoted, "Upvote already cast", details, nil)
}

func NewNotVotedYet(statusID string) *AppError {
	details := fmt.Sprintf("voter has no upvote on status '%s' to cancel", statusID)
	return NewAppError(ErrNotVotedYet, "No upvote to cancel", details, nil)
}

func NewVotingNotSupported(tagID string) *AppError {
	details := fmt.Sprintf("latest status of tag '%s' does not track upvotes", tagID)
	return NewAppError(ErrVotingNotSupported, "Voting not supported on this status", details, nil)
}

func NewContention(details string, err error) *AppError {
	return NewAppError(ErrContention, "Operation aborted by concurrent writes", details, err)
}

func ToHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrVotingNotSupported) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrPermission) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrConflict) || errors.Is(err, ErrAlreadyVoted) || errors.Is(err, ErrNotVotedYet) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrContention) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (e *AppError) ToJSON() gin.H {
	return gin.H{
		"error":   e.BaseError.Error(),
		"message": e.Message,
	}
}
