package shortener

import (
	"errors"
	"net/http"
)

// ErrCacheMiss signals that an alias has no cached redirect entry.
var ErrCacheMiss = errors.New("cache miss")

// Error is a domain error with a stable machine-readable code.
type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string {
	return e.Message
}

var (
	// ErrInvalidURL is returned when the original URL is not a valid
	// absolute http(s) URL.
	ErrInvalidURL = &Error{
		Code:    "INVALID_URL_FORMAT",
		Message: "the provided URL is not valid",
		Status:  http.StatusBadRequest,
	}

	// ErrAliasTaken is returned when a custom alias is already occupied.
	ErrAliasTaken = &Error{
		Code:    "CUSTOM_ALIAS_TAKEN",
		Message: "custom alias is already taken",
		Status:  http.StatusBadRequest,
	}

	// ErrPasswordRequired is returned when password protection is requested
	// without a password.
	ErrPasswordRequired = &Error{
		Code:    "PASSWORD_REQUIRED",
		Message: "password is required for password-protected URLs",
		Status:  http.StatusBadRequest,
	}

	// ErrIncorrectPassword is returned on a password mismatch for a
	// protected link.
	ErrIncorrectPassword = &Error{
		Code:    "INCORRECT_PASSWORD",
		Message: "the provided password is incorrect",
		Status:  http.StatusBadRequest,
	}

	// ErrInvalidDate is returned for unparsable date filters.
	ErrInvalidDate = &Error{
		Code:    "INVALID_DATE_FORMAT",
		Message: "date format is invalid",
		Status:  http.StatusBadRequest,
	}

	// ErrNotFound is returned when an alias has no active record.
	ErrNotFound = &Error{
		Code:    "URL_NOT_FOUND",
		Message: "short URL not found",
		Status:  http.StatusNotFound,
	}

	// ErrExpired is returned when the record's expiry has passed.
	ErrExpired = &Error{
		Code:    "EXPIRED_URL",
		Message: "short URL has expired",
		Status:  http.StatusNotFound,
	}

	// ErrForbidden is returned when a caller requests analytics for a URL
	// they do not own.
	ErrForbidden = &Error{
		Code:    "URL_ACCESS_DENIED",
		Message: "access to this URL is denied",
		Status:  http.StatusForbidden,
	}

	// ErrAliasSpaceExhausted is returned when alias generation cannot find
	// a free code within its retry budget.
	ErrAliasSpaceExhausted = &Error{
		Code:    "ALIAS_SPACE_EXHAUSTED",
		Message: "unable to generate a unique alias",
		Status:  http.StatusInternalServerError,
	}
)
