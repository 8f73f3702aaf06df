// Package apperr defines the typed error returned by validation, request
// parsing and storage lookups. Every error carries a Kind, the HTTP status the
// API reports for it and a message that is safe to show to clients.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind names a class of failure.
type Kind string

const (
	KindMissingData             Kind = "MissingData"
	KindUnknownMake             Kind = "UnknownMake"
	KindPriceTooLow             Kind = "PriceTooLow"
	KindUnknownTransmissionType Kind = "UnknownTransmissionType"
	KindUnknownStyle            Kind = "UnknownStyle"
	KindNotFound                Kind = "NotFound"
	KindMalformedBody           Kind = "MalformedBody"
	KindInvalidFilter           Kind = "InvalidFilter"
	KindInvalidPagination       Kind = "InvalidPagination"
	KindRateLimited             Kind = "RateLimited"
	KindInternal                Kind = "Internal"
)

// Error is an application error with an HTTP status and a client message.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	// Err is the underlying cause. It is logged but never sent to clients.
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status reported for the error.
func (e *Error) StatusCode() int {
	return e.Code
}

func newError(kind Kind, code int, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// MissingData reports absent required fields.
func MissingData(fields ...string) *Error {
	msg := "Missing required data!"
	if len(fields) > 0 {
		msg = fmt.Sprintf("Missing required data! (%s)", strings.Join(fields, ", "))
	}
	return newError(KindMissingData, http.StatusBadRequest, msg)
}

func UnknownMake() *Error {
	return newError(KindUnknownMake, http.StatusNotFound, "The entered Make does not exist!")
}

func PriceTooLow() *Error {
	return newError(KindPriceTooLow, http.StatusNotFound, "Price is too low!")
}

func UnknownTransmissionType() *Error {
	return newError(KindUnknownTransmissionType, http.StatusNotFound, "The chosen transmission type does not exist!")
}

func UnknownStyle() *Error {
	return newError(KindUnknownStyle, http.StatusNotFound, "The entered style does not exist!")
}

func NotFound() *Error {
	return newError(KindNotFound, http.StatusNotFound, "Car does not exist!")
}

// MalformedBody wraps a request body decoding failure.
func MalformedBody(err error) *Error {
	e := newError(KindMalformedBody, http.StatusBadRequest, "Request body is not a valid car!")
	e.Err = err
	return e
}

func InvalidFilter(message string) *Error {
	return newError(KindInvalidFilter, http.StatusBadRequest, message)
}

func InvalidPagination() *Error {
	return newError(KindInvalidPagination, http.StatusBadRequest, "page and limit must be positive integers")
}

func RateLimited() *Error {
	return newError(KindRateLimited, http.StatusTooManyRequests, "Too many requests")
}

// Internal hides err behind a generic message.
func Internal(err error) *Error {
	e := newError(KindInternal, http.StatusInternalServerError, "Internal server error")
	e.Err = err
	return e
}

// From returns err as an *Error, wrapping anything else as Internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
