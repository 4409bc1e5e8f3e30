// Copyright 2015-2017 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restdata

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"

	"github.com/diffeo/go-occi/occi"
)

// ErrorStatus describes errors that correspond to specific HTTP status
// codes.
type ErrorStatus interface {
	// HTTPStatus returns the HTTP status code for this error.
	HTTPStatus() int
}

// ErrUnsupportedMediaType is returned if the provided Content-Type:
// is unrecognized.  This translates directly into the equivalent HTTP
// 415 error.
type ErrUnsupportedMediaType struct {
	Type string
}

func (e ErrUnsupportedMediaType) Error() string {
	return fmt.Sprintf("Unsupported media type %q", e.Type)
}

// HTTPStatus returns a fixed 415 Unsupported Media Type error code.
func (e ErrUnsupportedMediaType) HTTPStatus() int {
	return http.StatusUnsupportedMediaType
}

// ErrNotFound is a wrapper error that indicates that, due to the
// embedded error, a REST service should return a 404 Not Found error.
type ErrNotFound struct {
	Err error
}

func (e ErrNotFound) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 404 Not Found error code.
func (e ErrNotFound) HTTPStatus() int {
	return http.StatusNotFound
}

// ErrBadRequest is returned as an error when there is an error decoding
// HTTP headers or the request body.
type ErrBadRequest struct {
	Err error
}

func (e ErrBadRequest) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 400 Bad Request HTTP status code.
func (e ErrBadRequest) HTTPStatus() int {
	return http.StatusBadRequest
}

// ErrConflict wraps an error that indicates the request conflicts with
// existing state, such as a location already in use.
type ErrConflict struct {
	Err error
}

func (e ErrConflict) Error() string {
	return e.Err.Error()
}

// HTTPStatus returns a fixed 409 Conflict HTTP status code.
func (e ErrConflict) HTTPStatus() int {
	return http.StatusConflict
}

// ErrorResponse is the body of any error response, in every
// representation that has a body.
type ErrorResponse struct {
	// Error is a short description of the failure.  This may be
	// the name of a catalog error, the string "panic", or the
	// string "error" for some other kind of error.
	Error string `json:"error"`

	// Message is a human-readable description of the failure.
	Message string `json:"message"`

	// Value is an extra parameter to the error if applicable.
	Value string `json:"value,omitempty"`

	// Stack holds a formatted backtrace, if the method failed
	// due to a panic.
	Stack string `json:"stack,omitempty"`
}

// StatusFor picks the HTTP status for an error.  Errors that carry
// their own status use it; well-known catalog errors map to 400, 404,
// or 409; anything else is a server error.
func StatusFor(err error) int {
	if errS, hasStatus := err.(ErrorStatus); hasStatus {
		return errS.HTTPStatus()
	}
	switch err {
	case occi.ErrNoKind, occi.ErrNotTag, occi.ErrTagHasAttributes, occi.ErrMixedSubject:
		return http.StatusBadRequest
	case occi.ErrLocationInUse:
		return http.StatusConflict
	}
	switch err.(type) {
	case occi.ErrNoSuchEntity, occi.ErrNoSuchCategory:
		return http.StatusNotFound
	case occi.CategoryError, occi.ErrInvalidAttribute:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// FromError populates an ErrorResponse to fill in its fields based
// on an error value.  This remaps the well-known catalog errors to
// specific e.Error codes.
func (e *ErrorResponse) FromError(err error) {
	e.Message = err.Error()
	if e.Error == "" {
		e.Error = "error"
	}
	switch err {
	case occi.ErrNoKind:
		e.Error = "ErrNoKind"
	case occi.ErrNotTag:
		e.Error = "ErrNotTag"
	case occi.ErrTagHasAttributes:
		e.Error = "ErrTagHasAttributes"
	case occi.ErrLocationInUse:
		e.Error = "ErrLocationInUse"
	case occi.ErrMixedSubject:
		e.Error = "ErrMixedSubject"
	}
	switch et := err.(type) {
	case occi.ErrNoSuchEntity:
		e.Error = "ErrNoSuchEntity"
		e.Value = et.ID
	case occi.ErrNoSuchCategory:
		e.Error = "ErrNoSuchCategory"
		e.Value = et.ID
	case occi.CategoryError:
		e.Error = "CategoryError"
		e.Value = et.ID
	case occi.ErrInvalidAttribute:
		e.Error = "ErrInvalidAttribute"
		e.Value = et.Name
	case ErrNotFound:
		// Discard this wrapper and return the embedded error
		e.FromError(et.Err)
	case ErrBadRequest:
		e.FromError(et.Err)
	case ErrConflict:
		e.FromError(et.Err)
	}
}

// ToError converts e back to a catalog error, if that is possible.
// If not, returns a plain error with e.Message text.
func (e *ErrorResponse) ToError() error {
	switch e.Error {
	case "ErrNoKind":
		return occi.ErrNoKind
	case "ErrNotTag":
		return occi.ErrNotTag
	case "ErrTagHasAttributes":
		return occi.ErrTagHasAttributes
	case "ErrLocationInUse":
		return occi.ErrLocationInUse
	case "ErrMixedSubject":
		return occi.ErrMixedSubject
	case "ErrNoSuchEntity":
		return occi.ErrNoSuchEntity{ID: e.Value}
	case "ErrNoSuchCategory":
		return occi.ErrNoSuchCategory{ID: e.Value}
	case "CategoryError":
		return errors.New(e.Message)
	default:
		return errors.New(e.Message)
	}
}

// FromPanic populates an error response based on a panic.  Typical use
// is:
//
//     defer func() {
//         if obj := recover(); obj != nil {
//             resp := restdata.ErrorResponse{}
//             resp.FromPanic(obj)
//             // write resp out as makes sense
//         }
//    }
func (e *ErrorResponse) FromPanic(obj interface{}) {
	e.Error = "panic"
	if recoveredError, isError := obj.(error); isError {
		e.Message = recoveredError.Error()
	} else {
		e.Message = fmt.Sprintf("%+v", obj)
	}
	var stack [4096]byte
	len := runtime.Stack(stack[:], false)
	e.Stack = string(stack[:len])
}
