// SPDX-License-Identifier: MIT

package openapi_server

import (
	"errors"
	"net/http"

	"github.com/natevvv/grid-astar/pkg/routing"
	"github.com/natevvv/grid-astar/pkg/search"
)

// ParsingError indicates that an error has occurred when parsing request parameters
type ParsingError struct {
	Err error
}

func (e *ParsingError) Unwrap() error {
	return e.Err
}

func (e *ParsingError) Error() string {
	return e.Err.Error()
}

// ErrorHandler defines the required method for handling error. You may implement it and inject this into a controller if
// you would like errors to be handled differently from the DefaultErrorHandler
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error, result *ImplResponse)

// DefaultErrorHandler defines the default logic on how to handle errors from the controller. Any errors from parsing
// request params will return a StatusBadRequest. Otherwise, the error code originating from the servicer will be used.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error, result *ImplResponse) {
	if _, ok := err.(*ParsingError); ok {
		// Handle parsing errors
		EncodeJSONResponse(ErrorResponse{Message: err.Error()}, func(i int) *int { return &i }(http.StatusBadRequest), w)
	} else {
		// Handle all other errors
		code := statusCode(err)
		if result != nil && result.Code != 0 {
			code = result.Code
		}
		EncodeJSONResponse(ErrorResponse{Message: err.Error()}, &code, w)
	}
}

// statusCode maps domain errors to http status codes
func statusCode(err error) int {
	switch {
	case errors.Is(err, routing.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, search.ErrInvalidConfiguration), errors.Is(err, routing.ErrNoFreeCells):
		return http.StatusBadRequest
	case errors.Is(err, search.ErrSearchNotStarted):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
