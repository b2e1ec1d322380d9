// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package utils holds the helpers shared by the rest handlers.
package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// JSONContentType is set on every JSON response.
const JSONContentType = "application/json; charset=utf-8"

// statusError carries the http status a handler error is answered with.
type statusError struct {
	error
	status int
}

func (e *statusError) Unwrap() error { return e.error }

// BadRequest marks cause as a client error.
func BadRequest(cause error) error {
	return &statusError{cause, http.StatusBadRequest}
}

// Forbidden marks cause as a request the node refuses to serve, e.g. over a configured limit.
func Forbidden(cause error) error {
	return &statusError{cause, http.StatusForbidden}
}

// StatusCode returns the status err should be answered with.
// Errors not created by this package map to 500.
func StatusCode(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.status
	}
	return http.StatusInternalServerError
}

// HandlerFunc is a http handler reporting failures by its returned error.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc converts f into a http.HandlerFunc writing the error message
// with the status from StatusCode.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			http.Error(w, err.Error(), StatusCode(err))
		}
	}
}

// ParseJSON decodes one JSON value from r, rejecting unknown fields.
func ParseJSON(r io.Reader, v any) error {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// WriteJSON responds obj in JSON encoding.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}
