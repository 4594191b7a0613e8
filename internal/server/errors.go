// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package server

import (
	"encoding/json"
	"errors"
	"net/http"

	qr "github.com/BadassAman4014/Simple-Qr-code-Generator"
	"github.com/BadassAman4014/Simple-Qr-code-Generator/history"
)

// ErrorResponse is the body of an error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeDataTooLong  = "DATA_TOO_LONG"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// classify returns the HTTP status and error code for err.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, qr.ErrInvalidInput), errors.Is(err, qr.ErrArgs):
		return http.StatusBadRequest, ErrCodeInvalidInput
	case errors.Is(err, qr.ErrDataTooLong):
		return http.StatusRequestEntityTooLarge, ErrCodeDataTooLong
	case errors.Is(err, history.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound
	default:
		return http.StatusInternalServerError, ErrCodeInternal
	}
}

// WriteError writes an ErrorResponse.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    code,
	})
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
