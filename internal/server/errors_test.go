package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/ats-tailor/internal/analysis"
	"github.com/jonathan/ats-tailor/internal/fetch"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"email exists", &ErrEmailAlreadyExists{Email: "a@example.com"}, http.StatusConflict},
		{"bad credentials", &ErrInvalidCredentials{}, http.StatusUnauthorized},
		{"password mismatch", &ErrPasswordMismatch{}, http.StatusUnauthorized},
		{"not found", &ErrNotFound{Resource: "job", ID: uuid.New()}, http.StatusNotFound},
		{"validation", &ErrValidation{Field: "title", Message: "required"}, http.StatusBadRequest},
		{"wrapped validation", fmt.Errorf("decode: %w", &ErrValidation{Message: "x"}), http.StatusBadRequest},
		{"profile validation", &analysis.ValidationError{Message: "empty"}, http.StatusBadRequest},
		{"body too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{"model call", &analysis.APICallError{Message: "timeout"}, http.StatusBadGateway},
		{"fetch", fmt.Errorf("posting: %w", &fetch.Error{URL: "u", Message: "m"}), http.StatusBadGateway},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrValidation_Error(t *testing.T) {
	assert.Equal(t, "validation error: title - required", (&ErrValidation{Field: "title", Message: "required"}).Error())
	assert.Equal(t, "validation error: invalid request body", (&ErrValidation{Message: "invalid request body"}).Error())
}
