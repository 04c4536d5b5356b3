package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/amitrajade/vidtube-be/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]string{"username": "ana"}, "User registered successfully")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var envelope Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, http.StatusCreated, envelope.StatusCode)
	assert.True(t, envelope.Success)
	assert.Equal(t, "User registered successfully", envelope.Message)
}

func TestErrorResolvesTaxonomy(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, apperr.Validation("All fields are required", "email is required"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var envelope ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "All fields are required", envelope.Message)
	assert.Equal(t, []string{"email is required"}, envelope.Errors)
}

func TestErrorDefaultsToInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, errors.New("database exploded"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var envelope ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	// Internal details never leak to the client.
	assert.Equal(t, "Something went wrong", envelope.Message)
	assert.Empty(t, envelope.Errors)
}

func TestErrorUnwrapsTaxonomy(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := fmt.Errorf("session flow: %w", apperr.Unauthorized("Refresh token is expired or used"))
	Error(rec, wrapped)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
