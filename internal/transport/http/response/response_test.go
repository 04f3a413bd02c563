package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iusta/account-service/internal/domain"
	appctx "github.com/iusta/account-service/internal/pkg/context"
)

func TestOK_WrapsData(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, map[string]any{"hello": "world"}, env.Data)
}

func TestWriteError_DomainKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ErrMissingField("email"), http.StatusBadRequest, "missing_field"},
		{domain.ErrInvalidCredentials(), http.StatusUnauthorized, "invalid_credentials"},
		{domain.ErrEmailNotConfirmed(), http.StatusUnauthorized, "email_not_confirmed"},
		{domain.ErrNotFound(), http.StatusNotFound, "not_found"},
		{domain.ErrEmailAlreadyRegistered(), http.StatusConflict, "email_already_registered"},
		{domain.ErrDBUnavailable(nil), http.StatusServiceUnavailable, "db_unavailable"},
		{domain.ErrInternal(nil), http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			WriteError(rec, r, tc.err)

			assert.Equal(t, tc.status, rec.Code)

			var body ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.code, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestWriteError_NonDomainErrorIs500(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	WriteError(rec, r, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "internal_error", body.Error.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error(), "internal details must not leak")
}

func TestWriteError_IncludesRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r = r.WithContext(appctx.WithRequestID(r.Context(), "req-42"))

	WriteError(rec, r, domain.ErrNotFound())

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "req-42", body.Error.RequestID)
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		A string `json:"a"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"b"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "b", dst.A)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{not json`))
	assert.Error(t, DecodeJSON(r, &dst))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"b"}{"a":"c"}`))
	assert.Error(t, DecodeJSON(r, &dst), "trailing JSON values are rejected")
}
