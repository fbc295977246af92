package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/crm-backend/internal/errors"
	"github.com/unclebandit/crm-backend/internal/model"
)

func TestParseCustomerFilter(t *testing.T) {
	q, err := url.ParseQuery("page=2&limit=5&search=smith&city=Pune&state=MH&pin_code=411001&sortBy=last_name&sortOrder=desc&unknown=1")
	require.NoError(t, err)

	assert.Equal(t, model.CustomerFilter{
		Page:      2,
		Limit:     5,
		Search:    "smith",
		City:      "Pune",
		State:     "MH",
		PinCode:   "411001",
		SortBy:    "last_name",
		SortOrder: "desc",
	}, ParseCustomerFilter(q))
}

func TestParseCustomerFilter_NonNumericPaging(t *testing.T) {
	q, err := url.ParseQuery("page=abc&limit=")
	require.NoError(t, err)

	f := ParseCustomerFilter(q).Normalize()
	assert.Equal(t, model.DefaultPage, f.Page)
	assert.Equal(t, model.DefaultLimit, f.Limit)
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"not found", appErrors.NewNotFound("Customer", 3), http.StatusNotFound, "Customer not found"},
		{"duplicate", appErrors.ErrDuplicatePhone, http.StatusBadRequest, "Phone number already exists"},
		{"internal", errors.New(`pq: relation "customers" does not exist`), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, httptest.NewRequest(http.MethodGet, "/customers", nil), tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var res ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
			assert.Equal(t, tt.body, res.Error)
			assert.NotContains(t, w.Body.String(), "pq:")
		})
	}
}

func TestWriteError_ValidationFields(t *testing.T) {
	w := httptest.NewRecorder()
	err := appErrors.NewValidation("All fields are required", map[string]string{"last_name": "is required"})
	WriteError(w, httptest.NewRequest(http.MethodPost, "/customers", nil), err)

	var res ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&res))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]string{"last_name": "is required"}, res.Fields)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestPathID(t *testing.T) {
	r := withURLParam(httptest.NewRequest(http.MethodGet, "/customers/12", nil), "id", "12")
	id, err := pathID(r, "Customer")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	for _, raw := range []string{"0", "99999999999999999999", ""} {
		r := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", raw)
		_, err := pathID(r, "Address")
		assert.Equal(t, "Address not found", appErrors.PublicMessage(err), raw)
	}
}

func TestDecodeBody(t *testing.T) {
	var in model.CustomerInput
	r := httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(`{"first_name":`))
	err := decodeBody(r, &in)
	assert.Equal(t, http.StatusBadRequest, appErrors.HTTPStatus(err))
	assert.Equal(t, "Invalid request body", appErrors.PublicMessage(err))
}
