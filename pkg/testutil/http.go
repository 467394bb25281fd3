// Package testutil holds request builders and assertions shared by the
// identity handler and service tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "idsynth/pkg/domain-errors"
	"idsynth/pkg/platform/httputil"
)

// NewJSONRequest builds a request whose body is body marshalled to JSON.
func NewJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err, "marshal request body")
	return NewRawRequest(t, method, path, string(raw))
}

// NewRawRequest builds a JSON request from a literal body, for payloads that
// cannot be produced by marshalling a Go value.
func NewRawRequest(t *testing.T, method, path, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewRequest builds a request without a body.
func NewRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	return httptest.NewRequest(method, path, nil)
}

// DoRequest serves req and returns the recorded response.
func DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// UnmarshalResponse decodes the response body into a T.
func UnmarshalResponse[T any](t *testing.T, rr *httptest.ResponseRecorder) *T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), "unmarshal response: %s", rr.Body.String())
	return &out
}

// AssertError checks that the response carries code together with the
// status the error mapping assigns to it, and returns the decoded body.
func AssertError(t *testing.T, rr *httptest.ResponseRecorder, code dErrors.Code) httputil.ErrorResponse {
	t.Helper()
	assert.Equal(t, httputil.StatusFor(code), rr.Code, "status for %s", code)
	resp := UnmarshalResponse[httputil.ErrorResponse](t, rr)
	assert.Equal(t, string(code), resp.Error)
	return *resp
}
