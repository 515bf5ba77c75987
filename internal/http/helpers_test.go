package http

import (
	"crypto/tls"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParseIDParam_Valid(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "123"}}

	id, ok := parseIDParam(c, "id")

	assert.True(t, ok)
	assert.Equal(t, uint(123), id)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestParseIDParam_Invalid(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	id, ok := parseIDParam(c, "id")

	assert.False(t, ok)
	assert.Equal(t, uint(0), id)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"id"`)
	assert.True(t, c.IsAborted())
}

func TestParseIDParam_Negative(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "-1"}}

	id, ok := parseIDParam(c, "id")

	assert.False(t, ok)
	assert.Equal(t, uint(0), id)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestParseIDParam_Range(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"0", true},
		{"9223372036854775807", true},
		{"9223372036854775808", false},
		{"18446744073709551615", false},
		{"99999999999999999999999", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Params = gin.Params{{Key: "id", Value: tt.value}}

			_, ok := parseIDParam(c, "id")

			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
				assert.Contains(t, w.Body.String(), "must not exceed")
			}
		})
	}
}

func TestRespondInternalError_HidesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondInternalError(c, errors.New("password=hunter2"), "test")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "hunter2")

	var response ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "internal server error", response.Error)
	assert.Equal(t, CodeInternal, response.Code)
}

func TestRespondNotFound(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	respondNotFound(c, "book")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"book not found","code":"not_found"}`, w.Body.String())
}

func TestRequestBaseURL(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(r *http.Request)
		expected string
	}{
		{"plain http", func(r *http.Request) {}, "http://books.test"},
		{"forwarded proto", func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "https") }, "https://books.test"},
		{"tls", func(r *http.Request) { r.TLS = &tls.ConnectionState{} }, "https://books.test"},
		{"forwarded proto is case-insensitive", func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "HTTPS") }, "https://books.test"},
		{"unknown forwarded proto is ignored", func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "javascript") }, "http://books.test"},
		{"forwarded proto cannot inject a url", func(r *http.Request) { r.Header.Set("X-Forwarded-Proto", "https://evil.test/#") }, "http://books.test"},
		{"unknown forwarded proto falls back to tls", func(r *http.Request) {
			r.Header.Set("X-Forwarded-Proto", "ftp")
			r.TLS = &tls.ConnectionState{}
		}, "https://books.test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "http://books.test/book/1", nil)
			tt.setup(c.Request)

			assert.Equal(t, tt.expected, requestBaseURL(c))
		})
	}
}
