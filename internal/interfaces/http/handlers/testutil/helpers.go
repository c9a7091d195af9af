// Package testutil holds helpers for handler tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/swirepay/swirepay-woocommerce-plugin/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewTestContext builds a gin context around a recorder. A non-nil body is
// sent as JSON.
func NewTestContext(method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	if body == nil {
		c.Request = httptest.NewRequest(method, path, nil)
		return c, w
	}

	raw, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	c.Request = httptest.NewRequest(method, path, bytes.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func SetURLParam(c *gin.Context, key, value string) {
	c.Params = append(c.Params, gin.Param{Key: key, Value: value})
}

func SetQueryParams(c *gin.Context, params map[string]string) {
	q := c.Request.URL.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	c.Request.URL.RawQuery = q.Encode()
}

// APIResponse is the envelope written by utils.SuccessResponse and
// utils.ErrorResponse.
type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ParseResponse decodes the envelope and fails the test on malformed JSON.
func ParseResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return resp
}

// DecodeData unmarshals the envelope's data field into target.
func DecodeData(t *testing.T, resp APIResponse, target any) {
	t.Helper()
	require.NotEmpty(t, resp.Data, "response has no data")
	require.NoError(t, json.Unmarshal(resp.Data, target))
}

func NewMockLogger() logger.Interface {
	return logger.NewNopLogger()
}
