package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/flight-dashboard/internal/handler"
)

// TestGetHealth_returns200WithOKStatus verifies that GET /healthz returns
// HTTP 200 and a JSON body of {"status":"ok"}.
func TestGetHealth_returns200WithOKStatus(t *testing.T) {
	h := newRouter(handler.NewServer(nil, nil))

	rec := serve(t, h, "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Equal(t, "ok", body.Status)
}

func TestGetOpenAPI(t *testing.T) {
	doc := []byte("openapi: 3.0.3\n")
	h := newRouter(handler.NewServer(nil, nil, handler.WithOpenAPI(doc)))

	rec := serve(t, h, "/openapi.yaml")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Equal(t, doc, rec.Body.Bytes())
}

func TestGetOpenAPI_NotConfigured(t *testing.T) {
	h := newRouter(handler.NewServer(nil, nil))

	rec := serve(t, h, "/openapi.yaml")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
