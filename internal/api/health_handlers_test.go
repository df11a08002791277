package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler(t *testing.T) {
	ts := setupTestServer(t, &fakeCompleter{}, &fakeCatalog{})

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var body HealthResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "OK", body.Status)
	assert.Equal(t, "Darcy backend is running!", body.Message)
	assert.True(t, strings.HasPrefix(body.Instance, "srv-"))
}
