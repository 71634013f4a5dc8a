package router_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/hearth-ledger/backend/internal/controllers"
	"github.com/hearth-ledger/backend/internal/router"
	"github.com/hearth-ledger/backend/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func routes(t *testing.T) []string {
	r, teardown, err := router.Config()
	require.NoError(t, err)
	defer teardown()

	router.AttachRoutes(controllers.Controller{}, r.Group("/"))

	paths := []string{}
	for _, route := range r.Routes() {
		paths = append(paths, route.Path)
	}
	return paths
}

func TestPprofOn(t *testing.T) {
	t.Setenv("ENABLE_PPROF", "true")
	assert.Contains(t, routes(t), "/debug/pprof/")
}

func TestPprofOff(t *testing.T) {
	t.Setenv("ENABLE_PPROF", "false")

	for _, path := range routes(t) {
		assert.NotContains(t, path, "pprof", "pprof routes are registered erroneously! Route: %s", path)
	}
}

func TestRoutes(t *testing.T) {
	paths := routes(t)

	for _, path := range []string{
		"/docs/*any",
		"/healthz",
		"/metrics",
		"/version",
		"/v1/accounts/:id/sync",
		"/v1/accounts/:id/sync-outcomes",
		"/v1/households/:id/recurring/detect",
		"/v1/households/:id/recurring-patterns",
		"/v1/onezero/otp/trigger",
		"/v1/onezero/otp/verify",
	} {
		assert.Contains(t, paths, path)
	}
}

// TestCorsSetting checks that setting of CORS works.
// It does not check the actual headers as this is already done in testing of the module.
func TestCorsSetting(t *testing.T) {
	t.Setenv("CORS_ALLOW_ORIGINS", "http://localhost:3000 https://example.com")

	_, teardown, err := router.Config()
	defer teardown()
	assert.Nil(t, err)
}

func TestConfigTwice(t *testing.T) {
	_, teardown, err := router.Config()
	require.NoError(t, err)
	defer teardown()

	_, _, err = router.Config()
	assert.Error(t, err, "metrics are already registered")
}

func TestGetRoot(t *testing.T) {
	recorder := test.Request(t, controllers.Controller{}, http.MethodGet, "http://example.com/", "")
	test.AssertHTTPStatus(t, &recorder, http.StatusOK)

	var response router.RootResponse
	test.DecodeResponse(t, &recorder, &response)
	assert.Equal(t, "http://example.com/docs/index.html", response.Links.Docs)
	assert.Equal(t, "http://example.com/healthz", response.Links.Healthz)
	assert.Equal(t, "http://example.com/v1", response.Links.V1)
}

func TestGetVersion(t *testing.T) {
	recorder := test.Request(t, controllers.Controller{}, http.MethodGet, "http://example.com/version", "")
	test.AssertHTTPStatus(t, &recorder, http.StatusOK)

	var response router.VersionResponse
	test.DecodeResponse(t, &recorder, &response)
	assert.Equal(t, "0.0.0", response.Data.Version)
}

func TestMetrics(t *testing.T) {
	os.Setenv("LOG_FORMAT", "human")

	r, teardown, err := router.Config()
	require.NoError(t, err)
	defer teardown()
	router.AttachRoutes(controllers.Controller{}, r.Group("/"))

	for _, path := range []string{"/version", "/metrics"} {
		recorder := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "http://example.com"+path, nil)
		r.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusOK, recorder.Code)

		if path == "/metrics" {
			assert.True(t, strings.Contains(recorder.Body.String(), `requests_total{code="200",method="GET",url="/version"} 1`), recorder.Body.String())
		}
	}
}

func TestDocs(t *testing.T) {
	recorder := test.Request(t, controllers.Controller{}, http.MethodGet, "http://example.com/docs/doc.json", "")
	test.AssertHTTPStatus(t, &recorder, http.StatusOK)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]any `json:"paths"`
	}
	test.DecodeResponse(t, &recorder, &doc)
	assert.Equal(t, "Hearth Ledger", doc.Info.Title)
	assert.Contains(t, doc.Paths, "/v1/accounts/{id}/sync")
}

func TestMethodNotAllowed(t *testing.T) {
	recorder := test.Request(t, controllers.Controller{}, http.MethodDelete, "http://example.com/version", "")
	test.AssertHTTPStatus(t, &recorder, http.StatusMethodNotAllowed)
}
