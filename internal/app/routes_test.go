package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/pathfinder/pathfinder/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedBody = `{"status":"success","data":[{
	"title":"Go Hack","description":"Fun","event_type":"hackathon",
	"date":{"start":"2024-03-15T10:00:00Z","end":"2024-03-16T18:00:00Z"},
	"mode":"online","tech_stack":["go"],
	"prizes":{"total_pool":"unknown"},"registration":{"url":"unknown"},
	"source_url":"https://ex.com/e"}]}`

func setupRouter(t *testing.T) (http.Handler, *Dependencies) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feedBody))
	}))
	t.Cleanup(upstream.Close)

	cfg := config.Defaults()
	cfg.Source.Url = upstream.URL
	deps, err := BuildDependencies(context.Background(), nil, cfg)
	require.NoError(t, err)

	r := mux.NewRouter()
	SetupMiddleware(r)
	RegisterRoutes(r, deps)
	return cors(r), deps
}

func TestRegisterRoutes(t *testing.T) {
	t.Run("should serve banner", func(t *testing.T) {
		handler, _ := setupRouter(t)
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		var body bannerResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, serviceVersion, body.Version)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("should answer preflight requests", func(t *testing.T) {
		handler, _ := setupRouter(t)
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, httptest.NewRequest("OPTIONS", "/api/events/refresh", nil))

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("should refresh from upstream and expose metrics", func(t *testing.T) {
		handler, deps := setupRouter(t)

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("POST", "/api/events/refresh", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Len(t, deps.CatalogService.List("hackathon"), 1)

		rr = httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `pathfinder_catalog_refreshes_total{result="ok"} 1`)
	})

	t.Run("should report google integration as unavailable", func(t *testing.T) {
		handler, deps := setupRouter(t)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("POST", "/api/events/refresh", nil))
		id := deps.CatalogService.List("all")[0].ID().String()

		rr = httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("POST", "/api/events/"+id+"/google", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	})
}
