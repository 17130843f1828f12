package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	_ "github.com/shashiranjanraj/storefront/database/migrations"
	"github.com/shashiranjanraj/storefront/database/seeders"
	"github.com/shashiranjanraj/storefront/pkg/database"
	"github.com/shashiranjanraj/storefront/pkg/migration"
	"github.com/shashiranjanraj/storefront/pkg/router"
	"github.com/shashiranjanraj/storefront/pkg/testkit"
)

var fixtures = map[string]seeders.SeederFunc{
	"products": seeders.SeedProducts,
	"comments": seeders.SeedComments,
}

func freshDB(t *testing.T, names []string) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	_, err = migration.New(db, nil).Up()
	require.NoError(t, err)

	for _, name := range names {
		seed, ok := fixtures[name]
		require.True(t, ok, "unknown fixture %q", name)
		require.NoError(t, seed(db), name)
	}
	return db
}

func newAPI(db *gorm.DB) http.Handler {
	r := router.New()
	RegisterAPI(r, db)
	RegisterHealth(r, db)
	return r.Handler()
}

func TestAPIScenarios(t *testing.T) {
	testkit.RunDir(t, "testdata", func(t *testing.T, s *testkit.Scenario) http.Handler {
		return newAPI(freshDB(t, s.Fixtures))
	})
}

func TestDeleteTwice(t *testing.T) {
	h := newAPI(freshDB(t, []string{"products"}))

	del := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/products/1", nil))
		return rec
	}

	first := del()
	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Empty(t, first.Body.String())

	second := del()
	assert.Equal(t, http.StatusNotFound, second.Code)
	assert.JSONEq(t, `{"error":"Product not found"}`, second.Body.String())
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newAPI(freshDB(t, nil)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"database":"up"}}`, rec.Body.String())
}

func TestRouteTable(t *testing.T) {
	r := router.New()
	RegisterAPI(r, nil)
	RegisterHealth(r, nil)

	got := make(map[string]string)
	for _, ri := range r.Routes() {
		got[ri.Name] = ri.Method + " " + ri.Path
	}
	assert.Equal(t, map[string]string{
		"comments.index":   "GET /api/articles/{id}/comments",
		"products.index":   "GET /api/products",
		"products.store":   "POST /api/products",
		"products.show":    "GET /api/products/{id}",
		"products.update":  "PUT /api/products/{id}",
		"products.patch":   "PATCH /api/products/{id}",
		"products.destroy": "DELETE /api/products/{id}",
		"health":           "GET /health",
	}, got)
}
