package reqid_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/storefront/pkg/reqid"
)

func serve(t *testing.T, inbound string) (seen string, rec *httptest.ResponseRecorder) {
	t.Helper()
	h := reqid.Middleware()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = reqid.FromCtx(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if inbound != "" {
		req.Header.Set(reqid.Header, inbound)
	}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return seen, rec
}

func TestMiddleware_GeneratesUUID(t *testing.T) {
	seen, rec := serve(t, "")

	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(reqid.Header))
}

func TestMiddleware_HonoursUpstreamID(t *testing.T) {
	seen, rec := serve(t, "gateway-42")

	assert.Equal(t, "gateway-42", seen)
	assert.Equal(t, "gateway-42", rec.Header().Get(reqid.Header))
}

func TestMiddleware_ReplacesOversizedID(t *testing.T) {
	seen, _ := serve(t, strings.Repeat("x", 500))

	assert.Len(t, seen, 36)
}

func TestFromCtx_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", reqid.FromCtx(req.Context()))
}

func TestMiddleware_RejectsUnsafeIDs(t *testing.T) {
	for _, inbound := range []string{"two words", "line\nbreak", "quote\"d", "  "} {
		seen, rec := serve(t, inbound)

		_, err := uuid.Parse(seen)
		assert.NoError(t, err, "%q should be replaced", inbound)
		assert.Equal(t, seen, rec.Header().Get(reqid.Header))
	}

	seen, _ := serve(t, "edge-01:req_7.a")
	assert.Equal(t, "edge-01:req_7.a", seen)
}
