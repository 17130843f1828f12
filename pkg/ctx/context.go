// Package ctx provides a small request context for storefront handlers.
//
// A handler receives a single *Context with helpers for path/query access,
// JSON binding and the API's response shapes:
//
//	func (pc *ProductController) Show(c *ctx.Context) {
//	    id, err := requests.ParseID(c.Param("id"), "Invalid product id")
//	    if err != nil {
//	        c.Fail("products.show", err)
//	        return
//	    }
//	    ...
//	    c.Success(product)
//	}
//
//	r.Get("/products/{id}", "products.show", ctx.Wrap(pc.Show))
package ctx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/storefront/pkg/apperr"
	"github.com/shashiranjanraj/storefront/pkg/bind"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/orm"
	"github.com/shashiranjanraj/storefront/pkg/response"
	"github.com/shashiranjanraj/storefront/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc into a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// ─── Context ──────────────────────────────────────────────────────────────────

// Context wraps a request/response pair.
type Context struct {
	W http.ResponseWriter
	R *http.Request
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter ("/products/{id}" → c.Param("id")).
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// QueryValues returns the parsed query string.
func (c *Context) QueryValues() url.Values { return c.R.URL.Query() }

// Context returns the request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// Log returns the request-scoped logger.
func (c *Context) Log() *slog.Logger { return logger.WithCtx(c.R.Context()) }

// ─── Binding ──────────────────────────────────────────────────────────────────

// BindJSON decodes the body into dest and runs its validate tags. Failures are
// returned as InvalidInput errors carrying message; nothing is written.
func (c *Context) BindJSON(dest any, message string) error {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		return apperr.Invalid(message, err)
	}
	if validate.HasErrors(errs) {
		field, msg := validate.First(errs)
		return apperr.Invalid(message, errors.New(field+": "+msg))
	}
	return nil
}

// ─── Response helpers ─────────────────────────────────────────────────────────

// JSON writes v with the given status.
func (c *Context) JSON(code int, v any) { response.JSON(c.W, code, v) }

// Success sends a 200 with data.
func (c *Context) Success(data any) { response.Success(c.W, data) }

// Created sends a 201 with data.
func (c *Context) Created(data any) { response.Created(c.W, data) }

// Paginated sends a 200 {"data": [...], "pagination": {...}}.
func (c *Context) Paginated(data any, p orm.Pagination) { response.Paginated(c.W, data, p) }

// NoContent sends a 204 with no body.
func (c *Context) NoContent() { response.NoContent(c.W) }

// Fail logs err against operation, counts it, and answers with the status
// and public message its apperr kind maps to. Unhandled causes are logged at
// ERROR and never reach the client; client errors log at WARN.
func (c *Context) Fail(operation string, err error) {
	kind := apperr.KindOf(err)
	status := apperr.StatusCode(err)

	level := slog.LevelWarn
	if kind == apperr.Unhandled {
		level = slog.LevelError
	}
	c.Log().Log(c.R.Context(), level, operation+" failed",
		"kind", kind.String(),
		"status", status,
		"error", err,
	)
	metrics.RecordHandlerError(operation, kind.String())

	response.Error(c.W, status, apperr.PublicMessage(err))
}
