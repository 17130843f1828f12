package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/router"
)

// ─── Mocks ───────────────────────────────────────────────────────────────────

type mockProductStore struct{ mock.Mock }

func (m *mockProductStore) List(c context.Context, q repositories.ProductQuery) ([]models.Product, error) {
	args := m.Called(c, q)
	products, _ := args.Get(0).([]models.Product)
	return products, args.Error(1)
}

func (m *mockProductStore) Find(c context.Context, id uint) (*models.Product, error) {
	args := m.Called(c, id)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func (m *mockProductStore) Create(c context.Context, p *models.Product) error {
	return m.Called(c, p).Error(0)
}

func (m *mockProductStore) Update(c context.Context, id uint, changes repositories.ProductChanges) (*models.Product, error) {
	args := m.Called(c, id, changes)
	p, _ := args.Get(0).(*models.Product)
	return p, args.Error(1)
}

func (m *mockProductStore) Delete(c context.Context, id uint) error {
	return m.Called(c, id).Error(0)
}

type mockCommentStore struct{ mock.Mock }

func (m *mockCommentStore) List(c context.Context, q repositories.CommentQuery) (repositories.CommentPage, error) {
	args := m.Called(c, q)
	page, _ := args.Get(0).(repositories.CommentPage)
	return page, args.Error(1)
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

var anyCtx = mock.Anything

func newHandler(products ProductStore, comments CommentStore) http.Handler {
	r := router.New()
	pc := NewProductController(products)
	cc := NewCommentController(comments)

	r.Get("/api/articles/{id}/comments", "comments.index", ctx.Wrap(cc.Index))
	r.Get("/api/products", "products.index", ctx.Wrap(pc.Index))
	r.Get("/api/products/{id}", "products.show", ctx.Wrap(pc.Show))
	r.Post("/api/products", "products.store", ctx.Wrap(pc.Store))
	r.Put("/api/products/{id}", "products.update", ctx.Wrap(pc.Update))
	r.Patch("/api/products/{id}", "products.patch", ctx.Wrap(pc.Update))
	r.Delete("/api/products/{id}", "products.destroy", ctx.Wrap(pc.Destroy))
	return r.Handler()
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func ptr[T any](v T) *T { return &v }

// ─── Products ────────────────────────────────────────────────────────────────

func TestProductIndex(t *testing.T) {
	store := new(mockProductStore)
	want := repositories.ProductQuery{
		Search:  "lamp",
		OrderBy: repositories.Ordering{Column: repositories.SortPrice},
		Offset:  2,
		Limit:   2,
	}
	store.On("List", anyCtx, want).Return([]models.Product{{ID: 1, Name: "Lamp"}, {ID: 2, Name: "Lamp 2"}}, nil)

	rec := do(newHandler(store, nil), http.MethodGet, "/api/products?page=2&limit=2&sort=price_asc&search=lamp", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data       []models.Product `json:"data"`
		Pagination struct {
			Total int `json:"total"`
			Page  int `json:"page"`
			Limit int `json:"limit"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Data, 2)
	assert.Equal(t, 2, body.Pagination.Total)
	assert.Equal(t, 2, body.Pagination.Page)
	assert.Equal(t, 2, body.Pagination.Limit)
	store.AssertExpectations(t)
}

func TestProductIndexDefaultsAndUnknownSort(t *testing.T) {
	store := new(mockProductStore)
	store.On("List", anyCtx, repositories.ProductQuery{
		OrderBy: repositories.Ordering{Column: repositories.SortCreatedAt, Desc: true},
		Limit:   10,
	}).Return([]models.Product{}, nil).Twice()

	h := newHandler(store, nil)
	for _, target := range []string{"/api/products", "/api/products?sort=xyz"} {
		rec := do(h, http.MethodGet, target, "")
		require.Equal(t, http.StatusOK, rec.Code, target)
		assert.JSONEq(t, `{"data":[],"pagination":{"total":0,"page":1,"limit":10}}`, rec.Body.String())
	}
	store.AssertExpectations(t)
}

func TestProductIndexErrors(t *testing.T) {
	store := new(mockProductStore)
	store.On("List", anyCtx, mock.Anything).Return(nil, errors.New("connection refused"))
	h := newHandler(store, nil)

	rec := do(h, http.MethodGet, "/api/products?page=0", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid page"}`, rec.Body.String())

	rec = do(h, http.MethodGet, "/api/products", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestProductShow(t *testing.T) {
	store := new(mockProductStore)
	store.On("Find", anyCtx, uint(7)).Return(&models.Product{ID: 7, Name: "Chair", Tags: []string{}}, nil)
	store.On("Find", anyCtx, uint(999)).Return(nil, errors.WithMessage(repositories.ErrNotFound, "products: find"))
	store.On("Find", anyCtx, uint(8)).Return(nil, errors.New("disk full"))
	h := newHandler(store, nil)

	rec := do(h, http.MethodGet, "/api/products/7", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Chair"`)

	rec = do(h, http.MethodGet, "/api/products/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Product not found"}`, rec.Body.String())

	rec = do(h, http.MethodGet, "/api/products/8", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = do(h, http.MethodGet, "/api/products/abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid product id"}`, rec.Body.String())
}

func TestProductStore(t *testing.T) {
	store := new(mockProductStore)
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.On("Create", anyCtx, mock.MatchedBy(func(p *models.Product) bool {
		return p.Name == "A" && p.Price == 10 && p.Like == 0 && len(p.Tags) == 1
	})).Run(func(args mock.Arguments) {
		p := args.Get(1).(*models.Product)
		p.ID = 41
		p.CreatedAt = created
		p.UpdatedAt = created
	}).Return(nil)
	h := newHandler(store, nil)

	rec := do(h, http.MethodPost, "/api/products", `{"name":"A","price":10,"img":"a.png","description":"d","tags":["x"],"like":99}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint(41), got.ID)
	assert.Equal(t, "A", got.Name)
	assert.Equal(t, 10.0, got.Price)
	assert.Equal(t, "a.png", got.Img)
	assert.Equal(t, []string{"x"}, got.Tags)
	assert.Equal(t, 0, got.Like, "like is not accepted on create")
	assert.True(t, created.Equal(got.CreatedAt))
	store.AssertExpectations(t)

	rec = do(h, http.MethodPost, "/api/products", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid request body"}`, rec.Body.String())
}

func TestProductStoreWithoutBody(t *testing.T) {
	store := new(mockProductStore)
	store.On("Create", anyCtx, mock.MatchedBy(func(p *models.Product) bool {
		return p.Name == "" && p.Price == 0 && p.Tags == nil
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Product).ID = 42
	}).Return(nil)

	rec := do(newHandler(store, nil), http.MethodPost, "/api/products", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":42`)
	store.AssertExpectations(t)
}

func TestProductStoreFailure(t *testing.T) {
	store := new(mockProductStore)
	store.On("Create", anyCtx, mock.Anything).Return(errors.New("constraint"))

	rec := do(newHandler(store, nil), http.MethodPost, "/api/products", `{}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
}

func TestProductUpdate(t *testing.T) {
	store := new(mockProductStore)
	store.On("Update", anyCtx, uint(3), repositories.ProductChanges{Price: ptr(0.0), Like: ptr(5)}).
		Return(&models.Product{ID: 3, Name: "Lamp", Price: 0, Like: 5, Tags: []string{}}, nil).Twice()
	store.On("Update", anyCtx, uint(404), mock.Anything).
		Return(nil, errors.WithMessage(repositories.ErrNotFound, "products: update"))
	h := newHandler(store, nil)

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		rec := do(h, method, "/api/products/3", `{"price":0,"like":5}`)
		require.Equal(t, http.StatusOK, rec.Code, method)
		assert.Contains(t, rec.Body.String(), `"like":5`)
	}

	rec := do(h, http.MethodPut, "/api/products/404", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Product not found"}`, rec.Body.String())

	rec = do(h, http.MethodPut, "/api/products/x", `{"name":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodPut, "/api/products/3", `[1,2]`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	store.AssertExpectations(t)
}

func TestProductDestroy(t *testing.T) {
	store := new(mockProductStore)
	store.On("Delete", anyCtx, uint(5)).Return(nil).Once()
	store.On("Delete", anyCtx, uint(5)).Return(errors.WithMessage(repositories.ErrNotFound, "products: delete")).Once()
	store.On("Delete", anyCtx, uint(6)).Return(errors.New("deadlock"))
	h := newHandler(store, nil)

	rec := do(h, http.MethodDelete, "/api/products/5", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(h, http.MethodDelete, "/api/products/5", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Product not found"}`, rec.Body.String())

	rec = do(h, http.MethodDelete, "/api/products/6", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	store.AssertExpectations(t)
}

// ─── Comments ────────────────────────────────────────────────────────────────

func TestCommentIndex(t *testing.T) {
	store := new(mockCommentStore)
	next := uint(11)
	store.On("List", anyCtx, repositories.CommentQuery{ArticleID: 5, Limit: 10}).
		Return(repositories.CommentPage{
			Items:      []models.Comment{{ID: 10, ArticleID: 5, Author: "a", Content: "hi"}, {ID: 11, ArticleID: 5}},
			NextCursor: &next,
		}, nil)
	store.On("List", anyCtx, repositories.CommentQuery{ArticleID: 5, Cursor: &next, Limit: 2, Desc: true}).
		Return(repositories.CommentPage{Items: []models.Comment{}}, nil)
	h := newHandler(nil, store)

	rec := do(h, http.MethodGet, "/api/articles/5/comments", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Items      []models.Comment `json:"items"`
		NextCursor *uint            `json:"nextCursor"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Items, 2)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, uint(11), *page.NextCursor)

	rec = do(h, http.MethodGet, "/api/articles/5/comments?cursor=11&limit=2&sort=desc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[],"nextCursor":null}`, rec.Body.String())
	store.AssertExpectations(t)
}

func TestCommentIndexErrors(t *testing.T) {
	store := new(mockCommentStore)
	store.On("List", anyCtx, mock.Anything).Return(repositories.CommentPage{}, errors.New("timeout"))
	h := newHandler(nil, store)

	for target, want := range map[string]string{
		"/api/articles/abc/comments":         `{"error":"Invalid article id"}`,
		"/api/articles/5/comments?sort=up":   `{"error":"Invalid sort"}`,
		"/api/articles/5/comments?cursor=zz": `{"error":"Invalid cursor"}`,
		"/api/articles/5/comments?limit=0":   `{"error":"Invalid limit"}`,
	} {
		rec := do(h, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.JSONEq(t, want, rec.Body.String(), target)
	}
	store.AssertNotCalled(t, "List", mock.Anything, mock.Anything)

	rec := do(h, http.MethodGet, "/api/articles/5/comments", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
}

// ─── Health ──────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("refused") }

	serve := func(checks map[string]Check) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		ctx.Wrap(NewHealthController(checks).Show)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		return rec
	}

	rec := serve(map[string]Check{"database": ok})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"database":"up"}}`, rec.Body.String())

	rec = serve(map[string]Check{"database": ok, "redis": down})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable","checks":{"database":"up","redis":"down"}}`, rec.Body.String())
}
