package controllers

import (
	"context"

	"github.com/pkg/errors"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/requests"
	"github.com/shashiranjanraj/storefront/pkg/apperr"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

const productNotFound = "Product not found"

// ProductStore is the persistence ProductController needs.
type ProductStore interface {
	List(ctx context.Context, q repositories.ProductQuery) ([]models.Product, error)
	Find(ctx context.Context, id uint) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, id uint, changes repositories.ProductChanges) (*models.Product, error)
	Delete(ctx context.Context, id uint) error
}

type ProductController struct {
	store ProductStore
}

func NewProductController(store ProductStore) *ProductController {
	return &ProductController{store: store}
}

// Index handles GET /api/products.
func (pc *ProductController) Index(c *ctx.Context) {
	in, err := requests.ParseListProducts(c.QueryValues())
	if err != nil {
		c.Fail("products.index", err)
		return
	}

	products, err := pc.store.List(c.Context(), in.Query())
	if err != nil {
		c.Fail("products.index", apperr.Internal(err))
		return
	}

	c.Paginated(products, in.Pagination(len(products)))
}

// Show handles GET /api/products/{id}.
func (pc *ProductController) Show(c *ctx.Context) {
	id, err := requests.ParseID(c.Param("id"), "Invalid product id")
	if err != nil {
		c.Fail("products.show", err)
		return
	}

	product, err := pc.store.Find(c.Context(), id)
	if err != nil {
		c.Fail("products.show", storeError(err))
		return
	}
	c.Success(product)
}

// Store handles POST /api/products.
func (pc *ProductController) Store(c *ctx.Context) {
	var in requests.CreateProductInput
	if err := c.BindJSON(&in, "Invalid request body"); err != nil {
		c.Fail("products.store", err)
		return
	}

	product := in.Model()
	if err := pc.store.Create(c.Context(), product); err != nil {
		c.Fail("products.store", apperr.Internal(err))
		return
	}
	c.Created(product)
}

// Update handles PUT and PATCH /api/products/{id}.
func (pc *ProductController) Update(c *ctx.Context) {
	id, err := requests.ParseID(c.Param("id"), "Invalid product id")
	if err != nil {
		c.Fail("products.update", err)
		return
	}

	var in requests.UpdateProductInput
	if err := c.BindJSON(&in, "Invalid request body"); err != nil {
		c.Fail("products.update", err)
		return
	}

	product, err := pc.store.Update(c.Context(), id, in.Changes())
	if err != nil {
		c.Fail("products.update", storeError(err))
		return
	}
	c.Success(product)
}

// Destroy handles DELETE /api/products/{id}.
func (pc *ProductController) Destroy(c *ctx.Context) {
	id, err := requests.ParseID(c.Param("id"), "Invalid product id")
	if err != nil {
		c.Fail("products.destroy", err)
		return
	}

	if err := pc.store.Delete(c.Context(), id); err != nil {
		c.Fail("products.destroy", storeError(err))
		return
	}
	c.NoContent()
}

// storeError maps a product store failure onto the error taxonomy.
func storeError(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.Missing(productNotFound, err)
	}
	return apperr.Internal(err)
}
