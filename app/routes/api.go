package routes

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/controllers"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/rdb"
	"github.com/shashiranjanraj/storefront/pkg/router"
)

// RegisterAPI mounts the storefront API on r, backed by db.
func RegisterAPI(r *router.Router, db *gorm.DB) {
	products := controllers.NewProductController(repositories.NewProductRepository(db))
	comments := controllers.NewCommentController(repositories.NewCommentRepository(db))

	api := r.Group("/api")

	api.Get("/articles/{id}/comments", "comments.index", ctx.Wrap(comments.Index))

	p := api.Group("/products")
	p.Get("/", "products.index", ctx.Wrap(products.Index))
	p.Post("/", "products.store", ctx.Wrap(products.Store))
	p.Get("/{id}", "products.show", ctx.Wrap(products.Show))
	p.Put("/{id}", "products.update", ctx.Wrap(products.Update))
	p.Patch("/{id}", "products.patch", ctx.Wrap(products.Update))
	p.Delete("/{id}", "products.destroy", ctx.Wrap(products.Destroy))
}

// RegisterHealth mounts GET /health. Redis is only probed when configured.
func RegisterHealth(r *router.Router, db *gorm.DB) {
	checks := map[string]controllers.Check{
		"database": func(c context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(c)
		},
	}
	if rdb.Enabled() {
		checks["redis"] = rdb.Ping
	}
	r.Get("/health", "health", ctx.Wrap(controllers.NewHealthController(checks).Show))
}
