package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

func init() {
	migration.Register("20260101000000_create_products_table", &CreateProductsTable{})
	migration.Register("20260101000001_create_comments_table", &CreateCommentsTable{})
}

// -------- 0001: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// -------- 0002: comments --------

type CreateCommentsTable struct{}

func (m *CreateCommentsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Comment{})
}

func (m *CreateCommentsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("comments")
}
