package migrations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/database"
)

// productV1 is the products table before search keys were added.
type productV1 struct {
	ID          uint `gorm:"primaryKey"`
	Name        string
	Description string
}

func (productV1) TableName() string { return "products" }

func TestAddProductSearchKeysBackfills(t *testing.T) {
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, db.AutoMigrate(&productV1{}))
	require.NoError(t, db.Create(&[]productV1{
		{Name: "Émile Lamp", Description: "ÜBER hell"},
		{Name: "Stool", Description: "Oak"},
	}).Error)

	m := &AddProductSearchKeys{}
	require.NoError(t, m.Up(db))

	var rows []models.Product
	require.NoError(t, db.Order("id").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, "émile lamp", rows[0].NameKey)
	assert.Equal(t, "über hell", rows[0].DescriptionKey)
	assert.Equal(t, "stool", rows[1].NameKey)

	require.NoError(t, m.Up(db), "running twice is harmless")

	require.NoError(t, m.Down(db))
	assert.False(t, db.Migrator().HasColumn(&models.Product{}, "name_key"))
	assert.False(t, db.Migrator().HasColumn(&models.Product{}, "description_key"))
}
