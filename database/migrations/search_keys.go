package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/migration"
)

func init() {
	migration.Register("20260301000000_add_product_search_keys", &AddProductSearchKeys{})
}

// AddProductSearchKeys adds name_key and description_key and fills them for
// rows written before the columns existed.
type AddProductSearchKeys struct{}

func (m *AddProductSearchKeys) Up(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		return err
	}

	var batch []models.Product
	return db.Select("id", "name", "description").
		Where("name_key IS NULL OR description_key IS NULL").
		FindInBatches(&batch, 200, func(*gorm.DB, int) error {
			for _, p := range batch {
				err := db.Model(&models.Product{}).Where("id = ?", p.ID).UpdateColumns(map[string]interface{}{
					"name_key":        models.SearchKey(p.Name),
					"description_key": models.SearchKey(p.Description),
				}).Error
				if err != nil {
					return err
				}
			}
			return nil
		}).Error
}

func (m *AddProductSearchKeys) Down(db *gorm.DB) error {
	for _, col := range []string{"name_key", "description_key"} {
		if !db.Migrator().HasColumn(&models.Product{}, col) {
			continue
		}
		if err := db.Migrator().DropColumn(&models.Product{}, col); err != nil {
			return err
		}
	}
	return nil
}
