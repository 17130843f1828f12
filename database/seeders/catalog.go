package seeders

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
)

func init() {
	Register("products", SeedProducts)
	Register("comments", SeedComments)
}

// SeedProducts inserts a small catalogue. It does nothing when products
// already exist so the command can be re-run.
func SeedProducts(db *gorm.DB) error {
	var n int64
	if err := db.Model(&models.Product{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	base := time.Now().Add(-24 * time.Hour).UTC()
	products := []models.Product{
		{Name: "Desk Lamp", Description: "Adjustable arm, warm LED", Img: "https://cdn.example.com/img/desk-lamp.jpg", Price: 34.9, Like: 12, Tags: []string{"lighting", "office"}},
		{Name: "Office Chair", Description: "Ergonomic mesh back", Img: "https://cdn.example.com/img/office-chair.jpg", Price: 189, Like: 40, Tags: []string{"furniture", "office"}},
		{Name: "Notebook", Description: "A5, dotted, recycled paper", Img: "https://cdn.example.com/img/notebook.jpg", Price: 6.5, Like: 3, Tags: []string{"stationery"}},
		{Name: "Coffee Mug", Description: "Stoneware, 350ml", Img: "https://cdn.example.com/img/mug.jpg", Price: 12, Tags: []string{"kitchen", "gift"}},
		{Name: "Standing Desk", Description: "Electric height adjustment", Img: "https://cdn.example.com/img/standing-desk.jpg", Price: 499, Like: 21, Tags: []string{"furniture", "office"}},
	}
	for i := range products {
		products[i].CreatedAt = base.Add(time.Duration(i) * time.Hour)
	}
	return db.Create(&products).Error
}

// SeedComments adds a handful of comments to articles 1 and 2.
func SeedComments(db *gorm.DB) error {
	var n int64
	if err := db.Model(&models.Comment{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	authors := []string{"ana", "bo", "chen", "dara"}
	var comments []models.Comment
	for article := uint(1); article <= 2; article++ {
		for i := 0; i < 12; i++ {
			comments = append(comments, models.Comment{
				ArticleID: article,
				Author:    authors[i%len(authors)],
				Content:   fmt.Sprintf("Comment %d on article %d", i+1, article),
			})
		}
	}
	return db.Create(&comments).Error
}
