package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Product is a catalogue item. Tags are stored as a JSON text column so the
// same schema works on every supported driver.
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Img         string    `gorm:"size:1024" json:"img"`
	Name        string    `gorm:"size:255;index" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"not null;default:0;index" json:"price"`
	Like        int       `gorm:"not null;default:0" json:"like"`
	Tags        []string  `gorm:"serializer:json" json:"tags"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// NameKey and DescriptionKey are the search keys of Name and Description.
	// SQLite's LOWER() only folds ASCII, so folding happens here instead.
	NameKey        string `gorm:"type:text" json:"-"`
	DescriptionKey string `gorm:"type:text" json:"-"`
}

// SearchKey folds s the way NameKey and DescriptionKey are stored.
func SearchKey(s string) string {
	return strings.ToLower(s)
}

// BeforeSave refreshes the search keys and stores an empty tag list rather
// than null.
func (p *Product) BeforeSave(*gorm.DB) error {
	p.NameKey = SearchKey(p.Name)
	p.DescriptionKey = SearchKey(p.Description)
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return nil
}

// AfterFind keeps rows written with a NULL tags column serialising as [].
func (p *Product) AfterFind(*gorm.DB) error {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return nil
}
