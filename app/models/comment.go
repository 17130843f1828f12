package models

import "time"

// Comment belongs to an article. Its ID doubles as the pagination cursor:
// ids grow with creation order.
type Comment struct {
	ID        uint      `gorm:"primaryKey;index:idx_comments_article_id_id,priority:2" json:"id"`
	ArticleID uint      `gorm:"not null;index:idx_comments_article_id_id,priority:1" json:"articleId"`
	Author    string    `gorm:"size:255" json:"author"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
