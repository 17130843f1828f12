package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

// CommentQuery selects one cursor page of an article's comments.
// Cursor is the id of the last comment the caller has seen; nil starts
// from the beginning in the requested direction.
type CommentQuery struct {
	ArticleID uint
	Cursor    *uint
	Limit     int
	Desc      bool
}

// CommentPage is one page of comments plus the cursor for the next one.
// NextCursor is nil on the last page.
type CommentPage struct {
	Items      []models.Comment `json:"items"`
	NextCursor *uint            `json:"nextCursor"`
}

// CommentRepository handles database operations for Comment.
type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// List returns the page of comments described by q. An article with
// no comments yields an empty page rather than an error.
func (r *CommentRepository) List(ctx context.Context, q CommentQuery) (CommentPage, error) {
	if q.Limit < 1 {
		q.Limit = 1
	}
	query := orm.New(r.db).WithContext(ctx).
		Model(&models.Comment{}).
		Where("article_id = ?", q.ArticleID)

	order := "id asc"
	if q.Desc {
		order = "id desc"
	}
	if q.Cursor != nil {
		if q.Desc {
			query = query.Where("id < ?", *q.Cursor)
		} else {
			query = query.Where("id > ?", *q.Cursor)
		}
	}

	// One extra row tells us whether another page exists.
	rows := make([]models.Comment, 0, q.Limit+1)
	if err := query.Order(order).Limit(q.Limit + 1).Get(&rows); err != nil {
		return CommentPage{}, translate(err, "comments: list")
	}

	page := CommentPage{Items: rows}
	if len(rows) > q.Limit {
		page.Items = rows[:q.Limit]
		last := page.Items[len(page.Items)-1].ID
		page.NextCursor = &last
	}
	return page, nil
}

// Create persists c. Used by the seeder and tests; the API has no write path
// for comments.
func (r *CommentRepository) Create(ctx context.Context, c *models.Comment) error {
	return translate(orm.New(r.db).WithContext(ctx).Create(c), "comments: create")
}
