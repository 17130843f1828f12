package requests

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/apperr"
)

// ListCommentsInput is GET /api/articles/{id}/comments.
type ListCommentsInput struct {
	ArticleID uint   `json:"articleId" validate:"gt=0"`
	Cursor    *uint  `json:"cursor"`
	Limit     int    `json:"limit" validate:"gte=1"`
	Sort      string `json:"sort" validate:"oneof=asc desc"`
}

var listCommentsMessages = map[string]string{
	"articleId": "Invalid article id",
	"limit":     "Invalid limit",
	"sort":      "Invalid sort",
}

// ParseListComments reads the article id from the path and cursor, limit and
// sort from q.
func ParseListComments(articleID string, q url.Values) (ListCommentsInput, error) {
	id, err := ParseID(articleID, "Invalid article id")
	if err != nil {
		return ListCommentsInput{}, err
	}

	in := ListCommentsInput{ArticleID: id, Sort: q.Get("sort")}
	if in.Sort == "" {
		in.Sort = "asc"
	}

	if raw := strings.TrimSpace(q.Get("cursor")); raw != "" {
		c, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return ListCommentsInput{}, apperr.Invalid("Invalid cursor", err)
		}
		cursor := uint(c)
		in.Cursor = &cursor
	}

	if in.Limit, err = intParam(q, "limit", DefaultLimit, "Invalid limit"); err != nil {
		return ListCommentsInput{}, err
	}
	if err := check(in, listCommentsMessages); err != nil {
		return ListCommentsInput{}, err
	}
	in.Limit = clampLimit(in.Limit)
	return in, nil
}

// Query builds the store query.
func (in ListCommentsInput) Query() repositories.CommentQuery {
	return repositories.CommentQuery{
		ArticleID: in.ArticleID,
		Cursor:    in.Cursor,
		Limit:     in.Limit,
		Desc:      in.Sort == "desc",
	}
}
