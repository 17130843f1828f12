package controllers

import (
	"context"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/requests"
	"github.com/shashiranjanraj/storefront/pkg/apperr"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
)

// CommentStore is the persistence CommentController needs.
type CommentStore interface {
	List(ctx context.Context, q repositories.CommentQuery) (repositories.CommentPage, error)
}

type CommentController struct {
	store CommentStore
}

func NewCommentController(store CommentStore) *CommentController {
	return &CommentController{store: store}
}

// Index handles GET /api/articles/{id}/comments and returns the store page
// as is.
func (cc *CommentController) Index(c *ctx.Context) {
	in, err := requests.ParseListComments(c.Param("id"), c.QueryValues())
	if err != nil {
		c.Fail("comments.index", err)
		return
	}

	page, err := cc.store.List(c.Context(), in.Query())
	if err != nil {
		c.Fail("comments.index", apperr.Internal(err))
		return
	}
	c.Success(page)
}
