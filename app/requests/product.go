package requests

import (
	"math"
	"net/url"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/apperr"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

// Product sort keys accepted by the list endpoint. Any other value sorts
// like SortRecent.
const (
	SortRecent    = "recent"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
)

// ListProductsInput is GET /api/products.
type ListProductsInput struct {
	Page   int    `json:"page" validate:"gte=1"`
	Limit  int    `json:"limit" validate:"gte=1"`
	Sort   string `json:"sort"`
	Search string `json:"search"`
}

var listProductsMessages = map[string]string{
	"page":  "Invalid page",
	"limit": "Invalid limit",
}

// ParseListProducts reads page, limit, sort and search from q.
func ParseListProducts(q url.Values) (ListProductsInput, error) {
	in := ListProductsInput{
		Sort:   q.Get("sort"),
		Search: q.Get("search"),
	}
	if in.Sort == "" {
		in.Sort = SortRecent
	}

	var err error
	if in.Page, err = intParam(q, "page", DefaultPage, "Invalid page"); err != nil {
		return ListProductsInput{}, err
	}
	if in.Limit, err = intParam(q, "limit", DefaultLimit, "Invalid limit"); err != nil {
		return ListProductsInput{}, err
	}
	if err := check(in, listProductsMessages); err != nil {
		return ListProductsInput{}, err
	}
	in.Limit = clampLimit(in.Limit)
	// The row offset (page-1)*limit must fit in an int.
	if in.Page-1 > math.MaxInt/in.Limit {
		return ListProductsInput{}, apperr.Invalid("Invalid page", nil)
	}
	return in, nil
}

// Ordering maps the sort key onto a column and direction.
func (in ListProductsInput) Ordering() repositories.Ordering {
	switch in.Sort {
	case SortPriceAsc:
		return repositories.Ordering{Column: repositories.SortPrice}
	case SortPriceDesc:
		return repositories.Ordering{Column: repositories.SortPrice, Desc: true}
	default:
		return repositories.Ordering{Column: repositories.SortCreatedAt, Desc: true}
	}
}

// Query builds the store query for this page.
func (in ListProductsInput) Query() repositories.ProductQuery {
	return repositories.ProductQuery{
		Search:  in.Search,
		OrderBy: in.Ordering(),
		Offset:  orm.Offset(in.Page, in.Limit),
		Limit:   in.Limit,
	}
}

// Pagination reports the page metadata for n returned rows. Total is the
// page length, not the size of the full result set.
func (in ListProductsInput) Pagination(n int) orm.Pagination {
	return orm.Pagination{Total: n, Page: in.Page, Limit: in.Limit}
}

// CreateProductInput is the POST /api/products body. Fields are not
// validated; missing ones are stored as zero values.
type CreateProductInput struct {
	Img         string   `json:"img"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Tags        []string `json:"tags"`
}

// Model converts the input into a new, unsaved product. Like always starts at 0.
func (in CreateProductInput) Model() *models.Product {
	return &models.Product{
		Img:         in.Img,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Tags:        in.Tags,
	}
}

// UpdateProductInput is the PUT/PATCH /api/products/{id} body. Absent fields
// are left unchanged.
type UpdateProductInput struct {
	Img         *string   `json:"img"`
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Like        *int      `json:"like"`
	Tags        *[]string `json:"tags"`
}

// Changes converts the input into a store patch.
func (in UpdateProductInput) Changes() repositories.ProductChanges {
	return repositories.ProductChanges{
		Img:         in.Img,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Like:        in.Like,
		Tags:        in.Tags,
	}
}
