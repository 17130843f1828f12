package repositories

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/pkg/orm"
)

// SortColumn is one of the columns products may be ordered by.
type SortColumn string

const (
	SortCreatedAt SortColumn = "created_at"
	SortPrice     SortColumn = "price"
)

// Ordering is a single ORDER BY term.
type Ordering struct {
	Column SortColumn
	Desc   bool
}

func (o Ordering) clause() string {
	col := SortCreatedAt
	if o.Column == SortPrice {
		col = SortPrice
	}
	dir := "asc"
	if o.Desc {
		dir = "desc"
	}
	// id breaks ties so pages never overlap.
	return string(col) + " " + dir + ", id " + dir
}

// ProductQuery selects one page of products.
// An empty Search matches every product.
type ProductQuery struct {
	Search  string
	OrderBy Ordering
	Offset  int
	Limit   int
}

// ProductChanges is a partial update: nil fields are left untouched.
type ProductChanges struct {
	Img         *string
	Name        *string
	Description *string
	Price       *float64
	Like        *int
	Tags        *[]string
}

// apply copies the set fields onto p and returns their column names.
func (c ProductChanges) apply(p *models.Product) []string {
	var cols []string
	if c.Img != nil {
		p.Img = *c.Img
		cols = append(cols, "img")
	}
	if c.Name != nil {
		p.Name = *c.Name
		p.NameKey = models.SearchKey(p.Name)
		cols = append(cols, "name", "name_key")
	}
	if c.Description != nil {
		p.Description = *c.Description
		p.DescriptionKey = models.SearchKey(p.Description)
		cols = append(cols, "description", "description_key")
	}
	if c.Price != nil {
		p.Price = *c.Price
		cols = append(cols, "price")
	}
	if c.Like != nil {
		p.Like = *c.Like
		cols = append(cols, "like")
	}
	if c.Tags != nil {
		p.Tags = *c.Tags
		cols = append(cols, "tags")
	}
	return cols
}

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) query(ctx context.Context) *orm.Query {
	return orm.New(r.db).WithContext(ctx)
}

// List returns one page of products matching q.
func (r *ProductRepository) List(ctx context.Context, q ProductQuery) ([]models.Product, error) {
	products := make([]models.Product, 0, q.Limit)

	query := r.query(ctx).Model(&models.Product{})
	if q.Search != "" {
		pattern := "%" + escapeLike(models.SearchKey(q.Search)) + "%"
		query = query.Where(
			"(name_key LIKE ? ESCAPE '!' OR description_key LIKE ? ESCAPE '!')",
			pattern, pattern,
		)
	}

	err := query.
		Order(q.OrderBy.clause()).
		Offset(q.Offset).
		Limit(q.Limit).
		Get(&products)
	if err != nil {
		return nil, translate(err, "products: list")
	}
	return products, nil
}

// Find looks up a product by primary key.
func (r *ProductRepository) Find(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.query(ctx).First(&p, id); err != nil {
		return nil, translate(err, "products: find")
	}
	return &p, nil
}

// Create persists p and fills in its id and timestamps.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return translate(r.query(ctx).Create(p), "products: create")
}

// Update applies changes to product id and returns the stored result.
// It fails with ErrNotFound when id does not exist.
func (r *ProductRepository) Update(ctx context.Context, id uint, changes ProductChanges) (*models.Product, error) {
	var out models.Product

	err := r.query(ctx).Transaction(func(tx *orm.Query) error {
		if err := tx.First(&out, id); err != nil {
			return err
		}

		var patch models.Product
		cols := changes.apply(&patch)
		if len(cols) == 0 {
			return nil
		}
		cols = append(cols, "updated_at")

		if _, err := tx.Model(&models.Product{ID: id}).Select(cols).Updates(&patch); err != nil {
			return err
		}
		out = models.Product{}
		return tx.First(&out, id)
	})
	if err != nil {
		return nil, translate(err, "products: update")
	}
	return &out, nil
}

// Delete removes product id. It fails with ErrNotFound when id does not exist.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	n, err := r.query(ctx).Delete(&models.Product{}, id)
	if err != nil {
		return translate(err, "products: delete")
	}
	if n == 0 {
		return errors.WithMessage(ErrNotFound, "products: delete")
	}
	return nil
}

// escapeLike neutralises LIKE wildcards using '!' as the escape character,
// which every supported dialect accepts without extra quoting.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
