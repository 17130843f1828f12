// Package orm is a thin chainable wrapper over *gorm.DB that times every
// terminal call into the db query-duration histogram.
//
//	var products []models.Product
//	err := orm.New(db).WithContext(ctx).
//	    Model(&models.Product{}).
//	    Order("price asc").
//	    Offset(orm.Offset(page, limit)).
//	    Limit(limit).
//	    Get(&products)
package orm

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/metrics"
)

// Pagination is the metadata attached to offset-paginated lists.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Offset converts a 1-based page number and page size into a row offset.
func Offset(page, limit int) int {
	if page < 1 || limit < 1 {
		return 0
	}
	return (page - 1) * limit
}

type Query struct {
	db *gorm.DB
}

// New starts a query on db.
func New(db *gorm.DB) *Query {
	return &Query{db: db}
}

func (q *Query) WithContext(ctx context.Context) *Query {
	return &Query{db: q.db.WithContext(ctx)}
}

func (q *Query) Model(v interface{}) *Query {
	return &Query{db: q.db.Model(v)}
}

func (q *Query) Where(query interface{}, args ...interface{}) *Query {
	return &Query{db: q.db.Where(query, args...)}
}

func (q *Query) Order(value interface{}) *Query {
	return &Query{db: q.db.Order(value)}
}

func (q *Query) Offset(n int) *Query {
	return &Query{db: q.db.Offset(n)}
}

func (q *Query) Limit(n int) *Query {
	return &Query{db: q.db.Limit(n)}
}

// Get loads every matching row into dest.
func (q *Query) Get(dest interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.Find(dest).Error
}

// First loads the first matching row by primary key order.
// Returns gorm.ErrRecordNotFound when nothing matches.
func (q *Query) First(dest interface{}, conds ...interface{}) error {
	defer metrics.ObserveDBQuery("select", time.Now())
	return q.db.First(dest, conds...).Error
}

// Create inserts value.
func (q *Query) Create(value interface{}) error {
	defer metrics.ObserveDBQuery("insert", time.Now())
	return q.db.Create(value).Error
}

func (q *Query) Select(columns []string) *Query {
	return &Query{db: q.db.Select(columns)}
}

// Updates writes the selected fields of patch to the rows the query targets
// and reports how many rows were touched. Without a preceding Select only
// non-zero fields are written.
func (q *Query) Updates(patch interface{}) (int64, error) {
	defer metrics.ObserveDBQuery("update", time.Now())
	res := q.db.Updates(patch)
	return res.RowsAffected, res.Error
}

// Delete removes the rows matching conds and reports how many went away.
func (q *Query) Delete(value interface{}, conds ...interface{}) (int64, error) {
	defer metrics.ObserveDBQuery("delete", time.Now())
	res := q.db.Delete(value, conds...)
	return res.RowsAffected, res.Error
}

// Transaction runs fn inside a database transaction.
func (q *Query) Transaction(fn func(tx *Query) error) error {
	return q.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Query{db: tx})
	})
}
