// Package seeders fills a database with sample data.
//
// Seeders register themselves from init():
//
//	func init() {
//	    seeders.Register("products", SeedProducts)
//	}
//
// and run via `storefront seed`.
package seeders

import (
	"fmt"
	"io"
	"sync"

	"gorm.io/gorm"
)

// SeederFunc inserts rows into db.
type SeederFunc func(db *gorm.DB) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder. Seeders run in registration order.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll executes every registered seeder, stopping at the first error, and
// returns how many ran.
func RunAll(db *gorm.DB, out io.Writer) (int, error) {
	mu.Lock()
	current := append([]seederEntry(nil), entries...)
	mu.Unlock()

	if out == nil {
		out = io.Discard
	}
	for i, e := range current {
		if err := e.fn(db); err != nil {
			return i, fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Fprintf(out, "seeded  %s\n", e.name)
	}
	return len(current), nil
}
