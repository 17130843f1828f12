// Package migration runs and tracks versioned schema changes.
//
// Migrations register themselves from init():
//
//	func init() {
//	    migration.Register("20260101000000_create_products_table", &CreateProductsTable{})
//	}
//
// and are applied from the CLI:
//
//	storefront migrate
//	storefront migrate:rollback
//	storefront migrate:status
package migration

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Migration is one reversible schema change.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

// record is a row of the tracking table.
type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "schema_migrations" }

type entry struct {
	name string
	m    Migration
}

var (
	mu       sync.Mutex
	registry []entry
)

// Register adds m under name. Names must be unique and should start with a
// sortable timestamp; pending migrations run in name order.
func Register(name string, m Migration) {
	mu.Lock()
	defer mu.Unlock()
	for _, e := range registry {
		if e.name == name {
			panic("migration: duplicate name " + name)
		}
	}
	registry = append(registry, entry{name: name, m: m})
}

// Names lists every registered migration in run order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for _, e := range sorted() {
		out = append(out, e.name)
	}
	return out
}

func sorted() []entry {
	mu.Lock()
	defer mu.Unlock()
	out := append([]entry(nil), registry...)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// ErrNothingToRollback is returned by Rollback when no batch has run.
var ErrNothingToRollback = errors.New("migration: nothing to roll back")

// Runner applies migrations against one database and reports progress to out.
type Runner struct {
	db  *gorm.DB
	out io.Writer
}

func New(db *gorm.DB, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{db: db, out: out}
}

func (r *Runner) ensureTable() error {
	if err := r.db.AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) ran() (map[string]record, error) {
	var rows []record
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: read history: %w", err)
	}
	out := make(map[string]record, len(rows))
	for _, row := range rows {
		out[row.Name] = row
	}
	return out, nil
}

func (r *Runner) lastBatch() (int, error) {
	var last struct{ Max int }
	err := r.db.Model(&record{}).Select("COALESCE(MAX(batch), 0) AS max").Scan(&last).Error
	return last.Max, err
}

// Up applies every pending migration as one batch and returns how many ran.
// Each migration and its history row commit together.
func (r *Runner) Up() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, err
	}
	done, err := r.ran()
	if err != nil {
		return 0, err
	}
	last, err := r.lastBatch()
	if err != nil {
		return 0, fmt.Errorf("migration: read batch: %w", err)
	}
	batch := last + 1

	count := 0
	for _, e := range sorted() {
		if _, ok := done[e.name]; ok {
			continue
		}
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := e.m.Up(tx); err != nil {
				return err
			}
			return tx.Create(&record{Name: e.name, Batch: batch}).Error
		})
		if err != nil {
			return count, fmt.Errorf("migration: %s up: %w", e.name, err)
		}
		logger.Info("migration applied", "name", e.name, "batch", batch)
		fmt.Fprintf(r.out, "migrated  %s\n", e.name)
		count++
	}

	if count == 0 {
		fmt.Fprintln(r.out, "nothing to migrate")
	}
	return count, nil
}

// Rollback reverts the most recent batch, newest first.
func (r *Runner) Rollback() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, err
	}
	last, err := r.lastBatch()
	if err != nil {
		return 0, fmt.Errorf("migration: read batch: %w", err)
	}
	if last == 0 {
		return 0, ErrNothingToRollback
	}

	var rows []record
	if err := r.db.Where("batch = ?", last).Order("id desc").Find(&rows).Error; err != nil {
		return 0, fmt.Errorf("migration: read batch %d: %w", last, err)
	}

	known := make(map[string]Migration)
	for _, e := range sorted() {
		known[e.name] = e.m
	}

	count := 0
	for _, row := range rows {
		m, ok := known[row.Name]
		if !ok {
			return count, fmt.Errorf("migration: %s is recorded but not registered", row.Name)
		}
		row := row
		err := r.db.Transaction(func(tx *gorm.DB) error {
			if err := m.Down(tx); err != nil {
				return err
			}
			return tx.Delete(&row).Error
		})
		if err != nil {
			return count, fmt.Errorf("migration: %s down: %w", row.Name, err)
		}
		logger.Info("migration rolled back", "name", row.Name, "batch", last)
		fmt.Fprintf(r.out, "rolled back  %s\n", row.Name)
		count++
	}
	return count, nil
}

// State is one line of Status.
type State struct {
	Name  string
	Ran   bool
	Batch int
}

// Status reports every registered migration and whether it has run, and
// prints the same table to the runner's writer.
func (r *Runner) Status() ([]State, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}
	done, err := r.ran()
	if err != nil {
		return nil, err
	}

	tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MIGRATION\tSTATUS\tBATCH")

	var states []State
	for _, e := range sorted() {
		st := State{Name: e.name}
		if rec, ok := done[e.name]; ok {
			st.Ran, st.Batch = true, rec.Batch
			fmt.Fprintf(tw, "%s\tran\t%d\n", e.name, rec.Batch)
		} else {
			fmt.Fprintf(tw, "%s\tpending\t-\n", e.name)
		}
		states = append(states, st)
	}
	return states, tw.Flush()
}
