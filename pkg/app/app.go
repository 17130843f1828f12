// Package app assembles the storefront binary: the HTTP handler, the server
// lifecycle, and the CLI commands that manage the database.
//
//	func main() {
//	    app.New().
//	        Routes(routes.RegisterAPI, routes.RegisterHealth).
//	        Seeder(seeders.RunAll).
//	        Run()
//	}
//
// Commands:
//
//	storefront serve
//	storefront migrate | migrate:rollback | migrate:status
//	storefront seed
//	storefront route:list
package app

import (
	"fmt"
	"io"
	"os"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/router"
)

// RouteFunc mounts routes on r. db is nil when routes are only being listed.
type RouteFunc func(r *router.Router, db *gorm.DB)

// SeedFunc fills db with sample data and reports how many seeders ran.
type SeedFunc func(db *gorm.DB, out io.Writer) (int, error)

// Application collects what the commands need. Build one with New.
type Application struct {
	routes []RouteFunc
	seed   SeedFunc
}

func New() *Application {
	return &Application{}
}

// Routes adds route registrations, applied in order.
func (a *Application) Routes(fns ...RouteFunc) *Application {
	a.routes = append(a.routes, fns...)
	return a
}

// Seeder sets the function run by the seed command.
func (a *Application) Seeder(fn SeedFunc) *Application {
	a.seed = fn
	return a
}

// Run executes the command named in os.Args and exits non-zero on failure.
func (a *Application) Run() {
	if err := a.Command().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
