// Command server runs the storefront API and its database tools.
//
//	go run ./cmd/server serve
//	go run ./cmd/server migrate
//	go run ./cmd/server seed
package main

import (
	"github.com/shashiranjanraj/storefront/app/routes"
	_ "github.com/shashiranjanraj/storefront/database/migrations"
	"github.com/shashiranjanraj/storefront/database/seeders"
	"github.com/shashiranjanraj/storefront/pkg/app"
)

func main() {
	app.New().
		Routes(routes.RegisterAPI, routes.RegisterHealth).
		Seeder(seeders.RunAll).
		Run()
}
