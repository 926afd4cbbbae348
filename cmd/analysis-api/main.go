package main

import (
	"github.com/BrutalPeanut/iowa-liquor-sales/internal/api"
	"github.com/BrutalPeanut/iowa-liquor-sales/internal/store"
	"github.com/BrutalPeanut/iowa-liquor-sales/pkg/router"

	_ "github.com/BrutalPeanut/iowa-liquor-sales/docs" // swagger docs
)

// @title Iowa Liquor Sales Analysis API
// @version 1.0
// @description CSV cleaning and aggregation jobs over retail liquor sales data.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Init DB
	if err := store.InitDB("analyses.db"); err != nil {
		panic(err)
	}

	// Create router
	r := router.New()

	// Register API routes
	api.RegisterRoutes(r)

	// Start server
	r.Start(":8080")
}
