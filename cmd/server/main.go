package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/shaynlink/y-posts-service/internal/authorization"
	"github.com/shaynlink/y-posts-service/internal/router"
	"github.com/shaynlink/y-posts-service/internal/validators"
	"github.com/shaynlink/y-posts-service/pkg/config"
	"github.com/shaynlink/y-posts-service/pkg/gcs"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	db, err := config.InitDB(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB() // Ensure database connection is closed when main exits

	// Initialize Cloud Storage bucket for post images
	ctx := context.Background()
	bucket, err := gcs.NewBucket(ctx, cfg.StorageBucket, cfg.GoogleCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to initialize storage bucket: %v", err)
	}
	defer bucket.Close()

	// Remote authorization service client
	verifier := authorization.NewClient(cfg.AuthorizationServiceURL)

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Mongo.Database(cfg.MongoDatabase), verifier, bucket)

	// Validator
	e.Validator = validators.NewValidator()

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
