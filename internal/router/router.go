package router

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/shaynlink/y-posts-service/internal/authorization"
	"github.com/shaynlink/y-posts-service/internal/feed"
	"github.com/shaynlink/y-posts-service/internal/handlers"
	"github.com/shaynlink/y-posts-service/internal/middleware"
	"github.com/shaynlink/y-posts-service/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
)

// errorResponse is the uniform failure envelope.
type errorResponse struct {
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.HTTPErrorHandler = HTTPErrorHandler
	log.Println("Global middleware configured.")
}

// HTTPErrorHandler converts any handler error into the failure envelope.
// Non-HTTP errors are logged and surfaced as a generic 500; internal detail
// never reaches the client.
func HTTPErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		}
	} else {
		c.Logger().Error(err)
	}

	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, errorResponse{Message: message, StatusCode: code})
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *mongo.Database, verifier authorization.Verifier, images handlers.ImageStore) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	postRepo := repositories.NewMongoPostRepository(db)
	userRepo := repositories.NewMongoUserRepository(db)
	followRepo := repositories.NewMongoFollowRepository(db)
	feedRepo := repositories.NewMongoFeedRepository(db)

	assembler := feed.NewAssembler(postRepo, userRepo, followRepo, feedRepo)

	// --- Protected routes (require a verified authorization token) ---
	api := e.Group("")
	api.Use(middleware.AuthMiddleware(verifier))

	postHandler := handlers.NewPostHandler(postRepo, assembler, images)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	feedHandler := handlers.NewFeedHandler(assembler, userRepo, feedRepo)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")
}
