package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shaynlink/y-posts-service/internal/feed"
	"github.com/shaynlink/y-posts-service/internal/middleware"
	"github.com/shaynlink/y-posts-service/internal/models"
	"github.com/shaynlink/y-posts-service/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	assembler      *feed.Assembler
	userRepository repositories.UserRepository
	feedRepository repositories.FeedRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(assembler *feed.Assembler, userRepo repositories.UserRepository, feedRepo repositories.FeedRepository) *FeedHandler {
	return &FeedHandler{
		assembler:      assembler,
		userRepository: userRepo,
		feedRepository: feedRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.POST("/feed", h.CreateFeed)
}

// GetFeed returns one page of the feed named by the id query parameter:
// "fyp", "subscriptions", or a stored feed id.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	userID := middleware.GetUserID(c)

	rawID := c.QueryParam("id")
	rawPage := c.QueryParam("page")
	rawLimit := c.QueryParam("limit")

	if rawID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing query id")
	}
	if rawPage == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing query page")
	}
	if rawLimit == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing query limit")
	}

	selector, err := feed.ParseSelector(rawID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query id")
	}

	page, err := strconv.Atoi(rawPage)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query page")
	}
	limit, err := strconv.Atoi(rawLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query limit")
	}

	posts, err := h.assembler.Resolve(c.Request().Context(), selector, userID, page, limit)
	if err != nil {
		switch {
		case errors.Is(err, feed.ErrInvalidPagination):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, repositories.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		case errors.Is(err, repositories.ErrFeedNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Feed not found")
		}
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Unable to get feed")
	}

	return c.JSON(http.StatusOK, posts)
}

// CreateFeed stores a custom feed definition owned by the requester. Every
// listed source user must exist.
func (h *FeedHandler) CreateFeed(c echo.Context) error {
	userID := middleware.GetUserID(c)

	var req models.CreateFeedRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	fromIDs := make([]primitive.ObjectID, len(req.UserIDs))
	for i, raw := range req.UserIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid user id (%s)", raw))
		}
		fromIDs[i] = id
	}

	count, err := h.userRepository.CountByIDs(c.Request().Context(), fromIDs)
	if err != nil {
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Unable to create feed")
	}
	if count != int64(len(fromIDs)) {
		return echo.NewHTTPError(http.StatusBadRequest, "Some user not found")
	}

	newFeed := &models.Feed{
		UserID:  userID,
		FromIDs: fromIDs,
	}

	if err := h.feedRepository.CreateFeed(c.Request().Context(), newFeed); err != nil {
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Unable to create feed")
	}

	return c.JSON(http.StatusCreated, newFeed)
}
