package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shaynlink/y-posts-service/internal/feed"
	"github.com/shaynlink/y-posts-service/internal/middleware"
	"github.com/shaynlink/y-posts-service/internal/models"
	"github.com/shaynlink/y-posts-service/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	assembler      *feed.Assembler
	images         ImageStore
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, assembler *feed.Assembler, images ImageStore) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		assembler:      assembler,
		images:         images,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/", h.CreatePost)
	g.POST("/:id/repost", h.Repost)
	g.PUT("/:id/like", h.LikePost)
	g.DELETE("/:id/like", h.UnlikePost)
	g.GET("/:id", h.GetPost)
	g.DELETE("/:id", h.DeletePost)
}

// CreatePost creates a new post from a multipart form: optional content,
// optional ref to an existing post, up to 4 images. A post needs content or
// a ref, never neither.
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID := middleware.GetUserID(c)

	content := c.FormValue("content")
	refRaw := c.FormValue("ref")

	if content == "" && refRaw == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Content and ref missing")
	}
	if len(content) > models.MaxContentLength {
		return echo.NewHTTPError(http.StatusBadRequest, "Content is longer than 255 characters")
	}

	var ref *primitive.ObjectID
	if refRaw != "" {
		refID, err := primitive.ObjectIDFromHex(refRaw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid ref id")
		}

		exists, err := h.postRepository.PostExists(c.Request().Context(), refID)
		if err != nil {
			c.Logger().Error(err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Unable to create post")
		}
		if !exists {
			return echo.NewHTTPError(http.StatusNotFound, "Reference post not exist")
		}
		ref = &refID
	}

	images, err := saveImages(c.Request().Context(), h.images, userID, formImages(c))
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Unable to upload images")
	}

	post := &models.Post{
		User:    userID,
		Content: content,
		Ref:     ref,
		Images:  images,
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Unable to create post")
	}

	return c.JSON(http.StatusCreated, post)
}

// Repost creates a new post referencing an existing one, carrying optional
// content and images of its own. The response comes back with the author
// and the referenced post populated.
func (h *PostHandler) Repost(c echo.Context) error {
	userID := middleware.GetUserID(c)

	refID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid params id")
	}

	if _, err := h.postRepository.GetPostByID(c.Request().Context(), refID); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Unable to repost post")
	}

	content := c.FormValue("content")
	if len(content) > models.MaxContentLength {
		return echo.NewHTTPError(http.StatusBadRequest, "Content is longer than 255 characters")
	}

	images, err := saveImages(c.Request().Context(), h.images, userID, formImages(c))
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he
		}
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Unable to upload images")
	}

	repost := &models.Post{
		User:    userID,
		Content: content,
		Ref:     &refID,
		Images:  images,
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), repost); err != nil {
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Unable to repost post")
	}

	decorated, err := h.assembler.DecorateOne(c.Request().Context(), repost)
	if err != nil {
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Unable to repost post")
	}

	return c.JSON(http.StatusCreated, decorated)
}

// LikePost adds the requester to a post's likes list. Liking a post twice
// is a client error, surfacing state drift instead of masking it.
func (h *PostHandler) LikePost(c echo.Context) error {
	userID := middleware.GetUserID(c)

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid params id")
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Unable to like post")
	}

	if post.LikedBy(userID) {
		return echo.NewHTTPError(http.StatusBadRequest, "Already liked post")
	}

	if err := h.postRepository.AddLike(c.Request().Context(), postID, userID); err != nil {
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Unable to like post")
	}

	return c.NoContent(http.StatusNoContent)
}

// UnlikePost removes the requester from a post's likes list. Unliking a
// never-liked post is a client error.
func (h *PostHandler) UnlikePost(c echo.Context) error {
	userID := middleware.GetUserID(c)

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid params id")
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Unable to unlike post")
	}

	if !post.LikedBy(userID) {
		return echo.NewHTTPError(http.StatusBadRequest, "Not liked post")
	}

	if err := h.postRepository.RemoveLike(c.Request().Context(), postID, userID); err != nil {
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Unable to unlike post")
	}

	return c.JSON(http.StatusOK, nil)
}

// GetPost retrieves a single post by ID, with its author and reference
// populated.
func (h *PostHandler) GetPost(c echo.Context) error {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid params id")
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Unable to get post")
	}

	decorated, err := h.assembler.DecorateOne(c.Request().Context(), post)
	if err != nil {
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Unable to get post")
	}

	return c.JSON(http.StatusOK, decorated)
}

// DeletePost deletes a post. Only the author may delete; anyone else gets
// 401, distinct from the missing-post 404.
func (h *PostHandler) DeletePost(c echo.Context) error {
	userID := middleware.GetUserID(c)

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid params id")
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Unable to delete post")
	}

	if post.User != userID {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized user")
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), postID); err != nil {
		c.Logger().Error(err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Unable to delete post")
	}

	return c.NoContent(http.StatusNoContent)
}
