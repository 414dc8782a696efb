package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ripplegram/backend/internal/middleware"
	"github.com/ripplegram/backend/internal/service"
)

// PostHandler handles HTTP requests related to posts.
type PostHandler struct {
	content *service.ContentService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(content *service.ContentService) *PostHandler {
	return &PostHandler{content: content}
}

// RegisterPublicRoutes registers the routes that need no authentication.
func (h *PostHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/posts", h.GetPosts)
	g.GET("/posts/:postId", h.GetPost)
	g.GET("/posts/user/:username", h.GetUserPosts)
}

// RegisterProtectedRoutes registers the routes behind the auth middleware.
func (h *PostHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.POST("/posts/:postId/like", h.LikePost)
	g.DELETE("/posts/:postId", h.DeletePost)
}

// GetPosts lists all posts, newest first.
func (h *PostHandler) GetPosts(c echo.Context) error {
	skip, limit := pagination(c)
	posts, err := h.content.ListPosts(c.Request().Context(), skip, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// GetPost retrieves one post.
func (h *PostHandler) GetPost(c echo.Context) error {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	post, err := h.content.GetPost(c.Request().Context(), postID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"post": post})
}

// GetUserPosts lists a user's posts, newest first.
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	skip, limit := pagination(c)
	posts, err := h.content.ListUserPosts(c.Request().Context(), c.Param("username"), skip, limit)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// CreatePost creates a post from a multipart form with text content and an
// optional image file.
func (h *PostHandler) CreatePost(c echo.Context) error {
	firebaseUID := middleware.FirebaseUID(c)
	content := c.FormValue("content")

	var image *service.ImageUpload
	if fileHeader, err := c.FormFile("image"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Failed to read image upload")
		}
		defer file.Close()

		image = &service.ImageUpload{
			Reader:      file,
			Size:        fileHeader.Size,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Filename:    fileHeader.Filename,
		}
	}

	post, err := h.content.CreatePost(c.Request().Context(), firebaseUID, content, image)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"post": post})
}

// LikePost toggles the caller's like on a post.
func (h *PostHandler) LikePost(c echo.Context) error {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	liked, err := h.content.ToggleLike(c.Request().Context(), middleware.FirebaseUID(c), postID)
	if err != nil {
		return httpError(err)
	}

	message := "Post unliked successfully"
	if liked {
		message = "Post liked successfully"
	}
	return c.JSON(http.StatusOK, echo.Map{"message": message})
}

// DeletePost deletes the caller's post and its comments.
func (h *PostHandler) DeletePost(c echo.Context) error {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	if err := h.content.DeletePost(c.Request().Context(), middleware.FirebaseUID(c), postID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted successfully"})
}

func pagination(c echo.Context) (skip, limit int64) {
	skip, _ = strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ = strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	return skip, limit
}
