package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ripplegram/backend/internal/middleware"
	"github.com/ripplegram/backend/internal/models"
	"github.com/ripplegram/backend/internal/service"
)

// CommentHandler handles HTTP requests related to comments.
type CommentHandler struct {
	content *service.ContentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(content *service.ContentService) *CommentHandler {
	return &CommentHandler{content: content}
}

// RegisterPublicRoutes registers the routes that need no authentication.
func (h *CommentHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/comments/:postId", h.GetComments)
}

// RegisterProtectedRoutes registers the routes behind the auth middleware.
func (h *CommentHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.POST("/comments/:postId", h.CreateComment)
	g.DELETE("/comments/:commentId", h.DeleteComment)
}

// GetComments lists a post's comments, newest first.
func (h *CommentHandler) GetComments(c echo.Context) error {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	comments, err := h.content.ListComments(c.Request().Context(), postID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"comments": comments})
}

// CreateComment creates a comment on a post.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid post ID")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	comment, err := h.content.CreateComment(c.Request().Context(), middleware.FirebaseUID(c), postID, req.Content)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"comment": comment})
}

// DeleteComment deletes the caller's comment.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	commentID, err := primitive.ObjectIDFromHex(c.Param("commentId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	if err := h.content.DeleteComment(c.Request().Context(), middleware.FirebaseUID(c), commentID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Comment deleted successfully"})
}
