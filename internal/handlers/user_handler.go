package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ripplegram/backend/internal/middleware"
	"github.com/ripplegram/backend/internal/models"
	"github.com/ripplegram/backend/internal/service"
)

// UserHandler handles profile, identity-sync and follow HTTP requests.
type UserHandler struct {
	identity *service.IdentityService
	graph    *service.SocialGraphService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(identity *service.IdentityService, graph *service.SocialGraphService) *UserHandler {
	return &UserHandler{
		identity: identity,
		graph:    graph,
	}
}

// RegisterPublicRoutes registers the routes that need no authentication.
func (h *UserHandler) RegisterPublicRoutes(g *echo.Group) {
	g.GET("/users/profile/:username", h.GetUserProfile)
}

// RegisterProtectedRoutes registers the routes behind the auth middleware.
func (h *UserHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.PUT("/users/profile", h.UpdateProfile)
	g.POST("/users/sync", h.SyncUser)
	g.POST("/users/me", h.GetCurrentUser)
	g.POST("/users/follow/:targetUserId", h.FollowUser)
}

// GetUserProfile retrieves a user's public profile by username.
func (h *UserHandler) GetUserProfile(c echo.Context) error {
	user, err := h.identity.GetByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// UpdateProfile applies a partial update of the caller's profile.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	firebaseUID := middleware.FirebaseUID(c)

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.identity.UpdateProfile(c.Request().Context(), firebaseUID, &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// SyncUser maps the authenticated identity to a local user record,
// creating it on first sight.
func (h *UserHandler) SyncUser(c echo.Context) error {
	firebaseUID := middleware.FirebaseUID(c)

	user, created, err := h.identity.ResolveOrCreate(c.Request().Context(), firebaseUID)
	if err != nil {
		return httpError(err)
	}

	message := "User already exists"
	if created {
		message = "User created successfully"
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user, "message": message})
}

// GetCurrentUser returns the caller's local user record.
func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	user, err := h.identity.GetCurrent(c.Request().Context(), middleware.FirebaseUID(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// FollowUser toggles the follow edge towards the target user.
func (h *UserHandler) FollowUser(c echo.Context) error {
	targetID, err := primitive.ObjectIDFromHex(c.Param("targetUserId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	following, err := h.graph.ToggleFollow(c.Request().Context(), middleware.FirebaseUID(c), targetID)
	if err != nil {
		return httpError(err)
	}

	message := "User unfollowed successfully"
	if following {
		message = "User followed successfully"
	}
	return c.JSON(http.StatusOK, echo.Map{"message": message})
}
