package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/tripmap-backend-go/internal/service"
	"github.com/jengzang/tripmap-backend-go/pkg/response"
)

// FavoriteHandler handles HTTP requests for user favorites
type FavoriteHandler struct {
	favoriteService *service.FavoriteService
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(favoriteService *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// AddFavorite handles POST /api/v1/users/:userId/favorites/:postId
func (h *FavoriteHandler) AddFavorite(c *gin.Context) {
	userID := c.Param("userId")
	postID := c.Param("postId")

	fav, err := h.favoriteService.Add(c.Request.Context(), userID, postID)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, fav)
}

// RemoveFavorite handles DELETE /api/v1/users/:userId/favorites/:postId
func (h *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	userID := c.Param("userId")
	postID := c.Param("postId")

	removed, err := h.favoriteService.Remove(userID, postID)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if !removed {
		response.NotFound(c, "Favorite not found")
		return
	}

	response.Success(c, gin.H{"removed": true})
}

// CountFavorites handles GET /api/v1/users/:userId/favorites/count
func (h *FavoriteHandler) CountFavorites(c *gin.Context) {
	userID := c.Param("userId")

	count, err := h.favoriteService.Count(userID)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"count": count})
}

// ListFavorites handles GET /api/v1/users/:userId/favorites
func (h *FavoriteHandler) ListFavorites(c *gin.Context) {
	userID := c.Param("userId")

	favs, err := h.favoriteService.List(userID)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	count, err := h.favoriteService.Count(userID)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"favorites": favs,
		"count":     count,
	})
}
