package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/tripmap-backend-go/internal/repository"
	"github.com/jengzang/tripmap-backend-go/internal/searchstore"
	"github.com/jengzang/tripmap-backend-go/pkg/response"
)

// AdminHandler handles index and mapping maintenance endpoints
type AdminHandler struct {
	store *searchstore.Store
	links *repository.PlaceNoteRepository
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(store *searchstore.Store, links *repository.PlaceNoteRepository) *AdminHandler {
	return &AdminHandler{store: store, links: links}
}

type fileRequest struct {
	Path string `json:"path" binding:"required"`
}

// ImportPlaces handles POST /api/admin/places/import
func (h *AdminHandler) ImportPlaces(c *gin.Context) {
	var req fileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Missing file path")
		return
	}

	count, err := h.store.ImportPlacesFromFile(c.Request.Context(), req.Path)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"imported": count})
}

// ExportPlaces handles POST /api/admin/places/export
func (h *AdminHandler) ExportPlaces(c *gin.Context) {
	var req fileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Missing file path")
		return
	}

	count, err := h.store.ExportPlaces(c.Request.Context(), req.Path)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"exported": count})
}

// DeletePlaces handles DELETE /api/admin/places
func (h *AdminHandler) DeletePlaces(c *gin.Context) {
	deleted, err := h.store.DeleteAllPlaces(c.Request.Context())
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"deleted": deleted})
}

// ImportPosts handles POST /api/admin/posts/import
func (h *AdminHandler) ImportPosts(c *gin.Context) {
	var req fileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Missing file path")
		return
	}

	count, err := h.store.ImportPostsFromFile(c.Request.Context(), req.Path)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"imported": count})
}

// ExportPosts handles POST /api/admin/posts/export
func (h *AdminHandler) ExportPosts(c *gin.Context) {
	var req fileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Missing file path")
		return
	}

	count, err := h.store.ExportPosts(c.Request.Context(), req.Path)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"exported": count})
}

// DeletePosts handles DELETE /api/admin/posts
func (h *AdminHandler) DeletePosts(c *gin.Context) {
	deleted, err := h.store.DeleteAllPosts(c.Request.Context())
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"deleted": deleted})
}

// ImportMappings handles POST /api/admin/mappings/import
func (h *AdminHandler) ImportMappings(c *gin.Context) {
	var req fileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Missing file path")
		return
	}
	clear, _ := strconv.ParseBool(c.DefaultQuery("clear", "false"))

	count, err := h.links.ImportFromFile(req.Path, clear)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"imported": count})
}

// ExportMappings handles POST /api/admin/mappings/export
func (h *AdminHandler) ExportMappings(c *gin.Context) {
	var req fileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Missing file path")
		return
	}

	count, err := h.links.ExportToFile(req.Path)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"exported": count})
}
