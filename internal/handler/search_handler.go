package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/tripmap-backend-go/internal/service"
	"github.com/jengzang/tripmap-backend-go/pkg/response"
)

// SearchHandler handles HTTP requests for search and location lookups
type SearchHandler struct {
	searchService *service.SearchService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search handles GET /api/v1/search
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		response.BadRequest(c, "Missing query parameter q")
		return
	}
	mode := c.DefaultQuery("mode", "driving")

	result, err := h.searchService.Search(c.Request.Context(), query, mode)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}

// GetLocation handles GET /api/v1/locations/:id
func (h *SearchHandler) GetLocation(c *gin.Context) {
	id := c.Param("id")

	entity, err := h.searchService.GetLocation(c.Request.Context(), id)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if entity == nil {
		response.NotFound(c, "Location not found")
		return
	}

	response.Success(c, entity)
}
