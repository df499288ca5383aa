package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/tripmap-backend-go/internal/models"
	"github.com/jengzang/tripmap-backend-go/internal/service"
	"github.com/jengzang/tripmap-backend-go/pkg/response"
)

// RouteHandler handles HTTP requests for route planning and sorting
type RouteHandler struct {
	routeService *service.RouteService
}

// NewRouteHandler creates a new route handler
func NewRouteHandler(routeService *service.RouteService) *RouteHandler {
	return &RouteHandler{routeService: routeService}
}

// PlanRoute handles POST /api/v1/routes
func (h *RouteHandler) PlanRoute(c *gin.Context) {
	var req models.RouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	route, err := h.routeService.PlanRoute(req.LocationIDs)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, route)
}

// SortLocations handles POST /api/v1/locations/sort
func (h *RouteHandler) SortLocations(c *gin.Context) {
	var req models.SortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	sorted, err := h.routeService.Sort(req)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"locations": sorted,
		"direction": req.Direction,
	})
}
