package handler

import (
	"net/http"

	"github.com/CedricGauzargues/Slottix/internal/slotting/service"
	"github.com/gin-gonic/gin"
)

// RouteHandler serves the route editor APIs.
type RouteHandler struct {
	svc *service.RouteService
}

func NewRouteHandler(svc *service.RouteService) *RouteHandler {
	return &RouteHandler{svc: svc}
}

// Lists GET /api/routes/lists
func (h *RouteHandler) Lists(c *gin.Context) {
	lists, err := h.svc.Lists(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, lists)
}

// List GET /api/routes/simple
func (h *RouteHandler) List(c *gin.Context) {
	routes, err := h.svc.ListRoutes(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, routes)
}

// Create POST /api/routes/simple
func (h *RouteHandler) Create(c *gin.Context) {
	var input service.CreateRouteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "requête invalide : "+err.Error())
		return
	}
	route, err := h.svc.CreateRoute(c.Request.Context(), &input)
	if err != nil {
		Fail(c, err)
		return
	}
	SuccessData(c, "Route ajoutée", route)
}

// Update PUT /api/routes/simple/:id
func (h *RouteHandler) Update(c *gin.Context) {
	var fields map[string]interface{}
	if err := c.ShouldBindJSON(&fields); err != nil {
		BadRequest(c, "requête invalide : "+err.Error())
		return
	}
	if err := h.svc.UpdateRoute(c.Request.Context(), c.Param("id"), fields); err != nil {
		Fail(c, err)
		return
	}
	Success(c, "Route mise à jour")
}

// Delete DELETE /api/routes/simple/:id
func (h *RouteHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteRoute(c.Request.Context(), c.Param("id")); err != nil {
		Fail(c, err)
		return
	}
	Success(c, "Route supprimée")
}

// Secondaries GET /api/routes/simple/:id/secondaires
func (h *RouteHandler) Secondaries(c *gin.Context) {
	routes, err := h.svc.Secondaries(c.Request.Context(), c.Param("id"))
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, routes)
}
