package handler

import (
	"net/http"

	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"github.com/CedricGauzargues/Slottix/internal/slotting/service"
	"github.com/gin-gonic/gin"
)

// TypeHandler serves the location type referential APIs.
type TypeHandler struct {
	svc *service.TypeService
}

func NewTypeHandler(svc *service.TypeService) *TypeHandler {
	return &TypeHandler{svc: svc}
}

// List GET /api/types_emplacement_data
func (h *TypeHandler) List(c *gin.Context) {
	types, err := h.svc.List(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

// Get GET /api/types_emplacement_get?type=...
func (h *TypeHandler) Get(c *gin.Context) {
	t, err := h.svc.Get(c.Request.Context(), c.Query("type"))
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

type typeAddRequest struct {
	Type1 string `json:"type"`
	Type2 string `json:"designation"`
	Type3 string `json:"longueur"`
}

// Add POST /api/types_emplacement_add
func (h *TypeHandler) Add(c *gin.Context) {
	var req typeAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "requête invalide : "+err.Error())
		return
	}
	t := entity.TypeEmplacement{Type1: req.Type1, Type2: req.Type2, Type3: req.Type3}
	if err := h.svc.Add(c.Request.Context(), t); err != nil {
		Fail(c, err)
		return
	}
	Success(c, "Type d'emplacement ajouté : ("+t.Type1+", "+t.Type2+", "+t.Type3+").")
}

type typeDeleteRequest struct {
	Type1 string `json:"type"`
}

// Delete DELETE /api/types_emplacement_delete
func (h *TypeHandler) Delete(c *gin.Context) {
	var req typeDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "requête invalide : "+err.Error())
		return
	}
	if err := h.svc.Delete(c.Request.Context(), req.Type1); err != nil {
		Fail(c, err)
		return
	}
	Success(c, "Type supprimé.")
}
