package handler

import (
	"fmt"
	"net/http"

	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"github.com/CedricGauzargues/Slottix/internal/slotting/service"
	"github.com/gin-gonic/gin"
)

// CircuitHandler serves the circuit group APIs.
type CircuitHandler struct {
	svc *service.CircuitService
}

func NewCircuitHandler(svc *service.CircuitService) *CircuitHandler {
	return &CircuitHandler{svc: svc}
}

// List GET /api/groupes_circuit/data
func (h *CircuitHandler) List(c *gin.Context) {
	groups, err := h.svc.Groups(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// CircuitOptions GET /api/groupes_circuit/circuits_options
func (h *CircuitHandler) CircuitOptions(c *gin.Context) {
	circuits, err := h.svc.AvailableCircuits(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"circuits": circuits})
}

type circuitSaveRequest struct {
	Groupe      string   `json:"groupe"`
	Designation string   `json:"designation"`
	Circuits    []string `json:"circuits"`
}

// Save POST /api/groupes_circuit/add
func (h *CircuitHandler) Save(c *gin.Context) {
	var req circuitSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "requête invalide : "+err.Error())
		return
	}
	updated, err := h.svc.SaveGroup(c.Request.Context(), entity.CircuitGroup{
		GroupeCircuit:            req.Groupe,
		DesignationGroupeCircuit: req.Designation,
		Circuits:                 req.Circuits,
	})
	if err != nil {
		Fail(c, err)
		return
	}
	if updated {
		Success(c, "Groupe mis à jour.")
		return
	}
	Success(c, "Groupe créé.")
}

type circuitDeleteRequest struct {
	Groupe string `json:"groupe"`
}

// Delete DELETE /api/groupes_circuit/delete
func (h *CircuitHandler) Delete(c *gin.Context) {
	var req circuitDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "requête invalide : "+err.Error())
		return
	}
	if err := h.svc.DeleteGroup(c.Request.Context(), req.Groupe); err != nil {
		Fail(c, err)
		return
	}
	Success(c, fmt.Sprintf("Groupe « %s » supprimé.", req.Groupe))
}
