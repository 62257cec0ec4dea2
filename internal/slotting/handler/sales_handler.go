package handler

import (
	"net/http"
	"strconv"

	"github.com/CedricGauzargues/Slottix/internal/slotting/service"
	"github.com/gin-gonic/gin"
)

// SalesHandler serves the three exceptional-sales referentials.
type SalesHandler struct {
	svc *service.SalesService
}

func NewSalesHandler(svc *service.SalesService) *SalesHandler {
	return &SalesHandler{svc: svc}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, "identifiant invalide")
		return 0, false
	}
	return id, true
}

// ListRefs GET /api/ventes_exceptionnelles_ref_data
func (h *SalesHandler) ListRefs(c *gin.Context) {
	events, err := h.svc.ListRefs(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetRef GET /api/ventes_exceptionnelles_ref_get/:id
func (h *SalesHandler) GetRef(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	event, err := h.svc.GetRef(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	SuccessData(c, "", event)
}

// AddRef POST /api/ventes_exceptionnelles_ref_add
func (h *SalesHandler) AddRef(c *gin.Context) {
	var input service.VenteRefInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "requête invalide : "+err.Error())
		return
	}
	if err := h.svc.AddRef(c.Request.Context(), &input); err != nil {
		Fail(c, err)
		return
	}
	Success(c, "Événement enregistré avec succès.")
}

// UpdateRef POST /api/ventes_exceptionnelles_ref_update
func (h *SalesHandler) UpdateRef(c *gin.Context) {
	var input service.VenteRefInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "requête invalide : "+err.Error())
		return
	}
	if err := h.svc.UpdateRef(c.Request.Context(), &input); err != nil {
		Fail(c, err)
		return
	}
	Success(c, "Événement mis à jour avec succès.")
}

type refDeleteRequest struct {
	ID int64 `json:"IDEvenementRef"`
}

// DeleteRef DELETE /api/ventes_exceptionnelles_ref_delete
func (h *SalesHandler) DeleteRef(c *gin.Context) {
	var req refDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "requête invalide : "+err.Error())
		return
	}
	if err := h.svc.DeleteRef(c.Request.Context(), req.ID); err != nil {
		Fail(c, err)
		return
	}
	Success(c, "Événement supprimé.")
}

// RefOptions GET /api/ventes_exceptionnelles_ref_options
func (h *SalesHandler) RefOptions(c *gin.Context) {
	flux, err := h.svc.TypeFluxOptions(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"typeflux": flux})
}

// ListFournisseurs GET /api/ventes_fournisseur_data
func (h *SalesHandler) ListFournisseurs(c *gin.Context) {
	events, err := h.svc.ListFournisseurs(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetFournisseur GET /api/ventes_fournisseur_get/:id
func (h *SalesHandler) GetFournisseur(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	event, err := h.svc.GetFournisseur(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	SuccessData(c, "", event)
}

// AddFournisseur POST /api/ventes_fournisseur_add
func (h *SalesHandler) AddFournisseur(c *gin.Context) {
	var input service.VenteFournisseurInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "requête invalide : "+err.Error())
		return
	}
	if err := h.svc.AddFournisseur(c.Request.Context(), &input); err != nil {
		Fail(c, err)
		return
	}
	Success(c, "Vente exceptionnelle fournisseur enregistrée avec succès.")
}

// UpdateFournisseur POST /api/ventes_fournisseur_update
func (h *SalesHandler) UpdateFournisseur(c *gin.Context) {
	var input service.VenteFournisseurInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "requête invalide : "+err.Error())
		return
	}
	if err := h.svc.UpdateFournisseur(c.Request.Context(), &input); err != nil {
		Fail(c, err)
		return
	}
	Success(c, "Vente fournisseur mise à jour.")
}

type fournisseurDeleteRequest struct {
	ID int64 `json:"IDEvenementFournisseur"`
}

// DeleteFournisseur DELETE /api/ventes_fournisseur_delete
func (h *SalesHandler) DeleteFournisseur(c *gin.Context) {
	var req fournisseurDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "requête invalide : "+err.Error())
		return
	}
	if err := h.svc.DeleteFournisseur(c.Request.Context(), req.ID); err != nil {
		Fail(c, err)
		return
	}
	Success(c, "Vente fournisseur supprimée.")
}

// FournisseurOptions GET /api/ventes_fournisseur_options
func (h *SalesHandler) FournisseurOptions(c *gin.Context) {
	flux, err := h.svc.TypeFluxOptions(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"typeflux": flux})
}

// LookupFournisseur GET /api/ventes_fournisseur_lookup?term=...
func (h *SalesHandler) LookupFournisseur(c *gin.Context) {
	results, err := h.svc.LookupFournisseur(c.Request.Context(), c.Query("term"))
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// ListFamilles GET /api/ventes_famille_data
func (h *SalesHandler) ListFamilles(c *gin.Context) {
	events, err := h.svc.ListFamilles(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetFamille GET /api/ventes_famille_get/:id
func (h *SalesHandler) GetFamille(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	event, err := h.svc.GetFamille(c.Request.Context(), id)
	if err != nil {
		Fail(c, err)
		return
	}
	SuccessData(c, "", event)
}

// AddFamille POST /api/ventes_famille_add
func (h *SalesHandler) AddFamille(c *gin.Context) {
	var input service.VenteFamilleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "requête invalide : "+err.Error())
		return
	}
	if err := h.svc.AddFamille(c.Request.Context(), &input); err != nil {
		Fail(c, err)
		return
	}
	Success(c, "Événement ajouté avec succès.")
}

// UpdateFamille POST /api/ventes_famille_update
func (h *SalesHandler) UpdateFamille(c *gin.Context) {
	var input service.VenteFamilleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "requête invalide : "+err.Error())
		return
	}
	if err := h.svc.UpdateFamille(c.Request.Context(), &input); err != nil {
		Fail(c, err)
		return
	}
	Success(c, "Vente par famille produit mise à jour.")
}

type familleDeleteRequest struct {
	ID *int64 `json:"IDEvenementFamilleProduit"`
}

// DeleteFamille DELETE /api/ventes_famille_delete
func (h *SalesHandler) DeleteFamille(c *gin.Context) {
	var req familleDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "requête invalide : "+err.Error())
		return
	}
	if err := h.svc.DeleteFamille(c.Request.Context(), req.ID); err != nil {
		Fail(c, err)
		return
	}
	if req.ID == nil {
		Success(c, "Lignes sans identifiant supprimées.")
		return
	}
	Success(c, "Événement supprimé.")
}

// FamilleOptions GET /api/familles_options
func (h *SalesHandler) FamilleOptions(c *gin.Context) {
	options, err := h.svc.FamilleOptions(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}

// FamilleFluxOptions GET /api/ventes_famille_options
func (h *SalesHandler) FamilleFluxOptions(c *gin.Context) {
	flux, err := h.svc.TypeFluxOptions(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"typeflux": flux})
}
