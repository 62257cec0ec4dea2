package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"github.com/CedricGauzargues/Slottix/internal/slotting/service"
	"github.com/CedricGauzargues/Slottix/internal/slotting/testutil"
	"github.com/gin-gonic/gin"
)

func setupSalesRouter(produits *testutil.FakeProduitStore) *gin.Engine {
	h := NewSalesHandler(service.NewSalesService(
		&testutil.FakeVenteRefStore{},
		&testutil.FakeVenteFournisseurStore{},
		&testutil.FakeVenteFamilleStore{},
		produits,
	))
	r := testutil.SetupRouter()
	r.GET("/api/ventes_famille_options", h.FamilleFluxOptions)
	r.GET("/api/familles_options", h.FamilleOptions)
	return r
}

func TestFamilleFluxOptions(t *testing.T) {
	r := setupSalesRouter(&testutil.FakeProduitStore{
		Flux: []string{"Froid", "Sec", "Tous"},
		Familles: &entity.FamilleOptions{
			Famille1: []string{"Epicerie"},
		},
	})

	w := testutil.DoRequest(r, http.MethodGet, "/api/ventes_famille_options", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		TypeFlux []string `json:"typeflux"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.TypeFlux) != 3 || resp.TypeFlux[0] != "Froid" {
		t.Errorf("typeflux = %v", resp.TypeFlux)
	}
}

func TestFamilleOptionsReturnsLevels(t *testing.T) {
	r := setupSalesRouter(&testutil.FakeProduitStore{
		Familles: &entity.FamilleOptions{
			Famille1: []string{"Epicerie", "Liquides"},
			Famille2: []string{"Conserves"},
		},
	})

	w := testutil.DoRequest(r, http.MethodGet, "/api/familles_options", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp entity.FamilleOptions
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Famille1) != 2 || resp.Famille2[0] != "Conserves" {
		t.Errorf("options = %+v", resp)
	}
}
