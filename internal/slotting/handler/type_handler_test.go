package handler

import (
	"net/http"
	"testing"

	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"github.com/CedricGauzargues/Slottix/internal/slotting/service"
	"github.com/CedricGauzargues/Slottix/internal/slotting/testutil"
	"github.com/gin-gonic/gin"
)

func setupTypeRouter(store *testutil.FakeTypeStore) *gin.Engine {
	h := NewTypeHandler(service.NewTypeService(store))
	r := testutil.SetupRouter()
	r.GET("/api/types_emplacement_data", h.List)
	r.GET("/api/types_emplacement_get", h.Get)
	r.POST("/api/types_emplacement_add", h.Add)
	r.DELETE("/api/types_emplacement_delete", h.Delete)
	return r
}

func TestTypeAddAndList(t *testing.T) {
	store := &testutil.FakeTypeStore{}
	r := setupTypeRouter(store)

	w := testutil.DoRequest(r, http.MethodPost, "/api/types_emplacement_add",
		map[string]string{"type": "Palettier", "designation": "Standard", "longueur": "120"})
	if w.Code != http.StatusOK {
		t.Fatalf("add status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["status"] != "success" {
		t.Errorf("response = %v", resp)
	}

	w = testutil.DoRequest(r, http.MethodGet, "/api/types_emplacement_data", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	if len(store.Items) != 1 || store.Items[0].Type1 != "Palettier" {
		t.Errorf("store = %+v", store.Items)
	}
}

func TestTypeAddDuplicate(t *testing.T) {
	store := &testutil.FakeTypeStore{
		Items: []entity.TypeEmplacement{{Type1: "Palettier", Type2: "Standard", Type3: "120"}},
	}
	r := setupTypeRouter(store)

	w := testutil.DoRequest(r, http.MethodPost, "/api/types_emplacement_add",
		map[string]string{"type": "Palettier", "designation": "Standard", "longueur": "120"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate status = %d, want 400", w.Code)
	}
	resp := testutil.ParseResponse(w)
	if resp["status"] != "error" {
		t.Errorf("response = %v", resp)
	}
}

func TestTypeAddRequiresType1(t *testing.T) {
	r := setupTypeRouter(&testutil.FakeTypeStore{})

	w := testutil.DoRequest(r, http.MethodPost, "/api/types_emplacement_add",
		map[string]string{"type": "   ", "designation": "x"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestTypeGetUnknown(t *testing.T) {
	r := setupTypeRouter(&testutil.FakeTypeStore{})

	w := testutil.DoRequest(r, http.MethodGet, "/api/types_emplacement_get?type=Inconnu", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestTypeDelete(t *testing.T) {
	store := &testutil.FakeTypeStore{
		Items: []entity.TypeEmplacement{{Type1: "Palettier"}},
	}
	r := setupTypeRouter(store)

	w := testutil.DoRequest(r, http.MethodDelete, "/api/types_emplacement_delete",
		map[string]string{"type": "Palettier"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(store.Items) != 0 {
		t.Errorf("store = %+v, want emptied", store.Items)
	}
}
