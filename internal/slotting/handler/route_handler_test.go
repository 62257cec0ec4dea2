package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/CedricGauzargues/Slottix/internal/slotting/repository"
	"github.com/CedricGauzargues/Slottix/internal/slotting/service"
	"github.com/CedricGauzargues/Slottix/internal/slotting/testutil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func jsonBody(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func setupRouteRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := service.NewRouteService(
		repository.NewRouteRepository(db),
		repository.NewEmplacementRepository(db),
		repository.NewEnginRepository(db),
		zap.NewNop(),
	)
	h := NewRouteHandler(svc)

	r := testutil.SetupRouter()
	r.GET("/api/routes/lists", h.Lists)
	r.GET("/api/routes/simple", h.List)
	r.POST("/api/routes/simple", h.Create)
	r.PUT("/api/routes/simple/:id", h.Update)
	r.DELETE("/api/routes/simple/:id", h.Delete)
	r.GET("/api/routes/simple/:id/secondaires", h.Secondaries)
	return r, db
}

func TestRouteCreateGeneratesSecondaries(t *testing.T) {
	r, db := setupRouteRouter(t)
	testutil.SeedEmplacement(t, db, "A", 1, 1, 1, 2, 1, 0)
	testutil.SeedEmplacement(t, db, "A", 1, 2, 1, 4, 1, 0)
	testutil.SeedEngin(t, db, "transpalette", 6)

	largeur := 3.0
	w := testutil.DoRequest(r, http.MethodPost, "/api/routes/simple", map[string]interface{}{
		"NomRoute":     "Picking A",
		"EmpDeb":       "A-001-0001-01",
		"EmpFin":       "A-001-0002-01",
		"LargeurAllee": largeur,
		"TypeEngin":    "transpalette",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data, ok := resp["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("response = %v", resp)
	}
	id, _ := data["IdRoute"].(string)
	if len(id) != 8 {
		t.Fatalf("IdRoute = %q, want 8 chars", id)
	}

	w = testutil.DoRequest(r, http.MethodGet, "/api/routes/simple/"+id+"/secondaires", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("secondaires status = %d", w.Code)
	}
	var parallele, perpendiculaire int
	var secondaries []map[string]interface{}
	if err := jsonBody(w.Body.Bytes(), &secondaries); err != nil {
		t.Fatalf("decode secondaires: %v", err)
	}
	for _, s := range secondaries {
		switch s["TypeRoute"] {
		case "parallele":
			parallele++
			if s["EmpCible"] != "A-001-0002-01" {
				t.Errorf("parallel target = %v", s["EmpCible"])
			}
		case "perpendiculaire":
			perpendiculaire++
			if s["EmpCible"] != nil {
				t.Errorf("spur should have no target, got %v", s["EmpCible"])
			}
		}
	}
	if parallele != 1 || perpendiculaire != 2 {
		t.Errorf("got %d parallel / %d perpendicular, want 1 / 2", parallele, perpendiculaire)
	}
}

func TestRouteCreateWithoutName(t *testing.T) {
	r, _ := setupRouteRouter(t)

	w := testutil.DoRequest(r, http.MethodPost, "/api/routes/simple",
		map[string]interface{}{"EmpDeb": "A-001-0001-01"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRouteUpdateAndDelete(t *testing.T) {
	r, db := setupRouteRouter(t)
	testutil.SeedEmplacement(t, db, "A", 1, 1, 1, 2, 1, 0)

	w := testutil.DoRequest(r, http.MethodPost, "/api/routes/simple",
		map[string]interface{}{"NomRoute": "Navette"})
	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d", w.Code)
	}
	resp := testutil.ParseResponse(w)
	id := resp["data"].(map[string]interface{})["IdRoute"].(string)

	w = testutil.DoRequest(r, http.MethodPut, "/api/routes/simple/"+id,
		map[string]interface{}{"NomRoute": "Navette B", "Inconnu": 1})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(r, http.MethodGet, "/api/routes/simple", nil)
	var routes []map[string]interface{}
	if err := jsonBody(w.Body.Bytes(), &routes); err != nil {
		t.Fatalf("decode routes: %v", err)
	}
	if len(routes) != 1 || routes[0]["NomRoute"] != "Navette B" {
		t.Fatalf("routes = %v", routes)
	}

	w = testutil.DoRequest(r, http.MethodDelete, "/api/routes/simple/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	w = testutil.DoRequest(r, http.MethodGet, "/api/routes/simple", nil)
	if err := jsonBody(w.Body.Bytes(), &routes); err != nil {
		t.Fatalf("decode routes: %v", err)
	}
	if len(routes) != 0 {
		t.Fatalf("routes after delete = %v", routes)
	}
}

func TestRouteUpdateOnlyUnknownFields(t *testing.T) {
	r, _ := setupRouteRouter(t)
	w := testutil.DoRequest(r, http.MethodPut, "/api/routes/simple/abc",
		map[string]interface{}{"IdRoute": "evil"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestRouteLists(t *testing.T) {
	r, db := setupRouteRouter(t)
	testutil.SeedEmplacement(t, db, "B", 2, 1, 1, 0, 0, 0)
	testutil.SeedEmplacement(t, db, "A", 1, 1, 1, 0, 0, 0)
	testutil.SeedEngin(t, db, "chariot", 8)

	w := testutil.DoRequest(r, http.MethodGet, "/api/routes/lists", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var lists map[string]interface{}
	if err := jsonBody(w.Body.Bytes(), &lists); err != nil {
		t.Fatalf("decode lists: %v", err)
	}
	zones, _ := lists["zones"].([]interface{})
	if fmt.Sprintf("%v", zones) != "[A B]" {
		t.Errorf("zones = %v, want sorted [A B]", zones)
	}
	if emps, _ := lists["emplacements"].([]interface{}); len(emps) != 2 {
		t.Errorf("emplacements = %v", lists["emplacements"])
	}
	if engins, _ := lists["engins"].([]interface{}); len(engins) != 1 {
		t.Errorf("engins = %v", lists["engins"])
	}
}
