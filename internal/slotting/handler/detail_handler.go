package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"cloud.google.com/go/bigquery"
	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"github.com/CedricGauzargues/Slottix/internal/slotting/service"
	"github.com/gin-gonic/gin"
)

// DetailHandler serves the location-detail grid.
type DetailHandler struct {
	svc *service.DetailService
}

func NewDetailHandler(svc *service.DetailService) *DetailHandler {
	return &DetailHandler{svc: svc}
}

// Page GET /detail_emplacement
func (h *DetailHandler) Page(c *gin.Context) {
	c.HTML(http.StatusOK, "detail_emplacement.html", gin.H{
		"Title": "Gestion des emplacements",
	})
}

func intQuery(c *gin.Context, name string) *int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

// Data GET /detail_emplacement/data
func (h *DetailHandler) Data(c *gin.Context) {
	filter := entity.DetailFilter{
		Zone:            c.Query("zone"),
		Allee:           intQuery(c, "allee"),
		DeplacementFrom: intQuery(c, "deplacement_from"),
		DeplacementTo:   intQuery(c, "deplacement_to"),
		NiveauFrom:      intQuery(c, "niveau_from"),
		NiveauTo:        intQuery(c, "niveau_to"),
		Type1:           c.Query("type1"),
		Type2:           c.Query("type2"),
		Type3:           c.Query("type3"),
		Search:          c.Query("search[value]"),
	}
	start, _ := strconv.ParseInt(c.DefaultQuery("start", "0"), 10, 64)
	length, _ := strconv.ParseInt(c.DefaultQuery("length", "50"), 10, 64)
	draw, _ := strconv.Atoi(c.DefaultQuery("draw", "1"))

	page, err := h.svc.Page(c.Request.Context(), filter, start, length, draw)
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Lists GET /api/detail_emplacement/lists
func (h *DetailHandler) Lists(c *gin.Context) {
	types, err := h.svc.TypeHierarchy(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"types": types})
}

// detailChange is the wire form of one grid edit. Numeric cells may come
// in as strings with a French decimal comma.
type detailChange struct {
	Zone                string      `json:"Zone"`
	Allee               int64       `json:"Allee"`
	Deplacement         int64       `json:"Deplacement"`
	Niveau              int64       `json:"Niveau"`
	X                   interface{} `json:"X"`
	Y                   interface{} `json:"Y"`
	Z                   interface{} `json:"Z"`
	PoidsLimiteUnitaire interface{} `json:"PoidsLimiteUnitaire"`
	Type1               interface{} `json:"Type1"`
	Type2               interface{} `json:"Type2"`
	Type3               interface{} `json:"Type3"`
	Palette             interface{} `json:"Palette"`
}

type detailUpdateRequest struct {
	Changes []detailChange `json:"changes"`
}

// Update POST /api/detail_emplacement/update
func (h *DetailHandler) Update(c *gin.Context) {
	var req detailUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "requête invalide : "+err.Error())
		return
	}

	changes := make([]entity.EmplacementChange, 0, len(req.Changes))
	for _, ch := range req.Changes {
		changes = append(changes, entity.EmplacementChange{
			Zone:                ch.Zone,
			Allee:               ch.Allee,
			Deplacement:         ch.Deplacement,
			Niveau:              ch.Niveau,
			X:                   nullFloat(ch.X),
			Y:                   nullFloat(ch.Y),
			Z:                   nullFloat(ch.Z),
			PoidsLimiteUnitaire: nullFloat(ch.PoidsLimiteUnitaire),
			Type1:               nullString(ch.Type1),
			Type2:               nullString(ch.Type2),
			Type3:               nullString(ch.Type3),
			Palette:             nullBool(ch.Palette),
		})
	}

	n, err := h.svc.BatchUpdate(c.Request.Context(), changes)
	if err != nil {
		Fail(c, err)
		return
	}
	Success(c, fmt.Sprintf("%d emplacement(s) mis à jour avec succès.", n))
}

// nullFloat coerces a JSON cell to a nullable float: numbers pass
// through, strings parse with ',' as decimal separator, anything else is
// NULL.
func nullFloat(v interface{}) bigquery.NullFloat64 {
	switch n := v.(type) {
	case float64:
		return bigquery.NullFloat64{Float64: n, Valid: true}
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", ".")
		if s == "" {
			return bigquery.NullFloat64{}
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return bigquery.NullFloat64{}
		}
		return bigquery.NullFloat64{Float64: f, Valid: true}
	}
	return bigquery.NullFloat64{}
}

func nullString(v interface{}) bigquery.NullString {
	s, ok := v.(string)
	if !ok {
		return bigquery.NullString{}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return bigquery.NullString{}
	}
	return bigquery.NullString{StringVal: s, Valid: true}
}

func nullBool(v interface{}) bigquery.NullBool {
	switch b := v.(type) {
	case bool:
		return bigquery.NullBool{Bool: b, Valid: true}
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "1", "true", "yes", "on":
			return bigquery.NullBool{Bool: true, Valid: true}
		case "":
			return bigquery.NullBool{}
		default:
			return bigquery.NullBool{Bool: false, Valid: true}
		}
	}
	return bigquery.NullBool{}
}
