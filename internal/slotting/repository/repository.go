package repository

import (
	"errors"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/CedricGauzargues/Slottix/internal/warehouse"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// Repositories groups every store access object. Gorm-backed repositories
// cover the relational route/location tables, warehouse-backed ones cover
// the analytical Tbl... tables.
type Repositories struct {
	Emplacement *EmplacementRepository
	Engin       *EnginRepository
	Route       *RouteRepository

	Catalog          *CatalogRepository
	History          *HistoryRepository
	Type             *TypeRepository
	Circuit          *CircuitRepository
	VenteRef         *VenteRefRepository
	VenteFournisseur *VenteFournisseurRepository
	VenteFamille     *VenteFamilleRepository
	Produit          *ProduitRepository
	Master           *MasterEmplacementRepository
}

func NewRepositories(db *gorm.DB, wh *warehouse.Client) *Repositories {
	return &Repositories{
		Emplacement: NewEmplacementRepository(db),
		Engin:       NewEnginRepository(db),
		Route:       NewRouteRepository(db),

		Catalog:          NewCatalogRepository(wh),
		History:          NewHistoryRepository(wh),
		Type:             NewTypeRepository(wh),
		Circuit:          NewCircuitRepository(wh),
		VenteRef:         NewVenteRefRepository(wh),
		VenteFournisseur: NewVenteFournisseurRepository(wh),
		VenteFamille:     NewVenteFamilleRepository(wh),
		Produit:          NewProduitRepository(wh),
		Master:           NewMasterEmplacementRepository(wh),
	}
}

// Conversion helpers for warehouse rows, which surface as loosely typed
// bigquery.Value maps.

func asString(v bigquery.Value) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func asInt64(v bigquery.Value) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	}
	return 0
}

func asFloat64(v bigquery.Value) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	return 0
}

func asFloatPtr(v bigquery.Value) *float64 {
	if v == nil {
		return nil
	}
	f := asFloat64(v)
	return &f
}

func asIntPtr(v bigquery.Value) *int64 {
	if v == nil {
		return nil
	}
	n := asInt64(v)
	return &n
}

func asStringPtr(v bigquery.Value) *string {
	if v == nil {
		return nil
	}
	s := asString(v)
	return &s
}

func asTime(v bigquery.Value) time.Time {
	if t, ok := v.(time.Time); ok {
		return t
	}
	return time.Time{}
}

// dateParam converts a YYYY-MM-DD string to a DATE query parameter value;
// empty strings become NULL. Callers validate the format beforehand.
func dateParam(s string) bigquery.Value {
	if s == "" {
		return nil
	}
	d, err := civil.ParseDate(s)
	if err != nil {
		return nil
	}
	return d
}
