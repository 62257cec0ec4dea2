package service

import (
	"fmt"

	"github.com/CedricGauzargues/Slottix/internal/slotting/repository"
	"go.uber.org/zap"
)

// ValidationError marks a rejected request: bad input, unknown reference,
// conflicting selection. Handlers map it to a 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Invalid(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Services bundles the business layer for handler wiring.
type Services struct {
	Import  *ImportService
	Merge   *MergeService
	Route   *RouteService
	Type    *TypeService
	Circuit *CircuitService
	Sales   *SalesService
	Export  *ExportService
	Detail  *DetailService
}

// NewServices wires every service on the shared repositories. The merge
// worker is created here but started by the caller.
func NewServices(repos *repository.Repositories, uploadDir string, logger *zap.Logger) *Services {
	merge := NewMergeService(repos.Master, repos.History, logger)
	return &Services{
		Import:  NewImportService(repos.Catalog, repos.History, merge, uploadDir, logger),
		Merge:   merge,
		Route:   NewRouteService(repos.Route, repos.Emplacement, repos.Engin, logger),
		Type:    NewTypeService(repos.Type),
		Circuit: NewCircuitService(repos.Circuit),
		Sales:   NewSalesService(repos.VenteRef, repos.VenteFournisseur, repos.VenteFamille, repos.Produit),
		Export:  NewExportService(repos.Catalog),
		Detail:  NewDetailService(repos.Master, repos.Type),
	}
}
