package handler

import (
	"errors"
	"net/http"

	"github.com/CedricGauzargues/Slottix/internal/slotting/repository"
	"github.com/CedricGauzargues/Slottix/internal/slotting/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers bundles the HTTP layer for route registration.
type Handlers struct {
	Import  *ImportHandler
	Export  *ExportHandler
	Type    *TypeHandler
	Circuit *CircuitHandler
	Sales   *SalesHandler
	Route   *RouteHandler
	Detail  *DetailHandler
}

func NewHandlers(svc *service.Services, logger *zap.Logger) *Handlers {
	return &Handlers{
		Import:  NewImportHandler(svc.Import, logger),
		Export:  NewExportHandler(svc.Export),
		Type:    NewTypeHandler(svc.Type),
		Circuit: NewCircuitHandler(svc.Circuit),
		Sales:   NewSalesHandler(svc.Sales),
		Route:   NewRouteHandler(svc.Route),
		Detail:  NewDetailHandler(svc.Detail),
	}
}

// Success writes the standard success envelope.
func Success(c *gin.Context, message string) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": message})
}

// SuccessData writes the success envelope with an attached payload.
func SuccessData(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": message, "data": data})
}

// BadRequest writes the error envelope with a 400.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": message})
}

// Fail maps a service error onto the envelope: validation errors are 400,
// missing records 404, everything else 500.
func Fail(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": verr.Message})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
	}
}
