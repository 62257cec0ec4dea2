package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/CedricGauzargues/Slottix/internal/slotting/service"
	"github.com/gin-gonic/gin"
)

// ExportHandler serves the schema and data downloads.
type ExportHandler struct {
	svc *service.ExportService
}

func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// ExportSchema GET /export_schema/:table/:format
func (h *ExportHandler) ExportSchema(c *gin.Context) {
	h.send(c, func() (*service.Export, error) {
		return h.svc.Schema(c.Request.Context(), c.Param("table"), c.Param("format"))
	})
}

// ExportData GET /export_data/:table/:format
func (h *ExportHandler) ExportData(c *gin.Context) {
	h.send(c, func() (*service.Export, error) {
		return h.svc.Data(c.Request.Context(), c.Param("table"), c.Param("format"))
	})
}

func (h *ExportHandler) send(c *gin.Context, build func() (*service.Export, error)) {
	export, err := build()
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.String(http.StatusBadRequest, verr.Message)
			return
		}
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment;filename=%s", export.Filename))
	c.Data(http.StatusOK, export.ContentType, export.Data)
}
