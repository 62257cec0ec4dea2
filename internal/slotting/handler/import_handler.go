package handler

import (
	"fmt"
	"net/http"
	"os/user"
	"time"

	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"github.com/CedricGauzargues/Slottix/internal/slotting/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// flash is one banner of the import screen.
type flash struct {
	Level string
	Text  string
}

// ImportHandler serves the upload form and the import history page.
type ImportHandler struct {
	svc      *service.ImportService
	logger   *zap.Logger
	username string
}

func NewImportHandler(svc *service.ImportService, logger *zap.Logger) *ImportHandler {
	username := "inconnu"
	if u, err := user.Current(); err == nil {
		username = u.Username
	}
	return &ImportHandler{svc: svc, logger: logger, username: username}
}

// ShowImport GET /parametres/import
func (h *ImportHandler) ShowImport(c *gin.Context) {
	var messages []flash
	tables, err := h.svc.ActiveTables(c.Request.Context())
	if err != nil {
		messages = append(messages, flash{Level: "danger",
			Text: fmt.Sprintf("Erreur récupération tables actives : %v", err)})
	}
	c.HTML(http.StatusOK, "param_import.html", gin.H{
		"Tables":   tables,
		"Messages": messages,
	})
}

// HandleImport POST /parametres/import
func (h *ImportHandler) HandleImport(c *gin.Context) {
	ctx := c.Request.Context()
	table := c.PostForm("table")

	tables, err := h.svc.ActiveTables(ctx)
	if err != nil {
		h.renderImport(c, tables, table, nil, flash{Level: "danger",
			Text: fmt.Sprintf("Erreur récupération tables actives : %v", err)})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.renderImport(c, tables, table, nil, flash{Level: "danger", Text: "Aucun fichier reçu"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.renderImport(c, tables, table, nil, flash{Level: "danger",
			Text: fmt.Sprintf("Erreur lecture fichier : %v", err)})
		return
	}
	defer file.Close()

	result, err := h.svc.Import(ctx, table, fileHeader.Filename, h.username, file)
	if err != nil {
		h.renderImport(c, tables, table, nil, flash{Level: "danger",
			Text: fmt.Sprintf("Erreur import : %v", err)})
		return
	}

	msg := flash{Level: "success",
		Text: fmt.Sprintf("Données importées dans %s (%d lignes)", result.Table, result.Rows)}
	if result.Background {
		msg = flash{Level: "info", Text: "Synchronisation des emplacements en cours..."}
	}
	h.renderImport(c, tables, table, result, msg)
}

func (h *ImportHandler) renderImport(c *gin.Context, tables []string, selected string, result *service.ImportResult, messages ...flash) {
	c.HTML(http.StatusOK, "param_import.html", gin.H{
		"Tables":   tables,
		"Selected": selected,
		"Result":   result,
		"Messages": messages,
	})
}

// historyRow is one display line of the history page.
type historyRow struct {
	entity.ImportHistory
	DateHeureFr string
}

// ShowHistory GET /parametres/hist_import
func (h *ImportHandler) ShowHistory(c *gin.Context) {
	entries, err := h.svc.History(c.Request.Context())
	if err != nil {
		c.HTML(http.StatusOK, "param_hist_import.html", gin.H{
			"Messages": []flash{{Level: "danger",
				Text: fmt.Sprintf("Erreur chargement historique : %v", err)}},
		})
		return
	}

	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		loc = time.UTC
	}
	rows := make([]historyRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, historyRow{
			ImportHistory: e,
			DateHeureFr:   e.DateHeure.In(loc).Format("02/01/2006 15:04:05"),
		})
	}
	c.HTML(http.StatusOK, "param_hist_import.html", gin.H{"Data": rows})
}
