package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"github.com/CedricGauzargues/Slottix/internal/warehouse"
)

// HistoryRepository records import runs in TblHistoriqueImport.
type HistoryRepository struct {
	wh *warehouse.Client
}

func NewHistoryRepository(wh *warehouse.Client) *HistoryRepository {
	return &HistoryRepository{wh: wh}
}

// Append writes one history line. Pending merge imports insert a line
// first and resolve it later through MarkSuccess or MarkError.
func (r *HistoryRepository) Append(ctx context.Context, h entity.ImportHistory) error {
	q := fmt.Sprintf(`INSERT INTO `+"`%s`"+`
		(NomTable, DateHeure, Utilisateur, Resultat, DetailErreur, NombreLignes, NomFichier)
		VALUES (@nomTable, @dateHeure, @utilisateur, @resultat, @detailErreur, @nombreLignes, @nomFichier)`,
		r.wh.TableID("TblHistoriqueImport"))

	var detail bigquery.Value
	if h.DetailErreur != nil {
		detail = *h.DetailErreur
	}
	var lignes bigquery.Value
	if h.NombreLignes != nil {
		lignes = *h.NombreLignes
	}
	return r.wh.Exec(ctx, q,
		bigquery.QueryParameter{Name: "nomTable", Value: h.NomTable},
		bigquery.QueryParameter{Name: "dateHeure", Value: h.DateHeure},
		bigquery.QueryParameter{Name: "utilisateur", Value: h.Utilisateur},
		bigquery.QueryParameter{Name: "resultat", Value: h.Resultat},
		bigquery.QueryParameter{Name: "detailErreur", Value: detail},
		bigquery.QueryParameter{Name: "nombreLignes", Value: lignes},
		bigquery.QueryParameter{Name: "nomFichier", Value: h.NomFichier},
	)
}

// List returns the most recent runs first.
func (r *HistoryRepository) List(ctx context.Context) ([]entity.ImportHistory, error) {
	q := fmt.Sprintf(`SELECT NomTable, DateHeure, Utilisateur, Resultat, DetailErreur, NombreLignes, NomFichier
		FROM `+"`%s`"+` ORDER BY DateHeure DESC LIMIT 1000`,
		r.wh.TableID("TblHistoriqueImport"))
	rows, err := r.wh.Read(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]entity.ImportHistory, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.ImportHistory{
			NomTable:     asString(row["NomTable"]),
			DateHeure:    asTime(row["DateHeure"]),
			Utilisateur:  asString(row["Utilisateur"]),
			Resultat:     asString(row["Resultat"]),
			DetailErreur: asStringPtr(row["DetailErreur"]),
			NombreLignes: asIntPtr(row["NombreLignes"]),
			NomFichier:   asString(row["NomFichier"]),
		})
	}
	return out, nil
}

// MarkSuccess resolves the pending line of a background merge.
func (r *HistoryRepository) MarkSuccess(ctx context.Context, fichier string, lignes int64) error {
	q := fmt.Sprintf(`UPDATE `+"`%s`"+`
		SET Resultat = @resultat, NombreLignes = @lignes
		WHERE NomFichier = @fichier AND Resultat = @pending`,
		r.wh.TableID("TblHistoriqueImport"))
	return r.wh.Exec(ctx, q,
		bigquery.QueryParameter{Name: "resultat", Value: entity.ResultatSucces},
		bigquery.QueryParameter{Name: "lignes", Value: lignes},
		bigquery.QueryParameter{Name: "fichier", Value: fichier},
		bigquery.QueryParameter{Name: "pending", Value: entity.ResultatPending},
	)
}

// MarkError resolves the pending line with the failure detail.
func (r *HistoryRepository) MarkError(ctx context.Context, fichier, detail string) error {
	q := fmt.Sprintf(`UPDATE `+"`%s`"+`
		SET Resultat = @resultat, DetailErreur = @detail
		WHERE NomFichier = @fichier AND Resultat = @pending`,
		r.wh.TableID("TblHistoriqueImport"))
	return r.wh.Exec(ctx, q,
		bigquery.QueryParameter{Name: "resultat", Value: entity.ResultatErreur},
		bigquery.QueryParameter{Name: "detail", Value: detail},
		bigquery.QueryParameter{Name: "fichier", Value: fichier},
		bigquery.QueryParameter{Name: "pending", Value: entity.ResultatPending},
	)
}
