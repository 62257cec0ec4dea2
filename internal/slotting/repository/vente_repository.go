package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"github.com/CedricGauzargues/Slottix/internal/warehouse"
)

func ptrParam[T any](p *T) bigquery.Value {
	if p == nil {
		return nil
	}
	return *p
}

// VenteRefRepository stores per-reference exceptional-sales events.
type VenteRefRepository struct {
	wh *warehouse.Client
}

func NewVenteRefRepository(wh *warehouse.Client) *VenteRefRepository {
	return &VenteRefRepository{wh: wh}
}

func (r *VenteRefRepository) scan(row warehouse.Row) entity.VenteRef {
	return entity.VenteRef{
		ID:               asInt64(row["IDEvenementRef"]),
		Reference:        asString(row["Reference"]),
		Evolution:        asFloatPtr(row["Evolution"]),
		QteEnPlus:        asIntPtr(row["Qte_en_plus"]),
		LignesPrepEnPlus: asInt64(row["LignesPrepEnPlus"]),
		DateDu:           asString(row["DateDu"]),
		DateAu:           asString(row["DateAu"]),
		TypeFlux:         asString(row["TypeFlux"]),
	}
}

// List returns all events, newest first. Dates come back dd/mm/yyyy for
// display.
func (r *VenteRefRepository) List(ctx context.Context) ([]entity.VenteRef, error) {
	q := fmt.Sprintf(`SELECT
			IDEvenementRef,
			Reference,
			CAST(Evolution AS FLOAT64) AS Evolution,
			CAST(Qte_en_plus AS INT64) AS Qte_en_plus,
			CAST(LignesPrepEnPlus AS INT64) AS LignesPrepEnPlus,
			FORMAT_DATE('%%d/%%m/%%Y', DateDu) AS DateDu,
			FORMAT_DATE('%%d/%%m/%%Y', DateAu) AS DateAu,
			COALESCE(TypeFlux, 'Tous') AS TypeFlux
		FROM `+"`%s`"+`
		ORDER BY IDEvenementRef DESC`,
		r.wh.TableID("TblEvenementVenteRef"))
	rows, err := r.wh.Read(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]entity.VenteRef, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.scan(row))
	}
	return out, nil
}

// Get returns one event with ISO dates, the edit-form format.
func (r *VenteRefRepository) Get(ctx context.Context, id int64) (*entity.VenteRef, error) {
	q := fmt.Sprintf(`SELECT
			IDEvenementRef,
			Reference,
			CAST(Evolution AS FLOAT64) AS Evolution,
			CAST(Qte_en_plus AS INT64) AS Qte_en_plus,
			CAST(LignesPrepEnPlus AS INT64) AS LignesPrepEnPlus,
			FORMAT_DATE('%%Y-%%m-%%d', DateDu) AS DateDu,
			FORMAT_DATE('%%Y-%%m-%%d', DateAu) AS DateAu,
			COALESCE(TypeFlux, 'Tous') AS TypeFlux
		FROM `+"`%s`"+`
		WHERE IDEvenementRef = @id`,
		r.wh.TableID("TblEvenementVenteRef"))
	rows, err := r.wh.Read(ctx, q,
		bigquery.QueryParameter{Name: "id", Value: id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	v := r.scan(rows[0])
	return &v, nil
}

// Insert assigns MAX+1 as the identifier in the same statement, matching
// how the table has always been keyed.
func (r *VenteRefRepository) Insert(ctx context.Context, v entity.VenteRef) error {
	q := fmt.Sprintf(`INSERT INTO `+"`%s`"+`
		(IDEvenementRef, Reference, Evolution, Qte_en_plus, LignesPrepEnPlus, DateDu, DateAu, TypeFlux)
		SELECT COALESCE(MAX(IDEvenementRef), 0) + 1, @ref, @evol, @qte, @lignes, @du, @au, @flux
		FROM `+"`%s`",
		r.wh.TableID("TblEvenementVenteRef"), r.wh.TableID("TblEvenementVenteRef"))
	return r.wh.Exec(ctx, q,
		bigquery.QueryParameter{Name: "ref", Value: v.Reference},
		bigquery.QueryParameter{Name: "evol", Value: ptrParam(v.Evolution)},
		bigquery.QueryParameter{Name: "qte", Value: ptrParam(v.QteEnPlus)},
		bigquery.QueryParameter{Name: "lignes", Value: v.LignesPrepEnPlus},
		bigquery.QueryParameter{Name: "du", Value: dateParam(v.DateDu)},
		bigquery.QueryParameter{Name: "au", Value: dateParam(v.DateAu)},
		bigquery.QueryParameter{Name: "flux", Value: v.TypeFlux},
	)
}

func (r *VenteRefRepository) Update(ctx context.Context, v entity.VenteRef) error {
	q := fmt.Sprintf(`UPDATE `+"`%s`"+`
		SET Reference = @ref,
			Evolution = @evol,
			Qte_en_plus = @qte,
			LignesPrepEnPlus = @lignes,
			DateDu = @du,
			DateAu = @au,
			TypeFlux = @flux
		WHERE IDEvenementRef = @id`,
		r.wh.TableID("TblEvenementVenteRef"))
	return r.wh.Exec(ctx, q,
		bigquery.QueryParameter{Name: "ref", Value: v.Reference},
		bigquery.QueryParameter{Name: "evol", Value: ptrParam(v.Evolution)},
		bigquery.QueryParameter{Name: "qte", Value: ptrParam(v.QteEnPlus)},
		bigquery.QueryParameter{Name: "lignes", Value: v.LignesPrepEnPlus},
		bigquery.QueryParameter{Name: "du", Value: dateParam(v.DateDu)},
		bigquery.QueryParameter{Name: "au", Value: dateParam(v.DateAu)},
		bigquery.QueryParameter{Name: "flux", Value: v.TypeFlux},
		bigquery.QueryParameter{Name: "id", Value: v.ID},
	)
}

func (r *VenteRefRepository) Delete(ctx context.Context, id int64) error {
	q := fmt.Sprintf("DELETE FROM `%s` WHERE IDEvenementRef = @id",
		r.wh.TableID("TblEvenementVenteRef"))
	return r.wh.Exec(ctx, q,
		bigquery.QueryParameter{Name: "id", Value: id})
}

// VenteFournisseurRepository stores per-supplier exceptional-sales events.
type VenteFournisseurRepository struct {
	wh *warehouse.Client
}

func NewVenteFournisseurRepository(wh *warehouse.Client) *VenteFournisseurRepository {
	return &VenteFournisseurRepository{wh: wh}
}

func (r *VenteFournisseurRepository) scan(row warehouse.Row) entity.VenteFournisseur {
	return entity.VenteFournisseur{
		ID:             asInt64(row["IDEvenementFournisseur"]),
		NFournisseur:   asString(row["NFournisseur"]),
		NomFournisseur: asString(row["NomFournisseur"]),
		Evolution:      asFloatPtr(row["Evolution"]),
		DateDu:         asString(row["DateDu"]),
		DateAu:         asString(row["DateAu"]),
		TypeFlux:       asString(row["TypeFlux"]),
	}
}

func (r *VenteFournisseurRepository) List(ctx context.Context) ([]entity.VenteFournisseur, error) {
	q := fmt.Sprintf(`SELECT
			IDEvenementFournisseur,
			NFournisseur,
			NomFournisseur,
			CAST(Evolution AS FLOAT64) AS Evolution,
			FORMAT_DATE('%%d/%%m/%%Y', DateDu) AS DateDu,
			FORMAT_DATE('%%d/%%m/%%Y', DateAu) AS DateAu,
			IFNULL(TypeFlux, 'Tous') AS TypeFlux
		FROM `+"`%s`"+`
		ORDER BY IDEvenementFournisseur DESC`,
		r.wh.TableID("TblEvenementVenteFournisseur"))
	rows, err := r.wh.Read(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]entity.VenteFournisseur, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.scan(row))
	}
	return out, nil
}

func (r *VenteFournisseurRepository) Get(ctx context.Context, id int64) (*entity.VenteFournisseur, error) {
	q := fmt.Sprintf(`SELECT
			IDEvenementFournisseur,
			NFournisseur,
			NomFournisseur,
			CAST(Evolution AS FLOAT64) AS Evolution,
			FORMAT_DATE('%%Y-%%m-%%d', DateDu) AS DateDu,
			FORMAT_DATE('%%Y-%%m-%%d', DateAu) AS DateAu,
			IFNULL(TypeFlux, 'Tous') AS TypeFlux
		FROM `+"`%s`"+`
		WHERE IDEvenementFournisseur = @id`,
		r.wh.TableID("TblEvenementVenteFournisseur"))
	rows, err := r.wh.Read(ctx, q,
		bigquery.QueryParameter{Name: "id", Value: id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	v := r.scan(rows[0])
	return &v, nil
}

func (r *VenteFournisseurRepository) Insert(ctx context.Context, v entity.VenteFournisseur) error {
	q := fmt.Sprintf(`INSERT INTO `+"`%s`"+`
		(IDEvenementFournisseur, NFournisseur, NomFournisseur, Evolution, DateDu, DateAu, TypeFlux)
		SELECT COALESCE(MAX(IDEvenementFournisseur), 0) + 1, @n, @nom, @evol, @du, @au, @flux
		FROM `+"`%s`",
		r.wh.TableID("TblEvenementVenteFournisseur"), r.wh.TableID("TblEvenementVenteFournisseur"))
	return r.wh.Exec(ctx, q,
		bigquery.QueryParameter{Name: "n", Value: v.NFournisseur},
		bigquery.QueryParameter{Name: "nom", Value: v.NomFournisseur},
		bigquery.QueryParameter{Name: "evol", Value: ptrParam(v.Evolution)},
		bigquery.QueryParameter{Name: "du", Value: dateParam(v.DateDu)},
		bigquery.QueryParameter{Name: "au", Value: dateParam(v.DateAu)},
		bigquery.QueryParameter{Name: "flux", Value: v.TypeFlux},
	)
}

func (r *VenteFournisseurRepository) Update(ctx context.Context, v entity.VenteFournisseur) error {
	q := fmt.Sprintf(`UPDATE `+"`%s`"+`
		SET NFournisseur = @n,
			NomFournisseur = @nom,
			Evolution = @evol,
			DateDu = @du,
			DateAu = @au,
			TypeFlux = @flux
		WHERE IDEvenementFournisseur = @id`,
		r.wh.TableID("TblEvenementVenteFournisseur"))
	return r.wh.Exec(ctx, q,
		bigquery.QueryParameter{Name: "n", Value: v.NFournisseur},
		bigquery.QueryParameter{Name: "nom", Value: v.NomFournisseur},
		bigquery.QueryParameter{Name: "evol", Value: ptrParam(v.Evolution)},
		bigquery.QueryParameter{Name: "du", Value: dateParam(v.DateDu)},
		bigquery.QueryParameter{Name: "au", Value: dateParam(v.DateAu)},
		bigquery.QueryParameter{Name: "flux", Value: v.TypeFlux},
		bigquery.QueryParameter{Name: "id", Value: v.ID},
	)
}

func (r *VenteFournisseurRepository) Delete(ctx context.Context, id int64) error {
	q := fmt.Sprintf("DELETE FROM `%s` WHERE IDEvenementFournisseur = @id",
		r.wh.TableID("TblEvenementVenteFournisseur"))
	return r.wh.Exec(ctx, q,
		bigquery.QueryParameter{Name: "id", Value: id})
}

// VenteFamilleRepository stores per-family exceptional-sales events.
type VenteFamilleRepository struct {
	wh *warehouse.Client
}

func NewVenteFamilleRepository(wh *warehouse.Client) *VenteFamilleRepository {
	return &VenteFamilleRepository{wh: wh}
}

func (r *VenteFamilleRepository) scan(row warehouse.Row) entity.VenteFamille {
	return entity.VenteFamille{
		ID:                asInt64(row["IDEvenementFamilleProduit"]),
		FamilleDeProduit1: asString(row["FamilleDeProduit1"]),
		FamilleDeProduit2: asString(row["FamilleDeProduit2"]),
		FamilleDeProduit3: asString(row["FamilleDeProduit3"]),
		Evolution:         asFloatPtr(row["Evolution"]),
		DateDu:            asString(row["DateDu"]),
		DateAu:            asString(row["DateAu"]),
		TypeFlux:          asString(row["TypeFlux"]),
	}
}

func (r *VenteFamilleRepository) List(ctx context.Context) ([]entity.VenteFamille, error) {
	q := fmt.Sprintf(`SELECT
			IDEvenementFamilleProduit,
			FamilleDeProduit1,
			FamilleDeProduit2,
			FamilleDeProduit3,
			CAST(Evolution AS FLOAT64) AS Evolution,
			FORMAT_DATE('%%d/%%m/%%Y', DateDu) AS DateDu,
			FORMAT_DATE('%%d/%%m/%%Y', DateAu) AS DateAu,
			IFNULL(TypeFlux, 'Tous') AS TypeFlux
		FROM `+"`%s`"+`
		ORDER BY IDEvenementFamilleProduit DESC`,
		r.wh.TableID("TblEvenementVenteFamilleProduit"))
	rows, err := r.wh.Read(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]entity.VenteFamille, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.scan(row))
	}
	return out, nil
}

func (r *VenteFamilleRepository) Get(ctx context.Context, id int64) (*entity.VenteFamille, error) {
	q := fmt.Sprintf(`SELECT
			IDEvenementFamilleProduit,
			FamilleDeProduit1,
			FamilleDeProduit2,
			FamilleDeProduit3,
			CAST(Evolution AS FLOAT64) AS Evolution,
			FORMAT_DATE('%%Y-%%m-%%d', DateDu) AS DateDu,
			FORMAT_DATE('%%Y-%%m-%%d', DateAu) AS DateAu,
			IFNULL(TypeFlux, 'Tous') AS TypeFlux
		FROM `+"`%s`"+`
		WHERE IDEvenementFamilleProduit = @id`,
		r.wh.TableID("TblEvenementVenteFamilleProduit"))
	rows, err := r.wh.Read(ctx, q,
		bigquery.QueryParameter{Name: "id", Value: id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	v := r.scan(rows[0])
	return &v, nil
}

func (r *VenteFamilleRepository) Insert(ctx context.Context, v entity.VenteFamille) error {
	q := fmt.Sprintf(`INSERT INTO `+"`%s`"+`
		(IDEvenementFamilleProduit, FamilleDeProduit1, FamilleDeProduit2, FamilleDeProduit3, Evolution, DateDu, DateAu, TypeFlux)
		SELECT COALESCE(MAX(IDEvenementFamilleProduit), 0) + 1, @f1, @f2, @f3, @evol, @du, @au, @flux
		FROM `+"`%s`",
		r.wh.TableID("TblEvenementVenteFamilleProduit"), r.wh.TableID("TblEvenementVenteFamilleProduit"))
	return r.wh.Exec(ctx, q,
		bigquery.QueryParameter{Name: "f1", Value: v.FamilleDeProduit1},
		bigquery.QueryParameter{Name: "f2", Value: v.FamilleDeProduit2},
		bigquery.QueryParameter{Name: "f3", Value: v.FamilleDeProduit3},
		bigquery.QueryParameter{Name: "evol", Value: ptrParam(v.Evolution)},
		bigquery.QueryParameter{Name: "du", Value: dateParam(v.DateDu)},
		bigquery.QueryParameter{Name: "au", Value: dateParam(v.DateAu)},
		bigquery.QueryParameter{Name: "flux", Value: v.TypeFlux},
	)
}

func (r *VenteFamilleRepository) Update(ctx context.Context, v entity.VenteFamille) error {
	q := fmt.Sprintf(`UPDATE `+"`%s`"+`
		SET FamilleDeProduit1 = @f1,
			FamilleDeProduit2 = @f2,
			FamilleDeProduit3 = @f3,
			Evolution = @evol,
			DateDu = @du,
			DateAu = @au,
			TypeFlux = @flux
		WHERE IDEvenementFamilleProduit = @id`,
		r.wh.TableID("TblEvenementVenteFamilleProduit"))
	return r.wh.Exec(ctx, q,
		bigquery.QueryParameter{Name: "f1", Value: v.FamilleDeProduit1},
		bigquery.QueryParameter{Name: "f2", Value: v.FamilleDeProduit2},
		bigquery.QueryParameter{Name: "f3", Value: v.FamilleDeProduit3},
		bigquery.QueryParameter{Name: "evol", Value: ptrParam(v.Evolution)},
		bigquery.QueryParameter{Name: "du", Value: dateParam(v.DateDu)},
		bigquery.QueryParameter{Name: "au", Value: dateParam(v.DateAu)},
		bigquery.QueryParameter{Name: "flux", Value: v.TypeFlux},
		bigquery.QueryParameter{Name: "id", Value: v.ID},
	)
}

// Delete removes one event. A nil id removes the rows that lost their
// identifier, a legacy cleanup the screen still exposes.
func (r *VenteFamilleRepository) Delete(ctx context.Context, id *int64) error {
	if id == nil {
		q := fmt.Sprintf("DELETE FROM `%s` WHERE IDEvenementFamilleProduit IS NULL",
			r.wh.TableID("TblEvenementVenteFamilleProduit"))
		return r.wh.Exec(ctx, q)
	}
	q := fmt.Sprintf("DELETE FROM `%s` WHERE IDEvenementFamilleProduit = @id",
		r.wh.TableID("TblEvenementVenteFamilleProduit"))
	return r.wh.Exec(ctx, q,
		bigquery.QueryParameter{Name: "id", Value: *id})
}
