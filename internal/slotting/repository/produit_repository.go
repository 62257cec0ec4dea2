package repository

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/bigquery"
	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"github.com/CedricGauzargues/Slottix/internal/warehouse"
)

// ProduitRepository reads the product master, used by the sales-event
// screens for referential checks and select options.
type ProduitRepository struct {
	wh *warehouse.Client
}

func NewProduitRepository(wh *warehouse.Client) *ProduitRepository {
	return &ProduitRepository{wh: wh}
}

func (r *ProduitRepository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	q := fmt.Sprintf("SELECT COUNT(*) AS n FROM `%s` WHERE Reference = @r",
		r.wh.TableID("TblProduit"))
	rows, err := r.wh.Read(ctx, q,
		bigquery.QueryParameter{Name: "r", Value: reference})
	if err != nil {
		return false, err
	}
	return len(rows) > 0 && asInt64(rows[0]["n"]) > 0, nil
}

// FindFournisseur resolves a supplier by number or by name, returning the
// canonical pair stored in the product master.
func (r *ProduitRepository) FindFournisseur(ctx context.Context, numero, nom string) (*entity.Fournisseur, error) {
	q := fmt.Sprintf(`SELECT NFournisseur, NomFournisseur
		FROM `+"`%s`"+`
		WHERE NFournisseur = @n OR LOWER(TRIM(NomFournisseur)) = LOWER(TRIM(@nom))
		LIMIT 1`,
		r.wh.TableID("TblProduit"))
	rows, err := r.wh.Read(ctx, q,
		bigquery.QueryParameter{Name: "n", Value: numero},
		bigquery.QueryParameter{Name: "nom", Value: nom},
	)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &entity.Fournisseur{
		NFournisseur:   asString(rows[0]["NFournisseur"]),
		NomFournisseur: asString(rows[0]["NomFournisseur"]),
	}, nil
}

// LookupFournisseur is the autocomplete search of the supplier screen.
func (r *ProduitRepository) LookupFournisseur(ctx context.Context, term string) ([]entity.Fournisseur, error) {
	q := fmt.Sprintf(`SELECT DISTINCT NFournisseur, NomFournisseur
		FROM `+"`%s`"+`
		WHERE LOWER(TRIM(NFournisseur)) LIKE LOWER(TRIM(@t))
		   OR LOWER(TRIM(NomFournisseur)) LIKE LOWER(TRIM(@t))
		LIMIT 10`,
		r.wh.TableID("TblProduit"))
	rows, err := r.wh.Read(ctx, q,
		bigquery.QueryParameter{Name: "t", Value: "%" + term + "%"})
	if err != nil {
		return nil, err
	}
	out := make([]entity.Fournisseur, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.Fournisseur{
			NFournisseur:   asString(row["NFournisseur"]),
			NomFournisseur: asString(row["NomFournisseur"]),
		})
	}
	return out, nil
}

// FamilleOptions collects the distinct family values per hierarchy level.
func (r *ProduitRepository) FamilleOptions(ctx context.Context) (*entity.FamilleOptions, error) {
	q := fmt.Sprintf(`SELECT DISTINCT FamilleDeProduit1, FamilleDeProduit2, FamilleDeProduit3
		FROM `+"`%s`", r.wh.TableID("TblProduit"))
	rows, err := r.wh.Read(ctx, q)
	if err != nil {
		return nil, err
	}
	f1 := map[string]bool{}
	f2 := map[string]bool{}
	f3 := map[string]bool{}
	for _, row := range rows {
		if v := asString(row["FamilleDeProduit1"]); v != "" {
			f1[v] = true
		}
		if v := asString(row["FamilleDeProduit2"]); v != "" {
			f2[v] = true
		}
		if v := asString(row["FamilleDeProduit3"]); v != "" {
			f3[v] = true
		}
	}
	return &entity.FamilleOptions{
		Famille1: sortedKeys(f1),
		Famille2: sortedKeys(f2),
		Famille3: sortedKeys(f3),
	}, nil
}

// TypeFluxOptions lists the distinct flow types seen in the sales history.
func (r *ProduitRepository) TypeFluxOptions(ctx context.Context) ([]string, error) {
	q := fmt.Sprintf(`SELECT DISTINCT TRIM(TypeFlux) AS TypeFlux
		FROM `+"`%s`"+`
		WHERE TypeFlux IS NOT NULL AND TRIM(TypeFlux) <> ''
		ORDER BY TypeFlux`,
		r.wh.TableID("TblHistoriqueStockVente"))
	rows, err := r.wh.Read(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, asString(row["TypeFlux"]))
	}
	return out, nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
