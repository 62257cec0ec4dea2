package repository

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"github.com/CedricGauzargues/Slottix/internal/warehouse"
)

const (
	masterTable  = "TblEmplacement"
	stagingTable = "_Temp_TblEmplacement"
)

// MasterEmplacementRepository manages the warehouse location master: the
// staged merge of imports and the detail-grid reads and batch updates.
type MasterEmplacementRepository struct {
	wh *warehouse.Client
}

func NewMasterEmplacementRepository(wh *warehouse.Client) *MasterEmplacementRepository {
	return &MasterEmplacementRepository{wh: wh}
}

// StageBatch truncate-loads the cleaned import into the staging table.
// Rows are padded to the full master schema so the merge can reference
// every master column even when the file carried only a subset; columns
// unknown to the master are dropped.
func (r *MasterEmplacementRepository) StageBatch(ctx context.Context, rows []warehouse.Row) error {
	schema, err := r.wh.TableSchema(ctx, masterTable)
	if err != nil {
		return fmt.Errorf("master schema: %w", err)
	}
	known := make(map[string]bool, len(schema))
	for _, f := range schema {
		known[f.Name] = true
	}
	staged := make([]warehouse.Row, 0, len(rows))
	for _, row := range rows {
		out := make(warehouse.Row, len(schema))
		for name, v := range row {
			if known[name] {
				out[name] = v
			}
		}
		staged = append(staged, out)
	}
	return r.wh.LoadTruncate(ctx, stagingTable, schema, staged)
}

// MergeStaged reconciles the staging table into the master. Matched rows
// are updated field by field, keeping the stored value whenever the staged
// one is NULL (or empty, for the type columns); unmatched rows are
// inserted whole.
func (r *MasterEmplacementRepository) MergeStaged(ctx context.Context) error {
	q := fmt.Sprintf(`MERGE `+"`%s`"+` AS T
		USING `+"`%s`"+` AS S
		ON T.Zone = S.Zone
		AND T.Allee = S.Allee
		AND T.Deplacement = S.Deplacement
		AND T.Niveau = S.Niveau

		WHEN MATCHED THEN
		  UPDATE SET
			T.PoidsLimiteTotal    = COALESCE(S.PoidsLimiteTotal, T.PoidsLimiteTotal),
			T.Hauteur             = COALESCE(S.Hauteur, T.Hauteur),
			T.Largeur             = COALESCE(S.Largeur, T.Largeur),
			T.Profondeur          = COALESCE(S.Profondeur, T.Profondeur),
			T.PoidsLimiteUnitaire = COALESCE(S.PoidsLimiteUnitaire, T.PoidsLimiteUnitaire),
			T.X = COALESCE(S.X, T.X),
			T.Y = COALESCE(S.Y, T.Y),
			T.Z = COALESCE(S.Z, T.Z),
			T.Type1 = IFNULL(NULLIF(CAST(S.Type1 AS STRING), ''), T.Type1),
			T.Type2 = IFNULL(NULLIF(CAST(S.Type2 AS STRING), ''), T.Type2),
			T.Type3 = IFNULL(NULLIF(CAST(S.Type3 AS STRING), ''), T.Type3),
			T.Palette = COALESCE(S.Palette, T.Palette)

		WHEN NOT MATCHED BY TARGET THEN
		  INSERT (
			Zone, Allee, Deplacement, Niveau,
			PoidsLimiteTotal, Hauteur, Largeur, Profondeur,
			PoidsLimiteUnitaire, X, Y, Z,
			Type1, Type2, Type3, Palette
		  )
		  VALUES (
			S.Zone, S.Allee, S.Deplacement, S.Niveau,
			S.PoidsLimiteTotal, S.Hauteur, S.Largeur, S.Profondeur,
			S.PoidsLimiteUnitaire, S.X, S.Y, S.Z,
			CAST(S.Type1 AS STRING), CAST(S.Type2 AS STRING), CAST(S.Type3 AS STRING), S.Palette
		  )`,
		r.wh.TableID(masterTable), r.wh.TableID(stagingTable))
	return r.wh.Exec(ctx, q)
}

// DiscardStage drops the staging table. Missing table is not an error, so
// the call is safe on every exit path of a merge.
func (r *MasterEmplacementRepository) DiscardStage(ctx context.Context) error {
	return r.wh.DeleteTable(ctx, stagingTable)
}

// Detail returns one grid page, hierarchically ordered.
func (r *MasterEmplacementRepository) Detail(ctx context.Context, f entity.DetailFilter, start, length int64) ([]warehouse.Row, error) {
	conds := []string{}
	params := []bigquery.QueryParameter{}

	if f.Zone != "" {
		conds = append(conds, "LOWER(e.Zone) = LOWER(@zone)")
		params = append(params, bigquery.QueryParameter{Name: "zone", Value: f.Zone})
	}
	if f.Allee != nil {
		conds = append(conds, "e.Allee = @allee")
		params = append(params, bigquery.QueryParameter{Name: "allee", Value: *f.Allee})
	}
	switch {
	case f.DeplacementFrom != nil && f.DeplacementTo != nil:
		conds = append(conds, "e.Deplacement BETWEEN @dep_from AND @dep_to")
		params = append(params,
			bigquery.QueryParameter{Name: "dep_from", Value: *f.DeplacementFrom},
			bigquery.QueryParameter{Name: "dep_to", Value: *f.DeplacementTo})
	case f.DeplacementFrom != nil:
		conds = append(conds, "e.Deplacement = @dep_from_eq")
		params = append(params, bigquery.QueryParameter{Name: "dep_from_eq", Value: *f.DeplacementFrom})
	}
	if f.NiveauFrom != nil && f.NiveauTo != nil {
		conds = append(conds, "e.Niveau BETWEEN @niv_from AND @niv_to")
		params = append(params,
			bigquery.QueryParameter{Name: "niv_from", Value: *f.NiveauFrom},
			bigquery.QueryParameter{Name: "niv_to", Value: *f.NiveauTo})
	}
	if f.Type1 != "" {
		conds = append(conds, "LOWER(e.Type1) = LOWER(@type1)")
		params = append(params, bigquery.QueryParameter{Name: "type1", Value: f.Type1})
	}
	if f.Type2 != "" {
		conds = append(conds, "LOWER(e.Type2) = LOWER(@type2)")
		params = append(params, bigquery.QueryParameter{Name: "type2", Value: f.Type2})
	}
	if f.Type3 != "" {
		conds = append(conds, "LOWER(e.Type3) = LOWER(@type3)")
		params = append(params, bigquery.QueryParameter{Name: "type3", Value: f.Type3})
	}
	if f.Search != "" {
		conds = append(conds, `(CAST(e.Zone AS STRING) LIKE @search
			OR CAST(e.Allee AS STRING) LIKE @search
			OR CAST(e.Deplacement AS STRING) LIKE @search
			OR CAST(e.Niveau AS STRING) LIKE @search)`)
		params = append(params, bigquery.QueryParameter{Name: "search", Value: "%" + f.Search + "%"})
	}

	whereSQL := ""
	if len(conds) > 0 {
		whereSQL = " WHERE " + strings.Join(conds, " AND ")
	}

	q := fmt.Sprintf(`SELECT
			e.Zone, e.Allee, e.Deplacement, e.Niveau,
			e.Profondeur AS longueur, e.Largeur AS largeur, e.Hauteur AS hauteur,
			e.PoidsLimiteTotal, e.PoidsLimiteUnitaire,
			e.X, e.Y, e.Z,
			e.Type1, e.Type2, e.Type3,
			e.Palette
		FROM `+"`%s`"+` AS e
		%s
		ORDER BY e.Zone ASC, e.Allee ASC, e.Deplacement ASC, e.Niveau ASC
		LIMIT @length OFFSET @start`,
		r.wh.TableID(masterTable), whereSQL)

	params = append(params,
		bigquery.QueryParameter{Name: "length", Value: length},
		bigquery.QueryParameter{Name: "start", Value: start})

	return r.wh.Read(ctx, q, params...)
}

// Count returns the total master row count for the grid pager.
func (r *MasterEmplacementRepository) Count(ctx context.Context) (int64, error) {
	q := fmt.Sprintf("SELECT COUNT(*) AS total FROM `%s`", r.wh.TableID(masterTable))
	rows, err := r.wh.Read(ctx, q)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return asInt64(rows[0]["total"]), nil
}

// BatchUpdate applies a set of grid edits in one statement. Null fields in
// a change keep the stored value.
func (r *MasterEmplacementRepository) BatchUpdate(ctx context.Context, changes []entity.EmplacementChange) error {
	if len(changes) == 0 {
		return nil
	}
	q := fmt.Sprintf(`UPDATE `+"`%s`"+` AS T
		SET
		  T.X = COALESCE(N.X, T.X),
		  T.Y = COALESCE(N.Y, T.Y),
		  T.Z = COALESCE(N.Z, T.Z),
		  T.PoidsLimiteUnitaire = COALESCE(N.PoidsLimiteUnitaire, T.PoidsLimiteUnitaire),
		  T.Type1 = COALESCE(N.Type1, T.Type1),
		  T.Type2 = COALESCE(N.Type2, T.Type2),
		  T.Type3 = COALESCE(N.Type3, T.Type3),
		  T.Palette = COALESCE(N.Palette, T.Palette)
		FROM UNNEST(@changes) AS N
		WHERE
		  LOWER(TRIM(T.Zone)) = LOWER(TRIM(N.Zone))
		  AND T.Allee = N.Allee
		  AND T.Deplacement = N.Deplacement
		  AND T.Niveau = N.Niveau`,
		r.wh.TableID(masterTable))
	return r.wh.Exec(ctx, q,
		bigquery.QueryParameter{Name: "changes", Value: changes})
}
