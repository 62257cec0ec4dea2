package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"github.com/CedricGauzargues/Slottix/internal/warehouse"
)

// CircuitRepository manages picking circuit groups. A group is stored as
// one row per circuit in TblGroupeCircuit.
type CircuitRepository struct {
	wh *warehouse.Client
}

func NewCircuitRepository(wh *warehouse.Client) *CircuitRepository {
	return &CircuitRepository{wh: wh}
}

// Groups folds the rows into one entry per group with its circuit list.
func (r *CircuitRepository) Groups(ctx context.Context) ([]entity.CircuitGroup, error) {
	q := fmt.Sprintf(`SELECT
			GroupeCircuit,
			ANY_VALUE(DesignationGroupeCircuit) AS DesignationGroupeCircuit,
			ARRAY_AGG(Circuit ORDER BY Circuit) AS Circuits
		FROM `+"`%s`"+`
		GROUP BY GroupeCircuit
		ORDER BY GroupeCircuit`,
		r.wh.TableID("TblGroupeCircuit"))
	rows, err := r.wh.Read(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]entity.CircuitGroup, 0, len(rows))
	for _, row := range rows {
		g := entity.CircuitGroup{
			GroupeCircuit:            asString(row["GroupeCircuit"]),
			DesignationGroupeCircuit: asString(row["DesignationGroupeCircuit"]),
			Circuits:                 []string{},
		}
		if arr, ok := row["Circuits"].([]bigquery.Value); ok {
			for _, v := range arr {
				g.Circuits = append(g.Circuits, asString(v))
			}
		}
		out = append(out, g)
	}
	return out, nil
}

// AvailableCircuits lists the picking circuits not yet assigned to any
// group.
func (r *CircuitRepository) AvailableCircuits(ctx context.Context) ([]string, error) {
	q := fmt.Sprintf(`WITH all_c AS (
			SELECT DISTINCT TRIM(Circuit) AS Circuit FROM `+"`%s`"+` WHERE Circuit IS NOT NULL
		),
		used_c AS (
			SELECT DISTINCT TRIM(Circuit) AS Circuit FROM `+"`%s`"+` WHERE Circuit IS NOT NULL
		)
		SELECT a.Circuit
		FROM all_c a
		LEFT JOIN used_c u ON a.Circuit = u.Circuit
		WHERE a.Circuit IS NOT NULL AND a.Circuit != "" AND u.Circuit IS NULL
		ORDER BY a.Circuit`,
		r.wh.TableID("TblPicking"), r.wh.TableID("TblGroupeCircuit"))
	rows, err := r.wh.Read(ctx, q)
	if err != nil {
		return nil, err
	}
	circuits := make([]string, 0, len(rows))
	for _, row := range rows {
		circuits = append(circuits, asString(row["Circuit"]))
	}
	return circuits, nil
}

func (r *CircuitRepository) GroupExists(ctx context.Context, groupe string) (bool, error) {
	q := fmt.Sprintf("SELECT COUNT(*) AS nb FROM `%s` WHERE GroupeCircuit = @groupe",
		r.wh.TableID("TblGroupeCircuit"))
	rows, err := r.wh.Read(ctx, q,
		bigquery.QueryParameter{Name: "groupe", Value: groupe})
	if err != nil {
		return false, err
	}
	return len(rows) > 0 && asInt64(rows[0]["nb"]) > 0, nil
}

// Conflicts returns the requested circuits already owned by another group.
func (r *CircuitRepository) Conflicts(ctx context.Context, groupe string, circuits []string) ([]entity.CircuitConflict, error) {
	q := fmt.Sprintf(`SELECT Circuit, GroupeCircuit
		FROM `+"`%s`"+`
		WHERE Circuit IN UNNEST(@circuits)
		  AND GroupeCircuit != @groupe
		ORDER BY Circuit`,
		r.wh.TableID("TblGroupeCircuit"))
	rows, err := r.wh.Read(ctx, q,
		bigquery.QueryParameter{Name: "circuits", Value: circuits},
		bigquery.QueryParameter{Name: "groupe", Value: groupe},
	)
	if err != nil {
		return nil, err
	}
	out := make([]entity.CircuitConflict, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.CircuitConflict{
			Circuit: asString(row["Circuit"]),
			Groupe:  asString(row["GroupeCircuit"]),
		})
	}
	return out, nil
}

// ReplaceGroup rewrites the full circuit list of a group: the previous
// rows are removed and the new selection inserted.
func (r *CircuitRepository) ReplaceGroup(ctx context.Context, g entity.CircuitGroup) error {
	del := fmt.Sprintf("DELETE FROM `%s` WHERE GroupeCircuit = @groupe",
		r.wh.TableID("TblGroupeCircuit"))
	if err := r.wh.Exec(ctx, del,
		bigquery.QueryParameter{Name: "groupe", Value: g.GroupeCircuit}); err != nil {
		return err
	}

	ins := fmt.Sprintf(`INSERT INTO `+"`%s`"+`
		(GroupeCircuit, DesignationGroupeCircuit, Circuit)
		SELECT @groupe, @designation, c FROM UNNEST(@circuits) AS c`,
		r.wh.TableID("TblGroupeCircuit"))
	return r.wh.Exec(ctx, ins,
		bigquery.QueryParameter{Name: "groupe", Value: g.GroupeCircuit},
		bigquery.QueryParameter{Name: "designation", Value: g.DesignationGroupeCircuit},
		bigquery.QueryParameter{Name: "circuits", Value: g.Circuits},
	)
}

func (r *CircuitRepository) DeleteGroup(ctx context.Context, groupe string) error {
	q := fmt.Sprintf("DELETE FROM `%s` WHERE GroupeCircuit = @g",
		r.wh.TableID("TblGroupeCircuit"))
	return r.wh.Exec(ctx, q,
		bigquery.QueryParameter{Name: "g", Value: groupe})
}
