package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"github.com/CedricGauzargues/Slottix/internal/warehouse"
)

// TypeRepository manages the three-level location type hierarchy stored in
// TblTypeEmpla123.
type TypeRepository struct {
	wh *warehouse.Client
}

func NewTypeRepository(wh *warehouse.Client) *TypeRepository {
	return &TypeRepository{wh: wh}
}

func (r *TypeRepository) List(ctx context.Context) ([]entity.TypeEmplacement, error) {
	q := fmt.Sprintf("SELECT Type1, Type2, Type3 FROM `%s` ORDER BY Type1, Type2, Type3",
		r.wh.TableID("TblTypeEmpla123"))
	rows, err := r.wh.Read(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]entity.TypeEmplacement, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.TypeEmplacement{
			Type1: asString(row["Type1"]),
			Type2: asString(row["Type2"]),
			Type3: asString(row["Type3"]),
		})
	}
	return out, nil
}

// Hierarchy folds the rows into Type1 -> Type2 -> [Type3] for the cascading
// selects of the detail screen.
func (r *TypeRepository) Hierarchy(ctx context.Context) (entity.TypeHierarchy, error) {
	types, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	h := make(entity.TypeHierarchy)
	for _, t := range types {
		if _, ok := h[t.Type1]; !ok {
			h[t.Type1] = make(map[string][]string)
		}
		h[t.Type1][t.Type2] = append(h[t.Type1][t.Type2], t.Type3)
	}
	return h, nil
}

// GetByType1 returns the first triple of a top-level branch.
func (r *TypeRepository) GetByType1(ctx context.Context, type1 string) (*entity.TypeEmplacement, error) {
	q := fmt.Sprintf("SELECT Type1, Type2, Type3 FROM `%s` WHERE Type1 = @type LIMIT 1",
		r.wh.TableID("TblTypeEmpla123"))
	rows, err := r.wh.Read(ctx, q,
		bigquery.QueryParameter{Name: "type", Value: type1})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &entity.TypeEmplacement{
		Type1: asString(rows[0]["Type1"]),
		Type2: asString(rows[0]["Type2"]),
		Type3: asString(rows[0]["Type3"]),
	}, nil
}

// Exists reports whether the exact triple is already declared.
func (r *TypeRepository) Exists(ctx context.Context, t entity.TypeEmplacement) (bool, error) {
	q := fmt.Sprintf(`SELECT COUNT(*) AS n FROM `+"`%s`"+`
		WHERE Type1 = @type1 AND Type2 = @type2 AND Type3 = @type3`,
		r.wh.TableID("TblTypeEmpla123"))
	rows, err := r.wh.Read(ctx, q,
		bigquery.QueryParameter{Name: "type1", Value: t.Type1},
		bigquery.QueryParameter{Name: "type2", Value: t.Type2},
		bigquery.QueryParameter{Name: "type3", Value: t.Type3},
	)
	if err != nil {
		return false, err
	}
	return len(rows) > 0 && asInt64(rows[0]["n"]) > 0, nil
}

func (r *TypeRepository) Insert(ctx context.Context, t entity.TypeEmplacement) error {
	q := fmt.Sprintf("INSERT INTO `%s` (Type1, Type2, Type3) VALUES (@type1, @type2, @type3)",
		r.wh.TableID("TblTypeEmpla123"))
	return r.wh.Exec(ctx, q,
		bigquery.QueryParameter{Name: "type1", Value: t.Type1},
		bigquery.QueryParameter{Name: "type2", Value: t.Type2},
		bigquery.QueryParameter{Name: "type3", Value: t.Type3},
	)
}

// DeleteByType1 removes a whole top-level branch.
func (r *TypeRepository) DeleteByType1(ctx context.Context, type1 string) error {
	q := fmt.Sprintf("DELETE FROM `%s` WHERE Type1 = @type1",
		r.wh.TableID("TblTypeEmpla123"))
	return r.wh.Exec(ctx, q,
		bigquery.QueryParameter{Name: "type1", Value: type1})
}
