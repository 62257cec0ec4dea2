package service

import (
	"context"

	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"github.com/CedricGauzargues/Slottix/internal/warehouse"
)

// DetailPage is one server-side page of the location grid.
type DetailPage struct {
	Draw            int             `json:"draw"`
	RecordsTotal    int64           `json:"recordsTotal"`
	RecordsFiltered int64           `json:"recordsFiltered"`
	Data            []warehouse.Row `json:"data"`
}

// DetailService serves the location-detail grid: filtered pages, the type
// hierarchy for the cascading selects, and batch edits.
type DetailService struct {
	master DetailStore
	types  TypeStore
}

func NewDetailService(master DetailStore, types TypeStore) *DetailService {
	return &DetailService{master: master, types: types}
}

// Page returns one grid page plus the pager totals.
func (s *DetailService) Page(ctx context.Context, f entity.DetailFilter, start, length int64, draw int) (*DetailPage, error) {
	if length <= 0 {
		length = 50
	}
	if start < 0 {
		start = 0
	}
	rows, err := s.master.Detail(ctx, f, start, length)
	if err != nil {
		return nil, err
	}
	total, err := s.master.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &DetailPage{
		Draw:            draw,
		RecordsTotal:    total,
		RecordsFiltered: total,
		Data:            rows,
	}, nil
}

// TypeHierarchy feeds the Type1/Type2/Type3 cascading selects.
func (s *DetailService) TypeHierarchy(ctx context.Context) (entity.TypeHierarchy, error) {
	return s.types.Hierarchy(ctx)
}

// BatchUpdate applies the edited rows in one statement and returns how
// many were submitted.
func (s *DetailService) BatchUpdate(ctx context.Context, changes []entity.EmplacementChange) (int, error) {
	if len(changes) == 0 {
		return 0, Invalid("aucune donnée reçue")
	}
	if err := s.master.BatchUpdate(ctx, changes); err != nil {
		return 0, err
	}
	return len(changes), nil
}
