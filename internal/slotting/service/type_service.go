package service

import (
	"context"
	"strings"

	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
)

// TypeService manages the three-level location type referential.
type TypeService struct {
	types TypeStore
}

func NewTypeService(types TypeStore) *TypeService {
	return &TypeService{types: types}
}

func (s *TypeService) List(ctx context.Context) ([]entity.TypeEmplacement, error) {
	return s.types.List(ctx)
}

func (s *TypeService) Get(ctx context.Context, type1 string) (*entity.TypeEmplacement, error) {
	return s.types.GetByType1(ctx, type1)
}

// Add inserts a new triple. Duplicates are rejected, not upserted.
func (s *TypeService) Add(ctx context.Context, t entity.TypeEmplacement) error {
	t.Type1 = strings.TrimSpace(t.Type1)
	t.Type2 = strings.TrimSpace(t.Type2)
	t.Type3 = strings.TrimSpace(t.Type3)
	if t.Type1 == "" {
		return Invalid("le champ Type1 est obligatoire")
	}

	exists, err := s.types.Exists(ctx, t)
	if err != nil {
		return err
	}
	if exists {
		return Invalid("ce type d'emplacement (%s, %s, %s) existe déjà", t.Type1, t.Type2, t.Type3)
	}
	return s.types.Insert(ctx, t)
}

// Delete removes every triple of one top-level type.
func (s *TypeService) Delete(ctx context.Context, type1 string) error {
	if strings.TrimSpace(type1) == "" {
		return Invalid("le champ Type1 est obligatoire")
	}
	return s.types.DeleteByType1(ctx, type1)
}
