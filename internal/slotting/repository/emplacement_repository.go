package repository

import (
	"context"

	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"gorm.io/gorm"
)

// EmplacementRepository reads the relational copy of the location grid.
type EmplacementRepository struct {
	db *gorm.DB
}

func NewEmplacementRepository(db *gorm.DB) *EmplacementRepository {
	return &EmplacementRepository{db: db}
}

// ListForRouting returns every location usable by the route screens,
// hierarchically ordered.
func (r *EmplacementRepository) ListForRouting(ctx context.Context) ([]entity.Emplacement, error) {
	var emps []entity.Emplacement
	err := r.db.WithContext(ctx).
		Where("zone IS NOT NULL AND zone <> ''").
		Order("zone ASC, allee ASC, deplacement ASC, niveau ASC").
		Find(&emps).Error
	return emps, err
}

// ByZones returns all locations of either zone, the input of the secondary
// route sweep.
func (r *EmplacementRepository) ByZones(ctx context.Context, zone1, zone2 string) ([]entity.Emplacement, error) {
	var emps []entity.Emplacement
	err := r.db.WithContext(ctx).
		Where("zone IN ?", []string{zone1, zone2}).
		Order("zone ASC, allee ASC, deplacement ASC").
		Find(&emps).Error
	return emps, err
}

// EnginRepository lists vehicle types.
type EnginRepository struct {
	db *gorm.DB
}

func NewEnginRepository(db *gorm.DB) *EnginRepository {
	return &EnginRepository{db: db}
}

func (r *EnginRepository) List(ctx context.Context) ([]entity.Engin, error) {
	var engins []entity.Engin
	err := r.db.WithContext(ctx).Order("typeengin ASC").Find(&engins).Error
	return engins, err
}
