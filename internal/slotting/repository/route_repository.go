package repository

import (
	"context"
	"errors"

	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"gorm.io/gorm"
)

type RouteRepository struct {
	db *gorm.DB
}

func NewRouteRepository(db *gorm.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

func (r *RouteRepository) List(ctx context.Context) ([]entity.RouteSimple, error) {
	var routes []entity.RouteSimple
	err := r.db.WithContext(ctx).Order("nomroute ASC").Find(&routes).Error
	return routes, err
}

func (r *RouteRepository) FindByID(ctx context.Context, id string) (*entity.RouteSimple, error) {
	var route entity.RouteSimple
	err := r.db.WithContext(ctx).First(&route, "idroute = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &route, nil
}

func (r *RouteRepository) Create(ctx context.Context, route *entity.RouteSimple) error {
	return r.db.WithContext(ctx).Create(route).Error
}

// UpdateFields applies a partial update; keys are gorm column names already
// restricted to the known field list by the service.
func (r *RouteRepository) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	res := r.db.WithContext(ctx).
		Model(&entity.RouteSimple{}).
		Where("idroute = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RouteRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.RouteSimple{}, "idroute = ?", id).Error
}

// CreateSecondaires persists a generation sweep in one batch.
func (r *RouteRepository) CreateSecondaires(ctx context.Context, routes []entity.RouteSecondaire) error {
	if len(routes) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(routes, 500).Error
}

// SecondairesByRoute returns the segments owned by one primary route.
func (r *RouteRepository) SecondairesByRoute(ctx context.Context, idRoute string) ([]entity.RouteSecondaire, error) {
	var routes []entity.RouteSecondaire
	err := r.db.WithContext(ctx).
		Where("idrouteprincipale = ?", idRoute).
		Order("typeroute ASC, zone ASC, allee ASC").
		Find(&routes).Error
	return routes, err
}
