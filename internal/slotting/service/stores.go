package service

import (
	"context"

	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"github.com/CedricGauzargues/Slottix/internal/slotting/repository"
	"github.com/CedricGauzargues/Slottix/internal/warehouse"
)

// Consumer-side views of the warehouse repositories. The concrete
// implementations live in the repository package; tests substitute
// in-memory fakes.

// CatalogStore is the generic table surface used by imports and exports.
type CatalogStore interface {
	ActiveTables(ctx context.Context) ([]string, error)
	TableSchema(ctx context.Context, table string) ([]warehouse.Field, error)
	ReplaceTable(ctx context.Context, table string, schema []warehouse.Field, rows []warehouse.Row) error
	TableColumns(ctx context.Context, table string) ([]repository.ColumnInfo, error)
	ReadTable(ctx context.Context, table string) ([]string, []warehouse.Row, error)
}

// HistoryStore records import runs.
type HistoryStore interface {
	Append(ctx context.Context, h entity.ImportHistory) error
	List(ctx context.Context) ([]entity.ImportHistory, error)
	MarkSuccess(ctx context.Context, fichier string, lignes int64) error
	MarkError(ctx context.Context, fichier, detail string) error
}

// EmplacementStore is the staged-merge surface of the location master.
type EmplacementStore interface {
	StageBatch(ctx context.Context, rows []warehouse.Row) error
	MergeStaged(ctx context.Context) error
	DiscardStage(ctx context.Context) error
}

// DetailStore is the grid surface of the location master.
type DetailStore interface {
	Detail(ctx context.Context, f entity.DetailFilter, start, length int64) ([]warehouse.Row, error)
	Count(ctx context.Context) (int64, error)
	BatchUpdate(ctx context.Context, changes []entity.EmplacementChange) error
}

// TypeStore manages the location type hierarchy.
type TypeStore interface {
	List(ctx context.Context) ([]entity.TypeEmplacement, error)
	Hierarchy(ctx context.Context) (entity.TypeHierarchy, error)
	GetByType1(ctx context.Context, type1 string) (*entity.TypeEmplacement, error)
	Exists(ctx context.Context, t entity.TypeEmplacement) (bool, error)
	Insert(ctx context.Context, t entity.TypeEmplacement) error
	DeleteByType1(ctx context.Context, type1 string) error
}

// CircuitStore manages picking circuit groups.
type CircuitStore interface {
	Groups(ctx context.Context) ([]entity.CircuitGroup, error)
	AvailableCircuits(ctx context.Context) ([]string, error)
	GroupExists(ctx context.Context, groupe string) (bool, error)
	Conflicts(ctx context.Context, groupe string, circuits []string) ([]entity.CircuitConflict, error)
	ReplaceGroup(ctx context.Context, g entity.CircuitGroup) error
	DeleteGroup(ctx context.Context, groupe string) error
}

// VenteRefStore stores per-reference sales events.
type VenteRefStore interface {
	List(ctx context.Context) ([]entity.VenteRef, error)
	Get(ctx context.Context, id int64) (*entity.VenteRef, error)
	Insert(ctx context.Context, v entity.VenteRef) error
	Update(ctx context.Context, v entity.VenteRef) error
	Delete(ctx context.Context, id int64) error
}

// VenteFournisseurStore stores per-supplier sales events.
type VenteFournisseurStore interface {
	List(ctx context.Context) ([]entity.VenteFournisseur, error)
	Get(ctx context.Context, id int64) (*entity.VenteFournisseur, error)
	Insert(ctx context.Context, v entity.VenteFournisseur) error
	Update(ctx context.Context, v entity.VenteFournisseur) error
	Delete(ctx context.Context, id int64) error
}

// VenteFamilleStore stores per-family sales events.
type VenteFamilleStore interface {
	List(ctx context.Context) ([]entity.VenteFamille, error)
	Get(ctx context.Context, id int64) (*entity.VenteFamille, error)
	Insert(ctx context.Context, v entity.VenteFamille) error
	Update(ctx context.Context, v entity.VenteFamille) error
	Delete(ctx context.Context, id *int64) error
}

// ProduitStore is the product-master surface of the sales-event screens.
type ProduitStore interface {
	ReferenceExists(ctx context.Context, reference string) (bool, error)
	FindFournisseur(ctx context.Context, numero, nom string) (*entity.Fournisseur, error)
	LookupFournisseur(ctx context.Context, term string) ([]entity.Fournisseur, error)
	FamilleOptions(ctx context.Context) (*entity.FamilleOptions, error)
	TypeFluxOptions(ctx context.Context) ([]string, error)
}
