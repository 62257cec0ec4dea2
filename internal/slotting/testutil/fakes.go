package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"github.com/CedricGauzargues/Slottix/internal/slotting/repository"
	"github.com/CedricGauzargues/Slottix/internal/warehouse"
)

// In-memory stand-ins for the warehouse repositories. They satisfy the
// service store interfaces structurally so tests can run without BigQuery.

// FakeCatalog serves tables from memory.
type FakeCatalog struct {
	mu       sync.Mutex
	Tables   []string
	Schemas  map[string][]warehouse.Field
	Columns  map[string][]repository.ColumnInfo
	Rows     map[string][]warehouse.Row
	Replaced map[string][]warehouse.Row
	Err      error
}

func NewFakeCatalog() *FakeCatalog {
	return &FakeCatalog{
		Schemas:  map[string][]warehouse.Field{},
		Columns:  map[string][]repository.ColumnInfo{},
		Rows:     map[string][]warehouse.Row{},
		Replaced: map[string][]warehouse.Row{},
	}
}

func (f *FakeCatalog) ActiveTables(ctx context.Context) ([]string, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Tables, nil
}

func (f *FakeCatalog) TableSchema(ctx context.Context, table string) ([]warehouse.Field, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	schema, ok := f.Schemas[table]
	if !ok {
		return nil, fmt.Errorf("unknown table %s", table)
	}
	return schema, nil
}

func (f *FakeCatalog) ReplaceTable(ctx context.Context, table string, schema []warehouse.Field, rows []warehouse.Row) error {
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Replaced[table] = rows
	return nil
}

func (f *FakeCatalog) TableColumns(ctx context.Context, table string) ([]repository.ColumnInfo, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Columns[table], nil
}

func (f *FakeCatalog) ReadTable(ctx context.Context, table string) ([]string, []warehouse.Row, error) {
	if f.Err != nil {
		return nil, nil, f.Err
	}
	var cols []string
	for _, field := range f.Schemas[table] {
		cols = append(cols, field.Name)
	}
	return cols, f.Rows[table], nil
}

// FakeHistory records import log writes.
type FakeHistory struct {
	mu      sync.Mutex
	Entries []entity.ImportHistory
}

func (f *FakeHistory) Append(ctx context.Context, h entity.ImportHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Entries = append(f.Entries, h)
	return nil
}

func (f *FakeHistory) List(ctx context.Context) ([]entity.ImportHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.ImportHistory, len(f.Entries))
	copy(out, f.Entries)
	return out, nil
}

func (f *FakeHistory) MarkSuccess(ctx context.Context, fichier string, lignes int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Entries {
		if f.Entries[i].NomFichier == fichier && f.Entries[i].Resultat == entity.ResultatPending {
			f.Entries[i].Resultat = entity.ResultatSucces
			f.Entries[i].NombreLignes = &lignes
			f.Entries[i].DetailErreur = nil
		}
	}
	return nil
}

func (f *FakeHistory) MarkError(ctx context.Context, fichier, detail string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Entries {
		if f.Entries[i].NomFichier == fichier && f.Entries[i].Resultat == entity.ResultatPending {
			f.Entries[i].Resultat = entity.ResultatErreur
			d := detail
			f.Entries[i].DetailErreur = &d
		}
	}
	return nil
}

// Resolved returns the entries for one file name, oldest first.
func (f *FakeHistory) Resolved(fichier string) []entity.ImportHistory {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.ImportHistory
	for _, e := range f.Entries {
		if e.NomFichier == fichier {
			out = append(out, e)
		}
	}
	return out
}

// FakeMaster mimics the staged merge into the location master. Rows are
// keyed on the Zone/Allee/Deplacement/Niveau tuple; merging coalesces
// non-nil staged values over existing ones, with the Type columns also
// treating empty strings as absent.
type FakeMaster struct {
	mu         sync.Mutex
	Staged     []warehouse.Row
	Master     map[string]warehouse.Row
	Discarded  int
	MergeCalls int
	StageErr   error
	MergeErr   error
}

func NewFakeMaster() *FakeMaster {
	return &FakeMaster{Master: map[string]warehouse.Row{}}
}

func masterKey(r warehouse.Row) string {
	return fmt.Sprintf("%v|%v|%v|%v", r["Zone"], r["Allee"], r["Deplacement"], r["Niveau"])
}

func (f *FakeMaster) StageBatch(ctx context.Context, rows []warehouse.Row) error {
	if f.StageErr != nil {
		return f.StageErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Staged = rows
	return nil
}

func (f *FakeMaster) MergeStaged(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.MergeCalls++
	if f.MergeErr != nil {
		return f.MergeErr
	}
	for _, staged := range f.Staged {
		key := masterKey(staged)
		existing, ok := f.Master[key]
		if !ok {
			merged := warehouse.Row{}
			for k, v := range staged {
				merged[k] = v
			}
			f.Master[key] = merged
			continue
		}
		for k, v := range staged {
			if v == nil {
				continue
			}
			if strings.HasPrefix(k, "Type") {
				if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
					continue
				}
			}
			existing[k] = v
		}
	}
	return nil
}

func (f *FakeMaster) DiscardStage(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Discarded++
	f.Staged = nil
	return nil
}

// FakeTypeStore keeps the location type triples in a slice.
type FakeTypeStore struct {
	Items []entity.TypeEmplacement
	Err   error
}

func (f *FakeTypeStore) List(ctx context.Context) ([]entity.TypeEmplacement, error) {
	return f.Items, f.Err
}

func (f *FakeTypeStore) Hierarchy(ctx context.Context) (entity.TypeHierarchy, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	h := entity.TypeHierarchy{}
	for _, t := range f.Items {
		if h[t.Type1] == nil {
			h[t.Type1] = map[string][]string{}
		}
		h[t.Type1][t.Type2] = append(h[t.Type1][t.Type2], t.Type3)
	}
	return h, nil
}

func (f *FakeTypeStore) GetByType1(ctx context.Context, type1 string) (*entity.TypeEmplacement, error) {
	for _, t := range f.Items {
		if t.Type1 == type1 {
			out := t
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *FakeTypeStore) Exists(ctx context.Context, t entity.TypeEmplacement) (bool, error) {
	for _, it := range f.Items {
		if it == t {
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeTypeStore) Insert(ctx context.Context, t entity.TypeEmplacement) error {
	if f.Err != nil {
		return f.Err
	}
	f.Items = append(f.Items, t)
	return nil
}

func (f *FakeTypeStore) DeleteByType1(ctx context.Context, type1 string) error {
	kept := f.Items[:0]
	for _, t := range f.Items {
		if t.Type1 != type1 {
			kept = append(kept, t)
		}
	}
	f.Items = kept
	return nil
}

// FakeCircuitStore keeps circuit groups in a slice.
type FakeCircuitStore struct {
	GroupList    []entity.CircuitGroup
	Available    []string
	ConflictList []entity.CircuitConflict
}

func (f *FakeCircuitStore) Groups(ctx context.Context) ([]entity.CircuitGroup, error) {
	return f.GroupList, nil
}

func (f *FakeCircuitStore) AvailableCircuits(ctx context.Context) ([]string, error) {
	return f.Available, nil
}

func (f *FakeCircuitStore) GroupExists(ctx context.Context, groupe string) (bool, error) {
	for _, g := range f.GroupList {
		if g.GroupeCircuit == groupe {
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeCircuitStore) Conflicts(ctx context.Context, groupe string, circuits []string) ([]entity.CircuitConflict, error) {
	var out []entity.CircuitConflict
	for _, c := range f.ConflictList {
		if c.Groupe != groupe && contains(circuits, c.Circuit) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Circuit < out[j].Circuit })
	return out, nil
}

func (f *FakeCircuitStore) ReplaceGroup(ctx context.Context, g entity.CircuitGroup) error {
	for i := range f.GroupList {
		if f.GroupList[i].GroupeCircuit == g.GroupeCircuit {
			f.GroupList[i] = g
			return nil
		}
	}
	f.GroupList = append(f.GroupList, g)
	return nil
}

func (f *FakeCircuitStore) DeleteGroup(ctx context.Context, groupe string) error {
	kept := f.GroupList[:0]
	for _, g := range f.GroupList {
		if g.GroupeCircuit != groupe {
			kept = append(kept, g)
		}
	}
	f.GroupList = kept
	return nil
}

// FakeVenteRefStore keeps per-reference sales events in memory.
type FakeVenteRefStore struct {
	Items []entity.VenteRef
}

func (f *FakeVenteRefStore) List(ctx context.Context) ([]entity.VenteRef, error) {
	return f.Items, nil
}

func (f *FakeVenteRefStore) Get(ctx context.Context, id int64) (*entity.VenteRef, error) {
	for _, v := range f.Items {
		if v.ID == id {
			out := v
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *FakeVenteRefStore) Insert(ctx context.Context, v entity.VenteRef) error {
	v.ID = f.nextID()
	f.Items = append(f.Items, v)
	return nil
}

func (f *FakeVenteRefStore) Update(ctx context.Context, v entity.VenteRef) error {
	for i := range f.Items {
		if f.Items[i].ID == v.ID {
			f.Items[i] = v
			return nil
		}
	}
	return nil
}

func (f *FakeVenteRefStore) Delete(ctx context.Context, id int64) error {
	kept := f.Items[:0]
	for _, v := range f.Items {
		if v.ID != id {
			kept = append(kept, v)
		}
	}
	f.Items = kept
	return nil
}

func (f *FakeVenteRefStore) nextID() int64 {
	var max int64
	for _, v := range f.Items {
		if v.ID > max {
			max = v.ID
		}
	}
	return max + 1
}

// FakeVenteFournisseurStore keeps per-supplier sales events in memory.
type FakeVenteFournisseurStore struct {
	Items []entity.VenteFournisseur
}

func (f *FakeVenteFournisseurStore) List(ctx context.Context) ([]entity.VenteFournisseur, error) {
	return f.Items, nil
}

func (f *FakeVenteFournisseurStore) Get(ctx context.Context, id int64) (*entity.VenteFournisseur, error) {
	for _, v := range f.Items {
		if v.ID == id {
			out := v
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *FakeVenteFournisseurStore) Insert(ctx context.Context, v entity.VenteFournisseur) error {
	var max int64
	for _, it := range f.Items {
		if it.ID > max {
			max = it.ID
		}
	}
	v.ID = max + 1
	f.Items = append(f.Items, v)
	return nil
}

func (f *FakeVenteFournisseurStore) Update(ctx context.Context, v entity.VenteFournisseur) error {
	for i := range f.Items {
		if f.Items[i].ID == v.ID {
			f.Items[i] = v
			return nil
		}
	}
	return nil
}

func (f *FakeVenteFournisseurStore) Delete(ctx context.Context, id int64) error {
	kept := f.Items[:0]
	for _, v := range f.Items {
		if v.ID != id {
			kept = append(kept, v)
		}
	}
	f.Items = kept
	return nil
}

// FakeVenteFamilleStore keeps per-family sales events in memory. Rows with
// ID 0 stand in for legacy rows without identifiers.
type FakeVenteFamilleStore struct {
	Items []entity.VenteFamille
}

func (f *FakeVenteFamilleStore) List(ctx context.Context) ([]entity.VenteFamille, error) {
	return f.Items, nil
}

func (f *FakeVenteFamilleStore) Get(ctx context.Context, id int64) (*entity.VenteFamille, error) {
	for _, v := range f.Items {
		if v.ID == id {
			out := v
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *FakeVenteFamilleStore) Insert(ctx context.Context, v entity.VenteFamille) error {
	var max int64
	for _, it := range f.Items {
		if it.ID > max {
			max = it.ID
		}
	}
	v.ID = max + 1
	f.Items = append(f.Items, v)
	return nil
}

func (f *FakeVenteFamilleStore) Update(ctx context.Context, v entity.VenteFamille) error {
	for i := range f.Items {
		if f.Items[i].ID == v.ID {
			f.Items[i] = v
			return nil
		}
	}
	return nil
}

func (f *FakeVenteFamilleStore) Delete(ctx context.Context, id *int64) error {
	kept := f.Items[:0]
	for _, v := range f.Items {
		if id == nil {
			if v.ID == 0 {
				continue
			}
		} else if v.ID == *id {
			continue
		}
		kept = append(kept, v)
	}
	f.Items = kept
	return nil
}

// FakeProduitStore answers product-master lookups from fixed data.
type FakeProduitStore struct {
	References   map[string]bool
	Fournisseurs []entity.Fournisseur
	Familles     *entity.FamilleOptions
	Flux         []string
}

func (f *FakeProduitStore) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	return f.References[reference], nil
}

func (f *FakeProduitStore) FindFournisseur(ctx context.Context, numero, nom string) (*entity.Fournisseur, error) {
	for _, s := range f.Fournisseurs {
		if (numero != "" && s.NFournisseur == numero) ||
			(nom != "" && strings.EqualFold(strings.TrimSpace(s.NomFournisseur), strings.TrimSpace(nom))) {
			out := s
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *FakeProduitStore) LookupFournisseur(ctx context.Context, term string) ([]entity.Fournisseur, error) {
	var out []entity.Fournisseur
	lower := strings.ToLower(term)
	for _, s := range f.Fournisseurs {
		if strings.Contains(strings.ToLower(s.NomFournisseur), lower) ||
			strings.Contains(s.NFournisseur, term) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *FakeProduitStore) FamilleOptions(ctx context.Context) (*entity.FamilleOptions, error) {
	if f.Familles == nil {
		return &entity.FamilleOptions{}, nil
	}
	return f.Familles, nil
}

func (f *FakeProduitStore) TypeFluxOptions(ctx context.Context) ([]string, error) {
	return f.Flux, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
