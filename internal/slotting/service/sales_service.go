package service

import (
	"context"
	"errors"
	"time"

	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"github.com/CedricGauzargues/Slottix/internal/slotting/repository"
)

// VenteRefInput is the payload of a per-reference sales event.
type VenteRefInput struct {
	ID               int64    `json:"IDEvenementRef"`
	Reference        string   `json:"Reference"`
	Evolution        *float64 `json:"Evolution"`
	QteEnPlus        *int64   `json:"Qte_en_plus"`
	LignesPrepEnPlus int64    `json:"LignesPrepEnPlus"`
	DateDu           string   `json:"DateDu"`
	DateAu           string   `json:"DateAu"`
	TypeFlux         string   `json:"TypeFlux"`
}

// VenteFournisseurInput is the payload of a per-supplier sales event.
type VenteFournisseurInput struct {
	ID             int64    `json:"IDEvenementFournisseur"`
	NFournisseur   string   `json:"NFournisseur"`
	NomFournisseur string   `json:"NomFournisseur"`
	Evolution      *float64 `json:"Evolution"`
	DateDu         string   `json:"DateDu"`
	DateAu         string   `json:"DateAu"`
	TypeFlux       string   `json:"TypeFlux"`
}

// VenteFamilleInput is the payload of a per-family sales event.
type VenteFamilleInput struct {
	ID                int64    `json:"IDEvenementFamilleProduit"`
	FamilleDeProduit1 string   `json:"FamilleDeProduit1"`
	FamilleDeProduit2 string   `json:"FamilleDeProduit2"`
	FamilleDeProduit3 string   `json:"FamilleDeProduit3"`
	Evolution         *float64 `json:"Evolution"`
	DateDu            string   `json:"DateDu"`
	DateAu            string   `json:"DateAu"`
	TypeFlux          string   `json:"TypeFlux"`
}

// SalesService manages the three exceptional-sales referentials, all
// checked against the product master.
type SalesService struct {
	refs         VenteRefStore
	fournisseurs VenteFournisseurStore
	familles     VenteFamilleStore
	produits     ProduitStore
}

func NewSalesService(refs VenteRefStore, fournisseurs VenteFournisseurStore, familles VenteFamilleStore, produits ProduitStore) *SalesService {
	return &SalesService{
		refs:         refs,
		fournisseurs: fournisseurs,
		familles:     familles,
		produits:     produits,
	}
}

// parseEffect enforces the evolution/quantity exclusivity of reference
// events.
func parseEffect(evolution *float64, qte *int64) (entity.EventEffect, error) {
	switch {
	case evolution != nil && qte != nil:
		return entity.EventEffect{}, Invalid("vous devez remplir soit Évolution%%, soit Qté en plus, pas les deux")
	case evolution != nil:
		return entity.EventEffect{Kind: entity.EffectEvolution, Value: *evolution}, nil
	case qte != nil:
		return entity.EventEffect{Kind: entity.EffectQuantity, Value: float64(*qte)}, nil
	}
	return entity.EventEffect{}, Invalid("vous devez remplir au moins un des deux champs : Évolution%% ou Qté en plus")
}

func validDates(dateDu, dateAu string) error {
	if dateDu == "" || dateAu == "" {
		return Invalid("les dates sont obligatoires")
	}
	for _, d := range []string{dateDu, dateAu} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return Invalid("date invalide : %s", d)
		}
	}
	return nil
}

func defaultFlux(flux string) string {
	if flux == "" {
		return entity.TypeFluxTous
	}
	return flux
}

// ListRefs returns the per-reference events, newest first.
func (s *SalesService) ListRefs(ctx context.Context) ([]entity.VenteRef, error) {
	return s.refs.List(ctx)
}

func (s *SalesService) GetRef(ctx context.Context, id int64) (*entity.VenteRef, error) {
	return s.refs.Get(ctx, id)
}

func (s *SalesService) validateRef(ctx context.Context, input *VenteRefInput) (*entity.VenteRef, error) {
	effect, err := parseEffect(input.Evolution, input.QteEnPlus)
	if err != nil {
		return nil, err
	}
	if err := validDates(input.DateDu, input.DateAu); err != nil {
		return nil, err
	}
	exists, err := s.produits.ReferenceExists(ctx, input.Reference)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, Invalid("la référence %s n'existe pas dans le référentiel produit", input.Reference)
	}
	return &entity.VenteRef{
		ID:               input.ID,
		Reference:        input.Reference,
		Evolution:        effect.Evolution(),
		QteEnPlus:        effect.QteEnPlus(),
		LignesPrepEnPlus: input.LignesPrepEnPlus,
		DateDu:           input.DateDu,
		DateAu:           input.DateAu,
		TypeFlux:         defaultFlux(input.TypeFlux),
	}, nil
}

func (s *SalesService) AddRef(ctx context.Context, input *VenteRefInput) error {
	v, err := s.validateRef(ctx, input)
	if err != nil {
		return err
	}
	return s.refs.Insert(ctx, *v)
}

func (s *SalesService) UpdateRef(ctx context.Context, input *VenteRefInput) error {
	if input.ID == 0 {
		return Invalid("identifiant manquant")
	}
	v, err := s.validateRef(ctx, input)
	if err != nil {
		return err
	}
	return s.refs.Update(ctx, *v)
}

func (s *SalesService) DeleteRef(ctx context.Context, id int64) error {
	if id == 0 {
		return Invalid("identifiant manquant")
	}
	return s.refs.Delete(ctx, id)
}

// ListFournisseurs returns the per-supplier events, newest first.
func (s *SalesService) ListFournisseurs(ctx context.Context) ([]entity.VenteFournisseur, error) {
	return s.fournisseurs.List(ctx)
}

func (s *SalesService) GetFournisseur(ctx context.Context, id int64) (*entity.VenteFournisseur, error) {
	return s.fournisseurs.Get(ctx, id)
}

// AddFournisseur resolves the supplier against the product master, so the
// stored pair is always the canonical number/name.
func (s *SalesService) AddFournisseur(ctx context.Context, input *VenteFournisseurInput) error {
	if input.NFournisseur == "" && input.NomFournisseur == "" {
		return Invalid("le fournisseur est obligatoire (numéro ou nom)")
	}
	if input.Evolution == nil {
		return Invalid("le champ Évolution est obligatoire")
	}
	if err := validDates(input.DateDu, input.DateAu); err != nil {
		return err
	}

	fournisseur, err := s.produits.FindFournisseur(ctx, input.NFournisseur, input.NomFournisseur)
	if errors.Is(err, repository.ErrNotFound) {
		return Invalid("fournisseur introuvable dans le référentiel produit")
	}
	if err != nil {
		return err
	}

	return s.fournisseurs.Insert(ctx, entity.VenteFournisseur{
		NFournisseur:   fournisseur.NFournisseur,
		NomFournisseur: fournisseur.NomFournisseur,
		Evolution:      input.Evolution,
		DateDu:         input.DateDu,
		DateAu:         input.DateAu,
		TypeFlux:       defaultFlux(input.TypeFlux),
	})
}

func (s *SalesService) UpdateFournisseur(ctx context.Context, input *VenteFournisseurInput) error {
	if input.ID == 0 {
		return Invalid("identifiant manquant")
	}
	if err := validDates(input.DateDu, input.DateAu); err != nil {
		return err
	}
	return s.fournisseurs.Update(ctx, entity.VenteFournisseur{
		ID:             input.ID,
		NFournisseur:   input.NFournisseur,
		NomFournisseur: input.NomFournisseur,
		Evolution:      input.Evolution,
		DateDu:         input.DateDu,
		DateAu:         input.DateAu,
		TypeFlux:       defaultFlux(input.TypeFlux),
	})
}

func (s *SalesService) DeleteFournisseur(ctx context.Context, id int64) error {
	if id == 0 {
		return Invalid("identifiant manquant")
	}
	return s.fournisseurs.Delete(ctx, id)
}

func (s *SalesService) LookupFournisseur(ctx context.Context, term string) ([]entity.Fournisseur, error) {
	if term == "" {
		return []entity.Fournisseur{}, nil
	}
	return s.produits.LookupFournisseur(ctx, term)
}

// ListFamilles returns the per-family events, newest first.
func (s *SalesService) ListFamilles(ctx context.Context) ([]entity.VenteFamille, error) {
	return s.familles.List(ctx)
}

func (s *SalesService) GetFamille(ctx context.Context, id int64) (*entity.VenteFamille, error) {
	return s.familles.Get(ctx, id)
}

func (s *SalesService) AddFamille(ctx context.Context, input *VenteFamilleInput) error {
	if input.FamilleDeProduit1 == "" && input.FamilleDeProduit2 == "" && input.FamilleDeProduit3 == "" {
		return Invalid("au moins une famille de produit est requise")
	}
	if err := validDates(input.DateDu, input.DateAu); err != nil {
		return err
	}
	return s.familles.Insert(ctx, entity.VenteFamille{
		FamilleDeProduit1: input.FamilleDeProduit1,
		FamilleDeProduit2: input.FamilleDeProduit2,
		FamilleDeProduit3: input.FamilleDeProduit3,
		Evolution:         input.Evolution,
		DateDu:            input.DateDu,
		DateAu:            input.DateAu,
		TypeFlux:          defaultFlux(input.TypeFlux),
	})
}

func (s *SalesService) UpdateFamille(ctx context.Context, input *VenteFamilleInput) error {
	if input.ID == 0 {
		return Invalid("identifiant manquant")
	}
	if err := validDates(input.DateDu, input.DateAu); err != nil {
		return err
	}
	return s.familles.Update(ctx, entity.VenteFamille{
		ID:                input.ID,
		FamilleDeProduit1: input.FamilleDeProduit1,
		FamilleDeProduit2: input.FamilleDeProduit2,
		FamilleDeProduit3: input.FamilleDeProduit3,
		Evolution:         input.Evolution,
		DateDu:            input.DateDu,
		DateAu:            input.DateAu,
		TypeFlux:          defaultFlux(input.TypeFlux),
	})
}

// DeleteFamille removes one event by id; a nil id clears the legacy rows
// without one.
func (s *SalesService) DeleteFamille(ctx context.Context, id *int64) error {
	return s.familles.Delete(ctx, id)
}

func (s *SalesService) FamilleOptions(ctx context.Context) (*entity.FamilleOptions, error) {
	return s.produits.FamilleOptions(ctx)
}

func (s *SalesService) TypeFluxOptions(ctx context.Context) ([]string, error) {
	return s.produits.TypeFluxOptions(ctx)
}
