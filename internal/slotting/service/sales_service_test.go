package service

import (
	"context"
	"errors"
	"testing"

	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"github.com/CedricGauzargues/Slottix/internal/slotting/testutil"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }

func TestParseEffect(t *testing.T) {
	if _, err := parseEffect(f64(10), i64(5)); err == nil {
		t.Error("both fields set must be rejected")
	}
	if _, err := parseEffect(nil, nil); err == nil {
		t.Error("neither field set must be rejected")
	}

	effect, err := parseEffect(f64(12.5), nil)
	if err != nil {
		t.Fatalf("evolution: %v", err)
	}
	if effect.Evolution() == nil || *effect.Evolution() != 12.5 || effect.QteEnPlus() != nil {
		t.Errorf("evolution effect = %+v", effect)
	}

	effect, err = parseEffect(nil, i64(30))
	if err != nil {
		t.Fatalf("quantity: %v", err)
	}
	if effect.QteEnPlus() == nil || *effect.QteEnPlus() != 30 || effect.Evolution() != nil {
		t.Errorf("quantity effect = %+v", effect)
	}
}

func TestValidDates(t *testing.T) {
	if err := validDates("2026-01-01", "2026-01-31"); err != nil {
		t.Errorf("valid dates rejected: %v", err)
	}
	if err := validDates("", "2026-01-31"); err == nil {
		t.Error("missing date accepted")
	}
	if err := validDates("01/01/2026", "2026-01-31"); err == nil {
		t.Error("French-formatted date accepted")
	}
}

func newSalesFixture() (*SalesService, *testutil.FakeVenteRefStore, *testutil.FakeVenteFournisseurStore, *testutil.FakeVenteFamilleStore, *testutil.FakeProduitStore) {
	refs := &testutil.FakeVenteRefStore{}
	fournisseurs := &testutil.FakeVenteFournisseurStore{}
	familles := &testutil.FakeVenteFamilleStore{}
	produits := &testutil.FakeProduitStore{
		References: map[string]bool{"REF1": true},
		Fournisseurs: []entity.Fournisseur{
			{NFournisseur: "F042", NomFournisseur: "Dupont Logistique"},
		},
	}
	return NewSalesService(refs, fournisseurs, familles, produits), refs, fournisseurs, familles, produits
}

func TestAddRef(t *testing.T) {
	svc, refs, _, _, _ := newSalesFixture()

	err := svc.AddRef(context.Background(), &VenteRefInput{
		Reference: "REF1",
		QteEnPlus: i64(100),
		DateDu:    "2026-09-01",
		DateAu:    "2026-09-15",
	})
	if err != nil {
		t.Fatalf("AddRef: %v", err)
	}
	if len(refs.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(refs.Items))
	}
	got := refs.Items[0]
	if got.ID != 1 {
		t.Errorf("ID = %d, want assigned 1", got.ID)
	}
	if got.Evolution != nil || got.QteEnPlus == nil || *got.QteEnPlus != 100 {
		t.Errorf("effect columns = %v / %v", got.Evolution, got.QteEnPlus)
	}
	if got.TypeFlux != entity.TypeFluxTous {
		t.Errorf("TypeFlux = %s, want default %s", got.TypeFlux, entity.TypeFluxTous)
	}
}

func TestAddRefUnknownReference(t *testing.T) {
	svc, _, _, _, _ := newSalesFixture()
	err := svc.AddRef(context.Background(), &VenteRefInput{
		Reference: "NOPE",
		Evolution: f64(10),
		DateDu:    "2026-09-01",
		DateAu:    "2026-09-15",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestUpdateRefRequiresID(t *testing.T) {
	svc, _, _, _, _ := newSalesFixture()
	err := svc.UpdateRef(context.Background(), &VenteRefInput{
		Reference: "REF1",
		Evolution: f64(10),
		DateDu:    "2026-09-01",
		DateAu:    "2026-09-15",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAddFournisseurResolvesCanonicalPair(t *testing.T) {
	svc, _, fournisseurs, _, _ := newSalesFixture()

	err := svc.AddFournisseur(context.Background(), &VenteFournisseurInput{
		NomFournisseur: "  dupont logistique ",
		Evolution:      f64(25),
		DateDu:         "2026-09-01",
		DateAu:         "2026-09-15",
	})
	if err != nil {
		t.Fatalf("AddFournisseur: %v", err)
	}
	if len(fournisseurs.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(fournisseurs.Items))
	}
	got := fournisseurs.Items[0]
	if got.NFournisseur != "F042" || got.NomFournisseur != "Dupont Logistique" {
		t.Errorf("stored pair = %s / %s, want canonical values", got.NFournisseur, got.NomFournisseur)
	}
}

func TestAddFournisseurUnknown(t *testing.T) {
	svc, _, _, _, _ := newSalesFixture()
	err := svc.AddFournisseur(context.Background(), &VenteFournisseurInput{
		NomFournisseur: "Inconnu SARL",
		Evolution:      f64(25),
		DateDu:         "2026-09-01",
		DateAu:         "2026-09-15",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAddFamilleRequiresOneLevel(t *testing.T) {
	svc, _, _, familles, _ := newSalesFixture()

	err := svc.AddFamille(context.Background(), &VenteFamilleInput{
		Evolution: f64(10),
		DateDu:    "2026-09-01",
		DateAu:    "2026-09-15",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	err = svc.AddFamille(context.Background(), &VenteFamilleInput{
		FamilleDeProduit1: "Boissons",
		Evolution:         f64(10),
		DateDu:            "2026-09-01",
		DateAu:            "2026-09-15",
	})
	if err != nil {
		t.Fatalf("AddFamille: %v", err)
	}
	if len(familles.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(familles.Items))
	}
}

func TestDeleteFamilleWithoutID(t *testing.T) {
	svc, _, _, familles, _ := newSalesFixture()
	familles.Items = []entity.VenteFamille{
		{ID: 0, FamilleDeProduit1: "Legacy"},
		{ID: 3, FamilleDeProduit1: "Boissons"},
	}

	if err := svc.DeleteFamille(context.Background(), nil); err != nil {
		t.Fatalf("DeleteFamille(nil): %v", err)
	}
	if len(familles.Items) != 1 || familles.Items[0].ID != 3 {
		t.Errorf("items = %+v, want only identified rows kept", familles.Items)
	}
}
