package service

import (
	"context"
	"errors"
	"testing"

	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"github.com/CedricGauzargues/Slottix/internal/slotting/testutil"
)

func TestSaveGroupCreatesThenUpdates(t *testing.T) {
	store := &testutil.FakeCircuitStore{}
	svc := NewCircuitService(store)

	updated, err := svc.SaveGroup(context.Background(), entity.CircuitGroup{
		GroupeCircuit: " G1 ",
		Circuits:      []string{"C1", "C2"},
	})
	if err != nil {
		t.Fatalf("SaveGroup: %v", err)
	}
	if updated {
		t.Error("first save should report creation")
	}
	if len(store.GroupList) != 1 || store.GroupList[0].GroupeCircuit != "G1" {
		t.Errorf("groups = %+v, want trimmed G1", store.GroupList)
	}

	updated, err = svc.SaveGroup(context.Background(), entity.CircuitGroup{
		GroupeCircuit: "G1",
		Circuits:      []string{"C3"},
	})
	if err != nil {
		t.Fatalf("SaveGroup update: %v", err)
	}
	if !updated {
		t.Error("second save should report update")
	}
}

func TestSaveGroupRequiresNameAndCircuits(t *testing.T) {
	svc := NewCircuitService(&testutil.FakeCircuitStore{})

	var verr *ValidationError
	_, err := svc.SaveGroup(context.Background(), entity.CircuitGroup{Circuits: []string{"C1"}})
	if !errors.As(err, &verr) {
		t.Errorf("missing name: expected ValidationError, got %v", err)
	}
	_, err = svc.SaveGroup(context.Background(), entity.CircuitGroup{GroupeCircuit: "G1"})
	if !errors.As(err, &verr) {
		t.Errorf("missing circuits: expected ValidationError, got %v", err)
	}
}

func TestSaveGroupConflict(t *testing.T) {
	store := &testutil.FakeCircuitStore{
		ConflictList: []entity.CircuitConflict{
			{Circuit: "C2", Groupe: "G2"},
			{Circuit: "C1", Groupe: "G3"},
		},
	}
	svc := NewCircuitService(store)

	_, err := svc.SaveGroup(context.Background(), entity.CircuitGroup{
		GroupeCircuit: "G1",
		Circuits:      []string{"C1", "C2"},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := "certains circuits sont déjà attribués : C1 (dans G3), C2 (dans G2)"
	if verr.Message != want {
		t.Errorf("message = %q, want %q", verr.Message, want)
	}
	if len(store.GroupList) != 0 {
		t.Error("conflicting save must not write anything")
	}
}

func TestDeleteGroupRequiresName(t *testing.T) {
	svc := NewCircuitService(&testutil.FakeCircuitStore{})
	var verr *ValidationError
	if err := svc.DeleteGroup(context.Background(), "   "); !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
