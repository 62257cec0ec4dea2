package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"github.com/CedricGauzargues/Slottix/internal/slotting/testutil"
	"github.com/CedricGauzargues/Slottix/internal/warehouse"
	"go.uber.org/zap"
)

func locRow(zone string, allee, deplacement, niveau int64, extra warehouse.Row) warehouse.Row {
	row := warehouse.Row{
		"Zone":        zone,
		"Allee":       allee,
		"Deplacement": deplacement,
		"Niveau":      niveau,
	}
	for k, v := range extra {
		row[k] = v
	}
	return row
}

func TestCleanLocations(t *testing.T) {
	rows := []warehouse.Row{
		locRow("A", 1, 1, 1, nil),
		locRow("", 1, 2, 1, nil),
		locRow("   ", 1, 3, 1, nil),
		locRow("B", 2, 1, 1, nil),
	}
	out := cleanLocations(rows)
	if len(out) != 2 {
		t.Fatalf("kept %d rows, want 2", len(out))
	}
	if out[0]["Zone"] != "A" || out[1]["Zone"] != "B" {
		t.Errorf("kept rows = %v", out)
	}
}

func TestDedupLocationsLastWins(t *testing.T) {
	rows := []warehouse.Row{
		locRow("A", 1, 1, 1, warehouse.Row{"X": 1.0}),
		locRow("A", 1, 2, 1, warehouse.Row{"X": 2.0}),
		locRow("A", 1, 1, 1, warehouse.Row{"X": 9.0}),
	}
	out := dedupLocations(rows)
	if len(out) != 2 {
		t.Fatalf("kept %d rows, want 2", len(out))
	}
	if out[0]["X"] != 9.0 {
		t.Errorf("first key should carry the last value, got %v", out[0]["X"])
	}
	if out[1]["X"] != 2.0 {
		t.Errorf("order of first occurrence should be kept, got %v", out[1]["X"])
	}
}

func newMergeFixture(t *testing.T) (*MergeService, *testutil.FakeMaster, *testutil.FakeHistory) {
	t.Helper()
	master := testutil.NewFakeMaster()
	history := &testutil.FakeHistory{}
	svc := NewMergeService(master, history, zap.NewNop())
	return svc, master, history
}

func seedPending(t *testing.T, history *testutil.FakeHistory, fichier string) {
	t.Helper()
	err := history.Append(context.Background(), entity.ImportHistory{
		NomTable:   "TblEmplacement",
		NomFichier: fichier,
		Resultat:   entity.ResultatPending,
	})
	if err != nil {
		t.Fatalf("seed history: %v", err)
	}
}

func TestMergeSuccessResolvesHistory(t *testing.T) {
	svc, master, history := newMergeFixture(t)
	seedPending(t, history, "emp.csv")
	svc.Start(context.Background())
	defer svc.Stop()

	done := svc.Enqueue("emp.csv", []warehouse.Row{
		locRow("A", 1, 1, 1, warehouse.Row{"X": 1.0}),
		locRow("", 1, 2, 1, nil),
	})
	if err := <-done; err != nil {
		t.Fatalf("merge: %v", err)
	}

	if len(master.Master) != 1 {
		t.Errorf("master rows = %d, want 1 (blank zone dropped)", len(master.Master))
	}
	if master.Discarded != 1 {
		t.Errorf("discard calls = %d, want 1", master.Discarded)
	}
	entries := history.Resolved("emp.csv")
	if len(entries) != 1 || entries[0].Resultat != entity.ResultatSucces {
		t.Fatalf("history = %+v", entries)
	}
	if entries[0].NombreLignes == nil || *entries[0].NombreLignes != 1 {
		t.Errorf("NombreLignes = %v, want 1 after cleaning", entries[0].NombreLignes)
	}
}

func TestMergeFailureMarksErrorAndDiscards(t *testing.T) {
	svc, master, history := newMergeFixture(t)
	seedPending(t, history, "emp.csv")
	master.MergeErr = errors.New("quota exceeded")
	svc.Start(context.Background())
	defer svc.Stop()

	done := svc.Enqueue("emp.csv", []warehouse.Row{locRow("A", 1, 1, 1, nil)})
	if err := <-done; err == nil {
		t.Fatal("expected merge error")
	}

	if master.Discarded != 1 {
		t.Errorf("discard calls = %d, want 1 even on failure", master.Discarded)
	}
	entries := history.Resolved("emp.csv")
	if len(entries) != 1 || entries[0].Resultat != entity.ResultatErreur {
		t.Fatalf("history = %+v, want error entry", entries)
	}
	if entries[0].DetailErreur == nil {
		t.Error("error detail should be recorded")
	}
}

func TestMergeCoalescesOverExisting(t *testing.T) {
	svc, master, history := newMergeFixture(t)
	seedPending(t, history, "emp.csv")
	master.Master["A|1|1|1"] = warehouse.Row{
		"Zone": "A", "Allee": int64(1), "Deplacement": int64(1), "Niveau": int64(1),
		"X": 5.0, "Type1": "Palettier",
	}
	svc.Start(context.Background())
	defer svc.Stop()

	done := svc.Enqueue("emp.csv", []warehouse.Row{
		locRow("A", 1, 1, 1, warehouse.Row{"X": nil, "Y": 2.0, "Type1": ""}),
	})
	if err := <-done; err != nil {
		t.Fatalf("merge: %v", err)
	}

	got := master.Master["A|1|1|1"]
	if got["X"] != 5.0 {
		t.Errorf("nil staged value must keep existing X, got %v", got["X"])
	}
	if got["Y"] != 2.0 {
		t.Errorf("staged Y should land, got %v", got["Y"])
	}
	if got["Type1"] != "Palettier" {
		t.Errorf("empty staged type must keep existing, got %v", got["Type1"])
	}
}

func TestMergeSameBatchTwiceLeavesMasterUnchanged(t *testing.T) {
	svc, master, history := newMergeFixture(t)
	seedPending(t, history, "emp.csv")
	seedPending(t, history, "emp.csv")
	svc.Start(context.Background())
	defer svc.Stop()

	batch := func() []warehouse.Row {
		return []warehouse.Row{
			locRow("A", 1, 1, 1, warehouse.Row{"X": 1.5, "Type1": "Palettier"}),
			locRow("A", 1, 2, 1, warehouse.Row{"Y": 3.0}),
		}
	}

	if err := <-svc.Enqueue("emp.csv", batch()); err != nil {
		t.Fatalf("first merge: %v", err)
	}
	first := make(map[string]warehouse.Row, len(master.Master))
	for key, row := range master.Master {
		copied := make(warehouse.Row, len(row))
		for k, v := range row {
			copied[k] = v
		}
		first[key] = copied
	}

	if err := <-svc.Enqueue("emp.csv", batch()); err != nil {
		t.Fatalf("second merge: %v", err)
	}
	if !reflect.DeepEqual(master.Master, first) {
		t.Errorf("master changed on replay:\nfirst  = %v\nsecond = %v", first, master.Master)
	}
}

func TestMergeQueueDrainsOnStop(t *testing.T) {
	svc, master, history := newMergeFixture(t)
	seedPending(t, history, "a.csv")
	seedPending(t, history, "b.csv")
	svc.Start(context.Background())

	svc.Enqueue("a.csv", []warehouse.Row{locRow("A", 1, 1, 1, nil)})
	svc.Enqueue("b.csv", []warehouse.Row{locRow("B", 1, 1, 1, nil)})
	svc.Stop()

	if master.MergeCalls != 2 {
		t.Errorf("merge calls = %d, want both queued jobs run", master.MergeCalls)
	}
}
