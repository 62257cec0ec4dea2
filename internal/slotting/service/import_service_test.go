package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"github.com/CedricGauzargues/Slottix/internal/slotting/testutil"
	"github.com/CedricGauzargues/Slottix/internal/warehouse"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
)

func TestNormalizeColumn(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Zone", "Zone"},
		{"  Zone  ", "Zone"},
		{"Poids limite (kg)", "Poids_limite_kg"},
		{"Allée", "All_e"},
		{"__X__", "X"},
		{"Type 1 / Type 2", "Type_1_Type_2"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeColumn(c.in); got != c.want {
			t.Errorf("NormalizeColumn(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseNumeric(t *testing.T) {
	floatField := warehouse.Field{Name: "X", Type: "FLOAT"}
	intField := warehouse.Field{Name: "Allee", Type: "INTEGER"}

	if got := parseNumeric("12,5", floatField); got != 12.5 {
		t.Errorf("comma decimal: got %v, want 12.5", got)
	}
	if got := parseNumeric("7", intField); got != int64(7) {
		t.Errorf("integer: got %v (%T), want int64(7)", got, got)
	}
	if got := parseNumeric("", floatField); got != nil {
		t.Errorf("empty cell: got %v, want nil", got)
	}
	if got := parseNumeric("abc", floatField); got != nil {
		t.Errorf("invalid cell: got %v, want nil", got)
	}
}

func TestTypeRecords(t *testing.T) {
	schema := []warehouse.Field{
		{Name: "Zone", Type: "STRING"},
		{Name: "Allee", Type: "INTEGER"},
		{Name: "X", Type: "FLOAT"},
	}
	ds := &Dataset{
		Columns: []string{" Zone ", "Allée", "Allee", "X", "Inconnu"},
		Records: [][]string{
			{"A", "ignored", "12", "3,5", "junk"},
			{"B", "ignored", "abc", "", "junk"},
		},
	}

	columns, rows, err := typeRecords(ds, schema)
	if err != nil {
		t.Fatalf("typeRecords: %v", err)
	}
	if len(columns) != 3 {
		t.Fatalf("columns = %v, want 3 kept", columns)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0]["Zone"] != "A" || rows[0]["Allee"] != int64(12) || rows[0]["X"] != 3.5 {
		t.Errorf("row 0 = %v", rows[0])
	}
	if rows[1]["Allee"] != nil || rows[1]["X"] != nil {
		t.Errorf("row 1 invalid numerics should be nil, got %v", rows[1])
	}
	if _, ok := rows[0]["Inconnu"]; ok {
		t.Error("unknown column should be dropped")
	}
}

func TestTypeRecordsNoMatchingColumns(t *testing.T) {
	schema := []warehouse.Field{{Name: "Zone", Type: "STRING"}}
	ds := &Dataset{Columns: []string{"Foo", "Bar"}, Records: [][]string{{"a", "b"}}}

	_, _, err := typeRecords(ds, schema)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestParseCSVSeparators(t *testing.T) {
	semi := []byte("Zone;Allee\nA;1\n")
	ds, err := parseCSV(semi)
	if err != nil {
		t.Fatalf("semicolon: %v", err)
	}
	if len(ds.Columns) != 2 || ds.Columns[0] != "Zone" {
		t.Errorf("semicolon columns = %v", ds.Columns)
	}
	if ds.Encoding != "utf-8-sig" {
		t.Errorf("encoding = %s, want utf-8-sig", ds.Encoding)
	}

	comma := []byte("Zone,Allee\nA,1\n")
	ds, err = parseCSV(comma)
	if err != nil {
		t.Fatalf("comma: %v", err)
	}
	if len(ds.Columns) != 2 {
		t.Errorf("comma columns = %v", ds.Columns)
	}
}

func TestParseCSVEncodings(t *testing.T) {
	// UTF-16 LE with BOM.
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	utf16Bytes, err := enc.Bytes([]byte("Zone;Allee\nA;1\n"))
	if err != nil {
		t.Fatalf("encode utf-16: %v", err)
	}
	ds, err := parseCSV(utf16Bytes)
	if err != nil {
		t.Fatalf("utf-16: %v", err)
	}
	if ds.Encoding != "utf-16" {
		t.Errorf("encoding = %s, want utf-16", ds.Encoding)
	}
	if len(ds.Records) != 1 || ds.Records[0][0] != "A" {
		t.Errorf("records = %v", ds.Records)
	}

	// cp1252: "Allée" with byte 0xE9, invalid as UTF-8.
	cp1252 := []byte("Zone;All\xe9e\nA;1\n")
	ds, err = parseCSV(cp1252)
	if err != nil {
		t.Fatalf("cp1252: %v", err)
	}
	if ds.Encoding != "cp1252" {
		t.Errorf("encoding = %s, want cp1252", ds.Encoding)
	}
	if ds.Columns[1] != "Allée" {
		t.Errorf("columns = %v, want Allée restored", ds.Columns)
	}
}

func TestParseCSVSingleColumn(t *testing.T) {
	if _, err := parseCSV([]byte("Zone\nA\n")); err == nil {
		t.Fatal("expected error for single-column file")
	}
}

func TestReadDelimitedPadsShortRecords(t *testing.T) {
	ds, err := readDelimited([]byte("A;B;C\n1;2\n"), ';')
	if err != nil {
		t.Fatalf("readDelimited: %v", err)
	}
	if len(ds.Records) != 1 || len(ds.Records[0]) != 3 || ds.Records[0][2] != "" {
		t.Errorf("records = %v, want short record padded", ds.Records)
	}
}

func newImportFixture(t *testing.T) (*ImportService, *testutil.FakeCatalog, *testutil.FakeHistory, *testutil.FakeMaster, *MergeService) {
	t.Helper()
	catalog := testutil.NewFakeCatalog()
	history := &testutil.FakeHistory{}
	master := testutil.NewFakeMaster()
	merge := NewMergeService(master, history, zap.NewNop())
	svc := NewImportService(catalog, history, merge, t.TempDir(), zap.NewNop())
	return svc, catalog, history, master, merge
}

func TestImportReplacesTable(t *testing.T) {
	svc, catalog, history, _, _ := newImportFixture(t)
	catalog.Tables = []string{"TblProduit"}
	catalog.Schemas["TblProduit"] = []warehouse.Field{
		{Name: "Reference", Type: "STRING"},
		{Name: "Poids", Type: "FLOAT"},
	}

	body := bytes.NewBufferString("Reference;Poids\nREF1;1,5\nREF2;2\n")
	result, err := svc.Import(context.Background(), "TblProduit", "produits.csv", "tester", body)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.Background {
		t.Error("plain table import should not be backgrounded")
	}
	if result.Rows != 2 {
		t.Errorf("rows = %d, want 2", result.Rows)
	}
	if got := len(catalog.Replaced["TblProduit"]); got != 2 {
		t.Errorf("replaced rows = %d, want 2", got)
	}
	entries, _ := history.List(context.Background())
	if len(entries) != 1 || entries[0].Resultat != entity.ResultatSucces {
		t.Errorf("history = %+v, want one success entry", entries)
	}
}

func TestImportRejectsUnknownTable(t *testing.T) {
	svc, catalog, _, _, _ := newImportFixture(t)
	catalog.Tables = []string{"TblProduit"}

	_, err := svc.Import(context.Background(), "TblAutre", "x.csv", "tester",
		bytes.NewBufferString("A;B\n1;2\n"))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestImportRejectsExtension(t *testing.T) {
	svc, _, _, _, _ := newImportFixture(t)
	_, err := svc.Import(context.Background(), "TblProduit", "x.pdf", "tester",
		bytes.NewBufferString("data"))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestImportLocationMasterRunsInBackground(t *testing.T) {
	svc, catalog, history, master, merge := newImportFixture(t)
	catalog.Tables = []string{"TblEmplacement"}
	catalog.Schemas["TblEmplacement"] = []warehouse.Field{
		{Name: "Zone", Type: "STRING"},
		{Name: "Allee", Type: "INTEGER"},
		{Name: "Deplacement", Type: "INTEGER"},
		{Name: "Niveau", Type: "INTEGER"},
	}
	merge.Start(context.Background())

	body := bytes.NewBufferString("Zone;Allee;Deplacement;Niveau\nA;1;1;1\nA;1;2;1\n")
	result, err := svc.Import(context.Background(), "TblEmplacement", "emplacements.csv", "tester", body)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if !result.Background {
		t.Fatal("location master import must be backgrounded")
	}
	merge.Stop()

	if len(master.Master) != 2 {
		t.Errorf("master rows = %d, want 2", len(master.Master))
	}
	entries := history.Resolved("emplacements.csv")
	if len(entries) != 1 || entries[0].Resultat != entity.ResultatSucces {
		t.Errorf("history = %+v, want resolved success", entries)
	}
}
