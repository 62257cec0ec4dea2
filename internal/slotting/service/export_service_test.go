package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/CedricGauzargues/Slottix/internal/slotting/repository"
	"github.com/CedricGauzargues/Slottix/internal/slotting/testutil"
	"github.com/CedricGauzargues/Slottix/internal/warehouse"
	"github.com/xuri/excelize/v2"
)

func newExportFixture() (*ExportService, *testutil.FakeCatalog) {
	catalog := testutil.NewFakeCatalog()
	catalog.Columns["TblProduit"] = []repository.ColumnInfo{
		{ColumnName: "Reference", DataType: "STRING"},
		{ColumnName: "Poids", DataType: "FLOAT64"},
	}
	catalog.Schemas["TblProduit"] = []warehouse.Field{
		{Name: "Reference", Type: "STRING"},
		{Name: "Poids", Type: "FLOAT"},
	}
	catalog.Rows["TblProduit"] = []warehouse.Row{
		{"Reference": "REF1", "Poids": 1.5},
		{"Reference": "REF2", "Poids": nil},
	}
	return NewExportService(catalog), catalog
}

func TestSchemaExportCSV(t *testing.T) {
	svc, _ := newExportFixture()

	export, err := svc.Schema(context.Background(), "TblProduit", FormatCSV)
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}
	if export.Filename != "trame_TblProduit.csv" {
		t.Errorf("filename = %s", export.Filename)
	}
	if export.ContentType != "text/csv" {
		t.Errorf("content type = %s", export.ContentType)
	}
	lines := strings.Split(strings.TrimSpace(string(export.Data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %v", lines)
	}
	if lines[0] != "column_name;data_type" {
		t.Errorf("header = %q, want semicolon-separated", lines[0])
	}
	if lines[1] != "Reference;STRING" {
		t.Errorf("first row = %q", lines[1])
	}
}

func TestDataExportCSV(t *testing.T) {
	svc, _ := newExportFixture()

	export, err := svc.Data(context.Background(), "TblProduit", FormatCSV)
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	if export.Filename != "donnees_TblProduit.csv" {
		t.Errorf("filename = %s", export.Filename)
	}
	lines := strings.Split(strings.TrimSpace(string(export.Data)), "\n")
	if lines[0] != "Reference;Poids" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[2] != "REF2;" {
		t.Errorf("NULL cell should render empty, got %q", lines[2])
	}
}

func TestDataExportExcel(t *testing.T) {
	svc, _ := newExportFixture()

	export, err := svc.Data(context.Background(), "TblProduit", FormatExcel)
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	if export.Filename != "donnees_TblProduit.xlsx" {
		t.Errorf("filename = %s", export.Filename)
	}

	f, err := excelize.OpenReader(strings.NewReader(string(export.Data)))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()
	if got := f.GetSheetName(0); got != "Données" {
		t.Errorf("sheet = %s, want Données", got)
	}
	cell, err := f.GetCellValue("Données", "A2")
	if err != nil || cell != "REF1" {
		t.Errorf("A2 = %q (%v)", cell, err)
	}
}

func TestExportBadFormat(t *testing.T) {
	svc, _ := newExportFixture()
	_, err := svc.Schema(context.Background(), "TblProduit", "pdf")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
