package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	FormatExcel = "excel"
	FormatCSV   = "csv"

	xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	csvMIME  = "text/csv"
)

// Export is a rendered download.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders table schemas and table contents as Excel or CSV
// downloads.
type ExportService struct {
	catalog CatalogStore
}

func NewExportService(catalog CatalogStore) *ExportService {
	return &ExportService{catalog: catalog}
}

// Schema exports the column list of a table, the template users fill in
// before importing.
func (s *ExportService) Schema(ctx context.Context, table, format string) (*Export, error) {
	cols, err := s.catalog.TableColumns(ctx, table)
	if err != nil {
		return nil, err
	}
	header := []string{"column_name", "data_type"}
	records := make([][]string, 0, len(cols))
	for _, c := range cols {
		records = append(records, []string{c.ColumnName, c.DataType})
	}
	return render(format, "trame_"+table, "Trame", header, records)
}

// Data exports the table contents.
func (s *ExportService) Data(ctx context.Context, table, format string) (*Export, error) {
	columns, rows, err := s.catalog.ReadTable(ctx, table)
	if err != nil {
		return nil, err
	}
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		rec := make([]string, len(columns))
		for i, col := range columns {
			rec[i] = cellString(row[col])
		}
		records = append(records, rec)
	}
	return render(format, "donnees_"+table, "Données", columns, records)
}

func render(format, basename, sheet string, header []string, records [][]string) (*Export, error) {
	switch format {
	case FormatExcel:
		data, err := renderExcel(sheet, header, records)
		if err != nil {
			return nil, err
		}
		return &Export{Filename: basename + ".xlsx", ContentType: xlsxMIME, Data: data}, nil
	case FormatCSV:
		data, err := renderCSV(header, records)
		if err != nil {
			return nil, err
		}
		return &Export{Filename: basename + ".csv", ContentType: csvMIME, Data: data}, nil
	}
	return nil, Invalid("format non supporté : %s", format)
}

func renderExcel(sheet string, header []string, records [][]string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), sheet)
	writeRow := func(rowIdx int, values []string) error {
		for colIdx, v := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		return nil
	}
	if err := writeRow(1, header); err != nil {
		return nil, err
	}
	for i, rec := range records {
		if err := writeRow(i+2, rec); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderCSV(header []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cellString(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
