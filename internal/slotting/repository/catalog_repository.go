package repository

import (
	"context"
	"fmt"
	"regexp"

	"cloud.google.com/go/bigquery"
	"github.com/CedricGauzargues/Slottix/internal/warehouse"
)

// exportRowLimit caps data exports, matching the screen's download cap.
const exportRowLimit = 100000

var tableNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// CatalogRepository covers generic table operations of the warehouse:
// the import allow-list, schema lookups, truncate-loads and exports.
type CatalogRepository struct {
	wh *warehouse.Client
}

func NewCatalogRepository(wh *warehouse.Client) *CatalogRepository {
	return &CatalogRepository{wh: wh}
}

// ActiveTables lists the destinations imports may target.
func (r *CatalogRepository) ActiveTables(ctx context.Context) ([]string, error) {
	q := fmt.Sprintf(
		"SELECT NomTable FROM `%s` WHERE Actif = TRUE",
		r.wh.TableID("TblChargementAutomatique"))
	rows, err := r.wh.Read(ctx, q)
	if err != nil {
		return nil, err
	}
	tables := make([]string, 0, len(rows))
	for _, row := range rows {
		tables = append(tables, asString(row["NomTable"]))
	}
	return tables, nil
}

func (r *CatalogRepository) TableSchema(ctx context.Context, table string) ([]warehouse.Field, error) {
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return r.wh.TableSchema(ctx, table)
}

// ReplaceTable truncates the destination and loads the cleaned rows.
func (r *CatalogRepository) ReplaceTable(ctx context.Context, table string, schema []warehouse.Field, rows []warehouse.Row) error {
	if !tableNameRe.MatchString(table) {
		return fmt.Errorf("invalid table name %q", table)
	}
	return r.wh.LoadTruncate(ctx, table, schema, rows)
}

// ColumnInfo is one line of a schema export.
type ColumnInfo struct {
	ColumnName string `json:"column_name"`
	DataType   string `json:"data_type"`
}

// TableColumns reads INFORMATION_SCHEMA for the schema export.
func (r *CatalogRepository) TableColumns(ctx context.Context, table string) ([]ColumnInfo, error) {
	if !tableNameRe.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	q := fmt.Sprintf(
		"SELECT column_name, data_type FROM `%s`.INFORMATION_SCHEMA.COLUMNS WHERE table_name = @table ORDER BY ordinal_position",
		r.wh.DatasetID())
	rows, err := r.wh.Read(ctx, q,
		bigquery.QueryParameter{Name: "table", Value: table})
	if err != nil {
		return nil, err
	}
	cols := make([]ColumnInfo, 0, len(rows))
	for _, row := range rows {
		cols = append(cols, ColumnInfo{
			ColumnName: asString(row["column_name"]),
			DataType:   asString(row["data_type"]),
		})
	}
	return cols, nil
}

// ReadTable dumps a table for the data export, capped at exportRowLimit.
// Column order follows the table schema.
func (r *CatalogRepository) ReadTable(ctx context.Context, table string) ([]string, []warehouse.Row, error) {
	schema, err := r.TableSchema(ctx, table)
	if err != nil {
		return nil, nil, err
	}
	columns := make([]string, 0, len(schema))
	for _, f := range schema {
		columns = append(columns, f.Name)
	}

	q := fmt.Sprintf("SELECT * FROM `%s` LIMIT %d", r.wh.TableID(table), exportRowLimit)
	rows, err := r.wh.Read(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	return columns, rows, nil
}
