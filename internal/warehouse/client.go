// Package warehouse wraps the BigQuery client used for the analytical store.
// Business tables (Tbl...) live in a single dataset; every statement goes
// through query parameters, table identifiers are compiled in or validated
// against an allow-list by the caller.
package warehouse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
)

// Row is one warehouse record keyed by column name. Absent or nil values
// are NULL on the wire.
type Row map[string]bigquery.Value

// Field describes one destination column.
type Field struct {
	Name string
	Type bigquery.FieldType
}

// IsNumeric reports whether values of this field are coerced to numbers on
// import.
func (f Field) IsNumeric() bool {
	switch f.Type {
	case bigquery.IntegerFieldType, bigquery.FloatFieldType, bigquery.NumericFieldType:
		return true
	}
	return false
}

// Client is a thin wrapper around a BigQuery client bound to one dataset.
type Client struct {
	bq      *bigquery.Client
	project string
	dataset string
}

func New(ctx context.Context, project, dataset string) (*Client, error) {
	bq, err := bigquery.NewClient(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("bigquery client: %w", err)
	}
	return &Client{bq: bq, project: project, dataset: dataset}, nil
}

func (c *Client) Close() error {
	return c.bq.Close()
}

// TableID returns the fully qualified project.dataset.table identifier.
func (c *Client) TableID(table string) string {
	return fmt.Sprintf("%s.%s.%s", c.project, c.dataset, table)
}

// Dataset returns the dataset name, used for INFORMATION_SCHEMA queries.
func (c *Client) Dataset() string {
	return c.dataset
}

// DatasetID returns the fully qualified project.dataset identifier.
func (c *Client) DatasetID() string {
	return fmt.Sprintf("%s.%s", c.project, c.dataset)
}

// TableSchema fetches the destination schema of a table.
func (c *Client) TableSchema(ctx context.Context, table string) ([]Field, error) {
	md, err := c.bq.Dataset(c.dataset).Table(table).Metadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("table metadata %s: %w", table, err)
	}
	fields := make([]Field, 0, len(md.Schema))
	for _, f := range md.Schema {
		fields = append(fields, Field{Name: f.Name, Type: f.Type})
	}
	return fields, nil
}

// Read runs a query and returns all result rows.
func (c *Client) Read(ctx context.Context, query string, params ...bigquery.QueryParameter) ([]Row, error) {
	q := c.bq.Query(query)
	q.Parameters = params

	it, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}

	var rows []Row
	for {
		var row map[string]bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row(row))
	}
	return rows, nil
}

// Exec runs a DML statement and waits for completion.
func (c *Client) Exec(ctx context.Context, query string, params ...bigquery.QueryParameter) error {
	q := c.bq.Query(query)
	q.Parameters = params

	job, err := q.Run(ctx)
	if err != nil {
		return err
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return err
	}
	return status.Err()
}

// LoadTruncate replaces the content of a table with the given rows, the
// equivalent of a WRITE_TRUNCATE load job. Rows are shipped as
// newline-delimited JSON; nil values are omitted and load as NULL.
func (c *Client) LoadTruncate(ctx context.Context, table string, schema []Field, rows []Row) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, row := range rows {
		rec := make(map[string]bigquery.Value, len(row))
		for k, v := range row {
			if v != nil {
				rec[k] = v
			}
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("encode row: %w", err)
		}
	}

	bqSchema := make(bigquery.Schema, 0, len(schema))
	for _, f := range schema {
		bqSchema = append(bqSchema, &bigquery.FieldSchema{Name: f.Name, Type: f.Type})
	}

	src := bigquery.NewReaderSource(&buf)
	src.SourceFormat = bigquery.JSON
	src.Schema = bqSchema

	loader := c.bq.Dataset(c.dataset).Table(table).LoaderFrom(src)
	loader.WriteDisposition = bigquery.WriteTruncate

	job, err := loader.Run(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", table, err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", table, err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("load %s: %w", table, err)
	}
	return nil
}

// DeleteTable drops a table. A missing table is not an error.
func (c *Client) DeleteTable(ctx context.Context, table string) error {
	err := c.bq.Dataset(c.dataset).Table(table).Delete(ctx)
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == 404 {
		return nil
	}
	return fmt.Errorf("delete table %s: %w", table, err)
}
