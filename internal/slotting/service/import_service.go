package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/CedricGauzargues/Slottix/internal/slotting/entity"
	"github.com/CedricGauzargues/Slottix/internal/warehouse"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const locationMasterTable = "TblEmplacement"

var allowedExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
	".txt":  true,
}

var (
	nonIdentRe    = regexp.MustCompile(`[^0-9a-zA-Z_]`)
	underscoresRe = regexp.MustCompile(`_{2,}`)
)

// Dataset is a parsed spreadsheet: a header and string records, before any
// schema-driven typing.
type Dataset struct {
	Columns  []string
	Records  [][]string
	Encoding string
}

// ImportResult summarizes an accepted import for the confirmation screen.
type ImportResult struct {
	Table      string
	Filename   string
	Rows       int64
	Columns    []string
	Preview    []warehouse.Row
	Encoding   string
	Background bool
}

// ImportService turns uploaded files into warehouse loads. Most tables are
// truncate-replaced; the location master goes through the background merge
// instead.
type ImportService struct {
	catalog   CatalogStore
	history   HistoryStore
	merge     *MergeService
	uploadDir string
	logger    *zap.Logger
}

func NewImportService(catalog CatalogStore, history HistoryStore, merge *MergeService, uploadDir string, logger *zap.Logger) *ImportService {
	return &ImportService{
		catalog:   catalog,
		history:   history,
		merge:     merge,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// ActiveTables lists the import destinations for the upload form.
func (s *ImportService) ActiveTables(ctx context.Context) ([]string, error) {
	return s.catalog.ActiveTables(ctx)
}

// History returns the recent import runs.
func (s *ImportService) History(ctx context.Context) ([]entity.ImportHistory, error) {
	return s.history.List(ctx)
}

// Import validates, parses and loads one uploaded file into the selected
// table. The caller identity lands in the history log.
func (s *ImportService) Import(ctx context.Context, table, filename, user string, file io.Reader) (*ImportResult, error) {
	filename = filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return nil, Invalid("format non supporté : %s", ext)
	}

	tables, err := s.catalog.ActiveTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("active tables: %w", err)
	}
	if !contains(tables, table) {
		return nil, Invalid("table inconnue ou non autorisée : %s", table)
	}

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if err := s.saveUpload(filename, raw); err != nil {
		return nil, err
	}

	ds, err := parseFile(ext, raw)
	if err != nil {
		return nil, err
	}

	schema, err := s.catalog.TableSchema(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("table schema: %w", err)
	}
	columns, rows, err := typeRecords(ds, schema)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, Invalid("aucune ligne à importer après nettoyage")
	}

	result := &ImportResult{
		Table:    table,
		Filename: filename,
		Rows:     int64(len(rows)),
		Columns:  columns,
		Preview:  preview(rows, 5),
		Encoding: ds.Encoding,
	}

	if table == locationMasterTable {
		detail := "Synchronisation asynchrone démarrée."
		if err := s.appendHistory(ctx, table, user, entity.ResultatPending, &detail, result.Rows, filename); err != nil {
			return nil, err
		}
		s.merge.Enqueue(filename, rows)
		result.Background = true
		s.logger.Info("location import queued",
			zap.String("fichier", filename), zap.Int64("lignes", result.Rows))
		return result, nil
	}

	if err := s.catalog.ReplaceTable(ctx, table, schema, rows); err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	if err := s.appendHistory(ctx, table, user, entity.ResultatSucces, nil, result.Rows, filename); err != nil {
		return nil, err
	}
	s.logger.Info("table imported",
		zap.String("table", table),
		zap.String("fichier", filename),
		zap.Int64("lignes", result.Rows))
	return result, nil
}

func (s *ImportService) saveUpload(filename string, raw []byte) error {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return fmt.Errorf("upload dir: %w", err)
	}
	path := filepath.Join(s.uploadDir, filename)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("save upload: %w", err)
	}
	return nil
}

func (s *ImportService) appendHistory(ctx context.Context, table, user, resultat string, detail *string, lignes int64, fichier string) error {
	h := entity.ImportHistory{
		NomTable:     table,
		DateHeure:    time.Now().UTC(),
		Utilisateur:  user,
		Resultat:     resultat,
		DetailErreur: detail,
		NombreLignes: &lignes,
		NomFichier:   fichier,
	}
	if err := s.history.Append(ctx, h); err != nil {
		return fmt.Errorf("history: %w", err)
	}
	return nil
}

func parseFile(ext string, raw []byte) (*Dataset, error) {
	switch ext {
	case ".csv":
		return parseCSV(raw)
	case ".xlsx", ".xls":
		return parseExcel(raw)
	case ".txt":
		return parseTXT(raw)
	}
	return nil, Invalid("format non supporté : %s", ext)
}

// csvEncodings is the decode ladder for files exported from spreadsheet
// tools, most permissive last.
var csvEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"utf-16", unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)},
	{"utf-8-sig", unicode.UTF8BOM},
	{"cp1252", charmap.Windows1252},
	{"latin1", charmap.ISO8859_1},
}

// parseCSV walks the encoding ladder, trying ';' then ',' for each, and
// accepts the first combination yielding more than one column.
func parseCSV(raw []byte) (*Dataset, error) {
	var lastErr error
	for _, e := range csvEncodings {
		// The UTF-8 decoder substitutes instead of failing; reject it up
		// front so mojibake input falls through to the single-byte rungs.
		if e.name == "utf-8-sig" && !utf8.Valid(raw) {
			continue
		}
		decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), e.enc.NewDecoder()))
		if err != nil {
			lastErr = err
			continue
		}
		for _, sep := range []rune{';', ','} {
			ds, err := readDelimited(decoded, sep)
			if err != nil {
				lastErr = err
				continue
			}
			if len(ds.Columns) > 1 {
				ds.Encoding = e.name
				return ds, nil
			}
		}
	}
	return nil, Invalid("impossible de lire le CSV (dernier essai : %v)", lastErr)
}

func parseTXT(raw []byte) (*Dataset, error) {
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), unicode.UTF8BOM.NewDecoder()))
	if err != nil {
		return nil, Invalid("impossible de lire le fichier texte : %v", err)
	}
	ds, err := readDelimited(decoded, '\t')
	if err != nil {
		return nil, Invalid("impossible de lire le fichier texte : %v", err)
	}
	ds.Encoding = "utf-8-sig"
	return ds, nil
}

func readDelimited(data []byte, sep rune) (*Dataset, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, err
	}
	ds := &Dataset{Columns: header}
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed lines are skipped, not fatal.
			continue
		}
		// Short records are padded so indexing stays by header position.
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		ds.Records = append(ds.Records, rec[:len(header)])
	}
	return ds, nil
}

func parseExcel(raw []byte) (*Dataset, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, Invalid("impossible de lire le fichier Excel : %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, Invalid("le fichier Excel ne contient aucune feuille")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, Invalid("lecture de la feuille %s : %v", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, Invalid("le fichier Excel est vide")
	}
	ds := &Dataset{Columns: rows[0], Encoding: "xlsx"}
	for _, rec := range rows[1:] {
		for len(rec) < len(ds.Columns) {
			rec = append(rec, "")
		}
		ds.Records = append(ds.Records, rec[:len(ds.Columns)])
	}
	return ds, nil
}

// NormalizeColumn maps a raw header cell onto a schema-compatible
// identifier: trimmed, non-alphanumerics collapsed to single underscores.
func NormalizeColumn(name string) string {
	name = strings.TrimSpace(name)
	name = nonIdentRe.ReplaceAllString(name, "_")
	name = underscoresRe.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}

// typeRecords keeps the columns present in the destination schema and
// types each cell: numeric columns parse to FLOAT64/INT64 with invalid
// values as NULL, everything else stays a string.
func typeRecords(ds *Dataset, schema []warehouse.Field) ([]string, []warehouse.Row, error) {
	fields := make(map[string]warehouse.Field, len(schema))
	for _, f := range schema {
		fields[f.Name] = f
	}

	type binding struct {
		idx   int
		field warehouse.Field
	}
	var kept []binding
	var columns []string
	for i, raw := range ds.Columns {
		name := NormalizeColumn(raw)
		f, ok := fields[name]
		if !ok {
			continue
		}
		kept = append(kept, binding{idx: i, field: f})
		columns = append(columns, name)
	}
	if len(kept) == 0 {
		return nil, nil, Invalid("aucune colonne du fichier ne correspond au schéma de la table")
	}

	rows := make([]warehouse.Row, 0, len(ds.Records))
	for _, rec := range ds.Records {
		row := make(warehouse.Row, len(kept))
		for _, b := range kept {
			cell := strings.TrimSpace(rec[b.idx])
			if b.field.IsNumeric() {
				row[b.field.Name] = parseNumeric(cell, b.field)
			} else {
				row[b.field.Name] = cell
			}
		}
		rows = append(rows, row)
	}
	return columns, rows, nil
}

// parseNumeric coerces a cell to the column type; anything unparseable
// becomes NULL, mirroring a lenient spreadsheet import.
func parseNumeric(cell string, f warehouse.Field) interface{} {
	if cell == "" {
		return nil
	}
	cell = strings.ReplaceAll(cell, ",", ".")
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil
	}
	if f.Type == "INTEGER" {
		return int64(v)
	}
	return v
}

func preview(rows []warehouse.Row, n int) []warehouse.Row {
	if len(rows) < n {
		n = len(rows)
	}
	return rows[:n]
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
