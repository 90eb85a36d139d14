// Package importer reads header-mapped CSV and XLSX uploads into rows
// keyed by normalized column name.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"floor-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

var ErrEmptyFile = errors.New("file has no header row")

// Row is one data row. Line is the 1-based line in the source file,
// counting the header.
type Row struct {
	Line   int
	Values map[string]string
}

func (r Row) Get(column string) string {
	return strings.TrimSpace(r.Values[column])
}

// Read parses an upload. Files ending in .xlsx are read from their first
// sheet, anything else as CSV.
func Read(filename string, r io.Reader) ([]Row, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return readXLSX(r)
	}
	return readCSV(r)
}

func readCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var records [][]string
	var lines []int
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}
	return toRows(records, lines)
}

func readXLSX(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse xlsx: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrEmptyFile
	}
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return toRows(records, nil)
}

// toRows keys records by header. lines holds the source line of each
// record; when nil the record index is used.
func toRows(records [][]string, lines []int) ([]Row, error) {
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = NormalizeHeader(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		if blank(rec) {
			continue
		}
		line := i + 2
		if lines != nil {
			line = lines[i+1]
		}
		values := make(map[string]string, len(header))
		for col, name := range header {
			if name == "" || col >= len(rec) {
				continue
			}
			values[name] = rec[col]
		}
		rows = append(rows, Row{Line: line, Values: values})
	}
	return rows, nil
}

// NormalizeHeader folds "Asset Number", "asset_number" and "assetNumber"
// to the same key.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	var sb strings.Builder
	for _, r := range strings.ToLower(h) {
		if r == ' ' || r == '_' || r == '-' {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// RowError describes why a single row was rejected
type RowError struct {
	Line    int    `json:"line"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Error collects every rejected row of an import
type Error struct {
	Rows []RowError `json:"rows"`
}

func (e *Error) Error() string {
	if len(e.Rows) == 1 {
		r := e.Rows[0]
		return fmt.Sprintf("import rejected: line %d: %s %s", r.Line, r.Field, r.Message)
	}
	return fmt.Sprintf("import rejected: %d invalid rows", len(e.Rows))
}

func (e *Error) Add(line int, field, msg string) {
	e.Rows = append(e.Rows, RowError{Line: line, Field: field, Message: msg})
}

func (e *Error) Empty() bool {
	return len(e.Rows) == 0
}

// Machines maps rows onto machine requests. Columns: assetNumber, name,
// type, productionLineId (or line), status.
func Machines(rows []Row) []models.CreateMachineRequest {
	out := make([]models.CreateMachineRequest, 0, len(rows))
	for _, row := range rows {
		lineID := row.Get("productionlineid")
		if lineID == "" {
			lineID = row.Get("line")
		}
		out = append(out, models.CreateMachineRequest{
			AssetNumber:      row.Get("assetnumber"),
			Name:             row.Get("name"),
			Type:             row.Get("type"),
			ProductionLineID: lineID,
			Status:           strings.ToLower(row.Get("status")),
		})
	}
	return out
}

// Lines maps rows onto production line requests. Columns: name, code,
// location, targetUnitsPerHour. A target that is not a number is reported
// against its line.
func Lines(rows []Row) ([]models.CreateLineRequest, *Error) {
	errs := &Error{}
	out := make([]models.CreateLineRequest, 0, len(rows))
	for _, row := range rows {
		req := models.CreateLineRequest{
			Name:     row.Get("name"),
			Code:     row.Get("code"),
			Location: row.Get("location"),
		}
		if v := row.Get("targetunitsperhour"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs.Add(row.Line, "targetUnitsPerHour", "must be a whole number")
			}
			req.TargetUnitsPerHour = n
		}
		out = append(out, req)
	}
	return out, errs
}
