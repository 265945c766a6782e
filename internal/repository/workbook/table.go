package workbook

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
)

var foldHeader = cases.Fold()

// column is one declared column of a table. Headers are matched after
// normalizeHeader, against header first, then key, then aliases.
type column struct {
	key     string
	header  string
	aliases []string
}

func normalizeHeader(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			return -1
		}
		return r
	}, s)
	return foldHeader.String(s)
}

// sheetRow gives keyed access to one data row. Missing columns read as "".
type sheetRow struct {
	line  int
	cells []string
	index map[string]int
}

func (r sheetRow) get(key string) string {
	i, ok := r.index[key]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

func (r sheetRow) blank() bool {
	for _, c := range r.cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// count reads a count cell, accepting raw float values such as "3.0".
func (r sheetRow) count(key string) (int, bool) {
	s := r.get(key)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), true
	}
	return 0, false
}

func (r sheetRow) optional(key string) *string {
	if s := r.get(key); s != "" && s != "-" {
		return &s
	}
	return nil
}

// codec maps records of T to and from the first sheet of a workbook.
type codec[T any] struct {
	sheet   string
	columns []column
	decode  func(r sheetRow) T
	encode  func(rec T, seq int) map[string]any
}

func (c codec[T]) headerIndex(header []string) map[string]int {
	seen := make(map[string]int, len(header))
	for i, h := range header {
		n := normalizeHeader(h)
		if _, dup := seen[n]; n != "" && !dup {
			seen[n] = i
		}
	}

	index := make(map[string]int, len(c.columns))
	for _, col := range c.columns {
		for _, name := range append([]string{col.header, col.key}, col.aliases...) {
			if i, ok := seen[normalizeHeader(name)]; ok {
				index[col.key] = i
				break
			}
		}
	}
	return index
}

// rows returns the header index and the non-blank data rows.
func (c codec[T]) rows(content []byte) (map[string]int, []sheetRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, nil
	}
	raw, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(raw) == 0 {
		return nil, nil, nil
	}

	index := c.headerIndex(raw[0])
	var rows []sheetRow
	for i, cells := range raw[1:] {
		row := sheetRow{line: i + 2, cells: cells, index: index}
		if !row.blank() {
			rows = append(rows, row)
		}
	}
	return index, rows, nil
}

func (c codec[T]) read(content []byte) ([]T, error) {
	_, rows, err := c.rows(content)
	if err != nil {
		return nil, err
	}
	records := make([]T, 0, len(rows))
	for _, row := range rows {
		records = append(records, c.decode(row))
	}
	return records, nil
}

func (c codec[T]) write(records []T) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", c.sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(c.columns))
	for i, col := range c.columns {
		header[i] = col.header
	}
	if err := f.SetSheetRow(c.sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(c.columns), 1)
	if err != nil {
		return nil, fmt.Errorf("failed to locate header end: %w", err)
	}
	if err := f.SetCellStyle(c.sheet, "A1", last, style); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for i, rec := range records {
		values := c.encode(rec, i+1)
		row := make([]any, len(c.columns))
		for j, col := range c.columns {
			if v, ok := values[col.key]; ok && v != nil {
				row[j] = v
			} else {
				row[j] = ""
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(c.sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// table is one workbook file holding records of T. Writes rewrite the whole
// file; mu serializes them within this process only.
type table[T any] struct {
	mu    sync.Mutex
	store Store
	file  string
	codec codec[T]
}

func (t *table[T]) load(ctx context.Context) ([]T, error) {
	content, found, err := t.store.Download(ctx, t.file)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", t.file, err)
	}
	if !found || len(content) == 0 {
		return nil, nil
	}
	records, err := t.codec.read(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", t.file, err)
	}
	return records, nil
}

func (t *table[T]) save(ctx context.Context, records []T) error {
	content, err := t.codec.write(records)
	if err != nil {
		return err
	}
	if err := t.store.Upload(ctx, t.file, content); err != nil {
		return fmt.Errorf("failed to save %s: %w", t.file, err)
	}
	return nil
}

// mutate loads the table, applies fn and saves the result unless fn fails.
func (t *table[T]) mutate(ctx context.Context, fn func(records []T) ([]T, error)) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	records, err := t.load(ctx)
	if err != nil {
		return err
	}
	out, err := fn(records)
	if err != nil {
		return err
	}
	return t.save(ctx, out)
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return nil
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func rowID(id string, line int) string {
	if id != "" {
		return id
	}
	return fmt.Sprintf("row-%d", line)
}
