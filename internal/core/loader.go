package core

// loader.go reads the catalog export into records.
//
// The source file has no header row of its own as far as the pipeline is
// concerned: the operator assigns a canonical field to each column, and every
// row, the first included, is data. Column count is taken from the first row.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// HeaderSchema lists the field bound to each source column, in column order.
type HeaderSchema []Field

// ParseHeaderSchema validates operator-assigned column names against the
// catalogue. Sentinels may repeat; any other field may be bound only once.
func ParseHeaderSchema(names []string) (HeaderSchema, error) {
	schema := make(HeaderSchema, 0, len(names))
	seen := make(map[Field]int, len(names))

	for i, name := range names {
		spec, ok := LookupField(name)
		if !ok {
			return nil, fmt.Errorf("%w %q in column %d", ErrUnknownField, name, i+1)
		}
		if !spec.Name.IsSentinel() {
			if prev, dup := seen[spec.Name]; dup {
				return nil, fmt.Errorf("%w %q in columns %d and %d", ErrDuplicateField, spec.Name, prev+1, i+1)
			}
			seen[spec.Name] = i
		}
		schema = append(schema, spec.Name)
	}

	return schema, nil
}

// Has reports whether f is bound to a source column.
func (s HeaderSchema) Has(f Field) bool {
	for _, h := range s {
		if h == f {
			return true
		}
	}
	return false
}

// Fields returns the bound data fields in column order, without sentinels.
func (s HeaderSchema) Fields() []Field {
	out := make([]Field, 0, len(s))
	for _, h := range s {
		if !h.IsSentinel() {
			out = append(out, h)
		}
	}
	return out
}

// newCSVReader returns a reader tolerant of the quirks of desktop exports.
func newCSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	// Row widths are checked against the schema by the loader.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader
}

// ReadPreview returns up to n rows and the column count of the first row.
func ReadPreview(r io.Reader, n int) ([][]string, int, error) {
	reader := newCSVReader(r)

	var rows [][]string
	columns := 0
	for line := 0; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
		}
		if line == 0 {
			columns = len(row)
		}
		if len(rows) >= n {
			break
		}
		rows = append(rows, row)
	}

	return rows, columns, nil
}

// LoadRecords reads every row of r into a Record keyed by schema. columns is
// the column count recorded for the source; a schema of a different width is
// rejected before any row is read, as is a source whose first row does not
// match the schema. Later rows of the wrong width are padded or truncated and
// reported in ledger.
func LoadRecords(r io.Reader, schema HeaderSchema, columns int, ledger *Ledger) ([]Record, error) {
	if len(schema) == 0 || len(schema) != columns {
		return nil, fmt.Errorf("%w (%d vs. %d)", ErrSchemaMismatch, len(schema), columns)
	}

	reader := newCSVReader(r)
	var records []Record

	for line := 0; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
		}

		width := len(row)
		if line == 0 && width != columns {
			return nil, fmt.Errorf("%w (%d vs. %d)", ErrSchemaMismatch, len(schema), width)
		}
		if width < columns {
			padded := make([]string, columns)
			copy(padded, row)
			row = padded
		} else if width > columns {
			row = row[:columns]
		}

		rec := make(Record, columns)
		for i, field := range schema {
			if field.IsSentinel() {
				continue
			}
			rec[field] = Some(row[i])
		}

		if width != columns {
			lot := rec.Lot()
			if lot == "" {
				lot = FileLevelLot
			}
			ledger.Add(lot, fmt.Sprintf("Row has %d columns, expected %d.", width, columns))
		}

		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrEmptySource
	}
	return records, nil
}

// FixDescriptions merges the five description fragments of every record into
// FieldDesc, joined by single spaces, and returns the field order with Desc
// in place of the first fragment. When no fragment is bound the records and
// order are left unchanged.
func FixDescriptions(records []Record, order []Field) ([]Field, error) {
	bound := 0
	first := -1
	for i, f := range order {
		for _, frag := range descFragments {
			if f == frag {
				bound++
				if first < 0 {
					first = i
				}
			}
		}
	}
	if bound == 0 {
		return order, nil
	}
	if bound != len(descFragments) {
		return nil, fmt.Errorf("%w: %d of %d description columns assigned", ErrDescriptionFragments, bound, len(descFragments))
	}

	for _, rec := range records {
		parts := make([]string, 0, len(descFragments))
		for _, frag := range descFragments {
			v, ok := rec[frag].Get()
			if !ok {
				return nil, fmt.Errorf("%w: lot %q lacks %s", ErrDescriptionFragments, rec.Lot(), frag)
			}
			parts = append(parts, v)
			delete(rec, frag)
		}
		rec[FieldDesc] = Some(strings.Join(parts, " "))
	}

	out := make([]Field, 0, len(order)-len(descFragments)+1)
	for i, f := range order {
		if i == first {
			out = append(out, FieldDesc)
		}
		if !isDescFragment(f) {
			out = append(out, f)
		}
	}
	return out, nil
}

func isDescFragment(f Field) bool {
	for _, frag := range descFragments {
		if f == frag {
			return true
		}
	}
	return false
}
