// Package intermediatedb writes import data into the intermediate (staging)
// database. Every staging table is declared once below the entity it
// stores; the declaration yields both its INSERT template and its
// CREATE TABLE statement. Rows are created once and never updated.
package intermediatedb

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dtnitsch/intermediate-db/pkg/db"
)

// SchemaVersion is recorded in the staging database by Setup.
const SchemaVersion = 1

type sqlType string

const (
	numeric  sqlType = "NUMERIC"
	text     sqlType = "TEXT"
	integer  sqlType = "INTEGER"
	boolean  sqlType = "BOOLEAN"
	datetime sqlType = "DATETIME"
	date     sqlType = "DATE"
	jsonText sqlType = "JSON_TEXT"
	inet     sqlType = "INET_TEXT"
	blob     sqlType = "BLOB"
)

type column struct {
	name     string
	typ      sqlType
	required bool
}

func required(name string, typ sqlType) column {
	return column{name: name, typ: typ, required: true}
}

func optional(name string, typ sqlType) column {
	return column{name: name, typ: typ}
}

// Table is the declaration of one staging table.
type Table struct {
	name       string
	columns    []column
	primaryKey []string
	orIgnore   bool
	insertSQL  string
}

var registry = map[string]*Table{}

func define(name string, primaryKey []string, columns ...column) *Table {
	if _, dup := registry[name]; dup {
		panic("intermediatedb: table declared twice: " + name)
	}
	t := &Table{name: name, columns: columns, primaryKey: primaryKey}
	t.insertSQL = t.buildInsert()
	registry[name] = t
	return t
}

// ignoringDuplicates makes inserts that hit the primary key a silent no-op.
func (t *Table) ignoringDuplicates() *Table {
	t.orIgnore = true
	t.insertSQL = t.buildInsert()
	return t
}

// Name returns the table name.
func (t *Table) Name() string { return t.name }

// Columns returns the column names in insert order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names
}

// InsertSQL returns the fixed positional INSERT template.
func (t *Table) InsertSQL() string { return t.insertSQL }

func (t *Table) buildInsert() string {
	verb := "INSERT"
	if t.orIgnore {
		verb = "INSERT OR IGNORE"
	}
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = quote(c.name)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")
	return fmt.Sprintf("%s INTO %s (%s) VALUES (%s)",
		verb, quote(t.name), strings.Join(names, ", "), placeholders)
}

// quote makes column names such as "primary" and "trigger" legal identifiers.
func quote(name string) string {
	return `"` + name + `"`
}

func (t *Table) createSQL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n", quote(t.name))
	for i, c := range t.columns {
		fmt.Fprintf(&b, "    %s %s", quote(c.name), c.typ)
		if c.required {
			b.WriteString(" NOT NULL")
		}
		if i < len(t.columns)-1 || len(t.primaryKey) > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	if len(t.primaryKey) > 0 {
		keys := make([]string, len(t.primaryKey))
		for i, k := range t.primaryKey {
			keys[i] = quote(k)
		}
		fmt.Fprintf(&b, "    PRIMARY KEY (%s)\n", strings.Join(keys, ", "))
	}
	b.WriteString(")")
	return b.String()
}

// Tables returns every staging table, sorted by name.
func Tables() []*Table {
	tables := make([]*Table, 0, len(registry))
	for _, t := range registry {
		tables = append(tables, t)
	}
	sort.Slice(tables, func(i, j int) bool { return tables[i].name < tables[j].name })
	return tables
}

// Schema returns the CREATE TABLE statements of the staging schema.
func Schema() []string {
	tables := Tables()
	statements := make([]string, len(tables))
	for i, t := range tables {
		statements[i] = t.createSQL()
	}
	return statements
}

// Setup creates the staging schema in d unless it is already current.
func Setup(d *db.DB) error {
	if err := d.ApplySchema(SchemaVersion, Schema()); err != nil {
		return fmt.Errorf("failed to set up intermediate schema: %w", err)
	}
	return nil
}

// ErrMissingField matches every MissingFieldError.
var ErrMissingField = errors.New("missing required field")

// MissingFieldError reports a required column left empty by the caller.
// It is returned before anything reaches the database.
type MissingFieldError struct {
	Table  string
	Column string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s.%s", ErrMissingField, e.Table, e.Column)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// Writer creates staging rows through an Inserter.
type Writer struct {
	ins db.Inserter
}

// New returns a Writer that sends every row to ins.
func New(ins db.Inserter) *Writer {
	return &Writer{ins: ins}
}

// insert validates required columns and hands the row to the Inserter.
// values must follow the table's column order.
func (w *Writer) insert(t *Table, values ...any) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("%s: got %d values for %d columns", t.name, len(values), len(t.columns))
	}
	for i, c := range t.columns {
		if c.required && values[i] == nil {
			return &MissingFieldError{Table: t.name, Column: c.name}
		}
	}

	if err := w.ins.Insert(t.insertSQL, values...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", t.name, err)
	}
	return nil
}

// toJSON encodes a JSON column, naming the column on failure.
func toJSON(t *Table, column string, v any) (any, error) {
	out, err := db.ToJSON(v)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", t.name, column, err)
	}
	return out, nil
}
