package tomldoc

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	// ErrSyntax is returned when the document is not well-formed TOML.
	ErrSyntax = errors.New("invalid TOML document")
	// ErrFieldNotFound is returned when a key path does not exist.
	ErrFieldNotFound = errors.New("field not found")
	// ErrNotScalar is returned when a write targets something other than a string value.
	ErrNotScalar = errors.New("field is not a string value")
	// ErrNotTable is returned when a table decode targets something other than a table.
	ErrNotTable = errors.New("field is not a table")
)

const pathSeparator = "\x1f"

// Document is a TOML document that can be edited without disturbing the
// formatting of anything outside the edited value. Bytes returns the source
// unchanged until a Set call rewrites a value span.
type Document struct {
	src    []byte
	data   map[string]any
	tables []*Table

	values   map[string]Node
	headers  map[string]*Table
	children map[string][]string
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}

	doc, err := Parse(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", path, err)
	}
	return doc, nil
}

// Parse validates src and builds its node tree.
func Parse(src []byte) (*Document, error) {
	data := map[string]any{}
	if _, err := toml.Decode(string(src), &data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSyntax, err)
	}

	tables, err := scan(src)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		src:    bytes.Clone(src),
		data:   data,
		tables: tables,
	}
	doc.index()
	return doc, nil
}

// Bytes returns the current source of the document.
func (d *Document) Bytes() []byte {
	return bytes.Clone(d.src)
}

func (d *Document) String() string {
	return string(d.src)
}

// Tables returns the tables in document order, starting with the root table.
func (d *Document) Tables() []*Table {
	return d.tables
}

// Has reports whether the key path exists, as a value or as a table.
func (d *Document) Has(path ...string) bool {
	_, ok := d.Get(path...)
	return ok
}

// Get returns the node at path. Tables that were never declared with a header
// but exist through dotted keys or deeper headers are returned as implicit tables.
// Arrays of tables are not addressable.
func (d *Document) Get(path ...string) (Node, bool) {
	key := joinPath(path)
	if node, ok := d.values[key]; ok {
		return node, true
	}
	if table, ok := d.headers[key]; ok {
		return table, true
	}
	if _, ok := d.children[key]; ok {
		return &Table{Path: path, Implicit: true}, true
	}
	return nil, false
}

// Keys returns the direct child keys of the table at path in the order they
// first appear in the document.
func (d *Document) Keys(path ...string) []string {
	return append([]string(nil), d.children[joinPath(path)]...)
}

// Value returns the decoded value at path: string, int64, float64, bool,
// time.Time, []any or map[string]any.
func (d *Document) Value(path ...string) (any, bool) {
	var current any = d.data
	for _, part := range path {
		table, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = table[part]; !ok {
			return nil, false
		}
	}
	return current, true
}

// DecodeTable decodes the table at path into target and returns the keys,
// relative to path, that target had no field for.
func (d *Document) DecodeTable(path []string, target any) ([]string, error) {
	value, ok := d.Value(path...)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, strings.Join(path, "."))
	}
	table, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotTable, strings.Join(path, "."))
	}

	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(table); err != nil {
		return nil, fmt.Errorf("failed to re-encode %s: %w", strings.Join(path, "."), err)
	}
	meta, err := toml.Decode(buf.String(), target)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", strings.Join(path, "."), err)
	}

	var undecoded []string
	for _, key := range meta.Undecoded() {
		undecoded = append(undecoded, key.String())
	}
	return undecoded, nil
}

// SetString replaces the string value at path. Only the bytes of the old value
// are rewritten; a literal-quoted value stays literal-quoted when possible.
func (d *Document) SetString(path []string, value string) error {
	node, ok := d.values[joinPath(path)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrFieldNotFound, strings.Join(path, "."))
	}
	scalar, ok := node.(*Scalar)
	if !ok || scalar.Kind() != KindString {
		return fmt.Errorf("%w: %s is a %s", ErrNotScalar, strings.Join(path, "."), node.Kind())
	}

	encoded, err := encodeString(value, isSingleLineLiteral(scalar.Raw))
	if err != nil {
		return err
	}
	if encoded == scalar.Raw {
		return nil
	}

	span := scalar.Span()
	updated := make([]byte, 0, len(d.src)-(span.End-span.Start)+len(encoded))
	updated = append(updated, d.src[:span.Start]...)
	updated = append(updated, encoded...)
	updated = append(updated, d.src[span.End:]...)

	reparsed, err := Parse(updated)
	if err != nil {
		return fmt.Errorf("rewritten document is invalid: %w", err)
	}
	*d = *reparsed
	return nil
}

func (d *Document) index() {
	d.values = map[string]Node{}
	d.headers = map[string]*Table{}
	d.children = map[string][]string{}

	var arrayTables [][]string
	for _, table := range d.tables {
		if table.Array {
			arrayTables = append(arrayTables, table.Path)
			continue
		}
		if underAny(table.Path, arrayTables) {
			continue
		}

		d.addChain(nil, table.Path)
		if len(table.Path) > 0 {
			d.headers[joinPath(table.Path)] = table
		}
		d.indexEntries(table.Path, table.Entries)
	}
}

func (d *Document) indexEntries(base []string, entries []*KeyValue) {
	for _, kv := range entries {
		full := append(append([]string(nil), base...), kv.Key...)
		d.addChain(base, full)
		d.values[joinPath(full)] = kv.Value

		if inline, ok := kv.Value.(*InlineTable); ok {
			d.indexEntries(full, inline.Entries)
		}
	}
}

// addChain records every parent to child link between base and full.
func (d *Document) addChain(base, full []string) {
	for i := len(base); i < len(full); i++ {
		parent := joinPath(full[:i])
		child := full[i]
		if !slices.Contains(d.children[parent], child) {
			d.children[parent] = append(d.children[parent], child)
		}
	}
}

func encodeString(value string, preferLiteral bool) (string, error) {
	if preferLiteral && !strings.ContainsAny(value, "'\n\r") {
		return "'" + value + "'", nil
	}

	buf := new(bytes.Buffer)
	err := toml.NewEncoder(buf).Encode(struct {
		V string `toml:"v"`
	}{V: value})
	if err != nil {
		return "", fmt.Errorf("failed to encode %q: %w", value, err)
	}

	encoded := strings.TrimSpace(buf.String())
	return strings.TrimSpace(strings.TrimPrefix(encoded, "v =")), nil
}

func isSingleLineLiteral(raw string) bool {
	return strings.HasPrefix(raw, "'") && !strings.HasPrefix(raw, "'''")
}

func underAny(path []string, prefixes [][]string) bool {
	for _, prefix := range prefixes {
		if len(path) >= len(prefix) && slices.Equal(path[:len(prefix)], prefix) {
			return true
		}
	}
	return false
}

func joinPath(path []string) string {
	return strings.Join(path, pathSeparator)
}
