package tomldoc

// Kind identifies the type of a document node.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindFloat
	KindBool
	KindDateTime
	KindArray
	KindInlineTable
	KindTable
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindDateTime:
		return "datetime"
	case KindArray:
		return "array"
	case KindInlineTable:
		return "inline table"
	case KindTable:
		return "table"
	default:
		return "unknown"
	}
}

// Span is a half-open byte range [Start, End) of the source document.
type Span struct {
	Start int
	End   int
}

// Node is an element of the document tree. Every node keeps the byte range it
// was read from; the bytes between node spans (whitespace, comments,
// separators) are never rewritten.
type Node interface {
	Kind() Kind
	Span() Span
}

// Scalar is a leaf value: string, number, boolean or date-time.
type Scalar struct {
	kind Kind
	span Span
	Raw  string // exact source text, quotes included
}

func (s *Scalar) Kind() Kind { return s.kind }
func (s *Scalar) Span() Span { return s.span }

// Array is a bracketed list of values.
type Array struct {
	span  Span
	Items []Node
}

func (a *Array) Kind() Kind { return KindArray }
func (a *Array) Span() Span { return a.span }

// InlineTable is a braced `{ key = value, ... }` table.
type InlineTable struct {
	span    Span
	Entries []*KeyValue
}

func (t *InlineTable) Kind() Kind { return KindInlineTable }
func (t *InlineTable) Span() Span { return t.span }

// KeyValue is one `key = value` pair. Key holds the unquoted, possibly
// dotted, key relative to the enclosing table.
type KeyValue struct {
	Key     []string
	KeySpan Span
	Value   Node
}

// Table is a `[header]` section, the implicit root table, or a table that
// only exists through dotted keys or deeper headers (Implicit).
type Table struct {
	Path     []string
	Header   Span
	Array    bool // declared as [[array of tables]]
	Implicit bool
	Entries  []*KeyValue
}

func (t *Table) Kind() Kind { return KindTable }
func (t *Table) Span() Span { return t.Header }
