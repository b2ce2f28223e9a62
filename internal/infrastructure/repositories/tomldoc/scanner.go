package tomldoc

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
)

// utf8BOM is kept in the source as trivia.
const utf8BOM = "\xef\xbb\xbf"

var (
	localDateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateTimeRE  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}|^\d{2}:\d{2}`)
)

// scanner builds the node tree of an already validated TOML document. It only
// records structure and byte ranges; values are decoded on demand.
type scanner struct {
	src []byte
	pos int
}

func scan(src []byte) ([]*Table, error) {
	s := &scanner{src: src}
	if bytes.HasPrefix(src, []byte(utf8BOM)) {
		s.pos = len(utf8BOM)
	}
	root := &Table{}
	tables := []*Table{root}
	current := root

	for {
		s.skipTrivia()
		if s.eof() {
			return tables, nil
		}

		if s.peek() == '[' {
			table, err := s.parseHeader()
			if err != nil {
				return nil, err
			}
			tables = append(tables, table)
			current = table
			continue
		}

		kv, err := s.parseKeyValue()
		if err != nil {
			return nil, err
		}
		current.Entries = append(current.Entries, kv)
		if err = s.expectLineEnd(); err != nil {
			return nil, err
		}
	}
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) peek() byte { return s.src[s.pos] }

func (s *scanner) hasPrefix(prefix string) bool {
	return bytes.HasPrefix(s.src[s.pos:], []byte(prefix))
}

func (s *scanner) errorf(format string, args ...any) error {
	line := bytes.Count(s.src[:min(s.pos, len(s.src))], []byte("\n")) + 1
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, line, fmt.Sprintf(format, args...))
}

func (s *scanner) skipSpace() {
	for !s.eof() && (s.peek() == ' ' || s.peek() == '\t') {
		s.pos++
	}
}

func (s *scanner) skipComment() {
	for !s.eof() && s.peek() != '\n' {
		s.pos++
	}
}

// skipTrivia skips whitespace, newlines and comments.
func (s *scanner) skipTrivia() {
	for !s.eof() {
		switch s.peek() {
		case ' ', '\t', '\r', '\n':
			s.pos++
		case '#':
			s.skipComment()
		default:
			return
		}
	}
}

func (s *scanner) expectLineEnd() error {
	s.skipSpace()
	if !s.eof() && s.peek() == '#' {
		s.skipComment()
	}
	switch {
	case s.eof():
		return nil
	case s.peek() == '\n':
		s.pos++
		return nil
	case s.hasPrefix("\r\n"):
		s.pos += 2
		return nil
	default:
		return s.errorf("expected end of line, found %q", s.peek())
	}
}

func (s *scanner) parseHeader() (*Table, error) {
	start := s.pos
	table := &Table{}
	closing := "]"
	if s.hasPrefix("[[") {
		table.Array = true
		closing = "]]"
		s.pos += 2
	} else {
		s.pos++
	}

	s.skipSpace()
	path, _, err := s.parseKey()
	if err != nil {
		return nil, err
	}
	s.skipSpace()
	if !s.hasPrefix(closing) {
		return nil, s.errorf("unterminated table header")
	}
	s.pos += len(closing)

	table.Path = path
	table.Header = Span{Start: start, End: s.pos}
	return table, s.expectLineEnd()
}

func (s *scanner) parseKeyValue() (*KeyValue, error) {
	key, keySpan, err := s.parseKey()
	if err != nil {
		return nil, err
	}
	s.skipSpace()
	if s.eof() || s.peek() != '=' {
		return nil, s.errorf("expected '=' after key %q", key)
	}
	s.pos++
	s.skipSpace()

	value, err := s.parseValue()
	if err != nil {
		return nil, err
	}
	return &KeyValue{Key: key, KeySpan: keySpan, Value: value}, nil
}

// parseKey reads a simple or dotted key.
func (s *scanner) parseKey() ([]string, Span, error) {
	var parts []string
	span := Span{Start: s.pos}
	for {
		s.skipSpace()
		part, err := s.parseSimpleKey()
		if err != nil {
			return nil, span, err
		}
		parts = append(parts, part)
		span.End = s.pos

		s.skipSpace()
		if s.eof() || s.peek() != '.' {
			return parts, span, nil
		}
		s.pos++
	}
}

func (s *scanner) parseSimpleKey() (string, error) {
	if s.eof() {
		return "", s.errorf("expected key, found end of document")
	}

	start := s.pos
	switch s.peek() {
	case '"':
		if err := s.skipBasicString(); err != nil {
			return "", err
		}
		key, err := strconv.Unquote(string(s.src[start:s.pos]))
		if err != nil {
			return "", s.errorf("invalid quoted key: %v", err)
		}
		return key, nil
	case '\'':
		if err := s.skipLiteralString(); err != nil {
			return "", err
		}
		return string(s.src[start+1 : s.pos-1]), nil
	}

	for !s.eof() && isBareKeyChar(s.peek()) {
		s.pos++
	}
	if s.pos == start {
		return "", s.errorf("invalid key character %q", s.peek())
	}
	return string(s.src[start:s.pos]), nil
}

func (s *scanner) parseValue() (Node, error) {
	if s.eof() {
		return nil, s.errorf("expected value, found end of document")
	}

	start := s.pos
	var err error
	switch {
	case s.hasPrefix(`"""`):
		err = s.skipMultilineString(`"""`, true)
	case s.peek() == '"':
		err = s.skipBasicString()
	case s.hasPrefix(`'''`):
		err = s.skipMultilineString(`'''`, false)
	case s.peek() == '\'':
		err = s.skipLiteralString()
	case s.peek() == '[':
		return s.parseArray()
	case s.peek() == '{':
		return s.parseInlineTable()
	default:
		return s.parseBareScalar()
	}
	if err != nil {
		return nil, err
	}

	return &Scalar{
		kind: KindString,
		span: Span{Start: start, End: s.pos},
		Raw:  string(s.src[start:s.pos]),
	}, nil
}

func (s *scanner) skipBasicString() error {
	s.pos++
	for !s.eof() {
		switch s.peek() {
		case '\\':
			s.pos += 2
		case '"':
			s.pos++
			return nil
		case '\n':
			return s.errorf("newline in string")
		default:
			s.pos++
		}
	}
	return s.errorf("unterminated string")
}

func (s *scanner) skipLiteralString() error {
	s.pos++
	end := bytes.IndexAny(s.src[s.pos:], "'\n")
	if end < 0 || s.src[s.pos+end] != '\'' {
		return s.errorf("unterminated literal string")
	}
	s.pos += end + 1
	return nil
}

// skipMultilineString consumes a """ or ''' string. Up to two quotes may
// directly precede the closing delimiter and belong to the content.
func (s *scanner) skipMultilineString(delim string, escapes bool) error {
	s.pos += len(delim)
	for !s.eof() {
		if escapes && s.peek() == '\\' {
			s.pos += 2
			continue
		}
		if s.hasPrefix(delim) {
			s.pos += len(delim)
			for extra := 0; extra < 2 && !s.eof() && s.peek() == delim[0]; extra++ {
				s.pos++
			}
			return nil
		}
		s.pos++
	}
	return s.errorf("unterminated multi-line string")
}

func (s *scanner) parseArray() (Node, error) {
	array := &Array{span: Span{Start: s.pos}}
	s.pos++
	for {
		s.skipTrivia()
		if s.eof() {
			return nil, s.errorf("unterminated array")
		}
		if s.peek() == ']' {
			s.pos++
			array.span.End = s.pos
			return array, nil
		}

		item, err := s.parseValue()
		if err != nil {
			return nil, err
		}
		array.Items = append(array.Items, item)

		s.skipTrivia()
		if s.eof() {
			return nil, s.errorf("unterminated array")
		}
		switch s.peek() {
		case ',':
			s.pos++
		case ']':
		default:
			return nil, s.errorf("expected ',' or ']' in array, found %q", s.peek())
		}
	}
}

func (s *scanner) parseInlineTable() (Node, error) {
	table := &InlineTable{span: Span{Start: s.pos}}
	s.pos++
	for {
		s.skipTrivia()
		if s.eof() {
			return nil, s.errorf("unterminated inline table")
		}
		if s.peek() == '}' {
			s.pos++
			table.span.End = s.pos
			return table, nil
		}

		kv, err := s.parseKeyValue()
		if err != nil {
			return nil, err
		}
		table.Entries = append(table.Entries, kv)

		s.skipTrivia()
		if s.eof() {
			return nil, s.errorf("unterminated inline table")
		}
		switch s.peek() {
		case ',':
			s.pos++
		case '}':
		default:
			return nil, s.errorf("expected ',' or '}' in inline table, found %q", s.peek())
		}
	}
}

func (s *scanner) parseBareScalar() (Node, error) {
	start := s.pos
	s.skipBareToken()

	// local date followed by a space separated time: 1979-05-27 07:32:00
	if localDateRE.Match(s.src[start:s.pos]) && s.pos+3 < len(s.src) &&
		s.src[s.pos] == ' ' && isDigit(s.src[s.pos+1]) && isDigit(s.src[s.pos+2]) && s.src[s.pos+3] == ':' {
		s.pos++
		s.skipBareToken()
	}

	if s.pos == start {
		return nil, s.errorf("invalid value starting with %q", s.peek())
	}

	raw := string(s.src[start:s.pos])
	return &Scalar{
		kind: bareScalarKind(raw),
		span: Span{Start: start, End: s.pos},
		Raw:  raw,
	}, nil
}

func (s *scanner) skipBareToken() {
	for !s.eof() {
		switch s.peek() {
		case ' ', '\t', '\r', '\n', ',', ']', '}', '#':
			return
		}
		s.pos++
	}
}

func bareScalarKind(raw string) Kind {
	switch {
	case raw == "true" || raw == "false":
		return KindBool
	case dateTimeRE.MatchString(raw):
		return KindDateTime
	case len(raw) > 1 && raw[0] == '0' && (raw[1] == 'x' || raw[1] == 'o' || raw[1] == 'b'):
		return KindInteger
	case bytes.ContainsAny([]byte(raw), ".eE") || bytes.Contains([]byte(raw), []byte("inf")) ||
		bytes.Contains([]byte(raw), []byte("nan")):
		return KindFloat
	default:
		return KindInteger
	}
}

func isBareKeyChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || isDigit(c) || c == '_' || c == '-'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
