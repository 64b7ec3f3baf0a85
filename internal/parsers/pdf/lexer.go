package pdf

import (
	"bytes"
	"encoding/hex"
	"errors"
	"io"
	"strconv"
	"strings"
)

var errBadToken = errors.New("pdf: bad token")

// name is a PDF name object such as /Type.
type name string

// keyword is a bare token: an operator in content streams, or true,
// false and null in object data.
type keyword string

// objRef is an indirect object reference (N G R).
type objRef struct {
	num int
	gen int
}

// lexer reads PDF object syntax from a byte slice. The same lexer
// handles both indirect object bodies and page content streams; the
// grammar is shared, only the vocabulary of keywords differs.
type lexer struct {
	data []byte
	pos  int
}

func isSpaceChar(c byte) bool {
	switch c {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelimChar(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// skipSpace advances past whitespace and % comments.
func (l *lexer) skipSpace() {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if isSpaceChar(c) {
			l.pos++
			continue
		}
		if c == '%' {
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
			continue
		}
		break
	}
}

// parseValue reads the next object: dict, array, string, name, number,
// reference or keyword.
func (l *lexer) parseValue() (any, error) {
	l.skipSpace()
	if l.pos >= len(l.data) {
		return nil, io.ErrUnexpectedEOF
	}
	switch c := l.data[l.pos]; {
	case c == '<':
		if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
			return l.parseDict()
		}
		return l.parseHexString()
	case c == '[':
		return l.parseArray()
	case c == '(':
		return l.parseLiteralString()
	case c == '/':
		return l.parseName()
	case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
		return l.parseNumberOrRef()
	default:
		return l.parseKeyword()
	}
}

func (l *lexer) parseDict() (any, error) {
	l.pos += 2 // <<
	dict := make(map[string]any)
	for {
		l.skipSpace()
		if l.pos >= len(l.data) {
			return nil, io.ErrUnexpectedEOF
		}
		if l.data[l.pos] == '>' {
			if l.pos+1 < len(l.data) && l.data[l.pos+1] == '>' {
				l.pos += 2
				return dict, nil
			}
			return nil, errBadToken
		}
		if l.data[l.pos] != '/' {
			return nil, errBadToken
		}
		key, err := l.parseName()
		if err != nil {
			return nil, err
		}
		val, err := l.parseValue()
		if err != nil {
			return nil, err
		}
		dict[string(key.(name))] = val
	}
}

func (l *lexer) parseArray() (any, error) {
	l.pos++ // [
	var arr []any
	for {
		l.skipSpace()
		if l.pos >= len(l.data) {
			return nil, io.ErrUnexpectedEOF
		}
		if l.data[l.pos] == ']' {
			l.pos++
			return arr, nil
		}
		v, err := l.parseValue()
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
}

func (l *lexer) parseName() (any, error) {
	l.pos++ // /
	var out []byte
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if isSpaceChar(c) || isDelimChar(c) {
			break
		}
		if c == '#' && l.pos+2 < len(l.data) && isHexDigit(l.data[l.pos+1]) && isHexDigit(l.data[l.pos+2]) {
			var b [1]byte
			hex.Decode(b[:], l.data[l.pos+1:l.pos+3])
			out = append(out, b[0])
			l.pos += 3
			continue
		}
		out = append(out, c)
		l.pos++
	}
	return name(out), nil
}

// parseLiteralString reads a (...) string, resolving escape sequences
// and balancing nested parentheses. PDF strings are byte strings; the
// caller decides how to decode them.
func (l *lexer) parseLiteralString() (any, error) {
	l.pos++ // (
	var out []byte
	depth := 1
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch c {
		case '\\':
			l.pos++
			if l.pos >= len(l.data) {
				return nil, io.ErrUnexpectedEOF
			}
			switch e := l.data[l.pos]; e {
			case 'n':
				out = append(out, '\n')
				l.pos++
			case 'r':
				out = append(out, '\r')
				l.pos++
			case 't':
				out = append(out, '\t')
				l.pos++
			case 'b':
				out = append(out, '\b')
				l.pos++
			case 'f':
				out = append(out, '\f')
				l.pos++
			case '(', ')', '\\':
				out = append(out, e)
				l.pos++
			case '\r':
				// Escaped line break continues the string.
				l.pos++
				if l.pos < len(l.data) && l.data[l.pos] == '\n' {
					l.pos++
				}
			case '\n':
				l.pos++
			default:
				if e >= '0' && e <= '7' {
					v := 0
					for i := 0; i < 3 && l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '7'; i++ {
						v = v*8 + int(l.data[l.pos]-'0')
						l.pos++
					}
					out = append(out, byte(v))
				} else {
					out = append(out, e)
					l.pos++
				}
			}
		case '(':
			depth++
			out = append(out, c)
			l.pos++
		case ')':
			depth--
			if depth == 0 {
				l.pos++
				return out, nil
			}
			out = append(out, c)
			l.pos++
		default:
			out = append(out, c)
			l.pos++
		}
	}
	return nil, io.ErrUnexpectedEOF
}

func (l *lexer) parseHexString() (any, error) {
	l.pos++ // <
	var digits []byte
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if c == '>' {
			l.pos++
			if len(digits)%2 == 1 {
				digits = append(digits, '0')
			}
			out := make([]byte, len(digits)/2)
			if _, err := hex.Decode(out, digits); err != nil {
				return nil, errBadToken
			}
			return out, nil
		}
		if isHexDigit(c) {
			digits = append(digits, c)
		} else if !isSpaceChar(c) {
			return nil, errBadToken
		}
		l.pos++
	}
	return nil, io.ErrUnexpectedEOF
}

// parseNumberOrRef reads a number, then looks ahead for the
// "gen R" tail that makes it an indirect reference.
func (l *lexer) parseNumberOrRef() (any, error) {
	num, err := l.parseNumber()
	if err != nil {
		return nil, err
	}
	n, ok := num.(int)
	if !ok || n < 0 {
		return num, nil
	}
	save := l.pos
	l.skipSpace()
	if gen, err := l.tryInt(); err == nil && gen >= 0 {
		l.skipSpace()
		if l.pos < len(l.data) && l.data[l.pos] == 'R' &&
			(l.pos+1 >= len(l.data) || isSpaceChar(l.data[l.pos+1]) || isDelimChar(l.data[l.pos+1])) {
			l.pos++
			return objRef{num: n, gen: gen}, nil
		}
	}
	l.pos = save
	return n, nil
}

func (l *lexer) parseNumber() (any, error) {
	start := l.pos
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		if (c >= '0' && c <= '9') || c == '+' || c == '-' || c == '.' {
			l.pos++
			continue
		}
		break
	}
	tok := string(l.data[start:l.pos])
	if tok == "" {
		return nil, errBadToken
	}
	if !strings.Contains(tok, ".") {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, errBadToken
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return nil, errBadToken
	}
	return f, nil
}

func (l *lexer) tryInt() (int, error) {
	start := l.pos
	num, err := l.parseNumber()
	if err != nil {
		l.pos = start
		return 0, err
	}
	n, ok := num.(int)
	if !ok {
		l.pos = start
		return 0, errBadToken
	}
	return n, nil
}

func (l *lexer) parseKeyword() (any, error) {
	start := l.pos
	for l.pos < len(l.data) && !isSpaceChar(l.data[l.pos]) && !isDelimChar(l.data[l.pos]) {
		l.pos++
	}
	if l.pos == start {
		l.pos++ // stray delimiter such as { or }
		return nil, errBadToken
	}
	switch kw := string(l.data[start:l.pos]); kw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	default:
		return keyword(kw), nil
	}
}

// readStreamData returns the raw bytes between the stream keyword and
// endstream. A trustworthy /Length is used directly; otherwise the
// boundary is found by searching for the endstream keyword.
func (l *lexer) readStreamData(length int) []byte {
	if l.pos < len(l.data) && l.data[l.pos] == '\r' {
		l.pos++
	}
	if l.pos < len(l.data) && l.data[l.pos] == '\n' {
		l.pos++
	}
	start := l.pos

	if length >= 0 && start+length <= len(l.data) {
		tail := l.data[start+length:]
		trimmed := bytes.TrimLeft(tail, "\r\n")
		if bytes.HasPrefix(trimmed, []byte("endstream")) {
			l.pos = start + length + (len(tail) - len(trimmed)) + len("endstream")
			return l.data[start : start+length]
		}
	}

	idx := bytes.Index(l.data[start:], []byte("endstream"))
	if idx < 0 {
		l.pos = len(l.data)
		return nil
	}
	end := start + idx
	l.pos = end + len("endstream")
	return bytes.TrimRight(l.data[start:end], "\r\n")
}

// skipInlineImage advances past the binary payload of a BI ... ID ... EI
// inline image in a content stream.
func (l *lexer) skipInlineImage() {
	for i := l.pos; i+1 < len(l.data); i++ {
		if l.data[i] != 'E' || l.data[i+1] != 'I' {
			continue
		}
		before := i == 0 || isSpaceChar(l.data[i-1])
		after := i+2 >= len(l.data) || isSpaceChar(l.data[i+2]) || isDelimChar(l.data[i+2])
		if before && after {
			l.pos = i + 2
			return
		}
	}
	l.pos = len(l.data)
}
