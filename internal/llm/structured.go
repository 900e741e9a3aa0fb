package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaValidator checks a decoded value. Returning an error rejects it.
type SchemaValidator[T any] func(T) error

// ExtractJSON decodes the first JSON object found in raw model output into
// T. Markdown fences, surrounding prose, comments, trailing commas and
// numbers written as ".5" are tolerated. The error wraps ErrInvalidOutput.
func ExtractJSON[T any](raw string, validator SchemaValidator[T]) (T, error) {
	var zero T

	block := firstObject(unfence(raw))
	if block == "" {
		return zero, fmt.Errorf("%w: no JSON object found in response", ErrInvalidOutput)
	}

	var result T
	if err := json.Unmarshal([]byte(clean(block)), &result); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}
	if validator != nil {
		if err := validator(result); err != nil {
			return zero, fmt.Errorf("%w: validation failed: %v", ErrInvalidOutput, err)
		}
	}
	return result, nil
}

// unfence returns the body of the first ``` fence, or s unchanged when there
// is no complete fence.
func unfence(s string) string {
	open := strings.Index(s, "```")
	if open == -1 {
		return s
	}
	body := s[open+3:]
	if nl := strings.IndexByte(body, '\n'); nl != -1 {
		body = body[nl+1:] // drop the language tag line
	}
	end := strings.Index(body, "```")
	if end == -1 {
		return s
	}
	return body[:end]
}

// lexer walks JSON-ish text and tracks whether the cursor is inside a
// string literal.
type lexer struct {
	s        string
	i        int
	inString bool
	escaped  bool
}

// step advances one byte and reports whether that byte is structural, that
// is outside any string literal.
func (l *lexer) step() (byte, bool) {
	c := l.s[l.i]
	l.i++
	switch {
	case l.escaped:
		l.escaped = false
		return c, false
	case l.inString && c == '\\':
		l.escaped = true
		return c, false
	case c == '"':
		l.inString = !l.inString
		return c, false
	}
	return c, !l.inString
}

func (l *lexer) done() bool { return l.i >= len(l.s) }

// firstObject returns the first balanced {...} block in s.
func firstObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return ""
	}
	l := &lexer{s: s, i: start}
	depth := 0
	for !l.done() {
		c, structural := l.step()
		if !structural {
			continue
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start:l.i]
			}
		}
	}
	return ""
}

// clean rewrites the common ways models break JSON: // and /* */ comments,
// a comma before a closing bracket, and a missing zero before a decimal
// point.
func clean(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)

	l := &lexer{s: s}
	for !l.done() {
		at := l.i
		c, structural := l.step()
		if !structural {
			b.WriteByte(c)
			continue
		}
		switch {
		case c == '/' && at+1 < len(s) && s[at+1] == '/':
			for !l.done() && s[l.i] != '\n' {
				l.i++
			}
		case c == '/' && at+1 < len(s) && s[at+1] == '*':
			if end := strings.Index(s[at+2:], "*/"); end != -1 {
				l.i = at + 2 + end + 2
			} else {
				l.i = len(s)
			}
		case c == ',' && closesNext(s, l.i):
			// dropped
		case c == '.' && l.i < len(s) && isDigit(s[l.i]) && startsNumber(lastNonSpace(b.String())):
			b.WriteString("0.")
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// closesNext reports whether the next non-space byte from i closes an
// object or array.
func closesNext(s string, i int) bool {
	for ; i < len(s); i++ {
		switch s[i] {
		case ' ', '\n', '\r', '\t':
			continue
		case '}', ']':
			return true
		default:
			return false
		}
	}
	return false
}

func lastNonSpace(s string) byte {
	t := strings.TrimRight(s, " \n\r\t")
	if t == "" {
		return 0
	}
	return t[len(t)-1]
}

func startsNumber(prev byte) bool {
	switch prev {
	case 0, ':', ',', '[', '{', '-':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
