package pdf

import (
	"strconv"
)

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokString
	tokOperator
)

type token struct {
	kind tokenKind
	num  float64
	str  string
	op   string
}

// tokenizer scans a PDF content stream into numbers, string literals and
// operators. Names, dictionaries and array brackets are skipped: only the
// operands the position-tracking scanner needs survive.
type tokenizer struct {
	data []byte
	pos  int
}

func newTokenizer(data []byte) *tokenizer {
	return &tokenizer{data: data}
}

func (t *tokenizer) next() (token, bool) {
	for t.pos < len(t.data) {
		c := t.data[t.pos]
		switch {
		case isPDFWhitespace(c):
			t.pos++
		case c == '%':
			t.skipComment()
		case c == '(':
			s, n := decodeLiteralString(t.data[t.pos:])
			t.pos += n
			return token{kind: tokString, str: s}, true
		case c == '<':
			if t.pos+1 < len(t.data) && t.data[t.pos+1] == '<' {
				t.pos += 2 // dict open; contents fall through as tokens
			} else {
				s, n := decodeHexString(t.data[t.pos:])
				t.pos += n
				return token{kind: tokString, str: s}, true
			}
		case c == '>':
			t.pos++
		case c == '[' || c == ']' || c == '{' || c == '}':
			t.pos++
		case c == '/':
			t.skipName()
		case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
			num, n := t.scanNumber()
			t.pos += n
			return token{kind: tokNumber, num: num}, true
		default:
			op := t.scanOperator()
			if op != "" {
				return token{kind: tokOperator, op: op}, true
			}
			t.pos++
		}
	}
	return token{}, false
}

func (t *tokenizer) skipComment() {
	for t.pos < len(t.data) && t.data[t.pos] != '\n' && t.data[t.pos] != '\r' {
		t.pos++
	}
}

func (t *tokenizer) skipName() {
	t.pos++
	for t.pos < len(t.data) && !isPDFDelimiter(t.data[t.pos]) && !isPDFWhitespace(t.data[t.pos]) {
		t.pos++
	}
}

func (t *tokenizer) scanNumber() (float64, int) {
	end := t.pos
	for end < len(t.data) {
		c := t.data[end]
		if c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9') {
			end++
			continue
		}
		break
	}
	num, err := strconv.ParseFloat(string(t.data[t.pos:end]), 64)
	if err != nil {
		num = 0
	}
	return num, end - t.pos
}

func (t *tokenizer) scanOperator() string {
	end := t.pos
	for end < len(t.data) && !isPDFDelimiter(t.data[end]) && !isPDFWhitespace(t.data[end]) {
		end++
	}
	op := string(t.data[t.pos:end])
	t.pos = end
	return op
}

// decodeLiteralString decodes a parenthesized PDF string starting at data[0],
// honoring backslash escapes and balanced nested parens. It returns the
// decoded text and the number of bytes consumed including both delimiters.
func decodeLiteralString(data []byte) (string, int) {
	if len(data) == 0 || data[0] != '(' {
		return "", 0
	}
	var out []byte
	depth := 1
	i := 1
	for i < len(data) {
		c := data[i]
		switch c {
		case '\\':
			if i+1 >= len(data) {
				i++
				break
			}
			i++
			switch e := data[i]; e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '(', ')', '\\':
				out = append(out, e)
			case '\n':
				// line continuation
			case '\r':
				if i+1 < len(data) && data[i+1] == '\n' {
					i++
				}
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for k := 0; k < 2 && i+1 < len(data) && data[i+1] >= '0' && data[i+1] <= '7'; k++ {
						i++
						val = val*8 + int(data[i]-'0')
					}
					out = append(out, byte(val))
				} else {
					out = append(out, e)
				}
			}
			i++
		case '(':
			depth++
			out = append(out, c)
			i++
		case ')':
			depth--
			if depth == 0 {
				return string(out), i + 1
			}
			out = append(out, c)
			i++
		default:
			out = append(out, c)
			i++
		}
	}
	return string(out), len(data)
}

// decodeHexString decodes <...> hex strings. Odd final digits are padded with
// zero per the PDF spec.
func decodeHexString(data []byte) (string, int) {
	if len(data) == 0 || data[0] != '<' {
		return "", 0
	}
	var digits []byte
	i := 1
	for i < len(data) && data[i] != '>' {
		c := data[i]
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') {
			digits = append(digits, c)
		}
		i++
	}
	if i < len(data) {
		i++ // consume '>'
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, 0, len(digits)/2)
	for j := 0; j+1 < len(digits); j += 2 {
		hi := hexVal(digits[j])
		lo := hexVal(digits[j+1])
		out = append(out, byte(hi<<4|lo))
	}
	return string(out), i
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return 0
}

func isPDFWhitespace(c byte) bool {
	switch c {
	case 0x00, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isPDFDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}
