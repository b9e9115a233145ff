package jsmodule

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"
)

// unquote decodes a JavaScript string or template literal including its quotes.
func unquote(lit string) (string, error) {
	if len(lit) < 2 || lit[0] != lit[len(lit)-1] || !strings.ContainsRune(`'"`+"`", rune(lit[0])) {
		return "", fmt.Errorf("malformed string literal %s", lit)
	}
	body := lit[1 : len(lit)-1]
	if !strings.Contains(body, `\`) {
		return body, nil
	}

	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("dangling escape in %s", lit)
		}
		if strings.HasPrefix(body[i:], "\u2028") || strings.HasPrefix(body[i:], "\u2029") {
			// line continuation over a separator rune
			i += len("\u2028") - 1
			continue
		}
		switch e := body[i]; e {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// line continuation
		case '\r':
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
		case 'x':
			r, err := hexRune(body, i+1, 2)
			if err != nil {
				return "", fmt.Errorf("%s: %w", lit, err)
			}
			b.WriteRune(r)
			i += 2
		case 'u':
			if i+1 < len(body) && body[i+1] == '{' {
				end := strings.IndexByte(body[i+1:], '}')
				if end < 0 {
					return "", fmt.Errorf("unterminated code point escape in %s", lit)
				}
				r, err := hexRune(body, i+2, end-1)
				if err != nil {
					return "", fmt.Errorf("%s: %w", lit, err)
				}
				b.WriteRune(r)
				i += end + 1
				continue
			}
			r, err := hexRune(body, i+1, 4)
			if err != nil {
				return "", fmt.Errorf("%s: %w", lit, err)
			}
			i += 4
			// A high surrogate followed by an escaped low surrogate is one code point.
			if utf16.IsSurrogate(r) && strings.HasPrefix(body[i+1:], `\u`) {
				if low, err := hexRune(body, i+3, 4); err == nil {
					if pair := utf16.DecodeRune(r, low); pair != '\uFFFD' {
						r = pair
						i += 6
					}
				}
			}
			b.WriteRune(r)
		default:
			b.WriteByte(e)
		}
	}
	return b.String(), nil
}

func hexRune(s string, start, n int) (rune, error) {
	if n <= 0 || start+n > len(s) {
		return 0, fmt.Errorf("short hex escape")
	}
	v, err := strconv.ParseUint(s[start:start+n], 16, 32)
	if err != nil {
		return 0, fmt.Errorf("bad hex escape %q", s[start:start+n])
	}
	return rune(v), nil
}

// quote renders s as a single-quoted JavaScript string.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\x%02x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// isIdentifier reports whether s can be written as an unquoted property name.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
