package diagram

import (
	"errors"
	"strconv"
	"strings"
)

// escaped lists the runes Mermaid would otherwise interpret inside a label.
const escaped = "\"#[](){}<>|;\\`&\n\r\t"

// Quote wraps label in double quotes, replacing every special rune with its
// Mermaid entity code (#34; for a double quote). Labels are expected to be
// valid UTF-8, which roadmap.Parse guarantees; invalid bytes come out as
// U+FFFD, so Unquote(Quote(s)) == s only holds for valid input.
func Quote(label string) string {
	var b strings.Builder
	b.Grow(len(label) + 2)
	b.WriteByte('"')
	for _, r := range label {
		if strings.ContainsRune(escaped, r) {
			b.WriteByte('#')
			b.WriteString(strconv.Itoa(int(r)))
			b.WriteByte(';')
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

var errUnquote = errors.New("diagram: malformed quoted label")

// Unquote reverses Quote, decoding numeric entity codes.
func Unquote(quoted string) (string, error) {
	if len(quoted) < 2 || quoted[0] != '"' || quoted[len(quoted)-1] != '"' {
		return "", errUnquote
	}
	s := quoted[1 : len(quoted)-1]
	var b strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '#' {
			b.WriteByte(s[i])
			i++
			continue
		}
		end := strings.IndexByte(s[i:], ';')
		if end < 2 {
			return "", errUnquote
		}
		code, err := strconv.Atoi(s[i+1 : i+end])
		if err != nil || code < 0 {
			return "", errUnquote
		}
		b.WriteRune(rune(code))
		i += end + 1
	}
	return b.String(), nil
}
