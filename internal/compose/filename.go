package compose

import (
	"strings"
	"time"
)

// maxSafeRunes caps the topic portion of a filename.
const maxSafeRunes = 100

// SafeName replaces every rune outside [A-Za-z0-9_-] with an underscore.
func SafeName(s string) string {
	var b strings.Builder
	n := 0
	for _, r := range s {
		if n == maxSafeRunes {
			break
		}
		n++
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// Filename derives "<safe topic>_<exam>_notes_<YYYY-MM-DD>.<ext>". It is pure
// and accepts any topic, including an empty one.
func Filename(topic, exam string, date time.Time, ext string) string {
	exam = SafeName(exam)
	if exam == "" {
		exam = "JEE"
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "pdf"
	}
	return SafeName(topic) + "_" + exam + "_notes_" + date.Format("2006-01-02") + "." + SafeName(ext)
}
