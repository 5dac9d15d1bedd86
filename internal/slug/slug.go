package slug

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxBaseLen = 60

// Make builds a public URL key: the folded title, at most 60 characters,
// followed by a base36 timestamp so two events with the same title differ.
func Make(title string, now time.Time) string {
	base := Base(title)
	suffix := strconv.FormatInt(now.UnixMilli(), 36)
	if base == "" {
		return "event-" + suffix
	}
	return base + "-" + suffix
}

// Base lowercases, strips accents and keeps [a-z0-9-].
func Base(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case r == '-' || unicode.IsSpace(r):
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	s := b.String()
	if len(s) > maxBaseLen {
		s = s[:maxBaseLen]
	}
	return strings.Trim(s, "-")
}
