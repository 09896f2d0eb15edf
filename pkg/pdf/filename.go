package pdf

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FileName returns "cv_<name>_<unix ms>_<8 hex>.pdf" with the name reduced to
// ASCII letters, digits, '-' and '_' (whitespace runs become '_'). The random
// suffix keeps names unique when folded names and timestamps coincide.
func FileName(name string, at time.Time) string {
	ascii, _, err := transform.String(stripMarks, name)
	if err != nil {
		ascii = name
	}

	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.TrimSpace(ascii) {
		switch {
		case unicode.IsSpace(r):
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_'):
			b.WriteRune(r)
		default:
			continue
		}
		lastUnderscore = false
	}

	base := b.String()
	if base == "" {
		base = "candidat"
	}
	return fmt.Sprintf("cv_%s_%d_%s.pdf", base, at.UnixMilli(), uuid.NewString()[:8])
}
