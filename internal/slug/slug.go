// Package slug derives unique, URL-safe identifiers from post titles.
package slug

import (
	"fmt"
	"strings"
	"unicode"
)

// Fallback is used when a title normalizes to nothing, e.g. a title made
// entirely of punctuation.
const Fallback = "post"

// Make normalizes a title into a URL-safe base slug: lowercase, runs of
// non-alphanumeric characters collapsed to a single hyphen, leading and
// trailing hyphens trimmed.
func Make(title string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) && r < unicode.MaxASCII || unicode.IsDigit(r) && r < unicode.MaxASCII {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		} else {
			pendingSep = true
		}
	}
	if b.Len() == 0 {
		return Fallback
	}
	return b.String()
}

// Unique returns the first candidate derived from base that the exists
// probe reports as free: base itself, then base-1, base-2, and so on.
// The probe and the eventual write are not atomic; callers must treat a
// uniqueness-constraint failure at write time as a retryable collision.
func Unique(base string, exists func(candidate string) (bool, error)) (string, error) {
	candidate := base
	for i := 1; ; i++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
