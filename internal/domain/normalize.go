package domain

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeGuess canonicalizes an identity guess before it is compared with
// a stored digest: NFKC, Unicode case folding, a leading '@' stripped and
// runs of whitespace compressed.
func NormalizeGuess(guess string) string {
	guess = norm.NFKC.String(strings.TrimSpace(guess))
	guess = strings.TrimPrefix(guess, "@")
	if guess == "" {
		return ""
	}
	return compressSpaces(cases.Fold().String(guess))
}

func compressSpaces(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\n' {
			if prevSpace {
				continue
			}
			prevSpace = true
			r = ' '
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
