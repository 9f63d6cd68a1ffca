package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify normalizes a display name into the lowercase, hyphen-separated
// form used to build thread URLs. Letters and digits of every script are
// kept. Accents on Latin letters are folded ("Café" -> "cafe"), while
// combining marks of other scripts stay with their letter. Any other run
// of characters collapses to a single hyphen. The result may be empty.
func Slugify(s string) string {
	folded, _, err := transform.String(norm.NFKD, strings.TrimSpace(s))
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	latinBase := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsMark(r):
			if b.Len() == 0 || pendingHyphen || latinBase {
				continue
			}
			b.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			latinBase = unicode.Is(unicode.Latin, r)
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return norm.NFC.String(b.String())
}

// TagKey is the identity of a tag name: trimmed, lowercased and NFC
// normalized, with inner whitespace runs collapsed to one space. Symbols
// are significant, so "C++" and "C#" are different tags.
func TagKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(norm.NFC.String(name))), " ")
}

// SameName reports whether two user-typed names refer to the same label
func SameName(a, b string) bool {
	return TagKey(a) == TagKey(b)
}
