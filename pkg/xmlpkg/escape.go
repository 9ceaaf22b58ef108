// Package xmlpkg is the hand-written, deterministic XML serializer for a
// finished Context Package. encoding/xml's Marshal cannot
// produce the exact CDATA-splitting and ampersand-first escaping order
// this format requires, so this package writes the markup directly.
package xmlpkg

import "strings"

// escape applies the five standard XML entity substitutions, in exactly
// that order (ampersand first, so the entities produced by the later
// substitutions are not escaped again), and drops control characters below code point 32 except
// tab, LF, and CR.
func escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#39;")
		default:
			if r < 32 && r != 9 && r != 10 && r != 13 {
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}
