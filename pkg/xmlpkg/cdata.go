package xmlpkg

import "strings"

// cdata wraps s in one or more CDATA sections, splitting across adjacent
// sections wherever the literal sequence "]]>" would otherwise terminate
// the section early.
func cdata(s string) string {
	const closer = "]]>"
	if !strings.Contains(s, closer) {
		return "<![CDATA[" + s + "]]>"
	}

	var b strings.Builder
	remaining := s
	for {
		idx := strings.Index(remaining, closer)
		if idx == -1 {
			b.WriteString("<![CDATA[")
			b.WriteString(remaining)
			b.WriteString("]]>")
			break
		}
		// Split right after "]]" so the closing ">" starts the next
		// section, breaking up the forbidden "]]>" sequence.
		b.WriteString("<![CDATA[")
		b.WriteString(remaining[:idx+2])
		b.WriteString("]]>")
		remaining = remaining[idx+2:]
	}
	return b.String()
}
