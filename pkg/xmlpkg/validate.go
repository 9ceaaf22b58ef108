package xmlpkg

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationResult is validateXML's return shape.
type ValidationResult struct {
	IsValid bool
	Errors []string
}

var declarationRE = regexp.MustCompile(`^<\?xml\s+version="1\.0"\s+encoding="UTF-8"\?>`)
var tagRE = regexp.MustCompile(`<(/?)([a-zA-Z_][\w:.-]*)([^>]*)>`)

// Validate checks (a) presence of the XML declaration and (b) that every
// opening tag has a matching closing tag in a properly-nested order,
// streaming through the text with a tag stack.
func Validate(s string) ValidationResult {
	var errs []string

	if !declarationRE.MatchString(strings.TrimLeft(s, "\xef\xbb\xbf \t\r\n")) {
		errs = append(errs, "missing or malformed XML declaration")
	}

	var stack []string
	inCDATA := false
	remaining := s
	offset := 0

	for {
		if inCDATA {
			idx := strings.Index(remaining, "]]>")
			if idx == -1 {
				errs = append(errs, "unterminated CDATA section")
				break
			}
			remaining = remaining[idx+3:]
			offset += idx + 3
			inCDATA = false
			continue
		}

		cdataIdx := strings.Index(remaining, "<![CDATA[")
		loc := tagRE.FindStringSubmatchIndex(remaining)
		if loc == nil && cdataIdx == -1 {
			break
		}
		if cdataIdx != -1 && (loc == nil || cdataIdx < loc[0]) {
			remaining = remaining[cdataIdx+len("<![CDATA["):]
			inCDATA = true
			continue
		}

		closing := remaining[loc[2]:loc[3]] == "/"
		name := remaining[loc[4]:loc[5]]
		attrs := remaining[loc[6]:loc[7]]
		selfClosing := strings.HasSuffix(strings.TrimSpace(attrs), "/")

		switch {
		case closing:
			if len(stack) == 0 || stack[len(stack)-1] != name {
				errs = append(errs, fmt.Sprintf("mismatched closing tag </%s>", name))
			} else {
				stack = stack[:len(stack)-1]
			}
		case !selfClosing:
			stack = append(stack, name)
		}
		remaining = remaining[loc[1]:]
	}

	if len(stack) > 0 {
		errs = append(errs, fmt.Sprintf("unclosed tags: %s", strings.Join(stack, ", ")))
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}
