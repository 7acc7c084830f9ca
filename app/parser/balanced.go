package parser

import "strings"

// extractBalancedSpan returns the substring of text starting at openIdx
// (which must point at '{') through the matching closing brace, with
// net nesting depth zero. The second return value is false when openIdx
// does not point at an opening brace or the text ends before the depth
// returns to zero; callers treat that as "nothing usable here" and keep
// scanning.
func extractBalancedSpan(text string, openIdx int) (string, bool) {
	if openIdx < 0 || openIdx >= len(text) || text[openIdx] != '{' {
		return "", false
	}

	depth := 0
	for j := openIdx; j < len(text); j++ {
		switch text[j] {
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth == 0 {
			return text[openIdx : j+1], true
		}
	}

	return "", false
}

// trimOuterBraces strips one enclosing brace pair from a balanced span,
// yielding the inner table text. Spans without an enclosing pair are
// returned trimmed but otherwise untouched.
func trimOuterBraces(span string) string {
	span = strings.TrimSpace(span)
	if len(span) >= 2 && span[0] == '{' && span[len(span)-1] == '}' {
		return span[1 : len(span)-1]
	}
	return span
}
