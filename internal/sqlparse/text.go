package sqlparse

import "strings"

// The helpers below treat parentheses and single-quoted strings as opaque:
// "top level" means depth zero and outside quotes. Double-quoted
// identifiers are deliberately not tracked.

func isWordByte(b byte) bool {
	return b == '_' || b == '.' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// splitTopLevel splits s on sep occurrences at top level.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth, inQuote, start := 0, false, 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
		case inQuote:
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// wordAt reports whether the keyword starts at i on word boundaries,
// case-insensitively.
func wordAt(s string, i int, word string) bool {
	if i+len(word) > len(s) {
		return false
	}
	if !strings.EqualFold(s[i:i+len(word)], word) {
		return false
	}
	if i > 0 && isWordByte(s[i-1]) {
		return false
	}
	end := i + len(word)
	return end == len(s) || !isWordByte(s[end])
}

// splitTopLevelWord splits s on top-level occurrences of a keyword.
func splitTopLevelWord(s, word string) []string {
	var parts []string
	depth, inQuote, start := 0, false, 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
		case inQuote:
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 && wordAt(s, i, word) {
				parts = append(parts, s[start:i])
				i += len(word) - 1
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// indexTopLevelWord returns the first top-level occurrence of word at or
// after from, or -1.
func indexTopLevelWord(s string, from int, word string) int {
	depth, inQuote := 0, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
		case inQuote:
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		default:
			if i >= from && depth == 0 && wordAt(s, i, word) {
				return i
			}
		}
	}
	return -1
}

// matchParen returns the index of the ')' closing the '(' at open, or -1.
func matchParen(s string, open int) int {
	if open >= len(s) || s[open] != '(' {
		return -1
	}
	depth, inQuote := 0, false
	for i := open; i < len(s); i++ {
		switch {
		case s[i] == '\'':
			inQuote = !inQuote
		case inQuote:
		case s[i] == '(':
			depth++
		case s[i] == ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitQualified cuts a column token at its last dot: "o.customer_id"
// yields ("o", "customer_id"), an unqualified token yields ("", token).
func splitQualified(token string) (qualifier, column string) {
	if i := strings.LastIndex(token, "."); i >= 0 {
		return token[:i], token[i+1:]
	}
	return "", token
}

// stripOuterParens removes fully enclosing parenthesis pairs.
func stripOuterParens(s string) string {
	s = strings.TrimSpace(s)
	for len(s) > 1 && s[0] == '(' && matchParen(s, 0) == len(s)-1 {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

// trimFields trims every element and drops empties.
func trimFields(parts []string) []string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
