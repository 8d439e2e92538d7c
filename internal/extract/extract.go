// Package extract normalizes raw model output into a single clean
// interview question.
package extract

import "strings"

// Question pulls one interrogative sentence out of generated text.
//
// The model is asked for a bare question but tends to wrap it in
// markdown emphasis, quotes, or a short preamble. We strip the markup,
// then take the first run of characters ending in one or more question
// marks. If the text contains no question mark at all, the first line
// is returned as-is.
func Question(raw string) string {
	if raw == "" {
		return ""
	}

	cleaned := strings.ReplaceAll(raw, "**", "")
	cleaned = trimSurroundingQuotes(cleaned)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return ""
	}

	if q := firstQuestionRun(cleaned); q != "" {
		return q
	}

	line, _, _ := strings.Cut(cleaned, "\n")
	return strings.TrimSpace(line)
}

// trimSurroundingQuotes removes one layer of leading/trailing quote
// characters.
func trimSurroundingQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 0 && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if len(s) > 0 && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		s = s[:len(s)-1]
	}
	return s
}

// firstQuestionRun returns the first span of text that ends in one or
// more '?' characters, with sentence terminators acting as boundaries.
// Mirrors the pattern [^.?!]*\?+ anchored at the first match.
func firstQuestionRun(s string) string {
	start := 0
	for i, r := range s {
		switch r {
		case '?':
			// Extend over consecutive question marks.
			end := i + 1
			for end < len(s) && s[end] == '?' {
				end++
			}
			return strings.TrimSpace(s[start:end])
		case '.', '!':
			start = i + 1
		}
	}
	return ""
}
