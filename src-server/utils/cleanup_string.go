package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tidies free text before it becomes an event title: strips spaces and
// trailing punctuation, title-cases the result.
func CleanupString(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".")
	s = cases.Title(language.English).String(s)
	return strings.TrimSpace(s)
}
