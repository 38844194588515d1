package analysis

import (
	"path/filepath"
	"strings"
	"unicode"
)

var headingPrefixes = []string{"######", "#####", "####", "###", "##", "#"}

// ExtractOutline builds a section outline from text. Markdown headings are
// preferred; documents without any fall back to ALL-CAPS heading lines,
// which older corpus texts use.
func ExtractOutline(text string) []Section {
	lines := strings.Split(text, "\n")

	var sections []Section
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		for _, prefix := range headingPrefixes {
			if rest, ok := strings.CutPrefix(trimmed, prefix+" "); ok {
				sections = append(sections, Section{
					Title: strings.TrimSpace(rest),
					Level: len(prefix),
					Line:  i + 1,
				})
				break
			}
		}
	}
	if len(sections) > 0 {
		return sections
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isCapsHeading(trimmed) {
			sections = append(sections, Section{
				Title: trimmed,
				Level: 1,
				Line:  i + 1,
			})
		}
	}

	return sections
}

// isCapsHeading reports whether a line looks like an ALL-CAPS section
// heading: short, mostly letters, and no lowercase.
func isCapsHeading(line string) bool {
	if len(line) < 4 || len(line) > 80 {
		return false
	}

	letters := 0
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			letters++
		}
	}

	return letters >= 3
}

// DeriveTitle picks a document title: the first heading when the outline
// has one, otherwise the file name stem.
func DeriveTitle(fileName string, sections []Section) string {
	if len(sections) > 0 {
		return sections[0].Title
	}

	base := filepath.Base(fileName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// CountWords returns the number of whitespace-separated tokens in text.
func CountWords(text string) int {
	return len(strings.Fields(text))
}
