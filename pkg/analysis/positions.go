package analysis

import (
	"regexp"
	"strings"
)

// PipeEntry is one pipe-delimited corpus line: "thinker | content | topic".
// The topic is optional.
type PipeEntry struct {
	Thinker string
	Content string
	Topic   string
}

// thinkerName matches a bare thinker column: letters with internal spaces,
// hyphens, apostrophes, or periods.
var thinkerName = regexp.MustCompile(`^\p{L}[\p{L} .'-]*$`)

// ExtractPipeDelimited parses pipe-delimited entries from text. Lines
// without a " | " separator are skipped, as are rows whose thinker column
// is neither empty nor a bare name (argument-block metadata lines carry
// markup in that column).
func ExtractPipeDelimited(text string) []PipeEntry {
	var entries []PipeEntry

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" || !strings.Contains(line, " | ") {
			continue
		}

		// An empty leading thinker column arrives as " | content", so
		// fields are trimmed after splitting, not before.
		parts := strings.Split(line, " | ")
		if len(parts) < 2 {
			continue
		}

		entry := PipeEntry{
			Thinker: strings.TrimSpace(parts[0]),
			Content: strings.TrimSpace(parts[1]),
		}
		if entry.Thinker != "" && !thinkerName.MatchString(entry.Thinker) {
			continue
		}
		if len(parts) >= 3 {
			entry.Topic = strings.TrimSpace(parts[2])
		}

		entries = append(entries, entry)
	}

	return entries
}

// positionMarkers flag sentences in running prose that assert a stance.
var positionMarkers = []string{
	"i argue",
	"i maintain",
	"i contend",
	"i hold that",
	"it follows that",
	"must be understood as",
	"is nothing other than",
	"the essence of",
}

// ExtractPositions finds positions in text. Pipe-delimited entries take
// precedence; when none are present, declarative sentences carrying a
// stance marker are collected instead. fallbackThinker fills entries whose
// thinker column is empty.
func ExtractPositions(text, fallbackThinker string) []Position {
	if entries := ExtractPipeDelimited(text); len(entries) > 0 {
		positions := make([]Position, 0, len(entries))
		for _, e := range entries {
			thinker := e.Thinker
			if thinker == "" {
				thinker = fallbackThinker
			}
			positions = append(positions, Position{
				Thinker: strings.ToLower(thinker),
				Text:    e.Content,
				Topic:   e.Topic,
			})
		}
		return positions
	}

	var positions []Position
	for _, sentence := range splitSentences(text) {
		lower := strings.ToLower(sentence)
		for _, marker := range positionMarkers {
			if strings.Contains(lower, marker) {
				positions = append(positions, Position{
					Thinker: strings.ToLower(fallbackThinker),
					Text:    sentence,
				})
				break
			}
		}
	}

	return positions
}

// ExtractQuotes parses pipe-delimited quote entries, filling the thinker
// column from fallbackThinker when absent.
func ExtractQuotes(text, fallbackThinker string) []Quote {
	entries := ExtractPipeDelimited(text)

	quotes := make([]Quote, 0, len(entries))
	for _, e := range entries {
		thinker := e.Thinker
		if thinker == "" {
			thinker = fallbackThinker
		}
		quotes = append(quotes, Quote{
			Thinker: strings.ToLower(thinker),
			Text:    e.Content,
			Topic:   e.Topic,
		})
	}

	return quotes
}

// splitSentences breaks prose into sentences on terminal punctuation.
// Deliberately simple: abbreviations will over-split, which only costs a
// few stray candidate sentences.
func splitSentences(text string) []string {
	var sentences []string
	var b strings.Builder

	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			sentences = append(sentences, s)
		}
		b.Reset()
	}

	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()

	return sentences
}
