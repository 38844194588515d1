package analysis

import (
	"regexp"
	"strconv"
	"strings"
)

// defaultImportance applies when an argument block omits its importance
// annotation.
const defaultImportance = 5

var (
	argHeaderRe     = regexp.MustCompile(`###\s*Argument\s+\d+\s*\(([^)]+)\)`)
	argAuthorRe     = regexp.MustCompile(`\*\*Author:\*\*\s*(\w+)`)
	argPremisesRe   = regexp.MustCompile(`(?s)\*\*Premises:\*\*(.*?)(\*\*→|$)`)
	argPremiseLine  = regexp.MustCompile(`(?m)^-\s*(.+)$`)
	argConclusionRe = regexp.MustCompile(`(?s)\*\*→\s*Conclusion:\*\*\s*(.+?)(\n\n|\*Source|$)`)
	argSourceRe     = regexp.MustCompile(`\*Source:\s*([^|]+)`)
	argImportanceRe = regexp.MustCompile(`Importance:\s*(\d+)/10`)
)

// ExtractArguments parses markdown argument blocks of the form:
//
//	### Argument N (type)
//	**Author:** name
//	**Premises:**
//	- premise 1
//	- premise 2
//	**→ Conclusion:** conclusion text
//	*Source: topic | Importance: N/10*
//
// Blocks missing premises or a conclusion are discarded. fallbackThinker
// fills blocks without an Author annotation.
func ExtractArguments(text, fallbackThinker string) []Argument {
	headers := argHeaderRe.FindAllStringSubmatchIndex(text, -1)
	if len(headers) == 0 {
		return nil
	}

	var arguments []Argument
	for i, header := range headers {
		argType := strings.ToLower(strings.TrimSpace(text[header[2]:header[3]]))

		blockEnd := len(text)
		if i+1 < len(headers) {
			blockEnd = headers[i+1][0]
		}
		block := text[header[1]:blockEnd]

		thinker := fallbackThinker
		if m := argAuthorRe.FindStringSubmatch(block); m != nil {
			thinker = m[1]
		}

		var premises []string
		if m := argPremisesRe.FindStringSubmatch(block); m != nil {
			for _, line := range argPremiseLine.FindAllStringSubmatch(m[1], -1) {
				if p := strings.TrimSpace(line[1]); p != "" {
					premises = append(premises, p)
				}
			}
		}

		var conclusion string
		if m := argConclusionRe.FindStringSubmatch(block); m != nil {
			conclusion = strings.TrimSpace(m[1])
		}

		var topic string
		if m := argSourceRe.FindStringSubmatch(block); m != nil {
			topic = strings.TrimSpace(m[1])
		}

		importance := defaultImportance
		if m := argImportanceRe.FindStringSubmatch(block); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				importance = v
			}
		}

		if len(premises) == 0 || conclusion == "" {
			continue
		}

		arguments = append(arguments, Argument{
			Thinker:    strings.ToLower(thinker),
			Type:       argType,
			Premises:   premises,
			Conclusion: conclusion,
			Topic:      topic,
			Importance: importance,
		})
	}

	return arguments
}
