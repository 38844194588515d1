package analysis

import (
	"fmt"
	"strings"
)

// maxQAs caps generated question/answer pairs per document.
const maxQAs = 50

// GenerateQAs derives question/answer pairs from the structured material
// already extracted for a document: one per position, one per argument,
// and one per leading section. Generation stops at maxQAs.
func GenerateQAs(thinker, title string, positions []Position, arguments []Argument, sections []Section) []QA {
	display := displayName(thinker)

	var qas []QA
	add := func(qa QA) bool {
		if len(qas) >= maxQAs {
			return false
		}
		qas = append(qas, qa)
		return true
	}

	for _, pos := range positions {
		question := fmt.Sprintf("What does %s hold in %q?", display, title)
		if pos.Topic != "" {
			question = fmt.Sprintf("What is %s's position on %s?", display, pos.Topic)
		}
		if !add(QA{
			Thinker:  thinker,
			Question: question,
			Answer:   pos.Text,
			Topic:    pos.Topic,
		}) {
			return qas
		}
	}

	for _, arg := range arguments {
		question := fmt.Sprintf("What does %s conclude from: %s?", display, strings.Join(arg.Premises, "; "))
		if !add(QA{
			Thinker:  thinker,
			Question: question,
			Answer:   arg.Conclusion,
			Topic:    arg.Topic,
		}) {
			return qas
		}
	}

	for _, section := range sections {
		if !add(QA{
			Thinker:  thinker,
			Question: fmt.Sprintf("Where does %q discuss %s?", title, strings.ToLower(section.Title)),
			Answer:   fmt.Sprintf("Section %q (line %d).", section.Title, section.Line),
		}) {
			return qas
		}
	}

	return qas
}

// displayName capitalizes a lowercase thinker identifier for prose.
func displayName(thinker string) string {
	if thinker == "" {
		return "the author"
	}
	r := []rune(thinker)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
