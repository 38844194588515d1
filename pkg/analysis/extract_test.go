package analysis_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thinkhaus/corpus/pkg/analysis"
)

var _ = Describe("ChunkText", func() {
	It("returns a single chunk for short text", func() {
		chunks := analysis.ChunkText("short text", 1000, 100)
		Expect(chunks).To(Equal([]string{"short text"}))
	})

	It("overlaps consecutive chunks", func() {
		text := strings.Repeat("a", 15)
		chunks := analysis.ChunkText(text, 10, 5)
		Expect(chunks).To(HaveLen(2))
		Expect(chunks[0]).To(HaveLen(10))
		// Second chunk starts 5 runes back from the first chunk's end.
		Expect(chunks[1]).To(HaveLen(10))
	})

	It("drops whitespace-only chunks", func() {
		Expect(analysis.ChunkText("    ", 10, 2)).To(BeEmpty())
	})

	It("counts runes rather than bytes", func() {
		text := strings.Repeat("ü", 8)
		chunks := analysis.ChunkText(text, 4, 1)
		Expect(chunks).NotTo(BeEmpty())
		Expect([]rune(chunks[0])).To(HaveLen(4))
		for _, c := range chunks {
			Expect(len([]rune(c))).To(BeNumerically("<=", 4))
		}
	})
})

var _ = Describe("ExtractPipeDelimited", func() {
	It("parses thinker, content, and topic columns", func() {
		entries := analysis.ExtractPipeDelimited(
			"freud | The unconscious speaks in symptoms. | psychoanalysis\n" +
				"freud | Dreams are wish fulfillments.\n")
		Expect(entries).To(HaveLen(2))
		Expect(entries[0].Thinker).To(Equal("freud"))
		Expect(entries[0].Topic).To(Equal("psychoanalysis"))
		Expect(entries[1].Topic).To(BeEmpty())
	})

	It("skips lines without a pipe separator", func() {
		entries := analysis.ExtractPipeDelimited("just prose\n\nanother line\n")
		Expect(entries).To(BeEmpty())
	})

	It("keeps an empty leading thinker column empty", func() {
		entries := analysis.ExtractPipeDelimited(" | a stance without a name | ethics\n")
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Thinker).To(BeEmpty())
		Expect(entries[0].Content).To(Equal("a stance without a name"))
		Expect(entries[0].Topic).To(Equal("ethics"))
	})

	It("rejects rows whose thinker column is not a bare name", func() {
		entries := analysis.ExtractPipeDelimited("*Source: dreams | Importance: 9/10*\n")
		Expect(entries).To(BeEmpty())
	})
})

var _ = Describe("ExtractPositions", func() {
	It("prefers pipe-delimited entries and lowercases thinkers", func() {
		positions := analysis.ExtractPositions(
			"Freud | Repression shapes the psyche. | repression\n", "kuczynski")
		Expect(positions).To(HaveLen(1))
		Expect(positions[0].Thinker).To(Equal("freud"))
		Expect(positions[0].Topic).To(Equal("repression"))
	})

	It("fills empty thinker columns from the fallback", func() {
		positions := analysis.ExtractPositions(" | A stance without a name. | ethics\n", "freud")
		Expect(positions).To(HaveLen(1))
		Expect(positions[0].Thinker).To(Equal("freud"))
	})

	It("falls back to stance-marker sentences in prose", func() {
		positions := analysis.ExtractPositions(
			"The weather was mild. I argue that dreams encode desire. Nothing else happened.",
			"freud")
		Expect(positions).To(HaveLen(1))
		Expect(positions[0].Text).To(ContainSubstring("dreams encode desire"))
		Expect(positions[0].Thinker).To(Equal("freud"))
	})
})

var _ = Describe("ExtractArguments", func() {
	const block = `### Argument 1 (deductive)
**Author:** Freud
**Premises:**
- All dreams have manifest content
- Manifest content disguises latent content
**→ Conclusion:** Dream interpretation requires decoding
*Source: dreams | Importance: 8/10*
`

	It("parses a complete argument block", func() {
		args := analysis.ExtractArguments(block, "other")
		Expect(args).To(HaveLen(1))
		Expect(args[0].Thinker).To(Equal("freud"))
		Expect(args[0].Type).To(Equal("deductive"))
		Expect(args[0].Premises).To(HaveLen(2))
		Expect(args[0].Conclusion).To(Equal("Dream interpretation requires decoding"))
		Expect(args[0].Topic).To(Equal("dreams"))
		Expect(args[0].Importance).To(Equal(8))
	})

	It("uses the fallback thinker when no author annotation exists", func() {
		text := "### Argument 1 (inductive)\n**Premises:**\n- p1\n**→ Conclusion:** c1\n"
		args := analysis.ExtractArguments(text, "kuczynski")
		Expect(args).To(HaveLen(1))
		Expect(args[0].Thinker).To(Equal("kuczynski"))
		Expect(args[0].Importance).To(Equal(5))
	})

	It("discards blocks without premises or conclusion", func() {
		text := "### Argument 1 (deductive)\n**Premises:**\n**→ Conclusion:** alone\n" +
			"### Argument 2 (deductive)\n**Premises:**\n- p1\n"
		Expect(analysis.ExtractArguments(text, "x")).To(BeEmpty())
	})

	It("returns nil for prose without argument headers", func() {
		Expect(analysis.ExtractArguments("no structure here", "x")).To(BeNil())
	})

	It("parses multiple blocks in order", func() {
		text := block + "\n### Argument 2 (inductive)\n**Premises:**\n- repeated observation\n**→ Conclusion:** a habit of mind\n"
		args := analysis.ExtractArguments(text, "freud")
		Expect(args).To(HaveLen(2))
		Expect(args[1].Type).To(Equal("inductive"))
	})
})

var _ = Describe("ExtractOutline", func() {
	It("extracts markdown headings with levels and line numbers", func() {
		text := "# Title\n\nprose\n\n## First Part\nmore prose\n### Detail\n"
		sections := analysis.ExtractOutline(text)
		Expect(sections).To(HaveLen(3))
		Expect(sections[0]).To(Equal(analysis.Section{Title: "Title", Level: 1, Line: 1}))
		Expect(sections[1].Level).To(Equal(2))
		Expect(sections[2].Line).To(Equal(7))
	})

	It("falls back to ALL-CAPS headings", func() {
		text := "INTRODUCTION\n\nSome prose here.\n\nTHE DREAM WORK\n\nMore prose.\n"
		sections := analysis.ExtractOutline(text)
		Expect(sections).To(HaveLen(2))
		Expect(sections[0].Title).To(Equal("INTRODUCTION"))
		Expect(sections[1].Title).To(Equal("THE DREAM WORK"))
	})

	It("returns nothing for unstructured prose", func() {
		Expect(analysis.ExtractOutline("plain lowercase prose only.\n")).To(BeEmpty())
	})
})

var _ = Describe("DeriveTitle", func() {
	It("uses the first section title when available", func() {
		title := analysis.DeriveTitle("upload.txt", []analysis.Section{{Title: "On Dreams"}})
		Expect(title).To(Equal("On Dreams"))
	})

	It("falls back to the file name stem", func() {
		Expect(analysis.DeriveTitle("CORE_FREUD_3.txt", nil)).To(Equal("CORE_FREUD_3"))
	})
})

var _ = Describe("DetectTrends", func() {
	It("ranks recurring terms and skips stopwords", func() {
		text := strings.Repeat("the unconscious governs desire. ", 4) +
			strings.Repeat("repression ", 3)
		trends := analysis.DetectTrends(text, "Freud")
		Expect(trends).NotTo(BeEmpty())
		// Equal counts break ties alphabetically.
		Expect(trends[0].Theme).To(Equal("desire"))
		Expect(trends[0].Mentions).To(Equal(4))
		Expect(trends[0].Thinker).To(Equal("freud"))

		themes := make([]string, 0, len(trends))
		for _, t := range trends {
			themes = append(themes, t.Theme)
		}
		Expect(themes).To(ContainElement("unconscious"))
		Expect(themes).NotTo(ContainElement("the"))
		Expect(themes).To(ContainElement("repression"))
	})

	It("ignores terms below the mention floor", func() {
		trends := analysis.DetectTrends("singular mention of melancholia", "freud")
		Expect(trends).To(BeEmpty())
	})
})

var _ = Describe("GenerateQAs", func() {
	It("builds questions from positions, arguments, and sections", func() {
		qas := analysis.GenerateQAs("freud", "On Dreams",
			[]analysis.Position{{Thinker: "freud", Text: "Dreams fulfill wishes.", Topic: "dreams"}},
			[]analysis.Argument{{Premises: []string{"p1"}, Conclusion: "c1"}},
			[]analysis.Section{{Title: "The Dream Work", Line: 12}},
		)
		Expect(qas).To(HaveLen(3))
		Expect(qas[0].Question).To(Equal("What is Freud's position on dreams?"))
		Expect(qas[0].Answer).To(Equal("Dreams fulfill wishes."))
		Expect(qas[1].Answer).To(Equal("c1"))
		Expect(qas[2].Answer).To(ContainSubstring("line 12"))
	})

	It("caps generation at fifty pairs", func() {
		positions := make([]analysis.Position, 80)
		for i := range positions {
			positions[i] = analysis.Position{Text: "p", Topic: "t"}
		}
		qas := analysis.GenerateQAs("freud", "T", positions, nil, nil)
		Expect(qas).To(HaveLen(50))
	})
})
