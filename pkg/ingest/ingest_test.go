package ingest_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/thinkhaus/corpus/pkg/ingest"
	"github.com/thinkhaus/corpus/pkg/storage/inmemory"
)

const argumentsFixture = `### Argument 1 (deductive)
**Author:** kuczynski
**Premises:**
- All mental states are computational states
- Computational states are multiply realizable
**→ Conclusion:** Mental states are multiply realizable
*Source: philosophy of mind | Importance: 7/10*
`

func writeFile(dir, name, content string) string {
	path := filepath.Join(dir, name)
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	return path
}

var _ = Describe("FileTypeFor", func() {
	It("routes by the file name marker", func() {
		Expect(ingest.FileTypeFor("freud_positions_98.txt")).To(Equal(ingest.FileTypePositions))
		Expect(ingest.FileTypeFor("freud_quotes_8.txt")).To(Equal(ingest.FileTypeQuotes))
		Expect(ingest.FileTypeFor("kuczynski_works_1.txt")).To(Equal(ingest.FileTypeWorks))
		Expect(ingest.FileTypeFor("nietzsche_arguments_2.txt")).To(Equal(ingest.FileTypeArguments))
		Expect(ingest.FileTypeFor("freud_dream_theory.txt")).To(Equal(ingest.FileTypeChunks))
	})

	It("matches markers case-insensitively", func() {
		Expect(ingest.FileTypeFor("FREUD_POSITIONS_1.TXT")).To(Equal(ingest.FileTypePositions))
	})
})

var _ = Describe("ParseThinker", func() {
	It("lowercases the author prefix", func() {
		Expect(ingest.ParseThinker("FREUD_quotes_8.txt")).To(Equal("freud"))
	})

	It("rejects names without an underscore", func() {
		_, err := ingest.ParseThinker("notes.txt")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Ingestor", func() {
	var (
		dir      string
		store    *inmemory.Driver
		ingestor *ingest.Ingestor
		ctx      context.Context
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		store = inmemory.NewDriver()
		ingestor = ingest.NewIngestor(ingest.Config{Driver: store})
		ctx = context.Background()
	})

	It("ingests pipe-delimited positions with the filename thinker as fallback", func() {
		path := writeFile(dir, "freud_positions_1.txt",
			"freud | dreams are wish fulfillments | dreams\n"+
				" | repression shapes neurosis | repression\n")

		Expect(ingestor.IngestFile(ctx, path)).To(Succeed())

		positions := store.Positions()
		Expect(positions).To(HaveLen(2))
		Expect(positions[0].Thinker).To(Equal("freud"))
		Expect(positions[0].Topic).To(Equal("dreams"))
		Expect(positions[1].Thinker).To(Equal("freud"))
	})

	It("ingests quotes", func() {
		path := writeFile(dir, "nietzsche_quotes_3.txt",
			"nietzsche | god is dead | religion\n")

		Expect(ingestor.IngestFile(ctx, path)).To(Succeed())
		Expect(store.Quotes()).To(HaveLen(1))
		Expect(store.Quotes()[0].Text).To(Equal("god is dead"))
	})

	It("ingests markdown argument blocks", func() {
		path := writeFile(dir, "kuczynski_arguments_1.txt", argumentsFixture)

		Expect(ingestor.IngestFile(ctx, path)).To(Succeed())

		arguments := store.Arguments()
		Expect(arguments).To(HaveLen(1))
		Expect(arguments[0].Thinker).To(Equal("kuczynski"))
		Expect(arguments[0].Type).To(Equal("deductive"))
		Expect(arguments[0].Premises).To(HaveLen(2))
		Expect(arguments[0].Importance).To(Equal(7))
	})

	It("ingests works as documents with a title from the file name", func() {
		path := writeFile(dir, "kuczynski_works_1_empirical_psychology.txt",
			"A complete treatise on empirical psychology.")

		Expect(ingestor.IngestFile(ctx, path)).To(Succeed())

		docs, err := store.ListDocuments(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(HaveLen(1))
		Expect(docs[0].Thinker).To(Equal("kuczynski"))
		Expect(docs[0].Title).To(Equal("empirical psychology"))
		Expect(docs[0].WordCount).To(Equal(6))
	})

	It("chunks unrecognized files", func() {
		path := writeFile(dir, "freud_dream_theory.txt", "dream material for retrieval")

		Expect(ingestor.IngestFile(ctx, path)).To(Succeed())

		chunks := store.Chunks()
		Expect(chunks).NotTo(BeEmpty())
		Expect(chunks[0].Thinker).To(Equal("freud"))
		Expect(chunks[0].SourceFile).To(Equal("dream_theory"))
	})

	It("keeps files by default and removes them when configured", func() {
		keepPath := writeFile(dir, "freud_quotes_1.txt", "freud | a | b\n")
		Expect(ingestor.IngestFile(ctx, keepPath)).To(Succeed())
		Expect(keepPath).To(BeAnExistingFile())

		removing := ingest.NewIngestor(ingest.Config{Driver: store, RemoveAfterIngest: true})
		removePath := writeFile(dir, "freud_quotes_2.txt", "freud | c | d\n")
		Expect(removing.IngestFile(ctx, removePath)).To(Succeed())
		Expect(removePath).NotTo(BeAnExistingFile())
	})

	Describe("IngestFolder", func() {
		It("processes every routable file and skips the rest", func() {
			writeFile(dir, "freud_positions_1.txt", "freud | p | t\n")
			writeFile(dir, "nietzsche_quotes_1.txt", "nietzsche | q | t\n")
			writeFile(dir, "README", "not routable")

			count, err := ingestor.IngestFolder(ctx, dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(2))
			Expect(store.Positions()).To(HaveLen(1))
			Expect(store.Quotes()).To(HaveLen(1))
		})

		It("continues past files that fail", func() {
			writeFile(dir, "freud_quotes_1.txt", "freud | q | t\n")
			// A dangling symlink is listed but cannot be read.
			Expect(os.Symlink(
				filepath.Join(dir, "missing"),
				filepath.Join(dir, "broken_quotes_1.txt"),
			)).To(Succeed())

			count, err := ingestor.IngestFolder(ctx, dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(1))
		})
	})
})
