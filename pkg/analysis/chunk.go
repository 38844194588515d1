package analysis

import "strings"

const (
	// DefaultChunkSize is the chunk width in runes.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is the rune overlap carried between chunks.
	DefaultChunkOverlap = 100
)

// ChunkText splits text into overlapping chunks of size runes. Each chunk is
// trimmed; empty chunks are dropped. overlap must be smaller than size or
// the default overlap is used.
func ChunkText(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
	}

	runes := []rune(text)

	var chunks []string
	for start := 0; start < len(runes); start += size - overlap {
		end := min(start+size, len(runes))
		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
	}

	return chunks
}

// BuildChunks wraps ChunkText output into Chunk records for a thinker and
// source file, using the default size and overlap.
func BuildChunks(thinker, sourceFile, text string) []Chunk {
	pieces := ChunkText(text, DefaultChunkSize, DefaultChunkOverlap)

	chunks := make([]Chunk, 0, len(pieces))
	for i, piece := range pieces {
		chunks = append(chunks, Chunk{
			Thinker:    thinker,
			SourceFile: sourceFile,
			Text:       piece,
			Index:      i,
		})
	}

	return chunks
}
