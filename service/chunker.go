package service

import (
	"strings"
	"unicode/utf8"

	"github.com/tieubaoca/second-brain-be/types"
)

var DefaultChunkerConfig = types.ChunkerConfig{
	MaxChunkSize: 1000,
	OverlapSize:  100,
}

// separators tried when a single paragraph run exceeds the chunk size, in
// priority order. The raw offset cut is the last resort.
var chunkSeparators = []string{"\n", ". ", "? ", "! ", " "}

// Chunker splits raw document text into bounded segments that respect
// paragraph and sentence boundaries where possible.
type Chunker struct {
	maxChunkSize int
	overlapSize  int
}

// NewChunker creates a new chunker with configurable chunk sizes. The overlap
// size is accepted and stored but chunks are currently cut without overlap.
func NewChunker(config types.ChunkerConfig) *Chunker {
	if config.MaxChunkSize <= 0 {
		config.MaxChunkSize = DefaultChunkerConfig.MaxChunkSize
	}
	if config.OverlapSize < 0 {
		config.OverlapSize = DefaultChunkerConfig.OverlapSize
	}
	return &Chunker{
		maxChunkSize: config.MaxChunkSize,
		overlapSize:  config.OverlapSize,
	}
}

// Chunk splits text into an ordered sequence of non-empty chunks, each at most
// maxChunkSize characters unless an unbroken run of text forces a hard cut.
// Paragraphs are greedily accumulated; an oversized accumulation is carved at
// the latest separator inside the size window. Pure function, safe to call
// concurrently.
func (c *Chunker) Chunk(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var finalChunks []string
	parts := strings.Split(text, "\n\n")
	currentChunk := ""

	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}

		if len(currentChunk)+len(part) < c.maxChunkSize {
			currentChunk += part + "\n\n"
			continue
		}

		if currentChunk != "" {
			finalChunks = append(finalChunks, strings.TrimSpace(currentChunk))
		}
		currentChunk = part + "\n\n"

		// A single paragraph run can still exceed the limit. Carve prefixes
		// off the front until the remainder fits.
		for len(currentChunk) > c.maxChunkSize {
			splitIdx := -1
			for _, sep := range chunkSeparators {
				if idx := strings.LastIndex(currentChunk[:c.maxChunkSize], sep); idx != -1 {
					splitIdx = idx + len(sep)
					break
				}
			}
			if splitIdx == -1 {
				// No separator in the window, hard cut. May split a word but
				// never a rune.
				splitIdx = c.maxChunkSize
				for splitIdx > 0 && !utf8.RuneStart(currentChunk[splitIdx]) {
					splitIdx--
				}
				if splitIdx == 0 {
					splitIdx = c.maxChunkSize
				}
			}
			finalChunks = append(finalChunks, strings.TrimSpace(currentChunk[:splitIdx]))
			currentChunk = currentChunk[splitIdx:]
		}
	}

	if currentChunk != "" {
		finalChunks = append(finalChunks, strings.TrimSpace(currentChunk))
	}

	chunks := make([]string, 0, len(finalChunks))
	for _, chunk := range finalChunks {
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
	}
	if len(chunks) == 0 {
		return nil
	}
	return chunks
}
