package chunker

import (
	"strconv"
	"strings"

	"incidentassist/internal/domain"
)

// WordChunker splits a document into fixed-size word windows with optional
// overlap. Solution guides are prose without reliable sentence punctuation, so
// word windows give more even chunks than sentence splitting.
type WordChunker struct {
	wordsPerChunk int
	overlapWords  int
}

func NewWordChunker(wordsPerChunk, overlapWords int) *WordChunker {
	if wordsPerChunk <= 0 {
		wordsPerChunk = 500
	}
	if overlapWords < 0 || overlapWords >= wordsPerChunk {
		overlapWords = 0
	}
	return &WordChunker{wordsPerChunk: wordsPerChunk, overlapWords: overlapWords}
}

func (c *WordChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	words := strings.Fields(document.Content)
	if len(words) == 0 {
		return nil, nil
	}
	var chunks []domain.Chunk
	idx := 0
	for start := 0; start < len(words); {
		end := start + c.wordsPerChunk
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, domain.Chunk{
			DocumentID: document.ID,
			ChunkID:    document.ID + ":" + strconv.Itoa(idx),
			Text:       strings.Join(words[start:end], " "),
			Index:      idx,
		})
		if end == len(words) {
			break
		}
		start = end - c.overlapWords
		idx++
	}
	return chunks, nil
}
