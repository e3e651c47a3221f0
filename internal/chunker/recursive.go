package chunker

import (
	"strings"

	"medichat/internal/domain"
)

// defaultSeparators orders breakpoints from most to least natural:
// paragraph, line, word, then a hard character cut.
var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// RecursiveSplitter splits text along a priority list of separators,
// keeping chunks within a rune budget while preferring natural breakpoints.
// Consecutive chunks share an overlapping suffix/prefix of the configured
// length so retrieval keeps cross-boundary context.
type RecursiveSplitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

func NewRecursiveSplitter(chunkSize, chunkOverlap int) *RecursiveSplitter {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize - 1
	}
	return &RecursiveSplitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   defaultSeparators,
	}
}

// SplitDocuments splits each document into chunk documents. Every chunk
// inherits a copy of its parent's metadata.
func (s *RecursiveSplitter) SplitDocuments(docs []domain.Document) []domain.Document {
	var chunks []domain.Document
	for _, doc := range docs {
		for _, text := range s.SplitText(doc.Content) {
			meta := make(map[string]string, len(doc.Metadata))
			for k, v := range doc.Metadata {
				meta[k] = v
			}
			chunks = append(chunks, domain.Document{Content: text, Metadata: meta})
		}
	}
	return chunks
}

// SplitText splits raw text into chunks of at most chunkSize runes.
// The result is deterministic for a given input and configuration.
func (s *RecursiveSplitter) SplitText(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.merge(s.split(text, 0))
}

// split recursively breaks text into pieces no longer than chunkSize,
// drilling down the separator list only where a piece is still too long.
// Separators stay attached to the preceding piece so concatenating all
// pieces reconstructs the input exactly.
func (s *RecursiveSplitter) split(text string, depth int) []string {
	if runeLen(text) <= s.chunkSize {
		return []string{text}
	}
	sep := s.separators[depth]
	if sep == "" {
		return hardCut(text, s.chunkSize)
	}
	parts := strings.SplitAfter(text, sep)
	var pieces []string
	for _, part := range parts {
		if part == "" {
			continue
		}
		if runeLen(part) <= s.chunkSize {
			pieces = append(pieces, part)
			continue
		}
		pieces = append(pieces, s.split(part, depth+1)...)
	}
	return pieces
}

// merge greedily packs pieces into chunks, carrying the trailing overlap of
// each emitted chunk into the next one. The overlap is shortened when a
// large piece would otherwise push the next chunk over the size budget.
func (s *RecursiveSplitter) merge(pieces []string) []string {
	var chunks []string
	var cur []rune
	fresh := 0 // pieces added since the last emit
	for _, piece := range pieces {
		pr := []rune(piece)
		if len(cur) > 0 && len(cur)+len(pr) > s.chunkSize {
			if fresh > 0 {
				chunks = append(chunks, string(cur))
			}
			keep := s.chunkOverlap
			if keep+len(pr) > s.chunkSize {
				keep = s.chunkSize - len(pr)
			}
			if keep > len(cur) {
				keep = len(cur)
			}
			cur = append([]rune(nil), cur[len(cur)-keep:]...)
			fresh = 0
		}
		cur = append(cur, pr...)
		fresh++
	}
	if fresh > 0 && len(cur) > 0 {
		chunks = append(chunks, string(cur))
	}
	return chunks
}

func hardCut(text string, size int) []string {
	runes := []rune(text)
	var out []string
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
	}
	return out
}

func runeLen(s string) int { return len([]rune(s)) }
