package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medichat/internal/domain"
)

func TestSplitText_SizeBound(t *testing.T) {
	s := NewRecursiveSplitter(500, 20)
	text := strings.Repeat("lorem ipsum dolor sit amet consectetur adipiscing elit ", 100)

	chunks := s.SplitText(text)
	require.NotEmpty(t, chunks)
	for i, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 500, "chunk %d exceeds size bound", i)
	}
}

func TestSplitText_OverlapInvariant(t *testing.T) {
	s := NewRecursiveSplitter(10, 3)
	chunks := s.SplitText("aaaa bbbb cccc dddd")

	require.Equal(t, []string{"aaaa bbbb ", "bb cccc ", "cc dddd"}, chunks)
	for i := 0; i < len(chunks)-1; i++ {
		prev := []rune(chunks[i])
		next := []rune(chunks[i+1])
		assert.Equal(t, string(prev[len(prev)-3:]), string(next[:3]),
			"suffix of chunk %d must equal prefix of chunk %d", i, i+1)
	}
}

func TestSplitText_Deterministic(t *testing.T) {
	s := NewRecursiveSplitter(120, 15)
	text := strings.Repeat("one two three four five six seven eight nine ten ", 30)

	first := s.SplitText(text)
	second := s.SplitText(text)
	assert.Equal(t, first, second)
}

func TestSplitText_PrefersParagraphBreaks(t *testing.T) {
	p1 := strings.Repeat("a", 200)
	p2 := strings.Repeat("b", 200)
	p3 := strings.Repeat("c", 300)
	text := p1 + "\n\n" + p2 + "\n\n" + p3

	s := NewRecursiveSplitter(500, 20)
	chunks := s.SplitText(text)

	require.Len(t, chunks, 2)
	assert.True(t, strings.HasSuffix(chunks[0], "\n\n"), "first chunk should end at a paragraph break")
	assert.Contains(t, chunks[0], p1)
	assert.Contains(t, chunks[0], p2)
	assert.Contains(t, chunks[1], p3)
}

func TestSplitText_HardCutsLongToken(t *testing.T) {
	s := NewRecursiveSplitter(500, 20)
	chunks := s.SplitText(strings.Repeat("x", 1200))

	require.Len(t, chunks, 3)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 500)
	}
}

func TestSplitText_ShortAndEmptyInputs(t *testing.T) {
	s := NewRecursiveSplitter(500, 20)

	assert.Nil(t, s.SplitText(""))
	assert.Nil(t, s.SplitText("   \n\t "))
	assert.Equal(t, []string{"short text"}, s.SplitText("short text"))
}

func TestSplitText_TwoPageScenario(t *testing.T) {
	// A 1200-character page with size 500 and overlap 20 yields 3 chunks.
	page := strings.Repeat("word ", 240)
	require.Len(t, page, 1200)

	s := NewRecursiveSplitter(500, 20)
	chunks := s.SplitText(page)
	require.Len(t, chunks, 3)
	for i := 0; i < len(chunks)-1; i++ {
		prev := []rune(chunks[i])
		next := []rune(chunks[i+1])
		assert.Equal(t, string(prev[len(prev)-20:]), string(next[:20]))
	}
}

func TestSplitDocuments_InheritsMetadata(t *testing.T) {
	docs := []domain.Document{
		{
			Content:  strings.Repeat("alpha beta gamma delta ", 60),
			Metadata: map[string]string{domain.MetaSource: "data/a.pdf"},
		},
		{
			Content:  "tiny",
			Metadata: map[string]string{domain.MetaSource: "data/b.pdf"},
		},
	}

	s := NewRecursiveSplitter(500, 20)
	chunks := s.SplitDocuments(docs)

	require.Greater(t, len(chunks), 3)
	for _, c := range chunks {
		assert.NotEmpty(t, c.Source())
	}
	assert.Equal(t, "data/b.pdf", chunks[len(chunks)-1].Source())

	// Chunk metadata is a copy, not a shared map.
	chunks[0].Metadata[domain.MetaSource] = "changed"
	assert.Equal(t, "data/a.pdf", docs[0].Metadata[domain.MetaSource])
}
