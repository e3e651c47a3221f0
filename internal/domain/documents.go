package domain

// Metadata keys attached to documents by the loader.
const (
	MetaSource     = "source"
	MetaPage       = "page"
	MetaTotalPages = "total_pages"
)

// Document is a unit of text moving through the ingestion pipeline.
// Pipeline stages produce new Documents rather than mutating in place.
type Document struct {
	Content  string
	Metadata map[string]string
}

// Source returns the originating file path, or "" if unknown.
func (d Document) Source() string { return d.Metadata[MetaSource] }

// ScoredChunk is a retrieved chunk with its similarity score,
// ordered most relevant first by the vector store.
type ScoredChunk struct {
	Document
	ID    string
	Score float32
}

// FilterToMinimal reduces each document's metadata to only the source path.
// A missing source becomes an empty value. Content is left untouched and
// the function is idempotent.
func FilterToMinimal(docs []Document) []Document {
	minimal := make([]Document, 0, len(docs))
	for _, doc := range docs {
		minimal = append(minimal, Document{
			Content:  doc.Content,
			Metadata: map[string]string{MetaSource: doc.Metadata[MetaSource]},
		})
	}
	return minimal
}
