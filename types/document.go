package types

// Document is one corpus record: a statute section or a contract clause.
// Documents are immutable once loaded; a reindex replaces them wholesale.
type Document struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

// Well-known metadata keys produced by the corpus extraction scripts.
const (
	MetaSection  = "section"
	MetaTitle    = "title"
	MetaLaw      = "law"
	MetaCategory = "category"
)

// ScoredDocument pairs a document with its similarity score. Higher means
// more similar.
type ScoredDocument struct {
	Document Document `json:"document"`
	Score    float32  `json:"score"`
}

// Source identifies a document cited by an answer.
type Source struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
}

const sourceExcerptLen = 200

// SourceFromDocument builds the citation entry for a retrieved document.
func SourceFromDocument(doc Document) Source {
	excerpt := doc.Text
	if len(excerpt) > sourceExcerptLen {
		excerpt = excerpt[:sourceExcerptLen] + "..."
	}
	return Source{
		ID:      doc.ID,
		Title:   doc.Metadata[MetaTitle],
		Excerpt: excerpt,
	}
}

// SourcesFromDocuments keeps the retrieval order.
func SourcesFromDocuments(docs []ScoredDocument) []Source {
	sources := make([]Source, 0, len(docs))
	for _, d := range docs {
		sources = append(sources, SourceFromDocument(d.Document))
	}
	return sources
}
