package store

import "github.com/lawai/lawai-be/types"

// DocumentStore holds one domain's documents, keyed by id. It is built once
// during a load and never mutated afterwards, so concurrent reads need no
// locking.
type DocumentStore struct {
	docs map[string]types.Document
	ids  []string
}

func NewDocumentStore(docs []types.Document) *DocumentStore {
	s := &DocumentStore{
		docs: make(map[string]types.Document, len(docs)),
		ids:  make([]string, 0, len(docs)),
	}
	for _, doc := range docs {
		if _, ok := s.docs[doc.ID]; !ok {
			s.ids = append(s.ids, doc.ID)
		}
		s.docs[doc.ID] = doc
	}
	return s
}

func (s *DocumentStore) Get(id string) (types.Document, bool) {
	doc, ok := s.docs[id]
	return doc, ok
}

func (s *DocumentStore) Len() int {
	return len(s.ids)
}

// IDs returns the document ids in insertion order.
func (s *DocumentStore) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}
