package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/lawai/lawai-be/store"
	"github.com/lawai/lawai-be/types"
)

// fakeModel is a scripted LanguageModel. Generate answers through generateFn
// (or returns generateText when generateFn is nil); GenerateStream replays
// streamChunks and then returns streamErr.
type fakeModel struct {
	mu           sync.Mutex
	generateFn   func(system, user string) (string, error)
	generateText string
	streamChunks []string
	streamErr    error
	blockUntilCancel bool

	generateCalls int
	streamCalls   int
	lastSystem    string
	lastUser      string
}

func (m *fakeModel) Generate(ctx context.Context, system, user string) (string, error) {
	m.mu.Lock()
	m.generateCalls++
	m.lastSystem, m.lastUser = system, user
	m.mu.Unlock()
	if m.blockUntilCancel {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if m.generateFn != nil {
		return m.generateFn(system, user)
	}
	return m.generateText, nil
}

func (m *fakeModel) GenerateStream(ctx context.Context, system, user string, handler types.StreamHandler) error {
	m.mu.Lock()
	m.streamCalls++
	m.lastSystem, m.lastUser = system, user
	m.mu.Unlock()
	if m.blockUntilCancel {
		<-ctx.Done()
		return ctx.Err()
	}
	for _, chunk := range m.streamChunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		handler(chunk)
	}
	return m.streamErr
}

func (m *fakeModel) calls() (generate, stream int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generateCalls, m.streamCalls
}

// keywordEmbedder maps text to term counts over a fixed vocabulary. It is
// deterministic, and a query sharing no terms with a document embeds to an
// orthogonal (or zero) vector, which makes "nothing relevant in the corpus"
// reproducible.
type keywordEmbedder struct {
	vocab []string
	err   error

	mu       sync.Mutex
	embedded []string
}

func (e *keywordEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	e.mu.Lock()
	e.embedded = append(e.embedded, texts...)
	e.mu.Unlock()
	out := make([][]float32, len(texts))
	for i, text := range texts {
		lower := strings.ToLower(text)
		v := make([]float32, len(e.vocab))
		for j, term := range e.vocab {
			v[j] = float32(strings.Count(lower, term))
		}
		out[i] = v
	}
	return out, nil
}

func (e *keywordEmbedder) lastEmbedded() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.embedded) == 0 {
		return ""
	}
	return e.embedded[len(e.embedded)-1]
}

var legalVocab = []string{"420", "302", "73", "cheat", "murder", "contract", "breach"}

func newLegalEmbedder() *keywordEmbedder {
	return &keywordEmbedder{vocab: legalVocab}
}

var criminalDocs = []types.Document{
	{
		ID:   "ipc-420",
		Text: "Section 420. Whoever cheats and thereby dishonestly induces the person deceived to deliver any property shall be punished with imprisonment of either description for a term which may extend to seven years.",
		Metadata: map[string]string{
			types.MetaSection: "420",
			types.MetaTitle:   "Cheating and dishonestly inducing delivery of property",
			types.MetaLaw:     "IPC",
		},
	},
	{
		ID:   "ipc-302",
		Text: "Section 302. Whoever commits murder shall be punished with death, or imprisonment for life, and shall also be liable to fine.",
		Metadata: map[string]string{
			types.MetaSection: "302",
			types.MetaTitle:   "Punishment for murder",
			types.MetaLaw:     "IPC",
		},
	},
}

var civilDocs = []types.Document{
	{
		ID:   "ica-73",
		Text: "Section 73. When a contract has been broken, the party who suffers by such breach is entitled to receive compensation for any loss caused to him thereby.",
		Metadata: map[string]string{
			types.MetaSection: "73",
			types.MetaTitle:   "Compensation for loss caused by breach of contract",
			types.MetaLaw:     "Indian Contract Act",
		},
	},
}

// newTestRouter loads the given corpora into memory-backed domains using the
// keyword embedder, mirroring what the index build command produces.
func newTestRouter(embedder *keywordEmbedder, corpora map[string][]types.Document, aliases map[string][]string) (*store.Router, error) {
	r := store.NewRouter()
	for name, docs := range corpora {
		name, docs := name, docs
		err := r.Register(name, aliases[name], func() (*store.Domain, error) {
			idx := store.NewMemoryIndex(len(embedder.vocab))
			texts := make([]string, len(docs))
			for i, d := range docs {
				texts[i] = d.Text
			}
			vectors, err := embedder.Embed(context.Background(), texts)
			if err != nil {
				return nil, err
			}
			for i, d := range docs {
				if err := idx.Add(d.ID, vectors[i]); err != nil {
					return nil, err
				}
			}
			return &store.Domain{
				Name:  name,
				Index: idx,
				Docs:  store.NewDocumentStore(docs),
			}, nil
		})
		if err != nil {
			return nil, err
		}
	}
	if err := r.LoadAll(); err != nil {
		return nil, err
	}
	return r, nil
}

// stuckIndex blocks until the search context is done. Used to exercise the
// per-domain retrieval timeout.
type stuckIndex struct{}

func (stuckIndex) Search(ctx context.Context, query []float32, k int) ([]store.Match, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (stuckIndex) Add(id string, vector []float32) error { return nil }

func (stuckIndex) Len() int { return 1 }

func registerStuckDomain(r *store.Router, name string) error {
	if err := r.Register(name, nil, func() (*store.Domain, error) {
		return &store.Domain{
			Name:  name,
			Index: stuckIndex{},
			Docs:  store.NewDocumentStore(nil),
		}, nil
	}); err != nil {
		return err
	}
	return r.Reload(name)
}

const testTimeout = 50 * time.Millisecond
