package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lawai/lawai-be/store"
	"github.com/lawai/lawai-be/types"
	"go.uber.org/zap"
)

// Retriever issues similarity searches against one or more domains and
// assembles a ranked, deduplicated context window. Multi-domain requests fan
// out concurrently; a domain that exceeds the per-domain timeout contributes
// zero results instead of blocking the request.
type Retriever struct {
	router   *store.Router
	embedder EmbeddingProvider
	topK     int
	timeout  time.Duration
	logger   *zap.SugaredLogger
}

func NewRetriever(router *store.Router, embedder EmbeddingProvider, topK int, timeout time.Duration, logger *zap.SugaredLogger) *Retriever {
	if topK <= 0 {
		topK = 5
	}
	return &Retriever{
		router:   router,
		embedder: embedder,
		topK:     topK,
		timeout:  timeout,
		logger:   logger,
	}
}

type domainResult struct {
	docs     []types.ScoredDocument
	timedOut bool
	err      error
}

// Retrieve returns the top-k context for a standalone query. Zero matches is
// a valid empty context, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query string, domainNames []string, k int) ([]types.ScoredDocument, error) {
	if k <= 0 {
		k = r.topK
	}

	// Resolve everything up front so an unknown domain fails the request
	// before any search runs. Aliases of the same domain collapse to one
	// search.
	resolved := make([]*store.Domain, 0, len(domainNames))
	seen := make(map[string]struct{})
	for _, name := range domainNames {
		domain, err := r.router.Resolve(name)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[domain.Name]; ok {
			continue
		}
		seen[domain.Name] = struct{}{}
		resolved = append(resolved, domain)
	}
	if len(resolved) == 0 {
		return nil, fmt.Errorf("%w: no domain requested", store.ErrUnknownDomain)
	}

	vectors, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	queryVector := vectors[0]

	results := make(chan domainResult, len(resolved))
	for _, domain := range resolved {
		go func(d *store.Domain) {
			results <- r.searchDomain(ctx, d, queryVector, k)
		}(domain)
	}

	var merged []types.ScoredDocument
	timedOut := 0
	for range resolved {
		res := <-results
		if res.err != nil {
			return nil, res.err
		}
		if res.timedOut {
			timedOut++
			continue
		}
		merged = append(merged, res.docs...)
	}
	if timedOut == len(resolved) {
		return nil, ErrRetrievalTimeout
	}

	return mergeRanked(merged, k), nil
}

func (r *Retriever) searchDomain(ctx context.Context, domain *store.Domain, query []float32, k int) domainResult {
	searchCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		searchCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	matches, err := domain.Index.Search(searchCtx, query, k)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			r.logger.Warnw("domain search timed out", "domain", domain.Name)
			return domainResult{timedOut: true}
		}
		return domainResult{err: fmt.Errorf("search in domain %q failed: %w", domain.Name, err)}
	}

	docs := make([]types.ScoredDocument, 0, len(matches))
	for _, m := range matches {
		doc, ok := domain.Docs.Get(m.ID)
		if !ok {
			// Index and store come from one snapshot; a miss here means
			// the snapshot itself is broken.
			return domainResult{err: fmt.Errorf("domain %q: document %q in index but not in store", domain.Name, m.ID)}
		}
		docs = append(docs, types.ScoredDocument{Document: doc, Score: m.Score})
	}
	return domainResult{docs: docs}
}

// mergeRanked orders by descending score (ties by id), drops duplicate
// document ids keeping the best score, and truncates to k. Hits with a
// non-positive score carry no similarity at all and are dropped rather than
// padded into the context.
func mergeRanked(docs []types.ScoredDocument, k int) []types.ScoredDocument {
	sort.Slice(docs, func(i, j int) bool {
		if docs[i].Score != docs[j].Score {
			return docs[i].Score > docs[j].Score
		}
		return docs[i].Document.ID < docs[j].Document.ID
	})
	out := make([]types.ScoredDocument, 0, k)
	seen := make(map[string]struct{})
	for _, d := range docs {
		if d.Score <= 0 {
			break
		}
		if _, ok := seen[d.Document.ID]; ok {
			continue
		}
		seen[d.Document.ID] = struct{}{}
		out = append(out, d)
		if len(out) == k {
			break
		}
	}
	return out
}
