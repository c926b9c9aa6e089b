package search

import (
	"sync"

	"github.com/blevesearch/bleve"
	"github.com/pkg/errors"

	"stadium/api/model"
)

// Doc is the searchable projection of a node. Only named nodes (gates, POIs,
// stairs) are indexed; seats and corridor points have generated names that
// nobody searches for.
type Doc struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Level int    `json:"level"`
}

type Hit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Index is an in-memory bleve index over node names. Rebuild swaps in a
// freshly built index, mirroring the grid's full-rebuild discipline.
type Index struct {
	mu  sync.RWMutex
	idx bleve.Index
}

func NewIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, errors.Wrap(err, "create search index")
	}
	return &Index{idx: idx}, nil
}

func indexable(n model.Node) bool {
	switch n.Type {
	case model.NodeTypeSeat, model.NodeTypeCorridor, model.NodeTypeRowAisle, model.NodeTypeNormal:
		return false
	}
	return true
}

// Rebuild replaces the index contents from a node snapshot.
func (s *Index) Rebuild(nodes []model.Node) error {
	fresh, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return errors.Wrap(err, "create search index")
	}

	batch := fresh.NewBatch()
	count := 0
	for _, n := range nodes {
		if !indexable(n) {
			continue
		}
		name := ""
		if n.Name != nil {
			name = *n.Name
		}
		if err := batch.Index(n.ID, Doc{Name: name, Type: n.Type, Level: n.Level}); err != nil {
			return errors.Wrapf(err, "index node %s", n.ID)
		}
		count++
		if count%500 == 0 {
			if err := fresh.Batch(batch); err != nil {
				return errors.Wrap(err, "flush search batch")
			}
			batch = fresh.NewBatch()
		}
	}
	if err := fresh.Batch(batch); err != nil {
		return errors.Wrap(err, "flush search batch")
	}

	s.mu.Lock()
	old := s.idx
	s.idx = fresh
	s.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return nil
}

// Upsert indexes or reindexes a single node after an incremental mutation.
// A node whose type became unindexable is removed instead, so a seat renamed
// from a gate does not linger in search results.
func (s *Index) Upsert(n model.Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !indexable(n) {
		return errors.Wrapf(s.idx.Delete(n.ID), "unindex node %s", n.ID)
	}
	name := ""
	if n.Name != nil {
		name = *n.Name
	}
	return errors.Wrapf(
		s.idx.Index(n.ID, Doc{Name: name, Type: n.Type, Level: n.Level}),
		"index node %s", n.ID)
}

// Delete removes one node from the index. Unknown ids are a no-op.
func (s *Index) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return errors.Wrapf(s.idx.Delete(id), "unindex node %s", id)
}

// Search runs a query-string search and returns matching node ids by score.
func (s *Index) Search(q string, limit int) ([]Hit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	req := bleve.NewSearchRequestOptions(bleve.NewQueryStringQuery(q), limit, 0, false)
	res, err := s.idx.Search(req)
	if err != nil {
		return nil, errors.Wrapf(err, "search %q", q)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, Hit{ID: h.ID, Score: h.Score})
	}
	return hits, nil
}
