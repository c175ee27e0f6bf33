// Package memory provides an in-process docstore backend for tests and local
// development.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/orlogbook/orlog-api/internal/docstore"
)

type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]docstore.Document
}

func NewStore() *Store {
	return &Store{collections: make(map[string]map[string]docstore.Document)}
}

func (s *Store) Collection(name string) docstore.Collection {
	return &collection{store: s, name: name}
}

// docs returns the collection's documents, nil when nothing has been stored
// yet. Callers hold mu; only ensureDocs may materialize the map, so reads
// under RLock never write.
func (s *Store) docs(name string) map[string]docstore.Document {
	return s.collections[name]
}

func (s *Store) ensureDocs(name string) map[string]docstore.Document {
	docs := s.collections[name]
	if docs == nil {
		docs = make(map[string]docstore.Document)
		s.collections[name] = docs
	}
	return docs
}

type collection struct {
	store *Store
	name  string
}

func (c *collection) Add(_ context.Context, doc docstore.Document) (string, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	id := uuid.New().String()
	c.store.ensureDocs(c.name)[id] = clone(doc)
	return id, nil
}

func (c *collection) Get(_ context.Context, id string) (*docstore.Snapshot, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	doc, ok := c.store.docs(c.name)[id]
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return &docstore.Snapshot{ID: id, Data: clone(doc)}, nil
}

func (c *collection) Update(_ context.Context, id string, fields docstore.Document) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	doc, ok := c.store.docs(c.name)[id]
	if !ok {
		return docstore.ErrNotFound
	}
	for k, v := range clone(fields) {
		doc[k] = v
	}
	return nil
}

func (c *collection) Delete(_ context.Context, id string) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	delete(c.store.docs(c.name), id)
	return nil
}

func (c *collection) Find(_ context.Context, q *docstore.Query) ([]*docstore.Snapshot, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	var matches []*docstore.Snapshot
	for id, doc := range c.store.docs(c.name) {
		if matchesAll(doc, q.Predicates) {
			matches = append(matches, &docstore.Snapshot{ID: id, Data: clone(doc)})
		}
	}

	sortSnapshots(matches, q.Orders)

	if q.Offset > 0 {
		if q.Offset >= len(matches) {
			return nil, nil
		}
		matches = matches[q.Offset:]
	}
	if q.Limit > 0 && len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}
	return matches, nil
}

func (c *collection) Count(_ context.Context, preds []docstore.Predicate) (int, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	n := 0
	for _, doc := range c.store.docs(c.name) {
		if matchesAll(doc, preds) {
			n++
		}
	}
	return n, nil
}

func matchesAll(doc docstore.Document, preds []docstore.Predicate) bool {
	for _, p := range preds {
		if !matches(doc, p) {
			return false
		}
	}
	return true
}

func matches(doc docstore.Document, p docstore.Predicate) bool {
	raw, ok := doc[p.Field]
	if !ok || raw == nil {
		return false
	}
	field, ok := raw.(string)
	if !ok {
		return false
	}

	switch p.Op {
	case docstore.OpEqual:
		want, ok := p.Value.(string)
		return ok && field == want
	case docstore.OpGreaterOrEqual:
		want, ok := p.Value.(string)
		return ok && field >= want
	case docstore.OpLessOrEqual:
		want, ok := p.Value.(string)
		return ok && field <= want
	case docstore.OpLessThan:
		want, ok := p.Value.(string)
		return ok && field < want
	case docstore.OpIn:
		want, ok := p.Value.([]string)
		if !ok {
			return false
		}
		for _, w := range want {
			if field == w {
				return true
			}
		}
	}
	return false
}

func sortSnapshots(snaps []*docstore.Snapshot, orders []docstore.Order) {
	if len(orders) == 0 {
		return
	}
	sort.SliceStable(snaps, func(i, j int) bool {
		for _, o := range orders {
			a, _ := snaps[i].Data[o.Field].(string)
			b, _ := snaps[j].Data[o.Field].(string)
			if a == b {
				continue
			}
			if o.Desc {
				return a > b
			}
			return a < b
		}
		return false
	})
}

func clone(doc docstore.Document) docstore.Document {
	out := make(docstore.Document, len(doc))
	for k, v := range doc {
		if ss, ok := v.([]string); ok {
			v = append([]string(nil), ss...)
		}
		out[k] = v
	}
	return out
}
