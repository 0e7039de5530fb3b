package document

import (
	"sync"

	"github.com/hatauchi-tech/Yoshimura-AI-ocr/internal/common"
)

// Store is the in-memory document list for the session. The list is
// replaced wholesale on every mutation (copy-on-write), so a slice handed
// out by List stays valid without synchronization. Documents live only for
// the process lifetime; there is no persistent store behind this.
type Store struct {
	mu   sync.RWMutex
	docs []*Document
}

func NewStore() *Store {
	return &Store{}
}

// Add appends documents in the order given.
func (s *Store) Add(docs ...*Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]*Document, 0, len(s.docs)+len(docs))
	next = append(next, s.docs...)
	next = append(next, docs...)
	s.docs = next
}

// List returns the current snapshot in insertion order.
func (s *Store) List() []*Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs
}

// Get returns the document with the given id.
func (s *Store) Get(id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.docs {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, common.ErrNotFound
}

// Update clones the target document, applies mutate to the clone, and swaps
// in a new list containing it. Readers holding the previous snapshot keep
// seeing the pre-mutation document.
func (s *Store) Update(id string, mutate func(*Document) error) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.docs {
		if d.ID != id {
			continue
		}
		cp := d.Clone()
		if err := mutate(cp); err != nil {
			return nil, err
		}
		cp.UpdatedAt = now()
		next := make([]*Document, len(s.docs))
		copy(next, s.docs)
		next[i] = cp
		s.docs = next
		return cp, nil
	}
	return nil, common.ErrNotFound
}
