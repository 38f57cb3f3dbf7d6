// internal/catalog/catalog.go
package catalog

import (
	"sync"

	"github.com/user/datify/internal/api"
)

// Catalog is the append-only, ordered collection of uploaded documents for
// the lifetime of the session, plus an optional selection pointer. The
// selection is resolved by lookup; it is never denormalized onto the
// documents themselves.
type Catalog struct {
	mu       sync.RWMutex
	docs     []api.Document
	index    map[api.DocumentID]int
	selected api.DocumentID
	hasSel   bool
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{index: make(map[api.DocumentID]int)}
}

// Reset replaces the catalog contents with a freshly fetched document list
// and clears the selection. Used once at session start.
func (c *Catalog) Reset(docs []api.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.docs = make([]api.Document, len(docs))
	copy(c.docs, docs)
	c.index = make(map[api.DocumentID]int, len(docs))
	for i, doc := range c.docs {
		c.index[doc.ID] = i
	}
	c.hasSel = false
}

// Append adds a newly uploaded document. Appending never changes the
// selection.
func (c *Catalog) Append(doc api.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.index[doc.ID] = len(c.docs)
	c.docs = append(c.docs, doc)
}

// Select points the selection at the given document. If the id is unknown
// the selection becomes empty.
func (c *Catalog) Select(id api.DocumentID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.index[id]; !ok {
		c.hasSel = false
		return
	}
	c.selected = id
	c.hasSel = true
}

// Selected resolves the selection pointer to a document.
func (c *Catalog) Selected() (*api.Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.hasSel {
		return nil, false
	}
	i, ok := c.index[c.selected]
	if !ok {
		return nil, false
	}
	doc := c.docs[i]
	return &doc, true
}

// List returns the documents in upload order.
func (c *Catalog) List() []api.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]api.Document, len(c.docs))
	copy(out, c.docs)
	return out
}

// Len returns the number of documents.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}
