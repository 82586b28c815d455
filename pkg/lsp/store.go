package lsp

import "sync"

// Document is an open text document.
type Document struct {
	Text    string
	Version int32
}

// DocumentStore is a thread-safe store for open documents keyed by URI.
type DocumentStore struct {
	documents map[string]Document
	mu        sync.RWMutex
}

// NewDocumentStore creates a new empty DocumentStore.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]Document),
	}
}

// Set stores the document for the given URI.
func (ds *DocumentStore) Set(uri string, doc Document) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	ds.documents[uri] = doc
}

// Get retrieves a document by URI.
func (ds *DocumentStore) Get(uri string) (Document, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	doc, ok := ds.documents[uri]

	return doc, ok
}

// Delete removes a document by URI.
func (ds *DocumentStore) Delete(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	delete(ds.documents, uri)
}

// Len returns the number of open documents.
func (ds *DocumentStore) Len() int {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	return len(ds.documents)
}
