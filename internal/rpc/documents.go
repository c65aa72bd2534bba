package rpc

import (
	"context"
	"fmt"
	"sync"

	"github.com/alnah/go-slim2md"
)

// Document is an open text document.
type Document struct {
	URI        string
	LanguageID string
	Version    int
	Text       string
}

// DocumentStore manages open text documents.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open adds or replaces a document.
func (ds *DocumentStore) Open(item TextDocumentItem) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.docs[item.URI] = &Document{
		URI:        item.URI,
		LanguageID: item.LanguageID,
		Version:    item.Version,
		Text:       item.Text,
	}
}

// Update sets the text of an open document. Unknown URIs are ignored.
func (ds *DocumentStore) Update(uri string, version int, text string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	if doc, ok := ds.docs[uri]; ok {
		doc.Version = version
		doc.Text = text
	}
}

// Replace sets text and language of an open document and bumps its
// version. Returns false when the document is not open.
func (ds *DocumentStore) Replace(uri, text, languageID string) bool {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	doc, ok := ds.docs[uri]
	if !ok {
		return false
	}
	doc.Text = text
	doc.LanguageID = languageID
	doc.Version++
	return true
}

// Close removes a document.
func (ds *DocumentStore) Close(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	delete(ds.docs, uri)
}

// Get returns a copy of a document.
func (ds *DocumentStore) Get(uri string) (Document, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	if doc, ok := ds.docs[uri]; ok {
		return *doc, true
	}
	return Document{}, false
}

// Len returns the number of open documents.
func (ds *DocumentStore) Len() int {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return len(ds.docs)
}

// documentHost exposes one stored document as the active document.
type documentHost struct {
	store *DocumentStore
	uri   string
}

func (h documentHost) ActiveDocument(ctx context.Context) (slim2md.Document, error) {
	doc, ok := h.store.Get(h.uri)
	if !ok {
		return slim2md.Document{}, fmt.Errorf("%w: %s is not open", slim2md.ErrNoActiveDocument, h.uri)
	}
	return slim2md.Document{Text: doc.Text, FileName: uriToPath(doc.URI)}, nil
}

func (h documentHost) ReplaceDocument(ctx context.Context, text, languageID string) error {
	if !h.store.Replace(h.uri, text, languageID) {
		return fmt.Errorf("%w: %s was closed", slim2md.ErrNoActiveDocument, h.uri)
	}
	return nil
}
