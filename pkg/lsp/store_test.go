package lsp

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentStore_SetGetDelete(t *testing.T) {
	t.Parallel()

	store := NewDocumentStore()
	uri := "file:///src/app.ts"

	_, ok := store.Get(uri)
	assert.False(t, ok)

	store.Set(uri, Document{Text: "a", Version: 1})
	store.Set(uri, Document{Text: "b", Version: 2})

	doc, ok := store.Get(uri)
	assert.True(t, ok)
	assert.Equal(t, Document{Text: "b", Version: 2}, doc)
	assert.Equal(t, 1, store.Len())

	store.Delete(uri)

	_, ok = store.Get(uri)
	assert.False(t, ok)
	assert.Zero(t, store.Len())
}

func TestDocumentStore_Concurrent(t *testing.T) {
	t.Parallel()

	store := NewDocumentStore()

	var wg sync.WaitGroup

	for i := range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			uri := fmt.Sprintf("file:///f%d.ts", i)
			store.Set(uri, Document{Text: uri, Version: int32(i)})
			store.Get(uri)
		}()
	}

	wg.Wait()

	assert.Equal(t, 16, store.Len())
}
