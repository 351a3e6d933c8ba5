package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lawai/lawai-be/types"
)

// loaderFor builds a loader whose documents carry the given generation tag,
// so tests can tell which snapshot a resolved domain came from.
func loaderFor(name string, aliases []string, generation *int) DomainLoader {
	return func() (*Domain, error) {
		gen := 0
		if generation != nil {
			gen = *generation
		}
		id := fmt.Sprintf("%s-gen-%d", name, gen)
		idx := NewMemoryIndex(2)
		if err := idx.Add(id, []float32{1, 0}); err != nil {
			return nil, err
		}
		docs := NewDocumentStore([]types.Document{{ID: id, Text: "text"}})
		return &Domain{Name: name, Aliases: aliases, Index: idx, Docs: docs}, nil
	}
}

func TestRouterResolveByNameAndAlias(t *testing.T) {
	r := NewRouter()
	require.NoError(t, r.Register("criminal", []string{"ipc", "penal"}, loaderFor("criminal", []string{"ipc", "penal"}, nil)))
	require.NoError(t, r.LoadAll())

	for _, name := range []string{"criminal", "ipc", "penal"} {
		d, err := r.Resolve(name)
		require.NoError(t, err, name)
		assert.Equal(t, "criminal", d.Name)
	}
}

func TestRouterResolveUnknownDomain(t *testing.T) {
	r := NewRouter()
	require.NoError(t, r.Register("criminal", nil, loaderFor("criminal", nil, nil)))
	require.NoError(t, r.LoadAll())

	_, err := r.Resolve("maritime")
	assert.ErrorIs(t, err, ErrUnknownDomain)
}

func TestRouterResolveBeforeLoad(t *testing.T) {
	r := NewRouter()
	require.NoError(t, r.Register("criminal", nil, loaderFor("criminal", nil, nil)))

	_, err := r.Resolve("criminal")
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestRouterRegisterRejectsDuplicateNames(t *testing.T) {
	r := NewRouter()
	require.NoError(t, r.Register("criminal", []string{"ipc"}, loaderFor("criminal", nil, nil)))
	assert.Error(t, r.Register("criminal", nil, loaderFor("criminal", nil, nil)))
	assert.Error(t, r.Register("penal", []string{"ipc"}, loaderFor("penal", nil, nil)))
}

func TestRouterLoadAllFailureKeepsOldTable(t *testing.T) {
	gen := 0
	r := NewRouter()
	require.NoError(t, r.Register("criminal", nil, loaderFor("criminal", nil, &gen)))
	fail := false
	require.NoError(t, r.Register("civil", nil, func() (*Domain, error) {
		if fail {
			return nil, errors.New("corpus gone")
		}
		return loaderFor("civil", nil, nil)()
	}))
	require.NoError(t, r.LoadAll())

	fail = true
	gen = 1
	require.Error(t, r.LoadAll())

	// Both domains still serve the previous snapshot.
	d, err := r.Resolve("criminal")
	require.NoError(t, err)
	_, ok := d.Docs.Get("criminal-gen-0")
	assert.True(t, ok)
	_, err = r.Resolve("civil")
	assert.NoError(t, err)
}

func TestRouterReloadSingleDomain(t *testing.T) {
	genA, genB := 0, 0
	r := NewRouter()
	require.NoError(t, r.Register("criminal", []string{"ipc"}, loaderFor("criminal", []string{"ipc"}, &genA)))
	require.NoError(t, r.Register("civil", nil, loaderFor("civil", nil, &genB)))
	require.NoError(t, r.LoadAll())

	genA, genB = 1, 1
	require.NoError(t, r.Reload("ipc"))

	d, err := r.Resolve("criminal")
	require.NoError(t, err)
	_, ok := d.Docs.Get("criminal-gen-1")
	assert.True(t, ok, "reloaded domain serves the new snapshot")

	d, err = r.Resolve("civil")
	require.NoError(t, err)
	_, ok = d.Docs.Get("civil-gen-0")
	assert.True(t, ok, "untouched domain keeps its old snapshot")
}

func TestRouterReloadUnknownDomain(t *testing.T) {
	r := NewRouter()
	require.NoError(t, r.Register("criminal", nil, loaderFor("criminal", nil, nil)))
	require.NoError(t, r.LoadAll())
	assert.ErrorIs(t, r.Reload("maritime"), ErrUnknownDomain)
}

func TestRouterDomainsAndNames(t *testing.T) {
	r := NewRouter()
	require.NoError(t, r.Register("criminal", nil, loaderFor("criminal", nil, nil)))
	require.NoError(t, r.Register("civil", nil, loaderFor("civil", nil, nil)))
	require.NoError(t, r.LoadAll())

	assert.Equal(t, []string{"criminal", "civil"}, r.Names())
	domains := r.Domains()
	require.Len(t, domains, 2)
	assert.Equal(t, "civil", domains[0].Name)
	assert.Equal(t, "criminal", domains[1].Name)
}

// A resolved domain must always pair the index with the store it was built
// from, even while reloads swap the routing table underneath.
func TestRouterConcurrentReloadAndSearch(t *testing.T) {
	gen := 0
	r := NewRouter()
	require.NoError(t, r.Register("criminal", nil, loaderFor("criminal", nil, &gen)))
	require.NoError(t, r.LoadAll())

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 1; i <= 200; i++ {
			gen = i
			if err := r.Reload("criminal"); err != nil {
				t.Error(err)
				return
			}
		}
		close(done)
	}()

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				d, err := r.Resolve("criminal")
				if err != nil {
					t.Error(err)
					return
				}
				matches, err := d.Index.Search(context.Background(), []float32{1, 0}, 1)
				if err != nil {
					t.Error(err)
					return
				}
				for _, m := range matches {
					if _, ok := d.Docs.Get(m.ID); !ok {
						t.Errorf("index hit %q missing from the paired store", m.ID)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}
