package store

import "github.com/lawai/lawai-be/types"

// Domain is one named corpus: its document store and vector index, built in
// a single load so they always refer to the same snapshot. A Domain value is
// immutable; reloads produce a fresh one.
type Domain struct {
	Name    string
	Aliases []string
	Index   VectorIndex
	Docs    *DocumentStore
}

// LoadDomain builds a memory-backed domain from a snapshot file. The load is
// all-or-nothing: any validation failure leaves no partial domain behind.
func LoadDomain(name string, aliases []string, path string) (*Domain, error) {
	snap, err := LoadSnapshot(path)
	if err != nil {
		return nil, err
	}
	return &Domain{
		Name:    name,
		Aliases: aliases,
		Index:   BuildMemoryIndex(snap),
		Docs:    NewDocumentStore(snap.Documents()),
	}, nil
}

// Info reports the domain for the listing endpoint.
func (d *Domain) Info() types.DomainInfo {
	return types.DomainInfo{
		Name:      d.Name,
		Aliases:   d.Aliases,
		Documents: d.Docs.Len(),
	}
}
