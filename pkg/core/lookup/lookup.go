package lookup

import "context"

// Service resolves best-effort chemical metadata. Source failures degrade to
// missing fields; only malformed input and a nameless result are errors.
type Service interface {
	LookupCAS(ctx context.Context, cas string) (*ChemicalData, error)
	Search(ctx context.Context, q string) ([]*SearchResult, error)
	SDSLinks(ctx context.Context, cas string) (*SDSLinks, error)
}
