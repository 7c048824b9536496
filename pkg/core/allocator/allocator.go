package allocator

import "context"

// PersistFunc stores the rows for an allocation. It runs inside the
// allocation transaction, so an error rolls the counter advance back too.
type PersistFunc func(txCtx context.Context, alloc *Allocation) error

type Service interface {
	// Allocate reserves quantity consecutive child numbers for the chemical
	// and commits them together with whatever persist writes.
	Allocate(ctx context.Context, req *Request, persist PersistFunc) (*Allocation, error)
	// Forget drops the in-process lock kept for a deleted chemical.
	Forget(chemicalID int64)
}
