package repo

import (
	"context"

	"github.com/scienceol/chemstock/pkg/repo/model"
)

// CounterRepo persists allocator state. Every method joins the transaction bound to ctx.
type CounterRepo interface {
	// GetParentCounter returns nil when the chemical has never been allocated.
	// The row is locked for update on dialects that support it.
	GetParentCounter(ctx context.Context, chemicalID int64) (*model.ParentCounter, error)
	CreateParentCounter(ctx context.Context, counter *model.ParentCounter) error
	// AdvanceParentCounter moves next_child_number from expect to next and
	// reports false when another writer moved it first.
	AdvanceParentCounter(ctx context.Context, chemicalID int64, expect, next int) (bool, error)
	DeleteParentCounter(ctx context.Context, chemicalID int64) error
	// NextSequence atomically increments and returns the prefix's sequence.
	NextSequence(ctx context.Context, prefix string) (int64, error)
	EnsureSequence(ctx context.Context, prefix string) error
}
