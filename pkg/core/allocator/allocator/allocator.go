package allocator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alphadose/haxmap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/scienceol/chemstock/internal/config"
	"github.com/scienceol/chemstock/pkg/common/code"
	"github.com/scienceol/chemstock/pkg/core/allocator"
	"github.com/scienceol/chemstock/pkg/middleware/db"
	"github.com/scienceol/chemstock/pkg/middleware/logger"
	"github.com/scienceol/chemstock/pkg/middleware/metrics"
	"github.com/scienceol/chemstock/pkg/repo"
	bStore "github.com/scienceol/chemstock/pkg/repo/bottle"
	cStore "github.com/scienceol/chemstock/pkg/repo/chemical"
	counterStore "github.com/scienceol/chemstock/pkg/repo/counter"
	"github.com/scienceol/chemstock/pkg/repo/model"
)

type Options struct {
	Prefix     string
	PadWidth   int
	MaxRetries int
	MaxBatch   int
}

// chemicalLocks is shared by the allocators built with New: one mutex per
// chemical, requests for other chemicals never wait on it.
var chemicalLocks = haxmap.New[int64, *sync.Mutex]()

type allocatorImpl struct {
	*db.Datastore
	opts          Options
	chemicalStore repo.ChemicalRepo
	bottleStore   repo.BottleRepo
	counterStore  repo.CounterRepo
	locks         *haxmap.Map[int64, *sync.Mutex]
	tracer        trace.Tracer
}

func New() allocator.Service {
	conf := config.Global().Allocator
	return newAllocator(Options{
		Prefix:     conf.Prefix,
		PadWidth:   conf.PadWidth,
		MaxRetries: conf.MaxRetries,
		MaxBatch:   conf.MaxBatch,
	}, chemicalLocks)
}

// NewWithOptions builds an allocator with its own lock map, as a separate
// process would have.
func NewWithOptions(opts Options) allocator.Service {
	return newAllocator(opts, haxmap.New[int64, *sync.Mutex]())
}

func newAllocator(opts Options, locks *haxmap.Map[int64, *sync.Mutex]) *allocatorImpl {
	if opts.Prefix == "" {
		opts.Prefix = "CHEM"
	}
	if opts.PadWidth <= 0 {
		opts.PadWidth = 4
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 1
	}
	if opts.MaxBatch <= 0 {
		opts.MaxBatch = 1000
	}
	return &allocatorImpl{
		Datastore:     db.DB(),
		opts:          opts,
		chemicalStore: cStore.New(),
		bottleStore:   bStore.New(),
		counterStore:  counterStore.New(),
		locks:         locks,
		tracer:        otel.Tracer("chemstock/allocator"),
	}
}

func (a *allocatorImpl) lock(chemicalID int64) func() {
	mu, _ := a.locks.GetOrSet(chemicalID, &sync.Mutex{})
	mu.Lock()
	return mu.Unlock
}

func (a *allocatorImpl) Forget(chemicalID int64) {
	a.locks.Del(chemicalID)
}

func (a *allocatorImpl) Allocate(ctx context.Context, req *allocator.Request, persist allocator.PersistFunc) (*allocator.Allocation, error) {
	if req == nil || req.Quantity < 1 {
		metrics.Allocations.WithLabelValues("invalid").Inc()
		return nil, code.InvalidQuantityErr
	}
	if req.Quantity > a.opts.MaxBatch {
		metrics.Allocations.WithLabelValues("invalid").Inc()
		return nil, code.InvalidQuantityErr.WithMsgf("number of bottles must be at most %d", a.opts.MaxBatch)
	}

	ctx, span := a.tracer.Start(ctx, "allocator.Allocate", trace.WithAttributes(
		attribute.Int64("chemical.id", req.ChemicalID),
		attribute.Int("allocation.quantity", req.Quantity),
	))
	defer span.End()

	start := time.Now()
	defer func() { metrics.AllocationLatency.Observe(time.Since(start).Seconds()) }()

	unlock := a.lock(req.ChemicalID)
	defer unlock()

	var (
		alloc *allocator.Allocation
		err   error
	)
	for attempt := 1; attempt <= a.opts.MaxRetries; attempt++ {
		alloc, err = a.allocateOnce(ctx, req, persist)
		if err == nil || !errors.Is(err, code.AllocationConflictErr) {
			break
		}
		// another process advanced the same rows; the transaction rolled back
		metrics.AllocationRetries.Inc()
		logger.Warnf(ctx, "allocation conflict chemical: %d, attempt: %d, err: %+v", req.ChemicalID, attempt, err)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		metrics.Allocations.WithLabelValues(outcome(err)).Inc()
		return nil, err
	}

	span.SetAttributes(attribute.String("allocation.parent_id", alloc.ParentID))
	metrics.Allocations.WithLabelValues("ok").Inc()
	metrics.BottlesAllocated.Add(float64(len(alloc.Assignments)))
	if alloc.Minted {
		metrics.ParentsMinted.Inc()
	}
	if alloc.Recovered {
		metrics.RecoveredCounters.Inc()
	}
	return alloc, nil
}

func outcome(err error) string {
	switch c, _ := code.Parse(err); c.Kind() {
	case code.KindNotFound:
		return "not_found"
	case code.KindConflict:
		return "conflict"
	default:
		return "error"
	}
}

func (a *allocatorImpl) allocateOnce(ctx context.Context, req *allocator.Request, persist allocator.PersistFunc) (*allocator.Allocation, error) {
	var alloc *allocator.Allocation
	err := a.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := a.chemicalStore.GetChemicalByID(txCtx, req.ChemicalID); err != nil {
			return err
		}

		var err error
		alloc, err = a.reserve(txCtx, req)
		if err != nil {
			return err
		}
		if persist == nil {
			return nil
		}
		return persist(txCtx, alloc)
	})
	if err != nil {
		return nil, err
	}
	return alloc, nil
}

// reserve advances or creates the chemical's counter and returns the reserved run.
func (a *allocatorImpl) reserve(txCtx context.Context, req *allocator.Request) (*allocator.Allocation, error) {
	counter, err := a.counterStore.GetParentCounter(txCtx, req.ChemicalID)
	if err != nil {
		return nil, err
	}

	if counter != nil {
		next := counter.NextChildNumber + req.Quantity
		ok, err := a.counterStore.AdvanceParentCounter(txCtx, req.ChemicalID, counter.NextChildNumber, next)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, code.AllocationConflictErr
		}
		return allocator.NewAllocation(counter.ParentID, counter.NextChildNumber, req.Quantity), nil
	}

	// no counter: rebuild it from existing bottles before minting a new parent
	high, err := a.bottleStore.MaxChildNumber(txCtx, req.ChemicalID)
	if err != nil {
		return nil, err
	}
	if high != nil {
		logger.Warnf(txCtx, "rebuild parent counter chemical: %d, parent: %s, max child: %d",
			req.ChemicalID, high.ParentID, high.ChildNumber)
		start := high.ChildNumber + 1
		if err := a.counterStore.CreateParentCounter(txCtx, &model.ParentCounter{
			ChemicalID:      req.ChemicalID,
			ParentID:        high.ParentID,
			NextChildNumber: start + req.Quantity,
		}); err != nil {
			return nil, err
		}
		alloc := allocator.NewAllocation(high.ParentID, start, req.Quantity)
		alloc.Recovered = true
		return alloc, nil
	}

	seq, err := a.counterStore.NextSequence(txCtx, a.opts.Prefix)
	if err != nil {
		return nil, err
	}
	parentID := allocator.FormatParentID(a.opts.Prefix, a.opts.PadWidth, seq)
	if err := a.counterStore.CreateParentCounter(txCtx, &model.ParentCounter{
		ChemicalID:      req.ChemicalID,
		ParentID:        parentID,
		NextChildNumber: 1 + req.Quantity,
	}); err != nil {
		return nil, err
	}
	alloc := allocator.NewAllocation(parentID, 1, req.Quantity)
	alloc.Minted = true
	return alloc, nil
}
