package allocator_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/scienceol/chemstock/internal/testutil"
	"github.com/scienceol/chemstock/pkg/common/code"
	"github.com/scienceol/chemstock/pkg/core/allocator"
	impl "github.com/scienceol/chemstock/pkg/core/allocator/allocator"
	bStore "github.com/scienceol/chemstock/pkg/repo/bottle"
	"github.com/scienceol/chemstock/pkg/repo/model"
)

func newAllocator() allocator.Service {
	return impl.NewWithOptions(impl.Options{Prefix: testutil.Prefix, PadWidth: 4, MaxRetries: 3})
}

// persistBottles stores one bottle per assignment, the way bottle creation does.
func persistBottles(chemicalID int64) allocator.PersistFunc {
	store := bStore.New()
	return func(txCtx context.Context, alloc *allocator.Allocation) error {
		bottles := make([]*model.Bottle, 0, len(alloc.Assignments))
		for _, a := range alloc.Assignments {
			bottles = append(bottles, &model.Bottle{
				BottleID:    a.BottleID,
				ParentID:    alloc.ParentID,
				ChildNumber: a.ChildNumber,
				ChemicalID:  chemicalID,
				Status:      model.BottleActive,
			})
		}
		return store.BatchCreateBottles(txCtx, bottles)
	}
}

func bottleIDs(alloc *allocator.Allocation) []string {
	ids := make([]string, 0, len(alloc.Assignments))
	for _, a := range alloc.Assignments {
		ids = append(ids, a.BottleID)
	}
	return ids
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func countBottles(t *testing.T, gdb *gorm.DB, chemicalID int64) int64 {
	t.Helper()
	var n int64
	if err := gdb.Model(&model.Bottle{}).Where("chemical_id = ?", chemicalID).Count(&n).Error; err != nil {
		t.Fatalf("count bottles: %v", err)
	}
	return n
}

func TestAllocateFirstBatchThenSecond(t *testing.T) {
	gdb := testutil.SetupDB(t)
	ethanol := testutil.CreateChemical(t, gdb, "Ethanol", testutil.Ptr("64-17-5"))
	a := newAllocator()
	ctx := context.Background()

	first, err := a.Allocate(ctx, &allocator.Request{ChemicalID: ethanol.ID, Quantity: 3}, persistBottles(ethanol.ID))
	if err != nil {
		t.Fatalf("first allocate: %v", err)
	}
	if first.ParentID != "CHEM0001" || !first.Minted {
		t.Fatalf("first parent = %s minted=%v", first.ParentID, first.Minted)
	}
	if want := []string{"CHEM0001-1", "CHEM0001-2", "CHEM0001-3"}; !equal(bottleIDs(first), want) {
		t.Fatalf("first ids = %v, want %v", bottleIDs(first), want)
	}

	second, err := a.Allocate(ctx, &allocator.Request{ChemicalID: ethanol.ID, Quantity: 2}, persistBottles(ethanol.ID))
	if err != nil {
		t.Fatalf("second allocate: %v", err)
	}
	if second.Minted {
		t.Fatal("second batch must reuse the parent id")
	}
	if want := []string{"CHEM0001-4", "CHEM0001-5"}; !equal(bottleIDs(second), want) {
		t.Fatalf("second ids = %v, want %v", bottleIDs(second), want)
	}
	if n := countBottles(t, gdb, ethanol.ID); n != 5 {
		t.Fatalf("stored bottles = %d, want 5", n)
	}
}

func TestAllocateDistinctParentsPerChemical(t *testing.T) {
	gdb := testutil.SetupDB(t)
	ethanol := testutil.CreateChemical(t, gdb, "Ethanol", nil)
	acetone := testutil.CreateChemical(t, gdb, "Acetone", nil)
	a := newAllocator()
	ctx := context.Background()

	e, err := a.Allocate(ctx, &allocator.Request{ChemicalID: ethanol.ID, Quantity: 1}, persistBottles(ethanol.ID))
	if err != nil {
		t.Fatal(err)
	}
	ac, err := a.Allocate(ctx, &allocator.Request{ChemicalID: acetone.ID, Quantity: 2}, persistBottles(acetone.ID))
	if err != nil {
		t.Fatal(err)
	}
	if e.ParentID != "CHEM0001" || ac.ParentID != "CHEM0002" {
		t.Fatalf("parents = %s, %s", e.ParentID, ac.ParentID)
	}
	if want := []string{"CHEM0002-1", "CHEM0002-2"}; !equal(bottleIDs(ac), want) {
		t.Fatalf("acetone ids = %v", bottleIDs(ac))
	}
}

func TestAllocateRejectsNonPositiveQuantity(t *testing.T) {
	gdb := testutil.SetupDB(t)
	chem := testutil.CreateChemical(t, gdb, "Toluene", nil)
	a := newAllocator()

	for _, q := range []int{0, -1} {
		_, err := a.Allocate(context.Background(), &allocator.Request{ChemicalID: chem.ID, Quantity: q}, persistBottles(chem.ID))
		if !errors.Is(err, code.InvalidQuantityErr) {
			t.Fatalf("quantity %d: err = %v, want InvalidQuantityErr", q, err)
		}
	}

	var counters, seq int64
	gdb.Model(&model.ParentCounter{}).Count(&counters)
	gdb.Model(&model.IDSequence{}).Where("prefix = ?", testutil.Prefix).Select("current_number").Scan(&seq)
	if counters != 0 || seq != 0 {
		t.Fatalf("rejected requests left state: counters=%d sequence=%d", counters, seq)
	}
	if n := countBottles(t, gdb, chem.ID); n != 0 {
		t.Fatalf("bottles = %d, want 0", n)
	}
}

func TestAllocateUnknownChemical(t *testing.T) {
	testutil.SetupDB(t)
	_, err := newAllocator().Allocate(context.Background(), &allocator.Request{ChemicalID: 999, Quantity: 1}, nil)
	if !errors.Is(err, code.ChemicalNotFound) {
		t.Fatalf("err = %v, want ChemicalNotFound", err)
	}
}

func TestAllocatePersistFailureRollsBack(t *testing.T) {
	gdb := testutil.SetupDB(t)
	chem := testutil.CreateChemical(t, gdb, "Methanol", nil)
	a := newAllocator()
	ctx := context.Background()

	boom := errors.New("disk full")
	_, err := a.Allocate(ctx, &allocator.Request{ChemicalID: chem.ID, Quantity: 2}, func(context.Context, *allocator.Allocation) error {
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want persist error", err)
	}

	// nothing was consumed: the retry mints the same parent and starts at 1
	alloc, err := a.Allocate(ctx, &allocator.Request{ChemicalID: chem.ID, Quantity: 2}, persistBottles(chem.ID))
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"CHEM0001-1", "CHEM0001-2"}; !equal(bottleIDs(alloc), want) {
		t.Fatalf("ids after rollback = %v, want %v", bottleIDs(alloc), want)
	}
}

func TestAllocateRecoversMissingCounter(t *testing.T) {
	gdb := testutil.SetupDB(t)
	chem := testutil.CreateChemical(t, gdb, "Hexane", nil)
	for i := 1; i <= 3; i++ {
		b := &model.Bottle{
			BottleID: fmt.Sprintf("CHEM0007-%d", i), ParentID: "CHEM0007", ChildNumber: i,
			ChemicalID: chem.ID, Status: model.BottleActive,
		}
		if err := gdb.Omit("Chemical", "Location").Create(b).Error; err != nil {
			t.Fatal(err)
		}
	}

	alloc, err := newAllocator().Allocate(context.Background(), &allocator.Request{ChemicalID: chem.ID, Quantity: 2}, persistBottles(chem.ID))
	if err != nil {
		t.Fatal(err)
	}
	if !alloc.Recovered || alloc.Minted {
		t.Fatalf("recovered=%v minted=%v", alloc.Recovered, alloc.Minted)
	}
	if want := []string{"CHEM0007-4", "CHEM0007-5"}; !equal(bottleIDs(alloc), want) {
		t.Fatalf("ids = %v, want %v", bottleIDs(alloc), want)
	}

	var counter model.ParentCounter
	if err := gdb.Where("chemical_id = ?", chem.ID).First(&counter).Error; err != nil {
		t.Fatal(err)
	}
	if counter.ParentID != "CHEM0007" || counter.NextChildNumber != 6 {
		t.Fatalf("counter = %+v", counter)
	}
}

func TestAllocateRejectsOversizedBatch(t *testing.T) {
	gdb := testutil.SetupDB(t)
	chem := testutil.CreateChemical(t, gdb, "Xylene", nil)
	a := impl.NewWithOptions(impl.Options{Prefix: testutil.Prefix, PadWidth: 4, MaxRetries: 3, MaxBatch: 5})
	ctx := context.Background()

	for _, q := range []int{6, math.MaxInt} {
		_, err := a.Allocate(ctx, &allocator.Request{ChemicalID: chem.ID, Quantity: q}, persistBottles(chem.ID))
		if !errors.Is(err, code.InvalidQuantityErr) {
			t.Fatalf("quantity %d: err = %v, want InvalidQuantityErr", q, err)
		}
	}
	if n := countBottles(t, gdb, chem.ID); n != 0 {
		t.Fatalf("bottles = %d, want 0", n)
	}

	alloc, err := a.Allocate(ctx, &allocator.Request{ChemicalID: chem.ID, Quantity: 5}, persistBottles(chem.ID))
	if err != nil {
		t.Fatal(err)
	}
	if len(alloc.Assignments) != 5 || alloc.Assignments[4].BottleID != "CHEM0001-5" {
		t.Fatalf("ids = %v", bottleIDs(alloc))
	}
}

func seedBottles(t *testing.T, gdb *gorm.DB, chemicalID int64, parentID string, children ...int) {
	t.Helper()
	for _, i := range children {
		b := &model.Bottle{
			BottleID: fmt.Sprintf("%s-%d", parentID, i), ParentID: parentID, ChildNumber: i,
			ChemicalID: chemicalID, Status: model.BottleActive,
		}
		if err := gdb.Omit("Chemical", "Location").Create(b).Error; err != nil {
			t.Fatal(err)
		}
	}
}

func TestAllocateStoredCounterWinsOverBottles(t *testing.T) {
	gdb := testutil.SetupDB(t)
	chem := testutil.CreateChemical(t, gdb, "Benzene", nil)
	seedBottles(t, gdb, chem.ID, "CHEM0009", 5)
	if err := gdb.Create(&model.ParentCounter{ChemicalID: chem.ID, ParentID: "CHEM0009", NextChildNumber: 2}).Error; err != nil {
		t.Fatal(err)
	}

	alloc, err := newAllocator().Allocate(context.Background(), &allocator.Request{ChemicalID: chem.ID, Quantity: 1}, persistBottles(chem.ID))
	if err != nil {
		t.Fatal(err)
	}
	if alloc.Recovered || alloc.Minted {
		t.Fatalf("recovered=%v minted=%v", alloc.Recovered, alloc.Minted)
	}
	if want := []string{"CHEM0009-2"}; !equal(bottleIDs(alloc), want) {
		t.Fatalf("ids = %v, want %v", bottleIDs(alloc), want)
	}
}

func TestAllocateStaleCounterCollisionConflicts(t *testing.T) {
	gdb := testutil.SetupDB(t)
	chem := testutil.CreateChemical(t, gdb, "Pentane", nil)
	seedBottles(t, gdb, chem.ID, "CHEM0003", 1, 2, 3)
	if err := gdb.Create(&model.ParentCounter{ChemicalID: chem.ID, ParentID: "CHEM0003", NextChildNumber: 2}).Error; err != nil {
		t.Fatal(err)
	}

	_, err := newAllocator().Allocate(context.Background(), &allocator.Request{ChemicalID: chem.ID, Quantity: 1}, persistBottles(chem.ID))
	if !errors.Is(err, code.AllocationConflictErr) {
		t.Fatalf("err = %v, want AllocationConflictErr", err)
	}
	if c, _ := code.Parse(err); c.Kind() != code.KindConflict {
		t.Fatalf("kind = %s, want conflict", c.Kind())
	}

	// every attempt rolled back: the counter was neither advanced nor rebuilt
	var counter model.ParentCounter
	if err := gdb.Where("chemical_id = ?", chem.ID).First(&counter).Error; err != nil {
		t.Fatal(err)
	}
	if counter.NextChildNumber != 2 {
		t.Fatalf("counter next = %d, want 2", counter.NextChildNumber)
	}
	if n := countBottles(t, gdb, chem.ID); n != 3 {
		t.Fatalf("bottles = %d, want 3", n)
	}
}

func TestAllocateConcurrentSameChemical(t *testing.T) {
	gdb := testutil.SetupDB(t)
	chem := testutil.CreateChemical(t, gdb, "Benzene", nil)
	a := newAllocator()

	const workers = 12
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids []string
	)
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			alloc, err := a.Allocate(context.Background(), &allocator.Request{ChemicalID: chem.ID, Quantity: 1}, persistBottles(chem.ID))
			if err != nil {
				errs <- err
				return
			}
			mu.Lock()
			ids = append(ids, bottleIDs(alloc)...)
			mu.Unlock()
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent allocate: %v", err)
	}

	want := make([]string, 0, workers)
	for i := 1; i <= workers; i++ {
		want = append(want, fmt.Sprintf("CHEM0001-%d", i))
	}
	sort.Strings(ids)
	sort.Strings(want)
	if !equal(ids, want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
}

func TestAllocateConcurrentFirstAllocations(t *testing.T) {
	gdb := testutil.SetupDB(t)
	a := newAllocator()

	const chemicals = 6
	chems := make([]*model.Chemical, 0, chemicals)
	for i := 0; i < chemicals; i++ {
		chems = append(chems, testutil.CreateChemical(t, gdb, fmt.Sprintf("Reagent %d", i), nil))
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		parents = make(map[string]int64)
	)
	for _, c := range chems {
		wg.Add(1)
		go func(c *model.Chemical) {
			defer wg.Done()
			alloc, err := a.Allocate(context.Background(), &allocator.Request{ChemicalID: c.ID, Quantity: 2}, persistBottles(c.ID))
			if err != nil {
				t.Errorf("allocate %d: %v", c.ID, err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if other, ok := parents[alloc.ParentID]; ok {
				t.Errorf("parent %s shared by chemicals %d and %d", alloc.ParentID, other, c.ID)
			}
			parents[alloc.ParentID] = c.ID
		}(c)
	}
	wg.Wait()

	if len(parents) != chemicals {
		t.Fatalf("distinct parents = %d, want %d", len(parents), chemicals)
	}
	for i := 1; i <= chemicals; i++ {
		if _, ok := parents[fmt.Sprintf("CHEM%04d", i)]; !ok {
			t.Errorf("parent CHEM%04d was not minted", i)
		}
	}
}
