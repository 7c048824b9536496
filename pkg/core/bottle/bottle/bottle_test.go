package bottle

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/scienceol/chemstock/internal/testutil"
	"github.com/scienceol/chemstock/pkg/common"
	"github.com/scienceol/chemstock/pkg/common/code"
	"github.com/scienceol/chemstock/pkg/core/bottle"
	"github.com/scienceol/chemstock/pkg/core/notify"
	"github.com/scienceol/chemstock/pkg/repo/model"
)

type recorder struct {
	mu     sync.Mutex
	events []*notify.InventoryEvent
}

func (r *recorder) Registry(context.Context, notify.Action, notify.HandleFunc) error { return nil }

func (r *recorder) Broadcast(_ context.Context, msg *notify.SendMsg) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, msg.Data.(*notify.InventoryEvent))
	return nil
}

func (r *recorder) Close(context.Context) error { return nil }

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*bottleImpl, *recorder) {
	t.Helper()
	rec := &recorder{}
	svc := New().(*bottleImpl)
	svc.msgCenter = rec
	svc.now = func() time.Time { return fixedNow }
	return svc, rec
}

func ids(bottles []*model.Bottle) []string {
	out := make([]string, 0, len(bottles))
	for _, b := range bottles {
		out = append(out, b.BottleID)
	}
	return out
}

func TestCreateBottlesHierarchicalIDs(t *testing.T) {
	gdb := testutil.SetupDB(t)
	svc, rec := newService(t)
	ctx := context.Background()
	ethanol := testutil.CreateChemical(t, gdb, "Ethanol", testutil.Ptr("64-17-5"))

	first, err := svc.CreateBottles(ctx, &bottle.CreateReq{
		ChemicalID:      ethanol.ID,
		NumberOfBottles: testutil.Ptr(3),
		Quantity:        testutil.Ptr(500.0),
		Unit:            testutil.Ptr("mL"),
		ExpirationDate:  testutil.Ptr("2025-12-31"),
		LotNumber:       testutil.Ptr("L-77"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if first.Message != "Created 3 bottle(s)" || first.ParentID != "CHEM0001" {
		t.Fatalf("resp = %s parent %s", first.Message, first.ParentID)
	}
	want := []string{"CHEM0001-1", "CHEM0001-2", "CHEM0001-3"}
	for i, id := range ids(first.Bottles) {
		if id != want[i] {
			t.Fatalf("ids = %v, want %v", ids(first.Bottles), want)
		}
	}
	for _, b := range first.Bottles {
		if b.Chemical == nil || b.Chemical.Name != "Ethanol" || *b.Unit != "mL" || *b.LotNumber != "L-77" {
			t.Fatalf("bottle attributes not copied: %+v", b)
		}
		if b.Status != model.BottleActive || b.ExpirationDate.Format("2006-01-02") != "2025-12-31" {
			t.Fatalf("bottle = %+v", b)
		}
	}

	second, err := svc.CreateBottles(ctx, &bottle.CreateReq{ChemicalID: ethanol.ID, NumberOfBottles: testutil.Ptr(2)})
	if err != nil {
		t.Fatal(err)
	}
	if got := ids(second.Bottles); len(got) != 2 || got[0] != "CHEM0001-4" || got[1] != "CHEM0001-5" {
		t.Fatalf("second ids = %v", got)
	}

	if len(rec.events) != 2 || rec.events[0].Type != notify.BottlesCreated || rec.events[0].ParentID != "CHEM0001" {
		t.Fatalf("events = %+v", rec.events)
	}
}

func TestCreateBottlesDefaultsToOne(t *testing.T) {
	gdb := testutil.SetupDB(t)
	svc, _ := newService(t)
	chem := testutil.CreateChemical(t, gdb, "Acetone", nil)

	resp, err := svc.CreateBottles(context.Background(), &bottle.CreateReq{ChemicalID: chem.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Bottles) != 1 || resp.Bottles[0].BottleID != "CHEM0001-1" || resp.Message != "Created 1 bottle(s)" {
		t.Fatalf("resp = %+v", resp)
	}
}

func TestCreateBottlesRejectsWithoutSideEffects(t *testing.T) {
	gdb := testutil.SetupDB(t)
	svc, rec := newService(t)
	ctx := context.Background()
	chem := testutil.CreateChemical(t, gdb, "Acetone", nil)

	cases := []struct {
		name string
		req  *bottle.CreateReq
		want code.ErrCode
	}{
		{"zero", &bottle.CreateReq{ChemicalID: chem.ID, NumberOfBottles: testutil.Ptr(0)}, code.InvalidQuantityErr},
		{"negative", &bottle.CreateReq{ChemicalID: chem.ID, NumberOfBottles: testutil.Ptr(-2)}, code.InvalidQuantityErr},
		{"above batch limit", &bottle.CreateReq{ChemicalID: chem.ID, NumberOfBottles: testutil.Ptr(1001)}, code.InvalidQuantityErr},
		{"huge", &bottle.CreateReq{ChemicalID: chem.ID, NumberOfBottles: testutil.Ptr(math.MaxInt)}, code.InvalidQuantityErr},
		{"unknown chemical", &bottle.CreateReq{ChemicalID: 404}, code.ChemicalNotFound},
		{"unknown location", &bottle.CreateReq{ChemicalID: chem.ID, LocationID: testutil.Ptr(int64(77))}, code.LocationNotFound},
		{"bad date", &bottle.CreateReq{ChemicalID: chem.ID, ExpirationDate: testutil.Ptr("31/12/2025")}, code.ParamErr},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := svc.CreateBottles(ctx, c.req); !errors.Is(err, c.want) {
				t.Fatalf("err = %v, want %v", err, c.want)
			}
		})
	}

	var bottles, counters int64
	gdb.Model(&model.Bottle{}).Count(&bottles)
	gdb.Model(&model.ParentCounter{}).Count(&counters)
	if bottles != 0 || counters != 0 || len(rec.events) != 0 {
		t.Fatalf("side effects: bottles=%d counters=%d events=%d", bottles, counters, len(rec.events))
	}

	// the first successful batch still gets the first parent id
	resp, err := svc.CreateBottles(ctx, &bottle.CreateReq{ChemicalID: chem.ID})
	if err != nil {
		t.Fatal(err)
	}
	if resp.ParentID != "CHEM0001" {
		t.Fatalf("parent = %s, want CHEM0001", resp.ParentID)
	}
}

func TestListBottlesFilters(t *testing.T) {
	gdb := testutil.SetupDB(t)
	svc, _ := newService(t)
	ctx := context.Background()
	ethanol := testutil.CreateChemical(t, gdb, "Ethanol", testutil.Ptr("64-17-5"))
	acetone := testutil.CreateChemical(t, gdb, "Acetone", testutil.Ptr("67-64-1"))
	fridge := testutil.CreateLocation(t, gdb, "Fridge", "101", "A")

	old, err := svc.CreateBottles(ctx, &bottle.CreateReq{ChemicalID: ethanol.ID, NumberOfBottles: testutil.Ptr(2), ExpirationDate: testutil.Ptr("2024-01-01")})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateBottles(ctx, &bottle.CreateReq{ChemicalID: ethanol.ID, ExpirationDate: testutil.Ptr("2030-01-01"), LocationID: &fridge.ID}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CreateBottles(ctx, &bottle.CreateReq{ChemicalID: acetone.ID, LotNumber: testutil.Ptr("LOT-9")}); err != nil {
		t.Fatal(err)
	}
	// an expired-but-empty bottle is not reported as expired
	if _, err := svc.UpdateBottle(ctx, old.Bottles[1].ID, &bottle.UpdateReq{Status: testutil.Ptr("empty")}); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		req  *bottle.ListReq
		want []string
	}{
		{"all", &bottle.ListReq{}, []string{"CHEM0001-1", "CHEM0001-2", "CHEM0001-3", "CHEM0002-1"}},
		{"by chemical", &bottle.ListReq{ChemicalID: &acetone.ID}, []string{"CHEM0002-1"}},
		{"by location", &bottle.ListReq{LocationID: &fridge.ID}, []string{"CHEM0001-3"}},
		{"by status", &bottle.ListReq{Status: "empty"}, []string{"CHEM0001-2"}},
		{"expired", &bottle.ListReq{Expired: true}, []string{"CHEM0001-1"}},
		{"search chemical name", &bottle.ListReq{Search: "aceto"}, []string{"CHEM0002-1"}},
		{"search cas", &bottle.ListReq{Search: "64-17"}, []string{"CHEM0001-1", "CHEM0001-2", "CHEM0001-3"}},
		{"search bottle id", &bottle.ListReq{Search: "chem0001-3"}, []string{"CHEM0001-3"}},
		{"search lot", &bottle.ListReq{Search: "lot-9"}, []string{"CHEM0002-1"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			page, err := svc.ListBottles(ctx, c.req)
			if err != nil {
				t.Fatal(err)
			}
			got := ids(page.Data)
			if int(page.Total) != len(c.want) || len(got) != len(c.want) {
				t.Fatalf("got %v (total %d), want %v", got, page.Total, c.want)
			}
			for i := range got {
				if got[i] != c.want[i] {
					t.Fatalf("got %v, want %v", got, c.want)
				}
			}
		})
	}

	if _, err := svc.ListBottles(ctx, &bottle.ListReq{Status: "lost"}); !errors.Is(err, code.InvalidBottleStatus) {
		t.Fatalf("err = %v, want InvalidBottleStatus", err)
	}
}

func TestUpdateBottle(t *testing.T) {
	gdb := testutil.SetupDB(t)
	svc, _ := newService(t)
	ctx := context.Background()
	chem := testutil.CreateChemical(t, gdb, "Ethanol", nil)
	shelf := testutil.CreateLocation(t, gdb, "Shelf", "", "")

	resp, err := svc.CreateBottles(ctx, &bottle.CreateReq{ChemicalID: chem.ID, Quantity: testutil.Ptr(1.5), Unit: testutil.Ptr("L")})
	if err != nil {
		t.Fatal(err)
	}
	id := resp.Bottles[0].ID

	got, err := svc.UpdateBottle(ctx, id, &bottle.UpdateReq{
		LocationID:     common.Some(shelf.ID),
		Quantity:       common.Some(0.0),
		ExpirationDate: common.Some("2026-03-01"),
		Notes:          common.Some("opened"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.LocationID == nil || *got.LocationID != shelf.ID || got.Location == nil {
		t.Fatalf("location not set: %+v", got)
	}
	if got.Quantity != nil {
		t.Fatalf("zero quantity should clear the field, got %v", *got.Quantity)
	}
	if *got.Unit != "L" || *got.Notes != "opened" || got.ExpirationDate == nil {
		t.Fatalf("got %+v", got)
	}
	if got.BottleID != "CHEM0001-1" {
		t.Fatalf("bottle id must never change, got %s", got.BottleID)
	}

	got, err = svc.UpdateBottle(ctx, id, &bottle.UpdateReq{ExpirationDate: common.Some(""), Notes: common.Some(" ")})
	if err != nil {
		t.Fatal(err)
	}
	if got.ExpirationDate != nil || got.Notes != nil {
		t.Fatalf("empty values should clear: %+v", got)
	}

	// an explicit null clears, an absent key does not
	got, err = svc.UpdateBottle(ctx, id, &bottle.UpdateReq{
		LocationID:   common.Null[int64](),
		ReceivedDate: common.Some("2024-05-01"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.LocationID != nil || got.ReceivedDate == nil || *got.Unit != "L" {
		t.Fatalf("got %+v", got)
	}
	got, err = svc.UpdateBottle(ctx, id, &bottle.UpdateReq{ReceivedDate: common.Null[string](), Unit: common.Null[string]()})
	if err != nil {
		t.Fatal(err)
	}
	if got.ReceivedDate != nil || got.Unit != nil {
		t.Fatalf("null should clear: %+v", got)
	}

	if _, err := svc.UpdateBottle(ctx, id, &bottle.UpdateReq{Status: testutil.Ptr("broken")}); !errors.Is(err, code.InvalidBottleStatus) {
		t.Fatalf("err = %v", err)
	}
	if _, err := svc.UpdateBottle(ctx, id, &bottle.UpdateReq{LocationID: common.Some(int64(999))}); !errors.Is(err, code.LocationNotFound) {
		t.Fatalf("err = %v", err)
	}
	if _, err := svc.UpdateBottle(ctx, 999, &bottle.UpdateReq{}); !errors.Is(err, code.BottleNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestDeleteBottleKeepsNumbering(t *testing.T) {
	gdb := testutil.SetupDB(t)
	svc, rec := newService(t)
	ctx := context.Background()
	chem := testutil.CreateChemical(t, gdb, "Ethanol", nil)

	resp, _ := svc.CreateBottles(ctx, &bottle.CreateReq{ChemicalID: chem.ID, NumberOfBottles: testutil.Ptr(2)})
	if err := svc.DeleteBottle(ctx, resp.Bottles[1].ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteBottle(ctx, resp.Bottles[1].ID); !errors.Is(err, code.BottleNotFound) {
		t.Fatalf("err = %v, want BottleNotFound", err)
	}
	if last := rec.events[len(rec.events)-1]; last.Type != notify.BottleDeleted || last.BottleIDs[0] != "CHEM0001-2" {
		t.Fatalf("event = %+v", last)
	}

	// child numbers are never reused
	next, err := svc.CreateBottles(ctx, &bottle.CreateReq{ChemicalID: chem.ID})
	if err != nil {
		t.Fatal(err)
	}
	if next.Bottles[0].BottleID != "CHEM0001-3" {
		t.Fatalf("next = %s, want CHEM0001-3", next.Bottles[0].BottleID)
	}
}

func TestBulkUpdateStatus(t *testing.T) {
	gdb := testutil.SetupDB(t)
	svc, _ := newService(t)
	ctx := context.Background()
	chem := testutil.CreateChemical(t, gdb, "Ethanol", nil)

	resp, _ := svc.CreateBottles(ctx, &bottle.CreateReq{ChemicalID: chem.ID, NumberOfBottles: testutil.Ptr(3)})
	a, b := resp.Bottles[0].ID, resp.Bottles[1].ID

	got, err := svc.BulkUpdateStatus(ctx, &bottle.BulkStatusReq{BottleIDs: []int64{a, b, a, 999}, Status: "disposed"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Updated != 2 || got.Message != "Updated 2 bottles" {
		t.Fatalf("resp = %+v", got)
	}

	page, _ := svc.ListBottles(ctx, &bottle.ListReq{Status: "disposed"})
	if page.Total != 2 {
		t.Fatalf("disposed = %d", page.Total)
	}

	if _, err := svc.BulkUpdateStatus(ctx, &bottle.BulkStatusReq{BottleIDs: []int64{a}, Status: "gone"}); !errors.Is(err, code.InvalidBottleStatus) {
		t.Fatalf("err = %v", err)
	}
	if _, err := svc.BulkUpdateStatus(ctx, &bottle.BulkStatusReq{Status: "active"}); !errors.Is(err, code.ParamErr) {
		t.Fatalf("err = %v", err)
	}
}
