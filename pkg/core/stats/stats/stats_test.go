package stats

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/scienceol/chemstock/internal/testutil"
	"github.com/scienceol/chemstock/pkg/core/stats"
	"github.com/scienceol/chemstock/pkg/repo/model"
)

func TestGetStats(t *testing.T) {
	gdb := testutil.SetupDB(t)
	svc := New().(*statsImpl)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	chem := testutil.CreateChemical(t, gdb, "Ethanol", nil)
	testutil.CreateChemical(t, gdb, "Acetone", nil)
	testutil.CreateLocation(t, gdb, "Cabinet", "", "")

	past := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []struct {
		status  model.BottleStatus
		expires *time.Time
	}{
		{model.BottleActive, &past},
		{model.BottleActive, &future},
		{model.BottleActive, nil},
		{model.BottleEmpty, &past},
	}
	for i, r := range rows {
		b := &model.Bottle{
			BottleID: "CHEM0001-" + strconv.Itoa(i+1), ParentID: "CHEM0001", ChildNumber: i + 1,
			ChemicalID: chem.ID, Status: r.status, ExpirationDate: r.expires,
		}
		if err := gdb.Omit("Chemical", "Location").Create(b).Error; err != nil {
			t.Fatal(err)
		}
	}

	got, err := svc.GetStats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalChemicals != 2 || got.TotalBottles != 4 || got.ActiveBottles != 3 || got.ExpiredBottles != 1 || got.TotalLocations != 1 {
		t.Fatalf("stats = %+v", got)
	}
}

func TestGetStatsEmpty(t *testing.T) {
	testutil.SetupDB(t)
	got, err := New().GetStats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if *got != (stats.Stats{}) {
		t.Fatalf("stats = %+v", got)
	}
}
