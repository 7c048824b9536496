package allocator

import "testing"

func TestFormatParentID(t *testing.T) {
	cases := []struct {
		n    int64
		want string
	}{
		{1, "CHEM0001"},
		{42, "CHEM0042"},
		{9999, "CHEM9999"},
		{10000, "CHEM10000"},
		{123456, "CHEM123456"},
	}
	for _, c := range cases {
		if got := FormatParentID("CHEM", 4, c.n); got != c.want {
			t.Errorf("FormatParentID(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestFormatBottleIDChildUnpadded(t *testing.T) {
	if got := FormatBottleID("CHEM0001", 1); got != "CHEM0001-1" {
		t.Fatalf("got %q", got)
	}
	if got := FormatBottleID("CHEM0001", 12); got != "CHEM0001-12" {
		t.Fatalf("got %q", got)
	}
}

func TestNewAllocationIsContiguous(t *testing.T) {
	alloc := NewAllocation("CHEM0003", 4, 3)
	if len(alloc.Assignments) != 3 {
		t.Fatalf("assignments = %d, want 3", len(alloc.Assignments))
	}
	want := []string{"CHEM0003-4", "CHEM0003-5", "CHEM0003-6"}
	for i, a := range alloc.Assignments {
		if a.BottleID != want[i] || a.ChildNumber != 4+i {
			t.Errorf("assignment %d = %+v, want %s", i, a, want[i])
		}
	}
}
