package allocator

import (
	"fmt"
	"strconv"
)

type Request struct {
	ChemicalID int64
	Quantity   int
}

type Assignment struct {
	BottleID    string `json:"bottleId"`
	ChildNumber int    `json:"childNumber"`
}

type Allocation struct {
	ParentID    string        `json:"parentId"`
	Assignments []*Assignment `json:"assignments"`
	// Minted is set when this allocation consumed a tick of the global sequence.
	Minted bool `json:"-"`
	// Recovered is set when the counter was rebuilt from existing bottles.
	Recovered bool `json:"-"`
}

// FormatParentID zero-pads n to width digits behind prefix. Numbers wider
// than width are printed in full.
func FormatParentID(prefix string, width int, n int64) string {
	return fmt.Sprintf("%s%0*d", prefix, width, n)
}

// FormatBottleID joins a parent id and an unpadded child number.
func FormatBottleID(parentID string, child int) string {
	return parentID + "-" + strconv.Itoa(child)
}

// NewAllocation lays out quantity assignments starting at child number start.
func NewAllocation(parentID string, start, quantity int) *Allocation {
	alloc := &Allocation{
		ParentID:    parentID,
		Assignments: make([]*Assignment, 0, quantity),
	}
	for n := start; n < start+quantity; n++ {
		alloc.Assignments = append(alloc.Assignments, &Assignment{
			BottleID:    FormatBottleID(parentID, n),
			ChildNumber: n,
		})
	}
	return alloc
}
