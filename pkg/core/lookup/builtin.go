package lookup

import (
	"sort"
	"strings"
)

type builtinEntry struct {
	name       string
	formula    string
	weight     float64
	health     int8
	fire       int8
	reactivity int8
	special    string
}

// builtin is the curated reference table; its NFPA ratings are authoritative.
var builtin = map[string]builtinEntry{
	"64-17-5":   {"Ethanol", "C2H5OH", 46.07, 0, 3, 0, ""},
	"67-56-1":   {"Methanol", "CH3OH", 32.04, 1, 3, 0, ""},
	"67-63-0":   {"Isopropyl Alcohol", "C3H8O", 60.10, 1, 3, 0, ""},
	"67-66-3":   {"Chloroform", "CHCl3", 119.38, 2, 0, 0, ""},
	"7732-18-5": {"Water", "H2O", 18.02, 0, 0, 0, ""},
	"7647-01-0": {"Hydrochloric Acid", "HCl", 36.46, 3, 0, 0, ""},
	"7664-93-9": {"Sulfuric Acid", "H2SO4", 98.08, 3, 0, 2, "W"},
	"7697-37-2": {"Nitric Acid", "HNO3", 63.01, 4, 0, 0, "OX"},
	"7664-38-2": {"Phosphoric Acid", "H3PO4", 98.00, 2, 0, 0, ""},
	"64-19-7":   {"Acetic Acid", "CH3COOH", 60.05, 2, 2, 0, ""},
	"75-09-2":   {"Dichloromethane", "CH2Cl2", 84.93, 2, 1, 0, ""},
	"110-54-3":  {"Hexane", "C6H14", 86.18, 1, 3, 0, ""},
	"67-64-1":   {"Acetone", "C3H6O", 58.08, 1, 3, 0, ""},
	"108-88-3":  {"Toluene", "C7H8", 92.14, 2, 3, 0, ""},
	"71-43-2":   {"Benzene", "C6H6", 78.11, 2, 3, 0, ""},
	"7727-37-9": {"Nitrogen", "N2", 28.01, 0, 0, 0, "SA"},
	"7782-44-7": {"Oxygen", "O2", 32.00, 0, 0, 0, "OX"},
	"1310-73-2": {"Sodium Hydroxide", "NaOH", 40.00, 3, 0, 1, ""},
	"7681-52-9": {"Sodium Hypochlorite", "NaClO", 74.44, 2, 0, 1, "OX"},
	"7722-84-1": {"Hydrogen Peroxide", "H2O2", 34.01, 2, 0, 1, "OX"},
}

// Builtin returns the curated entry for cas, or nil.
func Builtin(cas string) *Partial {
	e, ok := builtin[cas]
	if !ok {
		return nil
	}
	weight, health, fire, reactivity := e.weight, e.health, e.fire, e.reactivity
	return &Partial{
		Source:          SourceBuiltin,
		Name:            e.name,
		Formula:         e.formula,
		MolecularWeight: &weight,
		NFPAHealth:      &health,
		NFPAFire:        &fire,
		NFPAReactivity:  &reactivity,
		NFPASpecial:     e.special,
	}
}

// SearchBuiltin matches q against curated names, case-insensitively.
func SearchBuiltin(q string) []*SearchResult {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil
	}
	var out []*SearchResult
	for cas, e := range builtin {
		if !strings.Contains(strings.ToLower(e.name), q) {
			continue
		}
		weight := e.weight
		out = append(out, &SearchResult{
			Name:            e.name,
			Formula:         e.formula,
			MolecularWeight: &weight,
			CASNumber:       cas,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
