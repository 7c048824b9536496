package lookup

// Field is a mergeable group of ChemicalData fields.
type Field string

const (
	FieldName            Field = "name"
	FieldFormula         Field = "formula"
	FieldMolecularWeight Field = "molecularWeight"
	FieldNFPA            Field = "nfpa"
	FieldSupplier        Field = "supplier"
	FieldSDSURL          Field = "sdsUrl"
)

// Precedence lists, per field, the sources allowed to fill it, best first.
// NFPA ratings come from the curated table only; the four ratings are taken
// together from one source so a rating set is never mixed.
var Precedence = map[Field][]Source{
	FieldName:            {SourcePubChem, SourceBuiltin, SourceSupplier},
	FieldFormula:         {SourcePubChem, SourceBuiltin},
	FieldMolecularWeight: {SourcePubChem, SourceBuiltin},
	FieldNFPA:            {SourceBuiltin},
	FieldSupplier:        {SourceSupplier, SourceBuiltin},
	FieldSDSURL:          {SourceSupplier, SourceBuiltin},
}

// Merge combines per-source partials into one result following Precedence.
// Nil partials are ignored.
func Merge(cas string, parts ...*Partial) *ChemicalData {
	bySource := make(map[Source]*Partial, len(parts))
	for _, p := range parts {
		if p != nil {
			bySource[p.Source] = p
		}
	}

	out := &ChemicalData{CASNumber: cas, Sources: []Source{}}
	used := make(map[Source]bool, len(bySource))
	pick := func(field Field, has func(*Partial) bool, set func(*Partial)) {
		for _, src := range Precedence[field] {
			if p, ok := bySource[src]; ok && has(p) {
				set(p)
				used[src] = true
				return
			}
		}
	}

	pick(FieldName,
		func(p *Partial) bool { return p.Name != "" },
		func(p *Partial) { out.Name = p.Name })
	pick(FieldFormula,
		func(p *Partial) bool { return p.Formula != "" },
		func(p *Partial) { out.Formula = strPtr(p.Formula) })
	pick(FieldMolecularWeight,
		func(p *Partial) bool { return p.MolecularWeight != nil && *p.MolecularWeight > 0 },
		func(p *Partial) { w := *p.MolecularWeight; out.MolecularWeight = &w })
	pick(FieldNFPA,
		func(p *Partial) bool {
			return p.NFPAHealth != nil || p.NFPAFire != nil || p.NFPAReactivity != nil || p.NFPASpecial != ""
		},
		func(p *Partial) {
			out.NFPAHealth = p.NFPAHealth
			out.NFPAFire = p.NFPAFire
			out.NFPAReactivity = p.NFPAReactivity
			if p.NFPASpecial != "" {
				out.NFPASpecial = strPtr(p.NFPASpecial)
			}
		})
	pick(FieldSupplier,
		func(p *Partial) bool { return p.Supplier != "" },
		func(p *Partial) { out.Supplier = strPtr(p.Supplier) })
	pick(FieldSDSURL,
		func(p *Partial) bool { return p.SDSURL != "" },
		func(p *Partial) { out.SDSURL = strPtr(p.SDSURL) })

	for _, src := range []Source{SourceBuiltin, SourcePubChem, SourceSupplier} {
		if used[src] {
			out.Sources = append(out.Sources, src)
		}
	}
	return out
}

func strPtr(s string) *string {
	return &s
}
