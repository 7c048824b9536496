package lookup

type Source string

const (
	SourceBuiltin  Source = "builtin"
	SourcePubChem  Source = "pubchem"
	SourceSupplier Source = "supplier"
)

type ChemicalData struct {
	CASNumber       string   `json:"casNumber"`
	Name            string   `json:"name"`
	Formula         *string  `json:"formula,omitempty"`
	MolecularWeight *float64 `json:"molecularWeight,omitempty"`
	NFPAHealth      *int8    `json:"nfpaHealth,omitempty"`
	NFPAFire        *int8    `json:"nfpaFire,omitempty"`
	NFPAReactivity  *int8    `json:"nfpaReactivity,omitempty"`
	NFPASpecial     *string  `json:"nfpaSpecial,omitempty"`
	SDSURL          *string  `json:"sdsUrl,omitempty"`
	Supplier        *string  `json:"supplier,omitempty"`
	// Sources lists every source that contributed at least one field.
	Sources []Source `json:"sources"`
}

type SearchResult struct {
	Name            string   `json:"name"`
	Formula         string   `json:"formula"`
	MolecularWeight *float64 `json:"molecularWeight"`
	CASNumber       string   `json:"casNumber,omitempty"`
}

type SDSLinks struct {
	SigmaAldrich string `json:"sigmaAldrich"`
	Fisher       string `json:"fisher"`
	VWR          string `json:"vwr"`
	Spectrum     string `json:"spectrum"`
}

// Partial is what a single source reported. Empty strings and nil pointers
// mean the source has no value for the field.
type Partial struct {
	Source          Source
	Name            string
	Formula         string
	MolecularWeight *float64
	NFPAHealth      *int8
	NFPAFire        *int8
	NFPAReactivity  *int8
	NFPASpecial     string
	SDSURL          string
	Supplier        string
}
