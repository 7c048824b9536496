package repo

import "context"

// CompoundInfo is what one external metadata source knows about a CAS number.
// Zero values mean the source did not report the field.
type CompoundInfo struct {
	Name            string
	Formula         string
	MolecularWeight float64
	Supplier        string
	SDSURL          string
}

type PubChemRepo interface {
	// GetCompoundByCAS returns nil, nil when PubChem has no such compound.
	GetCompoundByCAS(ctx context.Context, cas string) (*CompoundInfo, error)
	SearchByName(ctx context.Context, q string, limit int) ([]*CompoundInfo, error)
}

type SupplierRepo interface {
	// GetProductByCAS returns nil, nil when the catalogue lists no product.
	GetProductByCAS(ctx context.Context, cas string) (*CompoundInfo, error)
}
