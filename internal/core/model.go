package core

import "github.com/shopspring/decimal"

// Record is a single row in the sales ledger after ingestion-side
// normalization: Month is always one of the 12 canonical codes and Sales
// carries the null flag for rows whose value could not be parsed.
// A null Sales value is excluded from sums and averages but the row still
// counts toward RowCount.
type Record struct {
	Brand    string
	Category string // product category (optional column)
	SubBrand string // secondary product dimension (optional column)
	Month    string // canonical code: JAN..DEC
	Year     *int   // nil = unknown/unparseable year
	Area     string // optional column
	City     string // optional column
	StoreID  string
	Sales    decimal.NullDecimal
}

// Capabilities describes which optional columns the loaded dataset actually
// has. It is computed once at load time by the ingestion collaborator and
// consulted by the filter stage instead of re-probing per query.
type Capabilities struct {
	HasCategory bool
	HasSubBrand bool
	HasArea     bool
	HasCity     bool
	HasStoreID  bool
}

// Dataset is an immutable snapshot of the sales ledger. It is loaded once and
// treated as read-only for its lifetime; a reload is a wholesale replacement
// of the snapshot, never an in-place mutation.
type Dataset struct {
	Rows []Record
	Caps Capabilities
}
