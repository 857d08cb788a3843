package postgres

import (
	"github.com/oklog/ulid/v2"
)

// ULIDGenerator generates ULID run IDs. Recompute and reconciliation runs
// are tagged with one so audit rows of the same run can be correlated.
type ULIDGenerator struct{}

// NewULIDGenerator creates a new ULIDGenerator.
func NewULIDGenerator() *ULIDGenerator {
	return &ULIDGenerator{}
}

// Generate generates a new ULID.
func (g *ULIDGenerator) Generate() string {
	return ulid.Make().String()
}
