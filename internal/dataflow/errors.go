package dataflow

import "fmt"

// CapError is the dataflow engine's one error kind: raised only for
// logging purposes when a field's set widens to ⊤ because it exceeded the
// widening cap. The engine never stops or rejects anything because of it —
// Run keeps going and simply records one of these per occurrence.
type CapError struct {
	Field   Field
	BlockID int
}

func (e *CapError) Error() string {
	return fmt.Sprintf("block %d: field %s exceeded the widening cap, widened to top", e.BlockID, e.Field)
}

func newCapError(field Field, blockID int) error {
	return fmt.Errorf("dataflow: %w", &CapError{Field: field, BlockID: blockID})
}
