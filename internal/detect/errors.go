package detect

import "fmt"

// InternalError is the detector framework's one error kind: a detector
// panicked while inspecting a path. The framework drops every finding that
// detector produced for the program, returns this error for the caller to
// log, and keeps going with the others.
type InternalError struct {
	DetectorID string
	Cause      any
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("detector %s: %v", e.DetectorID, e.Cause)
}

func newInternalError(detectorID string, cause any) error {
	return fmt.Errorf("detect: %w", &InternalError{DetectorID: detectorID, Cause: cause})
}
