package dispute

import "fmt"

// ValidationError reports malformed local input. Beyond presence of the
// required text fields validation is left to the backend.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}
