package simulator

// ErrorKind classifies a rejected SimulationRequest.
type ErrorKind string

const (
	KindInvalidRoofSize        ErrorKind = "invalid_roof_size"
	KindInvalidPanelEfficiency ErrorKind = "invalid_panel_efficiency"
	KindRoofTooSmall           ErrorKind = "roof_too_small"
)

// ValidationError reports why a request cannot be estimated.
// The caller is expected to fix the input and resubmit.
type ValidationError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is matches any ValidationError of the same kind, so callers can write
// errors.Is(err, simulator.ErrRoofTooSmall).
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidRoofSize = &ValidationError{
		Kind:    KindInvalidRoofSize,
		Message: "Roof size must be positive",
	}
	ErrInvalidPanelEfficiency = &ValidationError{
		Kind:    KindInvalidPanelEfficiency,
		Message: "Panel efficiency must be between 0 and 100",
	}
	ErrRoofTooSmall = &ValidationError{
		Kind:    KindRoofTooSmall,
		Message: "Roof size too small for any panels",
	}
)
