package provisioning

import (
	"errors"
	"fmt"
)

// Error classes. Use errors.Is to test a returned error against them.
var (
	// ErrProviderRejected means the provider refused a request.
	ErrProviderRejected = errors.New("provider rejected request")

	// ErrNameCollision means a resource with the requested name already exists.
	// Every name collision is also an ErrProviderRejected.
	ErrNameCollision = errors.New("resource already exists")

	// ErrLocalIO means the local filesystem could not be prepared or written.
	ErrLocalIO = errors.New("local io failure")

	// ErrConfigDefect means a locator or document was invalid before it was sent.
	ErrConfigDefect = errors.New("configuration defect")
)

// ProviderError is a classified error returned by a provider adapter.
type ProviderError struct {
	Service   string // e.g. "iot", "iam"
	Operation string // e.g. "CreateThing"
	Code      string // provider error code, if known
	Collision bool   // the provider reported the name as taken
	Err       error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s %s: %s: %v", e.Service, e.Operation, e.Code, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Service, e.Operation, e.Err)
}

// Unwrap returns the underlying provider error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is matches ErrProviderRejected, and ErrNameCollision for collisions.
func (e *ProviderError) Is(target error) bool {
	switch target {
	case ErrProviderRejected:
		return true
	case ErrNameCollision:
		return e.Collision
	}
	return false
}

// StepError identifies the step that failed and carries the original cause.
type StepError struct {
	Phase    string
	Step     string
	Resource string
	Err      error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s: %s %q: %v", e.Phase, e.Step, e.Resource, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Phase, e.Step, e.Err)
}

// Unwrap returns the original cause.
func (e *StepError) Unwrap() error {
	return e.Err
}

// ConfigDefect returns an error classified as ErrConfigDefect.
func ConfigDefect(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfigDefect, fmt.Sprintf(format, args...))
}

// Classify returns a short label for the class of err, for logs and metrics.
func Classify(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNameCollision):
		return "name_collision"
	case errors.Is(err, ErrProviderRejected):
		return "provider_rejected"
	case errors.Is(err, ErrLocalIO):
		return "local_io"
	case errors.Is(err, ErrConfigDefect):
		return "config_defect"
	default:
		return "error"
	}
}

func asStepError(err error) (*StepError, bool) {
	var se *StepError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
