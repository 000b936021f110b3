package provisioning

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	accountIDRegex = regexp.MustCompile(`^[0-9]{12}$`)
	regionRegex    = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-[0-9]+$`)
)

// ValidationError represents a pre-flight validation error or warning.
type ValidationError struct {
	Field    string // Configuration field that failed validation
	Message  string // Human-readable error message
	Severity string // "error" or "warning"
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ve.Severity, ve.Field, ve.Message)
}

// IsError returns true if this is an error (not a warning).
func (ve ValidationError) IsError() bool {
	return ve.Severity == "error"
}

// ValidationPhase implements the Phase interface for pre-flight validation.
// It runs before any provider call and does not advance the stage.
type ValidationPhase struct{}

// NewValidationPhase creates a new validation phase.
func NewValidationPhase() *ValidationPhase {
	return &ValidationPhase{}
}

// Name implements the Phase interface.
func (vp *ValidationPhase) Name() string {
	return "validation"
}

// Reaches implements the Phase interface.
func (vp *ValidationPhase) Reaches() Stage {
	return StageStart
}

// Provision implements the Phase interface.
func (vp *ValidationPhase) Provision(ctx *Context) error {
	ctx.Observer.Printf("[Validation] Running pre-flight validation...")

	var errs []string
	for _, ve := range validate(ctx) {
		if ve.IsError() {
			LogValidationError(ctx.Observer, ve.Field, ve.Message)
			errs = append(errs, ve.Error())
			continue
		}
		LogValidationWarning(ctx.Observer, ve.Message)
	}

	if len(errs) > 0 {
		return ConfigDefect("pre-flight validation failed:\n  %s", strings.Join(errs, "\n  "))
	}

	ctx.Observer.Printf("[Validation] Validation passed")
	return nil
}

// validate runs all validation checks and returns any errors or warnings.
func validate(ctx *Context) []ValidationError {
	var errs []ValidationError

	// --- Target account ---

	if !accountIDRegex.MatchString(ctx.Target.Account) {
		errs = append(errs, ValidationError{
			Field:    "Target.Account",
			Message:  fmt.Sprintf("account ID %q must be 12 digits", ctx.Target.Account),
			Severity: "error",
		})
	}

	if !regionRegex.MatchString(ctx.Target.Region) {
		errs = append(errs, ValidationError{
			Field:    "Target.Region",
			Message:  fmt.Sprintf("region %q is not a valid AWS region (set aws.region or AWS_REGION)", ctx.Target.Region),
			Severity: "error",
		})
	}

	// --- Providers ---

	p := ctx.Providers
	if p.Identity == nil || p.Analytics == nil || p.Roles == nil || p.Rules == nil {
		errs = append(errs, ValidationError{
			Field:    "Providers",
			Message:  "identity, analytics, role and rule providers are required",
			Severity: "error",
		})
	}

	if ctx.Config == nil {
		return append(errs, ValidationError{
			Field:    "Config",
			Message:  "configuration is required",
			Severity: "error",
		})
	}

	if ctx.Config.Analytics.Storage.CustomerManaged() && p.Buckets == nil {
		errs = append(errs, ValidationError{
			Field:    "Providers.Buckets",
			Message:  "customer-managed storage requires a bucket provider",
			Severity: "error",
		})
	}

	// --- Configuration ---

	if err := ctx.Config.Validate(); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			errs = append(errs, ValidationError{
				Field:    "Config",
				Message:  line,
				Severity: "error",
			})
		}
	}

	for _, w := range ctx.Config.Warnings() {
		errs = append(errs, ValidationError{
			Field:    "Config",
			Message:  w,
			Severity: "warning",
		})
	}

	return errs
}
