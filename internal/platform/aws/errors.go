package aws

import (
	"errors"
	"slices"

	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	iottypes "github.com/aws/aws-sdk-go-v2/service/iot/types"
	analyticstypes "github.com/aws/aws-sdk-go-v2/service/iotanalytics/types"
	"github.com/aws/smithy-go"

	"github.com/imamik/iotflow/internal/provisioning"
)

// collisionCodes are error codes meaning the name is already taken.
var collisionCodes = []string{
	"ResourceAlreadyExistsException",
	"EntityAlreadyExists",
	"EntityAlreadyExistsException",
}

// providerError classifies an SDK error. Nil stays nil.
func providerError(service, operation string, err error) error {
	if err == nil {
		return nil
	}
	pe := &provisioning.ProviderError{
		Service:   service,
		Operation: operation,
		Collision: isAlreadyExists(err),
		Err:       err,
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		pe.Code = apiErr.ErrorCode()
	}
	return pe
}

// isAlreadyExists checks if the error reports an existing resource of the same name.
func isAlreadyExists(err error) bool {
	if err == nil {
		return false
	}

	// Check for typed SDK errors first
	var iotExists *iottypes.ResourceAlreadyExistsException
	if errors.As(err, &iotExists) {
		return true
	}

	var analyticsExists *analyticstypes.ResourceAlreadyExistsException
	if errors.As(err, &analyticsExists) {
		return true
	}

	var iamExists *iamtypes.EntityAlreadyExistsException
	if errors.As(err, &iamExists) {
		return true
	}

	// Fall back to API error code checking
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return slices.Contains(collisionCodes, apiErr.ErrorCode())
	}

	return false
}
