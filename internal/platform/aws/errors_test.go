package aws

import (
	"errors"
	"fmt"
	"testing"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	iamtypes "github.com/aws/aws-sdk-go-v2/service/iam/types"
	iottypes "github.com/aws/aws-sdk-go-v2/service/iot/types"
	analyticstypes "github.com/aws/aws-sdk-go-v2/service/iotanalytics/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/iotflow/internal/provisioning"
)

func TestIsAlreadyExists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"iot typed", &iottypes.ResourceAlreadyExistsException{Message: sdkaws.String("exists")}, true},
		{"iotanalytics typed", &analyticstypes.ResourceAlreadyExistsException{Message: sdkaws.String("exists")}, true},
		{"iam typed", &iamtypes.EntityAlreadyExistsException{Message: sdkaws.String("exists")}, true},
		{"wrapped typed", fmt.Errorf("call: %w", &iottypes.ResourceAlreadyExistsException{}), true},
		{"generic code", &smithy.GenericAPIError{Code: "EntityAlreadyExists"}, true},
		{"generic other code", &smithy.GenericAPIError{Code: "AccessDenied"}, false},
		{"iot invalid request", &iottypes.InvalidRequestException{Message: sdkaws.String("bad")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, isAlreadyExists(tt.err))
		})
	}
}

func TestProviderError(t *testing.T) {
	t.Parallel()

	t.Run("nil stays nil", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, providerError("iot", "CreateThing", nil))
	})

	t.Run("rejection", func(t *testing.T) {
		t.Parallel()
		err := providerError("iam", "CreateRole", &smithy.GenericAPIError{Code: "AccessDenied", Message: "no"})

		var pe *provisioning.ProviderError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "iam", pe.Service)
		assert.Equal(t, "CreateRole", pe.Operation)
		assert.Equal(t, "AccessDenied", pe.Code)
		assert.False(t, pe.Collision)
		assert.ErrorIs(t, err, provisioning.ErrProviderRejected)
		assert.NotErrorIs(t, err, provisioning.ErrNameCollision)
	})

	t.Run("collision", func(t *testing.T) {
		t.Parallel()
		err := providerError("iot", "CreateThing", &iottypes.ResourceAlreadyExistsException{Message: sdkaws.String("exists")})

		assert.ErrorIs(t, err, provisioning.ErrNameCollision)
		assert.ErrorIs(t, err, provisioning.ErrProviderRejected)
		assert.Equal(t, "name_collision", provisioning.Classify(err))
	})
}
