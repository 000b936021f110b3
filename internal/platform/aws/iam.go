package aws

import (
	"context"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"

	"github.com/imamik/iotflow/internal/provisioning"
)

// IAMAPI is the subset of the IAM client used here.
type IAMAPI interface {
	CreateRole(ctx context.Context, in *iam.CreateRoleInput, optFns ...func(*iam.Options)) (*iam.CreateRoleOutput, error)
	CreatePolicy(ctx context.Context, in *iam.CreatePolicyInput, optFns ...func(*iam.Options)) (*iam.CreatePolicyOutput, error)
	AttachRolePolicy(ctx context.Context, in *iam.AttachRolePolicyInput, optFns ...func(*iam.Options)) (*iam.AttachRolePolicyOutput, error)
}

// IAMClient implements provisioning.RoleService on AWS IAM.
type IAMClient struct {
	api IAMAPI
}

// NewIAMClient wraps an IAM API client.
func NewIAMClient(api IAMAPI) *IAMClient {
	return &IAMClient{api: api}
}

// CreateRole creates a role with the given trust policy.
func (c *IAMClient) CreateRole(ctx context.Context, name, path, trustPolicy string) (*provisioning.Role, error) {
	out, err := c.api.CreateRole(ctx, &iam.CreateRoleInput{
		RoleName:                 sdkaws.String(name),
		Path:                     optionalString(path),
		AssumeRolePolicyDocument: sdkaws.String(trustPolicy),
	})
	if err != nil {
		return nil, providerError("iam", "CreateRole", err)
	}
	role := &provisioning.Role{Name: name}
	if out.Role != nil {
		role.ID = sdkaws.ToString(out.Role.RoleId)
		role.ARN = sdkaws.ToString(out.Role.Arn)
	}
	return role, nil
}

// CreatePolicy creates a customer managed policy and returns its ARN.
func (c *IAMClient) CreatePolicy(ctx context.Context, name, path, document string) (string, error) {
	out, err := c.api.CreatePolicy(ctx, &iam.CreatePolicyInput{
		PolicyName:     sdkaws.String(name),
		Path:           optionalString(path),
		PolicyDocument: sdkaws.String(document),
	})
	if err != nil {
		return "", providerError("iam", "CreatePolicy", err)
	}
	if out.Policy == nil {
		return "", nil
	}
	return sdkaws.ToString(out.Policy.Arn), nil
}

// AttachRolePolicy attaches a managed policy to a role.
func (c *IAMClient) AttachRolePolicy(ctx context.Context, roleName, policyARN string) error {
	_, err := c.api.AttachRolePolicy(ctx, &iam.AttachRolePolicyInput{
		RoleName:  sdkaws.String(roleName),
		PolicyArn: sdkaws.String(policyARN),
	})
	return providerError("iam", "AttachRolePolicy", err)
}
