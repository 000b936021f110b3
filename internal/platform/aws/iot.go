package aws

import (
	"context"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iot"
	"github.com/aws/aws-sdk-go-v2/service/iot/types"

	"github.com/imamik/iotflow/internal/provisioning"
)

// dataEndpointType selects the ATS-signed data endpoint.
const dataEndpointType = "iot:Data-ATS"

// IoTAPI is the subset of the AWS IoT client used here.
type IoTAPI interface {
	CreateThing(ctx context.Context, in *iot.CreateThingInput, optFns ...func(*iot.Options)) (*iot.CreateThingOutput, error)
	CreateKeysAndCertificate(ctx context.Context, in *iot.CreateKeysAndCertificateInput, optFns ...func(*iot.Options)) (*iot.CreateKeysAndCertificateOutput, error)
	AttachThingPrincipal(ctx context.Context, in *iot.AttachThingPrincipalInput, optFns ...func(*iot.Options)) (*iot.AttachThingPrincipalOutput, error)
	CreatePolicy(ctx context.Context, in *iot.CreatePolicyInput, optFns ...func(*iot.Options)) (*iot.CreatePolicyOutput, error)
	AttachPolicy(ctx context.Context, in *iot.AttachPolicyInput, optFns ...func(*iot.Options)) (*iot.AttachPolicyOutput, error)
	DescribeEndpoint(ctx context.Context, in *iot.DescribeEndpointInput, optFns ...func(*iot.Options)) (*iot.DescribeEndpointOutput, error)
	CreateTopicRule(ctx context.Context, in *iot.CreateTopicRuleInput, optFns ...func(*iot.Options)) (*iot.CreateTopicRuleOutput, error)
}

// IoTClient implements provisioning.IdentityService and
// provisioning.RuleService on AWS IoT.
type IoTClient struct {
	api IoTAPI
}

// NewIoTClient wraps an AWS IoT API client.
func NewIoTClient(api IoTAPI) *IoTClient {
	return &IoTClient{api: api}
}

// CreateThing registers a thing.
func (c *IoTClient) CreateThing(ctx context.Context, name string) (*provisioning.Thing, error) {
	out, err := c.api.CreateThing(ctx, &iot.CreateThingInput{
		ThingName: sdkaws.String(name),
	})
	if err != nil {
		return nil, providerError("iot", "CreateThing", err)
	}
	return &provisioning.Thing{
		Name: sdkaws.ToString(out.ThingName),
		ARN:  sdkaws.ToString(out.ThingArn),
		ID:   sdkaws.ToString(out.ThingId),
	}, nil
}

// CreateKeysAndCertificate issues a key pair and a certificate signed by AWS IoT.
func (c *IoTClient) CreateKeysAndCertificate(ctx context.Context, setAsActive bool) (*provisioning.DeviceCredential, error) {
	out, err := c.api.CreateKeysAndCertificate(ctx, &iot.CreateKeysAndCertificateInput{
		SetAsActive: setAsActive,
	})
	if err != nil {
		return nil, providerError("iot", "CreateKeysAndCertificate", err)
	}
	cred := &provisioning.DeviceCredential{
		CertificateID:  sdkaws.ToString(out.CertificateId),
		CertificateARN: sdkaws.ToString(out.CertificateArn),
		CertificatePEM: sdkaws.ToString(out.CertificatePem),
	}
	if out.KeyPair != nil {
		cred.PrivateKeyPEM = sdkaws.ToString(out.KeyPair.PrivateKey)
		cred.PublicKeyPEM = sdkaws.ToString(out.KeyPair.PublicKey)
	}
	return cred, nil
}

// AttachThingPrincipal binds a certificate to a thing.
func (c *IoTClient) AttachThingPrincipal(ctx context.Context, thingName, principalARN string) error {
	_, err := c.api.AttachThingPrincipal(ctx, &iot.AttachThingPrincipalInput{
		ThingName: sdkaws.String(thingName),
		Principal: sdkaws.String(principalARN),
	})
	return providerError("iot", "AttachThingPrincipal", err)
}

// CreatePolicy creates an IoT policy and returns its ARN.
func (c *IoTClient) CreatePolicy(ctx context.Context, name, document string) (string, error) {
	out, err := c.api.CreatePolicy(ctx, &iot.CreatePolicyInput{
		PolicyName:     sdkaws.String(name),
		PolicyDocument: sdkaws.String(document),
	})
	if err != nil {
		return "", providerError("iot", "CreatePolicy", err)
	}
	return sdkaws.ToString(out.PolicyArn), nil
}

// AttachPolicy attaches an IoT policy to a certificate.
func (c *IoTClient) AttachPolicy(ctx context.Context, policyName, targetARN string) error {
	_, err := c.api.AttachPolicy(ctx, &iot.AttachPolicyInput{
		PolicyName: sdkaws.String(policyName),
		Target:     sdkaws.String(targetARN),
	})
	return providerError("iot", "AttachPolicy", err)
}

// DescribeDataEndpoint returns the host devices connect to over MQTT.
func (c *IoTClient) DescribeDataEndpoint(ctx context.Context) (string, error) {
	out, err := c.api.DescribeEndpoint(ctx, &iot.DescribeEndpointInput{
		EndpointType: sdkaws.String(dataEndpointType),
	})
	if err != nil {
		return "", providerError("iot", "DescribeEndpoint", err)
	}
	return sdkaws.ToString(out.EndpointAddress), nil
}

// CreateTopicRule creates a rule with a single IoT Analytics action.
func (c *IoTClient) CreateTopicRule(ctx context.Context, rule provisioning.TopicRule) error {
	payload := &types.TopicRulePayload{
		Sql:              sdkaws.String(rule.SQL),
		AwsIotSqlVersion: sdkaws.String(rule.SQLVersion),
		RuleDisabled:     sdkaws.Bool(rule.Disabled),
		Actions: []types.Action{{
			IotAnalytics: &types.IotAnalyticsAction{
				ChannelName: sdkaws.String(rule.ChannelName),
				BatchMode:   sdkaws.Bool(rule.BatchMode),
				RoleArn:     sdkaws.String(rule.RoleARN),
			},
		}},
	}
	if rule.Description != "" {
		payload.Description = sdkaws.String(rule.Description)
	}

	_, err := c.api.CreateTopicRule(ctx, &iot.CreateTopicRuleInput{
		RuleName:         sdkaws.String(rule.Name),
		TopicRulePayload: payload,
	})
	return providerError("iot", "CreateTopicRule", err)
}
