package orchestration

import (
	"fmt"
	"strings"

	"github.com/imamik/iotflow/internal/config"
	"github.com/imamik/iotflow/internal/provisioning"
	"github.com/imamik/iotflow/internal/provisioning/analytics"
	"github.com/imamik/iotflow/internal/provisioning/credentials"
	"github.com/imamik/iotflow/internal/provisioning/role"
)

// PlannedRequest is one provider call or local write a run would make.
type PlannedRequest struct {
	Phase     string
	Operation string
	Resource  string
	Detail    string
}

// Plan returns the requests a run of cfg against target would make, in
// order, without calling any provider. Locators and policy documents are
// rendered exactly as they would be sent.
func Plan(cfg *config.Config, target provisioning.CallerIdentity) ([]PlannedRequest, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	var plan []PlannedRequest
	add := func(phase, op, resource, detail string) {
		plan = append(plan, PlannedRequest{Phase: phase, Operation: op, Resource: resource, Detail: detail})
	}

	// Identity
	id := cfg.Identity
	add("identity", "iot:CreateThing", id.ThingName, "")
	add("identity", "iot:CreateKeysAndCertificate", "", "setAsActive=true")
	add("identity", "write", id.CertsDir, strings.Join([]string{
		credentials.CertificateFile, credentials.TrustAnchorFile, credentials.PrivateKeyFile,
	}, ", "))
	add("identity", "iot:AttachThingPrincipal", id.ThingName, "")
	if id.CreatePolicy {
		add("identity", "iot:CreatePolicy", id.PolicyName, id.PolicyDocument)
	}
	add("identity", "iot:AttachPolicy", id.PolicyName, "")

	// Analytics
	spec := analytics.SpecFromConfig(cfg.Analytics)
	chain := analytics.BuildActivityChain(spec.ChannelName, spec.DatastoreName, spec.RemoveAttributes)
	if err := analytics.ValidateActivityChain(chain); err != nil {
		return nil, err
	}
	if spec.Storage.Mode == provisioning.StorageCustomerManaged {
		add("analytics", "s3:EnsureBucket", spec.Storage.Bucket, "")
	}
	add("analytics", "iotanalytics:CreateChannel", spec.ChannelName, storageDetail(spec))
	add("analytics", "iotanalytics:CreateDatastore", spec.DatastoreName, storageDetail(spec))
	add("analytics", "iotanalytics:CreatePipeline", spec.PipelineName, activityNames(chain))
	add("analytics", "iotanalytics:CreateDataset", spec.DatasetName, spec.Schedule+": "+spec.DatasetQuery)

	// Role
	resource, err := role.ChannelResource(target, spec.ChannelName)
	if err != nil {
		return nil, err
	}
	trust, err := role.TrustPolicy()
	if err != nil {
		return nil, err
	}
	policy, err := role.ChannelWritePolicy(resource)
	if err != nil {
		return nil, err
	}
	add("role", "iam:CreateRole", cfg.Role.Path+cfg.Role.RoleName, trust)
	add("role", "iam:CreatePolicy", cfg.Role.Path+cfg.Role.PolicyName, policy)
	add("role", "iam:AttachRolePolicy", cfg.Role.RoleName, cfg.Role.PolicyName)

	// Rule
	add("rule", "iot:CreateTopicRule", cfg.Rule.RuleName,
		fmt.Sprintf("%s -> %s (sql %s)", cfg.Rule.SQL, spec.ChannelName, cfg.Rule.SQLVersion))

	return plan, nil
}

func storageDetail(spec provisioning.AnalyticsSpec) string {
	if spec.Storage.Mode == provisioning.StorageCustomerManaged {
		return fmt.Sprintf("s3://%s/%s, retention %d days", spec.Storage.Bucket, spec.Storage.KeyPrefix, spec.RetentionDays)
	}
	return fmt.Sprintf("service-managed, retention %d days", spec.RetentionDays)
}

func activityNames(chain []provisioning.Activity) string {
	names := make([]string, len(chain))
	for i, a := range chain {
		names[i] = a.Name
	}
	return strings.Join(names, " -> ")
}
