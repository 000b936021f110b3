package testing

import (
	"slices"

	"github.com/imamik/iotflow/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a new ConfigBuilder starting from config.Default.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{cfg: *config.Default()}
}

// WithCertsDir sets the directory receiving device credentials.
func (b *ConfigBuilder) WithCertsDir(dir string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Identity.CertsDir = dir
	return newBuilder
}

// WithThing sets the thing and its policy.
func (b *ConfigBuilder) WithThing(thingName, policyName string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Identity.ThingName = thingName
	newBuilder.cfg.Identity.PolicyName = policyName
	return newBuilder
}

// WithCreatePolicy makes the run create the thing policy from document.
func (b *ConfigBuilder) WithCreatePolicy(document string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Identity.CreatePolicy = true
	newBuilder.cfg.Identity.PolicyDocument = document
	return newBuilder
}

// WithChannel sets the channel name.
func (b *ConfigBuilder) WithChannel(name string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Analytics.ChannelName = name
	return newBuilder
}

// WithRemoveAttributes sets the attributes dropped by the pipeline.
func (b *ConfigBuilder) WithRemoveAttributes(attrs ...string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Analytics.RemoveAttributes = attrs
	return newBuilder
}

// WithCustomerManagedStorage stores channel and datastore data in bucket.
func (b *ConfigBuilder) WithCustomerManagedStorage(bucket, roleARN string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Analytics.Storage = config.StorageConfig{
		Mode:    config.StorageCustomerManaged,
		Bucket:  bucket,
		RoleARN: roleARN,
	}
	return newBuilder
}

// WithRole sets the execution role and its policy.
func (b *ConfigBuilder) WithRole(roleName, policyName string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Role.RoleName = roleName
	newBuilder.cfg.Role.PolicyName = policyName
	return newBuilder
}

// WithRule sets the topic rule name and SQL.
func (b *ConfigBuilder) WithRule(ruleName, sql string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Rule.RuleName = ruleName
	newBuilder.cfg.Rule.SQL = sql
	return newBuilder
}

// Build returns a copy of the built configuration.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.clone().cfg
	return &cfg
}

func (b *ConfigBuilder) clone() *ConfigBuilder {
	cfg := b.cfg
	cfg.Analytics.RemoveAttributes = slices.Clone(b.cfg.Analytics.RemoveAttributes)
	return &ConfigBuilder{cfg: cfg}
}
