package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
)

var (
	// thingNameRegex matches the IoT thing name charset.
	thingNameRegex = regexp.MustCompile(`^[a-zA-Z0-9:_-]{1,128}$`)

	// analyticsNameRegex matches IoT Analytics and topic rule names.
	analyticsNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{1,128}$`)

	// iamNameRegex matches IAM role and policy names (and IoT policy names).
	iamNameRegex = regexp.MustCompile(`^[\w+=,.@-]{1,128}$`)

	// iamPathRegex matches IAM paths: "/" or "/segment/.../".
	iamPathRegex = regexp.MustCompile(`^/([\x21-\x7E]*/)?$`)
)

// Supported topic rule SQL versions.
var validSQLVersions = []string{"2015-10-08", "2016-03-23", "beta"}

// Validate checks that every named resource and document is well-formed.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []error

	// Identity
	if !thingNameRegex.MatchString(c.Identity.ThingName) {
		errs = append(errs, fmt.Errorf("identity.thingName %q must be 1-128 characters of [a-zA-Z0-9:_-]", c.Identity.ThingName))
	}
	if !iamNameRegex.MatchString(c.Identity.PolicyName) {
		errs = append(errs, fmt.Errorf("identity.policyName %q is not a valid policy name", c.Identity.PolicyName))
	}
	if c.Identity.CreatePolicy && !json.Valid([]byte(c.Identity.PolicyDocument)) {
		errs = append(errs, errors.New("identity.policyDocument must be valid JSON when identity.createPolicy is set"))
	}
	if strings.TrimSpace(c.Identity.CertsDir) == "" {
		errs = append(errs, errors.New("identity.certsDir is required"))
	}

	// Analytics
	names := map[string]string{
		"analytics.channelName":   c.Analytics.ChannelName,
		"analytics.datastoreName": c.Analytics.DatastoreName,
		"analytics.pipelineName":  c.Analytics.PipelineName,
		"analytics.datasetName":   c.Analytics.DatasetName,
		"rule.ruleName":           c.Rule.RuleName,
	}
	for _, field := range slices.Sorted(maps.Keys(names)) {
		if err := validateAnalyticsName(field, names[field]); err != nil {
			errs = append(errs, err)
		}
	}
	if strings.TrimSpace(c.Analytics.DatasetQuery) == "" {
		errs = append(errs, errors.New("analytics.datasetQuery is required"))
	}
	if !isScheduleExpression(c.Analytics.Schedule) {
		errs = append(errs, fmt.Errorf("analytics.schedule %q must be a cron(...) or rate(...) expression", c.Analytics.Schedule))
	}
	if c.Analytics.RetentionDays < 1 {
		errs = append(errs, errors.New("analytics.retentionDays must be at least 1"))
	}
	if len(c.Analytics.RemoveAttributes) == 0 {
		errs = append(errs, errors.New("analytics.removeAttributes needs at least one attribute"))
	}
	for i, attr := range c.Analytics.RemoveAttributes {
		if strings.TrimSpace(attr) == "" {
			errs = append(errs, fmt.Errorf("analytics.removeAttributes[%d] must not be empty", i))
		}
	}
	if len(c.Analytics.RemoveAttributes) > 50 {
		errs = append(errs, errors.New("analytics.removeAttributes supports at most 50 attributes"))
	}
	errs = append(errs, c.Analytics.Storage.validate()...)

	// Role
	if len(c.Role.RoleName) > 64 || !iamNameRegex.MatchString(c.Role.RoleName) {
		errs = append(errs, fmt.Errorf("role.roleName %q is not a valid IAM role name", c.Role.RoleName))
	}
	if !iamNameRegex.MatchString(c.Role.PolicyName) {
		errs = append(errs, fmt.Errorf("role.policyName %q is not a valid IAM policy name", c.Role.PolicyName))
	}
	if !iamPathRegex.MatchString(c.Role.Path) {
		errs = append(errs, fmt.Errorf("role.path %q must begin and end with '/'", c.Role.Path))
	}

	// Rule
	if strings.TrimSpace(c.Rule.SQL) == "" {
		errs = append(errs, errors.New("rule.sql is required"))
	}
	if !slices.Contains(validSQLVersions, c.Rule.SQLVersion) {
		errs = append(errs, fmt.Errorf("rule.sqlVersion %q must be one of: %v", c.Rule.SQLVersion, validSQLVersions))
	}

	return errors.Join(errs...)
}

// Warnings reports settings that are valid but probably not intended.
func (c *Config) Warnings() []string {
	var warnings []string

	if !strings.Contains(c.Analytics.DatasetQuery, c.Analytics.DatastoreName) {
		warnings = append(warnings, fmt.Sprintf("analytics.datasetQuery does not read from datastore %q", c.Analytics.DatastoreName))
	}
	if !strings.Contains(strings.ToUpper(c.Rule.SQL), "FROM") {
		warnings = append(warnings, "rule.sql has no FROM clause; the rule will not match any topic")
	}
	if c.Identity.CreatePolicy && strings.Contains(c.Identity.PolicyDocument, `"*"`) {
		warnings = append(warnings, "identity.policyDocument grants access to all resources")
	}

	return warnings
}

func (s StorageConfig) validate() []error {
	switch s.Mode {
	case StorageServiceManaged:
		return nil
	case StorageCustomerManaged:
		var errs []error
		if s.Bucket == "" {
			errs = append(errs, errors.New("analytics.storage.bucket is required for customer-managed storage"))
		}
		if s.RoleARN == "" {
			errs = append(errs, errors.New("analytics.storage.roleArn is required for customer-managed storage"))
		}
		return errs
	default:
		return []error{fmt.Errorf("analytics.storage.mode must be one of: [%s %s]", StorageServiceManaged, StorageCustomerManaged)}
	}
}

func validateAnalyticsName(field, name string) error {
	if !analyticsNameRegex.MatchString(name) || strings.HasPrefix(name, "__") {
		return fmt.Errorf("%s %q must be 1-128 characters of [a-zA-Z0-9_] and must not start with '__'", field, name)
	}
	return nil
}

func isScheduleExpression(expr string) bool {
	if !strings.HasSuffix(expr, ")") {
		return false
	}
	return (strings.HasPrefix(expr, "cron(") && len(expr) > len("cron()")) ||
		(strings.HasPrefix(expr, "rate(") && len(expr) > len("rate()"))
}
