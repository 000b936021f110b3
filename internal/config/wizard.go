package config

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
)

// WizardResult holds the user's choices from the wizard.
type WizardResult struct {
	Region        string
	ThingName     string
	CertsDir      string
	CreatePolicy  bool
	ChannelName   string
	DatastoreName string
	Schedule      string
	RetentionDays string
	Topic         string
}

// RunWizard asks for the handful of values that usually differ between
// devices. Everything else keeps its default.
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		// Defaults
		ThingName:     DefaultThingName,
		CertsDir:      DefaultCertsDir,
		ChannelName:   DefaultChannelName,
		DatastoreName: DefaultDatastoreName,
		Schedule:      DefaultSchedule,
		RetentionDays: strconv.Itoa(DefaultRetentionDays),
		Topic:         DefaultTelemetryTopic,
	}

	form := huh.NewForm(
		// Target
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("AWS region").
				Description("Leave on 'environment' to use AWS_REGION or the active profile").
				Options(
					huh.NewOption("environment", ""),
					huh.NewOption("Frankfurt (eu-central-1)", "eu-central-1"),
					huh.NewOption("Ireland (eu-west-1)", "eu-west-1"),
					huh.NewOption("N. Virginia (us-east-1)", "us-east-1"),
					huh.NewOption("Oregon (us-west-2)", "us-west-2"),
					huh.NewOption("Tokyo (ap-northeast-1)", "ap-northeast-1"),
				).
				Value(&result.Region),
		),

		// Device identity
		huh.NewGroup(
			huh.NewInput().
				Title("Thing name").
				Description("The device name registered in AWS IoT").
				Value(&result.ThingName).
				Validate(validateThingName),
			huh.NewInput().
				Title("Certificate directory").
				Description("Where the device certificate, private key and root CA are written").
				Value(&result.CertsDir).
				Validate(required("certificate directory")),
			huh.NewConfirm().
				Title("Create the device policy?").
				Description("No: attach an existing policy named " + DefaultThingPolicyName).
				Value(&result.CreatePolicy),
		),

		// Analytics
		huh.NewGroup(
			huh.NewInput().
				Title("Telemetry topic").
				Description("MQTT topic the device publishes to").
				Value(&result.Topic).
				Validate(required("topic")),
			huh.NewInput().
				Title("Channel name").
				Value(&result.ChannelName).
				Validate(validateAnalyticsInput),
			huh.NewInput().
				Title("Datastore name").
				Value(&result.DatastoreName).
				Validate(validateAnalyticsInput),
			huh.NewInput().
				Title("Dataset schedule").
				Description("cron(...) or rate(...)").
				Value(&result.Schedule).
				Validate(validateSchedule),
			huh.NewInput().
				Title("Retention in days").
				Value(&result.RetentionDays).
				Validate(validateRetention),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}

	return result, nil
}

// ToConfig converts the wizard result to a Config on top of the defaults.
// The dataset query and rule SQL follow the chosen datastore and topic.
func (r *WizardResult) ToConfig() *Config {
	cfg := Default()
	cfg.AWS.Region = r.Region

	cfg.Identity.ThingName = r.ThingName
	cfg.Identity.CertsDir = r.CertsDir
	cfg.Identity.CreatePolicy = r.CreatePolicy

	cfg.Analytics.ChannelName = r.ChannelName
	cfg.Analytics.DatastoreName = r.DatastoreName
	cfg.Analytics.Schedule = r.Schedule
	if days, err := strconv.Atoi(r.RetentionDays); err == nil {
		cfg.Analytics.RetentionDays = int32(days)
	}
	cfg.Analytics.DatasetQuery = strings.ReplaceAll(DefaultDatasetQuery, DefaultDatastoreName, r.DatastoreName)
	cfg.Rule.SQL = strings.ReplaceAll(DefaultRuleSQL, DefaultTelemetryTopic, r.Topic)

	return cfg
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func validateThingName(s string) error {
	if !thingNameRegex.MatchString(s) {
		return errors.New("use 1-128 characters of [a-zA-Z0-9:_-]")
	}
	return nil
}

func validateAnalyticsInput(s string) error {
	return validateAnalyticsName("name", s)
}

func validateSchedule(s string) error {
	if !isScheduleExpression(s) {
		return errors.New("must be a cron(...) or rate(...) expression")
	}
	return nil
}

func validateRetention(s string) error {
	days, err := strconv.Atoi(s)
	if err != nil || days < 1 || days > 36500 {
		return errors.New("must be a whole number of days between 1 and 36500")
	}
	return nil
}
