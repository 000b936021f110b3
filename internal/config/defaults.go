package config

// Defaults for the ESP32 traffic-data device.
const (
	DefaultThingName       = "ESP32DevKit-C"
	DefaultThingPolicyName = "ESP32Policy"
	DefaultCertsDir        = "main/certs"
	DefaultChannelName     = "ESP32TrafficDataChannel"
	DefaultDatastoreName   = "ESP32TrafficDataStore"
	DefaultPipelineName    = "ESP32TrafficDataPipeline"
	DefaultDatasetName     = "ESP32TrafficDataSet"
	DefaultSchedule        = "cron(0 23 * * ? *)"
	DefaultRetentionDays   = 365
	DefaultRoleName        = "IoTAnalyticsRuleRole"
	DefaultRolePolicyName  = "IoTAnalyticsRulePolicy"
	DefaultRolePath        = "/service-role/"
	DefaultRuleName        = "ESP32IoTAnalyticsRule"
	DefaultRuleSQLVersion  = "2016-03-23"
	DefaultTelemetryTopic  = "esp32/traffic/data"
	DefaultRuleDescription = "Routes ESP32 traffic telemetry into IoT Analytics"
)

// DefaultRuleSQL selects every telemetry message and stamps it with the
// receive time in the device's local timezone.
const DefaultRuleSQL = `SELECT *, parse_time("DD/MM/YYYY HH:mm:ss", timestamp(), "Europe/Berlin") as my_timestamp, timestamp() as unixtime FROM '` + DefaultTelemetryTopic + `'`

// DefaultDatasetQuery reads the latest speed samples from the datastore.
const DefaultDatasetQuery = `SELECT __dt, my_timestamp, flowSegmentData.freeFlowSpeed, flowSegmentData.currentSpeed FROM ` + DefaultDatastoreName + ` ORDER BY my_timestamp DESC`

// DefaultThingPolicyDocument lets the device connect and exchange messages.
const DefaultThingPolicyDocument = `{
  "Version": "2012-10-17",
  "Statement": [
    {
      "Effect": "Allow",
      "Action": [
        "iot:Connect",
        "iot:Publish",
        "iot:Subscribe",
        "iot:Receive"
      ],
      "Resource": [
        "*"
      ]
    }
  ]
}`

// Default returns the full default configuration.
func Default() *Config {
	return &Config{
		Identity: IdentityConfig{
			ThingName:      DefaultThingName,
			PolicyName:     DefaultThingPolicyName,
			PolicyDocument: DefaultThingPolicyDocument,
			CertsDir:       DefaultCertsDir,
		},
		Analytics: AnalyticsConfig{
			ChannelName:      DefaultChannelName,
			DatastoreName:    DefaultDatastoreName,
			PipelineName:     DefaultPipelineName,
			DatasetName:      DefaultDatasetName,
			DatasetQuery:     DefaultDatasetQuery,
			Schedule:         DefaultSchedule,
			RetentionDays:    DefaultRetentionDays,
			RemoveAttributes: []string{"@version", "coordinates"},
			Storage: StorageConfig{
				Mode: StorageServiceManaged,
			},
		},
		Role: RoleConfig{
			RoleName:   DefaultRoleName,
			PolicyName: DefaultRolePolicyName,
			Path:       DefaultRolePath,
		},
		Rule: RuleConfig{
			RuleName:    DefaultRuleName,
			SQL:         DefaultRuleSQL,
			SQLVersion:  DefaultRuleSQLVersion,
			Description: DefaultRuleDescription,
		},
	}
}
