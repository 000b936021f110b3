package role

import (
	"encoding/json"
	"fmt"
)

// Policy document constants.
const (
	PolicyVersion        = "2012-10-17"
	RulesEnginePrincipal = "iot.amazonaws.com"
	ChannelWriteAction   = "iotanalytics:BatchPutMessage"
)

// PolicyDocument is an IAM policy document.
type PolicyDocument struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

// Statement is a single IAM policy statement.
type Statement struct {
	Effect    string     `json:"Effect"`
	Principal *Principal `json:"Principal,omitempty"`
	Action    string     `json:"Action"`
	Resource  string     `json:"Resource,omitempty"`
}

// Principal names the service allowed to assume a role.
type Principal struct {
	Service string `json:"Service"`
}

// TrustPolicy returns the document letting the IoT rules engine assume the role.
func TrustPolicy() (string, error) {
	return render(PolicyDocument{
		Version: PolicyVersion,
		Statement: []Statement{{
			Effect:    "Allow",
			Principal: &Principal{Service: RulesEnginePrincipal},
			Action:    "sts:AssumeRole",
		}},
	})
}

// ChannelWritePolicy returns the document allowing writes to exactly channelResource.
func ChannelWritePolicy(channelResource string) (string, error) {
	return render(PolicyDocument{
		Version: PolicyVersion,
		Statement: []Statement{{
			Effect:   "Allow",
			Action:   ChannelWriteAction,
			Resource: channelResource,
		}},
	})
}

func render(doc PolicyDocument) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to render policy document: %w", err)
	}
	return string(data), nil
}
