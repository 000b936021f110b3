// Package config defines the configuration model for an iotflow run.
//
// The [Config] struct names every resource the orchestrator creates (thing,
// channel, datastore, pipeline, dataset, role, rule) together with the SQL
// texts, schedule and retention settings. Nothing in the provisioning code is
// hardcoded; [Default] reproduces the ESP32 traffic-data setup and a YAML file
// (iotflow.yaml) overrides any subset of it.
package config
