// Package main is the entry point for the iotflow CLI.
//
// iotflow provisions everything an ESP32 device needs to send telemetry
// into AWS IoT Analytics: the device identity and its credential files,
// the analytics channel, datastore, pipeline and dataset, the execution
// role of the rules engine and the topic rule routing device messages.
//
// Commands: init, plan, apply, version.
//
// For detailed usage information, run:
//
//	iotflow --help
package main

import (
	"fmt"
	"os"

	"github.com/imamik/iotflow/cmd/iotflow/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
