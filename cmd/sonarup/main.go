// Package main is the entry point for the sonarup CLI.
//
// sonarup provisions a production-ready SonarQube server on AWS: a VPC, a
// managed PostgreSQL database, a generated credential in Secrets Manager,
// and the SonarQube container on Fargate behind an application load
// balancer. It plans changes against live state and applies them only after
// explicit confirmation.
//
// Commands: init, plan, apply, destroy, outputs, doctor, version.
//
// For detailed usage information, run:
//
//	sonarup --help
package main

import (
	"fmt"
	"os"

	"github.com/sonarup/sonarup/cmd/sonarup/commands"
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
