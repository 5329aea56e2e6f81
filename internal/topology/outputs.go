package topology

import (
	"fmt"

	"github.com/sonarup/sonarup/internal/config"
)

// Outputs are the operator-facing results of a successful apply.
type Outputs struct {
	URL               string
	DatabaseEndpoint  string
	ClusterARN        string
	SecretARN         string
	CredentialCommand string
}

// ComputeOutputs derives the stack outputs from the applied declaration
// outputs. Missing declarations yield empty fields rather than an error so
// partial state can still be reported.
func ComputeOutputs(cfg *config.Config, applied map[string]map[string]string) Outputs {
	var out Outputs
	if lb, ok := applied[DeclLoadBalancer]; ok && lb["dns_name"] != "" {
		out.URL = "http://" + lb["dns_name"]
	}
	if db, ok := applied[DeclDatabase]; ok {
		out.DatabaseEndpoint = db["endpoint"]
	}
	if cl, ok := applied[DeclCluster]; ok {
		out.ClusterARN = cl["cluster_arn"]
	}
	if s, ok := applied[DeclCredentials]; ok {
		out.SecretARN = s["secret_arn"]
		if out.SecretARN != "" {
			out.CredentialCommand = CredentialCommand(out.SecretARN, cfg.Region)
		}
	}
	return out
}

// CredentialCommand returns the CLI command an operator runs to read the
// database credential. The command is printed, never executed.
func CredentialCommand(secretARN, region string) string {
	return fmt.Sprintf(
		"aws secretsmanager get-secret-value --secret-id %s --query SecretString --output text --region %s",
		secretARN, region)
}
