package config

import (
	"github.com/kelseyhightower/envconfig"
)

// DefaultEndpoint is the default ricegrep server URL used when --server is
// set but --endpoint is not, and no RICEGREP_ENDPOINT override is present.
const DefaultEndpoint = "http://127.0.0.1:8765"

// RuntimeConfig is the resolved-once, immutable global configuration
// threaded into every tool handler: endpoint, server-mode flag, output
// mode, and the config root. It is never a mutable process-wide singleton;
// callers resolve one value at startup and pass it down explicitly, per
// the "global configuration" design note.
type RuntimeConfig struct {
	// Endpoint is the HTTP server URL used when Server is true.
	Endpoint string `envconfig:"ENDPOINT"`

	// Server, when true, dispatches tool calls to the HTTP server at
	// Endpoint instead of executing against the local on-disk index.
	Server bool `envconfig:"-"`

	// JSON, when true, formats CLI output as JSON instead of human text.
	JSON bool `envconfig:"-"`

	// Quiet suppresses non-essential CLI output.
	Quiet bool `envconfig:"-"`

	// ConfigRoot overrides the project root used to locate .ricegrep.yaml
	// and the on-disk index state directory.
	ConfigRoot string `envconfig:"-"`
}

// ResolveRuntimeConfig resolves a RuntimeConfig from CLI-flag values
// layered over RICEGREP_* environment variables (env wins over the
// hardcoded default only when the flag was left at its zero value).
//
// Precedence: CLI flags > environment variables > hardcoded defaults,
// mirroring the project/user/env precedence documented in
// internal/config.Config's own Load().
func ResolveRuntimeConfig(endpoint string, server, jsonOutput, quiet bool, configRoot string) (RuntimeConfig, error) {
	rc := RuntimeConfig{Endpoint: DefaultEndpoint}
	if err := envconfig.Process("ricegrep", &rc); err != nil {
		return RuntimeConfig{}, err
	}

	if endpoint != "" {
		rc.Endpoint = endpoint
	}
	rc.Server = server
	rc.JSON = jsonOutput
	rc.Quiet = quiet
	rc.ConfigRoot = configRoot

	return rc, nil
}
