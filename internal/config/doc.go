// Package config gathers frametrace settings from three places:
//
//   - command-line flags (ParseArgs), which win over everything else
//   - FRAMETRACE_* and OTEL_* environment variables (ParseEnvConfig, ParseOTELConfig)
//   - an optional YAML pipeline profile (LoadProfile) naming the traced elements
package config
