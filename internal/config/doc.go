// Package config provides the director configuration schema.
//
// Configuration comes from a YAML file (director.yaml by default)
// describing the target provider, the instance template, and allocation
// timing. Timing values can be overridden per-environment through
// DIRECTOR_* environment variables, which always win over the file.
package config
