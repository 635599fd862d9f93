// Package config loads tool configuration from YAML with environment
// variable overrides. Defaults are applied first, then file values, then
// POWERMON_* environment variables.
package config
