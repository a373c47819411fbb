// Package config loads and validates Tagcast configuration.
//
// Configuration comes from three layers, each overriding the last:
//  1. Hardcoded defaults (public test broker, 150ms drain cadence)
//  2. An optional YAML file (TAGCAST_CONFIG or configs/config.yaml)
//  3. TAGCAST_* environment variables
//
// Both binaries (tagpub, tagsub) share the same configuration schema;
// neither requires a file to be present.
package config
