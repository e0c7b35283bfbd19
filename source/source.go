// Package source implements the pluggable Source contract: Echo, File,
// Http, SecretStore and Merge, each producing a platypus.Response from a
// platypus.Request. They carry no shared base type beyond the monitor
// config durations every source stamps onto its response.
package source

import "time"

// MonitorConfig holds the ttl/expiry pair every source stamps onto the
// responses it produces. It composes into each concrete source rather
// than being inherited, per SPEC_FULL.md's resolution of the
// "pseudo-inheritance" redesign flag.
type MonitorConfig struct {
	TTL    time.Duration
	Expiry time.Duration
}

// defaultMonitorConfig matches the original implementation's defaults.
func defaultMonitorConfig() MonitorConfig {
	return MonitorConfig{TTL: 5 * time.Second, Expiry: 30 * time.Second}
}
