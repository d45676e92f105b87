package cache_rules

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/idna"
)

// RulesConfig answers host and path questions over normalized routing rules
type RulesConfig struct {
	bypassHosts []string
	cdnHost     string
	entryPaths  map[string]struct{}
	logger      *zap.Logger
}

// NewRulesConfig creates a new RulesConfig instance
func NewRulesConfig(config *RoutingRulesConfig, logger *zap.Logger) *RulesConfig {
	if config == nil {
		panic("config cannot be nil")
	}

	rc := &RulesConfig{
		cdnHost:    NormalizeHost(config.CDNHost),
		entryPaths: make(map[string]struct{}, len(config.EntryPaths)),
		logger:     logger,
	}
	for _, host := range config.BypassHosts {
		if h := NormalizeHost(host); h != "" {
			rc.bypassHosts = append(rc.bypassHosts, h)
		}
	}
	for _, path := range config.EntryPaths {
		rc.entryPaths[path] = struct{}{}
	}
	return rc
}

// IsBypassHost reports whether host contains any bypass fragment
func (rc *RulesConfig) IsBypassHost(host string) bool {
	host = NormalizeHost(host)
	for _, fragment := range rc.bypassHosts {
		if strings.Contains(host, fragment) {
			return true
		}
	}
	return false
}

// IsCDNHost reports whether host is exactly the CDN host
func (rc *RulesConfig) IsCDNHost(host string) bool {
	return rc.cdnHost != "" && NormalizeHost(host) == rc.cdnHost
}

// IsEntryPath reports whether path is one of the entry HTML paths
func (rc *RulesConfig) IsEntryPath(path string) bool {
	_, ok := rc.entryPaths[path]
	return ok
}

// NormalizeHost lower-cases host and converts internationalized labels to
// their ASCII form. Hosts that fail conversion are only lower-cased.
func NormalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" {
		return ""
	}
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		return ascii
	}
	return host
}
