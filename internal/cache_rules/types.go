package cache_rules

// RoutingRulesConfig represents the routing rules configuration
type RoutingRulesConfig struct {
	// BypassHosts are host fragments; any host containing one is never cached
	BypassHosts []string `yaml:"bypass_hosts"`
	CDNHost     string   `yaml:"cdn_host"`
	EntryPaths  []string `yaml:"entry_paths"`
}

// DefaultRoutingRules returns the rules used when no rules file exists
func DefaultRoutingRules() *RoutingRulesConfig {
	return &RoutingRulesConfig{
		BypassHosts: []string{"firebaseio.com", "googleapis.com", "firebaseinstallations"},
		CDNHost:     "www.gstatic.com",
		EntryPaths:  []string{"/", "/index.html"},
	}
}
