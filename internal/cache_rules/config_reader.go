package cache_rules

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// LoadRoutingRules loads routing rules from a YAML file
func LoadRoutingRules(rulesPath string, logger *zap.Logger) (*RulesConfig, error) {
	logger.Info("Loading routing rules config", zap.String("path", rulesPath))

	file, err := os.Open(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open routing rules file: %w", err)
	}
	defer file.Close()

	var config RoutingRulesConfig
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode YAML routing rules: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("routing rules validation failed: %w", err)
	}

	logger.Info("Routing rules config loaded successfully",
		zap.Strings("bypass_hosts", config.BypassHosts),
		zap.String("cdn_host", config.CDNHost),
		zap.Strings("entry_paths", config.EntryPaths))

	return NewRulesConfig(&config, logger), nil
}

// validateConfig validates the routing rules configuration structure
func validateConfig(config *RoutingRulesConfig) error {
	if strings.TrimSpace(config.CDNHost) == "" {
		return fmt.Errorf("missing cdn_host")
	}
	if strings.ContainsAny(config.CDNHost, "/:") {
		return fmt.Errorf("cdn_host must be a bare host name, got %q", config.CDNHost)
	}

	if len(config.EntryPaths) == 0 {
		return fmt.Errorf("missing entry_paths section")
	}
	for _, path := range config.EntryPaths {
		if !strings.HasPrefix(path, "/") {
			return fmt.Errorf("entry path %q must start with /", path)
		}
	}

	for _, host := range config.BypassHosts {
		if strings.TrimSpace(host) == "" {
			return fmt.Errorf("bypass_hosts contains an empty entry")
		}
	}

	return nil
}
