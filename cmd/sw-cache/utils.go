package main

import (
	"net/url"
	"os"
	"strings"

	"go.uber.org/zap"

	"go-sw-cache/internal/config"
)

const defaultKeyDBURL = "redis://keydb:6379"

// GetKeyDBURL returns KeyDB URL with the following priority:
// 1. KEYDB_URL environment variable
// 2. CACHE_KEYDB_URL_FILE file content
// 3. Default value
func GetKeyDBURL(env *config.Env, logger *zap.Logger) string {
	if env.KeyDBURL != "" {
		logger.Debug("Using KeyDB URL from environment variable")
		return env.KeyDBURL
	}

	if env.KeyDBURLFile != "" {
		if content, err := os.ReadFile(env.KeyDBURLFile); err == nil {
			if keydbURL := strings.TrimSpace(string(content)); keydbURL != "" {
				logger.Debug("Using KeyDB URL from connection file", zap.String("file", env.KeyDBURLFile))
				return keydbURL
			}
		}
		logger.Debug("KeyDB connection file not found or empty", zap.String("file", env.KeyDBURLFile))
	}

	logger.Debug("Using default KeyDB URL")
	return defaultKeyDBURL
}

// redactURL drops credentials before a URL is logged
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid>"
	}
	return u.Redacted()
}
