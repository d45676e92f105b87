package cache_rules

import (
	"go.uber.org/zap"

	"go-sw-cache/internal/interfaces"
	"go-sw-cache/internal/models"
)

// Classifier maps requests to routing classes. Rules are checked in order
// and the first match wins: bypass host, CDN host, navigation or entry path,
// then static.
type Classifier struct {
	logger *zap.Logger
	rules  *RulesConfig
}

// Ensure Classifier implements the Classifier interface
var _ interfaces.Classifier = (*Classifier)(nil)

// NewClassifier creates a new Classifier instance
func NewClassifier(logger *zap.Logger, rules *RulesConfig) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		logger: logger,
		rules:  rules,
	}
}

// Classify implements Classifier interface
func (c *Classifier) Classify(request *models.Request) models.RoutingClass {
	if request == nil || request.URL == nil {
		c.logger.Debug("Classifying empty request as bypass")
		return models.RoutingBypass
	}

	host := request.Host()
	switch {
	case c.rules.IsBypassHost(host):
		return models.RoutingBypass
	case c.rules.IsCDNHost(host):
		return models.RoutingCdnCacheFirst
	case request.Navigate || c.rules.IsEntryPath(request.Path()):
		return models.RoutingNavigationNetworkFirst
	default:
		return models.RoutingStaticCacheFirst
	}
}
