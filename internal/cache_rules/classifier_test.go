package cache_rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"go-sw-cache/internal/models"
)

func newDefaultClassifier(t *testing.T) *Classifier {
	t.Helper()
	logger := zaptest.NewLogger(t)
	return NewClassifier(logger, NewRulesConfig(DefaultRoutingRules(), logger))
}

func TestNewClassifier(t *testing.T) {
	logger := zaptest.NewLogger(t)
	rules := NewRulesConfig(DefaultRoutingRules(), logger)

	classifier := NewClassifier(logger, rules)

	require.NotNil(t, classifier)
	assert.Equal(t, logger, classifier.logger)
	assert.Equal(t, rules, classifier.rules)
}

func TestNewClassifier_NilLogger(t *testing.T) {
	classifier := NewClassifier(nil, NewRulesConfig(DefaultRoutingRules(), nil))
	require.NotNil(t, classifier)
	assert.NotNil(t, classifier.logger)
}

func TestClassifier_Classify(t *testing.T) {
	classifier := newDefaultClassifier(t)

	tests := []struct {
		name     string
		url      string
		navigate bool
		expected models.RoutingClass
	}{
		{"realtime database", "https://my-app-default-rtdb.firebaseio.com/.lp?start=t", false, models.RoutingBypass},
		{"google apis", "https://identitytoolkit.googleapis.com/v1/accounts", false, models.RoutingBypass},
		{"installations", "https://firebaseinstallations.googleapis.com/v1/projects", false, models.RoutingBypass},
		{"bypass wins over navigation", "https://firebaseio.com/", true, models.RoutingBypass},
		{"cdn sdk", "https://www.gstatic.com/firebasejs/9.23.0/firebase-app-compat.js", false, models.RoutingCdnCacheFirst},
		{"cdn wins over navigation", "https://www.gstatic.com/", true, models.RoutingCdnCacheFirst},
		{"other gstatic host", "https://fonts.gstatic.com/s/font.woff2", false, models.RoutingStaticCacheFirst},
		{"navigation", "https://app.example.com/game/42", true, models.RoutingNavigationNetworkFirst},
		{"root path", "https://app.example.com/", false, models.RoutingNavigationNetworkFirst},
		{"empty path", "https://app.example.com", false, models.RoutingNavigationNetworkFirst},
		{"entry html", "https://app.example.com/index.html", false, models.RoutingNavigationNetworkFirst},
		{"static asset", "https://app.example.com/manifest.json", false, models.RoutingStaticCacheFirst},
		{"unknown host", "https://unknown.example.org/a.png", false, models.RoutingStaticCacheFirst},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := models.NewRequest("GET", tt.url, tt.navigate)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, classifier.Classify(req))
		})
	}
}

func TestClassifier_Classify_IsPure(t *testing.T) {
	classifier := newDefaultClassifier(t)
	req, err := models.NewRequest("GET", "https://www.gstatic.com/sdk.js", false)
	require.NoError(t, err)

	first := classifier.Classify(req)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, classifier.Classify(req))
	}
	assert.Equal(t, "https://www.gstatic.com/sdk.js", req.URL.String())
}

func TestClassifier_Classify_NilRequest(t *testing.T) {
	classifier := newDefaultClassifier(t)

	assert.Equal(t, models.RoutingBypass, classifier.Classify(nil))
	assert.Equal(t, models.RoutingBypass, classifier.Classify(&models.Request{Method: "GET"}))
}
