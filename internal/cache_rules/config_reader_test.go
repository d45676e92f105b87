package cache_rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func createTempYAMLFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "cache_rules.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))
	return tmpFile
}

func TestLoadRoutingRules_Success(t *testing.T) {
	logger := zaptest.NewLogger(t)

	validYAML := `
bypass_hosts:
  - firebaseio.com
  - googleapis.com
  - firebaseinstallations
cdn_host: www.gstatic.com
entry_paths:
  - /
  - /index.html
`

	rules, err := LoadRoutingRules(createTempYAMLFile(t, validYAML), logger)
	require.NoError(t, err)
	require.NotNil(t, rules)

	assert.Equal(t, []string{"firebaseio.com", "googleapis.com", "firebaseinstallations"}, rules.bypassHosts)
	assert.Equal(t, "www.gstatic.com", rules.cdnHost)
	assert.True(t, rules.IsEntryPath("/"))
	assert.True(t, rules.IsEntryPath("/index.html"))
	assert.False(t, rules.IsEntryPath("/app.js"))
}

func TestLoadRoutingRules_NoBypassHosts(t *testing.T) {
	validYAML := `
cdn_host: cdn.example.com
entry_paths: ["/"]
`
	rules, err := LoadRoutingRules(createTempYAMLFile(t, validYAML), zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, rules.IsBypassHost("anything.example.com"))
}

func TestLoadRoutingRules_FileNotFound(t *testing.T) {
	rules, err := LoadRoutingRules("/nonexistent/cache_rules.yaml", zaptest.NewLogger(t))

	assert.Error(t, err)
	assert.Nil(t, rules)
	assert.Contains(t, err.Error(), "failed to open routing rules file")
}

func TestLoadRoutingRules_InvalidYAML(t *testing.T) {
	rules, err := LoadRoutingRules(createTempYAMLFile(t, "cdn_host: [unclosed"), zaptest.NewLogger(t))

	assert.Error(t, err)
	assert.Nil(t, rules)
	assert.Contains(t, err.Error(), "failed to decode YAML routing rules")
}

func TestLoadRoutingRules_ValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		errContains string
	}{
		{
			name:        "missing cdn host",
			yaml:        "entry_paths: [\"/\"]\n",
			errContains: "missing cdn_host",
		},
		{
			name:        "cdn host with scheme",
			yaml:        "cdn_host: https://www.gstatic.com\nentry_paths: [\"/\"]\n",
			errContains: "bare host name",
		},
		{
			name:        "missing entry paths",
			yaml:        "cdn_host: www.gstatic.com\n",
			errContains: "missing entry_paths",
		},
		{
			name:        "relative entry path",
			yaml:        "cdn_host: www.gstatic.com\nentry_paths: [\"index.html\"]\n",
			errContains: "must start with /",
		},
		{
			name:        "empty bypass host",
			yaml:        "cdn_host: www.gstatic.com\nentry_paths: [\"/\"]\nbypass_hosts: [\"\"]\n",
			errContains: "empty entry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, err := LoadRoutingRules(createTempYAMLFile(t, tt.yaml), zaptest.NewLogger(t))
			require.Error(t, err)
			assert.Nil(t, rules)
			assert.Contains(t, err.Error(), "routing rules validation failed")
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestNewRulesConfig_NilPanics(t *testing.T) {
	assert.Panics(t, func() { NewRulesConfig(nil, zaptest.NewLogger(t)) })
}

func TestRulesConfig_HostMatching(t *testing.T) {
	rules := NewRulesConfig(&RoutingRulesConfig{
		BypassHosts: []string{"FirebaseIO.com", "  "},
		CDNHost:     "WWW.gstatic.com",
		EntryPaths:  []string{"/"},
	}, zaptest.NewLogger(t))

	assert.True(t, rules.IsBypassHost("my-app-default-rtdb.firebaseio.com"))
	assert.True(t, rules.IsBypassHost("MY-APP.FIREBASEIO.COM"))
	assert.False(t, rules.IsBypassHost("example.com"))
	assert.True(t, rules.IsCDNHost("www.gstatic.com"))
	assert.False(t, rules.IsCDNHost("fonts.gstatic.com"))
	assert.Len(t, rules.bypassHosts, 1)
}

func TestNormalizeHost(t *testing.T) {
	assert.Equal(t, "", NormalizeHost("  "))
	assert.Equal(t, "www.gstatic.com", NormalizeHost("WWW.GSTATIC.COM"))
	assert.Equal(t, "xn--bcher-kva.example", NormalizeHost("bücher.example"))
	assert.Equal(t, "::1", NormalizeHost("::1"))
}
