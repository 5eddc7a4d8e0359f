package whitelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testConfig() *Config {
	return &Config{
		Global: &Rule{
			Headers:     []string{"Date"},
			PayloadKeys: []string{"timestamp"},
		},
		Local: []LocalRule{
			{URL: "/login", Headers: []string{"X-CSRF-Token"}, PayloadKeys: []string{"token"}},
			{Host: "cdn.example", Headers: []string{"ETag"}},
			{Headers: []string{"Cookie"}}, // no scope: never applies
		},
	}
}

func TestIsHeaderWhitelisted(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name   string
		header string
		url    string
		want   bool
	}{
		{name: "global any url", header: "date", url: "https://api.example/a", want: true},
		{name: "global case-insensitive", header: "DATE", url: "https://api.example/a", want: true},
		{name: "local by url", header: "x-csrf-token", url: "https://api.example/login?next=/", want: true},
		{name: "local url not matching", header: "x-csrf-token", url: "https://api.example/logout", want: false},
		{name: "local by host", header: "etag", url: "https://static.cdn.example:8443/app.js", want: true},
		{name: "host rule ignores path", header: "etag", url: "https://api.example/cdn.example", want: false},
		{name: "unscoped local rule", header: "cookie", url: "https://api.example/a", want: false},
		{name: "not listed", header: "accept", url: "https://api.example/login", want: false},
		{name: "unparseable url still checks global", header: "date", url: "://bad", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.IsHeaderWhitelisted(tt.header, tt.url))
		})
	}
}

func TestIsPayloadKeyWhitelisted(t *testing.T) {
	cfg := testConfig()

	assert.True(t, cfg.IsPayloadKeyWhitelisted("timestamp", "https://x/any"))
	assert.True(t, cfg.IsPayloadKeyWhitelisted("token", "https://x/login"))
	assert.False(t, cfg.IsPayloadKeyWhitelisted("token", "https://x/other"))
	assert.False(t, cfg.IsPayloadKeyWhitelisted("Timestamp", "https://x/any"), "payload keys are case-sensitive")
}

func TestNilAndEmptyConfig(t *testing.T) {
	var nilCfg *Config
	assert.False(t, nilCfg.IsHeaderWhitelisted("date", "https://x/"))
	assert.False(t, nilCfg.IsPayloadKeyWhitelisted("k", "https://x/"))
	assert.Empty(t, nilCfg.ExemptHeaders("https://x/"))
	assert.True(t, nilCfg.IsEmpty())

	empty := New()
	assert.False(t, empty.IsHeaderWhitelisted("date", "https://x/"))
	assert.True(t, empty.IsEmpty())
	assert.False(t, testConfig().IsEmpty())
}

func TestExemptNames(t *testing.T) {
	cfg := testConfig()

	assert.Equal(t, []string{"date", "x-csrf-token"}, cfg.ExemptHeaders("https://api.example/login"))
	assert.Equal(t, []string{"date"}, cfg.ExemptHeaders("https://api.example/other"))
	assert.Equal(t, []string{"timestamp", "token"}, cfg.ExemptPayloadKeys("https://api.example/login"))
}

func TestMerge(t *testing.T) {
	base := testConfig()
	merged := base.Merge(Defaults())

	assert.True(t, merged.IsHeaderWhitelisted("x-request-id", "https://x/"))
	assert.True(t, merged.IsHeaderWhitelisted("date", "https://x/"))
	assert.True(t, merged.IsPayloadKeyWhitelisted("nonce", "https://x/"))
	assert.Len(t, merged.Local, len(base.Local))

	merged.Local[0].Headers[0] = "changed"
	assert.Equal(t, "X-CSRF-Token", base.Local[0].Headers[0], "merge must not alias the source")

	var nilCfg *Config
	assert.Equal(t, Defaults().Global.Headers, nilCfg.Merge(Defaults()).Global.Headers)
}
