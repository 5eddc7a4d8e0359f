// Package whitelist resolves which header names and payload keys are exempt
// from causing differences, globally or for URLs matching local rules.
package whitelist

import (
	"maps"
	"net/url"
	"slices"
	"strings"
)

// Rule lists exempt header names and payload keys.
type Rule struct {
	Headers     []string `json:"headers,omitempty" yaml:"headers,omitempty" jsonschema_description:"Header names to exempt (case-insensitive)"`
	PayloadKeys []string `json:"payload_keys,omitempty" yaml:"payload_keys,omitempty" jsonschema_description:"JSON object keys to exempt (case-sensitive)"`
}

// LocalRule is a Rule scoped to URLs containing URL or hosts containing Host.
// An empty URL or Host never matches.
type LocalRule struct {
	Host        string   `json:"host,omitempty" yaml:"host,omitempty" jsonschema_description:"Substring matched against the request host"`
	URL         string   `json:"url,omitempty" yaml:"url,omitempty" jsonschema_description:"Substring matched against the full request URL"`
	Headers     []string `json:"headers,omitempty" yaml:"headers,omitempty" jsonschema_description:"Header names to exempt (case-insensitive)"`
	PayloadKeys []string `json:"payload_keys,omitempty" yaml:"payload_keys,omitempty" jsonschema_description:"JSON object keys to exempt (case-sensitive)"`
}

// Config holds the exemption rules. A nil *Config exempts nothing.
// Config values are never modified by the comparison packages.
type Config struct {
	Global *Rule       `json:"global,omitempty" yaml:"global,omitempty" jsonschema_description:"Rules applied to every URL"`
	Local  []LocalRule `json:"local,omitempty" yaml:"local,omitempty" jsonschema_description:"Rules applied to matching URLs or hosts, checked before global"`
}

// New returns an empty configuration.
func New() *Config {
	return &Config{}
}

// IsEmpty reports whether the configuration exempts nothing.
func (c *Config) IsEmpty() bool {
	if c == nil {
		return true
	}
	if c.Global != nil && (len(c.Global.Headers) > 0 || len(c.Global.PayloadKeys) > 0) {
		return false
	}
	for _, r := range c.Local {
		if len(r.Headers) > 0 || len(r.PayloadKeys) > 0 {
			return false
		}
	}
	return true
}

// IsHeaderWhitelisted reports whether the header name is exempt for rawURL.
// Header names compare case-insensitively.
func (c *Config) IsHeaderWhitelisted(name, rawURL string) bool {
	return c.lookup(rawURL, func(headers, _ []string) bool {
		return slices.ContainsFunc(headers, func(h string) bool {
			return strings.EqualFold(h, name)
		})
	})
}

// IsPayloadKeyWhitelisted reports whether the payload key is exempt for rawURL.
// Keys compare case-sensitively.
func (c *Config) IsPayloadKeyWhitelisted(key, rawURL string) bool {
	return c.lookup(rawURL, func(_, keys []string) bool {
		return slices.Contains(keys, key)
	})
}

// ExemptHeaders returns the lower-cased header names exempt for rawURL, sorted.
func (c *Config) ExemptHeaders(rawURL string) []string {
	set := make(map[string]struct{})
	c.each(rawURL, func(headers, _ []string) {
		for _, h := range headers {
			set[strings.ToLower(h)] = struct{}{}
		}
	})
	return slices.Sorted(maps.Keys(set))
}

// ExemptPayloadKeys returns the payload keys exempt for rawURL, sorted.
func (c *Config) ExemptPayloadKeys(rawURL string) []string {
	set := make(map[string]struct{})
	c.each(rawURL, func(_, keys []string) {
		for _, k := range keys {
			set[k] = struct{}{}
		}
	})
	return slices.Sorted(maps.Keys(set))
}

// lookup checks applicable local rules in order, then the global rule.
func (c *Config) lookup(rawURL string, listed func(headers, keys []string) bool) bool {
	if c == nil {
		return false
	}
	host := hostOf(rawURL)
	for _, r := range c.Local {
		if r.applies(rawURL, host) && listed(r.Headers, r.PayloadKeys) {
			return true
		}
	}
	if c.Global != nil {
		return listed(c.Global.Headers, c.Global.PayloadKeys)
	}
	return false
}

func (c *Config) each(rawURL string, fn func(headers, keys []string)) {
	if c == nil {
		return
	}
	host := hostOf(rawURL)
	for _, r := range c.Local {
		if r.applies(rawURL, host) {
			fn(r.Headers, r.PayloadKeys)
		}
	}
	if c.Global != nil {
		fn(c.Global.Headers, c.Global.PayloadKeys)
	}
}

func (r LocalRule) applies(rawURL, host string) bool {
	if r.URL != "" && strings.Contains(rawURL, r.URL) {
		return true
	}
	return r.Host != "" && host != "" && strings.Contains(host, r.Host)
}

// hostOf returns the host of rawURL without port, or "" when it cannot be parsed.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// Merge returns a new Config holding the rules of c followed by those of other.
// Global lists are concatenated; local rules keep their order (c first).
func (c *Config) Merge(other *Config) *Config {
	out := &Config{}
	for _, src := range []*Config{c, other} {
		if src == nil {
			continue
		}
		if src.Global != nil {
			if out.Global == nil {
				out.Global = &Rule{}
			}
			out.Global.Headers = append(out.Global.Headers, src.Global.Headers...)
			out.Global.PayloadKeys = append(out.Global.PayloadKeys, src.Global.PayloadKeys...)
		}
		for _, r := range src.Local {
			r.Headers = slices.Clone(r.Headers)
			r.PayloadKeys = slices.Clone(r.PayloadKeys)
			out.Local = append(out.Local, r)
		}
	}
	return out
}
