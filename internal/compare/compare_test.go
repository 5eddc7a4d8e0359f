package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/hardiff-mcp/pkg/types"
	"github.com/usestring/hardiff-mcp/pkg/whitelist"
)

func strPtr(s string) *string { return &s }

func exchange(method, path string) *types.Exchange {
	return &types.Exchange{
		Method:          method,
		URL:             "https://api.example.com" + path,
		Path:            path,
		Headers:         map[string]string{"Accept": "application/json"},
		QueryParams:     map[string][]string{},
		ResponseStatus:  200,
		ResponseHeaders: map[string]string{},
	}
}

func clone(e *types.Exchange) *types.Exchange {
	c := *e
	c.Headers = make(map[string]string, len(e.Headers))
	for k, v := range e.Headers {
		c.Headers[k] = v
	}
	c.QueryParams = make(map[string][]string, len(e.QueryParams))
	for k, v := range e.QueryParams {
		c.QueryParams[k] = append([]string(nil), v...)
	}
	return &c
}

func TestCompare_identicalIsMatch(t *testing.T) {
	post := exchange("POST", "/orders?dry=1")
	post.QueryParams["dry"] = []string{"1"}
	post.PostData = strPtr(`{"items":[1,2],"meta":{"a":1}}`)

	wls := []*whitelist.Config{nil, whitelist.New(), whitelist.Defaults()}
	for _, e := range []*types.Exchange{exchange("GET", "/a"), post} {
		for _, wl := range wls {
			got := Compare(e, clone(e), wl)
			assert.Equal(t, types.StatusMatch, got.Status)
			assert.Equal(t, "Full match", got.Details)
		}
	}
}

func TestCompare_pathGate(t *testing.T) {
	tests := []struct {
		name   string
		a, b   *types.Exchange
		status types.Status
	}{
		{
			name:   "different paths",
			a:      exchange("GET", "/a"),
			b:      exchange("GET", "/b"),
			status: types.StatusDifferent,
		},
		{
			name:   "GET ignores query",
			a:      exchange("GET", "/a?x=1"),
			b:      exchange("get", "/a?x=2"),
			status: types.StatusPartial, // method string differs
		},
		{
			name:   "GET query only differs",
			a:      exchange("GET", "/a?x=1"),
			b:      exchange("GET", "/a?x=2"),
			status: types.StatusMatch,
		},
		{
			name:   "POST compares query",
			a:      exchange("POST", "/a?x=1"),
			b:      exchange("POST", "/a?x=2"),
			status: types.StatusDifferent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.a, tt.b, whitelist.Defaults())
			assert.Equal(t, tt.status, got.Status)
			if tt.status == types.StatusDifferent {
				assert.Equal(t, "Different paths", got.Details)
			}
		})
	}
}

func TestCompare_differentPathsIgnoresWhitelist(t *testing.T) {
	wl := &whitelist.Config{Global: &whitelist.Rule{Headers: []string{"accept"}}}
	a := exchange("GET", "/a")
	b := exchange("GET", "/b")
	b.Headers["Accept"] = "*/*"
	assert.Equal(t, types.StatusDifferent, Compare(a, b, wl).Status)
}

func TestCompare_headers(t *testing.T) {
	wl := &whitelist.Config{
		Local: []whitelist.LocalRule{{URL: "/alpha", Headers: []string{"X-Request-Id"}}},
	}

	t.Run("whitelisted value change", func(t *testing.T) {
		a := exchange("GET", "/alpha")
		a.Headers["x-request-id"] = "1"
		b := clone(a)
		b.Headers["x-request-id"] = "2"

		an := Analyze(a, b, wl, Options{})
		assert.Equal(t, types.StatusWhitelisted, an.Result.Status)
		assert.Equal(t, []string{"x-request-id"}, an.HeadersExempt)
		assert.Empty(t, an.HeadersDiffering)
	})

	t.Run("whitelisted one-sided header", func(t *testing.T) {
		a := exchange("GET", "/alpha")
		b := clone(a)
		b.Headers["X-REQUEST-ID"] = "2"
		assert.Equal(t, types.StatusWhitelisted, Compare(a, b, wl).Status)
	})

	t.Run("whitelist scoped to other url", func(t *testing.T) {
		a := exchange("GET", "/beta")
		a.Headers["x-request-id"] = "1"
		b := clone(a)
		b.Headers["x-request-id"] = "2"
		assert.Equal(t, types.StatusPartial, Compare(a, b, wl).Status)
	})

	t.Run("mixed differences are partial", func(t *testing.T) {
		a := exchange("GET", "/alpha")
		a.Headers["x-request-id"] = "1"
		b := clone(a)
		b.Headers["x-request-id"] = "2"
		b.Headers["Accept"] = "*/*"

		an := Analyze(a, b, wl, Options{})
		assert.Equal(t, types.StatusPartial, an.Result.Status)
		assert.Equal(t, []string{"Accept"}, an.HeadersDiffering)
		assert.Equal(t, "Partial match: headers differ", an.Result.Details)
	})
}

func TestCompare_params(t *testing.T) {
	a := exchange("PUT", "/items")
	a.QueryParams["tag"] = []string{"a", "b"}
	b := clone(a)
	b.QueryParams["tag"] = []string{"b", "a"}

	wl := &whitelist.Config{Global: &whitelist.Rule{PayloadKeys: []string{"tag"}}}
	an := Analyze(a, b, wl, Options{})
	assert.True(t, an.ParamsDiffer)
	assert.Equal(t, types.StatusPartial, an.Result.Status, "params are not whitelist-aware")

	g := exchange("GET", "/items")
	g.QueryParams["tag"] = []string{"a"}
	h := clone(g)
	h.QueryParams["tag"] = []string{"z"}
	assert.Equal(t, types.StatusMatch, Compare(g, h, nil).Status, "GET params are not compared")
}

func TestCompare_bodies(t *testing.T) {
	wl := &whitelist.Config{
		Local: []whitelist.LocalRule{{Host: "api.example.com", PayloadKeys: []string{"token"}}},
	}

	tests := []struct {
		name     string
		a, b     *string
		status   types.Status
		mode     string
		differs  []string
		exempted []string
	}{
		{
			name:     "whitelisted token",
			a:        strPtr(`{"token":"X","user":"u"}`),
			b:        strPtr(`{"user":"u","token":"Y"}`),
			status:   types.StatusWhitelisted,
			mode:     BodyJSON,
			exempted: []string{"$.token"},
		},
		{
			name:     "nested non-whitelisted change",
			a:        strPtr(`{"token":"X","data":{"n":1}}`),
			b:        strPtr(`{"token":"Y","data":{"n":2}}`),
			status:   types.StatusPartial,
			mode:     BodyJSON,
			differs:  []string{"$.data.n"},
			exempted: []string{"$.token"},
		},
		{
			name:     "whitelisted subtree not descended",
			a:        strPtr(`{"token":{"v":1,"x":[1]}}`),
			b:        strPtr(`{"token":{"v":2}}`),
			status:   types.StatusWhitelisted,
			mode:     BodyJSON,
			exempted: []string{"$.token"},
		},
		{
			name:     "whitelisted key only on one side",
			a:        strPtr(`{"a":1}`),
			b:        strPtr(`{"a":1,"token":"t"}`),
			status:   types.StatusWhitelisted,
			mode:     BodyJSON,
			exempted: []string{"$.token"},
		},
		{
			name:    "arrays are never exempt",
			a:       strPtr(`[{"token":"X"}]`),
			b:       strPtr(`[{"token":"Y"}]`),
			status:  types.StatusPartial,
			mode:    BodyJSON,
			differs: []string{"$"},
		},
		{
			name:    "type mismatch",
			a:       strPtr(`{"n":1}`),
			b:       strPtr(`{"n":"1"}`),
			status:  types.StatusPartial,
			mode:    BodyJSON,
			differs: []string{"$.n"},
		},
		{
			name:   "text bodies equal",
			a:      strPtr("a=1&token=2"),
			b:      strPtr("a=1&token=2"),
			status: types.StatusMatch,
			mode:   BodyText,
		},
		{
			name:   "text fallback never exempt",
			a:      strPtr(`{"token":"X"}`),
			b:      strPtr(`not json`),
			status: types.StatusPartial,
			mode:   BodyText,
		},
		{
			name:   "one side missing",
			a:      strPtr(`{}`),
			b:      nil,
			status: types.StatusPartial,
			mode:   BodyPresence,
		},
		{
			name:   "both missing",
			status: types.StatusMatch,
			mode:   BodyNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := exchange("POST", "/login")
			a.PostData = tt.a
			b := clone(a)
			b.PostData = tt.b

			an := Analyze(a, b, wl, Options{})
			assert.Equal(t, tt.status, an.Result.Status)
			assert.Equal(t, tt.mode, an.Body.Mode)
			assert.Equal(t, tt.differs, an.Body.Differing)
			assert.Equal(t, tt.exempted, an.Body.Exempt)
		})
	}
}

func TestCompare_method(t *testing.T) {
	a := exchange("POST", "/x")
	b := clone(a)
	b.Method = "PUT"

	an := Analyze(a, b, whitelist.Defaults(), Options{})
	assert.True(t, an.MethodDiffers)
	assert.Equal(t, types.StatusPartial, an.Result.Status)
	assert.Equal(t, "Partial match: method differ", an.Result.Details)
}

func TestCompare_keysOnly(t *testing.T) {
	wl := &whitelist.Config{Global: &whitelist.Rule{Headers: []string{"cookie"}}}

	t.Run("values ignored", func(t *testing.T) {
		a := exchange("POST", "/x")
		a.QueryParams["q"] = []string{"1"}
		a.PostData = strPtr(`{"a":1}`)
		b := clone(a)
		b.Headers["Accept"] = "*/*"
		b.QueryParams["q"] = []string{"2"}
		b.PostData = strPtr(`{"a":2}`)
		b.Method = "PUT"

		an := Analyze(a, b, wl, Options{KeysOnly: true})
		assert.Equal(t, types.StatusMatch, an.Result.Status)
		assert.Equal(t, "Keys match", an.Result.Details)
		assert.Equal(t, BodySkipped, an.Body.Mode)
	})

	t.Run("whitelisted header name", func(t *testing.T) {
		a := exchange("GET", "/x")
		b := clone(a)
		b.Headers["Cookie"] = "s=1"
		assert.Equal(t, types.StatusWhitelisted, Analyze(a, b, wl, Options{KeysOnly: true}).Result.Status)
	})

	t.Run("param names differ", func(t *testing.T) {
		a := exchange("POST", "/x")
		b := clone(a)
		b.QueryParams["extra"] = []string{""}
		an := Analyze(a, b, wl, Options{KeysOnly: true})
		assert.Equal(t, types.StatusPartial, an.Result.Status)
		assert.Equal(t, "Keys differ", an.Result.Details)
	})

	t.Run("path gate still applies", func(t *testing.T) {
		an := Analyze(exchange("GET", "/x"), exchange("GET", "/y"), wl, Options{KeysOnly: true})
		assert.Equal(t, types.StatusDifferent, an.Result.Status)
	})
}

func TestDiffJSON_contextPaths(t *testing.T) {
	a := mustParse(t, `{"a":{"b":{"c":1,"d":2}},"e":3}`)
	b := mustParse(t, `{"a":{"b":{"c":9,"d":2}},"f":3}`)

	d := DiffJSON(a, b, "https://x/", nil)
	require.True(t, d.HasDifferences())
	assert.Equal(t, []string{"$.a.b.c", "$.e", "$.f"}, d.Differing)
	assert.Empty(t, d.Exempt)
}

func TestDiffJSON_whitelistUsesBareKey(t *testing.T) {
	wl := &whitelist.Config{Global: &whitelist.Rule{PayloadKeys: []string{"c"}}}
	a := mustParse(t, `{"a":{"b":{"c":1}}}`)
	b := mustParse(t, `{"a":{"b":{"c":2}}}`)

	d := DiffJSON(a, b, "https://x/", wl)
	assert.Empty(t, d.Differing)
	assert.Equal(t, []string{"$.a.b.c"}, d.Exempt)
}
