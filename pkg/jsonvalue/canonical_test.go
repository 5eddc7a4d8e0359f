package jsonvalue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "scalar", input: `42`, want: `42`},
		{name: "empty object", input: `{}`, want: `{}`},
		{name: "empty array", input: `[]`, want: `[]`},
		{
			name:  "sorted keys",
			input: `{"b":1,"a":"x"}`,
			want:  "{\n  \"a\": \"x\",\n  \"b\": 1\n}",
		},
		{
			name:  "nested sorting",
			input: `{"z":{"y":1,"x":[{"d":1,"c":2}]},"a":null}`,
			want: "{\n" +
				"  \"a\": null,\n" +
				"  \"z\": {\n" +
				"    \"x\": [\n" +
				"      {\n" +
				"        \"c\": 2,\n" +
				"        \"d\": 1\n" +
				"      }\n" +
				"    ],\n" +
				"    \"y\": 1\n" +
				"  }\n" +
				"}",
		},
		{
			name:  "no html escaping",
			input: `{"q":"<a&b>"}`,
			want:  "{\n  \"q\": \"<a&b>\"\n}",
		},
		{
			name:  "escapes quotes and newlines",
			input: `"line\n\"q\""`,
			want:  `"line\n\"q\""`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseString(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Canonical(v))
		})
	}
}

func TestCanonical_idempotent(t *testing.T) {
	inputs := []string{
		`{"b":[3,{"y":true,"x":false}],"a":{"d":"",  "c":1.0e3}}`,
		`[{"k":{}},[],"s",null]`,
		`"plain"`,
	}

	for _, in := range inputs {
		once := FormatString(in)
		twice := FormatString(once)
		assert.Equal(t, once, twice, "input %s", in)
	}
}

func TestFormatString_nonJSONVerbatim(t *testing.T) {
	assert.Equal(t, "a=1&b=2", FormatString("a=1&b=2"))
	assert.Equal(t, "", FormatString(""))
}
