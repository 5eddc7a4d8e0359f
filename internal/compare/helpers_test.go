package compare

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/usestring/hardiff-mcp/pkg/jsonvalue"
)

func mustParse(t *testing.T, s string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.ParseString(s)
	require.NoError(t, err)
	return v
}
