package capture

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/hardiff-mcp/pkg/har"
	"github.com/usestring/hardiff-mcp/pkg/types"
)

const sampleHAR = `{"log":{"entries":[
 {"request":{"method":"GET","url":"https://example.com/a","headers":[]},"response":{"status":200,"headers":[]}},
 {"request":{"method":"GET","url":"::bad","headers":[]},"response":{"status":200,"headers":[]}},
 {"request":{"method":"POST","url":"https://example.com/b","headers":[],"postData":{"text":"{}"}},"response":{"status":201,"headers":[]}}
]}}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, "run1.har", sampleHAR)

	c, err := LoadFile(context.Background(), path, Options{})
	require.NoError(t, err)
	assert.Equal(t, "run1.har", c.Name)
	assert.Equal(t, path, c.Source)
	require.Len(t, c.Exchanges, 2)
	assert.Equal(t, 2, c.Exchanges[1].Index)
	assert.Len(t, c.Warnings, 1)

	e, ok := c.Exchange(1)
	require.True(t, ok)
	assert.Equal(t, "/b", e.Path)
	_, ok = c.Exchange(2)
	assert.False(t, ok)
}

func TestLoadFile_errors(t *testing.T) {
	ctx := context.Background()

	_, err := LoadFile(ctx, filepath.Join(t.TempDir(), "missing.har"), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)

	big := writeFile(t, "big.har", sampleHAR)
	_, err = LoadFile(ctx, big, Options{MaxBytes: 10})
	assert.ErrorIs(t, err, ErrTooLarge)

	bad := writeFile(t, "bad.har", `{"entries":[]}`)
	_, err = LoadFile(ctx, bad, Options{})
	assert.ErrorIs(t, err, har.ErrMalformedCapture)

	_, err = LoadFile(ctx, t.TempDir(), Options{})
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = LoadFile(cancelled, big, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadPair(t *testing.T) {
	a := writeFile(t, "a.har", sampleHAR)
	b := writeFile(t, "b.har", `{"log":{"entries":[]}}`)

	ca, cb, err := LoadPair(context.Background(), a, b, Options{Workers: 2})
	require.NoError(t, err)
	assert.Len(t, ca.Exchanges, 2)
	assert.Empty(t, cb.Exchanges)

	_, _, err = LoadPair(context.Background(), a, filepath.Join(t.TempDir(), "nope"), Options{})
	assert.Error(t, err)
}

func TestStore(t *testing.T) {
	s, err := NewStore(2)
	require.NoError(t, err)

	first := s.Add(&Capture{Name: "one"})
	second := s.Add(&Capture{Name: "two"})
	assert.NotEqual(t, first, second)

	got, ok := s.Get(first)
	require.True(t, ok)
	assert.Equal(t, "one", got.Name)

	s.Add(&Capture{Name: "three"}) // evicts "two", "one" was used more recently
	_, ok = s.Get(second)
	assert.False(t, ok)
	assert.Len(t, s.List(), 2)

	assert.True(t, s.Remove(first))
	assert.Len(t, s.List(), 1)
}

func TestReportStore_take(t *testing.T) {
	s, err := NewReportStore(4)
	require.NoError(t, err)

	id := s.Put(&Report{Comparison: types.ComparisonResult{Status: types.StatusMatch}})
	require.NotEmpty(t, id)

	r, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, id, r.ID)

	r, ok = s.Take(id)
	require.True(t, ok)
	assert.Equal(t, types.StatusMatch, r.Comparison.Status)

	_, ok = s.Take(id)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}
