package compare

import (
	"github.com/usestring/hardiff-mcp/pkg/jsonvalue"
	"github.com/usestring/hardiff-mcp/pkg/whitelist"
)

// JSONDiff lists the key paths at which two JSON values differ.
// Paths are dotted, rooted at "$".
type JSONDiff struct {
	Differing []string
	Exempt    []string
}

// HasDifferences reports whether any difference, exempt or not, was found.
func (d JSONDiff) HasDifferences() bool {
	return len(d.Differing) > 0 || len(d.Exempt) > 0
}

// DiffJSON compares two JSON values. Object members are matched by key; a
// member whose bare key is whitelisted for rawURL is recorded as exempt and not
// descended into. Arrays and scalars compare by structural equality and their
// differences are never exempt.
func DiffJSON(a, b jsonvalue.Value, rawURL string, wl *whitelist.Config) JSONDiff {
	var d JSONDiff
	diffValue(a, b, "$", rawURL, wl, &d)
	return d
}

func diffValue(a, b jsonvalue.Value, path, rawURL string, wl *whitelist.Config, d *JSONDiff) {
	if a.Kind() != jsonvalue.Object || b.Kind() != jsonvalue.Object {
		if !a.Equal(b) {
			d.Differing = append(d.Differing, path)
		}
		return
	}

	for _, key := range unionObjectKeys(a, b) {
		va, inA := a.Get(key)
		vb, inB := b.Get(key)
		if inA && inB && va.Equal(vb) {
			continue
		}

		child := path + "." + key
		switch {
		case wl.IsPayloadKeyWhitelisted(key, rawURL):
			d.Exempt = append(d.Exempt, child)
		case inA && inB:
			diffValue(va, vb, child, rawURL, wl, d)
		default:
			d.Differing = append(d.Differing, child)
		}
	}
}

// unionObjectKeys returns the sorted union of both objects' keys.
func unionObjectKeys(a, b jsonvalue.Value) []string {
	ka, kb := a.Keys(), b.Keys()
	out := make([]string, 0, len(ka)+len(kb))
	i, j := 0, 0
	for i < len(ka) || j < len(kb) {
		switch {
		case j >= len(kb) || (i < len(ka) && ka[i] < kb[j]):
			out = append(out, ka[i])
			i++
		case i >= len(ka) || kb[j] < ka[i]:
			out = append(out, kb[j])
			j++
		default:
			out = append(out, ka[i])
			i++
			j++
		}
	}
	return out
}
