// SPDX-License-Identifier: Apache-2.0

package catalog_test

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"github.com/teplomarket/catalog-mcp/internal/catalog"
	"github.com/teplomarket/catalog-mcp/internal/catalog/codec"
)

func mustDoc(t *testing.T, src string) *catalog.Document {
	t.Helper()
	doc, err := codec.NewJSON().Decode(codec.Source{Content: []byte(src), Name: t.Name()})
	require.NoError(t, err)
	return doc
}

func compact(t *testing.T, doc *catalog.Document) string {
	t.Helper()
	b, err := catalog.EncodeCompact(doc.Root())
	require.NoError(t, err)
	return string(b)
}

func requireSameDoc(t *testing.T, want, got *catalog.Document) {
	t.Helper()
	require.True(t, want.Equal(got), "documents differ\nwant: %s\ngot:  %s", spew.Sdump(want.Root()), spew.Sdump(got.Root()))
}

func ids(t *testing.T, doc *catalog.Document) []string {
	t.Helper()
	var out []string
	require.NoError(t, catalog.Inspect(doc, func(_ catalog.Path, rec *catalog.Object) error {
		if v, ok := rec.Get("id"); ok {
			out = append(out, catalog.Stringify(v))
		}
		return nil
	}))
	return out
}
