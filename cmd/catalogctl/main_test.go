// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestDedupeIDsCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "items.json", `[{"id":"a"},{"id":"a"}]`)
	out := filepath.Join(dir, "out.json")

	stdout, err := execute(t, "dedupe-ids", "--in", in, "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "dedupe-ids: 1 processed, 0 skipped")
	assert.Equal(t, "[\n  {\n    \"id\": \"a\"\n  },\n  {\n    \"id\": \"a_1\"\n  }\n]\n", readFile(t, out))
	assert.Equal(t, `[{"id":"a"},{"id":"a"}]`, readFile(t, in), "input untouched when --out is given")
}

func TestMigrateFieldCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "items.json", `{"p1":{"id":"p1","actionPrice":90},"p2":{"id":"p2","actionPrice":null}}`)

	_, err := execute(t, "migrate-field", "--in", in, "--field", "actionPrice", "--skip-null")
	require.NoError(t, err)
	assert.Equal(t,
		"{\n  \"p1\": {\n    \"id\": \"p1\"\n  },\n  \"p2\": {\n    \"id\": \"p2\",\n    \"actionPrice\": null\n  }\n}\n",
		readFile(t, in))
	assert.Equal(t, "{\n  \"p1\": 90\n}\n", readFile(t, filepath.Join(dir, "actionPrice.json")))
}

func TestAddTagsDryRun(t *testing.T) {
	dir := t.TempDir()
	src := `[{"id":"a","brand":"Baxi"},{"id":"b","brand":"Vaillant"}]`
	in := writeFile(t, dir, "items.json", src)

	stdout, err := execute(t, "add-tags", "--in", in, "--key", "brand", "--value", "BAXI", "--tags", "x", "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, "index_0\t[0]\n", stdout)

	stdout, err = execute(t, "add-tags", "--in", in, "--key", "brand", "--value", "Buderus", "--tags", "x", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "values in use")
	assert.Contains(t, stdout, "  Vaillant\n")
	assert.Equal(t, src, readFile(t, in))
}

func TestRepairDimensionsDryRun(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "items.json", `[{"id":"a","Габариты, x 300 x 200":600}]`)

	stdout, err := execute(t, "repair-dimensions", "--in", in, "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, "[0]\tГабариты, x 300 x 200\t600\n", stdout)
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "items.yaml", "- id: a\n  brand: Baxi\n")

	stdout, err := execute(t, "analyze", "--in", in, "--key", "brand")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"shape": "indexed"`)
	assert.Contains(t, stdout, `"values": [`)
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "items.json", `[{"id":"vaillant-turbotec-pro-242"}]`)
	plan := writeFile(t, dir, "plan.cue", `
input: "items.json"
output: "slugged.json"
steps: [{op: "slugify"}]
`)

	stdout, err := execute(t, "run", "--plan", plan)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 steps: 1 processed")
	assert.Equal(t,
		"[\n  {\n    \"id\": \"vtp242\",\n    \"slug\": \"vaillant-turbotec-pro-242\"\n  }\n]\n",
		readFile(t, filepath.Join(dir, "slugged.json")))
}

func TestRequiredFlags(t *testing.T) {
	_, err := execute(t, "migrate-field", "--in", "x.json")
	assert.Error(t, err)
}
