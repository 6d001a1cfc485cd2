// SPDX-License-Identifier: Apache-2.0

package logger_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teplomarket/catalog-mcp/internal/catalog"
	"github.com/teplomarket/catalog-mcp/internal/logger"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		lines = append(lines, m)
	}
	return lines
}

func TestLogReport(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewLogger(logger.Config{Level: "info", Output: &buf})

	doc, err := catalog.NewDocument([]any{catalog.ObjectOf("price", 1)})
	require.NoError(t, err)
	res, err := catalog.MigrateField(doc, "price", catalog.MigrateOptions{})
	require.NoError(t, err)

	log.StepLogger("migrate-field").LogReport(res.Report, time.Millisecond)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2, "one warning for the skipped record and one summary")
	assert.Equal(t, "warn", lines[0]["level"])
	assert.Equal(t, "[0]", lines[0]["path"])
	assert.Equal(t, "info", lines[1]["level"])
	assert.Equal(t, "pipeline", lines[1]["component"])
	assert.EqualValues(t, 1, lines[1]["skipped"])
	assert.Equal(t, "catalogctl", lines[1]["service"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewLogger(logger.Config{Level: "warn", Output: &buf})
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["message"])
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		logger.Nop().Info().Msg("discarded")
	})
}
