package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/ftorigin/internal/config"
)

func runDiscover(t *testing.T, showIDs bool) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunDiscover(context.Background(), &buf, config.DefaultFileName, showIDs))
	return buf.String()
}

func TestDiscover_PrintsTree(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)

	out := runDiscover(t, false)

	assert.Contains(t, out, "feature Login  classpath:/login.feature\n")
	assert.Contains(t, out, "  scenario User logs in  classpath:/login.feature:2:3\n")
	assert.Contains(t, out, "  outline User fails login  classpath:/login.feature:5:3\n")
	assert.Contains(t, out, "    examples   classpath:/login.feature:7:5\n")
	assert.Contains(t, out, "      example Example #1: password=wrong  classpath:/login.feature:9:7\n")
	assert.NotContains(t, out, "[engine:ft]")
}

func TestDiscover_PrintsIDs(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/login.feature", loginFeature)

	out := runDiscover(t, true)

	assert.Contains(t, out, "[engine:ft]/[feature:classpath%3A%2Flogin.feature]/[scenario:2]")
}

func TestDiscover_URIRootUsesFilePositions(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.WriteFile(config.DefaultFileName, []byte(`
[[roots]]
dir = "specs"
mode = "uri"
`), 0o644))
	writeFeature(t, "specs/login.feature", loginFeature)

	out := runDiscover(t, false)

	assert.Contains(t, out, filepath.Join("specs", "login.feature")+":2:3")
}

func TestDiscover_ReportsParseErrors(t *testing.T) {
	inTempDir(t)
	runInit(t)
	writeFeature(t, "features/rules.feature", "Feature: Rules\n  Rule: r\n    Scenario: s\n")

	out := runDiscover(t, false)

	assert.Contains(t, out, "classpath:/rules.feature:2: Rule is not supported")
	assert.Contains(t, out, "scenario s")
}
