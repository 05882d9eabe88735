package db

import (
	"database/sql"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *sql.DB {
	t.Helper()
	sqlDB, err := Open(filepath.Join(t.TempDir(), "ftorigin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return sqlDB
}

func loginNodes(scenarioLine int) []NodeRecord {
	feature := "[engine:ft]/[feature:classpath%3A%2Flogin.feature]"
	return []NodeRecord{
		{UniqueID: feature, Type: "feature", Name: "Login", Line: 1, Source: "classpath:/login.feature"},
		{UniqueID: feature + "/[scenario:" + strconv.Itoa(scenarioLine) + "]", Type: "scenario", Name: "in", Line: scenarioLine, Source: "classpath:/login.feature:" + strconv.Itoa(scenarioLine) + ":3"},
	}
}

func TestSaveFeature_InsertThenUpdate(t *testing.T) {
	sqlDB := openStore(t)
	f := FeatureRecord{URI: "classpath:/login.feature", Kind: "classpath", Name: "Login"}

	created, err := SaveFeature(sqlDB, f, loginNodes(2))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = SaveFeature(sqlDB, f, loginNodes(4))
	require.NoError(t, err)
	assert.False(t, created)

	nodes, err := ListNodes(sqlDB)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "feature", nodes[0].Type)
	assert.Equal(t, "classpath:/login.feature", nodes[0].FeatureURI)
	assert.Equal(t, 4, nodes[1].Line)
	assert.Equal(t, "[engine:ft]/[feature:classpath%3A%2Flogin.feature]/[scenario:4]", nodes[1].UniqueID)
}

func TestFindNode(t *testing.T) {
	sqlDB := openStore(t)
	_, err := SaveFeature(sqlDB, FeatureRecord{URI: "classpath:/login.feature", Kind: "classpath", Name: "Login"}, loginNodes(2))
	require.NoError(t, err)

	n, err := FindNode(sqlDB, "[engine:ft]/[feature:classpath%3A%2Flogin.feature]/[scenario:2]")
	require.NoError(t, err)
	assert.Equal(t, "classpath:/login.feature:2:3", n.Source)

	_, err = FindNode(sqlDB, "[engine:ft]/[scenario:9]")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPruneFeatures(t *testing.T) {
	sqlDB := openStore(t)
	for _, uri := range []string{"classpath:/a.feature", "classpath:/b.feature"} {
		_, err := SaveFeature(sqlDB, FeatureRecord{URI: uri, Kind: "classpath", Name: uri}, []NodeRecord{
			{UniqueID: "[engine:ft]/[feature:" + uri + "]", Type: "feature", Name: uri, Line: 1, Source: uri},
		})
		require.NoError(t, err)
	}

	removed, err := PruneFeatures(sqlDB, []string{"classpath:/a.feature"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	nodes, err := ListNodes(sqlDB)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "classpath:/a.feature", nodes[0].FeatureURI)

	var orphans int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM nodes WHERE feature_id NOT IN (SELECT id FROM features)`).Scan(&orphans))
	assert.Zero(t, orphans)

	removed, err = PruneFeatures(sqlDB, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}
