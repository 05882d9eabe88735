package discovery

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/ftorigin/internal/config"
	"github.com/chriserin/ftorigin/internal/origin"
	"github.com/chriserin/ftorigin/internal/resource"
	"github.com/chriserin/ftorigin/internal/source"
	"github.com/chriserin/ftorigin/internal/uniqueid"
)

const eating = `Feature: Eating
  Scenario: one cucumber
    Given there is 1 cucumber

  Scenario Outline: eating
    Given there are <start> cucumbers
    Examples: small
      | start |
      | 12    |
      | 20    |
`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func ids(n *Node) []string {
	var out []string
	n.Walk(func(c *Node) bool {
		out = append(out, c.ID.String())
		return true
	})
	return out
}

func TestLoad_BuildsTree(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "example", "eating.feature")
	writeFile(t, path, eating)

	r, err := resource.ClasspathRootLocator().Build(base, path)
	require.NoError(t, err)

	f, err := Load(uniqueid.ForEngine("ft"), r)
	require.NoError(t, err)
	assert.Empty(t, f.ParseErrors)
	assert.Equal(t, origin.KindClasspath, f.Origin.Kind())
	assert.Equal(t, eating, string(f.Content))

	feature := "[engine:ft]/[feature:classpath%3A%2Fexample%2Feating.feature]"
	assert.Equal(t, []string{
		feature,
		feature + "/[scenario:2]",
		feature + "/[outline:5]",
		feature + "/[outline:5]/[examples:7]",
		feature + "/[outline:5]/[examples:7]/[example:9]",
		feature + "/[outline:5]/[examples:7]/[example:10]",
	}, ids(f.Root))

	assert.Equal(t, source.ClasspathResource{Name: "example/eating.feature"}, f.Root.Source)
	row := f.Root.Children[1].Children[0].Children[1]
	assert.Equal(t, "Example #2: start=20", row.Name)
	assert.Equal(t, origin.ExampleSegmentType, row.Type)
	assert.Equal(t,
		source.ClasspathResource{Name: "example/eating.feature", Position: &source.FilePosition{Line: 10, Column: 7}},
		row.Source,
	)
}

func TestLoad_MissingFile(t *testing.T) {
	base := t.TempDir()
	r, err := resource.URILocator().Build(base, filepath.Join(base, "gone.feature"))
	require.NoError(t, err)

	_, err = Load(uniqueid.ForEngine("ft"), r)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNode_Find(t *testing.T) {
	base := t.TempDir()
	path := filepath.Join(base, "eating.feature")
	writeFile(t, path, eating)
	r, err := resource.URILocator().Build(base, path)
	require.NoError(t, err)
	f, err := Load(uniqueid.ForEngine("ft"), r)
	require.NoError(t, err)

	target := f.Root.Children[1].Children[0]
	found := f.Root.Find(target.ID)
	require.NotNil(t, found)
	assert.Equal(t, "small", found.Name)

	assert.Nil(t, f.Root.Find(f.Root.ID.Append("scenario", "99")))
	assert.Nil(t, f.Root.Find(uniqueid.ForEngine("other")))
}

func TestDiscover_AllModes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "features", "a", "login.feature"), "Feature: Login\n  Scenario: in\n    Given x\n")
	writeFile(t, filepath.Join(dir, "features", "notes.txt"), "not a feature")
	writeFile(t, filepath.Join(dir, "pkg", "sub", "cart.feature"), "Feature: Cart\n")
	writeFile(t, filepath.Join(dir, "loose", "one.feature"), "Feature: One\n")
	writeFile(t, filepath.Join(dir, "plain", "two.feature"), "Feature: Two\n")

	cfg := config.Default()
	cfg.Parallelism = 2
	cfg.Roots = []config.Root{
		{Dir: filepath.Join(dir, "features"), Mode: "classpath-root"},
		{Dir: filepath.Join(dir, "pkg"), Mode: "package", Package: "com.shop"},
		{Mode: "classpath", Name: "named/one.feature", Path: filepath.Join(dir, "loose", "one.feature")},
		{Dir: filepath.Join(dir, "plain"), Mode: "uri"},
	}

	features, err := Discover(context.Background(), cfg)
	require.NoError(t, err)

	var uris []string
	for _, f := range features {
		uris = append(uris, f.URI())
	}
	assert.Equal(t, []string{
		"classpath:/a/login.feature",
		"classpath:/com/shop/sub/cart.feature",
		"classpath:/named/one.feature",
		"file://" + filepath.ToSlash(filepath.Join(dir, "plain", "two.feature")),
	}, uris)

	assert.Equal(t, origin.KindFile, features[3].Origin.Kind())
	require.Len(t, features[0].Root.Children, 1)
	assert.Equal(t, "[engine:ft]/[feature:classpath%3A%2Fa%2Flogin.feature]/[scenario:2]", features[0].Root.Children[0].ID.String())
}

func TestDiscover_DuplicateURIsKeptOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "one", "same.feature"), "Feature: One\n")
	writeFile(t, filepath.Join(dir, "two", "same.feature"), "Feature: Two\n")

	cfg := config.Default()
	cfg.Roots = []config.Root{
		{Dir: filepath.Join(dir, "one"), Mode: "classpath-root"},
		{Dir: filepath.Join(dir, "two"), Mode: "classpath-root"},
	}

	features, err := Discover(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, "One", features[0].Document.Feature.Name)
}

func TestDiscover_ClasspathNamesDifferingBySlashKeptOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "one.feature"), "Feature: One\n  Scenario: s\n    Given x\n")
	writeFile(t, filepath.Join(dir, "two.feature"), "Feature: Two\n  Scenario: s\n    Given x\n")

	cfg := config.Default()
	cfg.Roots = []config.Root{
		{Mode: "classpath", Name: "x/login.feature", Path: filepath.Join(dir, "one.feature")},
		{Mode: "classpath", Name: "/x/login.feature", Path: filepath.Join(dir, "two.feature")},
	}

	features, err := Discover(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, "classpath:/x/login.feature", features[0].URI())
	assert.Equal(t, "One", features[0].Document.Feature.Name)
}

func TestDiscover_MissingRoot(t *testing.T) {
	cfg := config.Default()
	cfg.Roots = []config.Root{{Dir: filepath.Join(t.TempDir(), "absent"), Mode: "uri"}}

	_, err := Discover(context.Background(), cfg)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiscover_Canceled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.feature"), "Feature: A\n")
	cfg := config.Default()
	cfg.Roots = []config.Root{{Dir: dir, Mode: "uri"}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Discover(ctx, cfg)
	assert.ErrorIs(t, err, context.Canceled)
}
