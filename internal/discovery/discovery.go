package discovery

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/chriserin/ftorigin/internal/config"
	"github.com/chriserin/ftorigin/internal/logger"
	"github.com/chriserin/ftorigin/internal/origin"
	"github.com/chriserin/ftorigin/internal/parser"
	"github.com/chriserin/ftorigin/internal/resource"
	"github.com/chriserin/ftorigin/internal/uniqueid"
)

// Candidate is a file found under a root, not yet opened.
type Candidate struct {
	BaseDir string
	Path    string
	Locator resource.Locator
}

// Feature is a resolved and parsed feature file.
type Feature struct {
	Resource    resource.Resource
	Origin      origin.Origin
	Document    *parser.Document
	Content     []byte
	ParseErrors []parser.ParseError
	Root        *Node
}

// URI is the canonical address, the one the feature's id is built from.
func (f *Feature) URI() string {
	return f.Origin.URI().String()
}

// Candidates lists the files of one root in lexical order.
func Candidates(root config.Root, extension string) ([]Candidate, error) {
	loc, err := root.Locator()
	if err != nil {
		return nil, err
	}

	if loc.Mode == resource.ModeClasspath {
		return []Candidate{{BaseDir: root.Dir, Path: root.Path, Locator: loc}}, nil
	}

	var out []Candidate
	err = filepath.WalkDir(root.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), extension) {
			return nil
		}
		out = append(out, Candidate{BaseDir: root.Dir, Path: path, Locator: loc})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root.Dir, err)
	}
	return out, nil
}

// Load opens, parses and resolves one resource.
func Load(parent uniqueid.ID, r resource.Resource) (*Feature, error) {
	uri := r.URI()

	rc, err := r.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var content strings.Builder
	doc, parseErrors, err := parser.ParseReader(uri.String(), io.TeeReader(rc, &content))
	if err != nil {
		return nil, err
	}
	doc.Feature.URI = uri

	o := origin.Resolve(uri)
	logger.Debug("resolved %s", o)

	return &Feature{
		Resource:    r,
		Origin:      o,
		Document:    doc,
		Content:     []byte(content.String()),
		ParseErrors: parseErrors,
		Root:        BuildTree(o, parent, doc),
	}, nil
}

// Discover loads every feature under the configured roots. Features are
// loaded concurrently and returned sorted by URI. A URI found under more
// than one root is kept once.
func Discover(ctx context.Context, cfg config.Config) ([]*Feature, error) {
	var candidates []Candidate
	for _, root := range cfg.Roots {
		found, err := Candidates(root, cfg.Extension)
		if err != nil {
			return nil, err
		}
		logger.Debug("root %s (%s): %d candidates", root.Dir, root.Mode, len(found))
		candidates = append(candidates, found...)
	}

	parent := uniqueid.ForEngine(cfg.Engine)
	features := make([]*Feature, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers())
	for i, c := range candidates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := c.Locator.Build(c.BaseDir, c.Path)
			if err != nil {
				return fmt.Errorf("locating %s: %w", c.Path, err)
			}
			f, err := Load(parent, r)
			if err != nil {
				return err
			}
			features[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(features, func(i, j int) bool {
		return features[i].URI() < features[j].URI()
	})

	out := make([]*Feature, 0, len(features))
	for _, f := range features {
		if len(out) > 0 && f.URI() == out[len(out)-1].URI() {
			logger.Warn("duplicate feature %s, keeping the first", f.URI())
			continue
		}
		out = append(out, f)
	}
	logger.Info("discovered %d features", len(out))
	return out, nil
}
