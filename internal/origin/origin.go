package origin

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chriserin/ftorigin/internal/parser"
	"github.com/chriserin/ftorigin/internal/resource"
	"github.com/chriserin/ftorigin/internal/source"
	"github.com/chriserin/ftorigin/internal/uniqueid"
)

const (
	FeatureSegmentType  = "feature"
	ScenarioSegmentType = "scenario"
	OutlineSegmentType  = "outline"
	ExamplesSegmentType = "examples"
	ExampleSegmentType  = "example"
)

type Kind int

const (
	KindURI Kind = iota
	KindClasspath
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindClasspath:
		return "classpath"
	case KindFile:
		return "file"
	default:
		return "uri"
	}
}

// Origin is immutable once resolved.
type Origin struct {
	kind Kind
	uri  *url.URL

	classpath source.ClasspathResource
	file      source.File
	generic   source.URI
}

// Resolve classifies u. Classpath addresses are canonicalized to start with a
// slash, so classpath:a.feature and classpath:/a.feature resolve alike.
func Resolve(u *url.URL) Origin {
	if IsClasspath(u) {
		canonical := canonicalClasspath(u)
		return Origin{
			kind:      KindClasspath,
			uri:       canonical,
			classpath: source.ClasspathResourceFromURI(canonical),
		}
	}

	own := *u
	if path, ok := filePath(u); ok {
		return Origin{
			kind: KindFile,
			uri:  &own,
			file: source.FileFrom(path, source.PositionFromQuery(u.RawQuery)),
		}
	}

	return Origin{
		kind:    KindURI,
		uri:     &own,
		generic: source.URIFrom(u),
	}
}

// IsClasspath reports whether u uses the classpath scheme.
func IsClasspath(u *url.URL) bool {
	return u != nil && u.Scheme == resource.Scheme
}

// IsFeatureSegment reports whether seg was produced by FeatureSegment.
func IsFeatureSegment(seg uniqueid.Segment) bool {
	return seg.Type == FeatureSegmentType
}

func (o Origin) Kind() Kind { return o.kind }

func (o Origin) URI() *url.URL {
	u := *o.uri
	return &u
}

func (o Origin) String() string {
	return fmt.Sprintf("%s origin %s", o.kind, o.uri)
}

// FeatureSource describes the whole resource.
func (o Origin) FeatureSource() source.Source {
	switch o.kind {
	case KindClasspath:
		return o.classpath
	case KindFile:
		return o.file
	default:
		return o.generic
	}
}

// NodeSource describes the node at loc. A KindURI origin has no finer
// addressing than the resource, so it returns FeatureSource.
func (o Origin) NodeSource(loc parser.Location) source.Source {
	pos := &source.FilePosition{Line: loc.Line, Column: loc.Column}
	switch o.kind {
	case KindClasspath:
		return source.ClasspathResourceFrom(o.classpath.Name, pos)
	case KindFile:
		return source.FileFrom(o.file.Path, pos)
	default:
		return o.generic
	}
}

// FeatureSegment appends the feature segment for f. Classpath origins use the
// document's own URI when it has one.
func (o Origin) FeatureSegment(parent uniqueid.ID, f *parser.Feature) uniqueid.ID {
	u := o.uri
	if o.kind == KindClasspath && f != nil && f.URI != nil {
		u = f.URI
		if IsClasspath(u) {
			u = canonicalClasspath(u)
		}
	}
	return parent.Append(FeatureSegmentType, u.String())
}

func ScenarioSegment(parent uniqueid.ID, sc *parser.Scenario) uniqueid.ID {
	return parent.Append(ScenarioSegmentType, strconv.Itoa(sc.Location.Line))
}

func OutlineSegment(parent uniqueid.ID, outline *parser.Scenario) uniqueid.ID {
	return parent.Append(OutlineSegmentType, strconv.Itoa(outline.Location.Line))
}

func ExamplesSegment(parent uniqueid.ID, examples *parser.Examples) uniqueid.ID {
	return parent.Append(ExamplesSegmentType, strconv.Itoa(examples.Location.Line))
}

func ExampleSegment(parent uniqueid.ID, row *parser.TableRow) uniqueid.ID {
	return parent.Append(ExampleSegmentType, strconv.Itoa(row.Location.Line))
}

// canonicalClasspath returns a copy of u whose scheme-specific part starts
// with a slash.
func canonicalClasspath(u *url.URL) *url.URL {
	c := *u
	if c.Opaque == "" {
		return &c
	}
	if !strings.HasPrefix(c.Opaque, "/") {
		name, err := url.PathUnescape(c.Opaque)
		if err != nil {
			name = c.Opaque
		}
		c.Path = "/" + name
	} else {
		c.Path = c.Opaque
	}
	c.Opaque = ""
	c.RawPath = ""
	c.OmitHost = true
	return &c
}

// filePath returns the native path of a file:// URI that does not name a
// directory.
func filePath(u *url.URL) (string, bool) {
	if u.Scheme != resource.FileScheme || u.Opaque != "" || u.Path == "" {
		return "", false
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", false
	}
	path := filepath.FromSlash(u.Path)
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return "", false
	}
	return path, true
}
