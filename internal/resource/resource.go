package resource

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const (
	Scheme       = "classpath"
	SchemePrefix = Scheme + ":"
	FileScheme   = "file"
)

var (
	ErrInvalidPackage = errors.New("invalid package name")
	ErrOutsideBase    = errors.New("resource is outside its base directory")
	ErrUnknownMode    = errors.New("unknown addressing mode")
)

// Resource is a feature file with a logical address.
type Resource interface {
	URI() *url.URL
	// Open opens the underlying file. Missing files are only detected here.
	Open() (io.ReadCloser, error)
}

type Mode int

const (
	ModeURI Mode = iota
	ModeClasspathRoot
	ModePackage
	ModeClasspath
)

var modeNames = map[Mode]string{
	ModeURI:           "uri",
	ModeClasspathRoot: "classpath-root",
	ModePackage:       "package",
	ModeClasspath:     "classpath",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Locator is an addressing mode plus the settings that mode needs.
type Locator struct {
	Mode Mode
	// Package is the dotted package name used by ModePackage.
	Package string
	// Name is the classpath resource name used by ModeClasspath.
	Name string
}

func URILocator() Locator { return Locator{Mode: ModeURI} }

func ClasspathRootLocator() Locator { return Locator{Mode: ModeClasspathRoot} }

func PackageLocator(packageName string) Locator {
	return Locator{Mode: ModePackage, Package: packageName}
}

func ClasspathLocator(resourceName string) Locator {
	return Locator{Mode: ModeClasspath, Name: resourceName}
}

func (l Locator) String() string {
	switch l.Mode {
	case ModePackage:
		return fmt.Sprintf("%s(%s)", l.Mode, l.Package)
	case ModeClasspath:
		return fmt.Sprintf("%s(%s)", l.Mode, l.Name)
	default:
		return l.Mode.String()
	}
}

// Build addresses the file at path found under baseDir.
func (l Locator) Build(baseDir, path string) (Resource, error) {
	var (
		u   *url.URL
		err error
	)
	switch l.Mode {
	case ModeURI:
		u, err = FileURI(path)
	case ModeClasspathRoot:
		var name string
		name, err = relativeName(baseDir, path)
		u = ClasspathURI(name)
	case ModePackage:
		var name string
		name, err = packageResourceName(baseDir, l.Package, path)
		u = ClasspathURI(name)
	case ModeClasspath:
		u = ClasspathURI(l.Name)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownMode, l.Mode)
	}
	if err != nil {
		return nil, err
	}
	return &File{uri: u, path: path}, nil
}

// File is a Resource backed by a file on disk, whatever its address.
type File struct {
	uri  *url.URL
	path string
}

func (r *File) URI() *url.URL {
	u := *r.uri
	return &u
}

func (r *File) Open() (io.ReadCloser, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", r.path, err)
	}
	return f, nil
}

// ClasspathURI returns classpath:/name.
func ClasspathURI(name string) *url.URL {
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	return &url.URL{Scheme: Scheme, Path: name, OmitHost: true}
}

// FileURI returns the file:// URI of path made absolute.
func FileURI(path string) (*url.URL, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	slashed := filepath.ToSlash(abs)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	return &url.URL{Scheme: FileScheme, Path: slashed}, nil
}

func relativeName(baseDir, path string) (string, error) {
	rel, err := filepath.Rel(baseDir, path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrOutsideBase, path, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s not under %s", ErrOutsideBase, path, baseDir)
	}
	return filepath.ToSlash(rel), nil
}
