package source

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
)

// FilePosition is a 1-based line and optional column. Column 0 means unknown.
type FilePosition struct {
	Line   int
	Column int
}

func (p FilePosition) String() string {
	if p.Column > 0 {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return strconv.Itoa(p.Line)
}

// PositionFromQuery reads line and column parameters from a URI query, as in
// classpath:/a.feature?line=3&column=5. Invalid or missing lines yield nil.
func PositionFromQuery(query string) *FilePosition {
	values, err := url.ParseQuery(query)
	if err != nil {
		return nil
	}
	line, err := strconv.Atoi(values.Get("line"))
	if err != nil || line < 1 {
		return nil
	}
	pos := &FilePosition{Line: line}
	if column, err := strconv.Atoi(values.Get("column")); err == nil && column > 0 {
		pos.Column = column
	}
	return pos
}

// Source is implemented by ClasspathResource, File and URI.
type Source interface {
	fmt.Stringer
	// Kind names the descriptor shape: "classpath", "file" or "uri".
	Kind() string
	isSource()
}

// ClasspathResource addresses a resource bundled under a classpath root.
// Name never starts with a slash.
type ClasspathResource struct {
	Name     string
	Position *FilePosition
}

func ClasspathResourceFrom(name string, pos *FilePosition) ClasspathResource {
	return ClasspathResource{Name: strings.TrimPrefix(name, "/"), Position: pos}
}

// ClasspathResourceFromURI builds a descriptor from a classpath:/name URI,
// honouring a line/column query.
func ClasspathResourceFromURI(u *url.URL) ClasspathResource {
	name := u.Path
	if name == "" {
		name = u.Opaque
	}
	return ClasspathResourceFrom(name, PositionFromQuery(u.RawQuery))
}

func (s ClasspathResource) Kind() string { return "classpath" }

func (s ClasspathResource) String() string {
	return withPosition("classpath:/"+s.Name, s.Position)
}

func (ClasspathResource) isSource() {}

// File addresses a file on the local filesystem by absolute path.
type File struct {
	Path     string
	Position *FilePosition
}

func FileFrom(path string, pos *FilePosition) File {
	return File{Path: filepath.Clean(path), Position: pos}
}

func (s File) Kind() string { return "file" }

func (s File) String() string {
	return withPosition(s.Path, s.Position)
}

func (File) isSource() {}

// URI addresses a resource that can only be named, not located.
type URI struct {
	URI string
}

func URIFrom(u *url.URL) URI {
	return URI{URI: u.String()}
}

func (s URI) Kind() string { return "uri" }

func (s URI) String() string { return s.URI }

func (URI) isSource() {}

func withPosition(base string, pos *FilePosition) string {
	if pos == nil {
		return base
	}
	return base + ":" + pos.String()
}
