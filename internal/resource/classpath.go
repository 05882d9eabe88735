package resource

import (
	"fmt"
	"strings"
	"unicode"
)

const packageSeparator = "."

// PackagePath converts a dotted package name to a resource path:
// io.cucumber.example becomes io/cucumber/example. The empty name is the
// root package.
func PackagePath(packageName string) (string, error) {
	if packageName == "" {
		return "", nil
	}
	parts := strings.Split(packageName, packageSeparator)
	for _, part := range parts {
		if !isIdentifier(part) {
			return "", fmt.Errorf("%w: %q", ErrInvalidPackage, packageName)
		}
	}
	return strings.Join(parts, "/"), nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// packageResourceName prefixes the resource's path below baseDir with the
// package path. baseDir is the directory holding the package.
func packageResourceName(baseDir, packageName, path string) (string, error) {
	packagePath, err := PackagePath(packageName)
	if err != nil {
		return "", err
	}
	rel, err := relativeName(baseDir, path)
	if err != nil {
		return "", err
	}
	if packagePath == "" {
		return rel, nil
	}
	return packagePath + "/" + rel, nil
}
