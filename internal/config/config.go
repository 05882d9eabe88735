package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/pelletier/go-toml/v2"

	"github.com/chriserin/ftorigin/internal/resource"
)

const DefaultFileName = "ftorigin.toml"

var ErrInvalidRoot = errors.New("invalid root")

type Config struct {
	// Engine is the value of the root unique id segment.
	Engine   string `toml:"engine"`
	Database string `toml:"database"`
	// Parallelism bounds how many features are resolved at once. 0 means one
	// per CPU.
	Parallelism int    `toml:"parallelism"`
	Extension   string `toml:"extension"`
	Roots       []Root `toml:"roots"`
}

// Root is one directory of feature files sharing an addressing mode.
type Root struct {
	Dir     string `toml:"dir"`
	Mode    string `toml:"mode"`
	Package string `toml:"package,omitempty"`
	// Name and Path describe a single file for mode "classpath".
	Name string `toml:"name,omitempty"`
	Path string `toml:"path,omitempty"`
}

func Default() Config {
	return Config{
		Engine:      "ft",
		Database:    "ftorigin.db",
		Parallelism: 0,
		Extension:   ".feature",
		Roots: []Root{
			{Dir: "features", Mode: resource.ModeClasspathRoot.String()},
		},
	}
}

// Load reads the config at path. Relative directories are resolved against
// the directory holding the file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	cfg.Roots = nil
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}

	base := filepath.Dir(path)
	for i := range cfg.Roots {
		cfg.Roots[i].Dir = resolve(base, cfg.Roots[i].Dir)
		if cfg.Roots[i].Path != "" {
			cfg.Roots[i].Path = resolve(base, cfg.Roots[i].Path)
		}
	}
	if cfg.Database != "" {
		cfg.Database = resolve(base, cfg.Database)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Write saves cfg as TOML.
func (c Config) Write(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	if c.Engine == "" {
		return errors.New("engine must not be empty")
	}
	if c.Parallelism < 0 {
		return fmt.Errorf("parallelism must not be negative, got %d", c.Parallelism)
	}
	for i, r := range c.Roots {
		if _, err := r.Locator(); err != nil {
			return fmt.Errorf("roots[%d]: %w", i, err)
		}
	}
	return nil
}

// Workers returns the effective parallelism.
func (c Config) Workers() int {
	if c.Parallelism > 0 {
		return c.Parallelism
	}
	return runtime.NumCPU()
}

// Locator converts the root to the locator that addresses its files.
// Malformed package names are reported here, before any file is scanned.
func (r Root) Locator() (resource.Locator, error) {
	mode, err := resource.ParseMode(r.Mode)
	if err != nil {
		return resource.Locator{}, err
	}
	if mode != resource.ModeClasspath && r.Dir == "" {
		return resource.Locator{}, fmt.Errorf("%w: mode %q needs dir", ErrInvalidRoot, r.Mode)
	}
	switch mode {
	case resource.ModePackage:
		if _, err := resource.PackagePath(r.Package); err != nil {
			return resource.Locator{}, err
		}
		return resource.PackageLocator(r.Package), nil
	case resource.ModeClasspath:
		if r.Name == "" || r.Path == "" {
			return resource.Locator{}, fmt.Errorf("%w: mode %q needs name and path", ErrInvalidRoot, r.Mode)
		}
		return resource.ClasspathLocator(r.Name), nil
	case resource.ModeClasspathRoot:
		return resource.ClasspathRootLocator(), nil
	default:
		return resource.URILocator(), nil
	}
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
