// Package config loads p4simp settings from a TOML file.
//
// A configuration file looks like
//
//	[simplify]
//	temp_prefix = "tmp"
//	keep_constant_operations = false
//
//	[log]
//	level = "info"
//	format = "console"
//
//	[passes]
//	verify = true
//	dump_before = ""
//	dump_after = "simplify"
//	dump_func = ""
//
// Missing keys take their default values.
package config

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/you-not-fish/p4simpl/internal/simplify"
)

// Names of the configuration file searched for next to the input.
const (
	FileName       = "p4simp.toml"
	HiddenFileName = ".p4simp.toml"
)

// Config holds all settings.
type Config struct {
	Simplify Simplify `toml:"simplify"`
	Log      Log      `toml:"log"`
	Passes   Passes   `toml:"passes"`

	// Path is the file the settings were read from, empty for defaults.
	Path string `toml:"-"`
}

// Simplify holds the settings of the expression simplifier.
type Simplify struct {
	TempPrefix             string `toml:"temp_prefix"`
	KeepConstantOperations bool   `toml:"keep_constant_operations"`
}

// Log holds the logger settings.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Passes holds the pipeline settings.
type Passes struct {
	Verify     bool   `toml:"verify"`
	DumpBefore string `toml:"dump_before"`
	DumpAfter  string `toml:"dump_after"`
	DumpFunc   string `toml:"dump_func"`
}

// Default returns the built-in settings.
func Default() *Config {
	c := &Config{}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	if c.Simplify.TempPrefix == "" {
		c.Simplify.TempPrefix = simplify.DefaultOptions().TempPrefix
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()

	buff, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	c := &Config{}
	if err := toml.Unmarshal(buff, c); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	c.setDefaults()
	c.Path = path
	if err := c.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return c, nil
}

// Find looks for a configuration file in dir and its parents and
// returns the path of the first one found.
func Find(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		for _, name := range []string{FileName, HiddenFileName} {
			path := filepath.Join(dir, name)
			if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
				return path, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// LoadFor returns the settings for compiling input. An explicit path
// takes precedence over a file found next to the input; without either
// the defaults apply.
func LoadFor(input, explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if path, ok := Find(filepath.Dir(input)); ok {
		return Load(path)
	}
	return Default(), nil
}

// Validate checks the settings for values no component accepts.
func (c *Config) Validate() error {
	if !isIdent(c.Simplify.TempPrefix) {
		return errors.Errorf("temp_prefix %q is not an identifier", c.Simplify.TempPrefix)
	}
	switch c.Log.Format {
	case "console", "json", "logfmt":
	default:
		return errors.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// SimplifyOptions returns the simplifier options.
func (c *Config) SimplifyOptions() simplify.Options {
	return simplify.Options{
		TempPrefix:             c.Simplify.TempPrefix,
		KeepConstantOperations: c.Simplify.KeepConstantOperations,
	}
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, ch := range s {
		switch {
		case ch == '_', 'a' <= ch && ch <= 'z', 'A' <= ch && ch <= 'Z':
		case i > 0 && '0' <= ch && ch <= '9':
		default:
			return false
		}
	}
	return true
}
