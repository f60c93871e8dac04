// Package config loads cxxfront.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"cxxfront/internal/diag"
	"cxxfront/internal/layout"
	"cxxfront/internal/trace"
)

// FileName is the name looked up by Find.
const FileName = "cxxfront.toml"

type Config struct {
	Lowering Lowering `toml:"lowering"`
	Target   Target   `toml:"target"`
	Output   Output   `toml:"output"`
	Run      Run      `toml:"run"`
	Trace    Trace    `toml:"trace"`

	// Path is the file the values came from; empty for defaults.
	Path string `toml:"-"`
}

type Lowering struct {
	DumpExplicitInstantiations    bool   `toml:"dump_explicit_instantiations"`
	DumpExplicitVarInstantiations bool   `toml:"dump_explicit_var_instantiations"`
	Mode                          string `toml:"mode"`
}

type Target struct {
	Triple     string `toml:"triple"`
	CharSigned *bool  `toml:"char_signed"`
}

type Output struct {
	Dir      string `toml:"dir"`
	Validate bool   `toml:"validate"`
	Text     bool   `toml:"text"`
}

type Run struct {
	Jobs           int `toml:"jobs"`
	MaxDiagnostics int `toml:"max_diagnostics"`
}

type Trace struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
	Mode   string `toml:"mode"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Lowering: Lowering{DumpExplicitInstantiations: true, Mode: "C++"},
		Target:   Target{Triple: "x86_64-linux-gnu"},
		Output:   Output{Dir: ".", Validate: true},
		Run:      Run{MaxDiagnostics: 100},
		Trace:    Trace{Level: "off", Mode: "stream"},
	}
}

// Error is a configuration problem tied to a key.
type Error struct {
	Code diag.Code
	Path string
	Key  string
	Msg  string
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Msg)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Key, e.Msg)
}

// Find walks up from startDir looking for cxxfront.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest cxxfront.toml above startDir, or the defaults
// when there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return Default(), err
	}
	return Load(path)
}

// Load decodes path over the defaults. Keys the file does not set keep
// their default values; unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return Config{}, &Error{Code: diag.CfgUnknownKey, Path: path, Key: keys[0], Msg: "unknown key"}
	}
	if meta.IsDefined("output", "dir") && !filepath.IsAbs(cfg.Output.Dir) {
		cfg.Output.Dir = filepath.Join(filepath.Dir(path), cfg.Output.Dir)
	}
	if meta.IsDefined("trace", "output") && cfg.Trace.Output != "" && cfg.Trace.Output != "-" && !filepath.IsAbs(cfg.Trace.Output) {
		cfg.Trace.Output = filepath.Join(filepath.Dir(path), cfg.Trace.Output)
	}
	cfg.Path = path
	if err := cfg.Check(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Check validates value ranges and enumerations.
func (c Config) Check() error {
	bad := func(key, format string, args ...any) error {
		return &Error{Code: diag.CfgInvalidValue, Path: c.source(), Key: key, Msg: fmt.Sprintf(format, args...)}
	}
	switch c.Lowering.Mode {
	case "C", "C++":
	default:
		return bad("lowering.mode", "expected \"C\" or \"C++\", got %q", c.Lowering.Mode)
	}
	if _, err := layout.TargetByTriple(c.Target.Triple); err != nil {
		return bad("target.triple", "%v", err)
	}
	if c.Run.Jobs < 0 {
		return bad("run.jobs", "must not be negative")
	}
	if c.Run.MaxDiagnostics < 0 {
		return bad("run.max_diagnostics", "must not be negative")
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return bad("trace.level", "%v", err)
	}
	if _, err := trace.ParseMode(c.Trace.Mode); err != nil {
		return bad("trace.mode", "%v", err)
	}
	return nil
}

// Layout returns the target data model with overrides applied.
func (c Config) Layout() (layout.Target, error) {
	t, err := layout.TargetByTriple(strings.TrimSpace(c.Target.Triple))
	if err != nil {
		return layout.Target{}, err
	}
	if c.Target.CharSigned != nil {
		t.CharSigned = *c.Target.CharSigned
	}
	return t, nil
}

func (c Config) source() string {
	if c.Path == "" {
		return "<defaults>"
	}
	return c.Path
}
