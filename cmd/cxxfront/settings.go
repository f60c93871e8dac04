package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"cxxfront/internal/config"
	"cxxfront/internal/diagfmt"
	"cxxfront/internal/driver"
	"cxxfront/internal/layout"
	"cxxfront/internal/prof"
)

// settings is the configuration file merged with command-line overrides.
type settings struct {
	cfg    config.Config
	target layout.Target
	color  bool
	quiet  bool
}

var (
	current      settings
	traceCleanup = func() {}
	profile      *prof.Session
)

func prepare(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor, err := resolveColor(colorFlag)
	if err != nil {
		return err
	}
	color.NoColor = !useColor
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	if cmd.Annotations["config"] == "skip" {
		current = settings{cfg: config.Default(), color: useColor, quiet: quiet}
		return nil
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if flags.Changed("max-diagnostics") {
		if cfg.Run.MaxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
			return err
		}
	}
	for flag, dst := range map[string]*string{
		"trace":       &cfg.Trace.Output,
		"trace-level": &cfg.Trace.Level,
		"trace-mode":  &cfg.Trace.Mode,
	} {
		if !flags.Changed(flag) {
			continue
		}
		if *dst, err = flags.GetString(flag); err != nil {
			return err
		}
	}
	if err := cfg.Check(); err != nil {
		return err
	}
	target, err := cfg.Layout()
	if err != nil {
		return err
	}

	cleanup, err := setupTracing(cmd, cfg.Trace)
	if err != nil {
		return err
	}
	traceCleanup = cleanup
	current = settings{cfg: cfg, target: target, color: useColor, quiet: quiet}
	return startProfiling(cmd)
}

// teardown flushes the tracer and finishes profiles. It runs after the
// command whether or not it failed.
func teardown(cmd *cobra.Command) {
	traceCleanup()
	traceCleanup = func() {}
	if profile != nil {
		if err := profile.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
		profile = nil
	}
}

func startProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	s := &prof.Session{}
	var err error
	if s.CPUPath, err = flags.GetString("cpu-profile"); err != nil {
		return err
	}
	if s.MemPath, err = flags.GetString("mem-profile"); err != nil {
		return err
	}
	if s.TracePath, err = flags.GetString("go-trace"); err != nil {
		return err
	}
	if s.CPUPath == "" && s.MemPath == "" && s.TracePath == "" {
		return nil
	}
	if err := s.Start(); err != nil {
		return fmt.Errorf("failed to start profiling: %w", err)
	}
	profile = s
	return nil
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	return config.Discover(".")
}

func resolveColor(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return isTerminal(os.Stderr), nil
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
}

func (s settings) driverOptions() driver.Options {
	return driver.Options{
		Target:                        s.target,
		Mode:                          s.cfg.Lowering.Mode,
		DumpExplicitInstantiations:    s.cfg.Lowering.DumpExplicitInstantiations,
		DumpExplicitVarInstantiations: s.cfg.Lowering.DumpExplicitVarInstantiations,
		OutDir:                        s.cfg.Output.Dir,
		Validate:                      s.cfg.Output.Validate,
		Text:                          s.cfg.Output.Text,
		Jobs:                          s.cfg.Run.Jobs,
		MaxDiagnostics:                s.cfg.Run.MaxDiagnostics,
	}
}

func (s settings) prettyOpts() diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:     s.color,
		PathMode:  diagfmt.PathModeRelative,
		ShowNotes: true,
		Max:       s.cfg.Run.MaxDiagnostics,
	}
}
