package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"cxxfront/internal/clower"
	"cxxfront/internal/config"
	"cxxfront/internal/diag"
	"cxxfront/internal/driver"
	"cxxfront/internal/observ"
	"cxxfront/internal/source"
	"cxxfront/internal/trace"
)

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.New("plain"), 1},
		{clower.Unsupportedf(source.Location{}, "x"), 1},
		{fmt.Errorf("unit: %w", clower.Fatalf(diag.FtlStaticMethod, source.Location{}, "x")), 2},
		{&exitError{code: 2, msg: "1 of 1 units failed"}, 2},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Errorf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "ON": uiModeOn, " off ": uiModeOff} {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Errorf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Errorf("expected error for invalid mode")
	}
	if shouldUseTUI(uiModeOff, 10) || !shouldUseTUI(uiModeOn, 1) {
		t.Errorf("explicit modes not honored")
	}
}

func TestResolveColor(t *testing.T) {
	if on, err := resolveColor("on"); err != nil || !on {
		t.Errorf("on: %v %v", on, err)
	}
	if on, err := resolveColor("off"); err != nil || on {
		t.Errorf("off: %v %v", on, err)
	}
	if _, err := resolveColor("rainbow"); err == nil {
		t.Errorf("expected error")
	}
}

func TestLowerOptionsOverrideConfig(t *testing.T) {
	saved := current
	defer func() { current = saved }()
	cfg := config.Default()
	cfg.Output.Dir = "from-config"
	cfg.Run.Jobs = 3
	current = settings{cfg: cfg}

	cmd := &cobra.Command{Use: "lower"}
	cmd.Flags().AddFlagSet(lowerCmd.Flags())
	if err := cmd.Flags().Parse([]string{"--out", "from-flag", "--text"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	opts, err := lowerOptions(cmd)
	if err != nil {
		t.Fatalf("lowerOptions: %v", err)
	}
	if opts.OutDir != "from-flag" || !opts.Text {
		t.Errorf("flags not applied: %+v", opts)
	}
	if opts.Jobs != 3 || !opts.Validate {
		t.Errorf("config values lost: %+v", opts)
	}
}

func TestVersionJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := renderVersionJSON(&buf, buildVersionPayload(true, false)); err != nil {
		t.Fatalf("render: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Tool != "cxxfront" || payload.GitCommit != "unknown" || payload.BuildDate != "" || payload.IRSchema == "" {
		t.Errorf("unexpected payload %+v", payload)
	}
	if len(payload.Targets) == 0 || payload.Targets[0] != "x86_64-linux-gnu" {
		t.Errorf("unexpected targets %v", payload.Targets)
	}
}

func TestDumpTraceWritesRingTail(t *testing.T) {
	ring := trace.NewRingTracer(8, trace.LevelDebug)
	trace.Point(ring, trace.ScopePass, "classes", "", 0)

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetErr(&buf)
	cmd.SetContext(trace.WithTracer(context.Background(), ring))
	dumpTrace(cmd, "fatal error")
	if !strings.Contains(buf.String(), "before fatal error") || !strings.Contains(buf.String(), "classes") {
		t.Fatalf("unexpected crash dump:\n%s", buf.String())
	}

	buf.Reset()
	cmd.SetContext(context.Background())
	dumpTrace(cmd, "fatal error")
	if buf.Len() != 0 {
		t.Fatalf("no ring tracer must print nothing, got %q", buf.String())
	}
}

func TestNewTracer(t *testing.T) {
	tr, err := newTracer(config.Trace{Level: "off", Mode: "stream"}, 0)
	if err != nil || tr.Enabled() {
		t.Fatalf("off without output must be a nop tracer, got %v, %v", tr, err)
	}

	tr, err = newTracer(config.Trace{Level: "off", Mode: "ring", Output: "-"}, 16)
	if err != nil {
		t.Fatalf("newTracer: %v", err)
	}
	if tr.Level() != trace.LevelPhase {
		t.Errorf("output without level should trace phases, got %v", tr.Level())
	}
	if _, ok := trace.Ring(tr); !ok {
		t.Errorf("ring mode must keep a ring")
	}

	if _, err := newTracer(config.Trace{Level: "debug", Mode: "disk"}, 0); err == nil {
		t.Errorf("expected error for unknown mode")
	}
}

func TestPrintTimingsStyled(t *testing.T) {
	results := []driver.Result{
		{Path: "in/a.astpack", Timing: observ.Report{TotalMS: 3.5, Phases: []observ.PhaseReport{{Name: "decode", DurationMS: 1.25}, {Name: "lower", DurationMS: 2.25}}}},
		{Path: "in/b.astpack", Timing: observ.Report{TotalMS: 1, Phases: []observ.PhaseReport{{Name: "decode", DurationMS: 1}}}},
	}
	for _, styled := range []bool{true, false} {
		var buf bytes.Buffer
		printTimings(&buf, results, styled)
		out := buf.String()
		for _, want := range []string{"unit", "decode", "a.astpack", "b.astpack", "3.5", "all", "4.5"} {
			if !strings.Contains(out, want) {
				t.Errorf("styled=%v: missing %q in\n%s", styled, want, out)
			}
		}
	}
}
