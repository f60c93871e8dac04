package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"cxxfront/internal/ir"
	"cxxfront/internal/layout"
	"cxxfront/internal/version"
)

// versionPayload is what `version --format=json` prints. Commit and date
// are only filled in when asked for.
type versionPayload struct {
	Tool      string   `json:"tool"`
	Version   string   `json:"version"`
	IRSchema  string   `json:"ir_schema"`
	Targets   []string `json:"targets"`
	GitCommit string   `json:"git_commit,omitempty"`
	BuildDate string   `json:"build_date,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Show cxxfront build information",
	Annotations: map[string]string{"config": "skip"},
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		format, _ := flags.GetString("format")
		full, _ := flags.GetBool("full")
		hash, _ := flags.GetBool("hash")
		date, _ := flags.GetBool("date")

		p := buildVersionPayload(hash || full, date || full)
		switch strings.ToLower(format) {
		case "pretty":
			renderVersionPretty(cmd.OutOrStdout(), p)
			return nil
		case "json":
			return renderVersionJSON(cmd.OutOrStdout(), p)
		}
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	},
}

func init() {
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "show every recorded bit of build metadata")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func buildVersionPayload(withHash, withDate bool) versionPayload {
	p := versionPayload{
		Tool:     "cxxfront",
		Version:  orDefault(strings.TrimSpace(version.Version), "dev"),
		IRSchema: ir.SchemaVersion,
		Targets:  layout.Triples(),
	}
	if withHash {
		p.GitCommit = orDefault(strings.TrimSpace(version.GitCommit), "unknown")
	}
	if withDate {
		p.BuildDate = orDefault(strings.TrimSpace(version.BuildDate), "unknown")
	}
	return p
}

func renderVersionPretty(out io.Writer, p versionPayload) {
	fmt.Fprintf(out, "cxxfront %s (ir schema %s)\n", version.Colored(), p.IRSchema)
	fmt.Fprintf(out, "targets: %s\n", strings.Join(p.Targets, ", "))
	if p.GitCommit != "" {
		fmt.Fprintf(out, "commit:  %s\n", p.GitCommit)
	}
	if p.BuildDate != "" {
		fmt.Fprintf(out, "built:   %s\n", p.BuildDate)
	}
}

func renderVersionJSON(out io.Writer, p versionPayload) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
