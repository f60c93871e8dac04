package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"cxxfront/internal/diag"
	"cxxfront/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//	  in function <name>
//	  note: <path>:<line>:<col>: <Message>
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPainter(opts.Color)
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for _, d := range items {
		writeDiagnostic(w, p, d, opts)
	}
	if hidden := bag.Len() - len(items); hidden > 0 {
		fmt.Fprintf(w, "%s\n", p.dim.Sprintf("... and %d more", hidden))
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "%s\n", p.dim.Sprintf("%d diagnostics dropped after the per-unit limit", n))
	}
}

// PrettyOne prints a single diagnostic.
func PrettyOne(w io.Writer, d diag.Diagnostic, opts PrettyOpts) {
	writeDiagnostic(w, newPainter(opts.Color), d, opts)
}

type painter struct {
	sev  map[diag.Severity]*color.Color
	loc  *color.Color
	code *color.Color
	dim  *color.Color
}

func newPainter(enabled bool) *painter {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return &painter{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   mk(color.FgRed, color.Bold),
			diag.SevWarning: mk(color.FgYellow, color.Bold),
			diag.SevInfo:    mk(color.FgCyan),
		},
		loc:  mk(color.Bold),
		code: mk(color.FgMagenta),
		dim:  mk(color.Faint),
	}
}

func writeDiagnostic(w io.Writer, p *painter, d diag.Diagnostic, opts PrettyOpts) {
	sev := p.sev[d.Severity]
	if sev == nil {
		sev = p.dim
	}
	header := fmt.Sprintf("%s: %s %s: ",
		p.loc.Sprint(position(d.Primary, opts)),
		sev.Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()))
	fmt.Fprintf(w, "%s%s\n", header, wrap(d.Message, opts.Width, runewidth.StringWidth(plainHeader(d, opts))))
	if d.Primary.Function != "" {
		fmt.Fprintf(w, "  %s\n", p.dim.Sprintf("in function %s", d.Primary.Function))
	}
	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		if n.Loc.IsZero() {
			fmt.Fprintf(w, "  %s %s\n", p.dim.Sprint("note:"), n.Msg)
			continue
		}
		fmt.Fprintf(w, "  %s %s: %s\n", p.dim.Sprint("note:"), p.loc.Sprint(position(n.Loc, opts)), n.Msg)
	}
}

func plainHeader(d diag.Diagnostic, opts PrettyOpts) string {
	return fmt.Sprintf("%s: %s %s: ", position(d.Primary, opts), d.Severity, d.Code.ID())
}

func position(loc source.Location, opts PrettyOpts) string {
	if loc.File == "" && loc.Line == 0 {
		return "<unknown>"
	}
	var sb strings.Builder
	sb.WriteString(formatPath(loc.File, opts.PathMode, opts.BaseDir))
	if loc.Line > 0 {
		fmt.Fprintf(&sb, ":%d", loc.Line)
		if loc.Column > 0 {
			fmt.Fprintf(&sb, ":%d", loc.Column)
		}
	}
	return sb.String()
}

// wrap breaks msg so that no line exceeds width columns; continuation lines
// are indented by indent.
func wrap(msg string, width uint8, indent int) string {
	if width == 0 || runewidth.StringWidth(msg)+indent <= int(width) {
		return msg
	}
	avail := max(int(width)-indent, 20)
	var out strings.Builder
	lineWidth := 0
	for i, word := range strings.Fields(msg) {
		ww := runewidth.StringWidth(word)
		if i > 0 {
			if lineWidth+1+ww > avail {
				out.WriteString("\n")
				out.WriteString(strings.Repeat(" ", indent))
				lineWidth = 0
			} else {
				out.WriteString(" ")
				lineWidth++
			}
		}
		out.WriteString(word)
		lineWidth += ww
	}
	return out.String()
}
