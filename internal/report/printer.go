package report

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/roach88/replaycheck/internal/compare"
	"github.com/roach88/replaycheck/internal/value"
)

// Truncation limits, in characters.
const (
	TypeValueLimit = 100
	ValueLimit     = 200
)

// Labels name the two documents in diagnostics.
type Labels struct {
	Reference string
	Candidate string
}

// DefaultLabels names the reference "zig" and the candidate "python".
func DefaultLabels() Labels {
	return Labels{Reference: "zig", Candidate: "python"}
}

// Options configures a Printer.
type Options struct {
	Labels Labels

	// Color enables ANSI colors for headers.
	Color bool

	// StringDiff adds an inline diff line to string value mismatches.
	StringDiff bool
}

// Printer writes human-readable results to w.
type Printer struct {
	w    io.Writer
	opts Options

	bad  *color.Color
	good *color.Color
	dim  *color.Color
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer, opts Options) *Printer {
	p := &Printer{
		w:    w,
		opts: opts,
		bad:  color.New(color.FgRed, color.Bold),
		good: color.New(color.FgGreen, color.Bold),
		dim:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.bad, p.good, p.dim} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// ColorMode selects when colors are used.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// UseColor decides whether output to w should be colored.
// Auto colors only terminals, and only when NO_COLOR is unset.
func UseColor(mode ColorMode, w io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Comparison prints every divergence in res, or the success line.
// In collect-all mode a summary line follows the divergences.
func (p *Printer) Comparison(res compare.Result) {
	if res.Equal() {
		fmt.Fprintln(p.w, p.good.Sprint("Files are identical!"))
		return
	}

	for i, d := range res.Divergences {
		if i > 0 {
			fmt.Fprintln(p.w)
		}
		p.Divergence(d)
	}

	if res.Mode == compare.CollectAll {
		summary := fmt.Sprintf("%d divergence(s) found", len(res.Divergences))
		if res.Limited {
			summary += " (limit reached)"
		}
		fmt.Fprintln(p.w)
		fmt.Fprintln(p.w, p.bad.Sprint(summary))
	}
}

// Divergence prints one divergence block.
func (p *Printer) Divergence(d compare.Divergence) {
	ref, cand := p.opts.Labels.Reference, p.opts.Labels.Candidate

	switch d.Kind {
	case compare.KindTypeMismatch:
		p.header("Type mismatch at %s:", d.Path.Label())
		p.side(ref, fmt.Sprintf("%s = %s", d.ReferenceKind, clip(d.Reference, TypeValueLimit)))
		p.side(cand, fmt.Sprintf("%s = %s", d.CandidateKind, clip(d.Candidate, TypeValueLimit)))

	case compare.KindMissingInReference:
		p.header("Missing in %s: %s", ref, d.Path.Label())
		p.line("%s has: %s", cand, clip(d.Candidate, ValueLimit))
		p.line("%s keys at %s: %s", ref, parentLabel(d.Path), value.RenderKeys(d.SiblingKeys))
		p.context(d.Context)

	case compare.KindMissingInCandidate:
		p.header("Missing in %s: %s", cand, d.Path.Label())
		p.line("%s has: %s", ref, clip(d.Reference, ValueLimit))
		p.line("%s keys at %s: %s", cand, parentLabel(d.Path), value.RenderKeys(d.SiblingKeys))
		p.context(d.Context)

	case compare.KindLengthMismatch:
		p.header("List length mismatch at %s:", d.Path.Label())
		p.side(ref, fmt.Sprintf("%d items", d.Length.Reference))
		p.side(cand, fmt.Sprintf("%d items", d.Length.Candidate))

	default:
		p.header("Value mismatch at %s:", d.Path.Label())
		p.side(ref, clip(d.Reference, ValueLimit))
		p.side(cand, clip(d.Candidate, ValueLimit))
		if p.opts.StringDiff {
			if a, ok := d.Reference.(value.String); ok {
				if b, ok := d.Candidate.(value.String); ok {
					p.side("diff", inlineDiff(string(a), string(b)))
				}
			}
		}
	}
}

// context prints the enclosing action record of both documents.
func (p *Printer) context(ctx *compare.ActionContext) {
	if ctx == nil {
		return
	}
	ref, cand := p.opts.Labels.Reference, p.opts.Labels.Candidate
	p.line("%s action type: %s", ref, actionType(ctx.ReferenceType))
	p.line("%s action type: %s", cand, actionType(ctx.CandidateType))
	p.line("%s payload: %s", ref, payload(ctx.ReferencePayload))
	p.line("%s payload: %s", cand, payload(ctx.CandidatePayload))
}

func (p *Printer) header(format string, args ...any) {
	fmt.Fprintln(p.w, p.bad.Sprintf(format, args...))
}

func (p *Printer) line(format string, args ...any) {
	fmt.Fprintf(p.w, "  "+format+"\n", args...)
}

// side prints "  label: text" with the text column aligned across labels.
func (p *Printer) side(label, text string) {
	width := max(len(p.opts.Labels.Reference), len(p.opts.Labels.Candidate), len("diff")) + 2
	fmt.Fprintf(p.w, "  %-*s%s\n", width, label+":", text)
}

// clip renders v and truncates it to limit characters.
func clip(v value.Value, limit int) string {
	return value.Truncate(value.Render(v), limit)
}

// parentLabel names the object a missing key was looked up in.
func parentLabel(path value.Path) string {
	if len(path) == 0 {
		return "root"
	}
	return path[:len(path)-1].Label()
}

// actionType shows a record type tag bare, or N/A when absent.
func actionType(v value.Value) string {
	if v == nil {
		return "N/A"
	}
	if s, ok := v.(value.String); ok {
		return string(s)
	}
	return value.Render(v)
}

// payload shows a record payload, or {} when absent.
func payload(v value.Value) string {
	if v == nil {
		return "{}"
	}
	return clip(v, ValueLimit)
}
