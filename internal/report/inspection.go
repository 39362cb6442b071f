package report

import (
	"fmt"

	"github.com/roach88/replaycheck/internal/inspect"
	"github.com/roach88/replaycheck/internal/value"
)

// Inspection prints one line per retained record, section by section.
func (p *Printer) Inspection(rep inspect.Report) {
	field := fieldName(rep.Options.Field)

	for i, sec := range rep.Sections {
		if i > 0 {
			fmt.Fprintln(p.w)
		}
		label := p.sideLabel(sec.Side)
		if len(sec.Records) == 0 {
			fmt.Fprintln(p.w, p.dim.Sprintf("No %s actions in %s range [%d, %d)",
				rep.Options.Type, label, rep.Options.Start, rep.Options.End))
			continue
		}
		for _, r := range sec.Records {
			fmt.Fprintf(p.w, "Action %d: %s %s=%s | %s\n",
				r.Index, label, field, value.Render(r.Value), p.status(r.Status))
		}
	}
}

func (p *Printer) sideLabel(side inspect.Side) string {
	if side == inspect.SideReference {
		return p.opts.Labels.Reference
	}
	return p.opts.Labels.Candidate
}

func (p *Printer) status(s inspect.Status) string {
	if s == inspect.StatusSame {
		return p.bad.Sprint(string(s))
	}
	return p.good.Sprint(string(s))
}

// fieldName is the last key of a dotted field reference.
func fieldName(field string) string {
	path := value.ParseFieldPath(field)
	if len(path) == 0 {
		return field
	}
	return path[len(path)-1].Key
}
