// Package reporter renders a finished report. Rendering and enforcement
// are separate concerns: the reporter only prints; whether a not-clean run
// fails the process is decided by the caller.
package reporter

import (
	"fmt"
	"io"
	"sort"

	"github.com/user/hanscan/pkg/engine"
)

// Format selects the output protocol.
type Format string

const (
	// FormatText is the human-readable file/line listing.
	FormatText Format = "text"
	// FormatGitHub emits workflow annotation commands.
	FormatGitHub Format = "github"
)

// Reporter writes findings to a sink in one of the supported formats.
type Reporter struct {
	format Format
	out    io.Writer
}

// New validates the format and returns a reporter writing to out.
func New(format Format, out io.Writer) (*Reporter, error) {
	switch format {
	case FormatText, FormatGitHub:
		return &Reporter{format: format, out: out}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q", format)
	}
}

// Render writes the full finding listing plus a summary.
func (r *Reporter) Render(rep *engine.Report) {
	findings := rep.Sorted()

	if r.format == FormatGitHub {
		for _, f := range findings {
			fmt.Fprintf(r.out, "::error file=%s,line=%d::%s: %s\n", f.File, f.Line, f.Message, f.Text)
		}
		return
	}

	if len(findings) == 0 {
		fmt.Fprintln(r.out, "No disallowed content found.")
		return
	}

	fmt.Fprintln(r.out, "Disallowed content found:")
	lastFile := ""
	for _, f := range findings {
		if f.File != lastFile {
			fmt.Fprintf(r.out, "\n%s:\n", f.File)
			lastFile = f.File
		}
		fmt.Fprintf(r.out, "  Line %d [%s]: %s\n", f.Line, f.Region, f.Text)
	}

	fmt.Fprintf(r.out, "\nTotal: %d finding(s)\n", len(findings))
	for _, rc := range sortedRegions(rep.CountsByRegion()) {
		fmt.Fprintf(r.out, "  %-20s %d\n", rc.region, rc.count)
	}
}

// RenderDiff writes a baseline comparison: new, fixed, and unchanged
// findings.
func (r *Reporter) RenderDiff(diff engine.SnapshotDiff) {
	if r.format == FormatGitHub {
		for _, f := range diff.New {
			fmt.Fprintf(r.out, "::error file=%s,line=%d::new: %s: %s\n", f.File, f.Line, f.Message, f.Text)
		}
		return
	}

	fmt.Fprintf(r.out, "NEW: %d\n", len(diff.New))
	for _, f := range diff.New {
		fmt.Fprintf(r.out, "  [+] %s:%d [%s] %s\n", f.File, f.Line, f.Region, f.Text)
	}
	fmt.Fprintf(r.out, "FIXED: %d\n", len(diff.Fixed))
	for _, f := range diff.Fixed {
		fmt.Fprintf(r.out, "  [-] %s:%d [%s] %s\n", f.File, f.Line, f.Region, f.Text)
	}
	fmt.Fprintf(r.out, "UNCHANGED: %d\n", len(diff.Unchanged))
}

type regionCount struct {
	region engine.RegionCategory
	count  int
}

func sortedRegions(counts map[engine.RegionCategory]int) []regionCount {
	out := make([]regionCount, 0, len(counts))
	for region, count := range counts {
		out = append(out, regionCount{region, count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].region < out[j].region
	})
	return out
}
