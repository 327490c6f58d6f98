// Package report renders a postprocess.Walker's tuples as an aligned,
// optionally colorized text table — the plain-text report surface
// idfsize's CLI prints to a terminal. Structured output formats (JSON,
// CSV, DOT) are a separate concern and are not this package's job.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/espressif/idfsize/memorymap"
	"github.com/espressif/idfsize/postprocess"
)

// Options controls how a table is rendered.
type Options struct {
	// Depth bounds which columns are present, matching the depth the
	// tuples were walked at.
	Depth memorymap.Depth

	// Diff switches on the size_diff column and dims rows with no
	// change, so a diff report visually foregrounds what moved.
	Diff bool

	// Color disables ANSI styling entirely when false, regardless of
	// whether the output stream is a terminal — callers decide that.
	Color bool
}

// WriteTable renders every tuple from w as one aligned table to out.
func WriteTable(out io.Writer, w *postprocess.Walker, opts Options) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	bold := newColorizer(color.New(color.Bold), opts.Color)
	dim := newColorizer(color.New(color.FgHiBlack), opts.Color)

	fmt.Fprintln(tw, bold(headerLine(opts)))

	for tuple, ok := w.Start(); ok; tuple, ok = w.Next() {
		line := formatRow(tuple, opts)
		if opts.Diff && rowUnchanged(tuple) {
			line = dim(line)
		}
		fmt.Fprintln(tw, line)
	}

	return tw.Flush()
}

var nameColumnHeaders = []string{"memory type", "section", "archive", "object", "symbol"}

// nameColumnCount says how many of the name columns (memory type,
// section, archive, object, symbol) carry data at the requested depth.
func nameColumnCount(depth memorymap.Depth) int {
	switch depth {
	case memorymap.DepthTypes:
		return 1
	case memorymap.DepthSections:
		return 2
	case memorymap.DepthArchives:
		return 3
	case memorymap.DepthObjects:
		return 4
	default:
		return 5
	}
}

func headerLine(opts Options) string {
	cols := append([]string(nil), nameColumnHeaders[:nameColumnCount(opts.Depth)]...)
	cols = append(cols, "size")
	if opts.Diff {
		cols = append(cols, "size_diff")
	}
	return strings.Join(cols, "\t")
}

func formatRow(t postprocess.Tuple, opts Options) string {
	size, sizeDiff := rowSizes(t)

	allNames := []string{t.MemoryType, t.Section, t.Archive, t.Object, t.Symbol}
	cols := append([]string(nil), allNames[:nameColumnCount(opts.Depth)]...)
	cols = append(cols, fmt.Sprintf("%d", size))
	if opts.Diff {
		cols = append(cols, formatSigned(sizeDiff))
	}
	return strings.Join(cols, "\t")
}

func formatSigned(v int64) string {
	if v > 0 {
		return fmt.Sprintf("+%d", v)
	}
	return fmt.Sprintf("%d", v)
}

// rowSizes picks the deepest populated node's size figures, since a
// tuple only fills in levels down to the walk's requested depth.
func rowSizes(t postprocess.Tuple) (uint64, int64) {
	switch {
	case t.SymbolInfo != nil:
		return t.SymbolInfo.Size, t.SymbolInfo.SizeDiff
	case t.ObjectInfo != nil:
		return t.ObjectInfo.Size, t.ObjectInfo.SizeDiff
	case t.ArchiveInfo != nil:
		return t.ArchiveInfo.Size, t.ArchiveInfo.SizeDiff
	case t.SectionInfo != nil:
		return t.SectionInfo.Size, t.SectionInfo.SizeDiff
	case t.MemoryTypeInfo != nil:
		return t.MemoryTypeInfo.Size, t.MemoryTypeInfo.SizeDiff
	default:
		return 0, 0
	}
}

func rowUnchanged(t postprocess.Tuple) bool {
	_, diff := rowSizes(t)
	return diff == 0
}

// newColorizer returns a no-op passthrough when enabled is false, so
// callers never have to branch on opts.Color themselves.
func newColorizer(c *color.Color, enabled bool) func(string) string {
	if !enabled {
		return func(s string) string { return s }
	}
	return c.Sprint
}
