package mapfile

import (
	"strings"

	"github.com/espressif/idfsize/internal/idferr"
)

// parseCrossReference consumes the optional "Cross Reference Table": a
// "Symbol" header line, then column-0 lines each naming a symbol and its
// definition site, followed by zero or more indented reference lines.
// The cursor must be positioned on the "Cross Reference Table" line; it
// is fully consumed on return (the table runs to EOF).
func parseCrossReference(c *cursor, log idferr.Logger) map[string]CrossReferenceEntry {
	c.skip() // past "Cross Reference Table"

	// skip to and past the "Symbol" column header
	for {
		l, ok := c.peek()
		if !ok {
			return nil
		}
		c.skip()
		if strings.TrimSpace(l) == "Symbol" {
			break
		}
	}

	xref := make(map[string]CrossReferenceEntry)
	var cur *CrossReferenceEntry

	for {
		l, ok := c.next()
		if !ok {
			break
		}
		if strings.TrimSpace(l) == "" {
			continue
		}

		trimmed := strings.TrimLeft(l, " \t")
		if trimmed == l {
			// column 0: a new symbol definition
			fields := splitFieldsN(l, 2)
			if len(fields) < 2 {
				cur = nil
				continue
			}
			name := fields[0]
			archive, object := splitArchiveObject(fields[1])
			entry := CrossReferenceEntry{
				Symbol:     name,
				Definition: Location{Archive: archive, ObjectFile: object},
			}
			xref[name] = entry
			e := xref[name]
			cur = &e
			continue
		}

		// indented: a reference to the previous symbol
		if cur == nil {
			idferr.Warn(log, "mapfile", "orphan cross-reference line %q has no preceding symbol", trimmed)
			continue
		}
		archive, object := splitArchiveObject(strings.TrimSpace(trimmed))
		cur.References = append(cur.References, Location{Archive: archive, ObjectFile: object})
		xref[cur.Symbol] = *cur
	}

	return xref
}
