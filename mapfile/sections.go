package mapfile

import (
	"strings"

	"github.com/espressif/idfsize/internal/idferr"
)

var explicitByteKeywords = map[string]bool{
	"BYTE": true, "SHORT": true, "LONG": true, "QUAD": true, "SQUAD": true,
}

// parseLinkerScriptSections implements the output/input section state
// machine for the "Linker script and memory map" body. The cursor must
// be positioned on that header line; on return it is positioned on the
// "Cross Reference Table" line, or at EOF if the map file carries no
// cross-reference table.
//
// Four states are in play (seeking the header, between output sections,
// inside an output section, inside an input section) but they are
// folded into this single loop rather than an explicit enum: seeking
// the header is the caller's responsibility (it already positioned the
// cursor), the input-section state is just the handful of lines
// consumed inline by parseInputSection, and the other two are the
// cur == nil / cur != nil branches below.
func parseLinkerScriptSections(c *cursor, target *string, log idferr.Logger) ([]OutputSection, error) {
	c.skip() // past the "Linker script and memory map" line itself

	var sections []OutputSection
	var cur *OutputSection
	targetFound := *target != ""

	for {
		l, ok := c.peek()
		if !ok {
			break
		}
		if strings.HasPrefix(strings.TrimSpace(l), tagCrossReference) {
			break
		}

		if !targetFound {
			if t := detectTarget(l); t != "" {
				*target = t
				targetFound = true
			}
		}

		if cur == nil {
			// BETWEEN_SECTIONS
			if strings.TrimSpace(l) == "" {
				c.skip()
				continue
			}
			if len(l) > 0 && (l[0] == '.' || strings.HasPrefix(l, "COMMON")) {
				c.skip()
				sec, err := openOutputSection(c, l)
				if err != nil {
					return nil, err
				}
				cur = sec
				continue
			}
			// lines outside any section (OUTPUT(...), linker-script
			// banners, PROVIDE assignments at the top level) carry no
			// data this parser needs.
			c.skip()
			continue
		}

		// IN_OUTPUT
		if strings.TrimSpace(l) == "" {
			c.skip()
			sections = append(sections, *cur)
			cur = nil
			continue
		}

		trimmed := strings.TrimLeft(l, " \t")
		if trimmed == l {
			// an unindented, non-blank line while a section is open means
			// the previous section's closing blank line was elided;
			// close it and reprocess this line as BETWEEN_SECTIONS.
			sections = append(sections, *cur)
			cur = nil
			continue
		}

		switch {
		case strings.HasPrefix(trimmed, "*fill*"):
			c.skip()
			applyFill(cur, trimmed, log)

		case isExplicitByteLine(trimmed):
			c.skip()
			applyExplicitByte(cur, trimmed)

		case strings.HasPrefix(trimmed, ".") || strings.HasPrefix(trimmed, "COMMON"):
			c.skip()
			isec, err := parseInputSection(c, trimmed)
			if err != nil {
				return nil, err
			}
			appendInputSection(cur, isec, log)

		default:
			// wildcard input patterns ("*(.text .text.*)"), symbol
			// assignments, and other linker-script noise between input
			// sections.
			c.skip()
		}
	}

	if cur != nil {
		sections = append(sections, *cur)
	}

	return sections, nil
}

// openOutputSection parses the output section header line (already
// consumed from c) and, if it names the section without its address/size
// pair, consumes the following continuation line when present.
func openOutputSection(c *cursor, headerLine string) (*OutputSection, error) {
	fields := splitFieldsN(headerLine, 3)

	sec := &OutputSection{}

	switch len(fields) {
	case 3:
		sec.Name = fields[0]
		addr, err := parseNumericLiteral(fields[1])
		if err != nil {
			return nil, idferr.FormatErrorf("mapfile: output section %q: bad address %q: %w", fields[0], fields[1], err)
		}
		size, err := parseNumericLiteral(fields[2])
		if err != nil {
			return nil, idferr.FormatErrorf("mapfile: output section %q: bad size %q: %w", fields[0], fields[2], err)
		}
		sec.Address, sec.Size = addr, size

	default:
		sec.Name = fields[0]

		next, ok := c.peek()
		if !ok {
			return sec, nil
		}
		nextTrimmed := strings.TrimLeft(next, " \t")
		if nextTrimmed == next {
			// unindented: the next output section, or EOF tag. this
			// section is empty.
			return sec, nil
		}
		if strings.HasPrefix(nextTrimmed, ".") || strings.HasPrefix(nextTrimmed, "COMMON") {
			// an indented dot line precedes any numeric pair: empty
			// output section, and the indented line is this section's
			// first input section (left for the caller to consume).
			return sec, nil
		}

		nf := splitFieldsN(nextTrimmed, 2)
		if len(nf) == 2 {
			addr, err1 := parseNumericLiteral(nf[0])
			size, err2 := parseNumericLiteral(nf[1])
			if err1 == nil && err2 == nil {
				c.skip()
				sec.Address, sec.Size = addr, size
			}
		}
	}

	return sec, nil
}

// parseInputSection parses an input section starting from firstLine
// (already consumed from c), pulling a continuation line from c when the
// first line names only the section.
func parseInputSection(c *cursor, firstLine string) (InputSection, error) {
	fields := splitFieldsN(firstLine, 4)

	var isec InputSection

	switch {
	case len(fields) >= 3:
		isec.Name = fields[0]
		addr, err := parseNumericLiteral(fields[1])
		if err != nil {
			return isec, idferr.FormatErrorf("mapfile: input section %q: bad address %q: %w", fields[0], fields[1], err)
		}
		size, err := parseNumericLiteral(fields[2])
		if err != nil {
			return isec, idferr.FormatErrorf("mapfile: input section %q: bad size %q: %w", fields[0], fields[2], err)
		}
		isec.Address, isec.Size = addr, size
		if len(fields) == 4 {
			isec.Archive, isec.ObjectFile = splitArchiveObject(fields[3])
		} else {
			isec.Archive = "(exe)"
		}

	default:
		isec.Name = fields[0]

		next, ok := c.next()
		if !ok {
			return isec, idferr.FormatErrorf("mapfile: input section %q: missing continuation line", isec.Name)
		}
		nf := splitFieldsN(strings.TrimSpace(next), 3)
		if len(nf) < 2 {
			return isec, idferr.FormatErrorf("mapfile: input section %q: malformed continuation line %q", isec.Name, next)
		}
		addr, err := parseNumericLiteral(nf[0])
		if err != nil {
			return isec, idferr.FormatErrorf("mapfile: input section %q: bad address %q: %w", isec.Name, nf[0], err)
		}
		size, err := parseNumericLiteral(nf[1])
		if err != nil {
			return isec, idferr.FormatErrorf("mapfile: input section %q: bad size %q: %w", isec.Name, nf[1], err)
		}
		isec.Address, isec.Size = addr, size
		if len(nf) == 3 {
			isec.Archive, isec.ObjectFile = splitArchiveObject(nf[2])
		} else {
			isec.Archive = "(exe)"
		}
	}

	return isec, nil
}

// splitArchiveObject splits "foo.a(bar.o)" into ("foo.a", "bar.o"). A
// token with no parenthesis names a directly linked object with no
// enclosing archive.
func splitArchiveObject(tok string) (archive, object string) {
	i := strings.IndexByte(tok, '(')
	if i < 0 {
		return "(exe)", tok
	}
	archive = tok[:i]
	object = strings.TrimSuffix(tok[i+1:], ")")
	return archive, object
}

// splitFieldsN splits s on whitespace into at most n fields, preserving
// any internal whitespace in the final field (used for archive paths that
// may themselves contain spaces).
func splitFieldsN(s string, n int) []string {
	s = strings.TrimSpace(s)
	var out []string
	for i := 0; i < n-1; i++ {
		s = strings.TrimLeft(s, " \t")
		idx := strings.IndexAny(s, " \t")
		if idx < 0 {
			break
		}
		out = append(out, s[:idx])
		s = s[idx:]
	}
	s = strings.TrimLeft(s, " \t")
	if s != "" {
		out = append(out, s)
	}
	return out
}

// appendInputSection applies the overlap/duplication handling of §4.1
// before adding isec to cur.
func appendInputSection(cur *OutputSection, isec InputSection, log idferr.Logger) {
	if n := len(cur.InputSections); n > 0 {
		prev := &cur.InputSections[n-1]
		if prev.Address == isec.Address {
			idferr.Warn(log, "mapfile", "input section %q at 0x%x duplicates the address of %q; zeroing the earlier entry's size", isec.Name, isec.Address, prev.Name)
			prev.Size = 0
		}
	}

	if cur.Size != 0 && (isec.Address < cur.Address || isec.Address >= cur.Address+cur.Size) {
		idferr.Warn(log, "mapfile", "input section %q at 0x%x lies outside output section %q [0x%x,0x%x)", isec.Name, isec.Address, cur.Name, cur.Address, cur.Address+cur.Size)
		isec.Size = 0
	}

	cur.InputSections = append(cur.InputSections, isec)
}

// applyFill implements *fill* record handling, including the
// same-address boundary case: a fill whose address equals the current
// input section's own starting address (which only coincides with its
// logical end when that section has already been zeroed by an overlap)
// zeroes the section's size outright; a fill contiguous with the
// current section's end simply grows its fill; anything else is
// back-applied to the most recent nonzero section.
func applyFill(cur *OutputSection, line string, log idferr.Logger) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return
	}
	addr, err1 := parseNumericLiteral(fields[1])
	size, err2 := parseNumericLiteral(fields[2])
	if err1 != nil || err2 != nil {
		return
	}

	if n := len(cur.InputSections); n > 0 {
		last := &cur.InputSections[n-1]
		if addr == last.Address {
			last.Size = 0
			last.Fill += size
			return
		}
		if addr == last.End() {
			last.Fill += size
			return
		}
	}

	for i := len(cur.InputSections) - 1; i >= 0; i-- {
		if cur.InputSections[i].Size != 0 {
			cur.InputSections[i].Fill += size
			return
		}
	}

	idferr.Warn(log, "mapfile", "fill record at 0x%x in output section %q has no input section to attach to", addr, cur.Name)
}

// applyExplicitByte handles the explicit-byte-keyword directives
// BYTE/SHORT/LONG/QUAD/SQUAD, which contribute their size to the
// current input section's fill rather than forming sections of their
// own.
func applyExplicitByte(cur *OutputSection, line string) {
	fields := strings.Fields(line)
	if len(fields) < 3 || len(cur.InputSections) == 0 {
		return
	}
	size, err := parseNumericLiteral(fields[2])
	if err != nil {
		return
	}
	cur.InputSections[len(cur.InputSections)-1].Fill += size
}

func isExplicitByteLine(line string) bool {
	f := strings.Fields(line)
	return len(f) >= 2 && explicitByteKeywords[f[1]]
}
