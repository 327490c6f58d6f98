package mapfile

import (
	"strconv"
	"strings"

	"github.com/espressif/idfsize/internal/idferr"
)

const (
	tagMemoryConfiguration = "Memory Configuration"
	tagLinkerScript        = "Linker script and memory map"
	tagCrossReference      = "Cross Reference Table"
)

// parseMemoryConfiguration consumes rows of the "Memory Configuration"
// table: four- or three-column rows "name origin length [attrs]" with
// origin and length as C-style numeric literals (base 10 or 0x-prefixed
// hex). It stops at the first "Linker script and memory map" line,
// leaving the cursor positioned on that line. Failure to find that
// header is fatal.
func parseMemoryConfiguration(c *cursor) ([]MemoryRegion, error) {
	// skip forward to the "Memory Configuration" tag; everything before it
	// (linker invocation banner, etc.) is of no interest.
	for {
		l, ok := c.peek()
		if !ok {
			return nil, idferr.FormatErrorf("mapfile: %q section not found", tagMemoryConfiguration)
		}
		if strings.TrimSpace(l) == tagMemoryConfiguration {
			c.skip()
			break
		}
		c.skip()
	}

	var regions []MemoryRegion

	for {
		l, ok := c.peek()
		if !ok {
			return nil, idferr.FormatErrorf("mapfile: %q section not found", tagLinkerScript)
		}
		if strings.HasPrefix(l, tagLinkerScript) {
			return regions, nil
		}

		c.skip()

		flds := strings.Fields(l)
		if len(flds) < 3 {
			// blank line, or the "Name Origin Length Attributes" column
			// header, neither of which is data.
			continue
		}
		if flds[0] == "Name" && flds[1] == "Origin" {
			continue
		}

		origin, err := parseNumericLiteral(flds[1])
		if err != nil {
			return nil, idferr.FormatErrorf("mapfile: region %q: bad origin %q: %w", flds[0], flds[1], err)
		}
		length, err := parseNumericLiteral(flds[2])
		if err != nil {
			return nil, idferr.FormatErrorf("mapfile: region %q: bad length %q: %w", flds[0], flds[2], err)
		}

		r := MemoryRegion{Name: flds[0], Origin: origin, Length: length}
		if len(flds) >= 4 {
			r.Attrs = flds[3]
		}
		regions = append(regions, r)
	}
}

// parseNumericLiteral accepts base-10 and 0x-prefixed base-16 literals, as
// produced by the linker's map output.
func parseNumericLiteral(s string) (uint64, error) {
	return strconv.ParseUint(s, 0, 64)
}
