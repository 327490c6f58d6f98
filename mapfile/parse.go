package mapfile

import (
	"strings"

	"github.com/espressif/idfsize/internal/idferr"
)

// Parse parses a complete linker map file. target, when non-empty,
// overrides the detection performed while scanning the linker-script
// section; an empty target is fine if the caller supplies one
// externally. log receives every non-fatal warning; a nil log discards
// them.
func Parse(data string, target string, log idferr.Logger) (*Result, error) {
	c := newCursor(data)

	regions, err := parseMemoryConfiguration(c)
	if err != nil {
		return nil, err
	}

	res := &Result{Regions: regions, Target: target}

	sections, err := parseLinkerScriptSections(c, &res.Target, log)
	if err != nil {
		return nil, err
	}
	res.Sections = sections

	if l, ok := c.peek(); ok && strings.HasPrefix(strings.TrimSpace(l), tagCrossReference) {
		res.XRef = parseCrossReference(c, log)
	}

	validateContiguity(res.Sections, log)

	return res, nil
}

// validateContiguity checks that for every output section with input
// sections, consecutive input-section addresses are contiguous.
// Violations are logged as warnings; they do not stop the parse.
func validateContiguity(sections []OutputSection, log idferr.Logger) {
	for _, s := range sections {
		if len(s.InputSections) == 0 {
			continue
		}
		expect := s.InputSections[0].Address
		for _, isec := range s.InputSections {
			if isec.Size == 0 && isec.Fill == 0 {
				// zeroed by overlap handling; it contributes nothing and
				// cannot violate contiguity.
				continue
			}
			if isec.Address != expect {
				idferr.Warn(log, "mapfile", "output section %q: input section %q at 0x%x is not contiguous with the preceding entry (expected 0x%x)", s.Name, isec.Name, isec.Address, expect)
			}
			expect = isec.Address + isec.Size + isec.Fill
		}
	}
}
