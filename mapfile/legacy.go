package mapfile

import "regexp"

// legacyOutputSection matches a bare "name address size" triple anywhere
// in the file, with no requirement that it sit under the canonical
// "Linker script and memory map" header. Some very old map files (and
// hand-edited ones) carry the section table without that banner.
var legacyOutputSection = regexp.MustCompile(`(?m)^(\.\S+)\s+(0[xX][0-9a-fA-F]+)\s+(0[xX][0-9a-fA-F]+)\s*$`)

// ParseLegacy is a best-effort, regex-only parser for map files that
// lack the canonical "Memory Configuration" / "Linker script and
// memory map" header pair. Parse treats a missing header pair as a
// fatal format error; ParseLegacy is reached only through an explicit
// opt-in (cmd/idfsize's --legacy flag), never as a silent fallback. It
// recovers only top-level output sections with no input-section
// detail, which is enough to populate image_size and a single-level
// size report; it never returns an error, since by construction there
// is nothing further to validate.
func ParseLegacy(data string, target string) (*Result, error) {
	res := &Result{Target: target}

	for _, m := range legacyOutputSection.FindAllStringSubmatch(data, -1) {
		addr, err := parseNumericLiteral(m[2])
		if err != nil {
			continue
		}
		size, err := parseNumericLiteral(m[3])
		if err != nil {
			continue
		}
		res.Sections = append(res.Sections, OutputSection{
			Name:    m[1],
			Address: addr,
			Size:    size,
		})
	}

	if res.Target == "" {
		for _, line := range splitLines(data) {
			if t := detectTarget(line); t != "" {
				res.Target = t
				break
			}
		}
	}

	return res, nil
}
