package memorymap

import "github.com/espressif/idfsize/internal/idferr"

// splitSectionsAcrossRegions implements Stage 5: an output section (and
// its input sections and symbols) that straddles a region boundary is
// split at the boundary into two same-named sections, one per region,
// with input-section fill redistributed proportionally and any symbol
// straddling the split point itself divided between the two halves.
func splitSectionsAcrossRegions(sections []workingOutputSection, regions []workingRegion, log idferr.Logger) []workingOutputSection {
	var out []workingOutputSection

	for _, s := range sections {
		out = append(out, splitOneSection(s, regions, log)...)
	}

	return out
}

func splitOneSection(s workingOutputSection, regions []workingRegion, log idferr.Logger) []workingOutputSection {
	r := enclosingRegion(s.Address, regions)
	if r == nil {
		warnf(log, "output section %q at 0x%x does not fall within any assigned region", s.Name, s.Address)
		return []workingOutputSection{s}
	}

	boundary := r.Origin + r.Length
	end := s.Address + s.Size
	if end <= boundary || r.Length == 0 {
		return []workingOutputSection{s}
	}

	splitLen := boundary - s.Address
	head := workingOutputSection{Name: s.Name, Address: s.Address, Size: splitLen}
	tail := workingOutputSection{Name: s.Name, Address: boundary, Size: end - boundary}

	for _, is := range s.InputSections {
		h, t := splitInputSection(is, boundary)
		if h != nil {
			head.InputSections = append(head.InputSections, *h)
		}
		if t != nil {
			tail.InputSections = append(tail.InputSections, *t)
		}
	}

	rest := splitOneSection(tail, regions, log)
	return append([]workingOutputSection{head}, rest...)
}

func splitInputSection(is workingInputSection, boundary uint64) (*workingInputSection, *workingInputSection) {
	end := is.Address + is.Size
	if end <= boundary {
		return &is, nil
	}
	if is.Address >= boundary {
		return nil, &is
	}

	headLen := boundary - is.Address
	tailLen := is.Size - headLen
	total := is.Size
	var headFill, tailFill uint64
	if total > 0 {
		headFill = is.Fill * headLen / total
		tailFill = is.Fill - headFill
	}

	head := is
	head.Size = headLen
	head.Fill = headFill
	head.Symbols = nil

	tail := is
	tail.Address = boundary
	tail.Size = tailLen
	tail.Fill = tailFill
	tail.Symbols = nil

	for _, sym := range is.Symbols {
		if sym.Addr+sym.Size <= boundary {
			head.Symbols = append(head.Symbols, sym)
			continue
		}
		if sym.Addr >= boundary {
			tail.Symbols = append(tail.Symbols, sym)
			continue
		}
		headPart := boundary - sym.Addr
		head.Symbols = append(head.Symbols, workingSymbol{Name: sym.Name, Addr: sym.Addr, Size: headPart})
		tail.Symbols = append(tail.Symbols, workingSymbol{Name: sym.Name, Addr: boundary, Size: sym.Size - headPart})
	}

	return &head, &tail
}

func enclosingRegion(addr uint64, regions []workingRegion) *workingRegion {
	for i := range regions {
		r := &regions[i]
		if r.MemType == "" {
			continue
		}
		if addr >= r.Origin && (r.Length == 0 || addr < r.Origin+r.Length) {
			return r
		}
	}
	return nil
}
