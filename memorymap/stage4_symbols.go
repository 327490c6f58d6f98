package memorymap

import (
	"sort"

	"github.com/espressif/idfsize/elfreader"
	"github.com/espressif/idfsize/internal/idferr"
)

// attachSymbolsToInputSections implements Stage 4. When elf is nil it
// injects the input section's own name as its sole symbol; otherwise it
// walks symbols and input sections in lockstep by address, injecting a
// synthetic whole-section symbol for any input section no real symbol
// landed in.
func attachSymbolsToInputSections(sections []workingOutputSection, elf *elfreader.Reader, loadSymbols bool, log idferr.Logger) {
	if elf == nil || !loadSymbols {
		for si := range sections {
			for ii := range sections[si].InputSections {
				is := &sections[si].InputSections[ii]
				is.Symbols = []workingSymbol{{Name: is.Name, Addr: is.Address, Size: is.Size}}
			}
		}
		return
	}

	allSymbols, err := elf.Symbols()
	if err != nil {
		warnf(log, "failed to read ELF symbol table: %v", err)
		return
	}
	filtered := filterSymbolsForAttachment(allSymbols)

	for si := range sections {
		out := &sections[si]
		isecs := out.InputSections
		if len(isecs) == 0 {
			continue
		}
		sort.Slice(isecs, func(i, j int) bool { return isecs[i].Address < isecs[j].Address })

		inRange := symbolsInRange(filtered, out.Address, out.Address+out.Size)
		sort.Slice(inRange, func(i, j int) bool { return inRange[i].Addr < inRange[j].Addr })

		idx := 0
		for _, sym := range inRange {
			for idx < len(isecs)-1 && sym.Addr >= isecs[idx].end() {
				injectSyntheticIfEmpty(&isecs[idx])
				idx++
			}
			cur := &isecs[idx]
			if sym.Addr < cur.Address || sym.Addr+sym.Size > cur.Address+cur.Size {
				warnf(log, "symbol %q at 0x%x size 0x%x does not fit within input section %q [0x%x,0x%x)",
					sym.Name, sym.Addr, sym.Size, cur.Name, cur.Address, cur.Address+cur.Size)
				continue
			}
			cur.Symbols = append(cur.Symbols, sym)
		}
		for ; idx < len(isecs); idx++ {
			injectSyntheticIfEmpty(&isecs[idx])
		}
		out.InputSections = isecs
	}
}

func injectSyntheticIfEmpty(is *workingInputSection) {
	if len(is.Symbols) == 0 {
		is.Symbols = []workingSymbol{{Name: is.Name, Addr: is.Address, Size: is.Size}}
	}
}

func filterSymbolsForAttachment(symbols []elfreader.Symbol) []workingSymbol {
	var out []workingSymbol
	for _, s := range symbols {
		if s.Size == 0 || s.Shndx == elfreader.SHN_ABS {
			continue
		}
		switch s.Type() {
		case elfreader.STT_FUNC:
			out = append(out, workingSymbol{Name: s.Name + "()", Addr: s.Value, Size: s.Size})
		case elfreader.STT_OBJECT:
			out = append(out, workingSymbol{Name: s.Name, Addr: s.Value, Size: s.Size})
		}
	}
	return out
}

func symbolsInRange(symbols []workingSymbol, lo, hi uint64) []workingSymbol {
	var out []workingSymbol
	for _, s := range symbols {
		if s.Addr >= lo && s.Addr < hi {
			out = append(out, s)
		}
	}
	return out
}
