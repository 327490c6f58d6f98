package postprocess

import (
	"github.com/espressif/idfsize/elfreader"
	"github.com/espressif/idfsize/mapfile"
)

// ArchiveDependencies is the forward and reverse archive reference
// graph built from a linker map's cross-reference table: forward maps
// a referencing archive to the archives it pulls symbols from (and
// which symbols); reverse maps a defining archive to the archives that
// pull from it.
type ArchiveDependencies struct {
	Forward map[string]map[string]map[string]bool
	Reverse map[string]map[string]map[string]bool
}

// BuildArchiveDependencies derives the graph from xref, restricted to
// symbols present in elfSymbols (the same FUNC/OBJECT, nonzero-size,
// non-absolute filter used elsewhere), eliding any archive whose only
// surviving edges are references to itself.
func BuildArchiveDependencies(xref map[string]mapfile.CrossReferenceEntry, elfSymbols []elfreader.Symbol) *ArchiveDependencies {
	valid := validSymbolNames(elfSymbols)

	forward := make(map[string]map[string]map[string]bool)
	reverse := make(map[string]map[string]map[string]bool)

	for symbol, entry := range xref {
		if !valid[symbol] {
			continue
		}
		defArchive := entry.Definition.Archive
		if defArchive == "" {
			continue
		}
		for _, ref := range entry.References {
			if ref.Archive == "" {
				continue
			}
			addEdge(forward, ref.Archive, defArchive, symbol)
			addEdge(reverse, defArchive, ref.Archive, symbol)
		}
	}

	elideSelfOnly(forward)
	elideSelfOnly(reverse)

	return &ArchiveDependencies{Forward: forward, Reverse: reverse}
}

func addEdge(graph map[string]map[string]map[string]bool, from, to, symbol string) {
	targets, ok := graph[from]
	if !ok {
		targets = make(map[string]map[string]bool)
		graph[from] = targets
	}
	symbols, ok := targets[to]
	if !ok {
		symbols = make(map[string]bool)
		targets[to] = symbols
	}
	symbols[symbol] = true
}

// elideSelfOnly drops an archive's entry entirely when every edge it
// carries points back at itself.
func elideSelfOnly(graph map[string]map[string]map[string]bool) {
	for from, targets := range graph {
		onlySelf := true
		for to := range targets {
			if to != from {
				onlySelf = false
				break
			}
		}
		if onlySelf {
			delete(graph, from)
		}
	}
}

func validSymbolNames(symbols []elfreader.Symbol) map[string]bool {
	out := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		if s.Size == 0 || s.Shndx == elfreader.SHN_ABS {
			continue
		}
		switch s.Type() {
		case elfreader.STT_FUNC, elfreader.STT_OBJECT:
			out[s.Name] = true
		}
	}
	return out
}
