package memorymap

// TrimOptions controls which of Trim's four removal rules apply.
type TrimOptions struct {
	// Depth bounds how far below the section level the tree is kept;
	// archive, object and symbol levels deeper than Depth are discarded
	// wholesale. The section level itself is kept at every depth.
	Depth Depth

	// DiffMode enables the zero-size_diff removal rule. ShowUnchanged
	// suppresses it even when DiffMode is set.
	DiffMode      bool
	ShowUnchanged bool
}

// Trim removes memory types that are entirely unused, sections with no
// archives, zero-size_diff entries in diff mode, and archive, object
// and symbol subtrees deeper than the requested depth.
func (mm *MemoryMap) Trim(opts TrimOptions) {
	dropUnchanged := opts.DiffMode && !opts.ShowUnchanged

	for _, mtName := range append([]string(nil), mm.MemoryTypes.Keys()...) {
		mt, _ := mm.MemoryTypes.Get(mtName)
		if mt.Used == 0 && mt.UsedDiff == 0 {
			mm.MemoryTypes.Delete(mtName)
			continue
		}

		for _, secName := range append([]string(nil), mt.Sections.Keys()...) {
			sec, _ := mt.Sections.Get(secName)
			if sec.Archives.Len() == 0 {
				mt.Sections.Delete(secName)
				continue
			}
			if dropUnchanged && sec.SizeDiff == 0 {
				mt.Sections.Delete(secName)
				continue
			}

			if opts.Depth < DepthArchives {
				sec.Archives = newOrderedMap[*Archive]()
				continue
			}
			trimArchives(sec.Archives, opts.Depth, dropUnchanged)
		}
	}
}

func trimArchives(archives *orderedMap[*Archive], depth Depth, dropUnchanged bool) {
	for _, arcName := range append([]string(nil), archives.Keys()...) {
		arc, _ := archives.Get(arcName)
		if dropUnchanged && arc.SizeDiff == 0 {
			archives.Delete(arcName)
			continue
		}

		if depth < DepthObjects {
			arc.Objects = newOrderedMap[*Object]()
			continue
		}
		trimObjects(arc.Objects, depth, dropUnchanged)
	}
}

func trimObjects(objects *orderedMap[*Object], depth Depth, dropUnchanged bool) {
	for _, objName := range append([]string(nil), objects.Keys()...) {
		obj, _ := objects.Get(objName)
		if dropUnchanged && obj.SizeDiff == 0 {
			objects.Delete(objName)
			continue
		}

		if depth < DepthAll {
			obj.Symbols = newOrderedMap[*Symbol]()
			continue
		}
		trimSymbols(obj.Symbols, dropUnchanged)
	}
}

func trimSymbols(symbols *orderedMap[*Symbol], dropUnchanged bool) {
	for _, symName := range append([]string(nil), symbols.Keys()...) {
		sym, _ := symbols.Get(symName)
		if dropUnchanged && sym.SizeDiff == 0 {
			symbols.Delete(symName)
		}
	}
}
