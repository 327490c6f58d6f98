// Package diffmap computes the difference between two memory maps
// produced by the memorymap package, producing a third map of the same
// shape whose every node additionally carries a size_diff (and, for
// memory types, a used_diff) relative to a reference run.
package diffmap

import "github.com/espressif/idfsize/memorymap"

// Diff builds a new tree with the shape of current, extended with any
// entry that exists only in reference (copied in with size zero), and
// every node's size_diff/used_diff set to current's value minus
// reference's value at that key (zero on the side where the key is
// absent).
func Diff(current, reference *memorymap.MemoryMap) *memorymap.MemoryMap {
	d := memorymap.NewMemoryMap()
	d.Target = current.Target
	d.TargetDiff = reference.Target
	d.ProjectPath = current.ProjectPath
	d.ProjectPathDiff = reference.ProjectPath
	d.ImageSize = current.ImageSize
	d.ImageSizeDiff = int64(current.ImageSize) - int64(reference.ImageSize)
	d.ImageSizeDiffPct = diffPct(d.ImageSizeDiff, reference.ImageSize)

	for _, name := range unionKeys(current.MemoryTypes.Keys(), reference.MemoryTypes.Keys()) {
		curMT, curOk := current.MemoryTypes.Get(name)
		refMT, refOk := reference.MemoryTypes.Get(name)
		d.MemoryTypes.Set(name, diffMemoryType(curMT, curOk, refMT, refOk))
	}

	return d
}

// Self returns the result of diffing m against itself: every size_diff
// and used_diff is zero, target_diff/project_path_diff echo m's own
// values. Useful for verifying a report renders identically with and
// without diff mode.
func Self(m *memorymap.MemoryMap) *memorymap.MemoryMap {
	return Diff(m, m)
}

func diffMemoryType(cur *memorymap.MemoryType, curOk bool, ref *memorymap.MemoryType, refOk bool) *memorymap.MemoryType {
	mt := memorymap.NewMemoryType()

	var curUsed, refUsed uint64
	var curSize, refSize uint64
	var curSections, refSections []string
	if curOk {
		curUsed, curSize = cur.Used, cur.Size
		curSections = cur.Sections.Keys()
	}
	if refOk {
		refUsed, refSize = ref.Used, ref.Size
		refSections = ref.Sections.Keys()
	}

	mt.Used = curUsed
	mt.UsedDiff = int64(curUsed) - int64(refUsed)
	mt.Size = curSize
	mt.SizeDiff = int64(curSize) - int64(refSize)
	mt.SizeDiffPct = diffPct(mt.SizeDiff, refSize)

	for _, name := range unionKeys(curSections, refSections) {
		var curSec, refSec *memorymap.Section
		var curSecOk, refSecOk bool
		if curOk {
			curSec, curSecOk = cur.Sections.Get(name)
		}
		if refOk {
			refSec, refSecOk = ref.Sections.Get(name)
		}
		mt.Sections.Set(name, diffSection(curSec, curSecOk, refSec, refSecOk))
	}

	return mt
}

func diffSection(cur *memorymap.Section, curOk bool, ref *memorymap.Section, refOk bool) *memorymap.Section {
	name, curSize, refSize, curArchives, refArchives := sectionFields(cur, curOk, ref, refOk)

	sec := memorymap.NewSection(name)
	sec.Size = curSize
	sec.SizeDiff = int64(curSize) - int64(refSize)
	sec.SizeDiffPct = diffPct(sec.SizeDiff, refSize)

	for _, path := range unionKeys(curArchives, refArchives) {
		var curArc, refArc *memorymap.Archive
		var curArcOk, refArcOk bool
		if curOk {
			curArc, curArcOk = cur.Archives.Get(path)
		}
		if refOk {
			refArc, refArcOk = ref.Archives.Get(path)
		}
		sec.Archives.Set(path, diffArchive(curArc, curArcOk, refArc, refArcOk))
	}

	return sec
}

func sectionFields(cur *memorymap.Section, curOk bool, ref *memorymap.Section, refOk bool) (name string, curSize, refSize uint64, curKeys, refKeys []string) {
	if curOk {
		name, curSize, curKeys = cur.AbbrevName, cur.Size, cur.Archives.Keys()
	}
	if refOk {
		if !curOk {
			name = ref.AbbrevName
		}
		refSize, refKeys = ref.Size, ref.Archives.Keys()
	}
	return
}

func diffArchive(cur *memorymap.Archive, curOk bool, ref *memorymap.Archive, refOk bool) *memorymap.Archive {
	var name string
	var curSize, refSize uint64
	var curObjects, refObjects []string
	if curOk {
		name, curSize, curObjects = cur.AbbrevName, cur.Size, cur.Objects.Keys()
	}
	if refOk {
		if !curOk {
			name = ref.AbbrevName
		}
		refSize, refObjects = ref.Size, ref.Objects.Keys()
	}

	arc := memorymap.NewArchive(name)
	arc.Size = curSize
	arc.SizeDiff = int64(curSize) - int64(refSize)
	arc.SizeDiffPct = diffPct(arc.SizeDiff, refSize)

	for _, path := range unionKeys(curObjects, refObjects) {
		var curObj, refObj *memorymap.Object
		var curObjOk, refObjOk bool
		if curOk {
			curObj, curObjOk = cur.Objects.Get(path)
		}
		if refOk {
			refObj, refObjOk = ref.Objects.Get(path)
		}
		arc.Objects.Set(path, diffObject(curObj, curObjOk, refObj, refObjOk))
	}

	return arc
}

func diffObject(cur *memorymap.Object, curOk bool, ref *memorymap.Object, refOk bool) *memorymap.Object {
	var name string
	var curSize, refSize uint64
	var curSymbols, refSymbols []string
	if curOk {
		name, curSize, curSymbols = cur.AbbrevName, cur.Size, cur.Symbols.Keys()
	}
	if refOk {
		if !curOk {
			name = ref.AbbrevName
		}
		refSize, refSymbols = ref.Size, ref.Symbols.Keys()
	}

	obj := memorymap.NewObject(name)
	obj.Size = curSize
	obj.SizeDiff = int64(curSize) - int64(refSize)
	obj.SizeDiffPct = diffPct(obj.SizeDiff, refSize)

	for _, symName := range unionKeys(curSymbols, refSymbols) {
		var curSym, refSym *memorymap.Symbol
		var curSymOk, refSymOk bool
		if curOk {
			curSym, curSymOk = cur.Symbols.Get(symName)
		}
		if refOk {
			refSym, refSymOk = ref.Symbols.Get(symName)
		}
		obj.Symbols.Set(symName, diffSymbol(curSym, curSymOk, refSym, refSymOk))
	}

	return obj
}

func diffSymbol(cur *memorymap.Symbol, curOk bool, ref *memorymap.Symbol, refOk bool) *memorymap.Symbol {
	var name string
	var curSize, refSize uint64
	if curOk {
		name, curSize = cur.AbbrevName, cur.Size
	}
	if refOk {
		if !curOk {
			name = ref.AbbrevName
		}
		refSize = ref.Size
	}

	sym := memorymap.NewSymbol(name)
	sym.Size = curSize
	sym.SizeDiff = int64(curSize) - int64(refSize)
	sym.SizeDiffPct = diffPct(sym.SizeDiff, refSize)
	return sym
}

// diffPct expresses diff as a percentage of ref, the way the original
// esp_idf_size table formatter reports growth/shrink. A reference size
// of zero has no meaningful percentage base (division by zero, or a
// brand new entry with nothing to compare against) so it reports 0
// rather than +Inf/NaN.
func diffPct(diff int64, ref uint64) float64 {
	if ref == 0 {
		return 0
	}
	return float64(diff) / float64(ref) * 100
}

// unionKeys returns a's keys followed by any of b's keys not already in
// a, preserving a's construction order first so a diffed report reads
// the same as a fresh one except for appended reference-only entries.
func unionKeys(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	out := make([]string, 0, len(a)+len(b))
	for _, k := range a {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	for _, k := range b {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	return out
}
