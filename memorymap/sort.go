package memorymap

import "golang.org/x/exp/slices"

// SortKey is the numeric field a tree level's children are ordered by.
type SortKey int

const (
	SortBySize SortKey = iota
	SortBySizeDiff
	SortByUsed
	SortByUsedDiff
)

// Sort reorders every level's children by key, descending when desc is
// true, stable within equal keys. SortByUsed and SortByUsedDiff only
// have meaning at the memory-type level; lower levels fall back to
// size/size_diff for them since archives, objects and symbols carry no
// used figure of their own.
func (mm *MemoryMap) Sort(key SortKey, desc bool) {
	sortOrderedByKey(mm.MemoryTypes, key, desc, memoryTypeKey)

	for _, mtName := range mm.MemoryTypes.Keys() {
		mt, _ := mm.MemoryTypes.Get(mtName)
		sortOrderedByKey(mt.Sections, key, desc, sectionKey)

		for _, secName := range mt.Sections.Keys() {
			sec, _ := mt.Sections.Get(secName)
			sortOrderedByKey(sec.Archives, key, desc, archiveKey)

			for _, arcName := range sec.Archives.Keys() {
				arc, _ := sec.Archives.Get(arcName)
				sortOrderedByKey(arc.Objects, key, desc, objectKey)

				for _, objName := range arc.Objects.Keys() {
					obj, _ := arc.Objects.Get(objName)
					sortOrderedByKey(obj.Symbols, key, desc, symbolKey)
				}
			}
		}
	}
}

func sortOrderedByKey[V any](om *orderedMap[V], key SortKey, desc bool, keyFn func(V, SortKey) int64) {
	keys := append([]string(nil), om.Keys()...)
	slices.SortStableFunc(keys, func(a, b string) bool {
		va, _ := om.Get(a)
		vb, _ := om.Get(b)
		ka, kb := keyFn(va, key), keyFn(vb, key)
		if desc {
			return ka > kb
		}
		return ka < kb
	})
	om.SetKeys(keys)
}

func memoryTypeKey(mt *MemoryType, key SortKey) int64 {
	switch key {
	case SortBySizeDiff:
		return mt.SizeDiff
	case SortByUsed:
		return int64(mt.Used)
	case SortByUsedDiff:
		return mt.UsedDiff
	default:
		return int64(mt.Size)
	}
}

func sectionKey(s *Section, key SortKey) int64   { return sizeKey(s.Size, s.SizeDiff, key) }
func archiveKey(a *Archive, key SortKey) int64   { return sizeKey(a.Size, a.SizeDiff, key) }
func objectKey(o *Object, key SortKey) int64     { return sizeKey(o.Size, o.SizeDiff, key) }
func symbolKey(s *Symbol, key SortKey) int64     { return sizeKey(s.Size, s.SizeDiff, key) }

func sizeKey(size uint64, sizeDiff int64, key SortKey) int64 {
	if key == SortBySizeDiff || key == SortByUsedDiff {
		return sizeDiff
	}
	return int64(size)
}
