package memorymap

// Unify aggregates sibling entries that share an AbbrevName at every
// level of the tree (e.g. ".dram0.bss" and ".dram1.bss" both abbreviate
// to "bss" and merge into one section), recursing into the merged
// result so that unifying an already-unified map is a no-op.
func (mm *MemoryMap) Unify() {
	for _, mtName := range mm.MemoryTypes.Keys() {
		mt, _ := mm.MemoryTypes.Get(mtName)
		mt.Sections = unifySections(mt.Sections)
	}
}

func unifySections(src *orderedMap[*Section]) *orderedMap[*Section] {
	dst := newOrderedMap[*Section]()
	for _, key := range src.Keys() {
		s, _ := src.Get(key)
		if existing, ok := dst.Get(s.AbbrevName); ok {
			combineSections(existing, s)
			continue
		}
		cp := *s
		dst.Set(s.AbbrevName, &cp)
	}
	for _, key := range dst.Keys() {
		bucket, _ := dst.Get(key)
		bucket.Archives = unifyArchives(bucket.Archives)
	}
	return dst
}

func combineSections(dst, src *Section) {
	dst.Size += src.Size
	dst.SizeDiff += src.SizeDiff
	for _, key := range src.Archives.Keys() {
		s, _ := src.Archives.Get(key)
		if d, ok := dst.Archives.Get(key); ok {
			combineArchives(d, s)
		} else {
			dst.Archives.Set(key, s)
		}
	}
}

func unifyArchives(src *orderedMap[*Archive]) *orderedMap[*Archive] {
	dst := newOrderedMap[*Archive]()
	for _, key := range src.Keys() {
		a, _ := src.Get(key)
		if existing, ok := dst.Get(a.AbbrevName); ok {
			combineArchives(existing, a)
			continue
		}
		cp := *a
		dst.Set(a.AbbrevName, &cp)
	}
	for _, key := range dst.Keys() {
		bucket, _ := dst.Get(key)
		bucket.Objects = unifyObjects(bucket.Objects)
	}
	return dst
}

func combineArchives(dst, src *Archive) {
	dst.Size += src.Size
	dst.SizeDiff += src.SizeDiff
	for _, key := range src.Objects.Keys() {
		o, _ := src.Objects.Get(key)
		if d, ok := dst.Objects.Get(key); ok {
			combineObjects(d, o)
		} else {
			dst.Objects.Set(key, o)
		}
	}
}

func unifyObjects(src *orderedMap[*Object]) *orderedMap[*Object] {
	dst := newOrderedMap[*Object]()
	for _, key := range src.Keys() {
		o, _ := src.Get(key)
		if existing, ok := dst.Get(o.AbbrevName); ok {
			combineObjects(existing, o)
			continue
		}
		cp := *o
		dst.Set(o.AbbrevName, &cp)
	}
	for _, key := range dst.Keys() {
		bucket, _ := dst.Get(key)
		bucket.Symbols = unifySymbols(bucket.Symbols)
	}
	return dst
}

func combineObjects(dst, src *Object) {
	dst.Size += src.Size
	dst.SizeDiff += src.SizeDiff
	for _, key := range src.Symbols.Keys() {
		s, _ := src.Symbols.Get(key)
		if d, ok := dst.Symbols.Get(key); ok {
			d.Size += s.Size
			d.SizeDiff += s.SizeDiff
		} else {
			dst.Symbols.Set(key, s)
		}
	}
}

func unifySymbols(src *orderedMap[*Symbol]) *orderedMap[*Symbol] {
	dst := newOrderedMap[*Symbol]()
	for _, key := range src.Keys() {
		s, _ := src.Get(key)
		if existing, ok := dst.Get(s.AbbrevName); ok {
			existing.Size += s.Size
			existing.SizeDiff += s.SizeDiff
			continue
		}
		cp := *s
		dst.Set(s.AbbrevName, &cp)
	}
	return dst
}
