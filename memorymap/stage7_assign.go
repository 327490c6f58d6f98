package memorymap

import (
	"sort"
	"strings"

	"github.com/espressif/idfsize/internal/idferr"
)

// assignSectionsToMemoryTypes implements Stage 7: walk the assigned
// regions in ascending origin order and place each output section's
// assembled Section node under the first region it falls within. A
// section whose name carries an "_overflow" suffix and that falls
// between two regions is attributed to the preceding region rather than
// dropped. A section matching no region at all is dropped with a
// warning; one that overflows its matched region's declared length is
// kept (the map file is authoritative on what actually got placed) but
// warned about.
func assignSectionsToMemoryTypes(sections []workingOutputSection, regions []workingRegion, log idferr.Logger) *orderedMap[*MemoryType] {
	ordered := make([]workingRegion, 0, len(regions))
	for _, r := range regions {
		if r.MemType != "" {
			ordered = append(ordered, r)
		}
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Origin < ordered[j].Origin })

	types := newOrderedMap[*MemoryType]()
	for _, r := range ordered {
		if _, ok := types.Get(r.MemType); !ok {
			types.Set(r.MemType, &MemoryType{Sections: newOrderedMap[*Section]()})
		}
	}

	for _, ws := range sections {
		memType := findMemoryTypeForSection(ws, ordered)
		if memType == "" {
			warnf(log, "output section %q at 0x%x falls within no catalog memory type, dropping", ws.Name, ws.Address)
			continue
		}

		mt, _ := types.Get(memType)
		sec := assembleSection(ws)
		if existing, ok := mt.Sections.Get(sec.AbbrevName); ok {
			mergeSections(existing, sec)
		} else {
			mt.Sections.Set(sec.AbbrevName, sec)
		}
		mt.Used += sec.Size

		if region := regionNamed(ordered, memType); region != nil {
			end := ws.Address + ws.Size
			if region.Length != 0 && end > region.Origin+region.Length {
				warnf(log, "output section %q overflows memory type %q by 0x%x bytes", ws.Name, memType, end-(region.Origin+region.Length))
			}
		}
	}

	for _, name := range types.Keys() {
		mt, _ := types.Get(name)
		mt.Size = regionLengthForType(ordered, name)
	}

	return types
}

func findMemoryTypeForSection(ws workingOutputSection, ordered []workingRegion) string {
	for i, r := range ordered {
		if ws.Address >= r.Origin && (r.Length == 0 || ws.Address < r.Origin+r.Length) {
			return r.MemType
		}
		if strings.HasSuffix(ws.Name, "_overflow") && i > 0 && ws.Address >= ordered[i-1].Origin && ws.Address < r.Origin {
			return ordered[i-1].MemType
		}
	}
	if len(ordered) > 0 && strings.HasSuffix(ws.Name, "_overflow") {
		return ordered[len(ordered)-1].MemType
	}
	return ""
}

func regionNamed(ordered []workingRegion, memType string) *workingRegion {
	for i := range ordered {
		if ordered[i].MemType == memType {
			return &ordered[i]
		}
	}
	return nil
}

func regionLengthForType(ordered []workingRegion, memType string) uint64 {
	var total uint64
	seen := map[string]bool{}
	for _, r := range ordered {
		if r.MemType != memType || r.IsAlias || seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		total += r.Length
	}
	return total
}

func mergeSections(dst, src *Section) {
	for _, path := range src.Archives.Keys() {
		srcArc, _ := src.Archives.Get(path)
		if dstArc, ok := dst.Archives.Get(path); ok {
			mergeArchives(dstArc, srcArc)
		} else {
			dst.Archives.Set(path, srcArc)
		}
	}
	dst.Size += src.Size
}

func mergeArchives(dst, src *Archive) {
	for _, path := range src.Objects.Keys() {
		srcObj, _ := src.Objects.Get(path)
		if dstObj, ok := dst.Objects.Get(path); ok {
			mergeObjects(dstObj, srcObj)
		} else {
			dst.Objects.Set(path, srcObj)
		}
	}
	dst.Size += src.Size
}

func mergeObjects(dst, src *Object) {
	for _, name := range src.Symbols.Keys() {
		srcSym, _ := src.Symbols.Get(name)
		if dstSym, ok := dst.Symbols.Get(name); ok {
			dstSym.Size += srcSym.Size
		} else {
			dst.Symbols.Set(name, srcSym)
		}
	}
	dst.Size += src.Size
}
