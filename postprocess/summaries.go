package postprocess

import (
	"fmt"

	"github.com/espressif/idfsize/memorymap"
)

// SummaryEntry is one row of a flat archive/object/symbol summary: a
// total size plus a memory-type-to-section breakdown of where that
// total came from. The breakdown is two-level, not just per-section,
// because a Stage 5 split (the same input section name appearing
// under two different memory types, e.g. a DIRAM alias) would
// otherwise sum contributions from distinct memory types into one
// bucket and lose the per-type picture.
type SummaryEntry struct {
	Size     uint64
	SizeDiff int64
	Sections map[string]map[string]uint64 // memory type -> section -> size
}

func newSummaryEntry() *SummaryEntry {
	return &SummaryEntry{Sections: make(map[string]map[string]uint64)}
}

func (e *SummaryEntry) add(memType, section string, size uint64, sizeDiff int64) {
	e.Size += size
	e.SizeDiff += sizeDiff
	bySection, ok := e.Sections[memType]
	if !ok {
		bySection = make(map[string]uint64)
		e.Sections[memType] = bySection
	}
	bySection[section] += size
}

// ArchiveSummary aggregates every archive across all sections, keyed by
// the archive's path as recorded in the linker map.
func ArchiveSummary(mm *memorymap.MemoryMap) map[string]*SummaryEntry {
	out := make(map[string]*SummaryEntry)
	w := NewWalker(mm, memorymap.DepthArchives)
	for t, ok := w.Start(); ok; t, ok = w.Next() {
		if t.ArchiveInfo == nil {
			continue
		}
		entry, exists := out[t.Archive]
		if !exists {
			entry = newSummaryEntry()
			out[t.Archive] = entry
		}
		entry.add(t.MemoryType, t.Section, t.ArchiveInfo.Size, t.ArchiveInfo.SizeDiff)
	}
	return out
}

// ObjectSummary aggregates every object file across all sections, keyed
// by "archivePath/objectPath".
func ObjectSummary(mm *memorymap.MemoryMap) map[string]*SummaryEntry {
	out := make(map[string]*SummaryEntry)
	w := NewWalker(mm, memorymap.DepthObjects)
	for t, ok := w.Start(); ok; t, ok = w.Next() {
		if t.ObjectInfo == nil {
			continue
		}
		key := t.Archive + "/" + t.Object
		entry, exists := out[key]
		if !exists {
			entry = newSummaryEntry()
			out[key] = entry
		}
		entry.add(t.MemoryType, t.Section, t.ObjectInfo.Size, t.ObjectInfo.SizeDiff)
	}
	return out
}

// SymbolSummary aggregates every symbol belonging to the named archive,
// keyed by "objectPath/symbolName". It errors if the archive is not
// present anywhere in the tree.
func SymbolSummary(mm *memorymap.MemoryMap, archivePath string) (map[string]*SummaryEntry, error) {
	out := make(map[string]*SummaryEntry)
	found := false

	w := NewWalker(mm, memorymap.DepthAll)
	for t, ok := w.Start(); ok; t, ok = w.Next() {
		if t.Archive != archivePath || t.SymbolInfo == nil {
			continue
		}
		found = true
		key := t.Object + "/" + t.Symbol
		entry, exists := out[key]
		if !exists {
			entry = newSummaryEntry()
			out[key] = entry
		}
		entry.add(t.MemoryType, t.Section, t.SymbolInfo.Size, t.SymbolInfo.SizeDiff)
	}

	if !found {
		return nil, fmt.Errorf("postprocess: archive %q not present in memory map", archivePath)
	}
	return out, nil
}
