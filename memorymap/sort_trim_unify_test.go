package memorymap

import (
	"testing"

	"github.com/espressif/idfsize/internal/itest"
)

func buildTwoSectionMap() *MemoryMap {
	mm := NewMemoryMap()
	mt := NewMemoryType()
	mt.Used = 0x30

	small := NewSection("bss")
	small.Size = 0x10
	big := NewSection("text")
	big.Size = 0x20

	mt.Sections.Set(".dram0.bss", small)
	mt.Sections.Set(".iram0.text", big)
	mm.MemoryTypes.Set("DRAM", mt)
	return mm
}

func TestSortAscendingBySize(t *testing.T) {
	mm := buildTwoSectionMap()
	mm.Sort(SortBySize, false)
	mt, _ := mm.MemoryTypes.Get("DRAM")
	itest.Equate(t, mt.Sections.Keys(), []string{".dram0.bss", ".iram0.text"})
}

func TestSortDescendingBySize(t *testing.T) {
	mm := buildTwoSectionMap()
	mm.Sort(SortBySize, true)
	mt, _ := mm.MemoryTypes.Get("DRAM")
	itest.Equate(t, mt.Sections.Keys(), []string{".iram0.text", ".dram0.bss"})
}

func TestTrimDropsUnusedMemoryType(t *testing.T) {
	mm := NewMemoryMap()
	mt := NewMemoryType()
	mm.MemoryTypes.Set("RTC", mt)
	mm.Trim(TrimOptions{Depth: DepthAll})
	itest.Equate(t, mm.MemoryTypes.Len(), 0)
}

func TestTrimDropsSectionsWithoutArchives(t *testing.T) {
	mm := NewMemoryMap()
	mt := NewMemoryType()
	mt.Used = 1
	sec := NewSection("bss")
	mt.Sections.Set(".dram0.bss", sec)
	mm.MemoryTypes.Set("DRAM", mt)

	mm.Trim(TrimOptions{Depth: DepthAll})
	itest.Equate(t, mt.Sections.Len(), 0)
}

func TestTrimClampsDepth(t *testing.T) {
	mm := NewMemoryMap()
	mt := NewMemoryType()
	mt.Used = 1
	sec := NewSection("text")
	arc := NewArchive("libfoo.a")
	sec.Archives.Set("libfoo.a", arc)
	mt.Sections.Set(".text", sec)
	mm.MemoryTypes.Set("IRAM", mt)

	mm.Trim(TrimOptions{Depth: DepthArchives})
	itest.Equate(t, arc.Objects.Len(), 0)
}

func TestUnifyMergesSectionsByAbbrevName(t *testing.T) {
	mm := buildTwoSectionMap()
	mm.MemoryTypes.Get("DRAM")
	mt, _ := mm.MemoryTypes.Get("DRAM")
	secondBSS := NewSection("bss")
	secondBSS.Size = 0x5
	mt.Sections.Set(".dram1.bss", secondBSS)

	mm.Unify()
	mt, _ = mm.MemoryTypes.Get("DRAM")
	itest.Equate(t, mt.Sections.Len(), 2)
	bss, ok := mt.Sections.Get("bss")
	itest.Equate(t, ok, true)
	itest.Equate(t, bss.Size, uint64(0x15))
}

func TestUnifyIsIdempotent(t *testing.T) {
	mm := buildTwoSectionMap()
	mt, _ := mm.MemoryTypes.Get("DRAM")
	secondBSS := NewSection("bss")
	secondBSS.Size = 0x5
	mt.Sections.Set(".dram1.bss", secondBSS)

	mm.Unify()
	first := cloneKeys(mm)
	mm.Unify()
	second := cloneKeys(mm)
	itest.Equate(t, first, second)

	mt, _ = mm.MemoryTypes.Get("DRAM")
	bss, _ := mt.Sections.Get("bss")
	itest.Equate(t, bss.Size, uint64(0x15))
}

func cloneKeys(mm *MemoryMap) []string {
	mt, _ := mm.MemoryTypes.Get("DRAM")
	return append([]string(nil), mt.Sections.Keys()...)
}
