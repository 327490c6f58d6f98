package postprocess_test

import (
	"testing"

	"github.com/espressif/idfsize/internal/itest"
	"github.com/espressif/idfsize/memorymap"
	"github.com/espressif/idfsize/postprocess"
)

func buildSampleMap() *memorymap.MemoryMap {
	mm := memorymap.NewMemoryMap()
	mt := memorymap.NewMemoryType()
	mt.Used = 0x10

	sec := memorymap.NewSection("text")
	arc := memorymap.NewArchive("libfoo.a")
	obj := memorymap.NewObject("foo.o")
	sym := memorymap.NewSymbol("do_thing")
	sym.Size = 0x10

	obj.Size = 0x10
	obj.Symbols.Set("do_thing", sym)
	arc.Size = 0x10
	arc.Objects.Set("foo.o", obj)
	sec.Size = 0x10
	sec.Archives.Set("libfoo.a", arc)
	mt.Sections.Set(".iram0.text", sec)
	mm.MemoryTypes.Set("IRAM", mt)
	return mm
}

func TestWalkAtSectionDepthOmitsLowerLevels(t *testing.T) {
	mm := buildSampleMap()
	w := postprocess.NewWalker(mm, memorymap.DepthSections)
	tuples := w.All()
	itest.Equate(t, len(tuples), 1)
	itest.Equate(t, tuples[0].Section, ".iram0.text")
	itest.Equate(t, tuples[0].ArchiveInfo == nil, true)
}

func TestWalkAtAllDepthReachesSymbol(t *testing.T) {
	mm := buildSampleMap()
	w := postprocess.NewWalker(mm, memorymap.DepthAll)
	tuples := w.All()
	itest.Equate(t, len(tuples), 1)
	itest.Equate(t, tuples[0].Symbol, "do_thing")
	itest.Equate(t, tuples[0].SymbolInfo.Size, uint64(0x10))
}

func TestArchiveSummaryAggregatesAcrossSections(t *testing.T) {
	mm := buildSampleMap()
	mt, _ := mm.MemoryTypes.Get("IRAM")
	sec2 := memorymap.NewSection("bss")
	arc2 := memorymap.NewArchive("libfoo.a")
	arc2.Size = 0x4
	sec2.Size = 0x4
	sec2.Archives.Set("libfoo.a", arc2)
	mt.Sections.Set(".iram0.bss", sec2)

	summary := postprocess.ArchiveSummary(mm)
	entry, ok := summary["libfoo.a"]
	itest.Equate(t, ok, true)
	itest.Equate(t, entry.Size, uint64(0x14))
	itest.Equate(t, entry.Sections["IRAM"][".iram0.text"], uint64(0x10))
	itest.Equate(t, entry.Sections["IRAM"][".iram0.bss"], uint64(0x4))
}

func TestArchiveSummaryKeepsMemoryTypesSeparateForSameSectionName(t *testing.T) {
	mm := memorymap.NewMemoryMap()

	diram := memorymap.NewMemoryType()
	diramSec := memorymap.NewSection(".data")
	diramArc := memorymap.NewArchive("libfoo.a")
	diramArc.Size = 0x8
	diramSec.Size = 0x8
	diramSec.Archives.Set("libfoo.a", diramArc)
	diram.Sections.Set(".data", diramSec)
	mm.MemoryTypes.Set("DIRAM_IRAM", diram)

	dram := memorymap.NewMemoryType()
	dramSec := memorymap.NewSection(".data")
	dramArc := memorymap.NewArchive("libfoo.a")
	dramArc.Size = 0x8
	dramSec.Size = 0x8
	dramSec.Archives.Set("libfoo.a", dramArc)
	dram.Sections.Set(".data", dramSec)
	mm.MemoryTypes.Set("DIRAM_DRAM", dram)

	summary := postprocess.ArchiveSummary(mm)
	entry, ok := summary["libfoo.a"]
	itest.Equate(t, ok, true)
	itest.Equate(t, entry.Size, uint64(0x10))
	itest.Equate(t, entry.Sections["DIRAM_IRAM"][".data"], uint64(0x8))
	itest.Equate(t, entry.Sections["DIRAM_DRAM"][".data"], uint64(0x8))
}

func TestSymbolSummaryErrorsOnUnknownArchive(t *testing.T) {
	mm := buildSampleMap()
	_, err := postprocess.SymbolSummary(mm, "libmissing.a")
	itest.ExpectFailure(t, err)
}

func TestSymbolSummaryFindsArchive(t *testing.T) {
	mm := buildSampleMap()
	summary, err := postprocess.SymbolSummary(mm, "libfoo.a")
	itest.ExpectSuccess(t, err)
	entry, ok := summary["foo.o/do_thing"]
	itest.Equate(t, ok, true)
	itest.Equate(t, entry.Size, uint64(0x10))
}
