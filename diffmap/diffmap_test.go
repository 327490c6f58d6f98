package diffmap_test

import (
	"testing"

	"github.com/espressif/idfsize/diffmap"
	"github.com/espressif/idfsize/internal/itest"
	"github.com/espressif/idfsize/memorymap"
)

func buildSample(fooSize uint64) *memorymap.MemoryMap {
	m := memorymap.NewMemoryMap()
	m.Target = "esp32"
	m.ImageSize = fooSize

	mt := memorymap.NewMemoryType()
	mt.Used = fooSize
	mt.Size = 0x4000

	sec := memorymap.NewSection("text")
	arc := memorymap.NewArchive("libfoo.a")
	obj := memorymap.NewObject("foo.o")
	sym := memorymap.NewSymbol("do_thing")
	sym.Size = fooSize

	obj.Size = fooSize
	obj.Symbols.Set("do_thing", sym)
	arc.Size = fooSize
	arc.Objects.Set("foo.o", obj)
	sec.Size = fooSize
	sec.Archives.Set("libfoo.a", arc)
	mt.Sections.Set("text", sec)

	m.MemoryTypes.Set("IRAM", mt)
	return m
}

func TestSelfDiffIsAllZero(t *testing.T) {
	m := buildSample(0x100)
	d := diffmap.Self(m)

	itest.Equate(t, d.ImageSizeDiff, int64(0))
	mt, ok := d.MemoryTypes.Get("IRAM")
	itest.Equate(t, ok, true)
	itest.Equate(t, mt.UsedDiff, int64(0))

	sec, _ := mt.Sections.Get("text")
	itest.Equate(t, sec.SizeDiff, int64(0))
	arc, _ := sec.Archives.Get("libfoo.a")
	itest.Equate(t, arc.SizeDiff, int64(0))
	obj, _ := arc.Objects.Get("foo.o")
	itest.Equate(t, obj.SizeDiff, int64(0))
	sym, _ := obj.Symbols.Get("do_thing")
	itest.Equate(t, sym.SizeDiff, int64(0))
}

func TestDiffGrowthReportsPositiveDelta(t *testing.T) {
	a := buildSample(0x120)
	b := buildSample(0x100)

	d := diffmap.Diff(a, b)
	mt, _ := d.MemoryTypes.Get("IRAM")
	itest.Equate(t, mt.UsedDiff, int64(0x20))

	sec, _ := mt.Sections.Get("text")
	arc, _ := sec.Archives.Get("libfoo.a")
	obj, _ := arc.Objects.Get("foo.o")
	itest.Equate(t, obj.SizeDiff, int64(0x20))
}

func TestDiffIsAntiCommutative(t *testing.T) {
	a := buildSample(0x120)
	b := buildSample(0x100)

	forward := diffmap.Diff(a, b)
	backward := diffmap.Diff(b, a)

	fwdMT, _ := forward.MemoryTypes.Get("IRAM")
	bwdMT, _ := backward.MemoryTypes.Get("IRAM")
	itest.Equate(t, fwdMT.UsedDiff, -bwdMT.UsedDiff)
}

func TestDiffGrowthReportsPercentageOfReference(t *testing.T) {
	a := buildSample(0x180)
	b := buildSample(0x100)

	d := diffmap.Diff(a, b)
	mt, _ := d.MemoryTypes.Get("IRAM")
	sec, _ := mt.Sections.Get("text")
	itest.ExpectApproximate(t, sec.SizeDiffPct, 50.0, 0.001)
}

func TestDiffPercentageIsZeroWhenReferenceSizeIsZero(t *testing.T) {
	a := buildSample(0x80)
	b := memorymap.NewMemoryMap()

	d := diffmap.Diff(a, b)
	mt, _ := d.MemoryTypes.Get("IRAM")
	itest.Equate(t, mt.SizeDiffPct, 0.0)
}

func TestDiffReferenceOnlyEntryGetsZeroSizeAndNegativeDiff(t *testing.T) {
	a := memorymap.NewMemoryMap()
	b := buildSample(0x80)

	d := diffmap.Diff(a, b)
	mt, ok := d.MemoryTypes.Get("IRAM")
	itest.Equate(t, ok, true)
	itest.Equate(t, mt.Used, uint64(0))
	itest.Equate(t, mt.UsedDiff, int64(-0x80))

	sec, _ := mt.Sections.Get("text")
	itest.Equate(t, sec.Size, uint64(0))
	itest.Equate(t, sec.SizeDiff, int64(-0x80))
}
