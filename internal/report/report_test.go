package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/espressif/idfsize/internal/itest"
	"github.com/espressif/idfsize/internal/report"
	"github.com/espressif/idfsize/memorymap"
	"github.com/espressif/idfsize/postprocess"
)

func buildSampleMap() *memorymap.MemoryMap {
	mm := memorymap.NewMemoryMap()
	mt := memorymap.NewMemoryType()
	mt.Size = 0x10
	sec := memorymap.NewSection("text")
	sec.Size = 0x10
	sec.SizeDiff = 4
	mt.Sections.Set(".iram0.text", sec)
	mm.MemoryTypes.Set("IRAM", mt)
	return mm
}

func TestWriteTablePlainAtSectionDepth(t *testing.T) {
	mm := buildSampleMap()
	w := postprocess.NewWalker(mm, memorymap.DepthSections)

	var buf bytes.Buffer
	err := report.WriteTable(&buf, w, report.Options{Depth: memorymap.DepthSections})
	itest.ExpectSuccess(t, err)

	out := buf.String()
	itest.Equate(t, strings.Contains(out, "memory type"), true)
	itest.Equate(t, strings.Contains(out, "IRAM"), true)
	itest.Equate(t, strings.Contains(out, ".iram0.text"), true)
	itest.Equate(t, strings.Contains(out, "16"), true)
}

func TestWriteTableDiffColumnShowsSignedDelta(t *testing.T) {
	mm := buildSampleMap()
	w := postprocess.NewWalker(mm, memorymap.DepthSections)

	var buf bytes.Buffer
	err := report.WriteTable(&buf, w, report.Options{Depth: memorymap.DepthSections, Diff: true})
	itest.ExpectSuccess(t, err)

	out := buf.String()
	itest.Equate(t, strings.Contains(out, "size_diff"), true)
	itest.Equate(t, strings.Contains(out, "+4"), true)
}
