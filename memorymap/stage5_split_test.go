package memorymap

import (
	"testing"

	"github.com/espressif/idfsize/internal/itest"
)

func TestSplitOneSectionAtRegionBoundary(t *testing.T) {
	regions := []workingRegion{
		{Name: "iram0_0_seg", Origin: 0x40080000, Length: 0x1000, MemType: "IRAM"},
		{Name: "iram1_0_seg", Origin: 0x40081000, Length: 0x1000, MemType: "IRAM2"},
	}
	section := workingOutputSection{
		Name: ".iram0.text", Address: 0x40080F00, Size: 0x200,
		InputSections: []workingInputSection{
			{Name: ".text", Address: 0x40080F00, Size: 0x200, Fill: 0x10,
				Symbols: []workingSymbol{{Name: "straddler()", Addr: 0x40080F00, Size: 0x200}}},
		},
	}

	got := splitSectionsAcrossRegions([]workingOutputSection{section}, regions, nil)
	itest.Equate(t, len(got), 2)
	itest.Equate(t, got[0].Name, ".iram0.text")
	itest.Equate(t, got[0].Address, uint64(0x40080F00))
	itest.Equate(t, got[0].Size, uint64(0x100))
	itest.Equate(t, got[1].Address, uint64(0x40081000))
	itest.Equate(t, got[1].Size, uint64(0x100))

	itest.Equate(t, len(got[0].InputSections[0].Symbols), 1)
	itest.Equate(t, got[0].InputSections[0].Symbols[0].Size, uint64(0x100))
	itest.Equate(t, got[1].InputSections[0].Symbols[0].Size, uint64(0x100))
}

func TestSplitOneSectionNoSplitWhenWithinRegion(t *testing.T) {
	regions := []workingRegion{
		{Name: "dram0_0_seg", Origin: 0x3FFB0000, Length: 0x10000, MemType: "DRAM"},
	}
	section := workingOutputSection{Name: ".dram0.data", Address: 0x3FFB0000, Size: 0x100}
	got := splitSectionsAcrossRegions([]workingOutputSection{section}, regions, nil)
	itest.Equate(t, len(got), 1)
}
