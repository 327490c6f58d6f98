package memorymap

import (
	"testing"

	"github.com/espressif/idfsize/internal/itest"
	"github.com/espressif/idfsize/mapfile"
)

func TestFilterOutputSectionsNoELFDropsUnrecognized(t *testing.T) {
	sections := []mapfile.OutputSection{
		{Name: ".iram0.text", Address: 0x40080000, Size: 0x100},
		{Name: ".dram0.dummy", Address: 0x3FFB0000, Size: 0x10},
		{Name: ".comment", Address: 0, Size: 0x20},
		{Name: ".empty", Address: 0, Size: 0},
	}
	got := filterOutputSections(sections, nil)
	itest.Equate(t, len(got), 1)
	itest.Equate(t, got[0].Name, ".iram0.text")
}

func TestFilterOutputSectionsDropsZeroSizeInputSections(t *testing.T) {
	sections := []mapfile.OutputSection{
		{
			Name: ".flash.text", Address: 0x400D0000, Size: 0x100,
			InputSections: []mapfile.InputSection{
				{Name: ".text", Address: 0x400D0000, Size: 0x100, Archive: "libfoo.a", ObjectFile: "foo.o"},
				{Name: ".text.unused", Address: 0x400D0100, Size: 0, Archive: "libbar.a", ObjectFile: "bar.o"},
			},
		},
	}
	got := filterOutputSections(sections, nil)
	itest.Equate(t, len(got), 1)
	itest.Equate(t, len(got[0].InputSections), 1)
	itest.Equate(t, got[0].InputSections[0].Name, ".text")
}
