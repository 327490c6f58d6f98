package memorymap

import (
	"strings"

	"github.com/espressif/idfsize/elfreader"
	"github.com/espressif/idfsize/mapfile"
)

var droppedSectionSuffixes = []string{"dummy", "reserved_for_iram", "noload"}

var acceptedSectionSuffixesNoELF = []string{".text", ".data", ".bss", ".rodata", "noinit", ".vectors"}

// filterOutputSections implements Stage 2.
func filterOutputSections(sections []mapfile.OutputSection, elf *elfreader.Reader) []workingOutputSection {
	var out []workingOutputSection

	for _, s := range sections {
		if s.Size == 0 {
			continue
		}
		if hasDroppedSuffix(s.Name) {
			continue
		}
		if elf != nil {
			if !sectionIsAllocInELF(elf, s.Name) {
				continue
			}
		} else if !acceptedWithoutELF(s.Name) {
			continue
		}

		wos := workingOutputSection{Name: s.Name, Address: s.Address, Size: s.Size}
		for _, is := range s.InputSections {
			if is.Size == 0 {
				continue
			}
			wos.InputSections = append(wos.InputSections, workingInputSection{
				Name: is.Name, Address: is.Address, Size: is.Size,
				Archive: is.Archive, ObjectFile: is.ObjectFile, Fill: is.Fill,
			})
		}
		out = append(out, wos)
	}

	return out
}

func hasDroppedSuffix(name string) bool {
	for _, suf := range droppedSectionSuffixes {
		if strings.HasSuffix(name, suf) {
			return true
		}
	}
	return false
}

func acceptedWithoutELF(name string) bool {
	for _, suf := range acceptedSectionSuffixesNoELF {
		if strings.HasSuffix(name, suf) {
			return true
		}
	}
	return strings.Contains(name, ".flash") || strings.Contains(name, ".eh_frame")
}

func sectionIsAllocInELF(elf *elfreader.Reader, name string) bool {
	sh := elf.Section(name)
	if sh == nil {
		return false
	}
	return sh.Flags&elfreader.SHF_ALLOC != 0
}
