package memorymap

import (
	"strings"

	"github.com/espressif/idfsize/elfreader"
)

// computeImageSize implements Stage 3.
func computeImageSize(sections []workingOutputSection, elf *elfreader.Reader) uint64 {
	if elf != nil {
		var total uint64
		for _, sh := range elf.Sections() {
			if sh.Type == elfreader.SHT_PROGBITS {
				total += sh.Size
			}
		}
		return total
	}

	var total uint64
	for _, s := range sections {
		if strings.HasSuffix(s.Name, ".bss") || strings.HasSuffix(s.Name, "noinit") {
			continue
		}
		total += s.Size
	}
	return total
}
