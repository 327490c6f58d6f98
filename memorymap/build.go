package memorymap

import (
	"github.com/espressif/idfsize/dwarfdata"
	"github.com/espressif/idfsize/elfreader"
	"github.com/espressif/idfsize/internal/idferr"
	"github.com/espressif/idfsize/mapfile"
)

// Options controls optional behavior of Build that is not implied by
// which of elf/dwarfData/project are non-nil.
type Options struct {
	// LoadSymbols requests Stage 4's per-symbol attachment; when false
	// (or when elf is nil), every input section gets a single
	// synthetic symbol spanning the whole section.
	LoadSymbols bool

	// ExpandDWARF forces Stage 0 on even when the project description
	// does not report COMPILER_LTO_LINKTIME. It has no effect unless
	// both elf and dwarfData are supplied.
	ExpandDWARF bool

	Log idferr.Logger
}

// Build runs every stage of the memory-map construction pipeline over a
// parsed linker map, producing the five-level tree. elf, dwarfData and
// project are each optional; omitting them degrades gracefully per
// stage rather than failing (a map file alone, with no ELF, still
// produces a map with output-section granularity).
func Build(mapResult *mapfile.Result, elf *elfreader.Reader, dwarfData *dwarfdata.Data, project *ProjectDescription, catalog Catalog, opts Options) (*MemoryMap, error) {
	log := opts.Log

	regions := assignRegionsToMemoryTypes(mapResult.Regions, catalog, log)
	sections := filterOutputSections(mapResult.Sections, elf)

	attachSymbolsToInputSections(sections, elf, opts.LoadSymbols, log)

	if elf != nil && dwarfData != nil && (opts.ExpandDWARF || shouldAutoEnableDWARFExpansion(project)) {
		elfSymbols, err := elf.Symbols()
		if err != nil {
			return nil, err
		}
		if err := expandExeSectionsWithDWARF(sections, dwarfData, elfSymbols, project); err != nil {
			return nil, err
		}
	}

	sections = splitSectionsAcrossRegions(sections, regions, log)

	mm := newMemoryMap()
	mm.Target = mapResult.Target
	mm.ImageSize = computeImageSize(sections, elf)
	if project != nil {
		mm.ProjectPath = project.ProjectName
	}

	mm.MemoryTypes = assignSectionsToMemoryTypes(sections, regions, log)

	return mm, nil
}
