package memorymap

import (
	"strings"

	"github.com/espressif/idfsize/dwarfdata"
	"github.com/espressif/idfsize/elfreader"
)

// expandExeSectionsWithDWARF implements the optional Stage 0. Link-time
// optimization flattens every translation unit into a single "(exe)"
// input section per output section, destroying the archive/object
// attribution the rest of the builder relies on. When DWARF debug
// info and a component directory map are both available, this stage
// recovers that attribution per symbol by resolving the symbol's
// address to its owning compile unit's source path via AddCUsToSymbols,
// then matching that path against the longest BuildComponentInfo
// directory prefix.
func expandExeSectionsWithDWARF(sections []workingOutputSection, dw *dwarfdata.Data, elfSymbols []elfreader.Symbol, project *ProjectDescription) error {
	if dw == nil || project == nil || len(project.BuildComponentInfo) == 0 {
		return nil
	}

	cuPaths, err := dw.AddCUsToSymbols(elfSymbols)
	if err != nil {
		return err
	}
	if len(cuPaths) == 0 {
		return nil
	}

	for si := range sections {
		for ii := range sections[si].InputSections {
			is := &sections[si].InputSections[ii]
			if is.Archive != "(exe)" {
				continue
			}
			for sj := range is.Symbols {
				sym := &is.Symbols[sj]
				cuPath, ok := cuPaths[sym.Addr]
				if !ok {
					continue
				}
				archivePath, ok := longestComponentMatch(cuPath, project.BuildComponentInfo)
				if !ok {
					continue
				}
				sym.ArchiveOverride = archivePath
				sym.ObjectOverride = basename(cuPath)
			}
		}
	}

	return nil
}

func longestComponentMatch(cuPath string, components map[string]string) (string, bool) {
	var best string
	var bestArchive string
	for dir, archive := range components {
		if !strings.HasPrefix(cuPath, dir) {
			continue
		}
		if len(dir) > len(best) {
			best = dir
			bestArchive = archive
		}
	}
	return bestArchive, best != ""
}

// shouldAutoEnableDWARFExpansion reports whether Stage 0 should run
// without an explicit request, based on the project's
// COMPILER_LTO_LINKTIME setting having flattened attribution away.
func shouldAutoEnableDWARFExpansion(project *ProjectDescription) bool {
	return project != nil && project.LTOLinktime
}
