package main

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/espressif/idfsize/dwarfdata"
	"github.com/espressif/idfsize/elfreader"
	"github.com/espressif/idfsize/internal/analogger"
	"github.com/espressif/idfsize/internal/catalog"
	"github.com/espressif/idfsize/mapfile"
	"github.com/espressif/idfsize/memorymap"
)

// newLogger constructs the CLI's logger, colorizing its stderr sink
// only when stdout is a real terminal and the user hasn't asked for
// --no-color.
func newLogger() *analogger.Logger {
	return analogger.New(analogger.WithColor(!viper.GetBool("no-color") && isTerminal()))
}

// buildInputs names the files a single analysis run is built from.
type buildInputs struct {
	MapPath     string
	ELFPath     string
	CatalogPath string
	ProjectPath string
	Target      string
	LoadSymbols bool
	ExpandDWARF bool
	Legacy      bool
}

// buildMemoryMap loads every input buildInputs names and runs the
// builder, logging non-fatal warnings to log. Legacy opts into the
// regex-only fallback parser for map files that predate the
// "Memory Configuration" header; by default a missing header is a
// fatal format error.
func buildMemoryMap(in buildInputs, log *analogger.Logger) (*memorymap.MemoryMap, error) {
	mapData, err := os.ReadFile(in.MapPath)
	if err != nil {
		return nil, err
	}

	var mapResult *mapfile.Result
	if in.Legacy {
		mapResult, err = mapfile.ParseLegacy(string(mapData), in.Target)
	} else {
		mapResult, err = mapfile.Parse(string(mapData), in.Target, log)
	}
	if err != nil {
		return nil, err
	}

	var elf *elfreader.Reader
	var dwarfData *dwarfdata.Data
	if in.ELFPath != "" {
		elf, err = elfreader.Open(in.ELFPath)
		if err != nil {
			return nil, err
		}
		dwarfData, err = dwarfdata.New(elf)
		if err != nil {
			log.Warnf("dwarf", "failed to parse DWARF data from %q: %v", in.ELFPath, err)
			dwarfData = nil
		}
	}

	var chipCatalog memorymap.Catalog
	if in.CatalogPath != "" {
		data, err := os.ReadFile(in.CatalogPath)
		if err != nil {
			return nil, err
		}
		chipCatalog, err = catalog.Load(data)
		if err != nil {
			return nil, err
		}
	}

	var project *memorymap.ProjectDescription
	if in.ProjectPath != "" {
		project, err = loadProjectDescription(in.ProjectPath)
		if err != nil {
			return nil, err
		}
	}

	opts := memorymap.Options{
		LoadSymbols: in.LoadSymbols,
		ExpandDWARF: in.ExpandDWARF,
		Log:         log,
	}
	return memorymap.Build(mapResult, elf, dwarfData, project, chipCatalog, opts)
}

// rawProjectDescription mirrors the on-disk project_description.json
// record's shape well enough to extract the fields memorymap.Build
// needs. build_component_info maps each component's name to its
// archive file and source directory; CONFIG_ONLY components (no
// archive) are dropped.
type rawProjectDescription struct {
	Target             string `json:"target"`
	BuildDir           string `json:"build_dir"`
	AppELF             string `json:"app_elf"`
	ProjectName        string `json:"project_name"`
	BuildComponentInfo map[string]struct {
		File string `json:"file"`
		Dir  string `json:"dir"`
	} `json:"build_component_info"`
}

// loadProjectDescription reads a project_description.json file and
// flattens its build_component_info into directory -> archive
// relative path, the form memorymap's DWARF expansion stage matches
// compile-unit paths against.
func loadProjectDescription(path string) (*memorymap.ProjectDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw rawProjectDescription
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	info := map[string]string{}
	for _, comp := range raw.BuildComponentInfo {
		if comp.File == "" {
			continue
		}
		relPath, err := filepath.Rel(raw.BuildDir, comp.File)
		if err != nil {
			relPath = comp.File
		}
		info[filepath.ToSlash(comp.Dir)] = filepath.ToSlash(relPath)
	}

	return &memorymap.ProjectDescription{
		Target:             raw.Target,
		BuildDir:           raw.BuildDir,
		AppELF:             raw.AppELF,
		ProjectName:        raw.ProjectName,
		BuildComponentInfo: info,
		LTOLinktime:        loadLTOLinktimeConfig(raw.BuildDir),
	}, nil
}

// loadLTOLinktimeConfig reads COMPILER_LTO_LINKTIME out of the
// optional config/sdkconfig.json under the project's build directory,
// when present. A missing or unreadable file just means the flag stays
// false; this is not a fatal condition for the rest of the build.
func loadLTOLinktimeConfig(buildDir string) bool {
	data, err := os.ReadFile(filepath.Join(buildDir, "config", "sdkconfig.json"))
	if err != nil {
		return false
	}
	var cfg map[string]interface{}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return false
	}
	v, _ := cfg["COMPILER_LTO_LINKTIME"].(bool)
	return v
}

func parseDepth(s string) memorymap.Depth {
	switch s {
	case "type", "types":
		return memorymap.DepthTypes
	case "section", "sections":
		return memorymap.DepthSections
	case "archive", "archives":
		return memorymap.DepthArchives
	case "object", "objects":
		return memorymap.DepthObjects
	default:
		return memorymap.DepthAll
	}
}

func parseSortKey(s string) memorymap.SortKey {
	switch s {
	case "size_diff":
		return memorymap.SortBySizeDiff
	case "used":
		return memorymap.SortByUsed
	case "used_diff":
		return memorymap.SortByUsedDiff
	default:
		return memorymap.SortBySize
	}
}
