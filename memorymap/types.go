// Package memorymap builds the five-level memory map tree (memory type,
// output section, archive, object file, symbol) out of a parsed linker
// map, an optional ELF/DWARF reader, and a chip memory catalog.
package memorymap

import (
	"strings"

	"github.com/espressif/idfsize/internal/idferr"
)

// ChipMemoryType is one entry of a chip catalog: the address range(s) a
// named memory type (IRAM, DRAM, flash, …) occupies on a given target.
type ChipMemoryType struct {
	Name             string
	PrimaryAddress   uint64
	Length           uint64
	SecondaryAddress uint64 // zero when the type has no secondary mapping
}

func (t ChipMemoryType) containsPrimary(addr uint64) bool {
	return addr >= t.PrimaryAddress && addr < t.PrimaryAddress+t.Length
}

func (t ChipMemoryType) containsSecondary(addr uint64) bool {
	return t.SecondaryAddress != 0 && addr >= t.SecondaryAddress && addr < t.SecondaryAddress+t.Length
}

// Catalog is the chip memory catalog in declaration order. Stage 1
// assigns a region to the first entry whose primary or secondary
// address range contains the region's origin, so order is
// significant whenever two entries can claim the same address (the
// IRAM/DRAM alias case): iterating a map here would make that choice
// non-deterministic across runs of the same input.
type Catalog []ChipMemoryType

// ByName returns the entry with the given name, and whether one was
// found. Later entries sharing a name (via an explicit "name" field)
// replace earlier ones in place, so at most one entry per name
// exists.
func (c Catalog) ByName(name string) (ChipMemoryType, bool) {
	for _, t := range c {
		if t.Name == name {
			return t, true
		}
	}
	return ChipMemoryType{}, false
}

// Symbol is one leaf of the tree.
type Symbol struct {
	AbbrevName  string
	Size        uint64
	SizeDiff    int64
	SizeDiffPct float64
}

// Object is one object-file node.
type Object struct {
	AbbrevName  string
	Size        uint64
	SizeDiff    int64
	SizeDiffPct float64
	Symbols     *orderedMap[*Symbol]
}

// Archive is one archive-path node.
type Archive struct {
	AbbrevName  string
	Size        uint64
	SizeDiff    int64
	SizeDiffPct float64
	Objects     *orderedMap[*Object]
}

// Section is one output-section node.
type Section struct {
	AbbrevName  string
	Size        uint64
	SizeDiff    int64
	SizeDiffPct float64
	Archives    *orderedMap[*Archive]
}

// MemoryType is the top tree level.
type MemoryType struct {
	Size        uint64
	SizeDiff    int64
	SizeDiffPct float64
	Used        uint64
	UsedDiff    int64
	Sections    *orderedMap[*Section]
}

// MemoryMap is the full analysis result.
type MemoryMap struct {
	Version          int
	Target           string
	TargetDiff       string
	ImageSize        uint64
	ImageSizeDiff    int64
	ImageSizeDiffPct float64
	ProjectPath      string
	ProjectPathDiff  string
	MemoryTypes      *orderedMap[*MemoryType]
}

func newMemoryMap() *MemoryMap {
	return &MemoryMap{Version: 1, MemoryTypes: newOrderedMap[*MemoryType]()}
}

// NewMemoryMap constructs an empty MemoryMap, exported for callers
// (such as diffmap) that need to build tree nodes from outside this
// package; the child ordered-map types themselves stay unexported.
func NewMemoryMap() *MemoryMap { return newMemoryMap() }

// NewMemoryType constructs an empty MemoryType.
func NewMemoryType() *MemoryType {
	return &MemoryType{Sections: newOrderedMap[*Section]()}
}

// NewSection constructs an empty Section with the given abbreviated name.
func NewSection(abbrevName string) *Section {
	return &Section{AbbrevName: abbrevName, Archives: newOrderedMap[*Archive]()}
}

// NewArchive constructs an empty Archive with the given abbreviated name.
func NewArchive(abbrevName string) *Archive {
	return &Archive{AbbrevName: abbrevName, Objects: newOrderedMap[*Object]()}
}

// NewObject constructs an empty Object with the given abbreviated name.
func NewObject(abbrevName string) *Object {
	return &Object{AbbrevName: abbrevName, Symbols: newOrderedMap[*Symbol]()}
}

// NewSymbol constructs a Symbol leaf with the given abbreviated name.
func NewSymbol(abbrevName string) *Symbol {
	return &Symbol{AbbrevName: abbrevName}
}

// ProjectDescription supplies the optional build metadata used to
// attribute symbols to components during DWARF-based expansion.
type ProjectDescription struct {
	Target             string
	BuildDir           string
	AppELF             string
	ProjectName        string
	BuildComponentInfo map[string]string // component directory -> archive relative path
	LTOLinktime        bool
}

func attachArchive(s *Section, path string) *Archive {
	if a, ok := s.Archives.Get(path); ok {
		return a
	}
	a := &Archive{AbbrevName: basename(path), Objects: newOrderedMap[*Object]()}
	s.Archives.Set(path, a)
	return a
}

func attachObject(a *Archive, path string) *Object {
	if o, ok := a.Objects.Get(path); ok {
		return o
	}
	o := &Object{AbbrevName: basename(path), Symbols: newOrderedMap[*Symbol]()}
	a.Objects.Set(path, o)
	return o
}

// attachSymbol keys the object's symbol map on the full name (with the
// "()" FUNC suffix Stage 4 appends, so a FUNC and an OBJECT that happen
// to share a name never collide), but reports AbbrevName without that
// suffix per the specification's symbol-summary shape.
func attachSymbol(o *Object, name string, size uint64) *Symbol {
	if sym, ok := o.Symbols.Get(name); ok {
		sym.Size += size
		return sym
	}
	sym := &Symbol{AbbrevName: strings.TrimSuffix(name, "()"), Size: size}
	o.Symbols.Set(name, sym)
	return sym
}

func warnf(log idferr.Logger, pattern string, args ...interface{}) {
	idferr.Warn(log, "memorymap", pattern, args...)
}
