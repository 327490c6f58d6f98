// Package mapfile parses the textual output of a GNU-style linker
// (ld -M) into the memory region, output/input section and
// cross-reference records consumed by the memorymap builder.
//
// A single cursor advances through the file; each extractor function
// starts from the cursor and leaves it positioned at the first line it
// did not consume, generalized from a single function-call-to-object-
// file table into the full region/section/xref grammar this format
// actually has.
package mapfile

// MemoryRegion is one row of the map file's "Memory Configuration" table.
type MemoryRegion struct {
	Name   string
	Origin uint64
	Length uint64
	Attrs  string
}

// End returns the first address past the region.
func (r MemoryRegion) End() uint64 {
	return r.Origin + r.Length
}

// InputSection is a single object file's contribution to an output
// section. Archive is the literal "(exe)" when the input came from a
// directly linked object with no enclosing archive.
type InputSection struct {
	Name       string
	Address    uint64
	Size       uint64
	Archive    string
	ObjectFile string
	Fill       uint64
}

// End returns the address immediately past the input section, including
// its fill.
func (s InputSection) End() uint64 {
	return s.Address + s.Size + s.Fill
}

// OutputSection is a linker-synthesized section containing zero or more
// InputSections.
type OutputSection struct {
	Name          string
	Address       uint64
	Size          uint64
	InputSections []InputSection
}

// Location names where a cross-referenced symbol was defined or
// referenced: one object file, optionally inside one archive.
type Location struct {
	Archive    string
	ObjectFile string
}

// CrossReferenceEntry is one symbol's row in the "Cross Reference Table":
// its definition site followed by zero or more referencing sites.
type CrossReferenceEntry struct {
	Symbol     string
	Definition Location
	References []Location
}

// Result is everything mapfile.Parse extracts from one map file.
type Result struct {
	Regions  []MemoryRegion
	Target   string
	Sections []OutputSection

	// XRef is nil when the map file carries no "Cross Reference Table",
	// which is the common case when the linker was not invoked with
	// --cref.
	XRef map[string]CrossReferenceEntry
}
