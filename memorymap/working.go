package memorymap

// working* types carry the builder's intermediate state through stages
// 1-7, before Stage 6 folds everything into the exported tree types.

type workingSymbol struct {
	Name string
	Addr uint64
	Size uint64

	// ArchiveOverride and ObjectOverride are set by the optional DWARF
	// expansion stage when a symbol inside a "(exe)" input section is
	// attributed to a specific build component, taking precedence over
	// the enclosing input section's own archive/object fields.
	ArchiveOverride string
	ObjectOverride  string
}

type workingInputSection struct {
	Name       string
	Address    uint64
	Size       uint64
	Archive    string
	ObjectFile string
	Fill       uint64
	Symbols    []workingSymbol
}

func (w *workingInputSection) end() uint64 { return w.Address + w.Size + w.Fill }

type workingOutputSection struct {
	Name          string
	Address       uint64
	Size          uint64
	InputSections []workingInputSection
}

type workingRegion struct {
	Name     string
	Origin   uint64
	Length   uint64
	MemType  string
	IsAlias  bool
}
