// Package elfreader is a minimal, from-scratch ELF reader sufficient for
// the memory-map analyzer: section headers, the symbol tables, and enough
// of the header to drive the DWARF reader in the sibling dwarfdata
// package. It never imports debug/elf or debug/dwarf, and follows the
// same shape as a scoped coprocessor debug-info reader: a value type
// that owns its file bytes for the duration of analysis rather than a
// process-wide singleton, with names resolved lazily from their string
// tables instead of eagerly at parse time.
package elfreader

// Class is the ELF address width (EI_CLASS).
type Class uint8

const (
	Class32 Class = 1
	Class64 Class = 2
)

// ByteOrderKind is the ELF data encoding (EI_DATA).
type ByteOrderKind uint8

const (
	LittleEndian ByteOrderKind = 1
	BigEndian    ByteOrderKind = 2
)

// SectionType is sh_type.
type SectionType uint32

const (
	SHT_NULL     SectionType = 0
	SHT_PROGBITS SectionType = 1
	SHT_SYMTAB   SectionType = 2
	SHT_STRTAB   SectionType = 3
	SHT_RELA     SectionType = 4
	SHT_NOBITS   SectionType = 8
	SHT_REL      SectionType = 9
	SHT_DYNSYM   SectionType = 11
)

// SectionFlag is a bit of sh_flags.
type SectionFlag uint64

const (
	SHF_WRITE     SectionFlag = 0x1
	SHF_ALLOC     SectionFlag = 0x2
	SHF_EXECINSTR SectionFlag = 0x4
)

// SHN_ABS is the reserved "absolute" section index; symbol-to-section
// attachment excludes symbols bound to it.
const SHN_ABS = 0xfff1

// SymbolType is the low nibble of st_info.
type SymbolType uint8

const (
	STT_NOTYPE  SymbolType = 0
	STT_OBJECT  SymbolType = 1
	STT_FUNC    SymbolType = 2
	STT_SECTION SymbolType = 3
	STT_FILE    SymbolType = 4
)

// SymbolBind is the high nibble of st_info.
type SymbolBind uint8

const (
	STB_LOCAL  SymbolBind = 0
	STB_GLOBAL SymbolBind = 1
	STB_WEAK   SymbolBind = 2
)

// SymbolVisibility is the low two bits of st_other.
type SymbolVisibility uint8

const (
	STV_DEFAULT   SymbolVisibility = 0
	STV_INTERNAL  SymbolVisibility = 1
	STV_HIDDEN    SymbolVisibility = 2
	STV_PROTECTED SymbolVisibility = 3
)

// Header is the subset of the ELF file header this analyzer consumes.
type Header struct {
	Class     Class
	Order     ByteOrderKind
	Type      uint16
	Machine   uint16
	Entry     uint64
	PhOff     uint64
	ShOff     uint64
	Flags     uint32
	PhEntSize uint16
	PhNum     uint16
	ShEntSize uint16
	ShNum     uint16
	ShStrNdx  uint16
}

// SectionHeader is sh_* translated to a class/endian-independent form.
type SectionHeader struct {
	nameOffset uint32
	Type       SectionType
	Flags      SectionFlag
	Addr       uint64
	Offset     uint64
	Size       uint64
	Link       uint32
	Info       uint32
	AddrAlign  uint64
	EntSize    uint64

	index int
}

// Index is the section's position in the section header table, used as
// st_shndx in symbol records.
func (s *SectionHeader) Index() int { return s.index }

// Symbol is one entry of a symbol table.
type Symbol struct {
	Name  string
	Value uint64
	Size  uint64
	Info  uint8
	Other uint8
	Shndx uint16
}

// Type returns the low nibble of st_info.
func (s Symbol) Type() SymbolType { return SymbolType(s.Info & 0xf) }

// Bind returns the high nibble of st_info.
func (s Symbol) Bind() SymbolBind { return SymbolBind(s.Info >> 4) }

// Visibility returns the low two bits of st_other.
func (s Symbol) Visibility() SymbolVisibility { return SymbolVisibility(s.Other & 0x3) }
