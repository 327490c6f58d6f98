// Package dwarfdata is a from-scratch DWARF 2-5 reader built on top of
// elfreader: abbreviation tables, compilation units and their DIE trees,
// and the restricted set of attribute forms this analyzer consumes. It
// never imports debug/dwarf.
//
// A Data value owns the raw bytes of every debug section it was handed;
// CompileUnit and DIE values are plain data, built once per call and
// safe to discard or retain as the caller prefers.
package dwarfdata

import (
	"encoding/binary"

	"github.com/espressif/idfsize/elfreader"
)

// Tag is a DW_TAG_* code.
type Tag uint64

const (
	TagCompileUnit Tag = 0x11
	TagSubprogram  Tag = 0x2e
	TagVariable    Tag = 0x34
)

// Attr is a DW_AT_* code.
type Attr uint64

const (
	AttrLocation       Attr = 0x02
	AttrName           Attr = 0x03
	AttrLowPC          Attr = 0x11
	AttrAbstractOrigin Attr = 0x31
)

// Form is a DW_FORM_* code.
type Form uint64

const (
	FormAddr          Form = 0x01
	FormBlock2        Form = 0x03
	FormBlock4        Form = 0x04
	FormData2         Form = 0x05
	FormData4         Form = 0x06
	FormData8         Form = 0x07
	FormString        Form = 0x08
	FormBlock         Form = 0x09
	FormBlock1        Form = 0x0a
	FormData1         Form = 0x0b
	FormFlag          Form = 0x0c
	FormSdata         Form = 0x0d
	FormStrp          Form = 0x0e
	FormUdata         Form = 0x0f
	FormRefAddr       Form = 0x10
	FormRef1          Form = 0x11
	FormRef2          Form = 0x12
	FormRef4          Form = 0x13
	FormRef8          Form = 0x14
	FormRefUdata      Form = 0x15
	FormIndirect      Form = 0x16
	FormSecOffset     Form = 0x17
	FormExprLoc       Form = 0x18
	FormFlagPresent   Form = 0x19
	FormStrx          Form = 0x1a
	FormAddrx         Form = 0x1b
	FormRefSup4       Form = 0x1c
	FormStrpSup       Form = 0x1d
	FormData16        Form = 0x1e
	FormLineStrp      Form = 0x1f
	FormRefSig8       Form = 0x20
	FormImplicitConst Form = 0x21
	FormLoclistx      Form = 0x22
	FormRnglistx      Form = 0x23
	FormRefSup8       Form = 0x24
	FormStrx1         Form = 0x25
	FormStrx2         Form = 0x26
	FormStrx3         Form = 0x27
	FormStrx4         Form = 0x28
	FormAddrx1        Form = 0x29
	FormAddrx2        Form = 0x2a
	FormAddrx3        Form = 0x2b
	FormAddrx4        Form = 0x2c
)

// Class is the interpreted class of a decoded attribute value, coarser
// than Form: several forms (e.g. strp/line_strp/strx) all resolve to
// ClassString.
type Class int

const (
	ClassAddress Class = iota
	ClassBlock
	ClassConstant
	ClassExprLoc
	ClassFlag
	ClassReference
	ClassRefSig8
	ClassSecOffset
	ClassLoclistx
	ClassRnglistx
	ClassString
)

// Value is a decoded attribute value. Only the field matching Class is
// meaningful.
type Value struct {
	Form  Form
	Class Class
	U     uint64 // address, unsigned constant, reference (section-absolute), sec_offset, loclistx/rnglistx index
	I     int64  // signed constant
	Bytes []byte // block, exprloc, data16
	Str   string // resolved string
}

// AttrSpec is one (attr, form [, implicit_const]) triple from an
// abbreviation declaration.
type AttrSpec struct {
	Attr          Attr
	Form          Form
	ImplicitConst int64
}

// AbbrevDecl is one abbreviation table entry, keyed by its code.
type AbbrevDecl struct {
	Code        uint64
	Tag         Tag
	HasChildren bool
	Attrs       []AttrSpec
}

// DIE is one debugging information entry.
type DIE struct {
	Offset   uint64
	Tag      Tag
	Attrs    map[Attr]Value
	Children []*DIE
	Parent   *DIE
	CU       *CompileUnit
}

// attr looks up one attribute by code on this DIE only; it does not
// chase DW_AT_abstract_origin (AddCUsToSymbols does that explicitly).
func (d *DIE) attr(a Attr) (Value, bool) {
	v, ok := d.Attrs[a]
	return v, ok
}

// CompileUnit is one parsed .debug_info compilation unit.
type CompileUnit struct {
	Offset           uint64 // offset of the unit_length field
	NextOffset       uint64 // offset of the following CU's unit_length field
	Is64Bit          bool
	Version          uint16
	UnitType         uint8
	AddrSize         uint8
	DebugAbbrevOffset uint64
	Root             *DIE

	abbrev map[uint64]*AbbrevDecl
}

// Data owns the raw bytes of every DWARF section this reader consumes,
// plus the file's byte order.
type Data struct {
	elf   *elfreader.Reader
	order binary.ByteOrder

	Info       []byte
	Abbrev     []byte
	Str        []byte
	LineStr    []byte
	StrOffsets []byte
	Addr       []byte
	RngLists   []byte
	LocLists   []byte
}

// New gathers the DWARF sections out of r. It returns (nil, nil) when
// r carries no .debug_info section at all — absent debug information is
// not an error, callers simply skip DWARF-based enrichment.
func New(r *elfreader.Reader) (*Data, error) {
	info := sectionBytes(r, ".debug_info")
	if info == nil {
		return nil, nil
	}
	return &Data{
		elf:        r,
		order:      r.ByteOrder(),
		Info:       info,
		Abbrev:     sectionBytes(r, ".debug_abbrev"),
		Str:        sectionBytes(r, ".debug_str"),
		LineStr:    sectionBytes(r, ".debug_line_str"),
		StrOffsets: sectionBytes(r, ".debug_str_offsets"),
		Addr:       sectionBytes(r, ".debug_addr"),
		RngLists:   sectionBytes(r, ".debug_rnglists"),
		LocLists:   sectionBytes(r, ".debug_loclists"),
	}, nil
}

// NewForTest builds a Data directly from raw section bytes, bypassing
// elfreader.Reader. It exists so this package's own tests can exercise
// the CU/DIE/form decoders against hand-built byte streams without
// constructing a full synthetic ELF file around them.
func NewForTest(info, abbrev, str []byte, order binary.ByteOrder) (*Data, error) {
	return &Data{order: order, Info: info, Abbrev: abbrev, Str: str}, nil
}

func sectionBytes(r *elfreader.Reader, name string) []byte {
	sh := r.Section(name)
	if sh == nil {
		return nil
	}
	data, err := r.SectionData(sh)
	if err != nil {
		return nil
	}
	return data
}
