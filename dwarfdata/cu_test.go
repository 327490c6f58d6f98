package dwarfdata_test

import (
	"encoding/binary"
	"testing"

	"github.com/espressif/idfsize/dwarfdata"
	"github.com/stretchr/testify/require"
)

// buildDWARF4 assembles a single DWARF4, 32-bit-length, little-endian
// compilation unit: one DW_TAG_compile_unit (DW_AT_name via strp) with
// one DW_TAG_subprogram child (DW_AT_name inline, DW_AT_low_pc).
func buildDWARF4(t *testing.T) (info, abbrev, str []byte) {
	t.Helper()
	le := binary.LittleEndian

	str = []byte("\x00/project/main.c\x00")
	const nameOff = 1

	abbrev = []byte{
		0x01,       // abbrev code 1
		0x11,       // DW_TAG_compile_unit
		0x01,       // has children
		0x03, 0x0e, // DW_AT_name, DW_FORM_strp
		0x00, 0x00, // terminator

		0x02,       // abbrev code 2
		0x2e,       // DW_TAG_subprogram
		0x00,       // no children
		0x03, 0x08, // DW_AT_name, DW_FORM_string
		0x11, 0x01, // DW_AT_low_pc, DW_FORM_addr
		0x00, 0x00, // terminator

		0x00, // table terminator
	}

	var dieBytes []byte
	dieBytes = append(dieBytes, 0x01) // compile_unit abbrev code
	nameOffBuf := make([]byte, 4)
	le.PutUint32(nameOffBuf, nameOff)
	dieBytes = append(dieBytes, nameOffBuf...) // strp offset

	dieBytes = append(dieBytes, 0x02)                      // subprogram abbrev code
	dieBytes = append(dieBytes, []byte("main\x00")...)     // inline name
	lowPC := make([]byte, 4)
	le.PutUint32(lowPC, 0x00001000)
	dieBytes = append(dieBytes, lowPC...)

	dieBytes = append(dieBytes, 0x00) // terminates compile_unit's children

	header := make([]byte, 7)
	le.PutUint16(header[0:], 4) // version
	le.PutUint32(header[2:], 0) // debug_abbrev_offset
	header[6] = 4               // address_size

	unitLength := len(header) + len(dieBytes)
	lenBuf := make([]byte, 4)
	le.PutUint32(lenBuf, uint32(unitLength))

	info = append(info, lenBuf...)
	info = append(info, header...)
	info = append(info, dieBytes...)
	return info, abbrev, str
}

func newTestData(t *testing.T) *dwarfdata.Data {
	info, abbrev, str := buildDWARF4(t)
	d, err := dwarfdata.NewForTest(info, abbrev, str, binary.LittleEndian)
	require.NoError(t, err)
	return d
}

func TestCompileUnitsParsesDIETree(t *testing.T) {
	d := newTestData(t)

	units, err := d.CompileUnits()
	require.NoError(t, err)
	require.Len(t, units, 1)

	cu := units[0]
	require.EqualValues(t, 4, cu.Version)
	require.EqualValues(t, 4, cu.AddrSize)
	require.NotNil(t, cu.Root)
	require.Equal(t, dwarfdata.TagCompileUnit, cu.Root.Tag)
	require.Len(t, cu.Root.Children, 1)

	sub := cu.Root.Children[0]
	require.Equal(t, dwarfdata.TagSubprogram, sub.Tag)
}
