package leb128_test

import (
	"testing"

	"github.com/espressif/idfsize/dwarfdata/leb128"
	"github.com/espressif/idfsize/internal/itest"
)

func TestDecodeULEB128(t *testing.T) {
	// tests from page 162 of the "DWARF4 Standard"
	v := []uint8{0x7f, 0x00}
	r, n := leb128.DecodeULEB128(v)
	itest.Equate(t, n, 1)
	itest.Equate(t, r, uint64(127))

	v = []uint8{0x80, 0x01, 0x00}
	r, n = leb128.DecodeULEB128(v)
	itest.Equate(t, n, 2)
	itest.Equate(t, r, uint64(128))

	v = []uint8{0x81, 0x01, 0x00}
	r, n = leb128.DecodeULEB128(v)
	itest.Equate(t, n, 2)
	itest.Equate(t, r, uint64(129))

	v = []uint8{0x82, 0x01, 0x00}
	r, n = leb128.DecodeULEB128(v)
	itest.Equate(t, n, 2)
	itest.Equate(t, r, uint64(130))

	v = []uint8{0xb9, 0x64, 0x00}
	r, n = leb128.DecodeULEB128(v)
	itest.Equate(t, n, 2)
	itest.Equate(t, r, uint64(12857))
}

func TestDecodeSLEB128(t *testing.T) {
	// tests from page 163 of the "DWARF4 Standard"
	v := []uint8{0x02, 0x00}
	r, n := leb128.DecodeSLEB128(v)
	itest.Equate(t, n, 1)
	itest.Equate(t, r, int64(2))

	v = []uint8{0x7e, 0x00}
	r, n = leb128.DecodeSLEB128(v)
	itest.Equate(t, n, 1)
	itest.Equate(t, r, int64(-2))

	v = []uint8{0xff, 0x00, 0x00}
	r, n = leb128.DecodeSLEB128(v)
	itest.Equate(t, n, 2)
	itest.Equate(t, r, int64(127))

	v = []uint8{0x81, 0x7f, 0x00}
	r, n = leb128.DecodeSLEB128(v)
	itest.Equate(t, n, 2)
	itest.Equate(t, r, int64(-127))
}
