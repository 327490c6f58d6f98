package dwarfdata_test

import (
	"testing"

	"github.com/espressif/idfsize/dwarfdata/leb128"
	"github.com/espressif/idfsize/internal/itest"
)

func TestULEB128BoundaryValues(t *testing.T) {
	cases := []struct {
		encoded []byte
		want    uint64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x7f}, 127},
		{[]byte{0x80, 0x01}, 128},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0x0f}, 0xffffffff},
	}
	for _, c := range cases {
		got, n := leb128.DecodeULEB128(c.encoded)
		itest.Equate(t, n, len(c.encoded))
		itest.Equate(t, got, c.want)
	}
}
