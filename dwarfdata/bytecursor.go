package dwarfdata

import (
	"encoding/binary"

	"github.com/espressif/idfsize/dwarfdata/leb128"
	"github.com/espressif/idfsize/internal/idferr"
)

// byteCursor is a forward-only reader over one section's bytes, used
// while decoding a single compilation unit. It never reads past its own
// end offset.
type byteCursor struct {
	data  []byte
	order binary.ByteOrder
	pos   int
	end   int
}

func newByteCursor(data []byte, order binary.ByteOrder, start, end int) *byteCursor {
	return &byteCursor{data: data, order: order, pos: start, end: end}
}

func (c *byteCursor) done() bool { return c.pos >= c.end }

func (c *byteCursor) need(n int) error {
	if c.pos+n > c.end || c.pos+n > len(c.data) {
		return idferr.FormatErrorf("dwarfdata: truncated read at offset 0x%x", c.pos)
	}
	return nil
}

func (c *byteCursor) u8() (uint8, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	v := c.data[c.pos]
	c.pos++
	return v, nil
}

func (c *byteCursor) u16() (uint16, error) {
	if err := c.need(2); err != nil {
		return 0, err
	}
	v := c.order.Uint16(c.data[c.pos:])
	c.pos += 2
	return v, nil
}

func (c *byteCursor) u32() (uint32, error) {
	if err := c.need(4); err != nil {
		return 0, err
	}
	v := c.order.Uint32(c.data[c.pos:])
	c.pos += 4
	return v, nil
}

func (c *byteCursor) u64() (uint64, error) {
	if err := c.need(8); err != nil {
		return 0, err
	}
	v := c.order.Uint64(c.data[c.pos:])
	c.pos += 8
	return v, nil
}

// offset reads a 32- or 64-bit DWARF "offset"-class field, as selected
// by the enclosing unit's 32/64-bit length form.
func (c *byteCursor) offset(is64 bool) (uint64, error) {
	if is64 {
		return c.u64()
	}
	v, err := c.u32()
	return uint64(v), err
}

func (c *byteCursor) bytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	v := c.data[c.pos : c.pos+n]
	c.pos += n
	return v, nil
}

func (c *byteCursor) uleb() (uint64, error) {
	v, n := leb128.DecodeULEB128(c.data[c.pos:c.end])
	if n == 0 {
		return 0, idferr.FormatErrorf("dwarfdata: truncated ULEB128 at offset 0x%x", c.pos)
	}
	c.pos += n
	return v, nil
}

func (c *byteCursor) sleb() (int64, error) {
	v, n := leb128.DecodeSLEB128(c.data[c.pos:c.end])
	if n == 0 {
		return 0, idferr.FormatErrorf("dwarfdata: truncated SLEB128 at offset 0x%x", c.pos)
	}
	c.pos += n
	return v, nil
}

// cstring reads a NUL-terminated string starting at pos.
func (c *byteCursor) cstring() (string, error) {
	start := c.pos
	for c.pos < c.end && c.pos < len(c.data) && c.data[c.pos] != 0 {
		c.pos++
	}
	if c.pos >= len(c.data) {
		return "", idferr.FormatErrorf("dwarfdata: unterminated string at offset 0x%x", start)
	}
	s := string(c.data[start:c.pos])
	c.pos++ // past the NUL
	return s, nil
}

// cstringAt reads a NUL-terminated string at a fixed offset within an
// arbitrary byte slice (used for .debug_str / .debug_line_str lookups,
// which are addressed by absolute offset rather than cursor position).
func cstringAt(data []byte, off uint64) string {
	if off >= uint64(len(data)) {
		return ""
	}
	end := off
	for end < uint64(len(data)) && data[end] != 0 {
		end++
	}
	return string(data[off:end])
}
