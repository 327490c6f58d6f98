package dwarfdata

import "github.com/espressif/idfsize/internal/idferr"

// strOffsetsBase and addrBase are the byte offsets, within
// .debug_str_offsets / .debug_addr, of the first table entry belonging
// to a contribution that carries only a single compilation unit's
// worth of entries — i.e. the common case of a unit header (length,
// version, two reserved/padding bytes) immediately followed by the
// table, with no DW_AT_str_offsets_base/DW_AT_addr_base redirection.
// Object files built with split-dwarf or multiple CUs packed into one
// contribution need the real base read from those attributes; this
// reader does not track that, which is an acceptable simplification
// for a size-analysis tool that nevertheless handles the layout
// produced by a normal, non-split compile.
const (
	strOffsetsBase = 8
	addrBase       = 8
)

// decodeForm reads one attribute value of the given form from c, in the
// context of cu (for address size, CU offset and 32/64-bit-ness) and d
// (for string- and index-table resolution).
func decodeForm(c *byteCursor, form Form, cu *CompileUnit, d *Data) (Value, error) {
	switch form {
	case FormAddr:
		u, err := readAddr(c, cu)
		return Value{Form: form, Class: ClassAddress, U: u}, err

	case FormBlock1:
		n, err := c.u8()
		if err != nil {
			return Value{}, err
		}
		b, err := c.bytes(int(n))
		return Value{Form: form, Class: ClassBlock, Bytes: b}, err
	case FormBlock2:
		n, err := c.u16()
		if err != nil {
			return Value{}, err
		}
		b, err := c.bytes(int(n))
		return Value{Form: form, Class: ClassBlock, Bytes: b}, err
	case FormBlock4:
		n, err := c.u32()
		if err != nil {
			return Value{}, err
		}
		b, err := c.bytes(int(n))
		return Value{Form: form, Class: ClassBlock, Bytes: b}, err
	case FormBlock:
		n, err := c.uleb()
		if err != nil {
			return Value{}, err
		}
		b, err := c.bytes(int(n))
		return Value{Form: form, Class: ClassBlock, Bytes: b}, err

	case FormData1:
		u, err := c.u8()
		return Value{Form: form, Class: ClassConstant, U: uint64(u)}, err
	case FormData2:
		u, err := c.u16()
		return Value{Form: form, Class: ClassConstant, U: uint64(u)}, err
	case FormData4:
		u, err := c.u32()
		return Value{Form: form, Class: ClassConstant, U: uint64(u)}, err
	case FormData8:
		u, err := c.u64()
		return Value{Form: form, Class: ClassConstant, U: u}, err
	case FormData16:
		b, err := c.bytes(16)
		return Value{Form: form, Class: ClassConstant, Bytes: b}, err
	case FormUdata:
		u, err := c.uleb()
		return Value{Form: form, Class: ClassConstant, U: u}, err
	case FormSdata:
		i, err := c.sleb()
		return Value{Form: form, Class: ClassConstant, I: i}, err

	case FormString:
		s, err := c.cstring()
		return Value{Form: form, Class: ClassString, Str: s}, err
	case FormStrp:
		off, err := c.offset(cu.Is64Bit)
		if err != nil {
			return Value{}, err
		}
		return Value{Form: form, Class: ClassString, Str: cstringAt(d.Str, off)}, nil
	case FormLineStrp:
		off, err := c.offset(cu.Is64Bit)
		if err != nil {
			return Value{}, err
		}
		return Value{Form: form, Class: ClassString, Str: cstringAt(d.LineStr, off)}, nil
	case FormStrpSup:
		// supplementary object files are not resolved; report an empty
		// string rather than failing the whole unit.
		_, err := c.offset(cu.Is64Bit)
		return Value{Form: form, Class: ClassString}, err
	case FormStrx:
		idx, err := c.uleb()
		if err != nil {
			return Value{}, err
		}
		return Value{Form: form, Class: ClassString, Str: resolveStrx(d, cu, idx)}, nil
	case FormStrx1:
		idx, err := c.u8()
		if err != nil {
			return Value{}, err
		}
		return Value{Form: form, Class: ClassString, Str: resolveStrx(d, cu, uint64(idx))}, nil
	case FormStrx2:
		idx, err := c.u16()
		if err != nil {
			return Value{}, err
		}
		return Value{Form: form, Class: ClassString, Str: resolveStrx(d, cu, uint64(idx))}, nil
	case FormStrx3:
		b, err := c.bytes(3)
		if err != nil {
			return Value{}, err
		}
		idx := uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16
		return Value{Form: form, Class: ClassString, Str: resolveStrx(d, cu, idx)}, nil
	case FormStrx4:
		idx, err := c.u32()
		if err != nil {
			return Value{}, err
		}
		return Value{Form: form, Class: ClassString, Str: resolveStrx(d, cu, uint64(idx))}, nil

	case FormAddrx:
		idx, err := c.uleb()
		if err != nil {
			return Value{}, err
		}
		u, err := resolveAddrx(d, cu, idx)
		return Value{Form: form, Class: ClassAddress, U: u}, err
	case FormAddrx1:
		idx, err := c.u8()
		if err != nil {
			return Value{}, err
		}
		u, err := resolveAddrx(d, cu, uint64(idx))
		return Value{Form: form, Class: ClassAddress, U: u}, err
	case FormAddrx2:
		idx, err := c.u16()
		if err != nil {
			return Value{}, err
		}
		u, err := resolveAddrx(d, cu, uint64(idx))
		return Value{Form: form, Class: ClassAddress, U: u}, err
	case FormAddrx3:
		b, err := c.bytes(3)
		if err != nil {
			return Value{}, err
		}
		idx := uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16
		u, err := resolveAddrx(d, cu, idx)
		return Value{Form: form, Class: ClassAddress, U: u}, err
	case FormAddrx4:
		idx, err := c.u32()
		if err != nil {
			return Value{}, err
		}
		u, err := resolveAddrx(d, cu, uint64(idx))
		return Value{Form: form, Class: ClassAddress, U: u}, err

	case FormRefAddr:
		off, err := c.offset(cu.Is64Bit)
		return Value{Form: form, Class: ClassReference, U: off}, err
	case FormRef1:
		u, err := c.u8()
		return Value{Form: form, Class: ClassReference, U: cu.Offset + uint64(u)}, err
	case FormRef2:
		u, err := c.u16()
		return Value{Form: form, Class: ClassReference, U: cu.Offset + uint64(u)}, err
	case FormRef4:
		u, err := c.u32()
		return Value{Form: form, Class: ClassReference, U: cu.Offset + uint64(u)}, err
	case FormRef8:
		u, err := c.u64()
		return Value{Form: form, Class: ClassReference, U: cu.Offset + u}, err
	case FormRefUdata:
		u, err := c.uleb()
		return Value{Form: form, Class: ClassReference, U: cu.Offset + u}, err
	case FormRefSig8:
		u, err := c.u64()
		return Value{Form: form, Class: ClassRefSig8, U: u}, err
	case FormRefSup4:
		u, err := c.u32()
		return Value{Form: form, Class: ClassRefSig8, U: uint64(u)}, err
	case FormRefSup8:
		u, err := c.u64()
		return Value{Form: form, Class: ClassRefSig8, U: u}, err

	case FormExprLoc:
		n, err := c.uleb()
		if err != nil {
			return Value{}, err
		}
		b, err := c.bytes(int(n))
		return Value{Form: form, Class: ClassExprLoc, Bytes: b}, err

	case FormFlag:
		u, err := c.u8()
		return Value{Form: form, Class: ClassFlag, U: uint64(u)}, err
	case FormFlagPresent:
		return Value{Form: form, Class: ClassFlag, U: 1}, nil

	case FormSecOffset:
		off, err := c.offset(cu.Is64Bit)
		return Value{Form: form, Class: ClassSecOffset, U: off}, err
	case FormLoclistx:
		u, err := c.uleb()
		return Value{Form: form, Class: ClassLoclistx, U: u}, err
	case FormRnglistx:
		u, err := c.uleb()
		return Value{Form: form, Class: ClassRnglistx, U: u}, err

	case FormIndirect:
		inner, err := c.uleb()
		if err != nil {
			return Value{}, err
		}
		return decodeForm(c, Form(inner), cu, d)

	default:
		return Value{}, idferr.FormatErrorf("dwarfdata: unsupported attribute form 0x%x", uint64(form))
	}
}

func readAddr(c *byteCursor, cu *CompileUnit) (uint64, error) {
	if cu.AddrSize == 8 {
		return c.u64()
	}
	u, err := c.u32()
	return uint64(u), err
}

func resolveStrx(d *Data, cu *CompileUnit, idx uint64) string {
	width := uint64(4)
	if cu.Is64Bit {
		width = 8
	}
	pos := strOffsetsBase + idx*width
	if pos+width > uint64(len(d.StrOffsets)) {
		return ""
	}
	var off uint64
	if cu.Is64Bit {
		off = d.order.Uint64(d.StrOffsets[pos:])
	} else {
		off = uint64(d.order.Uint32(d.StrOffsets[pos:]))
	}
	return cstringAt(d.Str, off)
}

func resolveAddrx(d *Data, cu *CompileUnit, idx uint64) (uint64, error) {
	width := uint64(cu.AddrSize)
	if width == 0 {
		width = 4
	}
	pos := addrBase + idx*width
	if pos+width > uint64(len(d.Addr)) {
		return 0, idferr.FormatErrorf("dwarfdata: addrx index %d out of range", idx)
	}
	if width == 8 {
		return d.order.Uint64(d.Addr[pos:]), nil
	}
	return uint64(d.order.Uint32(d.Addr[pos:])), nil
}
