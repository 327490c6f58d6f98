package dwarfdata

import "github.com/espressif/idfsize/internal/idferr"

// CompileUnits parses every compilation unit in .debug_info in order.
func (d *Data) CompileUnits() ([]*CompileUnit, error) {
	var units []*CompileUnit

	off := 0
	for off < len(d.Info) {
		cu, err := d.parseCompileUnit(uint64(off))
		if err != nil {
			return nil, err
		}
		units = append(units, cu)
		off = int(cu.NextOffset)
	}

	return units, nil
}

func (d *Data) parseCompileUnit(offset uint64) (*CompileUnit, error) {
	c := newByteCursor(d.Info, d.order, int(offset), len(d.Info))

	cu := &CompileUnit{Offset: offset}

	length, err := c.u32()
	if err != nil {
		return nil, err
	}
	if length == 0xffffffff {
		cu.Is64Bit = true
		length64, err := c.u64()
		if err != nil {
			return nil, err
		}
		cu.NextOffset = uint64(c.pos) + length64
	} else {
		cu.NextOffset = uint64(c.pos) + uint64(length)
	}

	version, err := c.u16()
	if err != nil {
		return nil, err
	}
	cu.Version = version
	if version < 2 || version > 5 {
		return nil, idferr.FormatErrorf("dwarfdata: unsupported DWARF version %d", version)
	}

	if version >= 5 {
		unitType, err := c.u8()
		if err != nil {
			return nil, err
		}
		cu.UnitType = unitType
		addrSize, err := c.u8()
		if err != nil {
			return nil, err
		}
		cu.AddrSize = addrSize
		abbrevOff, err := c.offset(cu.Is64Bit)
		if err != nil {
			return nil, err
		}
		cu.DebugAbbrevOffset = abbrevOff
	} else {
		abbrevOff, err := c.offset(cu.Is64Bit)
		if err != nil {
			return nil, err
		}
		cu.DebugAbbrevOffset = abbrevOff
		addrSize, err := c.u8()
		if err != nil {
			return nil, err
		}
		cu.AddrSize = addrSize
	}

	abbrev, err := parseAbbrevTable(d.Abbrev, cu.DebugAbbrevOffset)
	if err != nil {
		return nil, err
	}
	cu.abbrev = abbrev

	body := newByteCursor(d.Info, d.order, c.pos, int(cu.NextOffset))
	root, err := d.parseDIE(body, cu, nil)
	if err != nil {
		return nil, err
	}
	cu.Root = root

	return cu, nil
}

// parseDIE decodes one DIE and, if its abbreviation marks it as having
// children, its full sibling chain of children. It returns nil (with no
// error) when it reads a null (abbrev code 0) entry, signalling the end
// of a sibling chain to the caller.
func (d *Data) parseDIE(c *byteCursor, cu *CompileUnit, parent *DIE) (*DIE, error) {
	dieOffset := uint64(c.pos)

	code, err := c.uleb()
	if err != nil {
		return nil, err
	}
	if code == 0 {
		return nil, nil
	}

	decl, ok := cu.abbrev[code]
	if !ok {
		return nil, idferr.SemanticErrorf("dwarfdata: abbrev code %d not found at offset 0x%x", code, dieOffset)
	}

	die := &DIE{
		Offset: dieOffset,
		Tag:    decl.Tag,
		Attrs:  make(map[Attr]Value, len(decl.Attrs)),
		Parent: parent,
		CU:     cu,
	}

	for _, spec := range decl.Attrs {
		if spec.Form == FormImplicitConst {
			die.Attrs[spec.Attr] = Value{Form: spec.Form, Class: ClassConstant, I: spec.ImplicitConst}
			continue
		}
		v, err := decodeForm(c, spec.Form, cu, d)
		if err != nil {
			return nil, err
		}
		die.Attrs[spec.Attr] = v
	}

	if decl.HasChildren {
		for {
			child, err := d.parseDIE(c, cu, die)
			if err != nil {
				return nil, err
			}
			if child == nil {
				break
			}
			die.Children = append(die.Children, child)
		}
	}

	return die, nil
}

// Walk calls fn for root and every descendant, depth-first pre-order.
func Walk(root *DIE, fn func(*DIE)) {
	if root == nil {
		return
	}
	fn(root)
	for _, c := range root.Children {
		Walk(c, fn)
	}
}

// diByOffset resolves a reference-class value to the DIE it names,
// searching every unit (DW_FORM_ref_addr and DW_FORM_ref4's CU-relative
// form resolve to different units' offsets than the one decoding them).
func diByOffset(units []*CompileUnit, offset uint64) *DIE {
	for _, cu := range units {
		if offset < cu.Offset || offset >= cu.NextOffset {
			continue
		}
		var found *DIE
		Walk(cu.Root, func(d *DIE) {
			if found == nil && d.Offset == offset {
				found = d
			}
		})
		if found != nil {
			return found
		}
	}
	return nil
}
