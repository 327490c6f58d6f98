package dwarfdata

import "encoding/binary"

// parseAbbrevTable decodes the sequence of (code, tag, children-flag,
// attribute-specs) entries starting at offset in the .debug_abbrev
// section, stopping at the first zero code.
func parseAbbrevTable(data []byte, offset uint64) (map[uint64]*AbbrevDecl, error) {
	c := newByteCursor(data, binary.LittleEndian, int(offset), len(data))
	table := make(map[uint64]*AbbrevDecl)

	for !c.done() {
		code, err := c.uleb()
		if err != nil {
			return nil, err
		}
		if code == 0 {
			break
		}

		tag, err := c.uleb()
		if err != nil {
			return nil, err
		}
		hasChildren, err := c.u8()
		if err != nil {
			return nil, err
		}

		decl := &AbbrevDecl{Code: code, Tag: Tag(tag), HasChildren: hasChildren != 0}

		for {
			attr, err := c.uleb()
			if err != nil {
				return nil, err
			}
			form, err := c.uleb()
			if err != nil {
				return nil, err
			}

			var implicitConst int64
			if Form(form) == FormImplicitConst {
				implicitConst, err = c.sleb()
				if err != nil {
					return nil, err
				}
			}

			if attr == 0 && form == 0 {
				break
			}
			decl.Attrs = append(decl.Attrs, AttrSpec{Attr: Attr(attr), Form: Form(form), ImplicitConst: implicitConst})
		}

		table[code] = decl
	}

	return table, nil
}
