package dwarfdata

import "github.com/espressif/idfsize/elfreader"

// AddCUsToSymbols walks every compile_unit's subprogram and variable
// DIEs and, for each one whose resolved address matches a FUNC/OBJECT
// symbol with nonzero size (excluding the absolute pseudo-section), maps
// that symbol's address to the owning compilation unit's source path.
//
// A subprogram's address is its DW_AT_low_pc; a variable's is whatever
// EvalAddress resolves from DW_AT_location. DW_AT_abstract_origin, when
// present, redirects the CU-name lookup to the origin DIE first, so an
// inlined or externally-defined instance reports the path of its real
// definition rather than the CU it happens to be instantiated in.
func (d *Data) AddCUsToSymbols(symbols []elfreader.Symbol) (map[uint64]string, error) {
	filtered := make(map[uint64]bool)
	for _, s := range symbols {
		if s.Size == 0 {
			continue
		}
		if s.Shndx == elfreader.SHN_ABS {
			continue
		}
		switch s.Type() {
		case elfreader.STT_FUNC, elfreader.STT_OBJECT:
			filtered[s.Value] = true
		}
	}

	units, err := d.CompileUnits()
	if err != nil {
		return nil, err
	}

	result := make(map[uint64]string)

	for _, cu := range units {
		var walkErr error
		Walk(cu.Root, func(die *DIE) {
			if walkErr != nil || die == nil {
				return
			}

			var addr uint64
			var have bool

			switch die.Tag {
			case TagSubprogram:
				if v, ok := die.attr(AttrLowPC); ok && v.Class == ClassAddress {
					addr, have = v.U, true
				}
			case TagVariable:
				if v, ok := die.attr(AttrLocation); ok && v.Class == ClassExprLoc {
					a, ok, err := EvalAddress(v.Bytes, cu.AddrSize, d.order)
					if err != nil {
						walkErr = err
						return
					}
					addr, have = a, ok
				}
			default:
				return
			}

			if !have || !filtered[addr] {
				return
			}

			nameCU := cu
			if origin, ok := die.attr(AttrAbstractOrigin); ok && origin.Class == ClassReference {
				if od := diByOffset(units, origin.U); od != nil {
					nameCU = od.CU
				}
			}
			if nameCU.Root == nil {
				return
			}
			if nv, ok := nameCU.Root.attr(AttrName); ok {
				result[addr] = nv.Str
			}
		})
		if walkErr != nil {
			return nil, walkErr
		}
	}

	return result, nil
}
