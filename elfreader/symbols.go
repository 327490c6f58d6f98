package elfreader

import "github.com/espressif/idfsize/internal/idferr"

// Symbols returns every entry of the file's .symtab, with names resolved
// against its linked string table. Results are cached after the first
// call since this reader is read-only once constructed.
func (r *Reader) Symbols() ([]Symbol, error) {
	if r.symbolsLoaded {
		return r.symbols, nil
	}

	sh := r.Section(".symtab")
	if sh == nil {
		r.symbolsLoaded = true
		return nil, nil
	}
	if int(sh.Link) >= len(r.sections) {
		return nil, idferr.FormatErrorf("elfreader: .symtab sh_link %d out of range", sh.Link)
	}
	strtab := r.sections[sh.Link]

	data, err := r.SectionData(sh)
	if err != nil {
		return nil, err
	}

	entSize := 16
	if r.Header.Class == Class64 {
		entSize = 24
	}
	if int(sh.EntSize) != 0 {
		entSize = int(sh.EntSize)
	}

	n := len(data) / entSize
	syms := make([]Symbol, 0, n)

	for i := 0; i < n; i++ {
		off := i * entSize
		var s Symbol

		if r.Header.Class == Class32 {
			nameOff := r.order32(data, off)
			s.Value = uint64(r.order32(data, off+4))
			s.Size = uint64(r.order32(data, off+8))
			s.Info = data[off+12]
			s.Other = data[off+13]
			s.Shndx = r.order16(data, off+14)
			s.Name = r.cstringAt(strtab, nameOff)
		} else {
			nameOff := r.order32(data, off)
			s.Info = data[off+4]
			s.Other = data[off+5]
			s.Shndx = r.order16(data, off+6)
			s.Value = r.order64(data, off+8)
			s.Size = r.order64(data, off+16)
			s.Name = r.cstringAt(strtab, nameOff)
		}

		syms = append(syms, s)
	}

	r.symbols = syms
	r.symbolsLoaded = true
	return syms, nil
}

func (r *Reader) order16(b []byte, off int) uint16 { return r.order.Uint16(b[off:]) }
func (r *Reader) order32(b []byte, off int) uint32 { return r.order.Uint32(b[off:]) }
func (r *Reader) order64(b []byte, off int) uint64 { return r.order.Uint64(b[off:]) }
