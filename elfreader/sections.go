package elfreader

import "github.com/espressif/idfsize/internal/idferr"

func (r *Reader) parseSectionHeaders() error {
	if r.Header.ShNum == 0 {
		return nil
	}

	entSize := 40
	if r.Header.Class == Class64 {
		entSize = 64
	}
	if int(r.Header.ShEntSize) != 0 {
		entSize = int(r.Header.ShEntSize)
	}

	base := int(r.Header.ShOff)
	need := base + entSize*int(r.Header.ShNum)
	if need > len(r.data) {
		return idferr.FormatErrorf("elfreader: truncated section header table")
	}

	r.sections = make([]*SectionHeader, r.Header.ShNum)
	for i := 0; i < int(r.Header.ShNum); i++ {
		off := base + i*entSize
		sh := &SectionHeader{index: i}

		if r.Header.Class == Class32 {
			sh.nameOffset = r.u32(off)
			sh.Type = SectionType(r.u32(off + 4))
			sh.Flags = SectionFlag(r.u32(off + 8))
			sh.Addr = uint64(r.u32(off + 12))
			sh.Offset = uint64(r.u32(off + 16))
			sh.Size = uint64(r.u32(off + 20))
			sh.Link = r.u32(off + 24)
			sh.Info = r.u32(off + 28)
			sh.AddrAlign = uint64(r.u32(off + 32))
			sh.EntSize = uint64(r.u32(off + 36))
		} else {
			sh.nameOffset = r.u32(off)
			sh.Type = SectionType(r.u32(off + 4))
			sh.Flags = SectionFlag(r.u64(off + 8))
			sh.Addr = r.u64(off + 16)
			sh.Offset = r.u64(off + 24)
			sh.Size = r.u64(off + 32)
			sh.Link = r.u32(off + 40)
			sh.Info = r.u32(off + 44)
			sh.AddrAlign = r.u64(off + 48)
			sh.EntSize = r.u64(off + 56)
		}

		r.sections[i] = sh
	}

	return nil
}

// Sections returns every section header, in file order.
func (r *Reader) Sections() []*SectionHeader { return r.sections }

// SectionName lazily resolves a section header's name through the
// section-header string table named by e_shstrndx.
func (r *Reader) SectionName(sh *SectionHeader) string {
	if int(r.Header.ShStrNdx) >= len(r.sections) {
		return ""
	}
	strtab := r.sections[r.Header.ShStrNdx]
	return r.cstringAt(strtab, sh.nameOffset)
}

// Section returns the section header named name, or nil if none matches.
func (r *Reader) Section(name string) *SectionHeader {
	for _, sh := range r.sections {
		if r.SectionName(sh) == name {
			return sh
		}
	}
	return nil
}

// SectionData returns the raw bytes of sh. SHT_NOBITS sections (.bss)
// occupy no file space and return nil.
func (r *Reader) SectionData(sh *SectionHeader) ([]byte, error) {
	if sh.Type == SHT_NOBITS {
		return nil, nil
	}
	end := sh.Offset + sh.Size
	if end > uint64(len(r.data)) {
		return nil, idferr.FormatErrorf("elfreader: section at offset 0x%x size 0x%x is truncated", sh.Offset, sh.Size)
	}
	return r.data[sh.Offset:end], nil
}

// cstringAt reads a NUL-terminated string at offset off within sh's data.
func (r *Reader) cstringAt(sh *SectionHeader, off uint32) string {
	data, err := r.SectionData(sh)
	if err != nil || uint64(off) >= uint64(len(data)) {
		return ""
	}
	end := off
	for int(end) < len(data) && data[end] != 0 {
		end++
	}
	return string(data[off:end])
}

// ExecutableSections returns the name of every section with SHF_EXECINSTR
// set.
func (r *Reader) ExecutableSections() []string {
	var out []string
	for _, sh := range r.sections {
		if sh.Flags&SHF_EXECINSTR != 0 {
			out = append(out, r.SectionName(sh))
		}
	}
	return out
}
