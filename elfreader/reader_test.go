package elfreader_test

import (
	"encoding/binary"
	"testing"

	"github.com/espressif/idfsize/elfreader"
	"github.com/stretchr/testify/require"
)

// buildMinimalELF64 assembles a tiny, valid little-endian ELF64 image
// with a .text section (address 0x40080000, size 0x10) and one FUNC
// symbol "main" at that address, entirely in memory, so elfreader's
// from-scratch parser has something concrete to exercise without relying
// on a system linker.
func buildMinimalELF64(t *testing.T) []byte {
	t.Helper()

	shstrtab := "\x00.shstrtab\x00.text\x00.symtab\x00.strtab\x00"
	offShstrtab := 1
	offText := offShstrtab + len(".shstrtab\x00")
	offSymtab := offText + len(".text\x00")
	offStrtab := offSymtab + len(".symtab\x00")

	strtab := "\x00main\x00"
	offMain := 1

	const ehdrSize = 64
	const shdrSize = 64
	const symSize = 24

	textData := make([]byte, 0x10)

	// section layout in the file, after the header:
	// [ehdr][.text][.shstrtab][.symtab][.strtab][shdrs]
	textOff := ehdrSize
	shstrtabOff := textOff + len(textData)
	symtabOff := shstrtabOff + len(shstrtab)
	strtabOff := symtabOff + symSize // one symbol entry (NULL symbol omitted for brevity; see below)
	shoffFile := strtabOff + len(strtab)

	buf := make([]byte, shoffFile+shdrSize*5)

	// e_ident
	copy(buf[0:], "\x7fELF")
	buf[4] = 2 // ELFCLASS64
	buf[5] = 1 // ELFDATA2LSB
	buf[6] = 1 // EI_VERSION

	le := binary.LittleEndian
	le.PutUint16(buf[16:], 2)                   // e_type
	le.PutUint16(buf[18:], 40)                  // e_machine (EM_ARM)
	le.PutUint32(buf[20:], 1)                   // e_version
	le.PutUint64(buf[24:], 0)                   // e_entry
	le.PutUint64(buf[32:], 0)                   // e_phoff
	le.PutUint64(buf[40:], uint64(shoffFile))   // e_shoff
	le.PutUint32(buf[48:], 0)                   // e_flags
	le.PutUint16(buf[52:], ehdrSize)            // e_ehsize
	le.PutUint16(buf[54:], 0)                   // e_phentsize
	le.PutUint16(buf[56:], 0)                   // e_phnum
	le.PutUint16(buf[58:], shdrSize)            // e_shentsize
	le.PutUint16(buf[60:], 5)                   // e_shnum: NULL,.text,.shstrtab,.symtab,.strtab
	le.PutUint16(buf[62:], 2)                   // e_shstrndx -> .shstrtab is section 2

	copy(buf[textOff:], textData)
	copy(buf[shstrtabOff:], shstrtab)

	// one symbol: "main", FUNC, global, value 0x40080000, size 0x10,
	// section index 1 (.text)
	symOff := symtabOff
	le.PutUint32(buf[symOff:], uint32(offMain)) // st_name
	buf[symOff+4] = (1 << 4) | 2                // STB_GLOBAL<<4 | STT_FUNC
	buf[symOff+5] = 0                           // st_other
	le.PutUint16(buf[symOff+6:], 1)             // st_shndx -> .text
	le.PutUint64(buf[symOff+8:], 0x40080000)    // st_value
	le.PutUint64(buf[symOff+16:], 0x10)         // st_size

	copy(buf[strtabOff:], strtab)

	writeShdr := func(i int, nameOff uint32, typ elfreader.SectionType, flags elfreader.SectionFlag, addr, offset, size uint64, link, info uint32, entsize uint64) {
		base := shoffFile + i*shdrSize
		le.PutUint32(buf[base:], nameOff)
		le.PutUint32(buf[base+4:], uint32(typ))
		le.PutUint64(buf[base+8:], uint64(flags))
		le.PutUint64(buf[base+16:], addr)
		le.PutUint64(buf[base+24:], offset)
		le.PutUint64(buf[base+32:], size)
		le.PutUint32(buf[base+40:], link)
		le.PutUint32(buf[base+44:], info)
		le.PutUint64(buf[base+48:], 1)
		le.PutUint64(buf[base+56:], entsize)
	}

	writeShdr(0, 0, elfreader.SHT_NULL, 0, 0, 0, 0, 0, 0, 0)
	writeShdr(1, uint32(offText), elfreader.SHT_PROGBITS, elfreader.SHF_ALLOC|elfreader.SHF_EXECINSTR, 0x40080000, uint64(textOff), uint64(len(textData)), 0, 0, 0)
	writeShdr(2, uint32(offShstrtab), elfreader.SHT_STRTAB, 0, 0, uint64(shstrtabOff), uint64(len(shstrtab)), 0, 0, 0)
	writeShdr(3, uint32(offSymtab), elfreader.SHT_SYMTAB, 0, 0, uint64(symtabOff), symSize, 4, 0, symSize)
	writeShdr(4, uint32(offStrtab), elfreader.SHT_STRTAB, 0, 0, uint64(strtabOff), uint64(len(strtab)), 0, 0, 0)

	return buf
}

func TestParseMinimalELF(t *testing.T) {
	data := buildMinimalELF64(t)

	r, err := elfreader.NewFromBytes(data)
	require.NoError(t, err)
	defer r.Close()

	require.Equal(t, elfreader.Class64, r.Header.Class)
	require.Equal(t, elfreader.LittleEndian, r.Header.Order)
	require.Len(t, r.Sections(), 5)

	text := r.Section(".text")
	require.NotNil(t, text)
	require.Equal(t, uint64(0x40080000), text.Addr)
	require.Equal(t, uint64(0x10), text.Size)
	require.Contains(t, r.ExecutableSections(), ".text")

	syms, err := r.Symbols()
	require.NoError(t, err)
	require.Len(t, syms, 1)
	require.Equal(t, "main", syms[0].Name)
	require.Equal(t, elfreader.STT_FUNC, syms[0].Type())
	require.Equal(t, elfreader.STB_GLOBAL, syms[0].Bind())
	require.Equal(t, uint64(0x40080000), syms[0].Value)
}
