package elfreader

import (
	"encoding/binary"
	"os"

	"github.com/espressif/idfsize/internal/idferr"
)

const elfMagic = "\x7fELF"

// Reader is a read-only view of one ELF file's bytes. It owns the full
// file contents for the lifetime of the value; Open acquires
// the underlying os.File only long enough to read it, and always closes
// it before returning, so Reader itself never holds a live file
// descriptor for a caller to leak.
type Reader struct {
	data  []byte
	order binary.ByteOrder

	Header   Header
	sections []*SectionHeader

	symbolsLoaded bool
	symbols       []Symbol
}

// Open reads path fully into memory and parses its ELF header and
// section headers.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, idferr.InputErrorf("elfreader: %w", err)
	}
	defer f.Close()

	data, err := readAll(f)
	if err != nil {
		return nil, idferr.InputErrorf("elfreader: %w", err)
	}

	return NewFromBytes(data)
}

// NewFromBytes parses an in-memory ELF image. It is the constructor Open
// delegates to, and is exported so callers that already hold the bytes
// (e.g. extracted from an archive) do not need to round-trip through a
// temporary file.
func NewFromBytes(data []byte) (*Reader, error) {
	if len(data) < 20 || string(data[:4]) != elfMagic {
		return nil, idferr.FormatErrorf("elfreader: bad ELF magic")
	}

	r := &Reader{data: data}

	switch data[4] {
	case byte(Class32), byte(Class64):
		r.Header.Class = Class(data[4])
	default:
		return nil, idferr.FormatErrorf("elfreader: unsupported ELF class %d", data[4])
	}

	switch data[5] {
	case byte(LittleEndian):
		r.Header.Order = LittleEndian
		r.order = binary.LittleEndian
	case byte(BigEndian):
		r.Header.Order = BigEndian
		r.order = binary.BigEndian
	default:
		return nil, idferr.FormatErrorf("elfreader: unsupported ELF data encoding %d", data[5])
	}

	if err := r.parseHeader(); err != nil {
		return nil, err
	}
	if err := r.parseSectionHeaders(); err != nil {
		return nil, err
	}

	return r, nil
}

// Close releases the Reader's in-memory buffer. It never returns an
// error; it exists so callers can defer it symmetrically with Open.
func (r *Reader) Close() error {
	r.data = nil
	r.sections = nil
	r.symbols = nil
	return nil
}

// ByteOrder returns the file's byte order, for DWARF form decoding that
// needs it directly.
func (r *Reader) ByteOrder() binary.ByteOrder { return r.order }

func readAll(f *os.File) ([]byte, error) {
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, fi.Size())
	if _, err := f.Read(buf); err != nil && fi.Size() > 0 {
		// short reads are possible on some filesystems; fall back to a
		// full ReadAt-based pass.
		n, err2 := f.ReadAt(buf, 0)
		if err2 != nil && n != len(buf) {
			return nil, err2
		}
	}
	return buf, nil
}

func (r *Reader) u16(off int) uint16 { return r.order.Uint16(r.data[off:]) }
func (r *Reader) u32(off int) uint32 { return r.order.Uint32(r.data[off:]) }
func (r *Reader) u64(off int) uint64 { return r.order.Uint64(r.data[off:]) }

func (r *Reader) parseHeader() error {
	h := &r.Header

	if r.Header.Class == Class32 {
		const ehdrSize = 52
		if len(r.data) < ehdrSize {
			return idferr.FormatErrorf("elfreader: truncated ELF32 header")
		}
		h.Type = r.u16(16)
		h.Machine = r.u16(18)
		h.Entry = uint64(r.u32(24))
		h.PhOff = uint64(r.u32(28))
		h.ShOff = uint64(r.u32(32))
		h.Flags = r.u32(36)
		h.PhEntSize = r.u16(42)
		h.PhNum = r.u16(44)
		h.ShEntSize = r.u16(46)
		h.ShNum = r.u16(48)
		h.ShStrNdx = r.u16(50)
	} else {
		const ehdrSize = 64
		if len(r.data) < ehdrSize {
			return idferr.FormatErrorf("elfreader: truncated ELF64 header")
		}
		h.Type = r.u16(16)
		h.Machine = r.u16(18)
		h.Entry = r.u64(24)
		h.PhOff = r.u64(32)
		h.ShOff = r.u64(40)
		h.Flags = r.u32(48)
		h.PhEntSize = r.u16(54)
		h.PhNum = r.u16(56)
		h.ShEntSize = r.u16(58)
		h.ShNum = r.u16(60)
		h.ShStrNdx = r.u16(62)
	}

	return nil
}
