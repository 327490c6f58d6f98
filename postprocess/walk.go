// Package postprocess implements the report-shaping operations that run
// after a memory map has been built and, optionally, diffed: walking
// the tree at a chosen depth, trimming and unifying it, and producing
// the flat archive/object/symbol summaries and the archive dependency
// graph.
package postprocess

import "github.com/espressif/idfsize/memorymap"

// Tuple is one row of a Walk: the five tree levels down to the
// requested depth, each carrying both its key name and its info node.
// Levels below the requested depth are left nil, matching the null
// fields a depth-limited JSON report shows.
type Tuple struct {
	MemoryType     string
	MemoryTypeInfo *memorymap.MemoryType

	Section     string
	SectionInfo *memorymap.Section

	Archive     string
	ArchiveInfo *memorymap.Archive

	Object     string
	ObjectInfo *memorymap.Object

	Symbol     string
	SymbolInfo *memorymap.Symbol
}

// Walker is a stateful cursor over a Walk's flattened tuples, in the
// Start/Next idiom this codebase uses for its other tree traversals
// rather than a channel-based generator.
type Walker struct {
	tuples []Tuple
	pos    int
}

// NewWalker computes every tuple of mm down to depth and returns a
// cursor over them.
func NewWalker(mm *memorymap.MemoryMap, depth memorymap.Depth) *Walker {
	return &Walker{tuples: walkAll(mm, depth)}
}

// Start resets the cursor to the first tuple.
func (w *Walker) Start() (Tuple, bool) {
	w.pos = -1
	return w.Next()
}

// Next returns the next tuple, or a zero Tuple and false when exhausted.
func (w *Walker) Next() (Tuple, bool) {
	w.pos++
	if w.pos >= len(w.tuples) {
		return Tuple{}, false
	}
	return w.tuples[w.pos], true
}

// All returns every tuple Walk would yield, for callers that want the
// whole slice rather than a cursor.
func (w *Walker) All() []Tuple {
	return append([]Tuple(nil), w.tuples...)
}

func walkAll(mm *memorymap.MemoryMap, depth memorymap.Depth) []Tuple {
	var out []Tuple

	for _, mtName := range mm.MemoryTypes.Keys() {
		mt, _ := mm.MemoryTypes.Get(mtName)
		base := Tuple{MemoryType: mtName, MemoryTypeInfo: mt}
		if depth == memorymap.DepthTypes {
			out = append(out, base)
			continue
		}

		if mt.Sections.Len() == 0 {
			out = append(out, base)
			continue
		}
		for _, secName := range mt.Sections.Keys() {
			sec, _ := mt.Sections.Get(secName)
			secTuple := base
			secTuple.Section, secTuple.SectionInfo = secName, sec
			if depth == memorymap.DepthSections {
				out = append(out, secTuple)
				continue
			}

			if sec.Archives.Len() == 0 {
				out = append(out, secTuple)
				continue
			}
			for _, arcName := range sec.Archives.Keys() {
				arc, _ := sec.Archives.Get(arcName)
				arcTuple := secTuple
				arcTuple.Archive, arcTuple.ArchiveInfo = arcName, arc
				if depth == memorymap.DepthArchives {
					out = append(out, arcTuple)
					continue
				}

				if arc.Objects.Len() == 0 {
					out = append(out, arcTuple)
					continue
				}
				for _, objName := range arc.Objects.Keys() {
					obj, _ := arc.Objects.Get(objName)
					objTuple := arcTuple
					objTuple.Object, objTuple.ObjectInfo = objName, obj
					if depth == memorymap.DepthObjects {
						out = append(out, objTuple)
						continue
					}

					if obj.Symbols.Len() == 0 {
						out = append(out, objTuple)
						continue
					}
					for _, symName := range obj.Symbols.Keys() {
						sym, _ := obj.Symbols.Get(symName)
						symTuple := objTuple
						symTuple.Symbol, symTuple.SymbolInfo = symName, sym
						out = append(out, symTuple)
					}
				}
			}
		}
	}

	return out
}
