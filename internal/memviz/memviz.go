// Package memviz dumps the in-memory structures idfsize builds while
// analyzing a target — such as the memory map tree or parsed DWARF
// compile units — to Graphviz .dot files, for debugging the builder itself
// rather than for end-user reporting.
package memviz

import (
	"io"
	"os"

	"github.com/bradleyjkemp/memviz"
)

// Dump writes a .dot rendering of v's in-memory pointer graph to w. It
// is a thin wrapper so callers depend on this package rather than
// reaching for the third-party import directly, keeping the dump
// entry points confined to one file.
func Dump(w io.Writer, v interface{}) error {
	memviz.Map(w, v)
	return nil
}

// DumpFile creates path and writes a .dot dump of v to it.
func DumpFile(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Dump(f, v)
}
