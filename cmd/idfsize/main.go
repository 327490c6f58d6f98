// Command idfsize reports and diffs the memory usage of a built
// firmware image from its linker map, and optionally its ELF and
// DWARF debug information. This is a thin cobra/viper front end over
// the mapfile, elfreader, dwarfdata, memorymap, diffmap and
// postprocess packages; argument parsing and output formatting are
// not where this project's analysis logic lives.
package main

func main() {
	Execute()
}
