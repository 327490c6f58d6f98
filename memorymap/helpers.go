package memorymap

import "strings"

// basename returns the final path component, accepting both '/' and
// '\\' separators since archive paths recorded by older Windows-hosted
// toolchains use the latter.
func basename(path string) string {
	path = strings.TrimRight(path, "/\\")
	if i := strings.LastIndexAny(path, "/\\"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// abbrevSectionName returns the last dot-separated component of an
// output section name, e.g. ".dram0.bss" -> "bss".
func abbrevSectionName(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
