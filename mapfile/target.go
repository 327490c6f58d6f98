package mapfile

import (
	"regexp"
	"strings"
)

// targetPatterns are tried in order against every linker-script line until
// one matches; an empty target is allowed since the caller may supply one
// externally.
var targetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`IDF_TARGET_(\S*) =`),
	regexp.MustCompile(`project_elf_src_(\S*)\.c\.obj`),
	regexp.MustCompile(`^LOAD .*?/xtensa-(esp[^-]+)-elf/`),
}

// detectTarget extracts the SoC identifier from a linker-script line using
// the first pattern (in declaration order) that matches. It returns the
// empty string when none match.
func detectTarget(line string) string {
	for i, re := range targetPatterns {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if i == 0 {
			return strings.ToLower(m[1])
		}
		return m[1]
	}
	return ""
}
