package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/espressif/idfsize/internal/report"
	"github.com/espressif/idfsize/memorymap"
	"github.com/espressif/idfsize/postprocess"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Report a single build's memory usage",
	RunE:  runAnalyze,
}

func init() {
	flags := analyzeCmd.Flags()
	flags.String("map", "", "path to the linker map file (required)")
	flags.String("elf", "", "path to the application ELF, for per-symbol attribution")
	flags.String("catalog", "", "path to the chip memory catalog YAML file")
	flags.String("project-description", "", "path to project_description.json")
	flags.String("target", "", "chip target, overriding what the map file or project description report")
	flags.Bool("load-symbols", true, "attach individual symbols rather than one synthetic symbol per input section")
	flags.Bool("expand-dwarf", false, "force DWARF-based (exe) input-section expansion even without COMPILER_LTO_LINKTIME")
	flags.String("depth", "symbol", "how deep to report: type, section, archive, object, or symbol")
	flags.String("sort", "size", "sort key: size, size_diff, used, or used_diff")
	flags.Bool("descending", true, "sort largest first")
	flags.Bool("unify", false, "merge sibling entries that share an abbreviated name")
	flags.Bool("trim", true, "drop unused memory types and archiveless sections")
	flags.Bool("legacy", false, "parse with the regex-only fallback for map files without a \"Memory Configuration\" header")

	viper.BindPFlags(flags)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	log := newLogger()

	in := buildInputs{
		MapPath:     viper.GetString("map"),
		ELFPath:     viper.GetString("elf"),
		CatalogPath: viper.GetString("catalog"),
		ProjectPath: viper.GetString("project-description"),
		Target:      viper.GetString("target"),
		LoadSymbols: viper.GetBool("load-symbols"),
		ExpandDWARF: viper.GetBool("expand-dwarf"),
		Legacy:      viper.GetBool("legacy"),
	}
	if in.MapPath == "" {
		return fmt.Errorf("--map is required")
	}

	mm, err := buildMemoryMap(in, log)
	if err != nil {
		return err
	}

	depth := parseDepth(viper.GetString("depth"))
	if viper.GetBool("unify") {
		mm.Unify()
	}
	if viper.GetBool("trim") {
		mm.Trim(memorymap.TrimOptions{Depth: depth})
	}
	mm.Sort(parseSortKey(viper.GetString("sort")), viper.GetBool("descending"))

	w := postprocess.NewWalker(mm, depth)
	return report.WriteTable(os.Stdout, w, report.Options{
		Depth: depth,
		Color: !viper.GetBool("no-color") && isTerminal(),
	})
}
