package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/espressif/idfsize/diffmap"
	"github.com/espressif/idfsize/internal/report"
	"github.com/espressif/idfsize/memorymap"
	"github.com/espressif/idfsize/postprocess"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare a build's memory usage against a reference build",
	RunE:  runDiff,
}

func init() {
	flags := diffCmd.Flags()
	flags.String("map", "", "path to the current build's linker map file (required)")
	flags.String("elf", "", "path to the current build's application ELF")
	flags.String("reference-map", "", "path to the reference build's linker map file (required)")
	flags.String("reference-elf", "", "path to the reference build's application ELF")
	flags.String("catalog", "", "path to the chip memory catalog YAML file")
	flags.String("target", "", "chip target, overriding what the map file reports")
	flags.Bool("load-symbols", true, "attach individual symbols rather than one synthetic symbol per input section")
	flags.String("depth", "symbol", "how deep to report: type, section, archive, object, or symbol")
	flags.String("sort", "size_diff", "sort key: size, size_diff, used, or used_diff")
	flags.Bool("descending", true, "sort largest change first")
	flags.Bool("unify", false, "merge sibling entries that share an abbreviated name")
	flags.Bool("show-unchanged", false, "keep entries whose size did not change")
	flags.Bool("legacy", false, "parse with the regex-only fallback for map files without a \"Memory Configuration\" header")

	viper.BindPFlags(flags)
}

func runDiff(cmd *cobra.Command, args []string) error {
	log := newLogger()

	mapPath := viper.GetString("map")
	refMapPath := viper.GetString("reference-map")
	if mapPath == "" || refMapPath == "" {
		return fmt.Errorf("--map and --reference-map are both required")
	}

	loadSymbols := viper.GetBool("load-symbols")
	catalogPath := viper.GetString("catalog")
	target := viper.GetString("target")
	legacy := viper.GetBool("legacy")

	current, err := buildMemoryMap(buildInputs{
		MapPath: mapPath, ELFPath: viper.GetString("elf"),
		CatalogPath: catalogPath, Target: target, LoadSymbols: loadSymbols, Legacy: legacy,
	}, log)
	if err != nil {
		return err
	}

	reference, err := buildMemoryMap(buildInputs{
		MapPath: refMapPath, ELFPath: viper.GetString("reference-elf"),
		CatalogPath: catalogPath, Target: target, LoadSymbols: loadSymbols, Legacy: legacy,
	}, log)
	if err != nil {
		return err
	}

	d := diffmap.Diff(current, reference)

	depth := parseDepth(viper.GetString("depth"))
	if viper.GetBool("unify") {
		d.Unify()
	}
	d.Trim(memorymap.TrimOptions{
		Depth:         depth,
		DiffMode:      true,
		ShowUnchanged: viper.GetBool("show-unchanged"),
	})
	d.Sort(parseSortKey(viper.GetString("sort")), viper.GetBool("descending"))

	w := postprocess.NewWalker(d, depth)
	return report.WriteTable(os.Stdout, w, report.Options{
		Depth: depth,
		Diff:  true,
		Color: !viper.GetBool("no-color") && isTerminal(),
	})
}
