package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/espressif/idfsize/elfreader"
	"github.com/espressif/idfsize/mapfile"
	"github.com/espressif/idfsize/postprocess"
)

var archivesCmd = &cobra.Command{
	Use:   "archives",
	Short: "Summarize size per archive, or print the archive dependency graph",
	RunE:  runArchives,
}

func init() {
	flags := archivesCmd.Flags()
	flags.String("map", "", "path to the linker map file (required)")
	flags.String("elf", "", "path to the application ELF, for per-symbol attribution")
	flags.Bool("objects", false, "break the summary down by object file instead of archive")
	flags.String("symbols-of", "", "list per-symbol sizes for one archive instead of the flat summary")
	flags.Bool("deps", false, "print the archive dependency graph instead of a size summary")
	flags.Bool("legacy", false, "parse with the regex-only fallback for map files without a \"Memory Configuration\" header")

	viper.BindPFlags(flags)
}

func runArchives(cmd *cobra.Command, args []string) error {
	log := newLogger()

	mapPath := viper.GetString("map")
	if mapPath == "" {
		return fmt.Errorf("--map is required")
	}
	legacy := viper.GetBool("legacy")

	if viper.GetBool("deps") {
		mapData, err := os.ReadFile(mapPath)
		if err != nil {
			return err
		}
		var mapResult *mapfile.Result
		if legacy {
			mapResult, err = mapfile.ParseLegacy(string(mapData), "")
		} else {
			mapResult, err = mapfile.Parse(string(mapData), "", log)
		}
		if err != nil {
			return err
		}
		return printArchiveDeps(mapResult, viper.GetString("elf"))
	}

	mm, err := buildMemoryMap(buildInputs{
		MapPath: mapPath, ELFPath: viper.GetString("elf"), LoadSymbols: true, Legacy: legacy,
	}, log)
	if err != nil {
		return err
	}

	if archive := viper.GetString("symbols-of"); archive != "" {
		summary, err := postprocess.SymbolSummary(mm, archive)
		if err != nil {
			return err
		}
		printSummary(summary)
		return nil
	}

	if viper.GetBool("objects") {
		printSummary(postprocess.ObjectSummary(mm))
		return nil
	}

	printSummary(postprocess.ArchiveSummary(mm))
	return nil
}

func printSummary(summary map[string]*postprocess.SummaryEntry) {
	names := make([]string, 0, len(summary))
	for name := range summary {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return summary[names[i]].Size > summary[names[j]].Size })

	for _, name := range names {
		fmt.Printf("%-48s %d\n", name, summary[name].Size)
	}
}

func printArchiveDeps(mapResult *mapfile.Result, elfPath string) error {
	var elfSymbols []elfreader.Symbol
	if elfPath != "" {
		elf, err := elfreader.Open(elfPath)
		if err != nil {
			return err
		}
		elfSymbols, err = elf.Symbols()
		if err != nil {
			return err
		}
	}

	deps := postprocess.BuildArchiveDependencies(mapResult.XRef, elfSymbols)

	archives := make([]string, 0, len(deps.Forward))
	for archive := range deps.Forward {
		archives = append(archives, archive)
	}
	sort.Strings(archives)

	for _, archive := range archives {
		targets := make([]string, 0, len(deps.Forward[archive]))
		for target := range deps.Forward[archive] {
			targets = append(targets, target)
		}
		sort.Strings(targets)
		fmt.Printf("%s -> %v\n", archive, targets)
	}
	return nil
}
