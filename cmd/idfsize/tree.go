package main

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/espressif/idfsize/internal/memviz"
	"github.com/espressif/idfsize/memorymap"
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Browse a build's memory map as a tree",
	RunE:  runTree,
}

func init() {
	flags := treeCmd.Flags()
	flags.String("map", "", "path to the linker map file (required)")
	flags.String("elf", "", "path to the application ELF, for per-symbol attribution")
	flags.Bool("interactive", false, "open an expandable tree view instead of printing a dump")
	flags.String("dump-internal", "", "write a .dot dump of the in-memory tree to this path, for debugging the builder itself")
	flags.Bool("legacy", false, "parse with the regex-only fallback for map files without a \"Memory Configuration\" header")

	viper.BindPFlags(flags)
}

func runTree(cmd *cobra.Command, args []string) error {
	log := newLogger()

	mapPath := viper.GetString("map")
	if mapPath == "" {
		return fmt.Errorf("--map is required")
	}

	mm, err := buildMemoryMap(buildInputs{
		MapPath: mapPath, ELFPath: viper.GetString("elf"), LoadSymbols: true, Legacy: viper.GetBool("legacy"),
	}, log)
	if err != nil {
		return err
	}

	if dumpPath := viper.GetString("dump-internal"); dumpPath != "" {
		return memviz.DumpFile(dumpPath, mm)
	}

	if viper.GetBool("interactive") {
		return runInteractiveTree(mm)
	}

	printStaticTree(os.Stdout, mm)
	return nil
}

func printStaticTree(out *os.File, mm *memorymap.MemoryMap) {
	for _, mtName := range mm.MemoryTypes.Keys() {
		mt, _ := mm.MemoryTypes.Get(mtName)
		fmt.Fprintf(out, "%s (%d bytes)\n", mtName, mt.Size)
		for _, secName := range mt.Sections.Keys() {
			sec, _ := mt.Sections.Get(secName)
			fmt.Fprintf(out, "  %s (%d bytes)\n", secName, sec.Size)
		}
	}
}

// runInteractiveTree opens a tview.TreeView over mm, expanding one
// level at a time on selection so a large map stays navigable.
func runInteractiveTree(mm *memorymap.MemoryMap) error {
	root := tview.NewTreeNode(fmt.Sprintf("memory map (%d bytes)", mm.ImageSize)).
		SetColor(tcell.ColorYellow)

	for _, mtName := range mm.MemoryTypes.Keys() {
		mt, _ := mm.MemoryTypes.Get(mtName)
		root.AddChild(memoryTypeNode(mtName, mt))
	}

	view := tview.NewTreeView().
		SetRoot(root).
		SetCurrentNode(root)

	view.SetSelectedFunc(func(node *tview.TreeNode) {
		node.SetExpanded(!node.IsExpanded())
	})

	return tview.NewApplication().SetRoot(view, true).Run()
}

func memoryTypeNode(name string, mt *memorymap.MemoryType) *tview.TreeNode {
	node := tview.NewTreeNode(fmt.Sprintf("%s (%d bytes)", name, mt.Size))
	for _, secName := range mt.Sections.Keys() {
		sec, _ := mt.Sections.Get(secName)
		node.AddChild(sectionNode(secName, sec))
	}
	return node
}

func sectionNode(name string, sec *memorymap.Section) *tview.TreeNode {
	node := tview.NewTreeNode(fmt.Sprintf("%s (%d bytes)", name, sec.Size))
	for _, arcName := range sec.Archives.Keys() {
		arc, _ := sec.Archives.Get(arcName)
		node.AddChild(archiveNode(arcName, arc))
	}
	return node
}

func archiveNode(name string, arc *memorymap.Archive) *tview.TreeNode {
	node := tview.NewTreeNode(fmt.Sprintf("%s (%d bytes)", name, arc.Size))
	for _, objName := range arc.Objects.Keys() {
		obj, _ := arc.Objects.Get(objName)
		node.AddChild(objectNode(objName, obj))
	}
	return node
}

func objectNode(name string, obj *memorymap.Object) *tview.TreeNode {
	node := tview.NewTreeNode(fmt.Sprintf("%s (%d bytes)", name, obj.Size))
	for _, symName := range obj.Symbols.Keys() {
		sym, _ := obj.Symbols.Get(symName)
		node.AddChild(tview.NewTreeNode(fmt.Sprintf("%s (%d bytes)", symName, sym.Size)))
	}
	return node
}
