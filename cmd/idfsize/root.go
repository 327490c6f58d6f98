package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "idfsize",
	Short: "Inspect a firmware image's memory usage from its linker map and ELF",
	Long: `idfsize builds a memory-type/section/archive/object/symbol map of a
built firmware image from its linker map file, with optional ELF and
DWARF input for per-symbol attribution, and reports or diffs it
against a previous build.`,
	// Every subcommand registers flags under the same viper keys (map,
	// elf, depth, ...); rebinding to the running command's flags makes
	// its own flags, not the last-registered subcommand's, back them.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return viper.BindPFlags(cmd.Flags())
	},
}

// Execute runs the root command. It is called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.idfsize.yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colorized output even on a terminal")
	viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color"))

	rootCmd.AddCommand(analyzeCmd, diffCmd, archivesCmd, treeCmd)
	cobra.OnInitialize(initConfig)
}

// initConfig reads .idfsize.yaml from the working directory or the
// user's home directory, and environment variables prefixed IDFSIZE_,
// layering them under explicit flags the way viper's precedence rules
// already do.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".idfsize")
	}

	viper.SetEnvPrefix("idfsize")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "using config file:", viper.ConfigFileUsed())
	}
}
