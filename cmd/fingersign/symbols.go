package main

import (
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ayusman/fingersign/internal/gesture"
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "Print the finger-state symbol table as YAML",
	Long: `Print every finger-state key and its label. A key lists the thumb, index,
middle, ring and pinky finger in that order, 1 for extended and 0 for folded.
Keys missing from the table are shown as "` + gesture.Unknown + `".`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeSymbols(cmd.OutOrStdout(), gesture.DefaultSymbolTable())
	},
}

func writeSymbols(w io.Writer, table *gesture.SymbolTable) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(struct {
		Symbols []gesture.Symbol `yaml:"symbols"`
	}{table.Entries()}); err != nil {
		return err
	}
	return enc.Close()
}

func init() {
	rootCmd.AddCommand(symbolsCmd)
}
