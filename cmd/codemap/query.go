package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jward/codemap"
)

var flagCategories string

// parseCategories turns the --categories flag into category values.
func parseCategories() []codemap.Category {
	if flagCategories == "" {
		return nil
	}
	var out []codemap.Category
	for _, c := range strings.Split(flagCategories, ",") {
		out = append(out, codemap.Category(strings.ToUpper(strings.TrimSpace(c))))
	}
	return out
}

var symbolsCmd = &cobra.Command{
	Use:   "symbols <name>",
	Short: "List symbols with the given name",
	Args:  cobra.ExactArgs(1),
	RunE:  runSymbols,
}

func init() {
	symbolsCmd.Flags().StringVar(&flagCategories, "categories", "", "comma-separated category filter (e.g. type,function)")
}

func runSymbols(cmd *cobra.Command, args []string) error {
	q, closeFn, err := loadQuery()
	if err != nil {
		return err
	}
	defer closeFn()

	symbols := q.SymbolsNamed(args[0], parseCategories()...)
	return outputResult(toCLISymbols(symbols))
}

var flagReverse bool

var depsCmd = &cobra.Command{
	Use:   "deps <symbol-id>",
	Short: "Walk a symbol's transitive dependencies",
	Long:  "Walks everything the symbol uses, transitively. With --reverse, walks everything using the symbol instead.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeps,
}

func init() {
	depsCmd.Flags().BoolVar(&flagReverse, "reverse", false, "walk dependents instead of dependencies")
}

func runDeps(cmd *cobra.Command, args []string) error {
	q, closeFn, err := loadQuery()
	if err != nil {
		return err
	}
	defer closeFn()

	var visits []codemap.Visit
	if flagReverse {
		visits, err = q.Dependents(args[0])
	} else {
		visits, err = q.Dependencies(args[0])
	}
	if err != nil {
		return err
	}
	return outputResult(toCLIVisits(visits))
}

var flagText string

var relevantCmd = &cobra.Command{
	Use:   "relevant [name...]",
	Short: "Extract minimal relevant source for symbols",
	Long:  "Extracts the minimal covering line ranges for the named symbols, one merged hunk set per file. With --text, symbol names are token-scanned out of the given free text instead.",
	Args:  cobra.ArbitraryArgs,
	RunE:  runRelevant,
}

func init() {
	relevantCmd.Flags().StringVar(&flagText, "text", "", "collect symbol names from free text instead of arguments")
	relevantCmd.Flags().StringVar(&flagCategories, "categories", "", "comma-separated category filter (e.g. type,function)")
}

func runRelevant(cmd *cobra.Command, args []string) error {
	if flagText == "" && len(args) == 0 {
		return fmt.Errorf("pass symbol names or --text")
	}

	q, closeFn, err := loadQuery()
	if err != nil {
		return err
	}
	defer closeFn()

	var sources []*codemap.RelevantSource
	if flagText != "" {
		sources, err = q.RelevantForText(flagText, parseCategories()...)
	} else {
		sources, err = q.RelevantForNames(args, parseCategories()...)
	}
	if err != nil {
		return err
	}
	return outputResult(toCLIRelevant(sources))
}
