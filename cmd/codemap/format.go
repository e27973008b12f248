package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// formatSymbolsText formats CLISymbol results as aligned columns.
func formatSymbolsText(w io.Writer, syms []CLISymbol) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tPATH\tLINES\tID")
	for _, s := range syms {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d:%d\t%s\n",
			s.Name, s.Category, s.Path, s.Begin, s.End, s.ID)
	}
	tw.Flush()
}

// formatVisitsText formats dependency walks as an indented tree.
func formatVisitsText(w io.Writer, visits []CLIVisit) {
	for _, v := range visits {
		fmt.Fprintf(w, "%s%s (%s) %s:%d\n",
			strings.Repeat("  ", v.Depth-1), v.Name, v.Category, v.Path, v.Begin)
	}
}

// formatRelevantText prints each file's merged hunks with a header line.
func formatRelevantText(w io.Writer, sources []CLIRelevant) {
	for i, rs := range sources {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "==> %s (%d symbol(s))\n", rs.Path, len(rs.SymbolIDs))
		for _, hunk := range rs.Hunks {
			fmt.Fprintln(w, hunk)
		}
	}
}

// outputResult writes the result to stdout in the selected format.
func outputResult(result any) error {
	w := io.Writer(os.Stdout)

	if flagFormat == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	switch v := result.(type) {
	case []CLISymbol:
		formatSymbolsText(w, v)
	case []CLIVisit:
		formatVisitsText(w, v)
	case []CLIRelevant:
		formatRelevantText(w, v)
	case nil:
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
