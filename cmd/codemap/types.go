package main

import (
	"strings"

	"github.com/jward/codemap"
)

// CLISymbol is the JSON-friendly projection of a symbol.
type CLISymbol struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Path     string `json:"path"`
	Begin    int    `json:"begin"`
	End      int    `json:"end"`
}

// CLIVisit is one step of a dependency walk.
type CLIVisit struct {
	CLISymbol
	Depth int `json:"depth"`
}

// CLIRelevant is the extraction result for one file.
type CLIRelevant struct {
	Path      string   `json:"path"`
	SymbolIDs []string `json:"symbol_ids"`
	Hunks     []string `json:"hunks"`
}

func toCLISymbol(s *codemap.Symbol) CLISymbol {
	return CLISymbol{
		ID:       s.ID(),
		Name:     s.Name,
		Category: string(s.Category),
		Path:     s.Path,
		Begin:    s.Block.Begin,
		End:      s.Block.End,
	}
}

func toCLISymbols(symbols []*codemap.Symbol) []CLISymbol {
	out := make([]CLISymbol, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, toCLISymbol(s))
	}
	return out
}

func toCLIVisits(visits []codemap.Visit) []CLIVisit {
	out := make([]CLIVisit, 0, len(visits))
	for _, v := range visits {
		out = append(out, CLIVisit{CLISymbol: toCLISymbol(v.Symbol), Depth: v.Depth})
	}
	return out
}

func toCLIRelevant(sources []*codemap.RelevantSource) []CLIRelevant {
	out := make([]CLIRelevant, 0, len(sources))
	for _, rs := range sources {
		hunks := make([]string, 0, len(rs.Hunks))
		for _, h := range rs.Hunks {
			hunks = append(hunks, strings.Join(h.Lines(), "\n"))
		}
		out = append(out, CLIRelevant{
			Path:      rs.Document.Path,
			SymbolIDs: rs.SymbolIDs,
			Hunks:     hunks,
		})
	}
	return out
}
