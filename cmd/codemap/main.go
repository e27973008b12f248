package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jward/codemap"
	"github.com/jward/codemap/internal/config"
	"github.com/jward/codemap/internal/store"
)

var (
	flagDB     string
	flagFormat string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "codemap",
	Short:         "Cross-referenced code maps and relevant-source extraction",
	Long:          "Codemap indexes source code with tree-sitter, cross-references symbols into a dependency graph, and extracts minimal relevant source for a set of symbols.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
	// No Run — prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default from .codemap.toml, else .codemap/index.db)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format: json|text")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(depsCmd)
	rootCmd.AddCommand(relevantCmd)
}

var (
	flagForce     bool
	flagLanguages string
	flagSerial    bool
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index a project and persist the cross-referenced map",
	Long:  "Parses source files with tree-sitter, cross-references symbols into a dependency graph, and writes the snapshot to the SQLite database.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&flagForce, "force", false, "delete database and reindex from scratch")
	indexCmd.Flags().StringVar(&flagLanguages, "languages", "", "comma-separated parser filter (e.g. csharp,cshtml)")
	indexCmd.Flags().BoolVar(&flagSerial, "serial", false, "disable the parallel parsing pipeline")
}

func runIndex(cmd *cobra.Command, args []string) error {
	start := time.Now()

	root, err := resolveTargetDir(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dbPath := resolveDBPath(root, cfg)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err)
	}

	if flagForce {
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing database for --force: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Cleared database: %s\n", dbPath)
	}

	opts := []codemap.Option{
		codemap.WithParallel(cfg.ParallelEnabled() && !flagSerial),
		codemap.WithHashedIDs(cfg.HashedIDs),
		codemap.WithExcludes(cfg.Exclude...),
	}
	languages := cfg.Languages
	if flagLanguages != "" {
		languages = strings.Split(flagLanguages, ",")
		for i := range languages {
			languages[i] = strings.TrimSpace(languages[i])
		}
	}
	if len(languages) > 0 {
		opts = append(opts, codemap.WithLanguages(languages...))
	}

	engine := codemap.New(opts...)
	if err := engine.IndexDirectory(context.Background(), root); err != nil {
		return fmt.Errorf("indexing: %w", err)
	}

	s, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()
	if err := s.Migrate(); err != nil {
		return fmt.Errorf("migrating store: %w", err)
	}
	if err := s.Save(engine.Snapshot()); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	m := engine.Snapshot()
	fmt.Fprintf(os.Stderr, "Indexed %d files, %d symbols in %s (%d warning(s))\n",
		len(m.Sources), len(m.Symbols),
		time.Since(start).Round(time.Millisecond),
		len(engine.Warnings()),
	)
	fmt.Fprintf(os.Stderr, "Database: %s\n", dbPath)

	return nil
}

// loadQuery opens the persisted snapshot for the query commands.
func loadQuery() (*codemap.Query, func(), error) {
	root, err := resolveTargetDir(nil)
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	dbPath := resolveDBPath(root, cfg)
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}
	m, err := s.Load()
	if err != nil {
		s.Close()
		return nil, nil, fmt.Errorf("loading snapshot from %s: %w", dbPath, err)
	}
	return codemap.NewQuery(m), func() { s.Close() }, nil
}

// resolveTargetDir returns the absolute path of the directory to work in.
func resolveTargetDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("directory not found: %s", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	return abs, nil
}

// resolveDBPath returns the database path from the --db flag or the config.
func resolveDBPath(root string, cfg *config.Config) string {
	path := cfg.Database
	if flagDB != "" {
		path = flagDB
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
