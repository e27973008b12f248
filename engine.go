package codemap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/jward/codemap/internal/graph"
	"github.com/jward/codemap/internal/parser"
)

// Engine orchestrates the indexing pipeline: file discovery, per-file
// parsing, cross-referencing and snapshot publication. The published map is
// immutable; concurrent readers are safe while the next run builds its
// replacement.
type Engine struct {
	languages   map[string]bool // nil means all registered parsers
	excludes    []string
	hashedIDs   bool
	useParallel bool

	snapshot atomic.Pointer[graph.CodeMap]

	mu       sync.Mutex
	warnings []string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLanguages restricts indexing to the named parsers (case-insensitive
// parser names, e.g. "csharp").
func WithLanguages(languages ...string) Option {
	return func(e *Engine) {
		e.languages = make(map[string]bool, len(languages))
		for _, lang := range languages {
			e.languages[strings.ToLower(lang)] = true
		}
	}
}

// WithParallel controls parallel parsing. When true (default), IndexFiles
// parses files on a worker pool and merges the per-file maps serially. Set
// to false for serial mode.
func WithParallel(parallel bool) Option {
	return func(e *Engine) {
		e.useParallel = parallel
	}
}

// WithHashedIDs makes symbol identities opaque SHA-1 digests instead of
// readable path/block/category/name tuples.
func WithHashedIDs(hashed bool) Option {
	return func(e *Engine) {
		e.hashedIDs = hashed
	}
}

// WithExcludes skips files whose project-relative slash path matches any of
// the glob patterns during directory discovery.
func WithExcludes(patterns ...string) Option {
	return func(e *Engine) {
		e.excludes = append(e.excludes, patterns...)
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{useParallel: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Snapshot returns the most recently published map, or nil before the first
// successful index run.
func (e *Engine) Snapshot() *graph.CodeMap {
	return e.snapshot.Load()
}

// Warnings returns the integrity warnings reported by the last
// cross-reference pass.
func (e *Engine) Warnings() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.warnings...)
}

// fileRef pairs the path used as map key (project-relative) with the
// location the content is read from.
type fileRef struct {
	key      string
	location string
}

// IndexDirectory discovers supported files under root and indexes them.
// Symbol paths are root-relative so identities stay stable across checkouts.
func (e *Engine) IndexDirectory(ctx context.Context, root string) error {
	rels, err := e.discover(root)
	if err != nil {
		return err
	}
	refs := make([]fileRef, 0, len(rels))
	for _, rel := range rels {
		refs = append(refs, fileRef{key: filepath.ToSlash(rel), location: filepath.Join(root, rel)})
	}
	return e.index(ctx, refs)
}

// IndexFiles indexes the given file paths, used verbatim as symbol paths.
// Unsupported or filtered-out files are skipped silently.
func (e *Engine) IndexFiles(ctx context.Context, paths []string) error {
	refs := make([]fileRef, 0, len(paths))
	for _, path := range paths {
		refs = append(refs, fileRef{key: filepath.ToSlash(path), location: path})
	}
	return e.index(ctx, refs)
}

// index runs the full pipeline and publishes the resulting map. Errors on
// individual files are collected and reported; processing continues.
func (e *Engine) index(ctx context.Context, refs []fileRef) error {
	var results []parseResult
	if e.useParallel {
		results = e.parseAllParallel(ctx, refs)
	} else {
		results = e.parseAllSerial(ctx, refs)
	}

	m := graph.New(e.hashedIDs)
	parsers := make(map[string]parser.Parser)
	var errs []error
	for _, res := range results {
		if res.err != nil {
			errs = append(errs, fmt.Errorf("index %s: %w", res.ref.key, res.err))
			continue
		}
		if res.m == nil {
			continue
		}
		if err := m.Merge(res.m); err != nil {
			errs = append(errs, fmt.Errorf("merge %s: %w", res.ref.key, err))
			continue
		}
		parsers[res.ref.key] = res.parser
	}

	// Format-specific resolution runs before the generic engine so that
	// string-typed references never reach it.
	keys := make([]string, 0, len(parsers))
	for key := range parsers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if cr, ok := parsers[key].(parser.CrossReferencer); ok {
			if err := cr.CrossReference(m, key); err != nil {
				errs = append(errs, fmt.Errorf("cross-reference %s: %w", key, err))
			}
		}
	}

	warnings := m.CrossReference()
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "codemap: integrity: %s\n", w)
	}

	e.snapshot.Store(m)
	e.mu.Lock()
	e.warnings = warnings
	e.mu.Unlock()

	if len(errs) > 0 {
		return fmt.Errorf("indexing had %d error(s): %w", len(errs), errs[0])
	}
	return nil
}

// parseOne parses a single file into an isolated map. A nil map with nil
// error means the file is unsupported or filtered out.
func (e *Engine) parseOne(ref fileRef) (*graph.CodeMap, parser.Parser, error) {
	p := e.parserFor(ref.key)
	if p == nil {
		return nil, nil, nil
	}
	content, err := os.ReadFile(ref.location)
	if err != nil {
		return nil, nil, fmt.Errorf("read file: %w", err)
	}
	fm := graph.New(e.hashedIDs)
	if err := p.Parse(fm, ref.key, content); err != nil {
		return nil, nil, err
	}
	return fm, p, nil
}

// parserFor applies the language filter on top of extension detection.
func (e *Engine) parserFor(path string) parser.Parser {
	p := parser.Detect(path)
	if p == nil {
		return nil
	}
	if e.languages != nil && !e.languages[strings.ToLower(p.Name())] {
		return nil
	}
	return p
}

func (e *Engine) parseAllSerial(ctx context.Context, refs []fileRef) []parseResult {
	results := make([]parseResult, 0, len(refs))
	for _, ref := range refs {
		if ctx.Err() != nil {
			results = append(results, parseResult{ref: ref, err: ctx.Err()})
			continue
		}
		fm, p, err := e.parseOne(ref)
		results = append(results, parseResult{ref: ref, m: fm, parser: p, err: err})
	}
	return results
}
