package codemap

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/jward/codemap/internal/graph"
	"github.com/jward/codemap/internal/parser"
)

// parseResult is the outcome of parsing one file.
type parseResult struct {
	ref    fileRef
	m      *graph.CodeMap
	parser parser.Parser
	err    error
}

// parseAllParallel parses files using a worker pool:
//
//	Phase A (serial):   queue the file refs.
//	Phase B (parallel): parse each file into an isolated per-file map.
//	Phase C (serial):   order results by key for a deterministic merge.
//
// Per-file maps share nothing, so workers need no coordination beyond the
// channels.
func (e *Engine) parseAllParallel(ctx context.Context, refs []fileRef) []parseResult {
	if len(refs) == 0 {
		return nil
	}

	numWorkers := min(runtime.NumCPU(), len(refs))
	if numWorkers < 1 {
		numWorkers = 1
	}

	workCh := make(chan fileRef, len(refs))
	for _, ref := range refs {
		workCh <- ref
	}
	close(workCh)

	resultCh := make(chan parseResult, len(refs))

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ref := range workCh {
				if ctx.Err() != nil {
					resultCh <- parseResult{ref: ref, err: ctx.Err()}
					continue
				}
				fm, p, err := e.parseOne(ref)
				resultCh <- parseResult{ref: ref, m: fm, parser: p, err: err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]parseResult, 0, len(refs))
	for res := range resultCh {
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ref.key < results[j].ref.key })
	return results
}
