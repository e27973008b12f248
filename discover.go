package codemap

import (
	"bytes"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	ignore "github.com/sabhiram/go-gitignore"
)

// skipDirs are excluded from the filesystem-walk fallback.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"bin":          true,
	"obj":          true,
}

// discover lists the project-relative paths of supported files under root.
// Inside a git repository, git ls-files is used so .gitignore is respected;
// otherwise a filesystem walk with local .gitignore matching takes over.
func (e *Engine) discover(root string) ([]string, error) {
	excludes, err := compileExcludes(e.excludes)
	if err != nil {
		return nil, err
	}

	rels, err := gitListFiles(root)
	if err != nil {
		rels, err = walkListFiles(root)
		if err != nil {
			return nil, err
		}
	}

	var out []string
	for _, rel := range rels {
		if e.parserFor(rel) == nil {
			continue
		}
		if matchesAny(excludes, filepath.ToSlash(rel)) {
			continue
		}
		out = append(out, rel)
	}
	sort.Strings(out)
	return out, nil
}

func compileExcludes(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("exclude pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

func matchesAny(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

// gitListFiles uses git ls-files to discover tracked and untracked (but not
// ignored) files under root.
func gitListFiles(root string) ([]string, error) {
	// --cached: tracked files, --others: untracked files,
	// --exclude-standard: respect .gitignore, .git/info/exclude, global excludes.
	cmd := exec.Command("git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	var rels []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rels = append(rels, filepath.FromSlash(line))
	}
	return rels, nil
}

// walkListFiles discovers files by walking the filesystem, used as a
// fallback when git is not available. Skips hidden directories, the usual
// build output directories, and anything matched by a root .gitignore.
func walkListFiles(root string) ([]string, error) {
	gi, _ := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))

	var rels []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			name := d.Name()
			if rel != "." && (strings.HasPrefix(name, ".") || skipDirs[name]) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") {
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		rels = append(rels, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return rels, nil
}
